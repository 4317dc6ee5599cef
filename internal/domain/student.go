package domain

import "time"

// StudentKey is the natural identity of a participant. There is no separate
// account entity; students are created implicitly on their first approved claim.
type StudentKey struct {
	Name  string `json:"name"`
	Group string `json:"student_group"`
}

// Student holds the authoritative point balance for one participant.
// TotalPoints is mutated only by the points ledger and never goes negative.
type Student struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	StudentGroup string    `json:"student_group"`
	TotalPoints  int       `json:"total_points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s Student) Key() StudentKey {
	return StudentKey{Name: s.Name, Group: s.StudentGroup}
}
