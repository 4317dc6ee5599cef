package domain

// Rank is an ordinal quest-difficulty tag. It suggests a reward-point band
// but does not enforce it.
type Rank string

const (
	RankSS Rank = "SS"
	RankS  Rank = "S"
	RankA  Rank = "A"
	RankB  Rank = "B"
	RankC  Rank = "C"
	RankD  Rank = "D"
	RankE  Rank = "E"
	RankF  Rank = "F"
)

// Ranks lists all ranks, highest first.
var Ranks = []Rank{RankSS, RankS, RankA, RankB, RankC, RankD, RankE, RankF}

var rankBands = map[Rank][2]int{
	RankSS: {500, 1000},
	RankS:  {250, 500},
	RankA:  {100, 250},
	RankB:  {50, 100},
	RankC:  {25, 50},
	RankD:  {10, 25},
	RankE:  {5, 15},
	RankF:  {5, 10},
}

func (r Rank) IsValid() bool {
	_, ok := rankBands[r]
	return ok
}

// PointBand returns the suggested min/max reward points for the rank.
func (r Rank) PointBand() (min, max int) {
	band := rankBands[r]
	return band[0], band[1]
}

// InBand reports whether points fall inside the rank's suggested band.
func (r Rank) InBand(points int) bool {
	min, max := r.PointBand()
	return points >= min && points <= max
}
