package domain

import "time"

type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"
	OrderCompleted OrderStatus = "completed"
)

// Order is a posted quest with a limited number of participant slots
// and a reward-point payout minted on approval.
type Order struct {
	ID           uint        `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Rank         Rank        `json:"rank"`
	MaxSlots     int         `json:"max_slots"`
	TakenSlots   int         `json:"taken_slots"`
	RewardPoints int         `json:"reward_points"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (o Order) IsFull() bool {
	return o.TakenSlots >= o.MaxSlots
}

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

// OrderClaim is a participant's request to be credited for completing an Order.
// Claims are never deleted; only status changes after creation.
type OrderClaim struct {
	ID           uint        `json:"id"`
	OrderID      uint        `json:"order_id"`
	StudentName  string      `json:"student_name"`
	StudentGroup string      `json:"student_group"`
	Comment      string      `json:"comment"`
	Status       ClaimStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ClaimWithOrder is the aggregate loaded for the approval path. Order is nil
// when the order has since been deleted; such claims keep their history but
// can no longer be approved.
type ClaimWithOrder struct {
	Claim OrderClaim `json:"claim"`
	Order *Order     `json:"order,omitempty"`
}
