package domain

import "time"

// Reward is a catalog item purchasable with accumulated points. Inactive
// rewards are hidden from participants but stay visible to moderators so
// historical purchases keep their context.
type Reward struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseApproved  PurchaseStatus = "approved"
	PurchaseRejected  PurchaseStatus = "rejected"
	PurchaseDelivered PurchaseStatus = "delivered"
)

// MaxPurchaseQuantity caps a single purchase request.
const MaxPurchaseQuantity = 10

// RewardPurchase is a participant's request to redeem points for a Reward.
// TotalPrice is snapshotted at submission and never recomputed, even if the
// reward's price changes later.
type RewardPurchase struct {
	ID           uint           `json:"id"`
	RewardID     uint           `json:"reward_id"`
	StudentName  string         `json:"student_name"`
	StudentGroup string         `json:"student_group"`
	Quantity     int            `json:"quantity"`
	TotalPrice   int            `json:"total_price"`
	Comment      string         `json:"comment"`
	Status       PurchaseStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

// PurchaseWithReward is the aggregate loaded for the approval path and for
// moderator listings. Reward is nil when the reward has since been deleted.
type PurchaseWithReward struct {
	Purchase RewardPurchase `json:"purchase"`
	Reward   *Reward        `json:"reward,omitempty"`
}
