package domain

import "time"

// Moderator is the privileged caller: posts orders, curates the reward
// catalog and decides claims and purchases.
type Moderator struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
