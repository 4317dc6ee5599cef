package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderFull             = errors.New("order has no free slots")
	ErrClaimNotFound         = errors.New("claim not found")
	ErrClaimAlreadyProcessed = errors.New("claim already processed")
)

type Order struct {
	ID           uint   `gorm:"primaryKey"`
	Title        string `gorm:"not null"`
	Description  string
	Rank         string `gorm:"not null;index"`
	MaxSlots     int    `gorm:"not null"`
	TakenSlots   int    `gorm:"not null;default:0"`
	RewardPoints int    `gorm:"not null;default:0"`
	Status       string `gorm:"not null;default:open;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OrderClaim struct {
	ID uint `gorm:"primaryKey"`
	// OrderID is nullable so deleting the order orphans the claim instead
	// of cascading into history.
	OrderID      *uint  `gorm:"index"`
	Order        *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:SET NULL"`
	StudentName  string `gorm:"not null"`
	StudentGroup string `gorm:"not null"`
	Comment      string
	Status       string `gorm:"not null;default:pending;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

func (d *OrderDAO) Insert(ctx context.Context, order Order) (Order, error) {
	result := d.db.WithContext(ctx).Create(&order)
	if result.Error != nil {
		return Order{}, result.Error
	}

	return order, nil
}

func (d *OrderDAO) FindByID(ctx context.Context, id uint) (Order, error) {
	var order Order

	result := d.db.WithContext(ctx).First(&order, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

func (d *OrderDAO) FindAll(ctx context.Context, openOnly bool) ([]Order, error) {
	var orders []Order

	query := d.db.WithContext(ctx).Order("created_at DESC")
	if openOnly {
		query = query.Where("status = ?", "open")
	}

	if result := query.Find(&orders); result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// Delete hard-deletes the order. Existing claims are kept; their order
// reference is nulled by the FK constraint and they surface as orphans.
func (d *OrderDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Order{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (d *OrderDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).Model(&Order{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (d *OrderDAO) InsertClaim(ctx context.Context, claim OrderClaim) (OrderClaim, error) {
	result := d.db.WithContext(ctx).Create(&claim)
	if result.Error != nil {
		return OrderClaim{}, result.Error
	}

	return claim, nil
}

func (d *OrderDAO) FindClaimByID(ctx context.Context, id uint) (OrderClaim, error) {
	var claim OrderClaim

	result := d.db.WithContext(ctx).Preload("Order").First(&claim, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return OrderClaim{}, ErrClaimNotFound
		}

		return OrderClaim{}, result.Error
	}

	return claim, nil
}

func (d *OrderDAO) FindClaims(ctx context.Context, status string) ([]OrderClaim, error) {
	var claims []OrderClaim

	query := d.db.WithContext(ctx).Preload("Order").Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if result := query.Find(&claims); result.Error != nil {
		return nil, result.Error
	}

	return claims, nil
}

// UpdateClaimStatus flips a claim from one status to another in a single
// conditional update. The from-status guard doubles as the idempotence check:
// a claim that has already left `from` affects zero rows.
func (d *OrderDAO) UpdateClaimStatus(ctx context.Context, id uint, from, to string) error {
	result := d.db.WithContext(ctx).Model(&OrderClaim{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var claim OrderClaim
		if err := d.db.WithContext(ctx).First(&claim, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClaimNotFound
			}
			return err
		}

		return ErrClaimAlreadyProcessed
	}

	return nil
}

// ApproveClaim runs the claim approval's store mutations in one transaction:
// flip the claim to approved (guarded on pending) and take a slot on the
// order (guarded on capacity). Either guard failing rolls back the whole
// step, so a full order leaves the claim pending and a re-approval never
// consumes a second slot. Returns the order's slot counters after the
// increment so the caller can apply the auto-close policy.
func (d *OrderDAO) ApproveClaim(ctx context.Context, claimID, orderID uint, autoClose bool) (taken, max int, err error) {
	var counters struct {
		TakenSlots int
		MaxSlots   int
	}

	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flip := tx.Model(&OrderClaim{}).
			Where("id = ? AND status = ?", claimID, "pending").
			Update("status", "approved")
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return ErrClaimAlreadyProcessed
		}

		claim := tx.Raw(
			`UPDATE orders
			 SET taken_slots = taken_slots + 1, updated_at = NOW()
			 WHERE id = ? AND taken_slots < max_slots
			 RETURNING taken_slots, max_slots`,
			orderID,
		).Scan(&counters)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrOrderFull
		}

		if autoClose && counters.TakenSlots >= counters.MaxSlots {
			if res := tx.Model(&Order{}).
				Where("id = ? AND status = ?", orderID, "open").
				Update("status", "completed"); res.Error != nil {
				return res.Error
			}
		}

		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return counters.TakenSlots, counters.MaxSlots, nil
}
