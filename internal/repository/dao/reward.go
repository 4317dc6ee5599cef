package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRewardNotFound           = errors.New("reward not found")
	ErrPurchaseNotFound         = errors.New("purchase not found")
	ErrPurchaseAlreadyProcessed = errors.New("purchase already processed")
)

type Reward struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	Price       int  `gorm:"not null"`
	IsActive    bool `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RewardPurchase struct {
	ID uint `gorm:"primaryKey"`
	// RewardID is nullable so deleting the reward orphans the purchase
	// instead of cascading into history.
	RewardID     *uint   `gorm:"index"`
	Reward       *Reward `gorm:"foreignKey:RewardID;constraint:OnDelete:SET NULL"`
	StudentName  string  `gorm:"not null"`
	StudentGroup string  `gorm:"not null"`
	Quantity     int     `gorm:"not null"`
	TotalPrice   int     `gorm:"not null"`
	Comment      string
	Status       string `gorm:"not null;default:pending;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RewardDAO struct {
	db *gorm.DB
}

func NewRewardDAO(db *gorm.DB) *RewardDAO {
	return &RewardDAO{
		db: db,
	}
}

func (d *RewardDAO) Insert(ctx context.Context, reward Reward) (Reward, error) {
	result := d.db.WithContext(ctx).Create(&reward)
	if result.Error != nil {
		return Reward{}, result.Error
	}

	return reward, nil
}

func (d *RewardDAO) FindByID(ctx context.Context, id uint) (Reward, error) {
	var reward Reward

	result := d.db.WithContext(ctx).First(&reward, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Reward{}, ErrRewardNotFound
		}

		return Reward{}, result.Error
	}

	return reward, nil
}

func (d *RewardDAO) FindAll(ctx context.Context, activeOnly bool) ([]Reward, error) {
	var rewards []Reward

	query := d.db.WithContext(ctx).Order("price ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if result := query.Find(&rewards); result.Error != nil {
		return nil, result.Error
	}

	return rewards, nil
}

func (d *RewardDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Reward{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRewardNotFound
	}

	return nil
}

func (d *RewardDAO) SetActive(ctx context.Context, id uint, active bool) error {
	result := d.db.WithContext(ctx).Model(&Reward{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRewardNotFound
	}

	return nil
}

func (d *RewardDAO) InsertPurchase(ctx context.Context, purchase RewardPurchase) (RewardPurchase, error) {
	result := d.db.WithContext(ctx).Create(&purchase)
	if result.Error != nil {
		return RewardPurchase{}, result.Error
	}

	return purchase, nil
}

func (d *RewardDAO) FindPurchaseByID(ctx context.Context, id uint) (RewardPurchase, error) {
	var purchase RewardPurchase

	result := d.db.WithContext(ctx).Preload("Reward").First(&purchase, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return RewardPurchase{}, ErrPurchaseNotFound
		}

		return RewardPurchase{}, result.Error
	}

	return purchase, nil
}

func (d *RewardDAO) FindPurchases(ctx context.Context, status string) ([]RewardPurchase, error) {
	var purchases []RewardPurchase

	query := d.db.WithContext(ctx).Preload("Reward").Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if result := query.Find(&purchases); result.Error != nil {
		return nil, result.Error
	}

	return purchases, nil
}

// UpdatePurchaseStatus flips a purchase from one status to another in a
// single conditional update, so the current-status precondition and the
// change are one atomic step.
func (d *RewardDAO) UpdatePurchaseStatus(ctx context.Context, id uint, from, to string) error {
	result := d.db.WithContext(ctx).Model(&RewardPurchase{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var purchase RewardPurchase
		if err := d.db.WithContext(ctx).First(&purchase, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseNotFound
			}
			return err
		}

		return ErrPurchaseAlreadyProcessed
	}

	return nil
}
