package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrModeratorEmailExists = errors.New("moderator already exists")
	ErrModeratorNotFound    = errors.New("moderator not found")
)

type Moderator struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ModeratorDAO struct {
	db *gorm.DB
}

func NewModeratorDAO(db *gorm.DB) *ModeratorDAO {
	return &ModeratorDAO{
		db: db,
	}
}

func (d *ModeratorDAO) Insert(ctx context.Context, moderator Moderator) (Moderator, error) {
	result := d.db.WithContext(ctx).Create(&moderator)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_moderators_email"`) {
			return Moderator{}, ErrModeratorEmailExists
		}

		return Moderator{}, result.Error
	}

	return moderator, nil
}

func (d *ModeratorDAO) FindByID(ctx context.Context, id uint) (Moderator, error) {
	var moderator Moderator

	result := d.db.WithContext(ctx).First(&moderator, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Moderator{}, ErrModeratorNotFound
		}

		return Moderator{}, result.Error
	}

	return moderator, nil
}

func (d *ModeratorDAO) FindByEmail(ctx context.Context, email string) (Moderator, error) {
	var moderator Moderator

	result := d.db.WithContext(ctx).First(&moderator, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Moderator{}, ErrModeratorNotFound
		}

		return Moderator{}, result.Error
	}

	return moderator, nil
}
