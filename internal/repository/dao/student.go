package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrInsufficientPoints = errors.New("insufficient points")
)

type Student struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null;uniqueIndex:idx_students_name_group"`
	StudentGroup string `gorm:"not null;uniqueIndex:idx_students_name_group"`
	TotalPoints  int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type StudentDAO struct {
	db *gorm.DB
}

func NewStudentDAO(db *gorm.DB) *StudentDAO {
	return &StudentDAO{
		db: db,
	}
}

// UpsertCredit adds points to the student's balance, creating the row on
// first earn. The increment happens server-side in the ON CONFLICT clause,
// so concurrent credits for the same student never lose an update.
func (d *StudentDAO) UpsertCredit(ctx context.Context, name, group string, amount int) (Student, error) {
	student := Student{
		Name:         name,
		StudentGroup: group,
		TotalPoints:  amount,
	}

	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}, {Name: "student_group"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_points": gorm.Expr("students.total_points + ?", amount),
			"updated_at":   time.Now(),
		}),
	}).Create(&student)
	if result.Error != nil {
		return Student{}, result.Error
	}

	return d.FindByKey(ctx, name, group)
}

// Debit subtracts points in a single conditional update so the sufficiency
// check reads the balance in the same statement that changes it. Zero rows
// means either the student is missing or the balance is short; the follow-up
// read tells the two apart. A negative balance is never persisted.
func (d *StudentDAO) Debit(ctx context.Context, name, group string, amount int) error {
	result := d.db.WithContext(ctx).Model(&Student{}).
		Where("name = ? AND student_group = ? AND total_points >= ?", name, group, amount).
		Update("total_points", gorm.Expr("total_points - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByKey(ctx, name, group); err != nil {
			return err
		}

		return ErrInsufficientPoints
	}

	return nil
}

func (d *StudentDAO) FindByID(ctx context.Context, id uint) (Student, error) {
	var student Student

	result := d.db.WithContext(ctx).First(&student, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Student{}, ErrStudentNotFound
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) FindByKey(ctx context.Context, name, group string) (Student, error) {
	var student Student

	result := d.db.WithContext(ctx).
		Where("name = ? AND student_group = ?", name, group).
		First(&student)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Student{}, ErrStudentNotFound
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) FindAll(ctx context.Context) ([]Student, error) {
	var students []Student

	result := d.db.WithContext(ctx).Order("total_points DESC").Find(&students)
	if result.Error != nil {
		return nil, result.Error
	}

	return students, nil
}

// SetTotalPoints overwrites the balance directly. This is the moderator
// escape hatch, not a ledger operation; callers are expected to log it.
func (d *StudentDAO) SetTotalPoints(ctx context.Context, id uint, total int) (Student, error) {
	result := d.db.WithContext(ctx).Model(&Student{}).
		Where("id = ?", id).
		Update("total_points", total)
	if result.Error != nil {
		return Student{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Student{}, ErrStudentNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *StudentDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStudentNotFound
	}

	return nil
}
