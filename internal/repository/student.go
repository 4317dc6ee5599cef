package repository

import (
	"context"
	"fmt"

	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/repository/dao"
)

var (
	ErrStudentNotFound    = dao.ErrStudentNotFound
	ErrInsufficientPoints = dao.ErrInsufficientPoints
)

type StudentDAO interface {
	UpsertCredit(ctx context.Context, name, group string, amount int) (dao.Student, error)
	Debit(ctx context.Context, name, group string, amount int) error
	FindByID(ctx context.Context, id uint) (dao.Student, error)
	FindByKey(ctx context.Context, name, group string) (dao.Student, error)
	FindAll(ctx context.Context) ([]dao.Student, error)
	SetTotalPoints(ctx context.Context, id uint, total int) (dao.Student, error)
	Delete(ctx context.Context, id uint) error
}

type StudentRepository struct {
	dao StudentDAO
}

func NewStudentRepository(dao StudentDAO) *StudentRepository {
	return &StudentRepository{
		dao: dao,
	}
}

func (r *StudentRepository) UpsertCredit(ctx context.Context, key domain.StudentKey, amount int) (domain.Student, error) {
	credited, err := r.dao.UpsertCredit(ctx, key.Name, key.Group, amount)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.UpsertCredit -> %w", err)
	}

	return r.studentDaoToDomain(credited), nil
}

func (r *StudentRepository) Debit(ctx context.Context, key domain.StudentKey, amount int) error {
	if err := r.dao.Debit(ctx, key.Name, key.Group, amount); err != nil {
		return fmt.Errorf("r.dao.Debit -> %w", err)
	}

	return nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id uint) (domain.Student, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.studentDaoToDomain(found), nil
}

func (r *StudentRepository) FindByKey(ctx context.Context, key domain.StudentKey) (domain.Student, error) {
	found, err := r.dao.FindByKey(ctx, key.Name, key.Group)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.FindByKey -> %w", err)
	}

	return r.studentDaoToDomain(found), nil
}

func (r *StudentRepository) FindAll(ctx context.Context) ([]domain.Student, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	students := make([]domain.Student, len(found))
	for i, s := range found {
		students[i] = r.studentDaoToDomain(s)
	}

	return students, nil
}

func (r *StudentRepository) SetTotalPoints(ctx context.Context, id uint, total int) (domain.Student, error) {
	updated, err := r.dao.SetTotalPoints(ctx, id, total)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.SetTotalPoints -> %w", err)
	}

	return r.studentDaoToDomain(updated), nil
}

func (r *StudentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *StudentRepository) studentDaoToDomain(s dao.Student) domain.Student {
	return domain.Student{
		ID:           s.ID,
		Name:         s.Name,
		StudentGroup: s.StudentGroup,
		TotalPoints:  s.TotalPoints,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
