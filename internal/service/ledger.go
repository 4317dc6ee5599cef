package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/repository"
)

var (
	ErrStudentNotFound     = repository.ErrStudentNotFound
	ErrInsufficientBalance = repository.ErrInsufficientPoints
)

type LedgerRepository interface {
	UpsertCredit(ctx context.Context, key domain.StudentKey, amount int) (domain.Student, error)
	Debit(ctx context.Context, key domain.StudentKey, amount int) error
	FindByID(ctx context.Context, id uint) (domain.Student, error)
	FindByKey(ctx context.Context, key domain.StudentKey) (domain.Student, error)
	FindAll(ctx context.Context) ([]domain.Student, error)
	SetTotalPoints(ctx context.Context, id uint, total int) (domain.Student, error)
	Delete(ctx context.Context, id uint) error
}

// LedgerService owns the invariant that a student's balance equals approved
// earnings minus approved spends, and that it never goes negative. It is the
// only component that mutates Student.TotalPoints on the credit/debit path.
type LedgerService struct {
	repo LedgerRepository
}

func NewLedgerService(repo LedgerRepository) *LedgerService {
	return &LedgerService{
		repo: repo,
	}
}

// Credit adds points, creating the student on first earn. It never fails on
// a missing student.
func (s *LedgerService) Credit(ctx context.Context, key domain.StudentKey, amount int) (domain.Student, error) {
	student, err := s.repo.UpsertCredit(ctx, key, amount)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.UpsertCredit -> %w", err)
	}

	return student, nil
}

// Debit subtracts points. The sufficiency check and the write are one
// conditional store update, so concurrent debits for the same student can
// never both pass against a stale balance.
func (s *LedgerService) Debit(ctx context.Context, key domain.StudentKey, amount int) error {
	if err := s.repo.Debit(ctx, key, amount); err != nil {
		return fmt.Errorf("s.repo.Debit -> %w", err)
	}

	return nil
}

func (s *LedgerService) GetStudent(ctx context.Context, id uint) (domain.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return student, nil
}

func (s *LedgerService) ListStudents(ctx context.Context) ([]domain.Student, error) {
	students, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return students, nil
}

// AdjustPoints overwrites a student's balance directly. This bypasses the
// credit/debit accounting entirely; it exists as a moderator escape hatch
// and every use is logged with the acting moderator.
func (s *LedgerService) AdjustPoints(ctx context.Context, moderatorID, studentID uint, newTotal int) (domain.Student, error) {
	if newTotal < 0 {
		newTotal = 0
	}

	student, err := s.repo.SetTotalPoints(ctx, studentID, newTotal)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.SetTotalPoints -> %w", err)
	}

	zap.L().Warn("student balance overridden outside the ledger",
		zap.Uint("moderator_id", moderatorID),
		zap.Uint("student_id", studentID),
		zap.Int("new_total", newTotal),
	)

	return student, nil
}

func (s *LedgerService) DeleteStudent(ctx context.Context, moderatorID, studentID uint) error {
	if err := s.repo.Delete(ctx, studentID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	zap.L().Info("student deleted",
		zap.Uint("moderator_id", moderatorID),
		zap.Uint("student_id", studentID),
	)

	return nil
}
