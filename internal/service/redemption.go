package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/repository"
)

var (
	ErrRewardNotFound           = repository.ErrRewardNotFound
	ErrPurchaseNotFound         = repository.ErrPurchaseNotFound
	ErrPurchaseAlreadyProcessed = repository.ErrPurchaseAlreadyProcessed
	ErrPurchaseNotApproved      = errors.New("purchase is not approved yet")
	ErrInvalidQuantity          = errors.New("invalid purchase quantity")
)

type RewardRepository interface {
	CreateReward(ctx context.Context, reward domain.Reward) (domain.Reward, error)
	FindRewardByID(ctx context.Context, id uint) (domain.Reward, error)
	FindRewards(ctx context.Context, activeOnly bool) ([]domain.Reward, error)
	DeleteReward(ctx context.Context, id uint) error
	SetRewardActive(ctx context.Context, id uint, active bool) error
	CreatePurchase(ctx context.Context, purchase domain.RewardPurchase) (domain.RewardPurchase, error)
	FindPurchaseByID(ctx context.Context, id uint) (domain.PurchaseWithReward, error)
	FindPurchases(ctx context.Context, status domain.PurchaseStatus) ([]domain.PurchaseWithReward, error)
	UpdatePurchaseStatus(ctx context.Context, id uint, from, to domain.PurchaseStatus) error
}

// RedemptionService is the redemption engine: reward-purchase lifecycle and
// balance-sufficiency checks. The balance itself is only ever touched through
// the points ledger.
type RedemptionService struct {
	repo   RewardRepository
	ledger PointsLedger
}

func NewRedemptionService(repo RewardRepository, ledger PointsLedger) *RedemptionService {
	return &RedemptionService{
		repo:   repo,
		ledger: ledger,
	}
}

func (s *RedemptionService) CreateReward(ctx context.Context, reward domain.Reward) (domain.Reward, error) {
	created, err := s.repo.CreateReward(ctx, reward)
	if err != nil {
		return domain.Reward{}, fmt.Errorf("s.repo.CreateReward -> %w", err)
	}

	return created, nil
}

func (s *RedemptionService) ListRewards(ctx context.Context, activeOnly bool) ([]domain.Reward, error) {
	rewards, err := s.repo.FindRewards(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRewards -> %w", err)
	}

	return rewards, nil
}

func (s *RedemptionService) DeleteReward(ctx context.Context, id uint) error {
	if err := s.repo.DeleteReward(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteReward -> %w", err)
	}

	return nil
}

// SetRewardActive hides or re-offers a catalog entry. Deactivating keeps the
// reward visible to moderators so past purchases keep their context.
func (s *RedemptionService) SetRewardActive(ctx context.Context, id uint, active bool) error {
	if err := s.repo.SetRewardActive(ctx, id, active); err != nil {
		return fmt.Errorf("s.repo.SetRewardActive -> %w", err)
	}

	return nil
}

// SubmitPurchase records a redemption request as pending. The total price is
// snapshotted now and never recomputed; the balance is not checked here
// because it is volatile; the authoritative check happens at approval.
func (s *RedemptionService) SubmitPurchase(ctx context.Context, rewardID uint, name, group string, quantity int, comment string) (domain.RewardPurchase, error) {
	if quantity < 1 || quantity > domain.MaxPurchaseQuantity {
		return domain.RewardPurchase{}, ErrInvalidQuantity
	}

	reward, err := s.repo.FindRewardByID(ctx, rewardID)
	if err != nil {
		return domain.RewardPurchase{}, fmt.Errorf("s.repo.FindRewardByID -> %w", err)
	}
	if !reward.IsActive {
		// An inactive reward is not offered; to participants it does not exist.
		return domain.RewardPurchase{}, ErrRewardNotFound
	}

	purchase, err := s.repo.CreatePurchase(ctx, domain.RewardPurchase{
		RewardID:     rewardID,
		StudentName:  name,
		StudentGroup: group,
		Quantity:     quantity,
		TotalPrice:   reward.Price * quantity,
		Comment:      comment,
	})
	if err != nil {
		return domain.RewardPurchase{}, fmt.Errorf("s.repo.CreatePurchase -> %w", err)
	}

	return purchase, nil
}

func (s *RedemptionService) GetPurchase(ctx context.Context, id uint) (domain.PurchaseWithReward, error) {
	purchase, err := s.repo.FindPurchaseByID(ctx, id)
	if err != nil {
		return domain.PurchaseWithReward{}, fmt.Errorf("s.repo.FindPurchaseByID -> %w", err)
	}

	return purchase, nil
}

func (s *RedemptionService) ListPurchases(ctx context.Context, status domain.PurchaseStatus) ([]domain.PurchaseWithReward, error) {
	purchases, err := s.repo.FindPurchases(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindPurchases -> %w", err)
	}

	return purchases, nil
}

// ApprovePurchase debits the snapshotted total price and marks the purchase
// approved. The debit runs first as a conditional store update against the
// current balance; if it fails the purchase has not been touched and stays
// pending. The status flip afterwards is guarded on pending: if another
// moderator won that race the debit is refunded, so the student is never
// charged twice for one purchase.
func (s *RedemptionService) ApprovePurchase(ctx context.Context, pw domain.PurchaseWithReward) (domain.PurchaseWithReward, error) {
	if pw.Purchase.Status != domain.PurchasePending {
		return domain.PurchaseWithReward{}, ErrPurchaseAlreadyProcessed
	}

	key := domain.StudentKey{Name: pw.Purchase.StudentName, Group: pw.Purchase.StudentGroup}
	if err := s.ledger.Debit(ctx, key, pw.Purchase.TotalPrice); err != nil {
		return domain.PurchaseWithReward{}, fmt.Errorf("s.ledger.Debit -> %w", err)
	}

	if err := s.repo.UpdatePurchaseStatus(ctx, pw.Purchase.ID, domain.PurchasePending, domain.PurchaseApproved); err != nil {
		if errors.Is(err, ErrPurchaseAlreadyProcessed) {
			if _, creditErr := s.ledger.Credit(ctx, key, pw.Purchase.TotalPrice); creditErr != nil {
				zap.L().Error("debit refund failed after lost approval race",
					zap.Uint("purchase_id", pw.Purchase.ID),
					zap.Error(creditErr),
				)
			}
		}

		return domain.PurchaseWithReward{}, fmt.Errorf("s.repo.UpdatePurchaseStatus -> %w", err)
	}

	pw.Purchase.Status = domain.PurchaseApproved

	return pw, nil
}

// RejectPurchase flips a pending purchase to rejected. No balance effect.
func (s *RedemptionService) RejectPurchase(ctx context.Context, pw domain.PurchaseWithReward) (domain.PurchaseWithReward, error) {
	if pw.Purchase.Status != domain.PurchasePending {
		return domain.PurchaseWithReward{}, ErrPurchaseAlreadyProcessed
	}

	if err := s.repo.UpdatePurchaseStatus(ctx, pw.Purchase.ID, domain.PurchasePending, domain.PurchaseRejected); err != nil {
		return domain.PurchaseWithReward{}, fmt.Errorf("s.repo.UpdatePurchaseStatus -> %w", err)
	}

	pw.Purchase.Status = domain.PurchaseRejected

	return pw, nil
}

// MarkDelivered records that an approved purchase was handed over. Legal only
// from approved; the debit already happened at approval so the balance is
// untouched.
func (s *RedemptionService) MarkDelivered(ctx context.Context, pw domain.PurchaseWithReward) (domain.PurchaseWithReward, error) {
	switch pw.Purchase.Status {
	case domain.PurchaseApproved:
	case domain.PurchasePending:
		return domain.PurchaseWithReward{}, ErrPurchaseNotApproved
	default:
		return domain.PurchaseWithReward{}, ErrPurchaseAlreadyProcessed
	}

	if err := s.repo.UpdatePurchaseStatus(ctx, pw.Purchase.ID, domain.PurchaseApproved, domain.PurchaseDelivered); err != nil {
		return domain.PurchaseWithReward{}, fmt.Errorf("s.repo.UpdatePurchaseStatus -> %w", err)
	}

	pw.Purchase.Status = domain.PurchaseDelivered

	return pw, nil
}
