package repository

import (
	"context"
	"fmt"

	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/repository/dao"
)

var (
	ErrRewardNotFound           = dao.ErrRewardNotFound
	ErrPurchaseNotFound         = dao.ErrPurchaseNotFound
	ErrPurchaseAlreadyProcessed = dao.ErrPurchaseAlreadyProcessed
)

type RewardDAO interface {
	Insert(ctx context.Context, reward dao.Reward) (dao.Reward, error)
	FindByID(ctx context.Context, id uint) (dao.Reward, error)
	FindAll(ctx context.Context, activeOnly bool) ([]dao.Reward, error)
	Delete(ctx context.Context, id uint) error
	SetActive(ctx context.Context, id uint, active bool) error
	InsertPurchase(ctx context.Context, purchase dao.RewardPurchase) (dao.RewardPurchase, error)
	FindPurchaseByID(ctx context.Context, id uint) (dao.RewardPurchase, error)
	FindPurchases(ctx context.Context, status string) ([]dao.RewardPurchase, error)
	UpdatePurchaseStatus(ctx context.Context, id uint, from, to string) error
}

type RewardRepository struct {
	dao RewardDAO
}

func NewRewardRepository(dao RewardDAO) *RewardRepository {
	return &RewardRepository{
		dao: dao,
	}
}

func (r *RewardRepository) CreateReward(ctx context.Context, reward domain.Reward) (domain.Reward, error) {
	created, err := r.dao.Insert(ctx, dao.Reward{
		Title:       reward.Title,
		Description: reward.Description,
		Price:       reward.Price,
		IsActive:    reward.IsActive,
	})
	if err != nil {
		return domain.Reward{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.rewardDaoToDomain(created), nil
}

func (r *RewardRepository) FindRewardByID(ctx context.Context, id uint) (domain.Reward, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Reward{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.rewardDaoToDomain(found), nil
}

func (r *RewardRepository) FindRewards(ctx context.Context, activeOnly bool) ([]domain.Reward, error) {
	found, err := r.dao.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	rewards := make([]domain.Reward, len(found))
	for i, rw := range found {
		rewards[i] = r.rewardDaoToDomain(rw)
	}

	return rewards, nil
}

func (r *RewardRepository) DeleteReward(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *RewardRepository) SetRewardActive(ctx context.Context, id uint, active bool) error {
	if err := r.dao.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("r.dao.SetActive -> %w", err)
	}

	return nil
}

func (r *RewardRepository) CreatePurchase(ctx context.Context, purchase domain.RewardPurchase) (domain.RewardPurchase, error) {
	created, err := r.dao.InsertPurchase(ctx, dao.RewardPurchase{
		RewardID:     &purchase.RewardID,
		StudentName:  purchase.StudentName,
		StudentGroup: purchase.StudentGroup,
		Quantity:     purchase.Quantity,
		TotalPrice:   purchase.TotalPrice,
		Comment:      purchase.Comment,
		Status:       string(domain.PurchasePending),
	})
	if err != nil {
		return domain.RewardPurchase{}, fmt.Errorf("r.dao.InsertPurchase -> %w", err)
	}

	return r.purchaseDaoToDomain(created), nil
}

func (r *RewardRepository) FindPurchaseByID(ctx context.Context, id uint) (domain.PurchaseWithReward, error) {
	found, err := r.dao.FindPurchaseByID(ctx, id)
	if err != nil {
		return domain.PurchaseWithReward{}, fmt.Errorf("r.dao.FindPurchaseByID -> %w", err)
	}

	return r.purchaseWithRewardDaoToDomain(found), nil
}

func (r *RewardRepository) FindPurchases(ctx context.Context, status domain.PurchaseStatus) ([]domain.PurchaseWithReward, error) {
	found, err := r.dao.FindPurchases(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPurchases -> %w", err)
	}

	purchases := make([]domain.PurchaseWithReward, len(found))
	for i, p := range found {
		purchases[i] = r.purchaseWithRewardDaoToDomain(p)
	}

	return purchases, nil
}

func (r *RewardRepository) UpdatePurchaseStatus(ctx context.Context, id uint, from, to domain.PurchaseStatus) error {
	if err := r.dao.UpdatePurchaseStatus(ctx, id, string(from), string(to)); err != nil {
		return fmt.Errorf("r.dao.UpdatePurchaseStatus -> %w", err)
	}

	return nil
}

func (r *RewardRepository) rewardDaoToDomain(rw dao.Reward) domain.Reward {
	return domain.Reward{
		ID:          rw.ID,
		Title:       rw.Title,
		Description: rw.Description,
		Price:       rw.Price,
		IsActive:    rw.IsActive,
		CreatedAt:   rw.CreatedAt,
	}
}

func (r *RewardRepository) purchaseDaoToDomain(p dao.RewardPurchase) domain.RewardPurchase {
	var rewardID uint
	if p.RewardID != nil {
		rewardID = *p.RewardID
	}

	return domain.RewardPurchase{
		ID:           p.ID,
		RewardID:     rewardID,
		StudentName:  p.StudentName,
		StudentGroup: p.StudentGroup,
		Quantity:     p.Quantity,
		TotalPrice:   p.TotalPrice,
		Comment:      p.Comment,
		Status:       domain.PurchaseStatus(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}

func (r *RewardRepository) purchaseWithRewardDaoToDomain(p dao.RewardPurchase) domain.PurchaseWithReward {
	pw := domain.PurchaseWithReward{
		Purchase: r.purchaseDaoToDomain(p),
	}
	if p.Reward != nil {
		reward := r.rewardDaoToDomain(*p.Reward)
		pw.Reward = &reward
	}

	return pw
}
