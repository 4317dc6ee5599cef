package repository

import (
	"context"
	"fmt"

	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/repository/dao"
)

var (
	ErrOrderNotFound         = dao.ErrOrderNotFound
	ErrOrderFull             = dao.ErrOrderFull
	ErrClaimNotFound         = dao.ErrClaimNotFound
	ErrClaimAlreadyProcessed = dao.ErrClaimAlreadyProcessed
)

type OrderDAO interface {
	Insert(ctx context.Context, order dao.Order) (dao.Order, error)
	FindByID(ctx context.Context, id uint) (dao.Order, error)
	FindAll(ctx context.Context, openOnly bool) ([]dao.Order, error)
	Delete(ctx context.Context, id uint) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	InsertClaim(ctx context.Context, claim dao.OrderClaim) (dao.OrderClaim, error)
	FindClaimByID(ctx context.Context, id uint) (dao.OrderClaim, error)
	FindClaims(ctx context.Context, status string) ([]dao.OrderClaim, error)
	UpdateClaimStatus(ctx context.Context, id uint, from, to string) error
	ApproveClaim(ctx context.Context, claimID, orderID uint, autoClose bool) (taken, max int, err error)
}

type OrderRepository struct {
	dao OrderDAO
}

func NewOrderRepository(dao OrderDAO) *OrderRepository {
	return &OrderRepository{
		dao: dao,
	}
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	created, err := r.dao.Insert(ctx, r.orderDomainToDao(order))
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.orderDaoToDomain(created), nil
}

func (r *OrderRepository) FindOrderByID(ctx context.Context, id uint) (domain.Order, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.orderDaoToDomain(found), nil
}

func (r *OrderRepository) FindOrders(ctx context.Context, openOnly bool) ([]domain.Order, error) {
	found, err := r.dao.FindAll(ctx, openOnly)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	orders := make([]domain.Order, len(found))
	for i, o := range found {
		orders[i] = r.orderDaoToDomain(o)
	}

	return orders, nil
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *OrderRepository) CreateClaim(ctx context.Context, claim domain.OrderClaim) (domain.OrderClaim, error) {
	created, err := r.dao.InsertClaim(ctx, dao.OrderClaim{
		OrderID:      &claim.OrderID,
		StudentName:  claim.StudentName,
		StudentGroup: claim.StudentGroup,
		Comment:      claim.Comment,
		Status:       string(domain.ClaimPending),
	})
	if err != nil {
		return domain.OrderClaim{}, fmt.Errorf("r.dao.InsertClaim -> %w", err)
	}

	return r.claimDaoToDomain(created), nil
}

func (r *OrderRepository) FindClaimByID(ctx context.Context, id uint) (domain.ClaimWithOrder, error) {
	found, err := r.dao.FindClaimByID(ctx, id)
	if err != nil {
		return domain.ClaimWithOrder{}, fmt.Errorf("r.dao.FindClaimByID -> %w", err)
	}

	return r.claimWithOrderDaoToDomain(found), nil
}

func (r *OrderRepository) FindClaims(ctx context.Context, status domain.ClaimStatus) ([]domain.ClaimWithOrder, error) {
	found, err := r.dao.FindClaims(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindClaims -> %w", err)
	}

	claims := make([]domain.ClaimWithOrder, len(found))
	for i, c := range found {
		claims[i] = r.claimWithOrderDaoToDomain(c)
	}

	return claims, nil
}

func (r *OrderRepository) UpdateClaimStatus(ctx context.Context, id uint, from, to domain.ClaimStatus) error {
	if err := r.dao.UpdateClaimStatus(ctx, id, string(from), string(to)); err != nil {
		return fmt.Errorf("r.dao.UpdateClaimStatus -> %w", err)
	}

	return nil
}

func (r *OrderRepository) ApproveClaim(ctx context.Context, claimID, orderID uint, autoClose bool) (taken, max int, err error) {
	taken, max, err = r.dao.ApproveClaim(ctx, claimID, orderID, autoClose)
	if err != nil {
		return 0, 0, fmt.Errorf("r.dao.ApproveClaim -> %w", err)
	}

	return taken, max, nil
}

func (r *OrderRepository) orderDomainToDao(o domain.Order) dao.Order {
	return dao.Order{
		ID:           o.ID,
		Title:        o.Title,
		Description:  o.Description,
		Rank:         string(o.Rank),
		MaxSlots:     o.MaxSlots,
		TakenSlots:   o.TakenSlots,
		RewardPoints: o.RewardPoints,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func (r *OrderRepository) orderDaoToDomain(o dao.Order) domain.Order {
	return domain.Order{
		ID:           o.ID,
		Title:        o.Title,
		Description:  o.Description,
		Rank:         domain.Rank(o.Rank),
		MaxSlots:     o.MaxSlots,
		TakenSlots:   o.TakenSlots,
		RewardPoints: o.RewardPoints,
		Status:       domain.OrderStatus(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func (r *OrderRepository) claimDaoToDomain(c dao.OrderClaim) domain.OrderClaim {
	var orderID uint
	if c.OrderID != nil {
		orderID = *c.OrderID
	}

	return domain.OrderClaim{
		ID:           c.ID,
		OrderID:      orderID,
		StudentName:  c.StudentName,
		StudentGroup: c.StudentGroup,
		Comment:      c.Comment,
		Status:       domain.ClaimStatus(c.Status),
		CreatedAt:    c.CreatedAt,
	}
}

func (r *OrderRepository) claimWithOrderDaoToDomain(c dao.OrderClaim) domain.ClaimWithOrder {
	cw := domain.ClaimWithOrder{
		Claim: r.claimDaoToDomain(c),
	}
	if c.Order != nil {
		order := r.orderDaoToDomain(*c.Order)
		cw.Order = &order
	}

	return cw
}
