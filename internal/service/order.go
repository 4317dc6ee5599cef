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
	ErrOrderNotFound         = repository.ErrOrderNotFound
	ErrCapacityExceeded      = repository.ErrOrderFull
	ErrClaimNotFound         = repository.ErrClaimNotFound
	ErrClaimAlreadyProcessed = repository.ErrClaimAlreadyProcessed
	ErrInvalidRank           = errors.New("invalid rank")
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	FindOrderByID(ctx context.Context, id uint) (domain.Order, error)
	FindOrders(ctx context.Context, openOnly bool) ([]domain.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
	UpdateOrderStatus(ctx context.Context, id uint, status domain.OrderStatus) error
	CreateClaim(ctx context.Context, claim domain.OrderClaim) (domain.OrderClaim, error)
	FindClaimByID(ctx context.Context, id uint) (domain.ClaimWithOrder, error)
	FindClaims(ctx context.Context, status domain.ClaimStatus) ([]domain.ClaimWithOrder, error)
	UpdateClaimStatus(ctx context.Context, id uint, from, to domain.ClaimStatus) error
	ApproveClaim(ctx context.Context, claimID, orderID uint, autoClose bool) (taken, max int, err error)
}

// PointsLedger is the slice of the ledger the engines need: minting points
// on claim approval and burning them on purchase approval.
type PointsLedger interface {
	Credit(ctx context.Context, key domain.StudentKey, amount int) (domain.Student, error)
	Debit(ctx context.Context, key domain.StudentKey, amount int) error
}

// OrderService is the order engine: it owns the order lifecycle and the slot
// accounting. Slots are reserved only at approval time; submission never
// mutates the order, and rejection never frees anything.
type OrderService struct {
	repo      OrderRepository
	ledger    PointsLedger
	autoClose bool
}

func NewOrderService(repo OrderRepository, ledger PointsLedger, autoClose bool) *OrderService {
	return &OrderService{
		repo:      repo,
		ledger:    ledger,
		autoClose: autoClose,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if !order.Rank.IsValid() {
		return domain.Order{}, ErrInvalidRank
	}

	// The rank band is advisory. An off-band payout is worth a warning,
	// never a failure.
	if !order.Rank.InBand(order.RewardPoints) {
		min, max := order.Rank.PointBand()
		zap.L().Warn("order reward outside rank band",
			zap.String("rank", string(order.Rank)),
			zap.Int("reward_points", order.RewardPoints),
			zap.Int("band_min", min),
			zap.Int("band_max", max),
		)
	}

	order.Status = domain.OrderOpen
	order.TakenSlots = 0

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.CreateOrder -> %w", err)
	}

	return created, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (domain.Order, error) {
	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.FindOrderByID -> %w", err)
	}

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, openOnly bool) ([]domain.Order, error) {
	orders, err := s.repo.FindOrders(ctx, openOnly)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindOrders -> %w", err)
	}

	return orders, nil
}

// DeleteOrder hard-deletes the order. Claims are kept as orphans with their
// own denormalized student fields, so history survives.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteOrder -> %w", err)
	}

	return nil
}

// ReopenOrder is an administrative override, not an engine transition: it
// reopens a completed order for further claims even when all slots are taken.
func (s *OrderService) ReopenOrder(ctx context.Context, id uint) (domain.Order, error) {
	if err := s.repo.UpdateOrderStatus(ctx, id, domain.OrderOpen); err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.UpdateOrderStatus -> %w", err)
	}

	return s.GetOrder(ctx, id)
}

// SubmitClaim records a participant's claim as pending. Capacity is not
// checked and no slot is taken here; both happen at approval time, so a
// submission can never block another participant before a moderator decides.
func (s *OrderService) SubmitClaim(ctx context.Context, orderID uint, name, group, comment string) (domain.OrderClaim, error) {
	if _, err := s.repo.FindOrderByID(ctx, orderID); err != nil {
		return domain.OrderClaim{}, fmt.Errorf("s.repo.FindOrderByID -> %w", err)
	}

	claim, err := s.repo.CreateClaim(ctx, domain.OrderClaim{
		OrderID:      orderID,
		StudentName:  name,
		StudentGroup: group,
		Comment:      comment,
	})
	if err != nil {
		return domain.OrderClaim{}, fmt.Errorf("s.repo.CreateClaim -> %w", err)
	}

	return claim, nil
}

func (s *OrderService) GetClaim(ctx context.Context, id uint) (domain.ClaimWithOrder, error) {
	claim, err := s.repo.FindClaimByID(ctx, id)
	if err != nil {
		return domain.ClaimWithOrder{}, fmt.Errorf("s.repo.FindClaimByID -> %w", err)
	}

	return claim, nil
}

func (s *OrderService) ListClaims(ctx context.Context, status domain.ClaimStatus) ([]domain.ClaimWithOrder, error) {
	claims, err := s.repo.FindClaims(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindClaims -> %w", err)
	}

	return claims, nil
}

// ApproveClaim turns a pending claim into approved state: one slot taken on
// the order, reward points credited to the student. The status flip and the
// slot increment are a single guarded store transaction, so a full order
// refuses the approval with the claim still pending, and a second approval
// of the same claim can neither double-credit nor consume a second slot.
func (s *OrderService) ApproveClaim(ctx context.Context, cw domain.ClaimWithOrder) (domain.ClaimWithOrder, error) {
	if cw.Claim.Status != domain.ClaimPending {
		return domain.ClaimWithOrder{}, ErrClaimAlreadyProcessed
	}
	if cw.Order == nil {
		// Orphaned claim: the order was deleted after submission.
		return domain.ClaimWithOrder{}, ErrOrderNotFound
	}

	taken, max, err := s.repo.ApproveClaim(ctx, cw.Claim.ID, cw.Order.ID, s.autoClose)
	if err != nil {
		return domain.ClaimWithOrder{}, fmt.Errorf("s.repo.ApproveClaim -> %w", err)
	}

	key := domain.StudentKey{Name: cw.Claim.StudentName, Group: cw.Claim.StudentGroup}
	if _, err := s.ledger.Credit(ctx, key, cw.Order.RewardPoints); err != nil {
		// The claim is already approved and the slot taken. Crediting is an
		// upsert and only fails when the store does; surface it for a retry
		// of the credit alone, reconciliation is operational.
		zap.L().Error("claim approved but credit failed",
			zap.Uint("claim_id", cw.Claim.ID),
			zap.Uint("order_id", cw.Order.ID),
			zap.Error(err),
		)
		return domain.ClaimWithOrder{}, fmt.Errorf("s.ledger.Credit -> %w", err)
	}

	cw.Claim.Status = domain.ClaimApproved
	cw.Order.TakenSlots = taken
	if s.autoClose && taken >= max {
		cw.Order.Status = domain.OrderCompleted
	}

	return cw, nil
}

// RejectClaim flips a pending claim to rejected. No slot or balance effect:
// nothing was reserved at submission, so there is nothing to free.
func (s *OrderService) RejectClaim(ctx context.Context, cw domain.ClaimWithOrder) (domain.ClaimWithOrder, error) {
	if cw.Claim.Status != domain.ClaimPending {
		return domain.ClaimWithOrder{}, ErrClaimAlreadyProcessed
	}

	if err := s.repo.UpdateClaimStatus(ctx, cw.Claim.ID, domain.ClaimPending, domain.ClaimRejected); err != nil {
		return domain.ClaimWithOrder{}, fmt.Errorf("s.repo.UpdateClaimStatus -> %w", err)
	}

	cw.Claim.Status = domain.ClaimRejected

	return cw, nil
}
