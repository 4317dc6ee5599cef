package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/questguild/questboard-api/internal/domain"
)

var ErrUnknownDecision = errors.New("unknown decision")

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
	DecisionDeliver = "deliver"
)

type OrderEngine interface {
	GetClaim(ctx context.Context, id uint) (domain.ClaimWithOrder, error)
	ApproveClaim(ctx context.Context, cw domain.ClaimWithOrder) (domain.ClaimWithOrder, error)
	RejectClaim(ctx context.Context, cw domain.ClaimWithOrder) (domain.ClaimWithOrder, error)
}

type RedemptionEngine interface {
	GetPurchase(ctx context.Context, id uint) (domain.PurchaseWithReward, error)
	ApprovePurchase(ctx context.Context, pw domain.PurchaseWithReward) (domain.PurchaseWithReward, error)
	RejectPurchase(ctx context.Context, pw domain.PurchaseWithReward) (domain.PurchaseWithReward, error)
	MarkDelivered(ctx context.Context, pw domain.PurchaseWithReward) (domain.PurchaseWithReward, error)
}

// ApprovalService maps one moderator decision onto one engine call. It loads
// the full aggregate in a single read, dispatches, and surfaces the first
// failure verbatim; no compensating writes happen at this level.
type ApprovalService struct {
	orders      OrderEngine
	redemptions RedemptionEngine
}

func NewApprovalService(orders OrderEngine, redemptions RedemptionEngine) *ApprovalService {
	return &ApprovalService{
		orders:      orders,
		redemptions: redemptions,
	}
}

func (s *ApprovalService) DecideClaim(ctx context.Context, moderatorID, claimID uint, decision string) (domain.ClaimWithOrder, error) {
	cw, err := s.orders.GetClaim(ctx, claimID)
	if err != nil {
		return domain.ClaimWithOrder{}, fmt.Errorf("s.orders.GetClaim -> %w", err)
	}

	var decided domain.ClaimWithOrder
	switch decision {
	case DecisionApprove:
		decided, err = s.orders.ApproveClaim(ctx, cw)
	case DecisionReject:
		decided, err = s.orders.RejectClaim(ctx, cw)
	default:
		return domain.ClaimWithOrder{}, ErrUnknownDecision
	}

	logDecision("claim", moderatorID, claimID, decision, err)
	if err != nil {
		return domain.ClaimWithOrder{}, err
	}

	return decided, nil
}

func (s *ApprovalService) DecidePurchase(ctx context.Context, moderatorID, purchaseID uint, action string) (domain.PurchaseWithReward, error) {
	pw, err := s.redemptions.GetPurchase(ctx, purchaseID)
	if err != nil {
		return domain.PurchaseWithReward{}, fmt.Errorf("s.redemptions.GetPurchase -> %w", err)
	}

	var decided domain.PurchaseWithReward
	switch action {
	case DecisionApprove:
		decided, err = s.redemptions.ApprovePurchase(ctx, pw)
	case DecisionReject:
		decided, err = s.redemptions.RejectPurchase(ctx, pw)
	case DecisionDeliver:
		decided, err = s.redemptions.MarkDelivered(ctx, pw)
	default:
		return domain.PurchaseWithReward{}, ErrUnknownDecision
	}

	logDecision("purchase", moderatorID, purchaseID, action, err)
	if err != nil {
		return domain.PurchaseWithReward{}, err
	}

	return decided, nil
}

func logDecision(entity string, moderatorID, entityID uint, decision string, err error) {
	fields := []zap.Field{
		zap.String("entity", entity),
		zap.Uint("moderator_id", moderatorID),
		zap.Uint("entity_id", entityID),
		zap.String("decision", decision),
	}

	if err != nil {
		zap.L().Warn("decision refused", append(fields, zap.Error(err))...)
		return
	}

	zap.L().Info("decision applied", fields...)
}
