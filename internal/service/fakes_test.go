package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/service"
)

// memLedger is an in-memory PointsLedger with the same conditional-debit
// semantics as the real store: check and subtract under one lock.
type memLedger struct {
	mu       sync.Mutex
	balances map[domain.StudentKey]int
}

func newMemLedger() *memLedger {
	return &memLedger{
		balances: make(map[domain.StudentKey]int),
	}
}

func (l *memLedger) Credit(_ context.Context, key domain.StudentKey, amount int) (domain.Student, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[key] += amount

	return domain.Student{
		Name:         key.Name,
		StudentGroup: key.Group,
		TotalPoints:  l.balances[key],
	}, nil
}

func (l *memLedger) Debit(_ context.Context, key domain.StudentKey, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.balances[key]
	if !ok {
		return service.ErrStudentNotFound
	}
	if balance < amount {
		return service.ErrInsufficientBalance
	}

	l.balances[key] = balance - amount

	return nil
}

func (l *memLedger) balance(key domain.StudentKey) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balances[key]
}

// memOrderRepo implements service.OrderRepository. ApproveClaim mirrors the
// store transaction: status flip and slot increment are atomic and guarded.
type memOrderRepo struct {
	mu          sync.Mutex
	orders      map[uint]*domain.Order
	claims      map[uint]*domain.OrderClaim
	nextOrderID uint
	nextClaimID uint
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders: make(map[uint]*domain.Order),
		claims: make(map[uint]*domain.OrderClaim),
	}
}

func (r *memOrderRepo) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextOrderID++
	order.ID = r.nextOrderID
	r.orders[order.ID] = &order

	return order, nil
}

func (r *memOrderRepo) FindOrderByID(_ context.Context, id uint) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, service.ErrOrderNotFound
	}

	return *order, nil
}

func (r *memOrderRepo) FindOrders(_ context.Context, openOnly bool) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var orders []domain.Order
	for _, order := range r.orders {
		if openOnly && order.Status != domain.OrderOpen {
			continue
		}
		orders = append(orders, *order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })

	return orders, nil
}

func (r *memOrderRepo) DeleteOrder(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return service.ErrOrderNotFound
	}
	delete(r.orders, id)

	return nil
}

func (r *memOrderRepo) UpdateOrderStatus(_ context.Context, id uint, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return service.ErrOrderNotFound
	}
	order.Status = status

	return nil
}

func (r *memOrderRepo) CreateClaim(_ context.Context, claim domain.OrderClaim) (domain.OrderClaim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextClaimID++
	claim.ID = r.nextClaimID
	claim.Status = domain.ClaimPending
	r.claims[claim.ID] = &claim

	return claim, nil
}

func (r *memOrderRepo) FindClaimByID(_ context.Context, id uint) (domain.ClaimWithOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	claim, ok := r.claims[id]
	if !ok {
		return domain.ClaimWithOrder{}, service.ErrClaimNotFound
	}

	cw := domain.ClaimWithOrder{Claim: *claim}
	if order, ok := r.orders[claim.OrderID]; ok {
		copied := *order
		cw.Order = &copied
	}

	return cw, nil
}

func (r *memOrderRepo) FindClaims(_ context.Context, status domain.ClaimStatus) ([]domain.ClaimWithOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var claims []domain.ClaimWithOrder
	for _, claim := range r.claims {
		if status != "" && claim.Status != status {
			continue
		}

		cw := domain.ClaimWithOrder{Claim: *claim}
		if order, ok := r.orders[claim.OrderID]; ok {
			copied := *order
			cw.Order = &copied
		}
		claims = append(claims, cw)
	}
	sort.Slice(claims, func(i, j int) bool { return claims[i].Claim.ID < claims[j].Claim.ID })

	return claims, nil
}

func (r *memOrderRepo) UpdateClaimStatus(_ context.Context, id uint, from, to domain.ClaimStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	claim, ok := r.claims[id]
	if !ok {
		return service.ErrClaimNotFound
	}
	if claim.Status != from {
		return service.ErrClaimAlreadyProcessed
	}
	claim.Status = to

	return nil
}

func (r *memOrderRepo) ApproveClaim(_ context.Context, claimID, orderID uint, autoClose bool) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	claim, ok := r.claims[claimID]
	if !ok {
		return 0, 0, service.ErrClaimNotFound
	}
	if claim.Status != domain.ClaimPending {
		return 0, 0, service.ErrClaimAlreadyProcessed
	}

	order, ok := r.orders[orderID]
	if !ok {
		return 0, 0, service.ErrOrderNotFound
	}
	if order.TakenSlots >= order.MaxSlots {
		return 0, 0, service.ErrCapacityExceeded
	}

	claim.Status = domain.ClaimApproved
	order.TakenSlots++
	if autoClose && order.TakenSlots >= order.MaxSlots && order.Status == domain.OrderOpen {
		order.Status = domain.OrderCompleted
	}

	return order.TakenSlots, order.MaxSlots, nil
}

// memRewardRepo implements service.RewardRepository with the conditional
// status flip the real DAO has.
type memRewardRepo struct {
	mu             sync.Mutex
	rewards        map[uint]*domain.Reward
	purchases      map[uint]*domain.RewardPurchase
	nextRewardID   uint
	nextPurchaseID uint
}

func newMemRewardRepo() *memRewardRepo {
	return &memRewardRepo{
		rewards:   make(map[uint]*domain.Reward),
		purchases: make(map[uint]*domain.RewardPurchase),
	}
}

func (r *memRewardRepo) CreateReward(_ context.Context, reward domain.Reward) (domain.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextRewardID++
	reward.ID = r.nextRewardID
	r.rewards[reward.ID] = &reward

	return reward, nil
}

func (r *memRewardRepo) FindRewardByID(_ context.Context, id uint) (domain.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reward, ok := r.rewards[id]
	if !ok {
		return domain.Reward{}, service.ErrRewardNotFound
	}

	return *reward, nil
}

func (r *memRewardRepo) FindRewards(_ context.Context, activeOnly bool) ([]domain.Reward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rewards []domain.Reward
	for _, reward := range r.rewards {
		if activeOnly && !reward.IsActive {
			continue
		}
		rewards = append(rewards, *reward)
	}
	sort.Slice(rewards, func(i, j int) bool { return rewards[i].Price < rewards[j].Price })

	return rewards, nil
}

func (r *memRewardRepo) DeleteReward(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rewards[id]; !ok {
		return service.ErrRewardNotFound
	}
	delete(r.rewards, id)

	return nil
}

func (r *memRewardRepo) SetRewardActive(_ context.Context, id uint, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reward, ok := r.rewards[id]
	if !ok {
		return service.ErrRewardNotFound
	}
	reward.IsActive = active

	return nil
}

func (r *memRewardRepo) CreatePurchase(_ context.Context, purchase domain.RewardPurchase) (domain.RewardPurchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextPurchaseID++
	purchase.ID = r.nextPurchaseID
	purchase.Status = domain.PurchasePending
	r.purchases[purchase.ID] = &purchase

	return purchase, nil
}

func (r *memRewardRepo) FindPurchaseByID(_ context.Context, id uint) (domain.PurchaseWithReward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	purchase, ok := r.purchases[id]
	if !ok {
		return domain.PurchaseWithReward{}, service.ErrPurchaseNotFound
	}

	pw := domain.PurchaseWithReward{Purchase: *purchase}
	if reward, ok := r.rewards[purchase.RewardID]; ok {
		copied := *reward
		pw.Reward = &copied
	}

	return pw, nil
}

func (r *memRewardRepo) FindPurchases(_ context.Context, status domain.PurchaseStatus) ([]domain.PurchaseWithReward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var purchases []domain.PurchaseWithReward
	for _, purchase := range r.purchases {
		if status != "" && purchase.Status != status {
			continue
		}

		pw := domain.PurchaseWithReward{Purchase: *purchase}
		if reward, ok := r.rewards[purchase.RewardID]; ok {
			copied := *reward
			pw.Reward = &copied
		}
		purchases = append(purchases, pw)
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].Purchase.ID < purchases[j].Purchase.ID })

	return purchases, nil
}

func (r *memRewardRepo) UpdatePurchaseStatus(_ context.Context, id uint, from, to domain.PurchaseStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	purchase, ok := r.purchases[id]
	if !ok {
		return service.ErrPurchaseNotFound
	}
	if purchase.Status != from {
		return service.ErrPurchaseAlreadyProcessed
	}
	purchase.Status = to

	return nil
}
