package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/service"
)

func newOrderService(t *testing.T, autoClose bool) (*service.OrderService, *memOrderRepo, *memLedger) {
	t.Helper()

	repo := newMemOrderRepo()
	ledger := newMemLedger()

	return service.NewOrderService(repo, ledger, autoClose), repo, ledger
}

func postOrder(t *testing.T, svc *service.OrderService, points, maxSlots int) domain.Order {
	t.Helper()

	order, err := svc.CreateOrder(context.Background(), domain.Order{
		Title:        "clean the library",
		Rank:         domain.RankB,
		RewardPoints: points,
		MaxSlots:     maxSlots,
	})
	require.NoError(t, err)

	return order
}

func TestOrderService_CreateOrder(t *testing.T) {
	svc, _, _ := newOrderService(t, false)

	t.Run("creates an open order with zero taken slots", func(t *testing.T) {
		order := postOrder(t, svc, 60, 3)

		assert.Equal(t, domain.OrderOpen, order.Status)
		assert.Equal(t, 0, order.TakenSlots)
		assert.Equal(t, 3, order.MaxSlots)
	})

	t.Run("rejects an unknown rank", func(t *testing.T) {
		_, err := svc.CreateOrder(context.Background(), domain.Order{
			Title:        "mystery quest",
			Rank:         "X",
			RewardPoints: 10,
			MaxSlots:     1,
		})

		assert.ErrorIs(t, err, service.ErrInvalidRank)
	})

	t.Run("accepts an off-band payout", func(t *testing.T) {
		order, err := svc.CreateOrder(context.Background(), domain.Order{
			Title:        "generous chore",
			Rank:         domain.RankF,
			RewardPoints: 999,
			MaxSlots:     1,
		})

		require.NoError(t, err)
		assert.Equal(t, 999, order.RewardPoints)
	})
}

func TestOrderService_SubmitClaim(t *testing.T) {
	svc, _, _ := newOrderService(t, false)
	order := postOrder(t, svc, 60, 1)

	t.Run("records a pending claim without touching the order", func(t *testing.T) {
		claim, err := svc.SubmitClaim(context.Background(), order.ID, "Ana", "3B", "done after lunch")
		require.NoError(t, err)

		assert.Equal(t, domain.ClaimPending, claim.Status)

		got, err := svc.GetOrder(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.TakenSlots)
	})

	t.Run("submission is allowed past capacity", func(t *testing.T) {
		// max_slots caps approvals, not submissions.
		for i := 0; i < 5; i++ {
			_, err := svc.SubmitClaim(context.Background(), order.ID, "Ana", "3B", "")
			require.NoError(t, err)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.SubmitClaim(context.Background(), 999, "Ana", "3B", "")
		assert.ErrorIs(t, err, service.ErrOrderNotFound)
	})
}

func TestOrderService_ApproveClaim(t *testing.T) {
	t.Run("takes a slot and credits the student", func(t *testing.T) {
		svc, _, ledger := newOrderService(t, false)
		order := postOrder(t, svc, 60, 3)
		claim, err := svc.SubmitClaim(context.Background(), order.ID, "Ana", "3B", "")
		require.NoError(t, err)

		cw, err := svc.GetClaim(context.Background(), claim.ID)
		require.NoError(t, err)

		approved, err := svc.ApproveClaim(context.Background(), cw)
		require.NoError(t, err)

		assert.Equal(t, domain.ClaimApproved, approved.Claim.Status)
		assert.Equal(t, 1, approved.Order.TakenSlots)
		assert.Equal(t, domain.OrderOpen, approved.Order.Status)
		assert.Equal(t, 60, ledger.balance(domain.StudentKey{Name: "Ana", Group: "3B"}))
	})

	t.Run("a second approval of the same claim is refused without a second credit", func(t *testing.T) {
		svc, _, ledger := newOrderService(t, false)
		order := postOrder(t, svc, 60, 3)
		claim, err := svc.SubmitClaim(context.Background(), order.ID, "Ana", "3B", "")
		require.NoError(t, err)

		cw, err := svc.GetClaim(context.Background(), claim.ID)
		require.NoError(t, err)

		_, err = svc.ApproveClaim(context.Background(), cw)
		require.NoError(t, err)

		// Same stale aggregate, as a racing moderator would hold.
		_, err = svc.ApproveClaim(context.Background(), cw)
		assert.ErrorIs(t, err, service.ErrClaimAlreadyProcessed)

		// Fresh read, same outcome.
		fresh, err := svc.GetClaim(context.Background(), claim.ID)
		require.NoError(t, err)
		_, err = svc.ApproveClaim(context.Background(), fresh)
		assert.ErrorIs(t, err, service.ErrClaimAlreadyProcessed)

		assert.Equal(t, 60, ledger.balance(domain.StudentKey{Name: "Ana", Group: "3B"}))
	})

	t.Run("full order refuses the approval and keeps the claim pending", func(t *testing.T) {
		svc, _, ledger := newOrderService(t, false)
		order := postOrder(t, svc, 60, 1)

		first, err := svc.SubmitClaim(context.Background(), order.ID, "Ana", "3B", "")
		require.NoError(t, err)
		second, err := svc.SubmitClaim(context.Background(), order.ID, "Bea", "3B", "")
		require.NoError(t, err)

		cw, err := svc.GetClaim(context.Background(), first.ID)
		require.NoError(t, err)
		_, err = svc.ApproveClaim(context.Background(), cw)
		require.NoError(t, err)

		cw, err = svc.GetClaim(context.Background(), second.ID)
		require.NoError(t, err)
		_, err = svc.ApproveClaim(context.Background(), cw)
		assert.ErrorIs(t, err, service.ErrCapacityExceeded)

		fresh, err := svc.GetClaim(context.Background(), second.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ClaimPending, fresh.Claim.Status)
		assert.Equal(t, 0, ledger.balance(domain.StudentKey{Name: "Bea", Group: "3B"}))
	})

	t.Run("orphaned claim cannot be approved", func(t *testing.T) {
		svc, _, _ := newOrderService(t, false)
		order := postOrder(t, svc, 60, 1)
		claim, err := svc.SubmitClaim(context.Background(), order.ID, "Ana", "3B", "")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteOrder(context.Background(), order.ID))

		cw, err := svc.GetClaim(context.Background(), claim.ID)
		require.NoError(t, err)
		require.Nil(t, cw.Order)

		_, err = svc.ApproveClaim(context.Background(), cw)
		assert.ErrorIs(t, err, service.ErrOrderNotFound)
	})

	t.Run("auto close completes the order on the last slot", func(t *testing.T) {
		svc, _, _ := newOrderService(t, true)
		order := postOrder(t, svc, 60, 2)

		for _, name := range []string{"Ana", "Bea"} {
			claim, err := svc.SubmitClaim(context.Background(), order.ID, name, "3B", "")
			require.NoError(t, err)

			cw, err := svc.GetClaim(context.Background(), claim.ID)
			require.NoError(t, err)
			_, err = svc.ApproveClaim(context.Background(), cw)
			require.NoError(t, err)
		}

		got, err := svc.GetOrder(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderCompleted, got.Status)
		assert.Equal(t, 2, got.TakenSlots)
	})
}

func TestOrderService_ApproveClaim_Concurrent(t *testing.T) {
	const (
		maxSlots = 3
		claimers = 5
		points   = 40
	)

	svc, _, ledger := newOrderService(t, false)
	order := postOrder(t, svc, points, maxSlots)

	names := []string{"Ana", "Bea", "Carl", "Dim", "Eva"}
	aggregates := make([]domain.ClaimWithOrder, claimers)
	for i, name := range names {
		claim, err := svc.SubmitClaim(context.Background(), order.ID, name, "3B", "")
		require.NoError(t, err)

		cw, err := svc.GetClaim(context.Background(), claim.ID)
		require.NoError(t, err)
		aggregates[i] = cw
	}

	errs := make([]error, claimers)
	var wg sync.WaitGroup
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ApproveClaim(context.Background(), aggregates[i])
		}(i)
	}
	wg.Wait()

	approved := 0
	for _, err := range errs {
		if err == nil {
			approved++
			continue
		}
		assert.ErrorIs(t, err, service.ErrCapacityExceeded)
	}
	assert.Equal(t, maxSlots, approved)

	got, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, maxSlots, got.TakenSlots)

	total := 0
	for _, name := range names {
		total += ledger.balance(domain.StudentKey{Name: name, Group: "3B"})
	}
	assert.Equal(t, maxSlots*points, total)
}

func TestOrderService_RejectClaim(t *testing.T) {
	svc, _, ledger := newOrderService(t, false)
	order := postOrder(t, svc, 60, 1)
	claim, err := svc.SubmitClaim(context.Background(), order.ID, "Ana", "3B", "")
	require.NoError(t, err)

	cw, err := svc.GetClaim(context.Background(), claim.ID)
	require.NoError(t, err)

	rejected, err := svc.RejectClaim(context.Background(), cw)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimRejected, rejected.Claim.Status)

	// No slot consumed, no points minted.
	got, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TakenSlots)
	assert.Equal(t, 0, ledger.balance(domain.StudentKey{Name: "Ana", Group: "3B"}))

	// Processed claims stay processed.
	fresh, err := svc.GetClaim(context.Background(), claim.ID)
	require.NoError(t, err)
	_, err = svc.ApproveClaim(context.Background(), fresh)
	assert.ErrorIs(t, err, service.ErrClaimAlreadyProcessed)
}

func TestOrderService_ReopenOrder(t *testing.T) {
	svc, _, _ := newOrderService(t, true)
	order := postOrder(t, svc, 60, 1)

	claim, err := svc.SubmitClaim(context.Background(), order.ID, "Ana", "3B", "")
	require.NoError(t, err)
	cw, err := svc.GetClaim(context.Background(), claim.ID)
	require.NoError(t, err)
	_, err = svc.ApproveClaim(context.Background(), cw)
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderCompleted, got.Status)

	reopened, err := svc.ReopenOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderOpen, reopened.Status)
	// Slots are untouched; reopening is an override, not a reset.
	assert.Equal(t, 1, reopened.TakenSlots)
}

func TestOrderService_ListOrders(t *testing.T) {
	svc, _, _ := newOrderService(t, true)
	open := postOrder(t, svc, 60, 2)
	full := postOrder(t, svc, 60, 1)

	claim, err := svc.SubmitClaim(context.Background(), full.ID, "Ana", "3B", "")
	require.NoError(t, err)
	cw, err := svc.GetClaim(context.Background(), claim.ID)
	require.NoError(t, err)
	_, err = svc.ApproveClaim(context.Background(), cw)
	require.NoError(t, err)

	openOnly, err := svc.ListOrders(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, openOnly, 1)
	assert.Equal(t, open.ID, openOnly[0].ID)

	all, err := svc.ListOrders(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
