package v1_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/questguild/questboard-api/internal/api/handler/v1"
	"github.com/questguild/questboard-api/internal/api/middleware"
	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/service"
)

type stubModeratorService struct {
	moderator domain.Moderator
	err       error
}

func (s *stubModeratorService) GetModerator(context.Context, uint) (domain.Moderator, error) {
	return s.moderator, s.err
}

type stubClaimCoordinator struct {
	cw  domain.ClaimWithOrder
	err error
}

func (s *stubClaimCoordinator) DecideClaim(context.Context, uint, uint, string) (domain.ClaimWithOrder, error) {
	return s.cw, s.err
}

type stubOrderService struct {
	order domain.Order
	claim domain.OrderClaim
	cw    domain.ClaimWithOrder
	err   error
}

func (s *stubOrderService) CreateOrder(context.Context, domain.Order) (domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) GetOrder(context.Context, uint) (domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListOrders(context.Context, bool) ([]domain.Order, error) {
	return []domain.Order{s.order}, s.err
}

func (s *stubOrderService) DeleteOrder(context.Context, uint) error {
	return s.err
}

func (s *stubOrderService) ReopenOrder(context.Context, uint) (domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) SubmitClaim(context.Context, uint, string, string, string) (domain.OrderClaim, error) {
	return s.claim, s.err
}

func (s *stubOrderService) GetClaim(context.Context, uint) (domain.ClaimWithOrder, error) {
	return s.cw, s.err
}

func (s *stubOrderService) ListClaims(context.Context, domain.ClaimStatus) ([]domain.ClaimWithOrder, error) {
	return []domain.ClaimWithOrder{s.cw}, s.err
}

func newDecisionRouter(t *testing.T, coor *stubClaimCoordinator, authed bool) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := v1.NewOrderHandler(&stubOrderService{}, coor, &stubModeratorService{
		moderator: domain.Moderator{ID: 1, Name: "Guild Master"},
	})

	router.POST("/claims/:claimID/decision", func(ctx *gin.Context) {
		if authed {
			ctx.Set(middleware.ContextKeyModeratorID, uint(1))
		}
		handler.HandleDecideClaim(ctx)
	})

	return router
}

func postDecision(t *testing.T, router *gin.Engine, claimID, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, "/claims/"+claimID+"/decision", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestOrderHandler_HandleDecideClaim(t *testing.T) {
	t.Run("approval renders the decided aggregate", func(t *testing.T) {
		coor := &stubClaimCoordinator{
			cw: domain.ClaimWithOrder{
				Claim: domain.OrderClaim{ID: 7, Status: domain.ClaimApproved},
				Order: &domain.Order{ID: 3, TakenSlots: 1, MaxSlots: 3},
			},
		}
		router := newDecisionRouter(t, coor, true)

		recorder := postDecision(t, router, "7", `{"decision":"approve"}`)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"status":"approved"`)
	})

	t.Run("full order maps to conflict", func(t *testing.T) {
		router := newDecisionRouter(t, &stubClaimCoordinator{err: service.ErrCapacityExceeded}, true)

		recorder := postDecision(t, router, "7", `{"decision":"approve"}`)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("processed claim maps to conflict", func(t *testing.T) {
		router := newDecisionRouter(t, &stubClaimCoordinator{err: service.ErrClaimAlreadyProcessed}, true)

		recorder := postDecision(t, router, "7", `{"decision":"reject"}`)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("missing claim maps to not found", func(t *testing.T) {
		router := newDecisionRouter(t, &stubClaimCoordinator{err: service.ErrClaimNotFound}, true)

		recorder := postDecision(t, router, "999", `{"decision":"approve"}`)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("bad decision value is rejected before dispatch", func(t *testing.T) {
		router := newDecisionRouter(t, &stubClaimCoordinator{}, true)

		recorder := postDecision(t, router, "7", `{"decision":"maybe"}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("bad claim ID", func(t *testing.T) {
		router := newDecisionRouter(t, &stubClaimCoordinator{}, true)

		recorder := postDecision(t, router, "abc", `{"decision":"approve"}`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("no authenticated moderator", func(t *testing.T) {
		router := newDecisionRouter(t, &stubClaimCoordinator{}, false)

		recorder := postDecision(t, router, "7", `{"decision":"approve"}`)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}
