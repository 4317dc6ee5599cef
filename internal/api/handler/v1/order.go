package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/questguild/questboard-api/internal/api/handler/v1/request"
	"github.com/questguild/questboard-api/internal/api/handler/v1/response"
	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/service"
)

type OrderService interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	GetOrder(ctx context.Context, id uint) (domain.Order, error)
	ListOrders(ctx context.Context, openOnly bool) ([]domain.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
	ReopenOrder(ctx context.Context, id uint) (domain.Order, error)
	SubmitClaim(ctx context.Context, orderID uint, name, group, comment string) (domain.OrderClaim, error)
	GetClaim(ctx context.Context, id uint) (domain.ClaimWithOrder, error)
	ListClaims(ctx context.Context, status domain.ClaimStatus) ([]domain.ClaimWithOrder, error)
}

type ClaimCoordinator interface {
	DecideClaim(ctx context.Context, moderatorID, claimID uint, decision string) (domain.ClaimWithOrder, error)
}

type OrderHandler struct {
	svc  OrderService
	coor ClaimCoordinator
	mSvc ModeratorService
}

func NewOrderHandler(svc OrderService, coor ClaimCoordinator, mSvc ModeratorService) *OrderHandler {
	return &OrderHandler{
		svc:  svc,
		coor: coor,
		mSvc: mSvc,
	}
}

// HandleListOrders godoc
// @Summary      List orders
// @Description  Lists open orders by default; pass status=all to include completed ones
// @Tags         orders
// @Produce      json
// @Param        status  query     string  false  "open or all"
// @Success      200     {array}   domain.Order
// @Failure      500     {object}  response.Err
// @Router       /orders [get]
func (h *OrderHandler) HandleListOrders(ctx *gin.Context) {
	openOnly := ctx.DefaultQuery("status", "open") != "all"

	orders, err := h.svc.ListOrders(ctx.Request.Context(), openOnly)
	if err != nil {
		err = fmt.Errorf("v1.HandleListOrders -> h.svc.ListOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleGetOrder godoc
// @Summary      Get an order by ID
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int  true  "Order ID"
// @Success      200      {object}  domain.Order
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID} [get]
func (h *OrderHandler) HandleGetOrder(ctx *gin.Context) {
	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid order ID: %v", err)))
		return
	}

	order, err := h.svc.GetOrder(ctx.Request.Context(), uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
			return
		}

		err = fmt.Errorf("v1.HandleGetOrder -> h.svc.GetOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleCreateOrder godoc
// @Summary      Post a new order
// @Description  Creates a ranked order with a slot capacity and a point payout
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateOrderRequest  true  "Order details"
// @Success      201    {object}  domain.Order
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /orders [post]
// @Security     BearerAuth
func (h *OrderHandler) HandleCreateOrder(ctx *gin.Context) {
	_, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.CreateOrder(ctx.Request.Context(), domain.Order{
		Title:        input.Title,
		Description:  input.Description,
		Rank:         domain.Rank(input.Rank),
		RewardPoints: input.Points,
		MaxSlots:     input.MaxSlots,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRank) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateOrder -> h.svc.CreateOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// HandleDeleteOrder godoc
// @Summary      Delete an order
// @Tags         orders
// @Produce      json
// @Param        orderID  path  int  true  "Order ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders/{orderID} [delete]
// @Security     BearerAuth
func (h *OrderHandler) HandleDeleteOrder(ctx *gin.Context) {
	_, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid order ID: %v", err)))
		return
	}

	if err := h.svc.DeleteOrder(ctx.Request.Context(), uint(orderID)); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteOrder -> h.svc.DeleteOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleReopenOrder godoc
// @Summary      Reopen a completed order
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int  true  "Order ID"
// @Success      200      {object}  domain.Order
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID}/reopen [post]
// @Security     BearerAuth
func (h *OrderHandler) HandleReopenOrder(ctx *gin.Context) {
	_, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid order ID: %v", err)))
		return
	}

	order, err := h.svc.ReopenOrder(ctx.Request.Context(), uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
			return
		}

		err = fmt.Errorf("v1.HandleReopenOrder -> h.svc.ReopenOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleSubmitClaim godoc
// @Summary      Claim an order
// @Description  Records a pending claim; slots are only consumed when a moderator approves
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        orderID  path      int                        true  "Order ID"
// @Param        input    body      request.SubmitClaimRequest true  "Claim details"
// @Success      201      {object}  domain.OrderClaim
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID}/claims [post]
func (h *OrderHandler) HandleSubmitClaim(ctx *gin.Context) {
	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid order ID: %v", err)))
		return
	}

	var input request.SubmitClaimRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	claim, err := h.svc.SubmitClaim(ctx.Request.Context(), uint(orderID), input.StudentName, input.StudentGroup, input.Comment)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
			return
		}

		err = fmt.Errorf("v1.HandleSubmitClaim -> h.svc.SubmitClaim -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, claim)
}

// HandleListClaims godoc
// @Summary      List claims with their orders
// @Tags         claims
// @Produce      json
// @Param        status  query     string  false  "pending, approved or rejected"
// @Success      200     {array}   domain.ClaimWithOrder
// @Failure      401     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /claims [get]
// @Security     BearerAuth
func (h *OrderHandler) HandleListClaims(ctx *gin.Context) {
	_, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	status := domain.ClaimStatus(ctx.Query("status"))

	claims, err := h.svc.ListClaims(ctx.Request.Context(), status)
	if err != nil {
		err = fmt.Errorf("v1.HandleListClaims -> h.svc.ListClaims -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, claims)
}

// HandleGetClaim godoc
// @Summary      Get a claim by ID
// @Tags         claims
// @Produce      json
// @Param        claimID  path      int  true  "Claim ID"
// @Success      200      {object}  domain.ClaimWithOrder
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /claims/{claimID} [get]
// @Security     BearerAuth
func (h *OrderHandler) HandleGetClaim(ctx *gin.Context) {
	_, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	claimID, err := strconv.ParseUint(ctx.Param("claimID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid claim ID: %v", err)))
		return
	}

	claim, err := h.svc.GetClaim(ctx.Request.Context(), uint(claimID))
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("claim", "ID", claimID))
			return
		}

		err = fmt.Errorf("v1.HandleGetClaim -> h.svc.GetClaim -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, claim)
}

// HandleDecideClaim godoc
// @Summary      Approve or reject a claim
// @Description  Approving consumes a slot and credits the claimant; rejecting leaves the order untouched
// @Tags         claims
// @Accept       json
// @Produce      json
// @Param        claimID  path      int                          true  "Claim ID"
// @Param        input    body      request.ClaimDecisionRequest true  "Decision"
// @Success      200      {object}  domain.ClaimWithOrder
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /claims/{claimID}/decision [post]
// @Security     BearerAuth
func (h *OrderHandler) HandleDecideClaim(ctx *gin.Context) {
	moderator, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	claimID, err := strconv.ParseUint(ctx.Param("claimID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid claim ID: %v", err)))
		return
	}

	var input request.ClaimDecisionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	claim, err := h.coor.DecideClaim(ctx.Request.Context(), moderator.ID, uint(claimID), input.Decision)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimNotFound):
			response.RenderErr(ctx, response.ErrNotFound("claim", "ID", claimID))
		case errors.Is(err, service.ErrOrderNotFound):
			response.RenderErr(ctx, response.ErrNotFound("order", "claimID", claimID))
		case errors.Is(err, service.ErrClaimAlreadyProcessed),
			errors.Is(err, service.ErrCapacityExceeded):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrUnknownDecision):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleDecideClaim -> h.coor.DecideClaim -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, claim)
}
