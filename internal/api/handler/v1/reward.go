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

type RedemptionService interface {
	CreateReward(ctx context.Context, reward domain.Reward) (domain.Reward, error)
	ListRewards(ctx context.Context, activeOnly bool) ([]domain.Reward, error)
	DeleteReward(ctx context.Context, id uint) error
	SetRewardActive(ctx context.Context, id uint, active bool) error
	SubmitPurchase(ctx context.Context, rewardID uint, name, group string, quantity int, comment string) (domain.RewardPurchase, error)
	GetPurchase(ctx context.Context, id uint) (domain.PurchaseWithReward, error)
	ListPurchases(ctx context.Context, status domain.PurchaseStatus) ([]domain.PurchaseWithReward, error)
}

type PurchaseCoordinator interface {
	DecidePurchase(ctx context.Context, moderatorID, purchaseID uint, action string) (domain.PurchaseWithReward, error)
}

type RewardHandler struct {
	svc  RedemptionService
	coor PurchaseCoordinator
	mSvc ModeratorService
}

func NewRewardHandler(svc RedemptionService, coor PurchaseCoordinator, mSvc ModeratorService) *RewardHandler {
	return &RewardHandler{
		svc:  svc,
		coor: coor,
		mSvc: mSvc,
	}
}

// HandleListRewards godoc
// @Summary      List the reward catalog
// @Description  Lists active rewards by default; pass status=all to include retired ones
// @Tags         rewards
// @Produce      json
// @Param        status  query     string  false  "active or all"
// @Success      200     {array}   domain.Reward
// @Failure      500     {object}  response.Err
// @Router       /rewards [get]
func (h *RewardHandler) HandleListRewards(ctx *gin.Context) {
	activeOnly := ctx.DefaultQuery("status", "active") != "all"

	rewards, err := h.svc.ListRewards(ctx.Request.Context(), activeOnly)
	if err != nil {
		err = fmt.Errorf("v1.HandleListRewards -> h.svc.ListRewards -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rewards)
}

// HandleCreateReward godoc
// @Summary      Add a reward to the catalog
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateRewardRequest  true  "Reward details"
// @Success      201    {object}  domain.Reward
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /rewards [post]
// @Security     BearerAuth
func (h *RewardHandler) HandleCreateReward(ctx *gin.Context) {
	_, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var input request.CreateRewardRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reward, err := h.svc.CreateReward(ctx.Request.Context(), domain.Reward{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		IsActive:    true,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateReward -> h.svc.CreateReward -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, reward)
}

// HandleDeleteReward godoc
// @Summary      Delete a reward
// @Tags         rewards
// @Produce      json
// @Param        rewardID  path  int  true  "Reward ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /rewards/{rewardID} [delete]
// @Security     BearerAuth
func (h *RewardHandler) HandleDeleteReward(ctx *gin.Context) {
	_, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rewardID, err := strconv.ParseUint(ctx.Param("rewardID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid reward ID: %v", err)))
		return
	}

	if err := h.svc.DeleteReward(ctx.Request.Context(), uint(rewardID)); err != nil {
		if errors.Is(err, service.ErrRewardNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reward", "ID", rewardID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteReward -> h.svc.DeleteReward -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSetRewardActive godoc
// @Summary      Activate or retire a reward
// @Tags         rewards
// @Accept       json
// @Produce      json
// @Param        rewardID  path  int                             true  "Reward ID"
// @Param        input     body  request.SetRewardActiveRequest  true  "Active flag"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /rewards/{rewardID}/active [patch]
// @Security     BearerAuth
func (h *RewardHandler) HandleSetRewardActive(ctx *gin.Context) {
	_, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rewardID, err := strconv.ParseUint(ctx.Param("rewardID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid reward ID: %v", err)))
		return
	}

	var input request.SetRewardActiveRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.SetRewardActive(ctx.Request.Context(), uint(rewardID), *input.Active); err != nil {
		if errors.Is(err, service.ErrRewardNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("reward", "ID", rewardID))
			return
		}

		err = fmt.Errorf("v1.HandleSetRewardActive -> h.svc.SetRewardActive -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSubmitPurchase godoc
// @Summary      Request a reward purchase
// @Description  Records a pending purchase; the balance is only debited when a moderator approves
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        rewardID  path      int                           true  "Reward ID"
// @Param        input     body      request.SubmitPurchaseRequest true  "Purchase details"
// @Success      201       {object}  domain.RewardPurchase
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /rewards/{rewardID}/purchases [post]
func (h *RewardHandler) HandleSubmitPurchase(ctx *gin.Context) {
	rewardID, err := strconv.ParseUint(ctx.Param("rewardID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid reward ID: %v", err)))
		return
	}

	var input request.SubmitPurchaseRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	purchase, err := h.svc.SubmitPurchase(ctx.Request.Context(), uint(rewardID), input.StudentName, input.StudentGroup, input.Quantity, input.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRewardNotFound):
			response.RenderErr(ctx, response.ErrNotFound("reward", "ID", rewardID))
		case errors.Is(err, service.ErrInvalidQuantity):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleSubmitPurchase -> h.svc.SubmitPurchase -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, purchase)
}

// HandleListPurchases godoc
// @Summary      List purchases with their rewards
// @Tags         purchases
// @Produce      json
// @Param        status  query     string  false  "pending, approved, rejected or delivered"
// @Success      200     {array}   domain.PurchaseWithReward
// @Failure      401     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /purchases [get]
// @Security     BearerAuth
func (h *RewardHandler) HandleListPurchases(ctx *gin.Context) {
	_, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	status := domain.PurchaseStatus(ctx.Query("status"))

	purchases, err := h.svc.ListPurchases(ctx.Request.Context(), status)
	if err != nil {
		err = fmt.Errorf("v1.HandleListPurchases -> h.svc.ListPurchases -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, purchases)
}

// HandleGetPurchase godoc
// @Summary      Get a purchase by ID
// @Tags         purchases
// @Produce      json
// @Param        purchaseID  path      int  true  "Purchase ID"
// @Success      200         {object}  domain.PurchaseWithReward
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /purchases/{purchaseID} [get]
// @Security     BearerAuth
func (h *RewardHandler) HandleGetPurchase(ctx *gin.Context) {
	_, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	purchaseID, err := strconv.ParseUint(ctx.Param("purchaseID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid purchase ID: %v", err)))
		return
	}

	purchase, err := h.svc.GetPurchase(ctx.Request.Context(), uint(purchaseID))
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("purchase", "ID", purchaseID))
			return
		}

		err = fmt.Errorf("v1.HandleGetPurchase -> h.svc.GetPurchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, purchase)
}

// HandleDecidePurchase godoc
// @Summary      Approve, reject or deliver a purchase
// @Description  Approving debits the buyer's balance; insufficient funds leave the purchase pending
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        purchaseID  path      int                             true  "Purchase ID"
// @Param        input       body      request.PurchaseDecisionRequest true  "Decision"
// @Success      200         {object}  domain.PurchaseWithReward
// @Failure      400         {object}  response.Err
// @Failure      401         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /purchases/{purchaseID}/decision [post]
// @Security     BearerAuth
func (h *RewardHandler) HandleDecidePurchase(ctx *gin.Context) {
	moderator, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	purchaseID, err := strconv.ParseUint(ctx.Param("purchaseID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid purchase ID: %v", err)))
		return
	}

	var input request.PurchaseDecisionRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	purchase, err := h.coor.DecidePurchase(ctx.Request.Context(), moderator.ID, uint(purchaseID), input.Decision)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPurchaseNotFound):
			response.RenderErr(ctx, response.ErrNotFound("purchase", "ID", purchaseID))
		case errors.Is(err, service.ErrStudentNotFound):
			response.RenderErr(ctx, response.ErrNotFound("student", "purchaseID", purchaseID))
		case errors.Is(err, service.ErrInsufficientBalance),
			errors.Is(err, service.ErrPurchaseAlreadyProcessed),
			errors.Is(err, service.ErrPurchaseNotApproved):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrUnknownDecision):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleDecidePurchase -> h.coor.DecidePurchase -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, purchase)
}
