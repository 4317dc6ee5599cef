package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/questguild/questboard-api/internal/api/handler/v1/response"
	"github.com/questguild/questboard-api/internal/api/middleware"
	"github.com/questguild/questboard-api/internal/domain"
	"github.com/questguild/questboard-api/internal/service"
)

type ModeratorService interface {
	GetModerator(ctx context.Context, id uint) (domain.Moderator, error)
}

type ModeratorHandler struct {
	svc ModeratorService
}

func NewModeratorHandler(svc ModeratorService) *ModeratorHandler {
	return &ModeratorHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the authenticated moderator
// @Tags         moderators
// @Produce      json
// @Success      200  {object}  domain.Moderator
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /moderators/me [get]
// @Security     BearerAuth
func (h *ModeratorHandler) HandleGetMe(ctx *gin.Context) {
	moderator, respErr := getModeratorFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, moderator)
}

// getModeratorFromContext resolves the moderator set by the JWT middleware.
func getModeratorFromContext(ctx *gin.Context, svc ModeratorService) (domain.Moderator, *response.Err) {
	val, ok := ctx.Get(middleware.ContextKeyModeratorID)
	if !ok {
		return domain.Moderator{}, response.ErrPermissionDenied(errors.New("moderator ID not found in context"))
	}

	moderatorID, ok := val.(uint)
	if !ok {
		return domain.Moderator{}, response.ErrPermissionDenied(fmt.Errorf("invalid moderator ID (%v) in context", val))
	}

	moderator, err := svc.GetModerator(ctx.Request.Context(), moderatorID)
	if err != nil {
		if errors.Is(err, service.ErrModeratorNotFound) {
			return domain.Moderator{}, response.ErrPermissionDenied(fmt.Errorf("moderator %v is not found", moderatorID))
		}

		err = fmt.Errorf("v1.getModeratorFromContext -> svc.GetModerator -> %w", err)

		return domain.Moderator{}, response.ErrInternalServerError(err)
	}

	return moderator, nil
}
