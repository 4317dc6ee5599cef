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

type LedgerService interface {
	GetStudent(ctx context.Context, id uint) (domain.Student, error)
	ListStudents(ctx context.Context) ([]domain.Student, error)
	AdjustPoints(ctx context.Context, moderatorID, studentID uint, newTotal int) (domain.Student, error)
	DeleteStudent(ctx context.Context, moderatorID, studentID uint) error
}

type StudentHandler struct {
	svc  LedgerService
	mSvc ModeratorService
}

func NewStudentHandler(svc LedgerService, mSvc ModeratorService) *StudentHandler {
	return &StudentHandler{
		svc:  svc,
		mSvc: mSvc,
	}
}

// HandleListStudents godoc
// @Summary      Leaderboard of students by total points
// @Tags         students
// @Produce      json
// @Success      200  {array}   domain.Student
// @Failure      500  {object}  response.Err
// @Router       /students [get]
func (h *StudentHandler) HandleListStudents(ctx *gin.Context) {
	students, err := h.svc.ListStudents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListStudents -> h.svc.ListStudents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// HandleGetStudent godoc
// @Summary      Get a student by ID
// @Tags         students
// @Produce      json
// @Param        studentID  path      int  true  "Student ID"
// @Success      200        {object}  domain.Student
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /students/{studentID} [get]
func (h *StudentHandler) HandleGetStudent(ctx *gin.Context) {
	studentID, err := strconv.ParseUint(ctx.Param("studentID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid student ID: %v", err)))
		return
	}

	student, err := h.svc.GetStudent(ctx.Request.Context(), uint(studentID))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("student", "ID", studentID))
			return
		}

		err = fmt.Errorf("v1.HandleGetStudent -> h.svc.GetStudent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// HandleAdjustPoints godoc
// @Summary      Override a student's point total
// @Description  Sets the total directly, bypassing the credit/debit flow; negative values clamp to zero
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        studentID  path      int                         true  "Student ID"
// @Param        input      body      request.AdjustPointsRequest true  "New total"
// @Success      200        {object}  domain.Student
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /students/{studentID}/points [put]
// @Security     BearerAuth
func (h *StudentHandler) HandleAdjustPoints(ctx *gin.Context) {
	moderator, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	studentID, err := strconv.ParseUint(ctx.Param("studentID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid student ID: %v", err)))
		return
	}

	var input request.AdjustPointsRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	student, err := h.svc.AdjustPoints(ctx.Request.Context(), moderator.ID, uint(studentID), *input.TotalPoints)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("student", "ID", studentID))
			return
		}

		err = fmt.Errorf("v1.HandleAdjustPoints -> h.svc.AdjustPoints -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// HandleDeleteStudent godoc
// @Summary      Delete a student and their balance
// @Tags         students
// @Produce      json
// @Param        studentID  path  int  true  "Student ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /students/{studentID} [delete]
// @Security     BearerAuth
func (h *StudentHandler) HandleDeleteStudent(ctx *gin.Context) {
	moderator, respErr := getModeratorFromContext(ctx, h.mSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	studentID, err := strconv.ParseUint(ctx.Param("studentID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid student ID: %v", err)))
		return
	}

	if err := h.svc.DeleteStudent(ctx.Request.Context(), moderator.ID, uint(studentID)); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("student", "ID", studentID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteStudent -> h.svc.DeleteStudent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
