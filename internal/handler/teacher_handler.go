package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/response"
)

type teacherRegistrationService interface {
	ListPendingForTeacher(ctx context.Context, principal *models.JWTClaims) ([]models.TempRegistrationDetail, error)
	Decide(ctx context.Context, principal *models.JWTClaims, req dto.DecideRequest) (*dto.DecisionResult, error)
}

type teacherOverviewService interface {
	TeacherOverview(ctx context.Context, principal *models.JWTClaims) (*dto.TeacherOverview, error)
}

// TeacherHandler exposes the verifier side of the registration lifecycle.
type TeacherHandler struct {
	registrations teacherRegistrationService
	overview      teacherOverviewService
}

// NewTeacherHandler builds a teacher handler.
func NewTeacherHandler(registrations teacherRegistrationService, overview teacherOverviewService) *TeacherHandler {
	return &TeacherHandler{registrations: registrations, overview: overview}
}

// Me godoc
// @Summary The caller's teacher profile and mapped students
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teacher/me [get]
func (h *TeacherHandler) Me(c *gin.Context) {
	overview, err := h.overview.TeacherOverview(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// Pending godoc
// @Summary Pending requests routed to the caller, oldest first
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teacher/pending [get]
func (h *TeacherHandler) Pending(c *gin.Context) {
	items, err := h.registrations.ListPendingForTeacher(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Decide godoc
// @Summary Approve or reject a pending request
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.DecideRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teacher/decisions [post]
func (h *TeacherHandler) Decide(c *gin.Context) {
	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	result, err := h.registrations.Decide(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
