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

type windowService interface {
	State(ctx context.Context) (*dto.WindowState, error)
	Set(ctx context.Context, principal *models.JWTClaims, req dto.SetWindowRequest) (*dto.WindowState, error)
}

// WindowHandler exposes the registration window.
type WindowHandler struct {
	service windowService
}

// NewWindowHandler builds a window handler.
func NewWindowHandler(service windowService) *WindowHandler {
	return &WindowHandler{service: service}
}

// State godoc
// @Summary Effective registration window state
// @Tags Registration Window
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /registration/window [get]
func (h *WindowHandler) State(c *gin.Context) {
	state, err := h.service.State(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Set godoc
// @Summary Open or close the registration window
// @Description Dates accept RFC3339 or YYYY-MM-DD. Omitted dates are cleared.
// @Tags Registration Window
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SetWindowRequest true "Window payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/registration/window [post]
func (h *WindowHandler) Set(c *gin.Context) {
	var req dto.SetWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid window payload"))
		return
	}
	state, err := h.service.Set(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, state, state.Message)
}
