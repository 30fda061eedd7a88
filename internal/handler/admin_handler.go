package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/response"
)

type mappingService interface {
	Map(ctx context.Context, principal *models.JWTClaims, req dto.MapStudentsRequest) (*dto.MappingResult, error)
	ListStudents(ctx context.Context, principal *models.JWTClaims, filter dto.DirectoryQuery) ([]models.StudentDetail, error)
	ListTeachers(ctx context.Context, principal *models.JWTClaims, dept string) ([]models.TeacherDetail, error)
	ListMappings(ctx context.Context, principal *models.JWTClaims) ([]dto.MappingItem, error)
}

// AdminHandler exposes the student/teacher directory and verifier mapping.
type AdminHandler struct {
	mapping mappingService
}

// NewAdminHandler builds an admin handler.
func NewAdminHandler(mapping mappingService) *AdminHandler {
	return &AdminHandler{mapping: mapping}
}

// Students godoc
// @Summary List students with their verifier
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param dept query string false "Department"
// @Param semester query int false "Semester"
// @Param unassigned query bool false "Only students without a verifier"
// @Success 200 {object} response.Envelope
// @Router /admin/students [get]
func (h *AdminHandler) Students(c *gin.Context) {
	var filter dto.DirectoryQuery
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid directory filter"))
		return
	}
	students, err := h.mapping.ListStudents(c.Request.Context(), claimsFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Teachers godoc
// @Summary List teachers with mapped-student counts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param dept query string false "Department"
// @Success 200 {object} response.Envelope
// @Router /admin/teachers [get]
func (h *AdminHandler) Teachers(c *gin.Context) {
	teachers, err := h.mapping.ListTeachers(c.Request.Context(), claimsFromContext(c), strings.TrimSpace(c.Query("dept")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// Mappings godoc
// @Summary List student to verifier mappings
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/mappings [get]
func (h *AdminHandler) Mappings(c *gin.Context) {
	items, err := h.mapping.ListMappings(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Map godoc
// @Summary Assign a verifying teacher to one or more students
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.MapStudentsRequest true "Mapping payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/mappings [post]
func (h *AdminHandler) Map(c *gin.Context) {
	var req dto.MapStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mapping payload"))
		return
	}
	result, err := h.mapping.Map(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, result, "students mapped to teacher")
}
