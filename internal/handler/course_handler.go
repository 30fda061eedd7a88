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

type courseService interface {
	Catalog(ctx context.Context, query dto.CourseCatalogQuery) ([]models.Course, error)
	ListForStudent(ctx context.Context, principal *models.JWTClaims) ([]models.Course, error)
}

// CourseHandler exposes the course catalog.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler builds a course handler.
func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// Catalog godoc
// @Summary Courses of a semester and department
// @Tags Courses
// @Produce json
// @Param semester path int true "Semester (1-8)"
// @Param dept path string true "Department"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{semester}/{dept} [get]
func (h *CourseHandler) Catalog(c *gin.Context) {
	var query dto.CourseCatalogQuery
	if err := c.ShouldBindUri(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "semester must be a number"))
		return
	}
	courses, err := h.service.Catalog(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Available godoc
// @Summary Courses open to the calling student
// @Description Active courses of the student's department plus every open elective.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/courses [get]
func (h *CourseHandler) Available(c *gin.Context) {
	courses, err := h.service.ListForStudent(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}
