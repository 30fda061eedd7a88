package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	"github.com/noah-isme/course-registration-api/internal/service"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/response"
)

type studentRegistrationService interface {
	Submit(ctx context.Context, principal *models.JWTClaims, req dto.SubmitRegistrationRequest) (*dto.SubmitRegistrationResult, error)
	ListForStudent(ctx context.Context, principal *models.JWTClaims) (*dto.StudentRegistrations, error)
}

type registrationExporter interface {
	ExportRegistrations(ctx context.Context, principal *models.JWTClaims, format string) (*service.ExportFile, error)
}

type verifierLookup interface {
	MyVerifier(ctx context.Context, principal *models.JWTClaims) (*models.TeacherDetail, error)
}

// StudentHandler exposes the student side of the registration lifecycle.
type StudentHandler struct {
	registrations studentRegistrationService
	exporter      registrationExporter
	verifiers     verifierLookup
}

// NewStudentHandler builds a student handler.
func NewStudentHandler(registrations studentRegistrationService, exporter registrationExporter, verifiers verifierLookup) *StudentHandler {
	return &StudentHandler{registrations: registrations, exporter: exporter, verifiers: verifiers}
}

// Submit godoc
// @Summary Submit registration requests
// @Description Creates PENDING requests routed to the student's verifier. Send courseId or courseIds.
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitRegistrationRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /student/registrations [post]
func (h *StudentHandler) Submit(c *gin.Context) {
	var req dto.SubmitRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}
	result, err := h.registrations.Submit(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary The caller's pending requests, registrations and request history
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/registrations [get]
func (h *StudentHandler) List(c *gin.Context) {
	result, err := h.registrations.ListForStudent(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export godoc
// @Summary Download finalized registrations
// @Tags Student
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /student/registrations/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	file, err := h.exporter.ExportRegistrations(c.Request.Context(), claimsFromContext(c), query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Download(c, file.Filename, file.ContentType, file.Data)
}

// Verifier godoc
// @Summary The caller's assigned verifying teacher
// @Description Data is null when no verifier is assigned.
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /student/verifier [get]
func (h *StudentHandler) Verifier(c *gin.Context) {
	teacher, err := h.verifiers.MyVerifier(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if teacher == nil {
		response.Message(c, http.StatusOK, nil, "no verifier assigned")
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}
