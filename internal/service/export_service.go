package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type exportRegistrationRepository interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.RegistrationDetail, error)
}

type exportStudentRepository interface {
	FindByUserID(ctx context.Context, userID int64) (*models.StudentDetail, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportFile is a rendered document ready to be streamed to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a student's finalized registrations as CSV or PDF.
type ExportService struct {
	registrations exportRegistrationRepository
	students      exportStudentRepository
	csv           tableRenderer
	pdf           tableRenderer
	logger        *zap.Logger
	now           func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers use the pkg/export defaults.
func NewExportService(registrations exportRegistrationRepository, students exportStudentRepository, logger *zap.Logger, csv, pdf tableRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVRenderer()
	}
	if pdf == nil {
		pdf = export.NewPDFRenderer()
	}
	return &ExportService{registrations: registrations, students: students, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// ExportRegistrations renders the caller's finalized registrations in the requested format.
func (s *ExportService) ExportRegistrations(ctx context.Context, principal *models.JWTClaims, format string) (*ExportFile, error) {
	if err := authorize(principal, models.ActionViewOwnRegistrations); err != nil {
		return nil, err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	student, err := s.students.FindByUserID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, internalError(s.logger, err, "failed to load student")
	}
	items, err := s.registrations.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to list registrations")
	}

	table := registrationTable(student, items, s.now().UTC())
	var (
		data        []byte
		contentType string
	)
	switch format {
	case ExportFormatPDF:
		data, err = s.pdf.Render(table)
		contentType = "application/pdf"
	default:
		data, err = s.csv.Render(table)
		contentType = "text/csv"
	}
	if err != nil {
		s.logger.Error("failed to render registrations", zap.String("format", format), zap.Int64("student_id", student.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("registrations_%s.%s", student.EnrollmentNo, format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func registrationTable(student *models.StudentDetail, items []models.RegistrationDetail, generatedAt time.Time) export.Table {
	rows := make([][]string, 0, len(items))
	credits := 0
	for _, item := range items {
		credits += item.CourseCredits
		rows = append(rows, []string{
			item.CourseCode,
			item.CourseTitle,
			string(item.CourseType),
			strconv.Itoa(item.CourseCredits),
			strconv.Itoa(item.Semester),
			strconv.Itoa(item.Year),
			item.Mode,
		})
	}
	return export.Table{
		Title: fmt.Sprintf("Registered courses: %s (%s)", student.Name, student.EnrollmentNo),
		Columns: []export.Column{
			{Header: "Code", Width: 2},
			{Header: "Title", Width: 5},
			{Header: "Type", Width: 1},
			{Header: "Credits", Width: 1},
			{Header: "Semester", Width: 1},
			{Header: "Year", Width: 1},
			{Header: "Mode", Width: 1},
		},
		Rows:   rows,
		Footer: fmt.Sprintf("Total credits: %d. Generated %s", credits, generatedAt.Format(time.RFC3339)),
	}
}
