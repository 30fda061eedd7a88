package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type courseCatalogRepository interface {
	ListBySemesterDept(ctx context.Context, semester int, dept string) ([]models.Course, error)
	ListAvailable(ctx context.Context, dept string) ([]models.Course, error)
}

type courseStudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.StudentProfile, error)
}

// CourseService serves the read-only course catalog.
type CourseService struct {
	courses   courseCatalogRepository
	students  courseStudentRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the catalog service. A nil cache disables caching.
func NewCourseService(courses courseCatalogRepository, students courseStudentRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, students: students, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// Catalog lists the courses of a semester and department ordered by title.
func (s *CourseService) Catalog(ctx context.Context, query dto.CourseCatalogQuery) ([]models.Course, error) {
	query.Dept = strings.TrimSpace(query.Dept)
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "semester must be 1-8 and dept is required")
	}

	// dept is matched exactly by the store, so the key must not fold case either.
	key := fmt.Sprintf("%s%d:%s", CacheKeyCoursesPrefix, query.Semester, query.Dept)
	var courses []models.Course
	if !s.cache.Get(ctx, key, &courses) {
		var err error
		courses, err = s.courses.ListBySemesterDept(ctx, query.Semester, query.Dept)
		if err != nil {
			s.logger.Error("failed to list catalog", zap.Int("semester", query.Semester), zap.String("dept", query.Dept), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
		}
		s.cache.Set(ctx, key, courses, s.cacheTTL)
	}
	if len(courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no courses found for this semester and department")
	}
	return courses, nil
}

// ListForStudent lists active courses of the caller's department plus every open elective.
func (s *CourseService) ListForStudent(ctx context.Context, principal *models.JWTClaims) ([]models.Course, error) {
	if err := authorize(principal, models.ActionViewCourses); err != nil {
		return nil, err
	}
	student, err := s.students.FindByID(ctx, principal.ProfileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, internalError(s.logger, err, "failed to load student")
	}
	courses, err := s.courses.ListAvailable(ctx, student.Dept)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// InvalidateCatalog drops every cached catalog listing.
func (s *CourseService) InvalidateCatalog(ctx context.Context) {
	s.cache.Invalidate(ctx, CacheKeyCoursesPrefix+"*")
}
