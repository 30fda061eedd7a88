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
	"github.com/noah-isme/course-registration-api/internal/repository"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type registrationStudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.StudentProfile, error)
}

type registrationCourseRepository interface {
	FindByIDs(ctx context.Context, ids []int64) ([]models.Course, error)
}

type tempRegistrationRepository interface {
	FindByID(ctx context.Context, id int64) (*models.TempRegistration, error)
	PendingCourseIDs(ctx context.Context, studentID int64, courseIDs []int64) ([]int64, error)
	CreateBatch(ctx context.Context, temps []models.TempRegistration) error
	ListPendingByVerifier(ctx context.Context, verifierID int64) ([]models.TempRegistrationDetail, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.TempRegistrationDetail, error)
	Reject(ctx context.Context, id int64, at time.Time) error
}

type finalizedRegistrationRepository interface {
	Finalize(ctx context.Context, tempID int64, at time.Time) (*models.Registration, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.RegistrationDetail, error)
}

type windowGate interface {
	EnsureOpen(ctx context.Context) error
}

// RegistrationConfig tunes the lifecycle engine.
type RegistrationConfig struct {
	DefaultMode string
}

// RegistrationService runs the registration lifecycle: students submit pending
// requests that their verifier approves into registrations or rejects.
type RegistrationService struct {
	students      registrationStudentRepository
	courses       registrationCourseRepository
	temps         tempRegistrationRepository
	registrations finalizedRegistrationRepository
	window        windowGate
	locks         *keyedMutex
	validator     *validator.Validate
	logger        *zap.Logger
	metrics       *MetricsService
	cfg           RegistrationConfig
	now           func() time.Time
}

// NewRegistrationService wires the lifecycle engine.
func NewRegistrationService(
	students registrationStudentRepository,
	courses registrationCourseRepository,
	temps tempRegistrationRepository,
	registrations finalizedRegistrationRepository,
	window windowGate,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg RegistrationConfig,
) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.DefaultMode) == "" {
		cfg.DefaultMode = "A"
	}
	return &RegistrationService{
		students:      students,
		courses:       courses,
		temps:         temps,
		registrations: registrations,
		window:        window,
		locks:         newKeyedMutex(),
		validator:     validate,
		logger:        logger,
		metrics:       metrics,
		cfg:           cfg,
		now:           time.Now,
	}
}

// WithClock replaces the time source used for decision timestamps.
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	if now != nil {
		s.now = now
	}
	return s
}

// Submit creates PENDING requests for the calling student. The verifier is resolved
// once and stamped on every request. Batches are all-or-nothing.
func (s *RegistrationService) Submit(ctx context.Context, principal *models.JWTClaims, req dto.SubmitRegistrationRequest) (*dto.SubmitRegistrationResult, error) {
	if err := authorize(principal, models.ActionSubmitRegistration); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	courseIDs := uniqueIDs(req.IDs())
	if len(courseIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseId or courseIds is required")
	}
	mode := strings.TrimSpace(req.Mode)
	if mode == "" {
		mode = s.cfg.DefaultMode
	}
	logger := s.logger.With(zap.Int64("student_id", principal.ProfileID), zap.Int64s("course_ids", courseIDs))

	student, err := s.students.FindByID(ctx, principal.ProfileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, s.storeError(logger, OutcomeError, len(courseIDs), err, "failed to load student")
	}
	if student.TeacherID == nil {
		s.metrics.RecordSubmission(OutcomeVerifierMissing, len(courseIDs))
		logger.Info("registration refused: no verifier assigned")
		return nil, appErrors.Clone(appErrors.ErrVerifierNotAssigned, "no verifying teacher is assigned to this student")
	}
	verifierID := *student.TeacherID

	if err := s.window.EnsureOpen(ctx); err != nil {
		if errors.Is(err, appErrors.ErrWindowClosed) {
			s.metrics.RecordSubmission(OutcomeWindowClosed, len(courseIDs))
			logger.Info("registration refused: window closed")
		}
		return nil, err
	}

	if err := s.ensureCoursesAvailable(ctx, logger, courseIDs); err != nil {
		return nil, err
	}

	keys := make([]string, len(courseIDs))
	for i, courseID := range courseIDs {
		keys[i] = registrationKey(student.ID, courseID)
	}
	unlock := s.locks.Lock(keys...)
	defer unlock()

	pending, err := s.temps.PendingCourseIDs(ctx, student.ID, courseIDs)
	if err != nil {
		return nil, s.storeError(logger, OutcomeError, len(courseIDs), err, "failed to check pending registrations")
	}
	if len(pending) > 0 {
		s.metrics.RecordSubmission(OutcomeDuplicate, len(courseIDs))
		return nil, duplicateRequest(pending)
	}

	temps := make([]models.TempRegistration, len(courseIDs))
	for i, courseID := range courseIDs {
		temps[i] = models.TempRegistration{
			StudentID:  student.ID,
			CourseID:   courseID,
			VerifierID: verifierID,
			Mode:       mode,
			Status:     models.TempStatusPending,
		}
	}
	if err := s.temps.CreateBatch(ctx, temps); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			s.metrics.RecordSubmission(OutcomeDuplicate, len(courseIDs))
			return nil, duplicateRequest(s.collidingCourseIDs(ctx, logger, student.ID, courseIDs))
		}
		return nil, s.storeError(logger, OutcomeError, len(courseIDs), err, "failed to create registration requests")
	}

	s.metrics.RecordSubmission(OutcomeAccepted, len(temps))
	logger.Info("registration requests submitted", zap.Int64("verifier_id", verifierID), zap.String("mode", mode))
	return &dto.SubmitRegistrationResult{Requests: temps, Count: len(temps)}, nil
}

// collidingCourseIDs re-reads which courses already hold a PENDING row after another
// writer won the insert. The whole batch is reported when the lookup itself fails.
func (s *RegistrationService) collidingCourseIDs(ctx context.Context, logger *zap.Logger, studentID int64, courseIDs []int64) []int64 {
	pending, err := s.temps.PendingCourseIDs(ctx, studentID, courseIDs)
	if err != nil {
		logger.Warn("failed to resolve colliding courses", zap.Error(err))
		return courseIDs
	}
	if len(pending) == 0 {
		return courseIDs
	}
	return pending
}

func duplicateRequest(courseIDs []int64) error {
	return appErrors.WithDetails(appErrors.ErrDuplicateRequest, map[string]interface{}{"courseIds": courseIDs})
}

func (s *RegistrationService) ensureCoursesAvailable(ctx context.Context, logger *zap.Logger, courseIDs []int64) error {
	courses, err := s.courses.FindByIDs(ctx, courseIDs)
	if err != nil {
		return s.storeError(logger, OutcomeError, len(courseIDs), err, "failed to load courses")
	}
	available := make(map[int64]struct{}, len(courses))
	for _, course := range courses {
		if course.Active {
			available[course.ID] = struct{}{}
		}
	}
	var missing []int64
	for _, id := range courseIDs {
		if _, ok := available[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	s.metrics.RecordSubmission(OutcomeCourseUnavailable, len(courseIDs))
	return appErrors.WithDetails(
		appErrors.Clone(appErrors.ErrNotFound, "course not found or inactive"),
		map[string]interface{}{"courseIds": missing},
	)
}

// Decide applies a teacher's verdict to a pending request routed to them. Approval
// materializes exactly one registration; a resolved request cannot be decided again.
func (s *RegistrationService) Decide(ctx context.Context, principal *models.JWTClaims, req dto.DecideRequest) (*dto.DecisionResult, error) {
	if err := authorize(principal, models.ActionDecideRegistration); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "action must be APPROVED or REJECTED")
	}

	temp, err := s.temps.FindByID(ctx, req.TempRegistrationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration request not found")
		}
		return nil, internalError(s.logger, err, "failed to load registration request", zap.Int64("temp_registration_id", req.TempRegistrationID))
	}
	if temp.VerifierID != principal.ProfileID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "registration request is not routed to this teacher")
	}

	unlock := s.locks.Lock(registrationKey(temp.StudentID, temp.CourseID))
	defer unlock()

	if temp.Status.Resolved() {
		return nil, appErrors.Clone(appErrors.ErrAlreadyResolved, fmt.Sprintf("registration request already %s", strings.ToLower(string(temp.Status))))
	}

	logger := s.logger.With(
		zap.Int64("temp_registration_id", temp.ID),
		zap.Int64("teacher_id", principal.ProfileID),
		zap.String("action", string(req.Action)),
	)
	now := s.now().UTC()
	result := &dto.DecisionResult{TempRegistrationID: temp.ID}

	switch req.Action {
	case models.DecisionApproved:
		reg, err := s.registrations.Finalize(ctx, temp.ID, now)
		if err != nil {
			return nil, s.decisionError(logger, err)
		}
		result.Status = models.TempStatusVerified
		result.Registration = reg
	case models.DecisionRejected:
		if err := s.temps.Reject(ctx, temp.ID, now); err != nil {
			return nil, s.decisionError(logger, err)
		}
		result.Status = models.TempStatusRejected
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "action must be APPROVED or REJECTED")
	}

	s.metrics.RecordDecision(string(req.Action), now.Sub(temp.CreatedAt))
	logger.Info("registration request decided", zap.String("status", string(result.Status)))
	return result, nil
}

func (s *RegistrationService) decisionError(logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotPending), errors.Is(err, repository.ErrUniqueViolation):
		return appErrors.Clone(appErrors.ErrAlreadyResolved, "")
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "registration request or course not found")
	}
	logger.Error("failed to apply decision", zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply decision")
}

// ListPendingForTeacher returns the caller's PENDING requests, oldest first.
func (s *RegistrationService) ListPendingForTeacher(ctx context.Context, principal *models.JWTClaims) ([]models.TempRegistrationDetail, error) {
	if err := authorize(principal, models.ActionViewPending); err != nil {
		return nil, err
	}
	items, err := s.temps.ListPendingByVerifier(ctx, principal.ProfileID)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to list pending requests", zap.Int64("teacher_id", principal.ProfileID))
	}
	if items == nil {
		items = []models.TempRegistrationDetail{}
	}
	return items, nil
}

// ListForStudent returns the caller's pending requests, finalized registrations and full request history.
func (s *RegistrationService) ListForStudent(ctx context.Context, principal *models.JWTClaims) (*dto.StudentRegistrations, error) {
	if err := authorize(principal, models.ActionViewOwnRegistrations); err != nil {
		return nil, err
	}
	history, err := s.temps.ListByStudent(ctx, principal.ProfileID)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to list registration requests", zap.Int64("student_id", principal.ProfileID))
	}
	finalized, err := s.registrations.ListByStudent(ctx, principal.ProfileID)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to list registrations", zap.Int64("student_id", principal.ProfileID))
	}

	result := &dto.StudentRegistrations{
		Pending:   []models.TempRegistrationDetail{},
		Finalized: finalized,
		History:   history,
	}
	for _, item := range history {
		if item.Status == models.TempStatusPending {
			result.Pending = append(result.Pending, item)
		}
	}
	if result.Finalized == nil {
		result.Finalized = []models.RegistrationDetail{}
	}
	if result.History == nil {
		result.History = []models.TempRegistrationDetail{}
	}
	return result, nil
}

func (s *RegistrationService) storeError(logger *zap.Logger, outcome string, n int, err error, message string) error {
	s.metrics.RecordSubmission(outcome, n)
	logger.Error(message, zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
