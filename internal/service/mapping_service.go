package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type mappingStudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.StudentProfile, error)
	List(ctx context.Context, filter dto.DirectoryQuery) ([]models.StudentDetail, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.StudentDetail, error)
	AssignVerifier(ctx context.Context, teacherID int64, studentIDs []int64) ([]int64, error)
	ListMappings(ctx context.Context) ([]dto.MappingItem, error)
}

type mappingTeacherRepository interface {
	FindByID(ctx context.Context, id int64) (*models.TeacherDetail, error)
	List(ctx context.Context, dept string) ([]models.TeacherDetail, error)
}

// MappingService is the student to verifier directory.
type MappingService struct {
	students  mappingStudentRepository
	teachers  mappingTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMappingService constructs the directory service.
func NewMappingService(students mappingStudentRepository, teachers mappingTeacherRepository, validate *validator.Validate, logger *zap.Logger) *MappingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MappingService{students: students, teachers: teachers, validator: validate, logger: logger}
}

// Map assigns one or many students to a teacher. Either every student is mapped or none is.
// Existing assignments are overwritten.
func (s *MappingService) Map(ctx context.Context, principal *models.JWTClaims, req dto.MapStudentsRequest) (*dto.MappingResult, error) {
	if err := authorize(principal, models.ActionMapStudents); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mapping payload")
	}
	ids := req.IDs()
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId or studentIds is required")
	}

	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, internalError(s.logger, err, "failed to load teacher", zap.Int64("teacher_id", req.TeacherID))
	}

	missing, err := s.students.AssignVerifier(ctx, req.TeacherID, ids)
	if err != nil {
		s.logger.Error("failed to assign verifier", zap.Int64("teacher_id", req.TeacherID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign verifier")
	}
	if len(missing) > 0 {
		return nil, appErrors.WithDetails(
			appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%d student(s) not found", len(missing))),
			map[string]interface{}{"missingStudentIds": missing},
		)
	}

	s.logger.Info("students mapped to verifier",
		zap.Int64("teacher_id", req.TeacherID),
		zap.Int64s("student_ids", ids),
		zap.Int64("admin_user_id", principal.UserID),
	)
	return &dto.MappingResult{TeacherID: req.TeacherID, StudentIDs: ids, Count: len(ids)}, nil
}

// AssignedVerifier returns the student's current verifier, or nil when none is assigned.
func (s *MappingService) AssignedVerifier(ctx context.Context, studentID int64) (*models.TeacherDetail, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, internalError(s.logger, err, "failed to load student", zap.Int64("student_id", studentID))
	}
	if student.TeacherID == nil {
		return nil, nil
	}
	teacher, err := s.teachers.FindByID(ctx, *student.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, internalError(s.logger, err, "failed to load verifier")
	}
	return teacher, nil
}

// MyVerifier returns the calling student's verifier.
func (s *MappingService) MyVerifier(ctx context.Context, principal *models.JWTClaims) (*models.TeacherDetail, error) {
	if err := authorize(principal, models.ActionViewOwnVerifier); err != nil {
		return nil, err
	}
	return s.AssignedVerifier(ctx, principal.ProfileID)
}

// TeacherOverview returns the calling teacher's profile and mapped students.
func (s *MappingService) TeacherOverview(ctx context.Context, principal *models.JWTClaims) (*dto.TeacherOverview, error) {
	if err := authorize(principal, models.ActionViewTeacherProfile); err != nil {
		return nil, err
	}
	teacher, err := s.teachers.FindByID(ctx, principal.ProfileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, internalError(s.logger, err, "failed to load teacher")
	}
	students, err := s.students.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to load mapped students")
	}
	if students == nil {
		students = []models.StudentDetail{}
	}
	return &dto.TeacherOverview{Teacher: *teacher, Students: students}, nil
}

// ListStudents returns the student directory.
func (s *MappingService) ListStudents(ctx context.Context, principal *models.JWTClaims, filter dto.DirectoryQuery) ([]models.StudentDetail, error) {
	if err := authorize(principal, models.ActionViewDirectory); err != nil {
		return nil, err
	}
	students, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to list students")
	}
	return students, nil
}

// ListTeachers returns the teacher directory with mapped-student counts.
func (s *MappingService) ListTeachers(ctx context.Context, principal *models.JWTClaims, dept string) ([]models.TeacherDetail, error) {
	if err := authorize(principal, models.ActionViewDirectory); err != nil {
		return nil, err
	}
	teachers, err := s.teachers.List(ctx, dept)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to list teachers")
	}
	return teachers, nil
}

// ListMappings returns every student to verifier assignment.
func (s *MappingService) ListMappings(ctx context.Context, principal *models.JWTClaims) ([]dto.MappingItem, error) {
	if err := authorize(principal, models.ActionViewDirectory); err != nil {
		return nil, err
	}
	items, err := s.students.ListMappings(ctx)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to list mappings")
	}
	return items, nil
}
