package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/course-registration-api/internal/models"
	"github.com/noah-isme/course-registration-api/internal/repository"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	CreateStudent(ctx context.Context, user *models.User, profile *models.StudentProfile) error
	CreateTeacher(ctx context.Context, user *models.User, profile *models.TeacherProfile) error
}

type authStudentRepository interface {
	FindByUserID(ctx context.Context, userID int64) (*models.StudentDetail, error)
}

type authTeacherRepository interface {
	FindByUserID(ctx context.Context, userID int64) (*models.TeacherDetail, error)
}

type authAdminRepository interface {
	FindByUserID(ctx context.Context, userID int64) (*models.AdminProfile, error)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService provides signup, login and token validation.
type AuthService struct {
	users     authUserRepository
	students  authStudentRepository
	teachers  authTeacherRepository
	admins    authAdminRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users authUserRepository,
	students authStudentRepository,
	teachers authTeacherRepository,
	admins authAdminRepository,
	validate *validator.Validate,
	logger *zap.Logger,
	config AuthConfig,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		students:  students,
		teachers:  teachers,
		admins:    admins,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// Signup creates a student or teacher account together with its profile.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}
	if req.Role == models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin accounts cannot be created through signup")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to hash password")
	}
	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
	}

	var profileID int64
	switch req.Role {
	case models.RoleStudent:
		profile := &models.StudentProfile{
			EnrollmentNo: req.EnrollmentNo,
			FacultyNo:    req.FacultyNo,
			Semester:     req.Semester,
			Dept:         req.Dept,
		}
		err = s.users.CreateStudent(ctx, user, profile)
		profileID = profile.ID
	case models.RoleTeacher:
		profile := &models.TeacherProfile{
			EmployeeID:  req.EmployeeID,
			Designation: req.Designation,
			Dept:        req.Dept,
		}
		err = s.users.CreateTeacher(ctx, user, profile)
		profileID = profile.ID
	}
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email or profile number already registered")
		}
		s.logger.Error("failed to create account", zap.String("email", user.Email), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
	}

	s.logger.Info("account created", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return &models.UserInfo{ID: user.ID, ProfileID: profileID, Email: user.Email, Name: user.Name, Role: user.Role}, nil
}

// Login authenticates a user and returns an access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, internalError(s.logger, err, "failed to fetch user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	profileID, err := s.profileID(ctx, user)
	if err != nil {
		return nil, err
	}

	issuedAt := s.now().UTC()
	token, err := s.generateAccessToken(user, profileID, issuedAt)
	if err != nil {
		return nil, internalError(s.logger, err, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		User: models.UserInfo{
			ID:        user.ID,
			ProfileID: profileID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      user.Role,
		},
	}, nil
}

// Profile returns the caller's account with its role profile.
func (s *AuthService) Profile(ctx context.Context, principal *models.JWTClaims) (*models.Profile, error) {
	if principal == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	user, err := s.users.FindByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, internalError(s.logger, err, "failed to load user")
	}

	profile := &models.Profile{UserInfo: models.UserInfo{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}}
	switch user.Role {
	case models.RoleStudent:
		profile.Student, err = s.students.FindByUserID(ctx, user.ID)
		if err == nil {
			profile.ProfileID = profile.Student.ID
		}
	case models.RoleTeacher:
		profile.Teacher, err = s.teachers.FindByUserID(ctx, user.ID)
		if err == nil {
			profile.ProfileID = profile.Teacher.ID
		}
	case models.RoleAdmin:
		profile.Admin, err = s.admins.FindByUserID(ctx, user.ID)
		if err == nil {
			profile.ProfileID = profile.Admin.ID
		}
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, internalError(s.logger, err, "failed to load profile")
	}
	return profile, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// profileID resolves the role profile owned by the user. Every account must have one.
func (s *AuthService) profileID(ctx context.Context, user *models.User) (int64, error) {
	var (
		id  int64
		err error
	)
	switch user.Role {
	case models.RoleStudent:
		var p *models.StudentDetail
		if p, err = s.students.FindByUserID(ctx, user.ID); err == nil {
			id = p.ID
		}
	case models.RoleTeacher:
		var p *models.TeacherDetail
		if p, err = s.teachers.FindByUserID(ctx, user.ID); err == nil {
			id = p.ID
		}
	case models.RoleAdmin:
		var p *models.AdminProfile
		if p, err = s.admins.FindByUserID(ctx, user.ID); err == nil {
			id = p.ID
		}
	default:
		return 0, appErrors.Clone(appErrors.ErrForbidden, "unknown role")
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("account has no role profile", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
			return 0, appErrors.Clone(appErrors.ErrForbidden, "account has no profile")
		}
		return 0, internalError(s.logger, err, "failed to load profile")
	}
	return id, nil
}

func (s *AuthService) generateAccessToken(user *models.User, profileID int64, issuedAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		UserID:    user.ID,
		ProfileID: profileID,
		Role:      user.Role,
		Email:     user.Email,
		Name:      user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
}
