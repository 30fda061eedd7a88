package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/course-registration-api/internal/models"
	"github.com/noah-isme/course-registration-api/internal/repository"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type mockAuthRepo struct {
	users     map[string]*models.User
	students  map[int64]*models.StudentDetail
	teachers  map[int64]*models.TeacherDetail
	admins    map[int64]*models.AdminProfile
	createErr error
	nextID    int64
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{
		users:    map[string]*models.User{},
		students: map[int64]*models.StudentDetail{},
		teachers: map[int64]*models.TeacherDetail{},
		admins:   map[int64]*models.AdminProfile{},
	}
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) create(user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.users[user.Email]; ok {
		return fmt.Errorf("insert user: %w", repository.ErrUniqueViolation)
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Email] = user
	return nil
}

func (m *mockAuthRepo) CreateStudent(ctx context.Context, user *models.User, profile *models.StudentProfile) error {
	if err := m.create(user); err != nil {
		return err
	}
	profile.ID = user.ID + 1000
	profile.UserID = user.ID
	m.students[user.ID] = &models.StudentDetail{StudentProfile: *profile, Name: user.Name, Email: user.Email}
	return nil
}

func (m *mockAuthRepo) CreateTeacher(ctx context.Context, user *models.User, profile *models.TeacherProfile) error {
	if err := m.create(user); err != nil {
		return err
	}
	profile.ID = user.ID + 2000
	profile.UserID = user.ID
	m.teachers[user.ID] = &models.TeacherDetail{TeacherProfile: *profile, Name: user.Name, Email: user.Email}
	return nil
}

type authStudents struct{ *mockAuthRepo }

func (r authStudents) FindByUserID(ctx context.Context, userID int64) (*models.StudentDetail, error) {
	if s, ok := r.students[userID]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type authTeachers struct{ *mockAuthRepo }

func (r authTeachers) FindByUserID(ctx context.Context, userID int64) (*models.TeacherDetail, error) {
	if t, ok := r.teachers[userID]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

type authAdmins struct{ *mockAuthRepo }

func (r authAdmins) FindByUserID(ctx context.Context, userID int64) (*models.AdminProfile, error) {
	if a, ok := r.admins[userID]; ok {
		return a, nil
	}
	return nil, sql.ErrNoRows
}

func newAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, authStudents{repo}, authTeachers{repo}, authAdmins{repo}, nil, nil, AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "test",
	})
}

func studentSignup() models.SignupRequest {
	return models.SignupRequest{
		Email:        "Aisha@Example.com",
		Password:     "secret123",
		Name:         "Aisha",
		Role:         models.RoleStudent,
		EnrollmentNo: "GK1234",
		FacultyNo:    "21COB123",
		Semester:     7,
		Dept:         "COMPUTER",
	}
}

func TestAuthSignupThenLogin(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newAuthService(repo)
	ctx := context.Background()

	info, err := svc.Signup(ctx, studentSignup())
	require.NoError(t, err)
	assert.Equal(t, "aisha@example.com", info.Email)
	assert.Equal(t, models.RoleStudent, info.Role)
	assert.NotZero(t, info.ProfileID)
	assert.NotEqual(t, "secret123", repo.users["aisha@example.com"].PasswordHash)

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "aisha@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, info.ProfileID, resp.User.ProfileID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, info.ID, claims.UserID)
	assert.Equal(t, info.ProfileID, claims.ProfileID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthSignupValidation(t *testing.T) {
	svc := newAuthService(newMockAuthRepo())

	req := studentSignup()
	req.EnrollmentNo = ""
	_, err := svc.Signup(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	req = studentSignup()
	req.Semester = 9
	_, err = svc.Signup(context.Background(), req)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	teacher := models.SignupRequest{Email: "t@example.com", Password: "secret123", Name: "T", Role: models.RoleTeacher, Dept: "COMPUTER"}
	_, err = svc.Signup(context.Background(), teacher)
	assert.True(t, errors.Is(err, appErrors.ErrValidation), "employeeId and designation are required for teachers")
}

func TestAuthSignupRefusesAdmin(t *testing.T) {
	svc := newAuthService(newMockAuthRepo())

	_, err := svc.Signup(context.Background(), models.SignupRequest{Email: "a@example.com", Password: "secret123", Name: "A", Role: models.RoleAdmin})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestAuthSignupDuplicateEmail(t *testing.T) {
	svc := newAuthService(newMockAuthRepo())

	_, err := svc.Signup(context.Background(), studentSignup())
	require.NoError(t, err)
	_, err = svc.Signup(context.Background(), studentSignup())
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestAuthSignupStoreFailure(t *testing.T) {
	repo := newMockAuthRepo()
	repo.createErr = errors.New("db down")
	svc := newAuthService(repo)

	_, err := svc.Signup(context.Background(), studentSignup())
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newAuthService(repo)
	_, err := svc.Signup(context.Background(), studentSignup())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "aisha@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthLoginAdminWithoutProfile(t *testing.T) {
	repo := newMockAuthRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users["admin@example.com"] = &models.User{ID: 1, Email: "admin@example.com", PasswordHash: string(hash), Role: models.RoleAdmin}
	svc := newAuthService(repo)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "admin123"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	repo.admins[1] = &models.AdminProfile{ID: 5, UserID: 1, AdminID: "ADM001"}
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.User.ProfileID)

	profile, err := svc.Profile(context.Background(), &models.JWTClaims{UserID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.NotNil(t, profile.Admin)
	assert.Equal(t, "ADM001", profile.Admin.AdminID)
	assert.Equal(t, int64(5), profile.ProfileID)
}

func TestAuthProfileIncludesStudent(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newAuthService(repo)
	info, err := svc.Signup(context.Background(), studentSignup())
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background(), &models.JWTClaims{UserID: info.ID, Role: models.RoleStudent})
	require.NoError(t, err)
	require.NotNil(t, profile.Student)
	assert.Equal(t, "GK1234", profile.Student.EnrollmentNo)
	assert.Nil(t, profile.Teacher)

	_, err = svc.Profile(context.Background(), nil)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthValidateTokenRejectsTampering(t *testing.T) {
	svc := newAuthService(newMockAuthRepo())

	_, err := svc.ValidateToken("not-a-token")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{UserID: 1, Role: models.RoleAdmin})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	unknownRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{UserID: 1, Role: "ROOT"})
	signed, err = unknownRole.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
