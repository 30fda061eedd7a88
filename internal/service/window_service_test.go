package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type mockWindowRepo struct {
	window    *models.RegistrationWindow
	getErr    error
	upsertErr error
	gets      int
}

func (m *mockWindowRepo) Get(ctx context.Context) (*models.RegistrationWindow, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.window == nil {
		return nil, sql.ErrNoRows
	}
	stored := *m.window
	return &stored, nil
}

func (m *mockWindowRepo) Upsert(ctx context.Context, window *models.RegistrationWindow) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	stored := *window
	m.window = &stored
	return nil
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

var adminPrincipal = &models.JWTClaims{UserID: 1, ProfileID: 1, Role: models.RoleAdmin}

func TestWindowRoundTripFollowsClock(t *testing.T) {
	repo := &mockWindowRepo{}
	clock := &fixedClock{now: day(2024, 12, 20)}
	svc := NewWindowService(repo, nil, nil, nil).WithClock(clock.Now)

	_, err := svc.Set(context.Background(), adminPrincipal, dto.SetWindowRequest{
		IsOpen:    boolPtr(true),
		StartDate: strPtr("2025-01-01"),
		EndDate:   strPtr("2025-01-31"),
	})
	require.NoError(t, err)

	clock.now = day(2025, 1, 15)
	state, err := svc.State(context.Background())
	require.NoError(t, err)
	assert.True(t, state.IsOpen)
	assert.True(t, state.StoredIsOpen)
	assert.True(t, day(2025, 1, 1).Equal(*state.StartDate))

	clock.now = day(2025, 2, 1)
	state, err = svc.State(context.Background())
	require.NoError(t, err)
	assert.False(t, state.IsOpen)
	assert.True(t, state.StoredIsOpen)
}

func TestWindowSetAcceptsRFC3339AndCloseWithoutDates(t *testing.T) {
	repo := &mockWindowRepo{}
	svc := NewWindowService(repo, nil, nil, nil).WithClock(func() time.Time { return day(2025, 1, 10) })

	state, err := svc.Set(context.Background(), adminPrincipal, dto.SetWindowRequest{
		IsOpen:    boolPtr(true),
		StartDate: strPtr("2025-01-09T08:00:00+07:00"),
		EndDate:   strPtr("2025-01-20T00:00:00Z"),
	})
	require.NoError(t, err)
	assert.True(t, state.IsOpen)
	assert.Equal(t, time.UTC, state.StartDate.Location())

	state, err = svc.Set(context.Background(), adminPrincipal, dto.SetWindowRequest{IsOpen: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, state.IsOpen)
	assert.Nil(t, repo.window.StartDate)
	assert.Nil(t, repo.window.EndDate)
}

func TestWindowSetValidation(t *testing.T) {
	svc := NewWindowService(&mockWindowRepo{}, nil, nil, nil)

	_, err := svc.Set(context.Background(), adminPrincipal, dto.SetWindowRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Set(context.Background(), adminPrincipal, dto.SetWindowRequest{IsOpen: boolPtr(true), StartDate: strPtr("01/02/2025")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestWindowSetRequiresAdmin(t *testing.T) {
	svc := NewWindowService(&mockWindowRepo{}, nil, nil, nil)

	_, err := svc.Set(context.Background(), &models.JWTClaims{UserID: 2, Role: models.RoleTeacher}, dto.SetWindowRequest{IsOpen: boolPtr(true)})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Set(context.Background(), nil, dto.SetWindowRequest{IsOpen: boolPtr(true)})
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestWindowEnsureOpenCarriesBounds(t *testing.T) {
	start, end := day(2025, 1, 1), day(2025, 1, 31)
	repo := &mockWindowRepo{window: &models.RegistrationWindow{ID: 1, IsOpen: true, StartDate: &start, EndDate: &end}}
	svc := NewWindowService(repo, nil, nil, nil).WithClock(func() time.Time { return day(2025, 3, 1) })

	err := svc.EnsureOpen(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrWindowClosed.Code, appErr.Code)
	assert.Equal(t, true, appErr.Details["storedIsOpen"])
	assert.Equal(t, &start, appErr.Details["startDate"])

	svc.WithClock(func() time.Time { return day(2025, 1, 31) })
	assert.NoError(t, svc.EnsureOpen(context.Background()))
}

func TestWindowNeverConfiguredIsClosed(t *testing.T) {
	svc := NewWindowService(&mockWindowRepo{}, nil, nil, nil)

	state, err := svc.State(context.Background())
	require.NoError(t, err)
	assert.False(t, state.IsOpen)
	assert.Nil(t, state.UpdatedAt)
	assert.True(t, errors.Is(svc.EnsureOpen(context.Background()), appErrors.ErrWindowClosed))
}

func TestWindowStoreFailureIsInternal(t *testing.T) {
	svc := NewWindowService(&mockWindowRepo{getErr: errors.New("connection refused")}, nil, nil, nil)

	_, err := svc.State(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
