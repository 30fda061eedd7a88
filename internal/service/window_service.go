package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

// windowCacheTTL bounds how long a cached row can outlive a toggle that failed to reach Redis.
const windowCacheTTL = 10 * time.Second

type windowRepository interface {
	Get(ctx context.Context) (*models.RegistrationWindow, error)
	Upsert(ctx context.Context, window *models.RegistrationWindow) error
}

// WindowService owns the admission window gate. Effective openness is always
// recomputed against the service clock, never read from storage.
type WindowService struct {
	repo      windowRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewWindowService constructs the window gate.
func NewWindowService(repo windowRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *WindowService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WindowService{repo: repo, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// WithClock replaces the time source.
func (s *WindowService) WithClock(now func() time.Time) *WindowService {
	if now != nil {
		s.now = now
	}
	return s
}

// State returns the effective window state for display.
func (s *WindowService) State(ctx context.Context) (*dto.WindowState, error) {
	window, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.stateOf(window), nil
}

// Set overwrites the singleton window. Closing does not require dates.
func (s *WindowService) Set(ctx context.Context, principal *models.JWTClaims, req dto.SetWindowRequest) (*dto.WindowState, error) {
	if err := authorize(principal, models.ActionSetWindow); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "isOpen must be a boolean")
	}

	start, err := parseWindowDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "startDate must be YYYY-MM-DD or RFC3339")
	}
	end, err := parseWindowDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "endDate must be YYYY-MM-DD or RFC3339")
	}

	window := &models.RegistrationWindow{
		ID:        models.RegistrationWindowID,
		IsOpen:    *req.IsOpen,
		StartDate: start,
		EndDate:   end,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, window); err != nil {
		s.logger.Error("failed to store registration window", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store registration window")
	}
	if !s.cache.Set(ctx, CacheKeyWindow, window, windowCacheTTL) {
		s.cache.Evict(ctx, CacheKeyWindow)
	}

	s.logger.Info("registration window updated",
		zap.Int64("admin_user_id", principal.UserID),
		zap.Bool("is_open", window.IsOpen),
		zap.Timep("start_date", window.StartDate),
		zap.Timep("end_date", window.EndDate),
	)
	return s.stateOf(window), nil
}

// EnsureOpen fails with WINDOW_CLOSED, carrying the window bounds, when submissions are not accepted.
func (s *WindowService) EnsureOpen(ctx context.Context) error {
	window, err := s.load(ctx)
	if err != nil {
		return err
	}
	if window.EffectiveOpen(s.now()) {
		return nil
	}
	return appErrors.WithDetails(appErrors.ErrWindowClosed, map[string]interface{}{
		"storedIsOpen": window.IsOpen,
		"startDate":    window.StartDate,
		"endDate":      window.EndDate,
	})
}

// load returns the stored window, or a closed zero window when none was ever configured.
func (s *WindowService) load(ctx context.Context) (*models.RegistrationWindow, error) {
	var cached models.RegistrationWindow
	if s.cache.Get(ctx, CacheKeyWindow, &cached) {
		return &cached, nil
	}

	window, err := s.repo.Get(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error("failed to load registration window", zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration window")
		}
		window = &models.RegistrationWindow{}
	}
	s.cache.Fill(ctx, CacheKeyWindow, window, windowCacheTTL)
	return window, nil
}

func (s *WindowService) stateOf(window *models.RegistrationWindow) *dto.WindowState {
	state := &dto.WindowState{
		IsOpen:       window.EffectiveOpen(s.now()),
		StoredIsOpen: window.IsOpen,
		StartDate:    window.StartDate,
		EndDate:      window.EndDate,
		Message:      "Registration is closed",
	}
	if !window.UpdatedAt.IsZero() {
		updated := window.UpdatedAt
		state.UpdatedAt = &updated
	}
	if state.IsOpen {
		state.Message = "Registration is open"
	}
	return state
}

func parseWindowDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		utc := t.UTC()
		return &utc, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
