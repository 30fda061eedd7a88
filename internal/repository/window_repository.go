package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-registration-api/internal/models"
)

// WindowRepository persists the singleton registration window row.
type WindowRepository struct {
	db *sqlx.DB
}

// NewWindowRepository constructs the repository.
func NewWindowRepository(db *sqlx.DB) *WindowRepository {
	return &WindowRepository{db: db}
}

// Get returns the stored window. sql.ErrNoRows means it was never configured.
func (r *WindowRepository) Get(ctx context.Context) (*models.RegistrationWindow, error) {
	const query = `SELECT id, is_open, start_date, end_date, updated_at FROM registration_window WHERE id = $1`
	var window models.RegistrationWindow
	if err := r.db.GetContext(ctx, &window, query, models.RegistrationWindowID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get registration window: %w", err)
	}
	return &window, nil
}

// Upsert overwrites the singleton window row.
func (r *WindowRepository) Upsert(ctx context.Context, window *models.RegistrationWindow) error {
	const query = `INSERT INTO registration_window (id, is_open, start_date, end_date, updated_at)
VALUES (:id, :is_open, :start_date, :end_date, :updated_at)
ON CONFLICT (id)
DO UPDATE SET is_open = EXCLUDED.is_open, start_date = EXCLUDED.start_date,
              end_date = EXCLUDED.end_date, updated_at = EXCLUDED.updated_at`
	window.ID = models.RegistrationWindowID
	if window.UpdatedAt.IsZero() {
		window.UpdatedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, query, window); err != nil {
		return fmt.Errorf("upsert registration window: %w", err)
	}
	return nil
}
