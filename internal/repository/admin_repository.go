package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-registration-api/internal/models"
)

// AdminRepository reads admin profiles.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs the repository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByUserID returns the admin profile owned by a user.
func (r *AdminRepository) FindByUserID(ctx context.Context, userID int64) (*models.AdminProfile, error) {
	const query = `SELECT id, user_id, admin_id, position, created_at FROM admins WHERE user_id = $1`
	var admin models.AdminProfile
	if err := r.db.GetContext(ctx, &admin, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by user: %w", err)
	}
	return &admin, nil
}

// ExistsByAdminID reports whether an admin profile with the given admin ID exists.
func (r *AdminRepository) ExistsByAdminID(ctx context.Context, adminID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM admins WHERE admin_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, adminID); err != nil {
		return false, fmt.Errorf("check admin exists: %w", err)
	}
	return exists, nil
}
