package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-registration-api/internal/models"
)

// UserRepository provides database access for users and their role profiles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, role, created_at, updated_at`

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// CreateStudent inserts a STUDENT user and its profile in one transaction.
func (r *UserRepository) CreateStudent(ctx context.Context, user *models.User, profile *models.StudentProfile) error {
	return r.withUser(ctx, user, func(tx *sqlx.Tx, now time.Time) error {
		profile.UserID = user.ID
		profile.CreatedAt = now
		const query = `INSERT INTO students (user_id, enrollment_no, faculty_no, semester, dept, created_at)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		if err := tx.QueryRowxContext(ctx, query, profile.UserID, profile.EnrollmentNo, profile.FacultyNo, profile.Semester, profile.Dept, now).Scan(&profile.ID); err != nil {
			return fmt.Errorf("insert student profile: %w", mapUniqueViolation(err))
		}
		return nil
	})
}

// CreateTeacher inserts a TEACHER user and its profile in one transaction.
func (r *UserRepository) CreateTeacher(ctx context.Context, user *models.User, profile *models.TeacherProfile) error {
	return r.withUser(ctx, user, func(tx *sqlx.Tx, now time.Time) error {
		profile.UserID = user.ID
		profile.CreatedAt = now
		const query = `INSERT INTO teachers (user_id, employee_id, designation, dept, created_at)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
		if err := tx.QueryRowxContext(ctx, query, profile.UserID, profile.EmployeeID, profile.Designation, profile.Dept, now).Scan(&profile.ID); err != nil {
			return fmt.Errorf("insert teacher profile: %w", mapUniqueViolation(err))
		}
		return nil
	})
}

// CreateAdmin inserts an ADMIN user and its profile in one transaction.
func (r *UserRepository) CreateAdmin(ctx context.Context, user *models.User, profile *models.AdminProfile) error {
	return r.withUser(ctx, user, func(tx *sqlx.Tx, now time.Time) error {
		profile.UserID = user.ID
		profile.CreatedAt = now
		const query = `INSERT INTO admins (user_id, admin_id, position, created_at)
VALUES ($1, $2, $3, $4) RETURNING id`
		if err := tx.QueryRowxContext(ctx, query, profile.UserID, profile.AdminID, profile.Position, now).Scan(&profile.ID); err != nil {
			return fmt.Errorf("insert admin profile: %w", mapUniqueViolation(err))
		}
		return nil
	})
}

func (r *UserRepository) withUser(ctx context.Context, user *models.User, insertProfile func(tx *sqlx.Tx, now time.Time) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin user transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	const query = `INSERT INTO users (email, password_hash, name, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err = tx.QueryRowxContext(ctx, query, user.Email, user.PasswordHash, user.Name, user.Role, now, now).Scan(&user.ID); err != nil {
		return fmt.Errorf("insert user: %w", mapUniqueViolation(err))
	}

	if err = insertProfile(tx, now); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit user transaction: %w", err)
	}
	return nil
}
