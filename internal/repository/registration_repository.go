package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-registration-api/internal/models"
)

// RegistrationRepository persists finalized registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Finalize approves a pending request: it locks the temp row, verifies it is still
// PENDING, inserts the registration and marks the request VERIFIED in one transaction.
// Returns sql.ErrNoRows when the request or its course is gone and ErrNotPending when
// it was already resolved.
func (r *RegistrationRepository) Finalize(ctx context.Context, tempID int64, at time.Time) (reg *models.Registration, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin finalize transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked struct {
		models.TempRegistration
		CourseSemester int `db:"course_semester"`
	}
	const lockQuery = `SELECT tr.id, tr.student_id, tr.course_id, tr.verifier_id, tr.mode, tr.status, tr.created_at, tr.updated_at,
	c.semester AS course_semester
FROM temp_registrations tr
JOIN courses c ON c.id = tr.course_id
WHERE tr.id = $1
FOR UPDATE OF tr`
	if err = tx.GetContext(ctx, &locked, lockQuery, tempID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock temp registration: %w", err)
	}
	if locked.Status != models.TempStatusPending {
		return nil, ErrNotPending
	}

	reg = &models.Registration{
		TempRegistrationID: &locked.ID,
		StudentID:          locked.StudentID,
		CourseID:           locked.CourseID,
		Mode:               locked.Mode,
		Semester:           locked.CourseSemester,
		Year:               models.AcademicYear(locked.CourseSemester),
		CreatedAt:          at,
	}
	const insertQuery = `INSERT INTO registrations (temp_registration_id, student_id, course_id, mode, semester, year, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err = tx.QueryRowxContext(ctx, insertQuery, reg.TempRegistrationID, reg.StudentID, reg.CourseID, reg.Mode, reg.Semester, reg.Year, at).Scan(&reg.ID); err != nil {
		return nil, fmt.Errorf("insert registration: %w", mapUniqueViolation(err))
	}

	const updateQuery = `UPDATE temp_registrations SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err = tx.ExecContext(ctx, updateQuery, models.TempStatusVerified, at, locked.ID); err != nil {
		return nil, fmt.Errorf("mark temp registration verified: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit finalize transaction: %w", err)
	}
	return reg, nil
}

// ListByStudent returns the student's finalized registrations ordered by semester and course code.
func (r *RegistrationRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.RegistrationDetail, error) {
	const query = `SELECT r.id, r.temp_registration_id, r.student_id, r.course_id, r.mode, r.semester, r.year, r.created_at,
	c.code AS course_code, c.title AS course_title, c.credits AS course_credits, c.type AS course_type
FROM registrations r
JOIN courses c ON c.id = r.course_id
WHERE r.student_id = $1
ORDER BY r.semester ASC, c.code ASC`
	var items []models.RegistrationDetail
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return items, nil
}
