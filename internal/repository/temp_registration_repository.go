package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/course-registration-api/internal/models"
)

// TempRegistrationRepository persists pending registration requests.
type TempRegistrationRepository struct {
	db *sqlx.DB
}

// NewTempRegistrationRepository constructs the repository.
func NewTempRegistrationRepository(db *sqlx.DB) *TempRegistrationRepository {
	return &TempRegistrationRepository{db: db}
}

const tempRegistrationDetailSelect = `SELECT tr.id, tr.student_id, tr.course_id, tr.verifier_id, tr.mode, tr.status, tr.created_at, tr.updated_at,
	c.code AS course_code, c.title AS course_title, c.credits AS course_credits, c.semester AS course_semester, c.dept AS course_dept,
	su.name AS student_name, su.email AS student_email, s.enrollment_no, vu.name AS verifier_name
FROM temp_registrations tr
JOIN courses c ON c.id = tr.course_id
JOIN students s ON s.id = tr.student_id
JOIN users su ON su.id = s.user_id
JOIN teachers v ON v.id = tr.verifier_id
JOIN users vu ON vu.id = v.user_id`

// FindByID returns a temp registration by identifier.
func (r *TempRegistrationRepository) FindByID(ctx context.Context, id int64) (*models.TempRegistration, error) {
	const query = `SELECT id, student_id, course_id, verifier_id, mode, status, created_at, updated_at FROM temp_registrations WHERE id = $1`
	var temp models.TempRegistration
	if err := r.db.GetContext(ctx, &temp, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find temp registration: %w", err)
	}
	return &temp, nil
}

// PendingCourseIDs returns which of the courses already have a PENDING request from the student.
func (r *TempRegistrationRepository) PendingCourseIDs(ctx context.Context, studentID int64, courseIDs []int64) ([]int64, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT course_id FROM temp_registrations WHERE student_id = $1 AND course_id = ANY($2) AND status = $3`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, studentID, pq.Array(courseIDs), models.TempStatusPending); err != nil {
		return nil, fmt.Errorf("check pending registrations: %w", err)
	}
	return ids, nil
}

// CreateBatch inserts all requests in one transaction. A collision with the pending
// uniqueness index aborts the whole batch with ErrUniqueViolation.
func (r *TempRegistrationRepository) CreateBatch(ctx context.Context, temps []models.TempRegistration) (err error) {
	if len(temps) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin temp registration transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO temp_registrations (student_id, course_id, verifier_id, mode, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now().UTC()
	for i := range temps {
		temps[i].Status = models.TempStatusPending
		temps[i].CreatedAt = now
		temps[i].UpdatedAt = now
		if err = tx.QueryRowxContext(ctx, query, temps[i].StudentID, temps[i].CourseID, temps[i].VerifierID, temps[i].Mode, temps[i].Status, now, now).Scan(&temps[i].ID); err != nil {
			return fmt.Errorf("insert temp registration: %w", mapUniqueViolation(err))
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit temp registration transaction: %w", err)
	}
	return nil
}

// ListPendingByVerifier returns the verifier's PENDING requests, oldest first.
func (r *TempRegistrationRepository) ListPendingByVerifier(ctx context.Context, verifierID int64) ([]models.TempRegistrationDetail, error) {
	query := tempRegistrationDetailSelect + ` WHERE tr.verifier_id = $1 AND tr.status = $2 ORDER BY tr.created_at ASC, tr.id ASC`
	var items []models.TempRegistrationDetail
	if err := r.db.SelectContext(ctx, &items, query, verifierID, models.TempStatusPending); err != nil {
		return nil, fmt.Errorf("list pending registrations: %w", err)
	}
	return items, nil
}

// ListByStudent returns every request the student made, newest first.
func (r *TempRegistrationRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.TempRegistrationDetail, error) {
	query := tempRegistrationDetailSelect + ` WHERE tr.student_id = $1 ORDER BY tr.created_at DESC, tr.id DESC`
	var items []models.TempRegistrationDetail
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list student temp registrations: %w", err)
	}
	return items, nil
}

// Reject moves a PENDING request to REJECTED. ErrNotPending means it was already resolved.
func (r *TempRegistrationRepository) Reject(ctx context.Context, id int64, at time.Time) error {
	const query = `UPDATE temp_registrations SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, models.TempStatusRejected, at, id, models.TempStatusPending)
	if err != nil {
		return fmt.Errorf("reject temp registration: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reject temp registration rows: %w", err)
	}
	if affected == 0 {
		return ErrNotPending
	}
	return nil
}
