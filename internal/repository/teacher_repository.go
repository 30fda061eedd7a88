package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-registration-api/internal/models"
)

// TeacherRepository provides persistence for teacher profiles.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository builds a repository instance.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherDetailSelect = `SELECT t.id, t.user_id, t.employee_id, t.designation, t.dept, t.created_at, u.name, u.email,
	(SELECT COUNT(*) FROM students s WHERE s.teacher_id = t.id) AS student_count
FROM teachers t
JOIN users u ON u.id = t.user_id`

// FindByID returns the teacher detail for the identifier.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.TeacherDetail, error) {
	var teacher models.TeacherDetail
	if err := r.db.GetContext(ctx, &teacher, teacherDetailSelect+` WHERE t.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	return &teacher, nil
}

// FindByUserID returns the teacher profile owned by a user.
func (r *TeacherRepository) FindByUserID(ctx context.Context, userID int64) (*models.TeacherDetail, error) {
	var teacher models.TeacherDetail
	if err := r.db.GetContext(ctx, &teacher, teacherDetailSelect+` WHERE t.user_id = $1`, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher by user: %w", err)
	}
	return &teacher, nil
}

// List returns teachers, optionally restricted to a department, ordered by name.
func (r *TeacherRepository) List(ctx context.Context, dept string) ([]models.TeacherDetail, error) {
	query := strings.Builder{}
	query.WriteString(teacherDetailSelect)
	args := make([]interface{}, 0, 1)
	if dept != "" {
		args = append(args, dept)
		fmt.Fprintf(&query, " WHERE t.dept = $%d", len(args))
	}
	query.WriteString(" ORDER BY u.name ASC")

	var teachers []models.TeacherDetail
	if err := r.db.SelectContext(ctx, &teachers, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}
