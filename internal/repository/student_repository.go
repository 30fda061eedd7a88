package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
)

// StudentRepository handles persistence for student profiles and verifier mappings.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentDetailSelect = `SELECT s.id, s.user_id, s.enrollment_no, s.faculty_no, s.semester, s.dept, s.teacher_id, s.created_at,
	u.name, u.email, tu.name AS teacher_name, tu.email AS teacher_email
FROM students s
JOIN users u ON u.id = s.user_id
LEFT JOIN teachers t ON t.id = s.teacher_id
LEFT JOIN users tu ON tu.id = t.user_id`

// FindByID returns a student profile by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	const query = `SELECT id, user_id, enrollment_no, faculty_no, semester, dept, teacher_id, created_at FROM students WHERE id = $1`
	var student models.StudentProfile
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// FindByUserID returns the student profile owned by a user.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID int64) (*models.StudentDetail, error) {
	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, studentDetailSelect+` WHERE s.user_id = $1`, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by user: %w", err)
	}
	return &student, nil
}

// List returns students matching the directory filter ordered by enrollment number.
func (r *StudentRepository) List(ctx context.Context, filter dto.DirectoryQuery) ([]models.StudentDetail, error) {
	query := strings.Builder{}
	query.WriteString(studentDetailSelect)
	query.WriteString(" WHERE 1=1")

	args := make([]interface{}, 0, 2)
	if filter.Dept != "" {
		args = append(args, filter.Dept)
		fmt.Fprintf(&query, " AND s.dept = $%d", len(args))
	}
	if filter.Semester > 0 {
		args = append(args, filter.Semester)
		fmt.Fprintf(&query, " AND s.semester = $%d", len(args))
	}
	if filter.Unassigned {
		query.WriteString(" AND s.teacher_id IS NULL")
	}
	query.WriteString(" ORDER BY s.enrollment_no ASC")

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListByTeacher returns the students mapped to a verifier.
func (r *StudentRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]models.StudentDetail, error) {
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, studentDetailSelect+` WHERE s.teacher_id = $1 ORDER BY s.enrollment_no ASC`, teacherID); err != nil {
		return nil, fmt.Errorf("list students by teacher: %w", err)
	}
	return students, nil
}

// AssignVerifier points every listed student at the teacher inside one transaction.
// When any student does not exist nothing is written and the missing IDs are returned.
func (r *StudentRepository) AssignVerifier(ctx context.Context, teacherID int64, studentIDs []int64) (missing []int64, err error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin mapping transaction: %w", err)
	}
	defer func() {
		if err != nil || len(missing) > 0 {
			_ = tx.Rollback()
		}
	}()

	var found []int64
	const lockQuery = `SELECT id FROM students WHERE id = ANY($1) FOR UPDATE`
	if err = tx.SelectContext(ctx, &found, lockQuery, pq.Array(studentIDs)); err != nil {
		return nil, fmt.Errorf("lock students: %w", err)
	}

	existing := make(map[int64]struct{}, len(found))
	for _, id := range found {
		existing[id] = struct{}{}
	}
	for _, id := range studentIDs {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return missing, nil
	}

	const updateQuery = `UPDATE students SET teacher_id = $1 WHERE id = ANY($2)`
	if _, err = tx.ExecContext(ctx, updateQuery, teacherID, pq.Array(studentIDs)); err != nil {
		return nil, fmt.Errorf("assign verifier: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mapping transaction: %w", err)
	}
	return nil, nil
}

// ListMappings returns every student that has a verifier assigned.
func (r *StudentRepository) ListMappings(ctx context.Context) ([]dto.MappingItem, error) {
	const query = `SELECT s.id AS student_id, u.name AS student_name, s.enrollment_no, s.semester, s.dept,
	t.id AS teacher_id, tu.name AS teacher_name, t.employee_id
FROM students s
JOIN users u ON u.id = s.user_id
JOIN teachers t ON t.id = s.teacher_id
JOIN users tu ON tu.id = t.user_id
ORDER BY tu.name ASC, s.enrollment_no ASC`
	var items []dto.MappingItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	return items, nil
}
