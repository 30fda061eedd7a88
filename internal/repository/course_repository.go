package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/course-registration-api/internal/models"
)

// CourseRepository reads the course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, code, title, credits, semester, dept, type, active, created_at, updated_at`

// FindByIDs returns the courses matching the identifiers. Missing IDs are simply absent.
func (r *CourseRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ANY($1)`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	return courses, nil
}

// ListBySemesterDept returns the catalog for a semester and department ordered by title.
func (r *CourseRepository) ListBySemesterDept(ctx context.Context, semester int, dept string) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE semester = $1 AND dept = $2 ORDER BY title ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, semester, dept); err != nil {
		return nil, fmt.Errorf("list courses by semester: %w", err)
	}
	return courses, nil
}

// ListAvailable returns active courses of the department plus every open elective.
func (r *CourseRepository) ListAvailable(ctx context.Context, dept string) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE active = TRUE AND (dept = $1 OR type = $2) ORDER BY semester ASC, code ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, dept, models.CourseTypeOpenElective); err != nil {
		return nil, fmt.Errorf("list available courses: %w", err)
	}
	return courses, nil
}

// Upsert inserts or refreshes a catalog entry keyed by course code.
func (r *CourseRepository) Upsert(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO courses (code, title, credits, semester, dept, type, active, created_at, updated_at)
VALUES (:code, :title, :credits, :semester, :dept, :type, :active, :created_at, :updated_at)
ON CONFLICT (code)
DO UPDATE SET title = EXCLUDED.title, credits = EXCLUDED.credits, semester = EXCLUDED.semester,
              dept = EXCLUDED.dept, type = EXCLUDED.type, active = EXCLUDED.active, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("upsert course: %w", err)
	}
	return nil
}
