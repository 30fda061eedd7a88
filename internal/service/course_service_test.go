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

type mockCourseRepo struct {
	catalog      []models.Course
	available    []models.Course
	catalogCalls int
	lastDept     string
	err          error
}

func (m *mockCourseRepo) ListBySemesterDept(ctx context.Context, semester int, dept string) ([]models.Course, error) {
	m.catalogCalls++
	if m.err != nil {
		return nil, m.err
	}
	var matched []models.Course
	for _, c := range m.catalog {
		if c.Semester == semester && c.Dept == dept {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (m *mockCourseRepo) ListAvailable(ctx context.Context, dept string) ([]models.Course, error) {
	m.lastDept = dept
	return m.available, m.err
}

type mockCourseStudents struct {
	student *models.StudentProfile
}

func (m mockCourseStudents) FindByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	if m.student == nil || m.student.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.student, nil
}

func TestCourseCatalogCached(t *testing.T) {
	cache, _ := newRedisCache(t, nil)
	repo := &mockCourseRepo{catalog: []models.Course{{ID: 1, Code: "COA3110", Title: "Compiler Design", Semester: 7, Dept: "COMPUTER"}}}
	svc := NewCourseService(repo, mockCourseStudents{}, cache, time.Minute, nil, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		courses, err := svc.Catalog(ctx, dto.CourseCatalogQuery{Semester: 7, Dept: "COMPUTER"})
		require.NoError(t, err)
		require.Len(t, courses, 1)
	}
	assert.Equal(t, 1, repo.catalogCalls)

	svc.InvalidateCatalog(ctx)
	_, err := svc.Catalog(ctx, dto.CourseCatalogQuery{Semester: 7, Dept: "COMPUTER"})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.catalogCalls)
}

func TestCourseCatalogKeyMatchesStoredDept(t *testing.T) {
	cache, _ := newRedisCache(t, nil)
	repo := &mockCourseRepo{catalog: []models.Course{{ID: 3, Code: "CS301", Title: "Operating Systems", Semester: 3, Dept: "CS"}}}
	svc := NewCourseService(repo, mockCourseStudents{}, cache, time.Minute, nil, nil)
	ctx := context.Background()

	_, err := svc.Catalog(ctx, dto.CourseCatalogQuery{Semester: 3, Dept: "cs"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	courses, err := svc.Catalog(ctx, dto.CourseCatalogQuery{Semester: 3, Dept: "CS"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS301", courses[0].Code)
	assert.Equal(t, 2, repo.catalogCalls)
}

func TestCourseCatalogEmptyIsNotFound(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, mockCourseStudents{}, nil, 0, nil, nil)

	_, err := svc.Catalog(context.Background(), dto.CourseCatalogQuery{Semester: 3, Dept: "CIVIL"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Catalog(context.Background(), dto.CourseCatalogQuery{Semester: 9, Dept: "CIVIL"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Catalog(context.Background(), dto.CourseCatalogQuery{Semester: 3, Dept: "  "})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCourseCatalogStoreFailure(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{err: errors.New("timeout")}, mockCourseStudents{}, nil, 0, nil, nil)

	_, err := svc.Catalog(context.Background(), dto.CourseCatalogQuery{Semester: 3, Dept: "CIVIL"})
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestCourseListForStudentUsesOwnDept(t *testing.T) {
	repo := &mockCourseRepo{available: []models.Course{{ID: 2, Type: models.CourseTypeOpenElective}}}
	svc := NewCourseService(repo, mockCourseStudents{student: &models.StudentProfile{ID: 1, Dept: "ELECTRICAL"}}, nil, 0, nil, nil)

	courses, err := svc.ListForStudent(context.Background(), studentPrincipal(1))
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.Equal(t, "ELECTRICAL", repo.lastDept)

	_, err = svc.ListForStudent(context.Background(), studentPrincipal(2))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.ListForStudent(context.Background(), teacherPrincipal(7))
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
