package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

func newMappingFixture() (*MappingService, *memoryStore) {
	store := newMemoryStore()
	store.addStudent(1, 7, "CS")
	store.addStudent(2, 5, "CS")
	store.addStudent(3, 3, "EE")
	store.addTeacher(7, "CS")
	store.addTeacher(8, "EE")
	return NewMappingService(memStudents{store}, memTeachers{store}, nil, nil), store
}

func TestMappingAssignsBatch(t *testing.T) {
	svc, store := newMappingFixture()
	ctx := context.Background()

	result, err := svc.Map(ctx, adminPrincipal, dto.MapStudentsRequest{StudentIDs: []int64{1, 2, 1}, TeacherID: 7})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, result.StudentIDs)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, int64(7), *store.students[1].TeacherID)

	overview, err := svc.TeacherOverview(ctx, teacherPrincipal(7))
	require.NoError(t, err)
	assert.Equal(t, 2, overview.Teacher.StudentCount)
	assert.Len(t, overview.Students, 2)

	verifier, err := svc.MyVerifier(ctx, studentPrincipal(1))
	require.NoError(t, err)
	require.NotNil(t, verifier)
	assert.Equal(t, int64(7), verifier.ID)
}

func TestMappingReassignmentReplacesVerifier(t *testing.T) {
	svc, store := newMappingFixture()
	ctx := context.Background()

	_, err := svc.Map(ctx, adminPrincipal, dto.MapStudentsRequest{StudentID: int64Ptr(1), TeacherID: 7})
	require.NoError(t, err)
	_, err = svc.Map(ctx, adminPrincipal, dto.MapStudentsRequest{StudentID: int64Ptr(1), TeacherID: 8})
	require.NoError(t, err)

	assert.Equal(t, int64(8), *store.students[1].TeacherID)
	mappings, err := svc.ListMappings(ctx, adminPrincipal)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, int64(8), mappings[0].TeacherID)
}

func TestMappingMissingStudentsLeavesStateUntouched(t *testing.T) {
	svc, store := newMappingFixture()

	_, err := svc.Map(context.Background(), adminPrincipal, dto.MapStudentsRequest{StudentIDs: []int64{1, 99}, TeacherID: 7})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, []int64{99}, appErrors.FromError(err).Details["missingStudentIds"])
	assert.Nil(t, store.students[1].TeacherID)
}

func TestMappingRejectsUnknownTeacherAndEmptyBatch(t *testing.T) {
	svc, _ := newMappingFixture()
	ctx := context.Background()

	_, err := svc.Map(ctx, adminPrincipal, dto.MapStudentsRequest{StudentID: int64Ptr(1), TeacherID: 99})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Map(ctx, adminPrincipal, dto.MapStudentsRequest{TeacherID: 7})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Map(ctx, teacherPrincipal(7), dto.MapStudentsRequest{StudentID: int64Ptr(1), TeacherID: 7})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}

func TestMappingUnassignedVerifierIsNil(t *testing.T) {
	svc, _ := newMappingFixture()

	verifier, err := svc.AssignedVerifier(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, verifier)

	_, err = svc.AssignedVerifier(context.Background(), 404)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestMappingDirectory(t *testing.T) {
	svc, _ := newMappingFixture()
	ctx := context.Background()
	_, err := svc.Map(ctx, adminPrincipal, dto.MapStudentsRequest{StudentID: int64Ptr(1), TeacherID: 7})
	require.NoError(t, err)

	unassigned, err := svc.ListStudents(ctx, adminPrincipal, dto.DirectoryQuery{Unassigned: true})
	require.NoError(t, err)
	assert.Len(t, unassigned, 2)

	teachers, err := svc.ListTeachers(ctx, adminPrincipal, "EE")
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, int64(8), teachers[0].ID)

	_, err = svc.ListStudents(ctx, studentPrincipal(1), dto.DirectoryQuery{})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	var nobody *models.JWTClaims
	_, err = svc.ListMappings(ctx, nobody)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

type unreachableTeachers struct {
	memTeachers
}

func (unreachableTeachers) FindByID(ctx context.Context, id int64) (*models.TeacherDetail, error) {
	return nil, errors.New("connection reset")
}

func TestMappingStoreFailureIsLogged(t *testing.T) {
	store := newMemoryStore()
	store.addStudent(1, 7, "CS")
	core, logs := observer.New(zapcore.ErrorLevel)
	svc := NewMappingService(memStudents{store}, unreachableTeachers{memTeachers{store}}, nil, zap.New(core))

	_, err := svc.Map(context.Background(), adminPrincipal, dto.MapStudentsRequest{StudentID: int64Ptr(1), TeacherID: 7})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))

	entries := logs.FilterMessage("failed to load teacher").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].ContextMap()["teacher_id"])
	assert.Nil(t, store.students[1].TeacherID)
}
