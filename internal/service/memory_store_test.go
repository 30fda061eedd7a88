package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	"github.com/noah-isme/course-registration-api/internal/repository"
)

// memoryStore is an in-memory stand-in for the relational store. It enforces the
// same pending uniqueness and finalize semantics as the SQL repositories.
type memoryStore struct {
	mu            sync.Mutex
	students      map[int64]*models.StudentProfile
	teachers      map[int64]*models.TeacherProfile
	courses       map[int64]*models.Course
	temps         map[int64]*models.TempRegistration
	registrations map[int64]*models.Registration
	nextTempID    int64
	nextRegID     int64
	clock         func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		students:      map[int64]*models.StudentProfile{},
		teachers:      map[int64]*models.TeacherProfile{},
		courses:       map[int64]*models.Course{},
		temps:         map[int64]*models.TempRegistration{},
		registrations: map[int64]*models.Registration{},
		clock:         time.Now,
	}
}

func (m *memoryStore) addStudent(id int64, semester int, dept string) {
	m.students[id] = &models.StudentProfile{ID: id, UserID: id + 100, EnrollmentNo: fmt.Sprintf("GK%04d", id), Semester: semester, Dept: dept}
}

func (m *memoryStore) addTeacher(id int64, dept string) {
	m.teachers[id] = &models.TeacherProfile{ID: id, UserID: id + 200, EmployeeID: fmt.Sprintf("EMP%03d", id), Dept: dept}
}

func (m *memoryStore) addCourse(id int64, code string, semester int, active bool) {
	m.courses[id] = &models.Course{ID: id, Code: code, Title: code, Credits: 4, Semester: semester, Dept: "CS", Type: models.CourseTypeCore, Active: active}
}

func (m *memoryStore) pendingCount(studentID, courseID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.temps {
		if t.StudentID == studentID && t.CourseID == courseID && t.Status == models.TempStatusPending {
			n++
		}
	}
	return n
}

func (m *memoryStore) registrationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.registrations)
}

func (m *memoryStore) detail(t *models.TempRegistration) models.TempRegistrationDetail {
	course := m.courses[t.CourseID]
	d := models.TempRegistrationDetail{TempRegistration: *t}
	if course != nil {
		d.CourseCode = course.Code
		d.CourseTitle = course.Title
		d.CourseSemester = course.Semester
	}
	return d
}

type memStudents struct{ *memoryStore }

func (r memStudents) FindByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (r memStudents) List(ctx context.Context, filter dto.DirectoryQuery) ([]models.StudentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StudentDetail
	for _, s := range r.students {
		if filter.Unassigned && s.TeacherID != nil {
			continue
		}
		out = append(out, models.StudentDetail{StudentProfile: *s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memStudents) ListByTeacher(ctx context.Context, teacherID int64) ([]models.StudentDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StudentDetail
	for _, s := range r.students {
		if s.TeacherID != nil && *s.TeacherID == teacherID {
			out = append(out, models.StudentDetail{StudentProfile: *s})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memStudents) AssignVerifier(ctx context.Context, teacherID int64, studentIDs []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var missing []int64
	for _, id := range studentIDs {
		if _, ok := r.students[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return missing, nil
	}
	for _, id := range studentIDs {
		tid := teacherID
		r.students[id].TeacherID = &tid
	}
	return nil, nil
}

func (r memStudents) ListMappings(ctx context.Context) ([]dto.MappingItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []dto.MappingItem
	for _, s := range r.students {
		if s.TeacherID != nil {
			out = append(out, dto.MappingItem{StudentID: s.ID, TeacherID: *s.TeacherID})
		}
	}
	return out, nil
}

type memTeachers struct{ *memoryStore }

func (r memTeachers) FindByID(ctx context.Context, id int64) (*models.TeacherDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	count := 0
	for _, s := range r.students {
		if s.TeacherID != nil && *s.TeacherID == id {
			count++
		}
	}
	return &models.TeacherDetail{TeacherProfile: *t, StudentCount: count}, nil
}

func (r memTeachers) List(ctx context.Context, dept string) ([]models.TeacherDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TeacherDetail
	for _, t := range r.teachers {
		if dept == "" || t.Dept == dept {
			out = append(out, models.TeacherDetail{TeacherProfile: *t})
		}
	}
	return out, nil
}

type memCourses struct{ *memoryStore }

func (r memCourses) FindByIDs(ctx context.Context, ids []int64) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Course
	for _, id := range ids {
		if c, ok := r.courses[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

type memTemps struct{ *memoryStore }

func (r memTemps) FindByID(ctx context.Context, id int64) (*models.TempRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.temps[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (r memTemps) PendingCourseIDs(ctx context.Context, studentID int64, courseIDs []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range courseIDs {
		wanted[id] = true
	}
	var out []int64
	for _, t := range r.temps {
		if t.StudentID == studentID && wanted[t.CourseID] && t.Status == models.TempStatusPending {
			out = append(out, t.CourseID)
		}
	}
	return out, nil
}

// CreateBatch mirrors the partial unique index on (student_id, course_id) WHERE status = 'PENDING'.
func (r memTemps) CreateBatch(ctx context.Context, temps []models.TempRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	for _, t := range r.temps {
		if t.Status == models.TempStatusPending {
			seen[registrationKey(t.StudentID, t.CourseID)] = true
		}
	}
	for _, t := range temps {
		key := registrationKey(t.StudentID, t.CourseID)
		if seen[key] {
			return fmt.Errorf("insert temp registration: %w", repository.ErrUniqueViolation)
		}
		seen[key] = true
	}
	now := r.clock()
	for i := range temps {
		r.nextTempID++
		temps[i].ID = r.nextTempID
		temps[i].Status = models.TempStatusPending
		temps[i].CreatedAt = now
		temps[i].UpdatedAt = now
		stored := temps[i]
		r.temps[stored.ID] = &stored
	}
	return nil
}

func (r memTemps) ListPendingByVerifier(ctx context.Context, verifierID int64) ([]models.TempRegistrationDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TempRegistrationDetail
	for _, t := range r.temps {
		if t.VerifierID == verifierID && t.Status == models.TempStatusPending {
			out = append(out, r.detail(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r memTemps) ListByStudent(ctx context.Context, studentID int64) ([]models.TempRegistrationDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TempRegistrationDetail
	for _, t := range r.temps {
		if t.StudentID == studentID {
			out = append(out, r.detail(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memTemps) Reject(ctx context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.temps[id]
	if !ok || t.Status != models.TempStatusPending {
		return repository.ErrNotPending
	}
	t.Status = models.TempStatusRejected
	t.UpdatedAt = at
	return nil
}

type memRegistrations struct{ *memoryStore }

func (r memRegistrations) Finalize(ctx context.Context, tempID int64, at time.Time) (*models.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.temps[tempID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	course, ok := r.courses[t.CourseID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if t.Status != models.TempStatusPending {
		return nil, repository.ErrNotPending
	}
	r.nextRegID++
	id := t.ID
	reg := &models.Registration{
		ID:                 r.nextRegID,
		TempRegistrationID: &id,
		StudentID:          t.StudentID,
		CourseID:           t.CourseID,
		Mode:               t.Mode,
		Semester:           course.Semester,
		Year:               models.AcademicYear(course.Semester),
		CreatedAt:          at,
	}
	r.registrations[reg.ID] = reg
	t.Status = models.TempStatusVerified
	t.UpdatedAt = at
	copied := *reg
	return &copied, nil
}

func (r memRegistrations) ListByStudent(ctx context.Context, studentID int64) ([]models.RegistrationDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RegistrationDetail
	for _, reg := range r.registrations {
		if reg.StudentID == studentID {
			d := models.RegistrationDetail{Registration: *reg}
			if c := r.courses[reg.CourseID]; c != nil {
				d.CourseCode = c.Code
				d.CourseTitle = c.Title
				d.CourseCredits = c.Credits
				d.CourseType = c.Type
			}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type staticWindow struct{ err error }

func (w staticWindow) EnsureOpen(ctx context.Context) error { return w.err }
