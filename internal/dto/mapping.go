package dto

import "github.com/noah-isme/course-registration-api/internal/models"

// MapStudentsRequest assigns one or many students to a verifying teacher.
type MapStudentsRequest struct {
	StudentID  *int64  `json:"studentId" validate:"omitempty,gt=0"`
	StudentIDs []int64 `json:"studentIds" validate:"omitempty,dive,gt=0"`
	TeacherID  int64   `json:"teacherId" validate:"required,gt=0"`
}

// IDs returns the de-duplicated student identifiers carried by the request.
func (r MapStudentsRequest) IDs() []int64 {
	seen := make(map[int64]struct{}, len(r.StudentIDs)+1)
	ids := make([]int64, 0, len(r.StudentIDs)+1)
	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if r.StudentID != nil {
		add(*r.StudentID)
	}
	for _, id := range r.StudentIDs {
		add(id)
	}
	return ids
}

// MappingResult summarises a completed mapping operation.
type MappingResult struct {
	TeacherID  int64   `json:"teacherId"`
	StudentIDs []int64 `json:"studentIds"`
	Count      int     `json:"count"`
}

// MappingItem is one row of the admin mapping listing.
type MappingItem struct {
	StudentID    int64  `db:"student_id" json:"studentId"`
	StudentName  string `db:"student_name" json:"studentName"`
	EnrollmentNo string `db:"enrollment_no" json:"enrollmentNo"`
	Semester     int    `db:"semester" json:"semester"`
	Dept         string `db:"dept" json:"dept"`
	TeacherID    int64  `db:"teacher_id" json:"teacherId"`
	TeacherName  string `db:"teacher_name" json:"teacherName"`
	EmployeeID   string `db:"employee_id" json:"employeeId"`
}

// DirectoryQuery filters admin directory listings.
type DirectoryQuery struct {
	Dept       string `form:"dept"`
	Semester   int    `form:"semester"`
	Unassigned bool   `form:"unassigned"`
}

// TeacherOverview is a teacher's own profile with the students mapped to them.
type TeacherOverview struct {
	Teacher  models.TeacherDetail   `json:"teacher"`
	Students []models.StudentDetail `json:"students"`
}
