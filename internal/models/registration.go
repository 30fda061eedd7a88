package models

import "time"

// TempRegistrationStatus captures the lifecycle of a pending request.
// VERIFIED is the single terminal "approved and materialized" marker.
type TempRegistrationStatus string

const (
	TempStatusPending  TempRegistrationStatus = "PENDING"
	TempStatusRejected TempRegistrationStatus = "REJECTED"
	TempStatusVerified TempRegistrationStatus = "VERIFIED"
)

// Resolved reports whether the status is terminal.
func (s TempRegistrationStatus) Resolved() bool {
	return s == TempStatusRejected || s == TempStatusVerified
}

// DecisionAction is the verdict a teacher submits for a pending request.
type DecisionAction string

const (
	DecisionApproved DecisionAction = "APPROVED"
	DecisionRejected DecisionAction = "REJECTED"
)

// TempRegistration is a student's request to enroll in one course, routed to the
// verifier captured at submission time.
type TempRegistration struct {
	ID         int64                  `db:"id" json:"id"`
	StudentID  int64                  `db:"student_id" json:"studentId"`
	CourseID   int64                  `db:"course_id" json:"courseId"`
	VerifierID int64                  `db:"verifier_id" json:"verifierId"`
	Mode       string                 `db:"mode" json:"mode"`
	Status     TempRegistrationStatus `db:"status" json:"status"`
	CreatedAt  time.Time              `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time              `db:"updated_at" json:"updatedAt"`
}

// TempRegistrationDetail joins a request with its course, student and verifier.
type TempRegistrationDetail struct {
	TempRegistration
	CourseCode     string `db:"course_code" json:"courseCode"`
	CourseTitle    string `db:"course_title" json:"courseTitle"`
	CourseCredits  int    `db:"course_credits" json:"courseCredits"`
	CourseSemester int    `db:"course_semester" json:"courseSemester"`
	CourseDept     string `db:"course_dept" json:"courseDept"`
	StudentName    string `db:"student_name" json:"studentName"`
	StudentEmail   string `db:"student_email" json:"studentEmail"`
	EnrollmentNo   string `db:"enrollment_no" json:"enrollmentNo"`
	VerifierName   string `db:"verifier_name" json:"verifierName"`
}

// Registration is the permanent enrollment record created on approval.
type Registration struct {
	ID                 int64     `db:"id" json:"id"`
	TempRegistrationID *int64    `db:"temp_registration_id" json:"tempRegistrationId,omitempty"`
	StudentID          int64     `db:"student_id" json:"studentId"`
	CourseID           int64     `db:"course_id" json:"courseId"`
	Mode               string    `db:"mode" json:"mode"`
	Semester           int       `db:"semester" json:"semester"`
	Year               int       `db:"year" json:"year"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
}

// RegistrationDetail joins a registration with its course.
type RegistrationDetail struct {
	Registration
	CourseCode    string     `db:"course_code" json:"courseCode"`
	CourseTitle   string     `db:"course_title" json:"courseTitle"`
	CourseCredits int        `db:"course_credits" json:"courseCredits"`
	CourseType    CourseType `db:"course_type" json:"courseType"`
}

// AcademicYear derives the year of study from a semester number: ceil(semester/2).
func AcademicYear(semester int) int {
	if semester <= 0 {
		return 0
	}
	return (semester + 1) / 2
}
