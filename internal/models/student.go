package models

import "time"

// StudentProfile is the role profile attached to a STUDENT user.
// TeacherID is the assigned verifier and stays nil until an admin maps the student.
type StudentProfile struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"userId"`
	EnrollmentNo string    `db:"enrollment_no" json:"enrollmentNo"`
	FacultyNo    string    `db:"faculty_no" json:"facultyNo"`
	Semester     int       `db:"semester" json:"semester"`
	Dept         string    `db:"dept" json:"dept"`
	TeacherID    *int64    `db:"teacher_id" json:"teacherId,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// StudentDetail joins a student profile with user and verifier info.
type StudentDetail struct {
	StudentProfile
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	TeacherName  *string `db:"teacher_name" json:"teacherName,omitempty"`
	TeacherEmail *string `db:"teacher_email" json:"teacherEmail,omitempty"`
}
