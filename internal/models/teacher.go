package models

import "time"

// TeacherProfile is the role profile attached to a TEACHER user.
type TeacherProfile struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"userId"`
	EmployeeID  string    `db:"employee_id" json:"employeeId"`
	Designation string    `db:"designation" json:"designation"`
	Dept        string    `db:"dept" json:"dept"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// TeacherDetail joins a teacher profile with user info and mapped-student count.
type TeacherDetail struct {
	TeacherProfile
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	StudentCount int    `db:"student_count" json:"studentCount"`
}
