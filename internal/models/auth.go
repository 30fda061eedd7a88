package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest creates a user together with its role profile. Profile fields are
// required according to the requested role.
type SignupRequest struct {
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required,min=6"`
	Name         string   `json:"name" validate:"required"`
	Role         UserRole `json:"role" validate:"required,oneof=STUDENT TEACHER ADMIN"`
	EnrollmentNo string   `json:"enrollmentNo" validate:"required_if=Role STUDENT"`
	FacultyNo    string   `json:"facultyNo" validate:"required_if=Role STUDENT"`
	Semester     int      `json:"semester" validate:"required_if=Role STUDENT,omitempty,min=1,max=8"`
	Dept         string   `json:"dept" validate:"required_unless=Role ADMIN"`
	EmployeeID   string   `json:"employeeId" validate:"required_if=Role TEACHER"`
	Designation  string   `json:"designation" validate:"required_if=Role TEACHER"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID        int64    `json:"id"`
	ProfileID int64    `json:"profileId"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
}

// Profile is the authenticated user's own account view including the role profile.
type Profile struct {
	UserInfo
	Student *StudentDetail `json:"student,omitempty"`
	Teacher *TeacherDetail `json:"teacher,omitempty"`
	Admin   *AdminProfile  `json:"admin,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens. ProfileID is the ID of the
// role profile (student, teacher or admin) owned by the user.
type JWTClaims struct {
	UserID    int64    `json:"user_id"`
	ProfileID int64    `json:"profile_id"`
	Role      UserRole `json:"role"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	jwt.RegisteredClaims
}
