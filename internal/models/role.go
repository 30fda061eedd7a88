package models

import "fmt"

// UserRole represents the closed set of roles known to the access gate.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleTeacher UserRole = "TEACHER"
	RoleAdmin   UserRole = "ADMIN"
)

// ParseRole converts raw input into a known role.
func ParseRole(raw string) (UserRole, error) {
	role := UserRole(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Action names an operation guarded by the access gate.
type Action string

const (
	ActionViewCourses          Action = "course:view"
	ActionSubmitRegistration   Action = "registration:submit"
	ActionViewOwnRegistrations Action = "registration:view_own"
	ActionViewOwnVerifier      Action = "mapping:view_own"
	ActionViewTeacherProfile   Action = "teacher:view_self"
	ActionViewPending          Action = "registration:view_pending"
	ActionDecideRegistration   Action = "registration:decide"
	ActionSetWindow            Action = "window:set"
	ActionMapStudents          Action = "mapping:write"
	ActionViewDirectory        Action = "directory:view"
)

// Allows reports whether the role may perform the action. Unknown roles are denied.
func (r UserRole) Allows(a Action) bool {
	switch r {
	case RoleStudent:
		switch a {
		case ActionViewCourses, ActionSubmitRegistration, ActionViewOwnRegistrations, ActionViewOwnVerifier:
			return true
		}
	case RoleTeacher:
		switch a {
		case ActionViewTeacherProfile, ActionViewPending, ActionDecideRegistration:
			return true
		}
	case RoleAdmin:
		switch a {
		case ActionSetWindow, ActionMapStudents, ActionViewDirectory:
			return true
		}
	}
	return false
}
