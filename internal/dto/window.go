package dto

import "time"

// SetWindowRequest is the admin payload for configuring the registration window.
// Dates accept RFC3339 timestamps or plain YYYY-MM-DD dates (midnight UTC).
type SetWindowRequest struct {
	IsOpen    *bool   `json:"isOpen" validate:"required"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// WindowState reports the effective window state alongside the stored configuration.
type WindowState struct {
	IsOpen       bool       `json:"isOpen"`
	StoredIsOpen bool       `json:"storedIsOpen"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
	Message      string     `json:"message"`
}
