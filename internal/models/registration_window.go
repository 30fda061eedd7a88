package models

import "time"

// RegistrationWindowID is the primary key of the singleton window row.
const RegistrationWindowID int64 = 1

// RegistrationWindow stores the admin-controlled admission window.
// The stored IsOpen flag alone is not authoritative, see EffectiveOpen.
type RegistrationWindow struct {
	ID        int64      `db:"id" json:"id"`
	IsOpen    bool       `db:"is_open" json:"isOpen"`
	StartDate *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"endDate,omitempty"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}

// EffectiveOpen reports whether submissions are accepted at now: the flag is set,
// both bounds are present and now falls inside [StartDate, EndDate].
func (w *RegistrationWindow) EffectiveOpen(now time.Time) bool {
	if w == nil || !w.IsOpen || w.StartDate == nil || w.EndDate == nil {
		return false
	}
	return !now.Before(*w.StartDate) && !now.After(*w.EndDate)
}
