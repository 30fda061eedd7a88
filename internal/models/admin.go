package models

import "time"

// AdminProfile is the role profile attached to an ADMIN user.
type AdminProfile struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	AdminID   string    `db:"admin_id" json:"adminId"`
	Position  *string   `db:"position" json:"position,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
