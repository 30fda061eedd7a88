package models

import "time"

// CourseType classifies catalog entries.
type CourseType string

const (
	CourseTypeCore         CourseType = "CORE"
	CourseTypeDeptElective CourseType = "DE"
	CourseTypeOpenElective CourseType = "OE"
)

// Course is a catalog entry. Registration flows read it but never mutate it.
type Course struct {
	ID        int64      `db:"id" json:"id"`
	Code      string     `db:"code" json:"code"`
	Title     string     `db:"title" json:"title"`
	Credits   int        `db:"credits" json:"credits"`
	Semester  int        `db:"semester" json:"semester"`
	Dept      string     `db:"dept" json:"dept"`
	Type      CourseType `db:"type" json:"type"`
	Active    bool       `db:"active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
}
