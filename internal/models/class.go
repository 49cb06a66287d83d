package models

import (
	"math"
	"time"
)

// Class is one scheduled meeting of a course within a section.
type Class struct {
	ID         int64     `db:"id" json:"id"`
	SectionID  int64     `db:"section_id" json:"section_id"`
	Day        *int      `db:"day" json:"day"`
	Start      string    `db:"start" json:"start"`
	End        string    `db:"end" json:"end"`
	Code       string    `db:"code" json:"code"`
	Title      string    `db:"title" json:"title"`
	Units      *int      `db:"units" json:"units"`
	Room       *string   `db:"room" json:"room"`
	Instructor *string   `db:"instructor" json:"instructor"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	SectionID *int64
	Day       *int
	Page      int
	Limit     int
}

// Class listing bounds.
const (
	DefaultClassLimit = 100
	MaxClassLimit     = 200
	// MaxClassPage keeps the row offset within a Postgres int4 at any limit.
	MaxClassPage = math.MaxInt32/MaxClassLimit + 1
)

// Normalize clamps paging values to their allowed ranges.
func (f ClassFilter) Normalize() ClassFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxClassPage {
		f.Page = MaxClassPage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultClassLimit
	}
	if f.Limit > MaxClassLimit {
		f.Limit = MaxClassLimit
	}
	return f
}

// Offset returns the row offset for the current page.
func (f ClassFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ClassPage is the paginated class listing.
type ClassPage struct {
	Rows  []Class `json:"rows"`
	Count int     `json:"count"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// Change is one column assignment of a partial update.
type Change struct {
	Column string
	Value  interface{}
}

// ChangeMap renders changes as a column/value map, used for audit details.
func ChangeMap(changes []Change) map[string]interface{} {
	out := make(map[string]interface{}, len(changes))
	for _, ch := range changes {
		out[ch.Column] = ch.Value
	}
	return out
}
