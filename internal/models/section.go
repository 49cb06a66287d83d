package models

import "time"

// Section groups classes under a short code.
type Section struct {
	ID        int64     `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
