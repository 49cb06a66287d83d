package dto

import "strings"

// SectionInput is the payload for creating or renaming a section.
type SectionInput struct {
	Code string `json:"code" validate:"min=1,max=40"`
}

// Normalize trims surrounding whitespace.
func (r *SectionInput) Normalize() {
	r.Code = strings.TrimSpace(r.Code)
}
