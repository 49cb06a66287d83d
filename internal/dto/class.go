package dto

import (
	"strings"

	"github.com/noah-isme/class-admin/internal/models"
	"github.com/noah-isme/class-admin/internal/validation"
)

// ClassCreateRequest is the payload for POST /classes.
type ClassCreateRequest struct {
	Title      string   `json:"title" validate:"min=1,max=120"`
	Code       string   `json:"code" validate:"min=1,max=20"`
	SectionID  FlexInt  `json:"section_id" validate:"gt=0"`
	Day        *Weekday `json:"day" validate:"omitempty,min=1,max=7"`
	Start      string   `json:"start" validate:"hhmm"`
	End        string   `json:"end" validate:"hhmm"`
	Units      *FlexInt `json:"units" validate:"omitempty,min=0,max=12"`
	Room       *string  `json:"room" validate:"omitempty,max=40"`
	Instructor *string  `json:"instructor" validate:"omitempty,max=80"`
}

// Normalize trims free-text fields.
func (r *ClassCreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Code = strings.TrimSpace(r.Code)
	r.Room = trimPtr(r.Room)
	r.Instructor = trimPtr(r.Instructor)
}

// TimeBounds implements validation.TimeRange.
func (r ClassCreateRequest) TimeBounds() (string, string) {
	return r.Start, r.End
}

// Model maps the payload onto a new class row.
func (r ClassCreateRequest) Model() *models.Class {
	class := &models.Class{
		SectionID:  int64(r.SectionID),
		Start:      r.Start,
		End:        r.End,
		Code:       r.Code,
		Title:      r.Title,
		Room:       r.Room,
		Instructor: r.Instructor,
	}
	if r.Day != nil {
		d := r.Day.Int()
		class.Day = &d
	}
	if r.Units != nil {
		u := r.Units.Int()
		class.Units = &u
	}
	return class
}

// ClassPatchRequest is the payload for PATCH /classes/{id}. Every field is
// optional; nullable columns accept an explicit null to clear them.
type ClassPatchRequest struct {
	Title      Optional[string]  `json:"title"`
	Code       Optional[string]  `json:"code"`
	SectionID  Optional[FlexInt] `json:"section_id"`
	Day        Optional[Weekday] `json:"day"`
	Start      Optional[string]  `json:"start"`
	End        Optional[string]  `json:"end"`
	Units      Optional[FlexInt] `json:"units"`
	Room       Optional[string]  `json:"room"`
	Instructor Optional[string]  `json:"instructor"`
}

// ClassPatchView is the validated shape of a patch; nil means "leave as is".
type ClassPatchView struct {
	Title      *string  `json:"title" validate:"omitempty,min=1,max=120"`
	Code       *string  `json:"code" validate:"omitempty,min=1,max=20"`
	SectionID  *FlexInt `json:"section_id" validate:"omitempty,gt=0"`
	Day        *Weekday `json:"day" validate:"omitempty,min=1,max=7"`
	Start      *string  `json:"start" validate:"omitempty,hhmm"`
	End        *string  `json:"end" validate:"omitempty,hhmm"`
	Units      *FlexInt `json:"units" validate:"omitempty,min=0,max=12"`
	Room       *string  `json:"room" validate:"omitempty,max=40"`
	Instructor *string  `json:"instructor" validate:"omitempty,max=80"`
}

// TimeBounds implements validation.TimeRange.
func (v ClassPatchView) TimeBounds() (string, string) {
	var start, end string
	if v.Start != nil {
		start = *v.Start
	}
	if v.End != nil {
		end = *v.End
	}
	return start, end
}

// Normalize trims free-text fields that carry a value.
func (r *ClassPatchRequest) Normalize() {
	trimOpt(&r.Title)
	trimOpt(&r.Code)
	trimOpt(&r.Room)
	trimOpt(&r.Instructor)
}

// Empty reports whether no recognised field was supplied.
func (r ClassPatchRequest) Empty() bool {
	return !(r.Title.Set || r.Code.Set || r.SectionID.Set || r.Day.Set || r.Start.Set ||
		r.End.Set || r.Units.Set || r.Room.Set || r.Instructor.Set)
}

// NullIssues lists required columns that were explicitly set to null.
func (r ClassPatchRequest) NullIssues() []validation.FieldIssue {
	var issues []validation.FieldIssue
	check := func(set, valid bool, path, label string) {
		if set && !valid {
			issues = append(issues, validation.FieldIssue{Path: path, Message: label + " cannot be null"})
		}
	}
	check(r.Title.Set, r.Title.Valid, "title", "Title")
	check(r.Code.Set, r.Code.Valid, "code", "Code")
	check(r.SectionID.Set, r.SectionID.Valid, "section_id", "Section id")
	check(r.Start.Set, r.Start.Valid, "start", "Start")
	check(r.End.Set, r.End.Valid, "end", "End")
	return issues
}

// View returns the subset of supplied, non-null values for validation.
func (r ClassPatchRequest) View() ClassPatchView {
	return ClassPatchView{
		Title:      r.Title.Ptr(),
		Code:       r.Code.Ptr(),
		SectionID:  r.SectionID.Ptr(),
		Day:        r.Day.Ptr(),
		Start:      r.Start.Ptr(),
		End:        r.End.Ptr(),
		Units:      r.Units.Ptr(),
		Room:       r.Room.Ptr(),
		Instructor: r.Instructor.Ptr(),
	}
}

// Changes lists the column assignments in a stable order. Explicit nulls
// become nil values.
func (r ClassPatchRequest) Changes() []models.Change {
	var out []models.Change
	add := func(set bool, column string, value interface{}) {
		if set {
			out = append(out, models.Change{Column: column, Value: value})
		}
	}
	add(r.Title.Set, "title", r.Title.Value)
	add(r.Code.Set, "code", r.Code.Value)
	add(r.SectionID.Set, "section_id", int64(r.SectionID.Value))
	add(r.Day.Set, "day", nullableInt(r.Day.Valid, int(r.Day.Value)))
	add(r.Start.Set, "start", r.Start.Value)
	add(r.End.Set, "end", r.End.Value)
	add(r.Units.Set, "units", nullableInt(r.Units.Valid, int(r.Units.Value)))
	add(r.Room.Set, "room", nullableString(r.Room.Valid, r.Room.Value))
	add(r.Instructor.Set, "instructor", nullableString(r.Instructor.Valid, r.Instructor.Value))
	return out
}

func nullableInt(valid bool, v int) interface{} {
	if !valid {
		return nil
	}
	return v
}

func nullableString(valid bool, v string) interface{} {
	if !valid {
		return nil
	}
	return v
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func trimOpt(o *Optional[string]) {
	if o.Valid {
		o.Value = strings.TrimSpace(o.Value)
	}
}
