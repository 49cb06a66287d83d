// Package validation wires go-playground/validator for request payloads and
// turns its errors into per-field issues the API can surface.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tags registered by New.
const (
	TagHHMM       = "hhmm"
	TagAfterStart = "after_start"
)

var timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// FieldIssue is a single validation failure keyed by JSON path.
type FieldIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// TimeRange is implemented by payloads carrying a start/end pair. Either side
// may be empty when it was not supplied.
type TimeRange interface {
	TimeBounds() (start, end string)
}

var labels = map[string]string{
	"title":      "Title",
	"code":       "Code",
	"section_id": "Section id",
	"day":        "Day",
	"start":      "Start",
	"end":        "End",
	"units":      "Units",
	"room":       "Room",
	"instructor": "Instructor",
}

// New returns a validator reporting fields by their JSON names and knowing the
// HH:MM format.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation(TagHHMM, func(fl validator.FieldLevel) bool {
		return IsHHMM(fl.Field().String())
	})
	return v
}

// IsHHMM reports whether s is a zero-padded 24h time.
func IsHHMM(s string) bool {
	return timeRe.MatchString(s)
}

// TimeOrder is a struct-level rule for TimeRange payloads: when both bounds are
// well-formed, start must sort strictly before end. The failure is reported on
// the end field.
func TimeOrder(sl validator.StructLevel) {
	tr, ok := sl.Current().Interface().(TimeRange)
	if !ok {
		return
	}
	start, end := tr.TimeBounds()
	if !IsHHMM(start) || !IsHHMM(end) {
		return
	}
	if start >= end {
		sl.ReportError(end, "end", "End", TagAfterStart, "")
	}
}

// Issues converts a validation or decoding error into field issues.
func Issues(err error) []FieldIssue {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldIssue, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldIssue{Path: fe.Field(), Message: message(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := typeErr.Field
		return []FieldIssue{{Path: path, Message: fmt.Sprintf("%s has an invalid type", label(path))}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []FieldIssue{{Path: "", Message: "Malformed JSON body"}}
	}

	return []FieldIssue{{Path: "", Message: "Unexpected error"}}
}

func message(fe validator.FieldError) string {
	name := label(fe.Field())
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		if isString {
			if fe.Param() == "1" {
				return name + " is required"
			}
			return fmt.Sprintf("Min %s chars", fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Max %s chars", fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be > %s", name, fe.Param())
	case TagHHMM:
		return name + " must be HH:MM"
	case TagAfterStart:
		return "Start must be before end"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, fe.Param())
	default:
		return name + " is invalid"
	}
}

func label(path string) string {
	if l, ok := labels[path]; ok {
		return l
	}
	if path == "" {
		return "Value"
	}
	return strings.ToUpper(path[:1]) + path[1:]
}
