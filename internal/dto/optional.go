package dto

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Optional distinguishes an absent JSON field from an explicit null and from a
// value. Set is true whenever the key appeared in the payload; Valid is true
// when it carried a non-null value.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns a pointer to the value, or nil when absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// Some builds a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null builds a present Optional carrying JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// FlexInt accepts a JSON integer or a string holding one.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	kind := "number"
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		kind = "string"
	}
	v, err := parseInteger(raw)
	if err != nil {
		return &json.UnmarshalTypeError{Value: kind + " " + raw, Type: reflect.TypeOf(FlexInt(0))}
	}
	*n = FlexInt(v)
	return nil
}

// Int returns the value as int.
func (n FlexInt) Int() int {
	return int(n)
}

// Weekday is a day of week numbered 1 (Monday) to 7 (Sunday). It decodes from
// a number, a numeric string, or an English weekday name.
type Weekday int

var weekdayNames = map[string]Weekday{
	"mon": 1, "monday": 1,
	"tue": 2, "tues": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thur": 4, "thurs": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
	"sun": 7, "sunday": 7,
}

// ParseWeekday resolves a query or payload value into a Weekday.
func ParseWeekday(raw string) (Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if d, ok := weekdayNames[s]; ok {
		return d, nil
	}
	v, err := parseInteger(s)
	if err != nil {
		return 0, fmt.Errorf("unknown weekday %q", raw)
	}
	return Weekday(v), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Weekday) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	v, err := ParseWeekday(raw)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string " + raw, Type: reflect.TypeOf(Weekday(0))}
	}
	*d = v
	return nil
}

// Int returns the value as int.
func (d Weekday) Int() int {
	return int(d)
}

func parseInteger(raw string) (int64, error) {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return int64(f), nil
}
