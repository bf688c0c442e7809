package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"despachos/rndc-gateway/internal/ingest"
)

// Values holds coerced field values keyed by schema field name. Absent
// optional fields are stored as nil.
type Values map[string]any

// String returns a text value or "".
func (v Values) String(name string) string {
	if s, ok := v[name].(string); ok {
		return s
	}
	return ""
}

// Int returns an integer value or nil when the field was absent.
func (v Values) Int(name string) *int64 {
	if i, ok := v[name].(int64); ok {
		return &i
	}
	return nil
}

// Float returns a decimal value or nil when the field was absent.
func (v Values) Float(name string) *float64 {
	if f, ok := v[name].(float64); ok {
		return &f
	}
	return nil
}

// Outcome is the result of validating one row: either Values (valid) or a
// non-empty list of Errors (invalid).
type Outcome struct {
	Row    int          `json:"row"`
	Values Values       `json:"values,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

// Valid reports whether the row passed validation.
func (o Outcome) Valid() bool { return len(o.Errors) == 0 }

// Messages flattens the field errors into human readable strings.
func (o Outcome) Messages() []string {
	out := make([]string, len(o.Errors))
	for i, e := range o.Errors {
		out[i] = e.Message
	}
	return out
}

// Summary joins every error message into one line.
func (o Outcome) Summary() string {
	return strings.Join(o.Messages(), "; ")
}

// Validate checks a row against a schema. Missing required fields are
// reported first and all at once; coercion only runs when none is missing.
// It never panics on bad input.
func Validate(row ingest.Row, schema Schema) Outcome {
	out := Outcome{Row: row.Index}

	raw := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		raw[f.Name] = strings.TrimSpace(lookup(row, f))
	}

	for _, f := range schema.Fields {
		if f.Required && raw[f.Name] == "" {
			out.Errors = append(out.Errors, FieldError{
				Field:   f.Name,
				Code:    CodeRequired,
				Message: fmt.Sprintf("%s is required", f.Name),
			})
		}
	}
	if len(out.Errors) > 0 {
		return out
	}
	return coerceAll(out, raw, schema)
}

// Partial coerces whatever fields are present and skips the required check.
// Previews of hand-typed records use it.
func Partial(row ingest.Row, schema Schema) Outcome {
	raw := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		raw[f.Name] = strings.TrimSpace(lookup(row, f))
	}
	return coerceAll(Outcome{Row: row.Index}, raw, schema)
}

func coerceAll(out Outcome, raw map[string]string, schema Schema) Outcome {
	values := make(Values, len(schema.Fields))
	for _, f := range schema.Fields {
		value := raw[f.Name]
		if value == "" {
			values[f.Name] = nil
			continue
		}
		coerced, err := Coerce(f, value)
		if err != nil {
			out.Errors = append(out.Errors, *err)
			continue
		}
		values[f.Name] = coerced
	}

	if len(out.Errors) > 0 {
		return out
	}
	out.Values = values
	return out
}

func lookup(row ingest.Row, f Field) string {
	if v, ok := row.Get(f.Name); ok && strings.TrimSpace(v) != "" {
		return v
	}
	for _, a := range f.Aliases {
		if v, ok := row.Get(a); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Coerce converts a trimmed, non-empty raw value to the field's kind.
func Coerce(f Field, value string) (any, *FieldError) {
	invalid := func(format string, args ...any) *FieldError {
		return &FieldError{
			Field:   f.Name,
			Code:    CodeInvalid,
			Value:   value,
			Message: fmt.Sprintf("%s: "+format, append([]any{f.Name}, args...)...),
		}
	}

	if f.MaxLen > 0 && len([]rune(value)) > f.MaxLen {
		return nil, &FieldError{
			Field:   f.Name,
			Code:    CodeTooLong,
			Value:   value,
			Message: fmt.Sprintf("%s exceeds %d characters", f.Name, f.MaxLen),
		}
	}

	switch f.Kind {
	case String:
		return value, nil

	case Identifier:
		return strings.ToUpper(value), nil

	case Int:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, invalid("%q is not an integer", value)
		}
		return n, nil

	case Float:
		n, err := parseDecimal(value)
		if err != nil {
			return nil, invalid("%q is not a number", value)
		}
		return n, nil

	case Date:
		d, err := ParseDate(value)
		if err != nil {
			return nil, invalid("%q is not a date", value)
		}
		return d.Format("2006-01-02"), nil

	case Time:
		t, err := ParseClock(value)
		if err != nil {
			return nil, invalid("%q is not a time of day", value)
		}
		return t, nil

	default:
		return nil, invalid("unknown kind %s", f.Kind)
	}
}

func parseDecimal(value string) (float64, error) {
	if strings.Contains(value, ",") && !strings.Contains(value, ".") {
		value = strings.Replace(value, ",", ".", 1)
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not finite")
	}
	return n, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// excelEpoch is day zero of the 1900 date system as Excel counts it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate accepts ISO dates, Colombian DD/MM/YYYY and DD-MM-YYYY, and Excel
// serial day numbers as read from raw XLSX cells.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= 1 && serial < 2958466 {
		return excelEpoch.AddDate(0, 0, int(serial)), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// ParseClock normalizes H:MM, HH:MM, HH:MM:SS and Excel day fractions to HH:MM.
func ParseClock(value string) (string, error) {
	for _, layout := range []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04"), nil
		}
	}
	if frac, err := strconv.ParseFloat(value, 64); err == nil && frac >= 0 && frac < 1 {
		minutes := int(math.Round(frac * 24 * 60))
		if minutes == 24*60 {
			minutes--
		}
		return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
	}
	return "", fmt.Errorf("unrecognized time %q", value)
}
