package validation

import "fmt"

// Kind is the semantic type a raw cell is coerced to
type Kind int

const (
	// String is trimmed text.
	String Kind = iota
	// Identifier is trimmed, upper-cased text (plates, codes).
	Identifier
	// Int is a base-10 integer.
	Int
	// Float is a decimal number; "," is accepted as decimal separator.
	Float
	// Date is normalized to ISO YYYY-MM-DD.
	Date
	// Time is normalized to HH:MM.
	Time
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Identifier:
		return "identifier"
	case Int:
		return "int"
	case Float:
		return "number"
	case Date:
		return "date"
	case Time:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field describes one column of a schema.
type Field struct {
	Name     string
	Required bool
	Kind     Kind
	// Aliases are alternative column names accepted for this field.
	Aliases []string
	// MaxLen limits text length after trimming; 0 means unlimited.
	MaxLen int
}

// Schema is the set of fields a row type understands. Columns not declared
// here are ignored.
type Schema struct {
	Name   string
	Fields []Field
}

// Error codes carried by FieldError
const (
	CodeRequired = "required"
	CodeInvalid  = "invalid"
	CodeTooLong  = "too_long"
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Message }
