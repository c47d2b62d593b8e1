package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeNone Type = iota
	TypeInt
	TypeReal
	TypeString
	TypeBool
)

var typeNames = [...]string{
	TypeNone:   "none",
	TypeInt:    "int",
	TypeReal:   "real",
	TypeString: "str",
	TypeBool:   "bool",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Value is a tagged union. Integers, reals and booleans live in Data as raw
// bits; strings live in Str.
type Value struct {
	Type Type
	Data uint64
	Str  string
}

// ErrSyntax is returned when text does not fully parse as a number.
var ErrSyntax = errors.New("value: invalid number syntax")

// None is the zero Value. It marks "no usable value" and is never stored.
var None = Value{}

func NewInt(i int64) Value {
	return Value{Type: TypeInt, Data: uint64(i)}
}

func NewReal(f float64) Value {
	return Value{Type: TypeReal, Data: math.Float64bits(f)}
}

func NewString(s string) Value {
	return Value{Type: TypeString, Str: s}
}

func NewBool(b bool) Value {
	if b {
		return Value{Type: TypeBool, Data: 1}
	}
	return Value{Type: TypeBool}
}

// Int returns the value as int64.
func (v Value) Int() int64 {
	if v.Type == TypeReal {
		return int64(math.Float64frombits(v.Data))
	}
	return int64(v.Data)
}

// Float returns the value as float64, promoting integers.
func (v Value) Float() float64 {
	if v.Type == TypeReal {
		return math.Float64frombits(v.Data)
	}
	return float64(int64(v.Data))
}

// Bool returns the boolean payload.
func (v Value) Bool() bool {
	return v.Data != 0
}

// IsNone reports whether v carries no usable value.
func (v Value) IsNone() bool {
	return v.Type == TypeNone
}

// IsNumeric reports whether v is an integer or a real.
func (v Value) IsNumeric() bool {
	return v.Type == TypeInt || v.Type == TypeReal
}

// Equal compares tag and payload.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	if v.Type == TypeString {
		return v.Str == o.Str
	}
	return v.Data == o.Data
}

// Format returns the text print() writes for the value.
func (v Value) Format() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.Int(), 10)
	case TypeReal:
		f := v.Float()
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !math.IsInf(f, 0) && !math.IsNaN(f) && !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case TypeString:
		return v.Str
	case TypeBool:
		if v.Bool() {
			return "True"
		}
		return "False"
	default:
		return "None"
	}
}

// Literal returns the source-code spelling of v. ok is false when v has no
// single-token spelling: None, negative numbers, non-finite reals, and
// strings that contain both quote characters or a newline.
func (v Value) Literal() (lit string, ok bool) {
	switch v.Type {
	case TypeInt:
		if v.Int() < 0 {
			return "", false
		}
		return v.Format(), true
	case TypeReal:
		f := v.Float()
		if f < 0 || math.IsInf(f, 0) || math.IsNaN(f) || math.Signbit(f) {
			return "", false
		}
		return v.Format(), true
	case TypeString:
		if strings.Contains(v.Str, "\n") {
			return "", false
		}
		if !strings.Contains(v.Str, `"`) {
			return `"` + v.Str + `"`, true
		}
		if !strings.Contains(v.Str, "'") {
			return "'" + v.Str + "'", true
		}
		return "", false
	case TypeBool:
		return v.Format(), true
	}
	return "", false
}

func (v Value) String() string {
	if v.Type == TypeString {
		return fmt.Sprintf("%s %q", v.Type, v.Str)
	}
	return fmt.Sprintf("%s %s", v.Type, v.Format())
}

// ParseInt parses a whole base-10 integer. Surrounding spaces are allowed;
// anything else that is not part of the number is an error.
func ParseInt(s string) (Value, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return None, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return NewInt(i), nil
}

// ParseReal parses a whole decimal floating point number, with the same
// rules as ParseInt. Hexadecimal floats are rejected.
func ParseReal(s string) (Value, error) {
	t := strings.TrimSpace(s)
	digits := strings.TrimLeft(t, "+-")
	if len(t)-len(digits) > 1 || strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return None, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return None, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return NewReal(f), nil
}
