package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type flexKind uint8

const (
	flexNone flexKind = iota
	flexString
	flexNumber
)

// Flex is a JSON scalar that holds either a string or a number. Fields the API
// types loosely (name, price, lat) use it so tests can submit the wrong type on
// purpose while the rest of the model stays statically typed.
type Flex struct {
	kind flexKind
	str  string
	num  float64
}

// String wraps a string value.
func String(s string) Flex { return Flex{kind: flexString, str: s} }

// Number wraps a numeric value.
func Number(n float64) Flex { return Flex{kind: flexNumber, num: n} }

// Int wraps an integer value.
func Int(n int) Flex { return Number(float64(n)) }

// IsZero reports whether no value is held. encoding/json uses it for omitzero.
func (f Flex) IsZero() bool { return f.kind == flexNone }

func (f Flex) IsString() bool { return f.kind == flexString }
func (f Flex) IsNumber() bool { return f.kind == flexNumber }

// Str returns the string value and whether one is held.
func (f Flex) Str() (string, bool) { return f.str, f.kind == flexString }

// Num returns the numeric value and whether one is held.
func (f Flex) Num() (float64, bool) { return f.num, f.kind == flexNumber }

// Equal compares kind and value.
func (f Flex) Equal(other Flex) bool {
	if f.kind != other.kind {
		return false
	}
	switch f.kind {
	case flexString:
		return f.str == other.str
	case flexNumber:
		return f.num == other.num
	default:
		return true
	}
}

func (f Flex) String() string {
	switch f.kind {
	case flexString:
		return strconv.Quote(f.str)
	case flexNumber:
		return strconv.FormatFloat(f.num, 'f', -1, 64)
	default:
		return "<none>"
	}
}

func (f Flex) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case flexString:
		return json.Marshal(f.str)
	case flexNumber:
		return json.Marshal(f.num)
	default:
		return []byte("null"), nil
	}
}

func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*f = Flex{}
	case string:
		*f = String(val)
	case float64:
		*f = Number(val)
	default:
		return fmt.Errorf("flex value must be a string or number, got %s", data)
	}
	return nil
}
