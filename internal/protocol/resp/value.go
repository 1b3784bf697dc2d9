package resp

import (
	"bytes"
	"strconv"
	"strings"
)

// Kind identifies the RESP type of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindSimpleString
	KindError
	KindInteger
	KindBulkString
	KindArray
	KindNull
)

// String returns the RESP type name.
func (k Kind) String() string {
	switch k {
	case KindSimpleString:
		return "simple-string"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindBulkString:
		return "bulk-string"
	case KindArray:
		return "array"
	case KindNull:
		return "null"
	default:
		return "invalid"
	}
}

// Value is a decoded RESP value.
//
// Str carries simple string and error text, Bulk the bulk string payload,
// Int the integer and Array the elements. IsNull marks the null bulk string
// and the null array; KindNull is the RESP3 null.
type Value struct {
	Kind   Kind
	Str    string
	Bulk   []byte
	Int    int64
	Array  []Value
	IsNull bool
}

// SimpleString returns a simple string value.
func SimpleString(s string) Value {
	return Value{Kind: KindSimpleString, Str: s}
}

// Error returns a simple error value.
func Error(s string) Value {
	return Value{Kind: KindError, Str: s}
}

// Integer returns an integer value.
func Integer(n int64) Value {
	return Value{Kind: KindInteger, Int: n}
}

// BulkString returns a bulk string value holding b. A nil b is an empty
// bulk string, not the null bulk string.
func BulkString(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{Kind: KindBulkString, Bulk: b}
}

// BulkText returns a bulk string value holding s.
func BulkText(s string) Value {
	return Value{Kind: KindBulkString, Bulk: []byte(s)}
}

// NullBulkString returns the null bulk string ($-1).
func NullBulkString() Value {
	return Value{Kind: KindBulkString, IsNull: true}
}

// Array returns an array of the given elements.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{Kind: KindArray, Array: elems}
}

// NullArray returns the null array (*-1).
func NullArray() Value {
	return Value{Kind: KindArray, IsNull: true}
}

// Null returns the RESP3 null (_).
func Null() Value {
	return Value{Kind: KindNull}
}

// Text returns the textual content of a simple string, error or bulk string.
// ok is false for every other kind and for null bulk strings.
func (v Value) Text() (s string, ok bool) {
	switch v.Kind {
	case KindSimpleString, KindError:
		return v.Str, true
	case KindBulkString:
		if v.IsNull {
			return "", false
		}
		return string(v.Bulk), true
	default:
		return "", false
	}
}

// Equal reports whether v and o are the same RESP value.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind || v.IsNull != o.IsNull {
		return false
	}
	switch v.Kind {
	case KindSimpleString, KindError:
		return v.Str == o.Str
	case KindInteger:
		return v.Int == o.Int
	case KindBulkString:
		return v.IsNull || bytes.Equal(v.Bulk, o.Bulk)
	case KindArray:
		if v.IsNull {
			return true
		}
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	case KindNull:
		return true
	default:
		return false
	}
}

// String renders v for logs and test failures.
func (v Value) String() string {
	switch v.Kind {
	case KindSimpleString:
		return "+" + v.Str
	case KindError:
		return "-" + v.Str
	case KindInteger:
		return ":" + strconv.FormatInt(v.Int, 10)
	case KindBulkString:
		if v.IsNull {
			return "$nil"
		}
		return strconv.Quote(string(v.Bulk))
	case KindArray:
		if v.IsNull {
			return "*nil"
		}
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindNull:
		return "_"
	default:
		return "<invalid>"
	}
}
