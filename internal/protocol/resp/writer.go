package resp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidValue is returned when a value cannot be represented on the wire.
var ErrInvalidValue = errors.New("resp: invalid value")

// AppendValue appends the wire encoding of v to dst.
func AppendValue(dst []byte, v Value) ([]byte, error) {
	switch v.Kind {
	case KindSimpleString, KindError:
		if strings.ContainsAny(v.Str, "\r\n") {
			return dst, fmt.Errorf("%w: %s contains CR or LF", ErrInvalidValue, v.Kind)
		}
		if v.Kind == KindSimpleString {
			dst = append(dst, '+')
		} else {
			dst = append(dst, '-')
		}
		dst = append(dst, v.Str...)
		return append(dst, '\r', '\n'), nil
	case KindInteger:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, v.Int, 10)
		return append(dst, '\r', '\n'), nil
	case KindBulkString:
		if v.IsNull {
			return append(dst, "$-1\r\n"...), nil
		}
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(v.Bulk)), 10)
		dst = append(dst, '\r', '\n')
		dst = append(dst, v.Bulk...)
		return append(dst, '\r', '\n'), nil
	case KindArray:
		if v.IsNull {
			return append(dst, "*-1\r\n"...), nil
		}
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v.Array)), 10)
		dst = append(dst, '\r', '\n')
		var err error
		for _, e := range v.Array {
			if dst, err = AppendValue(dst, e); err != nil {
				return dst, err
			}
		}
		return dst, nil
	case KindNull:
		return append(dst, "_\r\n"...), nil
	default:
		return dst, fmt.Errorf("%w: kind %d", ErrInvalidValue, v.Kind)
	}
}

// Encode returns the wire encoding of v.
func Encode(v Value) ([]byte, error) {
	return AppendValue(nil, v)
}

// Writer encodes RESP values onto a buffered stream.
type Writer struct {
	bw  *bufio.Writer
	buf []byte
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &Writer{bw: bw}
}

// WriteValue buffers the encoding of v. Nothing is written if v is invalid.
func (w *Writer) WriteValue(v Value) error {
	var err error
	w.buf, err = AppendValue(w.buf[:0], v)
	if err != nil {
		return err
	}
	_, err = w.bw.Write(w.buf)
	return err
}

// Flush writes any buffered data to the underlying stream.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}
