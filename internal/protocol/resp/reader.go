package resp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Protocol limits to prevent DoS attacks.
const (
	// DefaultMaxArrayLen limits the number of elements in a RESP array.
	// Supported commands have at most five arguments.
	DefaultMaxArrayLen = 1024

	// DefaultMaxBulkLen limits the size of a single bulk string (512KB).
	DefaultMaxBulkLen = 512 * 1024

	// bulkChunk bounds the buffer reserved for a bulk payload before any of
	// it has arrived.
	bulkChunk = 64 * 1024

	// DefaultMaxLineLen limits header and simple string lines (64KB).
	DefaultMaxLineLen = 64 * 1024

	// DefaultMaxDepth limits array nesting.
	DefaultMaxDepth = 8
)

var (
	ErrProtocol        = errors.New("resp: protocol error")
	ErrLimitExceeded   = errors.New("resp: limit exceeded")
	ErrUnsupportedType = fmt.Errorf("%w: unsupported type", ErrProtocol)
)

// Limits bounds what a Reader accepts.
type Limits struct {
	MaxArrayLen int
	MaxBulkLen  int
	MaxLineLen  int
	MaxDepth    int
}

// DefaultLimits returns the default decoding limits.
func DefaultLimits() Limits {
	return Limits{
		MaxArrayLen: DefaultMaxArrayLen,
		MaxBulkLen:  DefaultMaxBulkLen,
		MaxLineLen:  DefaultMaxLineLen,
		MaxDepth:    DefaultMaxDepth,
	}
}

// Reader decodes RESP values from a buffered stream.
type Reader struct {
	br     *bufio.Reader
	limits Limits
}

// NewReader returns a Reader using the default limits.
func NewReader(r io.Reader) *Reader {
	return NewReaderWithLimits(r, DefaultLimits())
}

// NewReaderWithLimits returns a Reader using the given limits. Zero fields
// fall back to the defaults.
func NewReaderWithLimits(r io.Reader, limits Limits) *Reader {
	def := DefaultLimits()
	if limits.MaxArrayLen <= 0 {
		limits.MaxArrayLen = def.MaxArrayLen
	}
	if limits.MaxBulkLen <= 0 {
		limits.MaxBulkLen = def.MaxBulkLen
	}
	if limits.MaxLineLen <= 0 {
		limits.MaxLineLen = def.MaxLineLen
	}
	if limits.MaxDepth <= 0 {
		limits.MaxDepth = def.MaxDepth
	}

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{br: br, limits: limits}
}

// Buffered returns the number of bytes already read from the underlying
// stream but not yet decoded.
func (r *Reader) Buffered() int {
	return r.br.Buffered()
}

// Peek waits until at least one byte is available without consuming it.
func (r *Reader) Peek() error {
	_, err := r.br.Peek(1)
	return err
}

// ReadValue decodes the next value.
//
// It returns io.EOF only when the stream ends cleanly between values.
// A stream that ends inside a value yields an error wrapping both
// ErrProtocol and io.ErrUnexpectedEOF.
func (r *Reader) ReadValue() (Value, error) {
	if _, err := r.br.Peek(1); err != nil {
		return Value{}, err
	}
	v, err := r.readValue(0)
	if errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("%w: truncated input: %w", ErrProtocol, io.ErrUnexpectedEOF)
	}
	return v, err
}

func (r *Reader) readValue(depth int) (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}
	if len(line) == 0 {
		return Value{}, fmt.Errorf("%w: empty line", ErrProtocol)
	}

	tag, rest := line[0], line[1:]
	switch tag {
	case '+':
		return SimpleString(string(rest)), nil
	case '-':
		return Error(string(rest)), nil
	case ':':
		n, err := strconv.ParseInt(string(rest), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: invalid integer %q", ErrProtocol, rest)
		}
		return Integer(n), nil
	case '$':
		return r.readBulk(rest)
	case '*':
		return r.readArray(rest, depth)
	case '_':
		if len(rest) != 0 {
			return Value{}, fmt.Errorf("%w: invalid null", ErrProtocol)
		}
		return Null(), nil
	case '#', ',', '(', '!', '=', '%', '~', '>', '|':
		return Value{}, fmt.Errorf("%w: type byte %q", ErrUnsupportedType, tag)
	default:
		return Value{}, fmt.Errorf("%w: unknown type byte %q", ErrProtocol, tag)
	}
}

func (r *Reader) readBulk(header []byte) (Value, error) {
	n, err := parseLength(header)
	if err != nil {
		return Value{}, fmt.Errorf("%w: invalid bulk length", ErrProtocol)
	}
	if n == -1 {
		return NullBulkString(), nil
	}
	if n > r.limits.MaxBulkLen {
		return Value{}, fmt.Errorf("%w: bulk length %d exceeds limit %d", ErrLimitExceeded, n, r.limits.MaxBulkLen)
	}

	// The buffer grows with the data read, not with the declared length.
	var b bytes.Buffer
	b.Grow(min(n+2, bulkChunk))
	if _, err := io.CopyN(&b, r.br, int64(n+2)); err != nil {
		return Value{}, err
	}
	buf := b.Bytes()
	if buf[n] != '\r' || buf[n+1] != '\n' {
		return Value{}, fmt.Errorf("%w: invalid bulk terminator", ErrProtocol)
	}
	return BulkString(buf[:n]), nil
}

func (r *Reader) readArray(header []byte, depth int) (Value, error) {
	n, err := parseLength(header)
	if err != nil {
		return Value{}, fmt.Errorf("%w: invalid array length", ErrProtocol)
	}
	if n == -1 {
		return NullArray(), nil
	}
	if n > r.limits.MaxArrayLen {
		return Value{}, fmt.Errorf("%w: array length %d exceeds limit %d", ErrLimitExceeded, n, r.limits.MaxArrayLen)
	}
	if depth >= r.limits.MaxDepth {
		return Value{}, fmt.Errorf("%w: nesting depth exceeds limit %d", ErrLimitExceeded, r.limits.MaxDepth)
	}

	elems := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := r.readValue(depth + 1)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	return Array(elems...), nil
}

// readLine reads one CRLF-terminated line and returns it without the CRLF.
// A bare CR or LF inside the line is a protocol error.
func (r *Reader) readLine() ([]byte, error) {
	var buf []byte
	for {
		frag, err := r.br.ReadSlice('\n')
		if err == nil {
			buf = append(buf, frag...)
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, frag...)
			if len(buf) > r.limits.MaxLineLen {
				return nil, fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, r.limits.MaxLineLen)
			}
			continue
		}
		if errors.Is(err, io.EOF) && len(buf)+len(frag) > 0 {
			return nil, io.EOF
		}
		return nil, err
	}

	if len(buf) > r.limits.MaxLineLen {
		return nil, fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, r.limits.MaxLineLen)
	}
	if len(buf) < 2 || buf[len(buf)-2] != '\r' {
		return nil, fmt.Errorf("%w: missing CRLF", ErrProtocol)
	}
	line := buf[:len(buf)-2]
	if bytes.IndexByte(line, '\r') >= 0 {
		return nil, fmt.Errorf("%w: unexpected CR in line", ErrProtocol)
	}
	return line, nil
}

// parseLength parses a RESP length: digits only, or exactly "-1".
func parseLength(b []byte) (int, error) {
	if string(b) == "-1" {
		return -1, nil
	}
	if len(b) == 0 || len(b) > 10 {
		return 0, strconv.ErrSyntax
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, strconv.ErrSyntax
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// Decode decodes exactly one value from b. Trailing bytes are an error.
func Decode(b []byte) (Value, error) {
	src := bytes.NewReader(b)
	r := NewReader(src)
	v, err := r.ReadValue()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, fmt.Errorf("%w: empty input", ErrProtocol)
		}
		return Value{}, err
	}
	if rest := r.Buffered() + src.Len(); rest > 0 {
		return Value{}, fmt.Errorf("%w: %d trailing bytes", ErrProtocol, rest)
	}
	return v, nil
}
