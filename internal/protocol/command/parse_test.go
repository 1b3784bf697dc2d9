package command

import (
	"errors"
	"testing"
	"time"

	"github.com/yndnr/rediskv-go/internal/protocol/resp"
)

func decode(t *testing.T, s string) resp.Value {
	t.Helper()
	v, err := resp.Decode([]byte(s))
	if err != nil {
		t.Fatalf("resp.Decode(%q) error = %v", s, err)
	}
	return v
}

func TestParseRequest_Valid(t *testing.T) {
	tests := []struct {
		name string
		v    resp.Value
		want Request
	}{
		{"ping", bulkArray("PING"), Ping{}},
		{"ping lower case", bulkArray("ping"), Ping{}},
		{"ping as simple string", resp.Array(resp.SimpleString("PING")), Ping{}},
		{"echo", bulkArray("ECHO", "hey"), Echo{Message: "hey"}},
		{"echo keeps argument case", bulkArray("echo", "HeY"), Echo{Message: "HeY"}},
		{"get", bulkArray("GET", "k"), Get{Key: "k"}},
		{"set", bulkArray("SET", "k", "v"), Set{Key: "k", Value: "v"}},
		{"set px", bulkArray("SET", "k", "v", "PX", "100"), Set{Key: "k", Value: "v", TTL: 100 * time.Millisecond}},
		{"set px lower case", bulkArray("set", "k", "v", "px", "5"), Set{Key: "k", Value: "v", TTL: 5 * time.Millisecond}},
		{"set empty value", bulkArray("SET", "k", ""), Set{Key: "k", Value: ""}},
		{"command docs", bulkArray("COMMAND", "DOCS"), CommandDocs{}},
		{"command docs mixed case", bulkArray("command", "docs"), CommandDocs{}},
		{"info replication", bulkArray("INFO", "replication"), InfoReplication{}},
		{"info replication upper case", bulkArray("INFO", "REPLICATION"), InfoReplication{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest(tt.v)
			if err != nil {
				t.Fatalf("ParseRequest(%s) error = %v", tt.v, err)
			}
			if got != tt.want {
				t.Errorf("ParseRequest(%s) = %#v, want %#v", tt.v, got, tt.want)
			}
		})
	}
}

func TestParseRequest_FromWire(t *testing.T) {
	got, err := ParseRequest(decode(t, "*2\r\n$4\r\nECHO\r\n$3\r\nhey\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest error = %v", err)
	}
	if got != (Echo{Message: "hey"}) {
		t.Errorf("ParseRequest = %#v, want Echo{hey}", got)
	}
}

func TestParseRequest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		v       resp.Value
		wantErr error
	}{
		{"unknown verb", bulkArray("FLUSHALL"), ErrUnsupportedCommand},
		{"ping with argument", bulkArray("PING", "x"), ErrUnsupportedCommand},
		{"echo without argument", bulkArray("ECHO"), ErrUnsupportedCommand},
		{"get with two keys", bulkArray("GET", "a", "b"), ErrUnsupportedCommand},
		{"set missing value", bulkArray("SET", "k"), ErrUnsupportedCommand},
		{"set four args", bulkArray("SET", "k", "v", "PX"), ErrUnsupportedCommand},
		{"set unknown option", bulkArray("SET", "k", "v", "EX", "10"), ErrUnsupportedCommand},
		{"command without docs", bulkArray("COMMAND"), ErrUnsupportedCommand},
		{"info other section", bulkArray("INFO", "server"), ErrUnsupportedCommand},
		{"info without section", bulkArray("INFO"), ErrUnsupportedCommand},
		{"not an array", resp.BulkText("PING"), ErrUnsupportedCommand},
		{"null array", resp.NullArray(), ErrUnsupportedCommand},
		{"empty array", resp.Array(), ErrUnsupportedCommand},
		{"integer element", resp.Array(resp.BulkText("GET"), resp.Integer(1)), ErrUnsupportedCommand},
		{"null element", resp.Array(resp.BulkText("GET"), resp.NullBulkString()), ErrUnsupportedCommand},
		{"non-numeric px", bulkArray("SET", "k", "v", "PX", "soon"), ErrArgumentFormat},
		{"zero px", bulkArray("SET", "k", "v", "PX", "0"), ErrArgumentFormat},
		{"negative px", bulkArray("SET", "k", "v", "PX", "-5"), ErrArgumentFormat},
		{"overflowing px", bulkArray("SET", "k", "v", "PX", "9223372036854775807"), ErrArgumentFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest(tt.v)
			if err == nil {
				t.Fatalf("ParseRequest(%s) = %#v, want error", tt.v, got)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRequest(%s) error = %v, want %v", tt.v, err, tt.wantErr)
			}
			if !IsCommandError(err) {
				t.Errorf("IsCommandError(%v) = false", err)
			}
		})
	}
}

func TestParseRequest_UnknownVerbMessage(t *testing.T) {
	_, err := ParseRequest(bulkArray("HELLO", "3"))

	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("error %v is not *Error", err)
	}
	want := "ERR unknown command 'HELLO', with args beginning with: '3' "
	if ce.Reply() != want {
		t.Errorf("Reply() = %q, want %q", ce.Reply(), want)
	}
}

func TestError_ReplySingleLine(t *testing.T) {
	_, err := ParseRequest(bulkArray("FOO", "a\nb", "c\r\nd"))

	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("error %v is not *Error", err)
	}
	want := "ERR unknown command 'FOO', with args beginning with: 'a b' 'c  d' "
	if ce.Reply() != want {
		t.Errorf("Reply() = %q, want %q", ce.Reply(), want)
	}
	if _, err := resp.Encode(resp.Error(ce.Reply())); err != nil {
		t.Errorf("Encode(reply) error = %v", err)
	}
}

func TestRequestValue_RoundTrip(t *testing.T) {
	requests := []Request{
		Ping{},
		Echo{Message: "hello world"},
		Get{Key: "user:1"},
		Set{Key: "k", Value: "v"},
		Set{Key: "k", Value: "v", TTL: 1500 * time.Millisecond},
		CommandDocs{},
		InfoReplication{},
	}

	for _, req := range requests {
		t.Run(req.Name(), func(t *testing.T) {
			enc, err := resp.Encode(RequestValue(req))
			if err != nil {
				t.Fatalf("Encode error = %v", err)
			}
			got, err := ParseRequest(decode(t, string(enc)))
			if err != nil {
				t.Fatalf("ParseRequest error = %v", err)
			}
			if got != req {
				t.Errorf("round trip = %#v, want %#v", got, req)
			}
		})
	}
}

func TestRequestValue_Ping(t *testing.T) {
	enc, _ := resp.Encode(RequestValue(Ping{}))
	if string(enc) != "*1\r\n$4\r\nPING\r\n" {
		t.Errorf("PING encoding = %q", enc)
	}
}

func TestError_Is(t *testing.T) {
	err := argumentf("bad")
	if !errors.Is(err, ErrArgumentFormat) {
		t.Error("argument error should match ErrArgumentFormat")
	}
	if errors.Is(err, ErrUnsupportedCommand) {
		t.Error("argument error should not match ErrUnsupportedCommand")
	}
	if errors.Is(errors.New("x"), ErrUnsupportedCommand) {
		t.Error("plain error should not match")
	}
	if IsCommandError(errors.New("x")) {
		t.Error("plain error is not a command error")
	}
}
