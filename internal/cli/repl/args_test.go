package repl

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"PING", []string{"PING"}},
		{"  set  key   value ", []string{"set", "key", "value"}},
		{`set key "hello world"`, []string{"set", "key", "hello world"}},
		{`echo "a\nb\t\"c\"\\"`, []string{"echo", "a\nb\t\"c\"\\"}},
		{`echo "\x41\x7a"`, []string{"echo", "Az"}},
		{`echo "\xZZ"`, []string{"echo", "xZZ"}},
		{`echo 'it\'s "raw"\n'`, []string{"echo", `it's "raw"\n`}},
		{`echo ""`, []string{"echo", ""}},
		{"a\tb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		got, err := SplitArgs(tt.line)
		if err != nil {
			t.Errorf("SplitArgs(%q) error = %v", tt.line, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitArgs(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSplitArgs_Unbalanced(t *testing.T) {
	for _, line := range []string{
		`echo "open`,
		`echo 'open`,
		`echo "closed"trailing`,
		`echo "ends with backslash\`,
	} {
		if _, err := SplitArgs(line); !errors.Is(err, ErrUnbalancedQuotes) {
			t.Errorf("SplitArgs(%q) error = %v, want ErrUnbalancedQuotes", line, err)
		}
	}
}
