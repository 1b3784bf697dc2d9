package repl

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnbalancedQuotes is returned for a line with an unterminated quote.
var ErrUnbalancedQuotes = errors.New("invalid argument(s): unbalanced quotes")

// SplitArgs splits a line into arguments the way redis-cli does.
//
// Arguments are separated by whitespace. Double-quoted arguments support
// \n, \r, \t, \b, \a, \\, \" and \xHH escapes; single-quoted arguments
// only support \'. A closing quote must be followed by whitespace or the
// end of the line.
func SplitArgs(line string) ([]string, error) {
	var args []string
	i := 0
	for {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i >= len(line) {
			return args, nil
		}

		var cur strings.Builder
		switch line[i] {
		case '"':
			n, err := readDoubleQuoted(line[i+1:], &cur)
			if err != nil {
				return nil, err
			}
			i += n + 1
		case '\'':
			n, err := readSingleQuoted(line[i+1:], &cur)
			if err != nil {
				return nil, err
			}
			i += n + 1
		default:
			for i < len(line) && !isSpace(line[i]) {
				cur.WriteByte(line[i])
				i++
			}
			args = append(args, cur.String())
			continue
		}

		if i < len(line) && !isSpace(line[i]) {
			return nil, ErrUnbalancedQuotes
		}
		args = append(args, cur.String())
	}
}

// readDoubleQuoted consumes s up to and including the closing quote and
// returns the number of bytes consumed.
func readDoubleQuoted(s string, out *strings.Builder) (int, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			return i + 1, nil
		case c == '\\' && i+3 < len(s) && s[i+1] == 'x' && isHex(s[i+2]) && isHex(s[i+3]):
			b, _ := strconv.ParseUint(s[i+2:i+4], 16, 8)
			out.WriteByte(byte(b))
			i += 3
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case 'b':
				out.WriteByte('\b')
			case 'a':
				out.WriteByte('\a')
			default:
				out.WriteByte(s[i])
			}
		default:
			out.WriteByte(c)
		}
	}
	return 0, ErrUnbalancedQuotes
}

func readSingleQuoted(s string, out *strings.Builder) (int, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			return i + 1, nil
		case c == '\\' && i+1 < len(s) && s[i+1] == '\'':
			out.WriteByte('\'')
			i++
		default:
			out.WriteByte(c)
		}
	}
	return 0, ErrUnbalancedQuotes
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
