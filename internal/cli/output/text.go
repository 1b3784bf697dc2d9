package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/rediskv-go/internal/protocol/resp"
)

// TextFormatter prints replies the way redis-cli does on a terminal.
type TextFormatter struct{}

// Format writes v followed by a newline.
func (f *TextFormatter) Format(w io.Writer, v resp.Value) error {
	_, err := io.WriteString(w, Text(v)+"\n")
	return err
}

// Text renders v without a trailing newline.
func Text(v resp.Value) string {
	var b strings.Builder
	writeText(&b, v, "")
	return b.String()
}

func writeText(b *strings.Builder, v resp.Value, indent string) {
	switch v.Kind {
	case resp.KindSimpleString:
		b.WriteString(v.Str)
	case resp.KindError:
		b.WriteString("(error) ")
		b.WriteString(v.Str)
	case resp.KindInteger:
		b.WriteString("(integer) ")
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case resp.KindBulkString:
		if v.IsNull {
			b.WriteString("(nil)")
			return
		}
		b.WriteString(Quote(v.Bulk))
	case resp.KindNull:
		b.WriteString("(nil)")
	case resp.KindArray:
		writeArray(b, v, indent)
	default:
		fmt.Fprintf(b, "(unknown %s)", v.Kind)
	}
}

// writeArray numbers elements and aligns nested arrays under their
// parent element, as redis-cli does.
func writeArray(b *strings.Builder, v resp.Value, indent string) {
	if v.IsNull {
		b.WriteString("(nil)")
		return
	}
	if len(v.Array) == 0 {
		b.WriteString("(empty array)")
		return
	}

	width := len(strconv.Itoa(len(v.Array)))
	for i, elem := range v.Array {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(indent)
		}
		prefix := fmt.Sprintf("%*d) ", width, i+1)
		b.WriteString(prefix)
		writeText(b, elem, indent+strings.Repeat(" ", len(prefix)))
	}
}

// Quote returns p in double quotes with control and non-ASCII bytes
// escaped.
func Quote(p []byte) string {
	var b strings.Builder
	b.Grow(len(p) + 2)
	b.WriteByte('"')
	for _, c := range p {
		switch c {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		default:
			if c < 0x20 || c > 0x7e {
				fmt.Fprintf(&b, `\x%02x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
