package output

import (
	"io"
	"strconv"

	"github.com/yndnr/rediskv-go/internal/protocol/resp"
)

// RawFormatter prints payloads verbatim, one per line.
type RawFormatter struct{}

// Format writes v. Array elements are written on separate lines.
func (f *RawFormatter) Format(w io.Writer, v resp.Value) error {
	if v.Kind == resp.KindArray && !v.IsNull {
		for _, elem := range v.Array {
			if err := f.Format(w, elem); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := io.WriteString(w, raw(v)+"\n")
	return err
}

func raw(v resp.Value) string {
	switch v.Kind {
	case resp.KindSimpleString, resp.KindError:
		return v.Str
	case resp.KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case resp.KindBulkString:
		return string(v.Bulk)
	default:
		return ""
	}
}
