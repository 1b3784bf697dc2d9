package output

import (
	"encoding/json"
	"io"

	"github.com/yndnr/rediskv-go/internal/protocol/resp"
)

// JSONFormatter formats replies as JSON.
type JSONFormatter struct{}

// Format formats v as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, v resp.Value) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Native(v))
}

// Native converts v to plain Go values: strings, int64, nil, []any, and
// map[string]any{"error": msg} for error replies.
func Native(v resp.Value) any {
	switch v.Kind {
	case resp.KindSimpleString:
		return v.Str
	case resp.KindError:
		return map[string]any{"error": v.Str}
	case resp.KindInteger:
		return v.Int
	case resp.KindBulkString:
		if v.IsNull {
			return nil
		}
		return string(v.Bulk)
	case resp.KindArray:
		if v.IsNull {
			return nil
		}
		out := make([]any, len(v.Array))
		for i, elem := range v.Array {
			out[i] = Native(elem)
		}
		return out
	default:
		return nil
	}
}
