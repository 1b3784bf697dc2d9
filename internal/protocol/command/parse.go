package command

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/rediskv-go/internal/protocol/resp"
)

// maxTTLMillis keeps PX values representable as a time.Duration.
const maxTTLMillis = math.MaxInt64 / int64(time.Millisecond)

// ParseRequest translates a decoded RESP value into a Request.
//
// The value must be a non-empty array whose elements are bulk or simple
// strings. The verb and its shape select exactly one request type.
func ParseRequest(v resp.Value) (Request, error) {
	args, err := textArgs(v)
	if err != nil {
		return nil, err
	}

	verb := strings.ToUpper(args[0])
	switch verb {
	case "PING":
		if len(args) == 1 {
			return Ping{}, nil
		}
	case "ECHO":
		if len(args) == 2 {
			return Echo{Message: args[1]}, nil
		}
	case "GET":
		if len(args) == 2 {
			return Get{Key: args[1]}, nil
		}
	case "SET":
		return parseSet(args)
	case "COMMAND":
		if len(args) == 2 && strings.EqualFold(args[1], "DOCS") {
			return CommandDocs{}, nil
		}
		return nil, unsupportedf("unknown subcommand for 'command'")
	case "INFO":
		if len(args) == 2 && strings.EqualFold(args[1], "replication") {
			return InfoReplication{}, nil
		}
		return nil, unsupportedf("unsupported INFO section")
	default:
		return nil, unsupportedf("unknown command '%s', with args beginning with: %s", args[0], quoteArgs(args[1:]))
	}

	return nil, unsupportedf("wrong number of arguments for '%s' command", strings.ToLower(verb))
}

func parseSet(args []string) (Request, error) {
	switch len(args) {
	case 3:
		return Set{Key: args[1], Value: args[2]}, nil
	case 5:
		if !strings.EqualFold(args[3], "PX") {
			return nil, unsupportedf("syntax error")
		}
		ms, err := strconv.ParseInt(args[4], 10, 64)
		if err != nil {
			return nil, argumentf("value is not an integer or out of range")
		}
		if ms <= 0 || ms > maxTTLMillis {
			return nil, argumentf("invalid expire time in 'set' command")
		}
		return Set{Key: args[1], Value: args[2], TTL: time.Duration(ms) * time.Millisecond}, nil
	default:
		return nil, unsupportedf("wrong number of arguments for 'set' command")
	}
}

// textArgs flattens a command array into its string elements.
func textArgs(v resp.Value) ([]string, error) {
	if v.Kind != resp.KindArray || v.IsNull {
		return nil, unsupportedf("expected command array, got %s", v.Kind)
	}
	if len(v.Array) == 0 {
		return nil, unsupportedf("empty command")
	}

	args := make([]string, len(v.Array))
	for i, e := range v.Array {
		if e.Kind != resp.KindBulkString && e.Kind != resp.KindSimpleString {
			return nil, unsupportedf("command arguments must be strings")
		}
		s, ok := e.Text()
		if !ok {
			return nil, unsupportedf("command arguments must not be null")
		}
		args[i] = s
	}
	return args, nil
}

func quoteArgs(args []string) string {
	var b strings.Builder
	for _, a := range args {
		b.WriteByte('\'')
		b.WriteString(a)
		b.WriteString("' ")
	}
	return b.String()
}
