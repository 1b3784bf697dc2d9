package command

import (
	"strconv"
	"time"

	"github.com/yndnr/rediskv-go/internal/protocol/resp"
)

// Request is one of Ping, Echo, Get, Set, CommandDocs or InfoReplication.
type Request interface {
	// Name returns the lower-case command name, used as a metrics label.
	Name() string
	isRequest()
}

// Ping asks for a liveness reply.
type Ping struct{}

// Echo asks the server to return Message.
type Echo struct {
	Message string
}

// Get reads Key.
type Get struct {
	Key string
}

// Set stores Value under Key. A positive TTL schedules the key's deletion.
type Set struct {
	Key   string
	Value string
	TTL   time.Duration
}

// CommandDocs asks for command documentation.
type CommandDocs struct{}

// InfoReplication asks for the replication section of INFO.
type InfoReplication struct{}

func (Ping) Name() string            { return "ping" }
func (Echo) Name() string            { return "echo" }
func (Get) Name() string             { return "get" }
func (Set) Name() string             { return "set" }
func (CommandDocs) Name() string     { return "command" }
func (InfoReplication) Name() string { return "info" }

func (Ping) isRequest()            {}
func (Echo) isRequest()            {}
func (Get) isRequest()             {}
func (Set) isRequest()             {}
func (CommandDocs) isRequest()     {}
func (InfoReplication) isRequest() {}

// RequestValue returns the canonical RESP array for req.
// ParseRequest(RequestValue(req)) yields a request equal to req.
func RequestValue(req Request) resp.Value {
	switch r := req.(type) {
	case Ping:
		return bulkArray("PING")
	case Echo:
		return bulkArray("ECHO", r.Message)
	case Get:
		return bulkArray("GET", r.Key)
	case Set:
		if r.TTL > 0 {
			return bulkArray("SET", r.Key, r.Value, "PX", strconv.FormatInt(r.TTL.Milliseconds(), 10))
		}
		return bulkArray("SET", r.Key, r.Value)
	case CommandDocs:
		return bulkArray("COMMAND", "DOCS")
	case InfoReplication:
		return bulkArray("INFO", "replication")
	default:
		panic("command: unknown request type")
	}
}

func bulkArray(args ...string) resp.Value {
	elems := make([]resp.Value, len(args))
	for i, a := range args {
		elems[i] = resp.BulkText(a)
	}
	return resp.Array(elems...)
}
