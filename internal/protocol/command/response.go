package command

import (
	"github.com/yndnr/rediskv-go/internal/protocol/resp"
)

// DocsText is the fixed reply to COMMAND DOCS.
const DocsText = "rediskv supports: PING, ECHO message, GET key, SET key value [PX milliseconds], COMMAND DOCS, INFO replication"

// Response is one of Pong, EchoReply, OK, Str, Nil, Docs or Info.
type Response interface {
	isResponse()
}

// Pong answers Ping.
type Pong struct{}

// EchoReply answers Echo.
type EchoReply struct {
	Message string
}

// OK answers a successful Set.
type OK struct{}

// Str carries the value found by Get.
type Str struct {
	Value string
}

// Nil answers Get on an absent key.
type Nil struct{}

// Docs answers CommandDocs.
type Docs struct{}

// Info answers InfoReplication.
type Info struct {
	Replication ReplicationInfo
}

func (Pong) isResponse()      {}
func (EchoReply) isResponse() {}
func (OK) isResponse()        {}
func (Str) isResponse()       {}
func (Nil) isResponse()       {}
func (Docs) isResponse()      {}
func (Info) isResponse()      {}

// ResponseValue returns the RESP encoding of r.
func ResponseValue(r Response) resp.Value {
	switch r := r.(type) {
	case Pong:
		return resp.BulkText("PONG")
	case EchoReply:
		return resp.BulkText(r.Message)
	case OK:
		return resp.SimpleString("OK")
	case Str:
		return resp.BulkText(r.Value)
	case Nil:
		return resp.NullBulkString()
	case Docs:
		return resp.BulkText(DocsText)
	case Info:
		return resp.BulkText(r.Replication.String())
	default:
		panic("command: unknown response type")
	}
}

// ErrorValue returns the RESP error reply for a command error.
func ErrorValue(err *Error) resp.Value {
	return resp.Error(err.Reply())
}

// ParseResponse interprets a reply received from a peer.
//
// The wire form does not distinguish Echo, Str, Docs and Info replies, so
// every bulk string other than PONG is returned as Str. Error replies are
// returned as *ReplyError.
func ParseResponse(v resp.Value) (Response, error) {
	switch v.Kind {
	case resp.KindError:
		return nil, &ReplyError{Message: v.Str}
	case resp.KindSimpleString:
		switch v.Str {
		case "OK":
			return OK{}, nil
		case "PONG":
			return Pong{}, nil
		}
		return Str{Value: v.Str}, nil
	case resp.KindBulkString:
		if v.IsNull {
			return Nil{}, nil
		}
		if string(v.Bulk) == "PONG" {
			return Pong{}, nil
		}
		return Str{Value: string(v.Bulk)}, nil
	case resp.KindNull:
		return Nil{}, nil
	default:
		return nil, unsupportedf("unexpected %s reply", v.Kind)
	}
}
