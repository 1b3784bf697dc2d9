package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies command errors.
type ErrorKind string

const (
	// KindUnsupported marks a well-formed array that matches no known shape.
	KindUnsupported ErrorKind = "unsupported"
	// KindArgument marks a known shape carrying a malformed argument.
	KindArgument ErrorKind = "argument"
)

// Error is a command-level failure. It is reported to the client and never
// terminates the connection.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Sentinel errors for errors.Is comparisons.
var (
	ErrUnsupportedCommand = &Error{Kind: KindUnsupported}
	ErrArgumentFormat     = &Error{Kind: KindArgument}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return "command: " + string(e.Kind)
	}
	return "command: " + e.Message
}

// Is implements errors.Is() support; errors compare by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// lineBreaks are replaced in reply text, which must fit on one RESP line.
var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// Reply returns the text sent to the client in a RESP error.
func (e *Error) Reply() string {
	return "ERR " + lineBreaks.Replace(e.Message)
}

func unsupportedf(format string, args ...any) *Error {
	return &Error{Kind: KindUnsupported, Message: fmt.Sprintf(format, args...)}
}

func argumentf(format string, args ...any) *Error {
	return &Error{Kind: KindArgument, Message: fmt.Sprintf(format, args...)}
}

// ReplyError is an error reply received from a peer.
type ReplyError struct {
	Message string
}

func (e *ReplyError) Error() string {
	return "server replied: " + e.Message
}

// IsCommandError reports whether err is a command-level failure that should
// be answered with an error reply rather than closing the connection.
func IsCommandError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}
