// Package command defines the closed request and response sets served by
// rediskv and their translation to and from RESP values.
//
// Supported request shapes (verbs and keywords match ASCII case-insensitively):
//
//	PING
//	ECHO <message>
//	GET <key>
//	SET <key> <value> [PX <milliseconds>]
//	COMMAND DOCS
//	INFO replication
//
// Any other array is rejected with an error matching ErrUnsupportedCommand;
// a malformed PX argument is rejected with ErrArgumentFormat.
package command
