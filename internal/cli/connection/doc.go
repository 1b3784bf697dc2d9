// Package connection provides the RESP client used by rediskv-cli.
//
//   - client.go: pipelined client; replies are matched to requests through
//     a FIFO of pending reply channels
//   - manager.go: the current connection of an interactive session
package connection
