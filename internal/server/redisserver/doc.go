// Package redisserver serves the Redis protocol over TCP.
//
// Each accepted connection runs its own loop: decode one RESP value,
// translate it into a request, execute it and write the reply. Pipelined
// requests are answered in order and flushed together.
//
// Error handling per connection:
//   - command errors (unknown verb, bad argument) are answered with -ERR
//     and the connection stays open
//   - malformed RESP is answered with -ERR Protocol error and the
//     connection is closed
//   - EOF, timeouts and I/O failures close the connection
//
// No error on one connection affects the listener or other connections.
package redisserver
