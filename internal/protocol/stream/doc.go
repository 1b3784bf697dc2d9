// Package stream carries RESP values and commands over a network connection.
//
// A Stream is used by both sides of a connection: the server reads requests
// and writes responses, while the replication handshake and the CLI client
// write requests and read responses. Writes are buffered until Flush so a
// server can answer pipelined requests with a single write.
package stream
