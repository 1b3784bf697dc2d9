// Package replication holds the replication identity of a server and the
// replica side of the master handshake.
//
// A server is either a master or a replica of a master address. A replica
// connects to its master at startup and sends PING; propagating writes
// and resynchronisation are not implemented.
package replication
