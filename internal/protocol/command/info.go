package command

import (
	"strconv"
	"strings"
)

// Replication roles as reported by INFO.
const (
	RoleMaster = "master"
	RoleSlave  = "slave"
)

// DefaultBacklogSize is the advertised replication backlog size.
const DefaultBacklogSize = 1024 * 1024

// ReplicationInfo is the replication section of INFO.
type ReplicationInfo struct {
	Role                       string `json:"role"`
	ConnectedSlaves            int    `json:"connected_slaves"`
	MasterReplID               string `json:"master_replid"`
	MasterReplOffset           int64  `json:"master_repl_offset"`
	SecondReplOffset           int64  `json:"second_repl_offset"`
	ReplBacklogActive          int    `json:"repl_backlog_active"`
	ReplBacklogSize            int64  `json:"repl_backlog_size"`
	ReplBacklogFirstByteOffset int64  `json:"repl_backlog_first_byte_offset"`
	ReplBacklogHistlen         int64  `json:"repl_backlog_histlen"`
}

// String renders the section as name:value lines joined by CRLF, in the
// order Redis uses.
func (i ReplicationInfo) String() string {
	fields := []struct {
		name  string
		value string
	}{
		{"role", i.Role},
		{"connected_slaves", strconv.Itoa(i.ConnectedSlaves)},
		{"master_replid", i.MasterReplID},
		{"master_repl_offset", strconv.FormatInt(i.MasterReplOffset, 10)},
		{"second_repl_offset", strconv.FormatInt(i.SecondReplOffset, 10)},
		{"repl_backlog_active", strconv.Itoa(i.ReplBacklogActive)},
		{"repl_backlog_size", strconv.FormatInt(i.ReplBacklogSize, 10)},
		{"repl_backlog_first_byte_offset", strconv.FormatInt(i.ReplBacklogFirstByteOffset, 10)},
		{"repl_backlog_histlen", strconv.FormatInt(i.ReplBacklogHistlen, 10)},
	}

	lines := make([]string, len(fields))
	for n, f := range fields {
		lines[n] = f.name + ":" + f.value
	}
	return strings.Join(lines, "\r\n")
}
