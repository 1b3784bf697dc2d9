package replication

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/yndnr/rediskv-go/internal/protocol/command"
)

// ReplicaIDLength is the number of hex characters in a replica id.
const ReplicaIDLength = 40

// GenerateReplicaID returns a random 40 character hex identifier.
func GenerateReplicaID() (string, error) {
	buf := make([]byte, ReplicaIDLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Role is the replication role of a server. The zero value is a master.
type Role struct {
	masterHost string
	masterPort int
}

// Master returns the master role.
func Master() Role {
	return Role{}
}

// ReplicaOf returns the role of a replica following host:port.
func ReplicaOf(host string, port int) Role {
	return Role{masterHost: host, masterPort: port}
}

// ParseReplicaOf parses the "host port" form used by --replicaof. An empty
// string yields the master role.
func ParseReplicaOf(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Master(), nil
	}

	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Role{}, fmt.Errorf("replicaof %q: want \"host port\"", s)
	}
	port, err := strconv.Atoi(fields[1])
	if err != nil || port < 1 || port > 65535 {
		return Role{}, fmt.Errorf("replicaof %q: invalid port %q", s, fields[1])
	}
	return ReplicaOf(fields[0], port), nil
}

// IsReplica reports whether the role follows a master.
func (r Role) IsReplica() bool {
	return r.masterHost != ""
}

// Name returns the role name reported by INFO.
func (r Role) Name() string {
	if r.IsReplica() {
		return command.RoleSlave
	}
	return command.RoleMaster
}

// MasterAddr returns the master's host:port, or "" for a master.
func (r Role) MasterAddr() string {
	if !r.IsReplica() {
		return ""
	}
	return net.JoinHostPort(r.masterHost, strconv.Itoa(r.masterPort))
}

// String implements fmt.Stringer.
func (r Role) String() string {
	if r.IsReplica() {
		return r.Name() + " of " + r.MasterAddr()
	}
	return r.Name()
}

// Info returns the replication section reported for a server with the
// given id and role. Offsets and backlog fields are fixed placeholders.
func Info(replicaID string, role Role) command.ReplicationInfo {
	return command.ReplicationInfo{
		Role:                       role.Name(),
		ConnectedSlaves:            0,
		MasterReplID:               replicaID,
		MasterReplOffset:           0,
		SecondReplOffset:           -1,
		ReplBacklogActive:          0,
		ReplBacklogSize:            command.DefaultBacklogSize,
		ReplBacklogFirstByteOffset: 0,
		ReplBacklogHistlen:         0,
	}
}
