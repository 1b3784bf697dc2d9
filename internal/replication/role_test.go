package replication

import (
	"encoding/hex"
	"testing"

	"github.com/yndnr/rediskv-go/internal/protocol/command"
)

func TestGenerateReplicaID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateReplicaID()
		if err != nil {
			t.Fatalf("GenerateReplicaID: %v", err)
		}
		if len(id) != ReplicaIDLength {
			t.Fatalf("len(id) = %d, want %d", len(id), ReplicaIDLength)
		}
		if _, err := hex.DecodeString(id); err != nil {
			t.Fatalf("id %q is not hex: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestParseReplicaOf(t *testing.T) {
	tests := []struct {
		in      string
		replica bool
		addr    string
		wantErr bool
	}{
		{in: "", replica: false},
		{in: "   ", replica: false},
		{in: "localhost 6379", replica: true, addr: "localhost:6379"},
		{in: "  10.0.0.1   7000 ", replica: true, addr: "10.0.0.1:7000"},
		{in: "::1 6380", replica: true, addr: "[::1]:6380"},
		{in: "localhost", wantErr: true},
		{in: "localhost:6379", wantErr: true},
		{in: "localhost abc", wantErr: true},
		{in: "localhost 0", wantErr: true},
		{in: "localhost 70000", wantErr: true},
		{in: "a b c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			role, err := ParseReplicaOf(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseReplicaOf(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if role.IsReplica() != tt.replica {
				t.Errorf("IsReplica() = %v, want %v", role.IsReplica(), tt.replica)
			}
			if role.MasterAddr() != tt.addr {
				t.Errorf("MasterAddr() = %q, want %q", role.MasterAddr(), tt.addr)
			}
		})
	}
}

func TestRole_Name(t *testing.T) {
	if got := Master().Name(); got != command.RoleMaster {
		t.Errorf("Master().Name() = %q", got)
	}
	if got := ReplicaOf("h", 1).Name(); got != command.RoleSlave {
		t.Errorf("ReplicaOf().Name() = %q", got)
	}
	if got := ReplicaOf("h", 1).String(); got != "slave of h:1" {
		t.Errorf("String() = %q", got)
	}
	var zero Role
	if zero.IsReplica() {
		t.Error("zero Role should be master")
	}
}

func TestInfo(t *testing.T) {
	id := "0123456789abcdef0123456789abcdef01234567"
	info := Info(id, Master())

	want := "role:master\r\n" +
		"connected_slaves:0\r\n" +
		"master_replid:" + id + "\r\n" +
		"master_repl_offset:0\r\n" +
		"second_repl_offset:-1\r\n" +
		"repl_backlog_active:0\r\n" +
		"repl_backlog_size:1048576\r\n" +
		"repl_backlog_first_byte_offset:0\r\n" +
		"repl_backlog_histlen:0"
	if got := info.String(); got != want {
		t.Errorf("Info().String() =\n%q\nwant\n%q", got, want)
	}

	if got := Info(id, ReplicaOf("m", 6379)).Role; got != "slave" {
		t.Errorf("replica role = %q, want slave", got)
	}
}
