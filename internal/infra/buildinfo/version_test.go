package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	tests := []struct {
		name  string
		value string
	}{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"BuildTime", info.BuildTime},
		{"GoVersion", info.GoVersion},
		{"Platform", info.Platform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s should not be empty", tt.name)
			}
		})
	}
}

func TestGet_GoVersion(t *testing.T) {
	prev := GoVersion
	defer func() { GoVersion = prev }()

	GoVersion = ""
	if got := Get().GoVersion; got != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", got, runtime.Version())
	}

	GoVersion = "go1.0"
	if got := Get().GoVersion; got != "go1.0" {
		t.Errorf("GoVersion = %q, want go1.0", got)
	}
}

func TestString(t *testing.T) {
	prevVersion, prevCommit := Version, Commit
	defer func() { Version, Commit = prevVersion, prevCommit }()

	Version, Commit = "v1.2.3", "abc123"
	s := String()
	if !strings.HasPrefix(s, "v1.2.3 (abc123) built at ") {
		t.Errorf("String() = %q", s)
	}
}
