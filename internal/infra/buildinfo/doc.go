// Package buildinfo exposes build information for rediskv binaries.
//
// Version, Commit and BuildTime are injected with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/rediskv-go/internal/infra/buildinfo.Version=v0.1.0 \
//	    -X github.com/yndnr/rediskv-go/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD)"
//
// Both binaries print it for --version and the admin server reports it on /info.
package buildinfo
