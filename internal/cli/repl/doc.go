// Package repl provides the interactive mode of rediskv-cli.
//
//   - repl.go: read-eval-print loop and built-in commands
//   - args.go: splitting input lines into arguments with quoting
//   - completer.go: command name completion used by help
//   - history.go: command history persistence
package repl
