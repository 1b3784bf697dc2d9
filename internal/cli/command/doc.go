// Package command provides the rediskv-cli commands.
//
//   - root.go: the application, global flags and shared helpers
//   - commands.go: one subcommand per server command
//   - repl.go: the interactive mode
//
// Commands connect, send one request, print the reply with the selected
// formatter and close the connection.
package command
