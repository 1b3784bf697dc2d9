// Package main provides the entry point for rediskv-cli.
//
// rediskv-cli sends single commands to a rediskv server or, without a
// subcommand, starts an interactive session:
//
//	rediskv-cli -s 127.0.0.1:6379 set --px 5000 session abc
//	rediskv-cli get session
//	rediskv-cli -o raw info
//	rediskv-cli repl
package main
