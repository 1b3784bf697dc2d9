package repl

import (
	"sort"
	"strings"
)

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer for the server commands and the REPL
// built-ins.
func NewCompleter() *Completer {
	commands := []string{
		"PING", "ECHO", "GET", "SET", "COMMAND DOCS", "INFO REPLICATION",
		"connect", "help", "history", "exit", "quit",
	}
	sort.Strings(commands)
	return &Completer{commands: commands}
}

// Complete returns the commands starting with prefix, ignoring case.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	prefix = strings.ToUpper(prefix)
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToUpper(cmd), prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
