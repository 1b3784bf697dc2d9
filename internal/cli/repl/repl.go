package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/yndnr/rediskv-go/internal/cli/connection"
	"github.com/yndnr/rediskv-go/internal/cli/output"
)

// DefaultCommandTimeout bounds a single command.
const DefaultCommandTimeout = 30 * time.Second

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	conns     *connection.Manager
	formatter output.Formatter
	completer *Completer
	history   *History
	timeout   time.Duration
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithFormatter sets the reply formatter.
func WithFormatter(f output.Formatter) Option {
	return func(r *REPL) {
		r.formatter = f
	}
}

// WithHistory sets the command history.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// WithTimeout sets the per-command timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *REPL) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// New creates a REPL sending commands through conns.
func New(conns *connection.Manager, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		conns:     conns,
		formatter: &output.TextFormatter{},
		completer: NewCompleter(),
		history:   NewHistory(""),
		timeout:   DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads commands until EOF, exit or quit, or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: load history: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: save history: %v\n", err)
		}
	}()

	reader := bufio.NewReader(r.input)
	for {
		fmt.Fprint(r.output, r.prompt())

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF

		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				fmt.Fprintln(r.output)
				return nil
			}
			continue
		}

		r.history.Add(line)
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.output, "(error) %v\n", err)
		}
		if eof || ctx.Err() != nil {
			return nil
		}
	}
}

func (r *REPL) prompt() string {
	if c := r.conns.Current(); c != nil && r.conns.IsConnected() {
		return c.Addr() + "> "
	}
	return "not connected> "
}

func (r *REPL) execute(ctx context.Context, line string) error {
	args, err := SplitArgs(line)
	if err != nil {
		return err
	}

	switch strings.ToLower(args[0]) {
	case "help":
		return r.help(args[1:])
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return nil
	case "connect":
		if len(args) != 2 {
			return fmt.Errorf("usage: connect HOST:PORT")
		}
		return r.conns.Connect(ctx, args[1])
	}

	if !r.conns.IsConnected() {
		return fmt.Errorf("not connected; use connect HOST:PORT")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	reply, err := r.conns.Current().DoArgs(ctx, args...)
	if err != nil {
		return err
	}
	return r.formatter.Format(r.output, reply)
}

func (r *REPL) help(args []string) error {
	prefix := strings.Join(args, " ")
	matches := r.completer.Complete(prefix)
	if len(matches) == 0 {
		return fmt.Errorf("no command matches %q", prefix)
	}
	for _, cmd := range matches {
		fmt.Fprintln(r.output, cmd)
	}
	return nil
}
