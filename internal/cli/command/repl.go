package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rediskv-go/internal/cli/connection"
	"github.com/yndnr/rediskv-go/internal/cli/output"
	"github.com/yndnr/rediskv-go/internal/cli/repl"
)

// ReplCommand returns the repl command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start an interactive session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file; empty disables persistence",
				Value: repl.DefaultHistoryPath(),
			},
		},
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	conns := connection.NewManager(flags.Timeout)
	defer conns.Disconnect()
	if err := conns.Connect(c.Context, flags.Server); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", err)
	}

	historyFile := repl.DefaultHistoryPath()
	if c.IsSet("history") {
		historyFile = c.String("history")
	}

	r := repl.New(conns,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithFormatter(output.NewFormatter(flags.Output)),
		repl.WithHistory(repl.NewHistory(historyFile)),
		repl.WithTimeout(flags.Timeout))
	return r.Run(c.Context)
}
