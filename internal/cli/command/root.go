package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rediskv-go/internal/cli/connection"
	"github.com/yndnr/rediskv-go/internal/cli/output"
	"github.com/yndnr/rediskv-go/internal/infra/buildinfo"
	"github.com/yndnr/rediskv-go/internal/protocol/command"
)

// DefaultServer is the server address used when none is given.
const DefaultServer = "127.0.0.1:6379"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "rediskv-cli",
		Usage:   "command-line client for rediskv-server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			GetCommand(),
			SetCommand(),
			InfoCommand(),
			DocsCommand(),
			ReplCommand(),
		},
		Action: func(c *cli.Context) error {
			return replAction(c)
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "Server address (host:port)",
			EnvVars: []string{"REDISKV_CLI_SERVER"},
			Value:   DefaultServer,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Connect and command timeout",
			Value:   5 * time.Second,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, raw, json",
			Value:   string(output.FormatText),
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Timeout time.Duration
	Output  output.Format
}

// ParseGlobalFlags extracts and validates global flags.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	return &GlobalFlags{
		Server:  c.String("server"),
		Timeout: c.Duration("timeout"),
		Output:  format,
	}, nil
}

// run connects to the server, sends req and prints the reply.
func run(c *cli.Context, req command.Request) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, flags.Timeout)
	defer cancel()

	client, err := connection.Dial(ctx, flags.Server, flags.Timeout)
	if err != nil {
		return err
	}
	defer client.Close()

	reply, err := client.Request(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", req.Name(), err)
	}
	return output.NewFormatter(flags.Output).Format(c.App.Writer, reply)
}
