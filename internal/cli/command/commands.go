package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rediskv-go/internal/protocol/command"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the server is alive",
		Action: func(c *cli.Context) error {
			if c.NArg() != 0 {
				return fmt.Errorf("ping takes no arguments")
			}
			return run(c, command.Ping{})
		},
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Ask the server to echo a message",
		ArgsUsage: "MESSAGE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("echo requires exactly one MESSAGE")
			}
			return run(c, command.Echo{Message: c.Args().First()})
		},
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Read the value of a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("get requires exactly one KEY")
			}
			return run(c, command.Get{Key: c.Args().First()})
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a value, optionally expiring it",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "px",
				Usage: "Expire the key after this many milliseconds",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("set requires KEY and VALUE")
			}
			req := command.Set{Key: c.Args().Get(0), Value: c.Args().Get(1)}
			if c.IsSet("px") {
				px := c.Int64("px")
				if px <= 0 {
					return fmt.Errorf("--px must be positive")
				}
				req.TTL = time.Duration(px) * time.Millisecond
			}
			return run(c, req)
		},
	}
}

// InfoCommand returns the info command.
func InfoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show the replication section of INFO",
		ArgsUsage: "[replication]",
		Action: func(c *cli.Context) error {
			if section := c.Args().First(); c.NArg() > 1 || (section != "" && !strings.EqualFold(section, "replication")) {
				return fmt.Errorf("only the replication section is supported")
			}
			return run(c, command.InfoReplication{})
		},
	}
}

// DocsCommand returns the docs command.
func DocsCommand() *cli.Command {
	return &cli.Command{
		Name:  "docs",
		Usage: "Show COMMAND DOCS",
		Action: func(c *cli.Context) error {
			return run(c, command.CommandDocs{})
		},
	}
}
