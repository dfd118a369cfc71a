// Package main is the entry point for the Tripcraft API. It wires dependencies
// and starts the server or runs an operator command. No business logic
// belongs here.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("tripcraft failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "tripcraft",
		Usage:   "Travel planning API server",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			tokenCmd(),
		},
		// Running the binary with no command starts the server.
		Action: func(c *cli.Context) error {
			return serve(c.Context, false)
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "Apply pending migrations before serving"},
		},
		Action: func(c *cli.Context) error {
			return serve(c.Context, c.Bool("migrate"))
		},
	}
}

func tokenCmd() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue a bearer token for a user id (development only)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Required: true, Usage: "User UUID"},
		},
		Action: func(c *cli.Context) error {
			tok, err := issueToken(c.String("user"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, tok)
			return err
		},
	}
}
