package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v2"

	"github.com/tripcraft/tripcraft/internal/config"
	"github.com/tripcraft/tripcraft/migrations"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply every pending migration",
				Action: func(c *cli.Context) error {
					return withProvider(func(p *goose.Provider) error {
						results, err := p.Up(c.Context)
						printResults(c.App.Writer, results)
						return err
					})
				},
			},
			{
				Name:  "down",
				Usage: "Roll back the most recent migration",
				Action: func(c *cli.Context) error {
					return withProvider(func(p *goose.Provider) error {
						res, err := p.Down(c.Context)
						if res != nil {
							printResults(c.App.Writer, []*goose.MigrationResult{res})
						}
						return err
					})
				},
			},
			{
				Name:  "status",
				Usage: "List migrations and whether they are applied",
				Action: func(c *cli.Context) error {
					return withProvider(func(p *goose.Provider) error {
						statuses, err := p.Status(c.Context)
						if err != nil {
							return err
						}
						tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
						fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
						for _, s := range statuses {
							applied := "-"
							if !s.AppliedAt.IsZero() {
								applied = s.AppliedAt.Format(time.RFC3339)
							}
							fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
						}
						return tw.Flush()
					})
				},
			},
		},
	}
}

// withProvider opens a database/sql handle from DATABASE_URL and runs fn
// with a goose provider over the embedded migrations.
func withProvider(fn func(p *goose.Provider) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	p, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}
	return fn(p)
}

// migrateUp applies pending migrations for serve --migrate and reports how
// many ran.
func migrateUp(ctx context.Context, dsn string) (int, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	p, err := migrations.NewProvider(db)
	if err != nil {
		return 0, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("migrate up: %w", err)
	}
	return len(results), nil
}

func printResults(w io.Writer, results []*goose.MigrationResult) {
	for _, r := range results {
		status := "OK"
		if r.Error != nil {
			status = "FAILED: " + r.Error.Error()
		}
		fmt.Fprintf(w, "%-6s %s (%s) %s\n", r.Direction, r.Source.Path, r.Duration.Round(time.Millisecond), status)
	}
}
