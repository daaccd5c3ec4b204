package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/Black-And-White-Club/meishu/config"
	"github.com/Black-And-White-Club/meishu/db/bundb"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "manage meishu database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"MEISHU_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newMigrateCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withMigrators opens the database named by --config and hands the module
// migrators to fn in a stable order.
func withMigrators(c *cli.Context, fn func(module string, m *migrate.Migrator) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := bundb.Open(c.Context, cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()

	migrators := bundb.Migrators(db)
	modules := make([]string, 0, len(migrators))
	for name := range migrators {
		modules = append(modules, name)
	}
	sort.Strings(modules)

	for _, name := range modules {
		if err := fn(name, migrators[name]); err != nil {
			return fmt.Errorf("module %s: %w", name, err)
		}
	}
	return nil
}

// withModule is withMigrators restricted to a single named module.
func withModule(c *cli.Context, module string, fn func(module string, m *migrate.Migrator) error) error {
	found := false
	err := withMigrators(c, func(name string, m *migrate.Migrator) error {
		if name != module {
			return nil
		}
		found = true
		return fn(name, m)
	})
	if err == nil && !found {
		return fmt.Errorf("invalid module name: %q", module)
	}
	return err
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(module string, m *migrate.Migrator) error {
						fmt.Printf("Initializing migrations for module: %s\n", module)
						return m.Init(c.Context)
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(module string, m *migrate.Migrator) error {
						if err := m.Lock(c.Context); err != nil {
							return err
						}
						defer m.Unlock(c.Context)

						group, err := m.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", module)
							return nil
						}
						fmt.Printf("Migrated module: %s to %s\n", module, group)
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(module string, m *migrate.Migrator) error {
						if err := m.Lock(c.Context); err != nil {
							return err
						}
						defer m.Unlock(c.Context)

						group, err := m.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", module)
							return nil
						}
						fmt.Printf("Rolled back module: %s from %s\n", module, group)
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create a Go migration",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					module, name := c.Args().First(), strings.Join(c.Args().Tail(), "_")
					return withModule(c, module, func(m string, migrator *migrate.Migrator) error {
						mf, err := migrator.CreateGoMigration(c.Context, name)
						if err != nil {
							return err
						}
						fmt.Printf("Created migration for module %s: %s (%s)\n", m, mf.Name, mf.Path)
						return nil
					})
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					module, name := c.Args().First(), strings.Join(c.Args().Tail(), "_")
					return withModule(c, module, func(m string, migrator *migrate.Migrator) error {
						files, err := migrator.CreateSQLMigrations(c.Context, name)
						if err != nil {
							return err
						}
						for _, mf := range files {
							fmt.Printf("Created migration for module %s: %s (%s)\n", m, mf.Name, mf.Path)
						}
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migration status",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(module string, m *migrate.Migrator) error {
						ms, err := m.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", module)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						fmt.Printf("  Last group: %s\n", ms.LastGroup())
						return nil
					})
				},
			},
		},
	}
}
