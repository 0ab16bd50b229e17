package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/cli/backups"
	"github.com/julianstephens/habitgrid/internal/cli/data"
	"github.com/julianstephens/habitgrid/internal/cli/habits"
	"github.com/julianstephens/habitgrid/internal/cli/settings"
	"github.com/julianstephens/habitgrid/internal/cli/system"
	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/logger"
)

var CLI struct {
	Version    kong.VersionFlag
	DB         string `name:"db" help:"SQLite database path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use the environment, .pgpass, or the OS keyring instead." type:"string"`
	ConfigFile string `name:"config-file" help:"Path to config.toml." type:"path"`
	Debug      bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize habitgrid storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Serve    system.ServeCmd      `cmd:"" help:"Serve the JSON API over HTTP."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and completions."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Export   data.ExportCmd       `cmd:"" help:"Export habits and completions to YAML or JSON."`
	Import   data.ImportCmd       `cmd:"" help:"Import habits and completions from an export file."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Config   system.ConfigCmd     `cmd:"" help:"Manage the config file."`
}

// selfLoading commands open (or create) the store on their own terms.
var selfLoading = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"config":  true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks and yearly heatmaps"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":       constants.Version,
			"default_color": constants.DefaultHabitColor,
		},
	)

	cfg, err := config.Load(CLI.ConfigFile)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if CLI.DB != "" {
		cfg.Database = CLI.DB
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.LogDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logger.Debug("Starting", "version", constants.Version, "command", ctx.Command())

	store, err := cli.ResolveStore(cfg.Database, CLI.DB != "")
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		ConfigFile: CLI.ConfigFile,
	}

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && !selfLoading[command[0]] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
		if n := appCtx.SweepExpiredHabits(); n > 0 {
			logger.Info("Purged expired archived habits", "count", n)
		}
	}

	err = ctx.Run(appCtx)
	store.Close()
	errors.Fatal(err)
}
