package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"invest-appointment/internal/config"
	apperr "invest-appointment/internal/errors"
	"invest-appointment/internal/logging"
	"invest-appointment/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.Store
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, commands needing it will fail")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "appoint",
		Short: "Investment appointment maintenance for investment-linked policies",
		Long: `appoint maintains scheduled investment conversion and withdrawal
appointments on investment-linked insurance policies.

An appointment records which investments to sell, and either which
investments to buy (conversion) or where to remit the proceeds
(withdrawal), on a begin date and an optional recurrence.

Use 'appoint help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/invest-appointment)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addAppointmentCommands(rootCmd, app)
	addCoreCommands(rootCmd, app)

	return rootCmd
}

// addAppointmentCommands adds the four maintenance flows.
func addAppointmentCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Add an appointment for a policy's pending transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(cmd); err != nil {
				return err
			}
			return app.runAdd(cmd)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "cancel",
		Short: "Browse active appointments and cancel one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(cmd); err != nil {
				return err
			}
			return app.runCancel(cmd)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "modify",
		Short: "Browse active appointments and modify one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(cmd); err != nil {
				return err
			}
			return app.runModify(cmd)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "query",
		Short: "Browse appointments read-only",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(cmd); err != nil {
				return err
			}
			return app.runQuery(cmd)
		},
	})
}

func (a *App) requireStore(cmd *cobra.Command) error {
	if a.Store != nil {
		return nil
	}
	out := NewOutput(cmd)
	out.Error("database unavailable at %s", a.Config.Database.Path)
	return apperr.ErrDatabaseError
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Investment Appointment v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Business Configuration")
	output.Printf("  Local Currency:  %s\n", cfg.Business.LocalCurrency)
	output.Printf("  Min Buy %%:       %d\n", cfg.Business.MinBuyPercent)
	output.Printf("  Auth Code:       %s (level %d)\n", cfg.Business.AuthCode, cfg.Business.AuthLevel)
	output.Println()

	output.Bold("Database")
	output.Printf("  Path:            %s\n", cfg.Database.Path)
	output.Println()

	output.Bold("Operator")
	output.Printf("  User ID:         %s\n", cfg.Operator.UserID)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %s\n", cfg.Logging.FilePath)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)

	return nil
}
