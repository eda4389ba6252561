// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/chatledger/internal/config"
	"fjacquet/chatledger/internal/container"
	"fjacquet/chatledger/internal/logging"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	Ledger     string
	Categories string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.NewLogrusAdapter("info", "text")

	// AppContainer holds the wired dependencies once PersistentPreRunE ran
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "chatledger",
		Short: "A CLI tool to turn chat messages about money into ledger records.",
		Long: `chatledger extracts the amount, direction, category and description from
free-text Russian chat messages such as "потратил 500 руб на продукты",
scores how confident the extraction is and appends confident records to a
CSV ledger.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to chatledger!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv(Log)

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			return Setup(cfg)
		},
	}

	// SharedFlags are the flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Ledger, "ledger", "l", "", "Ledger CSV file (overrides ledger.file)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Categories, "categories", "c", "", "Category taxonomy YAML file (overrides categories.file)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (overrides log.level)")
}

// Setup applies the command line overrides to cfg and builds the container
// used by the subcommands.
func Setup(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if SharedFlags.Ledger != "" {
		cfg.Ledger.File = SharedFlags.Ledger
	}
	if SharedFlags.Categories != "" {
		cfg.Categories.File = SharedFlags.Categories
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// GetContainer returns the application container, or an error when the
// root command has not been set up.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return AppContainer, nil
}

// Context returns the command context, falling back to a background
// context for commands run outside Execute.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
