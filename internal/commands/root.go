package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-validator/internal/buildinfo"
	"github.com/insightdelivered/statement-validator/internal/config"
	"github.com/insightdelivered/statement-validator/internal/logger"
)

// globals is filled in by the root command before any subcommand runs.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "statement-validator",
		Short:   "Extract and reconcile bank statement transactions",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		Long: `statement-validator reads scanned bank statements, pulls out the
transaction lines, classifies each one as debit or credit from the running
balance and flags every line whose balance does not add up.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return g.load(cmd)
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "log format (console, json)")

	rootCmd.AddCommand(newInitCommand(g))
	rootCmd.AddCommand(newProcessCommand(g))
	rootCmd.AddCommand(newValidateCommand(g))
	rootCmd.AddCommand(newServeCommand(g))

	return rootCmd
}

func (g *globals) load(cmd *cobra.Command) error {
	// init writes the config file, so it must not require a valid one.
	if cmd.Name() == "init" {
		g.cfg = config.Default()
	} else {
		cfg, err := config.LoadWithEnv(g.configPath)
		if err != nil {
			return err
		}
		g.cfg = cfg
	}

	if g.logLevel != "" {
		g.cfg.Logging.Level = g.logLevel
	}
	if g.logFormat != "" {
		g.cfg.Logging.Format = g.logFormat
	}
	g.log = logger.New(cmd.ErrOrStderr(), g.cfg.Logging.Level, g.cfg.Logging.Format)
	cmd.SetContext(logger.WithContext(cmd.Context(), g.log))
	return nil
}
