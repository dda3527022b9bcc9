package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gymlog/config"
	"gymlog/logging"
	"gymlog/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "gymlog",
		Short:         "Exercise log web server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides GYMLOG_LOG_LEVEL)")
	root.AddCommand(newServeCmd(&logLevel), newMigrateCmd(&logLevel))
	return root
}

// loadConfig reads the configuration and builds the logger it asks for.
func loadConfig(logLevel string) (*config.Config, zerolog.Logger, error) {
	boot := logging.New("info", "console")
	cfg, err := config.Load(boot)
	if err != nil {
		return nil, boot, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, logging.New(cfg.LogLevel, cfg.LogFormat), nil
}

func newServeCmd(logLevel *string) *cobra.Command {
	var (
		addr    string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*logLevel)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			cfg.LogSummary(log)

			st, err := store.Open(cfg.DSN)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := st.Ping(ctx); err != nil {
				return fmt.Errorf("database unreachable: %w", err)
			}
			if migrate {
				if err := st.Migrate(ctx); err != nil {
					return err
				}
			}
			return newApp(cfg, st, log).run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides GYMLOG_ADDR)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "create missing tables before serving")
	return cmd
}

func newMigrateCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*logLevel)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.DSN)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}
			log.Info().Msg("migration complete")
			return nil
		},
	}
}
