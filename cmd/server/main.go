package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/courtside/internal/config"
	"github.com/iudanet/courtside/internal/logging"
	"github.com/iudanet/courtside/internal/server"
	"github.com/iudanet/courtside/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configFile  string
		showVersion bool
	)

	cmd := &cobra.Command{
		Use:   "courtside-upstream",
		Short: "Reference upstream for the courtside agent",
		Long: `Reference upstream server.

Serves /api/<collection>[/<id>] for games, shots, events, substitutions,
teams and players, stores documents in SQLite and honours Idempotency-Key,
X-CSRF-Token and bearer tokens the way the agent expects.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion(cmd)
				return nil
			}

			cfg, err := config.LoadUpstream(configFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger, closer, err := logging.New(cfg.Log.Logging(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := sqlite.New(ctx, cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Error("Failed to close database", "error", err)
				}
			}()

			logger.Info("Starting upstream", "version", Version, "db", cfg.DBPath)

			srv := server.New(cfg, store, logger)
			defer srv.Stop()

			return srv.Run(ctx, cfg.Listen)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default ./courtside-upstream.yaml)")
	flags.BoolVar(&showVersion, "version", false, "show version information")
	flags.String("listen", "", "listen address (upstream.listen)")
	flags.String("db", "", "path to the SQLite database (upstream.db_path)")
	flags.String("jwt-secret", "", "HS256 secret, at least 32 characters (upstream.jwt_secret)")
	flags.Bool("dev-tokens", false, "enable POST /api/v1/auth/dev-token (upstream.dev_tokens)")
	flags.String("log-level", "", "log level: debug, info, warn, error (upstream.log.level)")
	flags.String("log-format", "", "log format: text or json (upstream.log.format)")
	flags.String("log-file", "", "write logs to a rotated file (upstream.log.file)")

	return cmd
}

func printVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Courtside Upstream\n")
	fmt.Fprintf(out, "Version:    %s\n", Version)
	fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
}
