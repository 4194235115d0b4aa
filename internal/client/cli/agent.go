package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/courtside/internal/client/agent"
	"github.com/iudanet/courtside/internal/config"
	"github.com/iudanet/courtside/internal/logging"
)

func (a *app) newAgentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run the local agent",
		Long: `Run the local agent in the foreground.

The agent listens on agent.listen, proxies every request to server.url and
keeps the durable queue in agent.db_path. Pages and the other commands
connect to it. Changing cache.version in the config file activates the new
cache version without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := config.NewLoader(a.opts.ConfigFile, cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := loader.Load()
			if err != nil {
				return err
			}

			logger, closer, err := logging.New(cfg.Log.Logging(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			if used := loader.ConfigFileUsed(); used != "" {
				logger.Info("Config loaded", "file", used)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ag, err := agent.New(ctx, cfg, agent.Options{
				Watcher: loader,
				Logger:  logger,
				Version: a.deps.Version,
			})
			if err != nil {
				return fmt.Errorf("failed to start agent: %w", err)
			}
			defer func() {
				if err := ag.Close(); err != nil {
					logger.Error("Failed to close database", "error", err)
				}
			}()

			return ag.Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("server", "", "upstream URL (server.url)")
	flags.String("db", "", "path to the local database (agent.db_path)")
	flags.String("listen", "", "listen address (agent.listen)")
	flags.String("log-level", "", "log level: debug, info, warn, error (log.level)")
	flags.String("log-format", "", "log format: text or json (log.format)")
	flags.String("log-file", "", "write logs to a rotated file (log.file)")

	return cmd
}
