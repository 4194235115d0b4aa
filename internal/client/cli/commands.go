package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/courtside/internal/config"
	"github.com/iudanet/courtside/internal/validation"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

func (a *app) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pending changes, failures and connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.agent()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			p := a.printer(cmd)
			if a.jsonOutput() {
				return p.JSON(status)
			}
			p.Status(status)
			return nil
		},
	}
}

func (a *app) newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay queued changes now",
		Long: `Replay queued changes now, ignoring backoff and a paused session.
Transient failures stop the cycle; the change stays queued.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.agent()
			if err != nil {
				return err
			}
			result, err := client.Sync(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			p := a.printer(cmd)
			if a.jsonOutput() {
				return p.JSON(result)
			}
			p.SyncResult(result)
			return nil
		},
	}
}

func (a *app) newQueueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage queued changes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every queued change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.agent()
			if err != nil {
				return err
			}
			items, err := client.Queue(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list queue: %w", err)
			}

			p := a.printer(cmd)
			if a.jsonOutput() {
				return p.JSON(items)
			}
			p.Queue(items)
			return nil
		},
	}

	retry := &cobra.Command{
		Use:   "retry <id>",
		Short: "Return a failed change to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.agent()
			if err != nil {
				return err
			}
			item, err := client.Retry(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to retry %s: %w", args[0], err)
			}

			p := a.printer(cmd)
			if a.jsonOutput() {
				return p.JSON(item)
			}
			p.QueueItem("Requeued", item)
			return nil
		},
	}

	dismiss := &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Delete a failed change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.agent()
			if err != nil {
				return err
			}
			if err := client.Dismiss(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to dismiss %s: %w", args[0], err)
			}
			a.printer(cmd).Message("Dismissed %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, retry, dismiss)
	return cmd
}

func (a *app) newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response caches",
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty every cache and cached entity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := pkgapi.NewMessage(pkgapi.MessageClearCaches, nil)
			if err != nil {
				return err
			}
			return a.control(cmd, msg, "Caches cleared")
		},
	}

	activate := &cobra.Command{
		Use:   "activate <version>",
		Short: "Activate a new cache version and drop older cached responses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateCacheVersion(args[0]); err != nil {
				return err
			}
			msg, err := pkgapi.NewMessage(pkgapi.MessageActivateVersion, pkgapi.ActivateVersionData{Version: args[0]})
			if err != nil {
				return err
			}
			return a.control(cmd, msg, "Cache version "+args[0]+" activated")
		},
	}

	cmd.AddCommand(clearCmd, activate)
	return cmd
}

// control отправляет управляющее сообщение так же, как это делает страница
func (a *app) control(cmd *cobra.Command, msg pkgapi.Message, done string) error {
	client, err := a.agent()
	if err != nil {
		return err
	}
	reply, err := client.Control(cmd.Context(), msg)
	if err != nil {
		return fmt.Errorf("%s failed: %w", msg.Type, err)
	}

	p := a.printer(cmd)
	if a.jsonOutput() {
		return p.JSON(reply)
	}
	p.Message("%s", done)
	return nil
}

func (a *app) newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token used to replay changes",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.agent()
			if err != nil {
				return err
			}
			info, err := client.Session(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read session: %w", err)
			}
			return a.printSession(cmd, info)
		},
	}

	setToken := &cobra.Command{
		Use:   "set-token [token]",
		Short: "Store a bearer token and resume a paused sync",
		Long: `Store a bearer token and resume a paused sync.

Without an argument the token is read from standard input, hidden when
typed on a terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				var err error
				if token, err = a.deps.IO.ReadSecret("Bearer token: "); err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
			}
			if strings.TrimSpace(token) == "" {
				return errors.New("token cannot be empty")
			}

			client, err := a.agent()
			if err != nil {
				return err
			}
			info, err := client.SetToken(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}
			return a.printSession(cmd, info)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.agent()
			if err != nil {
				return err
			}
			if err := client.ClearSession(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			a.printer(cmd).Message("Session cleared")
			return nil
		},
	}

	cmd.AddCommand(show, setToken, clearCmd, a.newDevTokenCommand())
	return cmd
}

// newDevTokenCommand получает токен у upstream в dev режиме и передает его агенту
func (a *app) newDevTokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dev-token",
		Short: "Issue a development token on the upstream and store it",
		Long: `Issue a development token on the upstream and store it in the agent.
Works only against an upstream started with --dev-tokens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				var err error
				if subject, err = a.deps.IO.ReadInput("Subject: "); err != nil {
					return fmt.Errorf("failed to read subject: %w", err)
				}
			}
			if err := validation.ValidateSubject(subject); err != nil {
				return err
			}

			loader, err := config.NewLoader(a.opts.ConfigFile, cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := loader.Load()
			if err != nil {
				return err
			}

			token, err := a.deps.Upstream(cfg.Server.URL).IssueDevToken(cmd.Context(), pkgapi.DevTokenRequest{
				Subject:    subject,
				TTLSeconds: int64(ttl / time.Second),
			})
			if err != nil {
				return err
			}

			client := a.deps.Agent(ListenURL(cfg.Agent.Listen))
			if a.opts.AgentURL != "" {
				client = a.deps.Agent(a.opts.AgentURL)
			}
			info, err := client.SetToken(cmd.Context(), token.AccessToken)
			if err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}
			return a.printSession(cmd, info)
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject (user name)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: server setting)")
	cmd.Flags().String("server", "", "upstream URL (server.url)")
	return cmd
}

func (a *app) printSession(cmd *cobra.Command, info *pkgapi.SessionInfo) error {
	p := a.printer(cmd)
	if a.jsonOutput() {
		return p.JSON(info)
	}
	p.Session(info)
	return nil
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show client and agent versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var agentVersion *pkgapi.VersionResponse
			if client, err := a.agent(); err == nil {
				// Агент может быть не запущен - это не ошибка
				agentVersion, _ = client.Version(cmd.Context())
			}

			p := a.printer(cmd)
			if a.jsonOutput() {
				return p.JSON(map[string]any{"client": a.deps.Version, "agent": agentVersion})
			}
			p.Version(a.deps.Version, agentVersion)
			return nil
		},
	}
}
