// Package cli is the courtside command line: it runs the agent and talks
// to a running agent over its local endpoints.
package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/courtside/internal/client/api"
	"github.com/iudanet/courtside/internal/client/iocli"
	"github.com/iudanet/courtside/internal/config"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

// Форматы вывода
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON}

//go:generate moq -out issuer_mock.go . TokenIssuer

// TokenIssuer issues development tokens on the upstream
type TokenIssuer interface {
	IssueDevToken(ctx context.Context, req pkgapi.DevTokenRequest) (*pkgapi.TokenResponse, error)
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	AgentURL   string
	Format     string
	NoColor    bool
}

// Deps are the collaborators of the commands. Nil fields get the real ones.
type Deps struct {
	IO       iocli.IO
	Agent    func(baseURL string) AgentAPI
	Upstream func(baseURL string) TokenIssuer
	Version  pkgapi.VersionResponse
}

type app struct {
	deps Deps
	opts *RootOptions
}

// NewRootCommand creates the root command of the courtside CLI.
func NewRootCommand(deps Deps) *cobra.Command {
	if deps.IO == nil {
		deps.IO = iocli.NewStdio(os.Stdin, os.Stderr)
	}
	if deps.Agent == nil {
		deps.Agent = func(baseURL string) AgentAPI { return NewAgentClient(baseURL) }
	}
	if deps.Upstream == nil {
		deps.Upstream = func(baseURL string) TokenIssuer { return api.NewClient(baseURL) }
	}

	a := &app{deps: deps, opts: &RootOptions{}}

	cmd := &cobra.Command{
		Use:   "courtside",
		Short: "Courtside offline agent",
		Long: `Courtside keeps the scoring pages working without a network.

The agent proxies the pages to the statistics backend, caches what they
read and queues what they write while offline. The other commands talk
to a running agent.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, a.opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", a.opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.opts.ConfigFile, "config", "", "config file (default ./courtside.yaml or $HOME/.courtside/courtside.yaml)")
	cmd.PersistentFlags().StringVar(&a.opts.AgentURL, "agent", "", "agent address (default derived from agent.listen)")
	cmd.PersistentFlags().StringVar(&a.opts.Format, "format", FormatText, "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&a.opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		a.newAgentCommand(),
		a.newStatusCommand(),
		a.newSyncCommand(),
		a.newQueueCommand(),
		a.newCacheCommand(),
		a.newAuthCommand(),
		a.newVersionCommand(),
	)

	return cmd
}

// agent возвращает клиент агента: адрес из --agent или из agent.listen
func (a *app) agent() (AgentAPI, error) {
	if a.opts.AgentURL != "" {
		return a.deps.Agent(a.opts.AgentURL), nil
	}

	loader, err := config.NewLoader(a.opts.ConfigFile, nil)
	if err != nil {
		return nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	return a.deps.Agent(ListenURL(cfg.Agent.Listen)), nil
}

// ListenURL converts a listen address into the URL clients dial
func ListenURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func (a *app) printer(cmd *cobra.Command) *Printer {
	return NewPrinter(cmd.OutOrStdout(), a.opts.NoColor)
}

func (a *app) jsonOutput() bool {
	return strings.EqualFold(a.opts.Format, FormatJSON)
}
