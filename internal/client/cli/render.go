package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	pkgapi "github.com/iudanet/courtside/pkg/api"
)

// Printer renders agent state for a terminal. Colors are used only when
// the writer is a color-capable terminal.
type Printer struct {
	w       io.Writer
	title   lipgloss.Style
	good    lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
	muted   lipgloss.Style
	heading lipgloss.Style
}

// NewPrinter creates a printer for w
func NewPrinter(w io.Writer, noColor bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		w:       w,
		title:   r.NewStyle().Bold(true),
		good:    r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		bad:     r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		muted:   r.NewStyle().Faint(true),
		heading: r.NewStyle().Bold(true).Underline(true),
	}
}

func (p *Printer) line(format string, a ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) field(label, value string) {
	p.line("  %-13s %s", label+":", value)
}

// JSON prints v as indented JSON
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}

// Status renders the status surface
func (p *Printer) Status(status *pkgapi.StatusResponse) {
	p.line("%s", p.title.Render("Courtside agent"))

	if status.Online {
		p.field("Connection", p.good.Render("online"))
	} else {
		p.field("Connection", p.warn.Render("offline"))
	}

	if status.IsSyncing {
		p.field("Sync", p.good.Render("syncing"))
	} else {
		p.field("Sync", "idle")
	}

	if status.PendingCount == 0 {
		p.field("Pending", p.good.Render("all changes saved to the server"))
	} else {
		p.field("Pending", p.warn.Render(fmt.Sprintf("%d change(s) waiting", status.PendingCount)))
	}

	p.field("Last sync", formatTime(status.LastSyncAt))
	if status.NextAttemptAt != nil {
		p.field("Next attempt", formatTime(status.NextAttemptAt))
	}
	if status.CacheGeneration != "" {
		p.field("Cache", "version "+status.CacheGeneration)
	}
	if status.AuthPaused {
		p.field("Auth", p.bad.Render("sign-in expired, run 'courtside auth set-token'"))
	}
	if status.LastError != "" {
		p.field("Last error", p.bad.Render(status.LastError))
	}

	if len(status.Failed) == 0 {
		return
	}

	p.line("")
	p.line("%s", p.heading.Render(fmt.Sprintf("Failed changes (%d)", len(status.Failed))))
	for _, f := range status.Failed {
		p.line("  %s  %s %s", f.ID, f.Method, f.ResourcePath)
		p.line("    %s", p.muted.Render("failed "+formatTime(f.FailedAt)+": "+f.Error))
	}
	p.line("")
	p.line("%s", p.muted.Render("Retry with 'courtside queue retry <id>' or remove with 'courtside queue dismiss <id>'."))
}

// SyncResult renders the outcome of a drain cycle
func (p *Printer) SyncResult(result *pkgapi.SyncResult) {
	switch {
	case result.Skipped:
		p.line("%s", p.warn.Render("Sync skipped: "+result.Error))
		return
	case result.Stopped:
		p.line("%s", p.warn.Render("Sync stopped: "+result.Error))
	case result.Failed > 0:
		p.line("%s", p.bad.Render("Sync finished with failures"))
	default:
		p.line("%s", p.good.Render("✓ Sync finished"))
	}

	p.field("Attempted", fmt.Sprint(result.Attempted))
	p.field("Synced", fmt.Sprint(result.Synced))
	p.field("Failed", fmt.Sprint(result.Failed))
	if result.Purged > 0 {
		p.field("Purged", fmt.Sprint(result.Purged))
	}
}

// Queue renders queued actions as a table
func (p *Printer) Queue(items []pkgapi.QueueItem) {
	if len(items) == 0 {
		p.line("%s", p.good.Render("Queue is empty."))
		return
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		detail := item.LastError
		if item.ServerID != "" {
			detail = "server id " + item.ServerID
		}
		if item.DependsOnActionID != "" && detail == "" {
			detail = "after " + item.DependsOnActionID
		}
		rows = append(rows, []string{
			item.ID,
			item.Status,
			item.Method + " " + item.ResourcePath,
			fmt.Sprint(item.RetryCount),
			detail,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers("ID", "STATUS", "REQUEST", "RETRIES", "DETAIL").
		Rows(rows...)

	p.line("%s", t.Render())
	p.line("%d action(s)", len(items))
}

// QueueItem renders one action after a manual operation
func (p *Printer) QueueItem(verb string, item *pkgapi.QueueItem) {
	p.line("%s %s (%s %s) is now %s", verb, item.ID, item.Method, item.ResourcePath, item.Status)
}

// Session renders the stored bearer session
func (p *Printer) Session(info *pkgapi.SessionInfo) {
	if !info.Authenticated {
		p.line("%s", p.warn.Render("Not signed in."))
		p.line("%s", p.muted.Render("Run 'courtside auth set-token' to store a bearer token."))
		return
	}

	subject := info.Subject
	if subject == "" {
		subject = "unknown"
	}
	p.line("%s", p.title.Render("Signed in"))
	p.field("Subject", subject)

	switch {
	case info.ExpiresAt == nil:
		p.field("Expires", "unknown")
	case info.Expired:
		p.field("Expires", p.bad.Render(formatTime(info.ExpiresAt)+" (expired)"))
	default:
		p.field("Expires", formatTime(info.ExpiresAt))
	}
}

// Message prints a plain line
func (p *Printer) Message(format string, a ...any) {
	p.line(format, a...)
}

// Version renders client and agent versions
func (p *Printer) Version(client pkgapi.VersionResponse, agent *pkgapi.VersionResponse) {
	p.line("Courtside")
	p.field("Version", client.Version)
	p.field("Build date", client.BuildDate)
	p.field("Git commit", client.GitCommit)
	if agent == nil {
		p.field("Agent", p.muted.Render("not running"))
		return
	}
	p.field("Agent", agent.Version)
}
