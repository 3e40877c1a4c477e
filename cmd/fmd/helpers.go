package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"fmd/internal/core"
	"fmd/internal/domain"
	"fmd/internal/tui"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// runWithProgress executes a download function, rendering the interactive
// progress view unless --json or --no-progress suppresses it.
//
// The download runs in its own goroutine and its progress callbacks are
// forwarded into the bubbletea program. If the user quits the view before
// the run finishes, the context is cancelled so in-flight downloads stop.
func runWithProgress(ctx context.Context, run func(context.Context, core.ProgressFunc) *domain.Result) *domain.Result {
	if jsonOutput || noProgress {
		return run(ctx, nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tui.New())
	resultCh := make(chan *domain.Result, 1)
	go func() {
		res := run(ctx, func(ev core.ProgressEvent) {
			p.Send(tui.EventMsg(ev))
		})
		resultCh <- res
		p.Send(tui.DoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		// Rendering trouble should not lose the run's outcome.
		fmt.Fprintf(os.Stderr, "progress view error: %v\n", err)
	}

	select {
	case res := <-resultCh:
		return res
	default:
		// View was quit early; stop the run and collect what finished.
		cancel()
		return <-resultCh
	}
}

// jsonResult is the machine-readable result shape.
type jsonResult struct {
	Success    bool             `json:"success"`
	Downloaded []string         `json:"downloaded"`
	Failed     []domain.Failure `json:"failed"`
	TotalBytes uint64           `json:"total_bytes"`
	Duration   float64          `json:"duration_seconds"`
}

// printResult renders the final aggregate to w.
func printResult(w io.Writer, res *domain.Result) {
	if jsonOutput {
		out := jsonResult{
			Success:    res.Success,
			Downloaded: res.Downloaded,
			Failed:     res.Failed,
			TotalBytes: res.TotalBytes,
			Duration:   res.Duration.Seconds(),
		}
		if out.Downloaded == nil {
			out.Downloaded = []string{}
		}
		if out.Failed == nil {
			out.Failed = []domain.Failure{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return
	}

	if len(res.Downloaded) > 0 {
		fmt.Fprintf(w, "%s %d mods (%s) in %.1fs\n",
			okStyle.Render("Downloaded"),
			len(res.Downloaded),
			humanize.Bytes(res.TotalBytes),
			res.Duration.Seconds())
	}
	for _, f := range res.Failed {
		fmt.Fprintf(w, "%s %s %s\n", failStyle.Render("Failed:"), f.Name, dimStyle.Render(f.Message))
	}
	if len(res.Downloaded) == 0 && len(res.Failed) == 0 {
		fmt.Fprintln(w, "Nothing to download")
	}
}

// printModListUpdate reports mod-list.json maintenance.
func printModListUpdate(w io.Writer, added int) {
	fmt.Fprintf(w, "%s %d entries added to mod-list.json\n", okStyle.Render("Updated:"), added)
}

// resultErr converts a partially failed result into a command error so
// Execute exits non-zero.
func resultErr(res *domain.Result) error {
	if res.Success {
		return nil
	}
	return fmt.Errorf("%d download(s) failed", len(res.Failed))
}
