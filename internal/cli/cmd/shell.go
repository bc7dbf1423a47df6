package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/berkelium-go/internal/cli/model"
	"github.com/bnema/berkelium-go/internal/config"
	urlutil "github.com/bnema/berkelium-go/internal/domain/url"
	"github.com/bnema/berkelium-go/internal/host"
	"github.com/bnema/berkelium-go/internal/logging"
)

var shellCmd = &cobra.Command{
	Use:   "shell [url]",
	Short: "Browse interactively from the terminal",
	Long: `Open an engine window driven from a terminal UI. The address bar,
history navigation and reload keys act on the window; titles, console
output, load state and dialogs show up in the event log. Dialogs are
accepted automatically.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

type openResult struct {
	session *host.Session
	err     error
}

func runShell(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	start := ""
	if len(args) > 0 {
		start = urlutil.Normalize(args[0])
	}

	ctx, cancel := context.WithCancel(app.Ctx())
	defer cancel()

	var program atomic.Pointer[tea.Program]
	opened := make(chan openResult, 1)
	done := make(chan struct{})

	// The engine lives on its own locked goroutine; the TUI talks to it
	// through Session.Post and receives events through Program.Send.
	go func() {
		defer close(done)
		s, err := app.OpenSession(ctx, app.Config, true, func(e host.Event) {
			if p := program.Load(); p != nil {
				p.Send(model.EventMsg(e))
			}
		})
		opened <- openResult{session: s, err: err}
		if err != nil {
			return
		}
		err = s.Pump(ctx, nil)
		s.Close()
		if p := program.Load(); p != nil && !errors.Is(err, context.Canceled) {
			p.Send(model.PumpDoneMsg{Err: err})
		}
	}()

	res := <-opened
	if res.err != nil {
		return res.err
	}

	remote := res.session.Remote()
	app.Manager.OnConfigChange(func(c *config.Config) { remote.ApplyWindow(c.Window) })
	if err := app.Manager.Watch(); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("config hot reload disabled")
	}

	m := model.NewShellModel(ctx, app.Theme, remote, start)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	program.Store(p)

	final, err := p.Run()
	cancel()
	<-done
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if sm, ok := final.(model.ShellModel); ok && sm.Err() != nil {
		return sm.Err()
	}
	return nil
}
