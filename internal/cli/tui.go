package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"articlegrip/internal/config"
	"articlegrip/internal/logging"
	"articlegrip/internal/ui"
)

// readyEnv makes the UI announce itself once it is running, for the
// terminal end-to-end tests
const readyEnv = "ARTICLEGRIP_E2E_TEST"

func runTUI(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	model := ui.NewModel(a.list, cfg.UI)

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.UI.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, programOpts...)
	model.SetProgram(p)

	if err := a.list.Start(ctx); err != nil {
		return err
	}

	if os.Getenv(readyEnv) == "1" {
		fmt.Println("__READY__")
	}

	logging.Info("starting UI")
	if _, err := p.Run(); err != nil {
		logging.Error("error running program", "err", err)
		return fmt.Errorf("running program: %w", err)
	}
	logging.Info("UI exited normally")
	return nil
}
