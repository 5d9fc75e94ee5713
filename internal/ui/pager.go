package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/noborus/ov/oviewer"

	"articlegrip/internal/domain"
	"articlegrip/internal/ui/input/types"
)

// PagerOps shows long text in ov while the program gives up the terminal
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program that owns the terminal
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// Show pages content using ov
func (p *PagerOps) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// give ov time to leave the alternate screen
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	configureVimKeyBindings(&config)
	root.SetConfig(config)

	return root.Run()
}

func configureVimKeyBindings(config *oviewer.Config) {
	if config.Keybind == nil {
		config.Keybind = make(map[string][]string)
	}
	config.Keybind["down"] = []string{"j", "Down", "ctrl+n", "Enter"}
	config.Keybind["up"] = []string{"k", "Up", "ctrl+p"}
	config.Keybind["top"] = []string{"g", "Home", "<"}
	config.Keybind["bottom"] = []string{"G", "End", ">"}
	config.Keybind["exit"] = []string{"q", "Escape", "ctrl+c"}
}

// RenderHelpText renders the key bindings for the pager
func RenderHelpText(keys types.KeyMap) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	sections := []string{"Navigation", "Pages", "Articles", "Other"}

	var b strings.Builder
	b.WriteString(titleStyle.Render("articlegrip help"))
	b.WriteString("\n")
	for i, column := range keys.FullHelp() {
		b.WriteString("\n")
		if i < len(sections) {
			b.WriteString(sectionStyle.Render(sections[i]))
			b.WriteString("\n")
		}
		for _, binding := range column {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
		}
	}
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Filter mode"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %-10s %s\n", keyStyle.Render("enter"), descStyle.Render("keep the filter")))
	b.WriteString(fmt.Sprintf("  %-10s %s\n", keyStyle.Render("esc"), descStyle.Render("clear the filter")))
	return b.String()
}

// RenderPageText renders the visible articles of a page with their links
// and summaries for the pager
func RenderPageText(state domain.ViewState, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Page %d", state.CurrentPage)
	if state.Filter != "" {
		fmt.Fprintf(&b, " (filter: %q)", state.Filter)
	}
	b.WriteString("\n\n")

	if len(state.Articles) == 0 {
		b.WriteString("No articles.\n")
		return b.String()
	}

	for i, a := range state.Articles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Title)
		if a.URL != "" {
			fmt.Fprintf(&b, "   %s\n", a.URL)
		}
		var meta []string
		if a.Source != "" {
			meta = append(meta, a.Source)
		}
		if !a.PublishedAt.IsZero() {
			meta = append(meta, humanize.RelTime(a.PublishedAt, now, "ago", "from now"))
		}
		if len(meta) > 0 {
			fmt.Fprintf(&b, "   %s\n", strings.Join(meta, " · "))
		}
		if a.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", a.Summary)
		}
		b.WriteString("\n")
	}
	return b.String()
}
