package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"articlegrip/internal/domain"
)

// chromeLines is the number of lines around the list: padding, title,
// status, footer and scroll indicators
const chromeLines = 10

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Articles       []domain.Article
	Filter         string
	Error          string
	Status         domain.Status
	Page           int
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int
	Spinner        string
	StatusMessage  string
	InputPrompt    string
	TextInput      string
	ShowHelp       bool
	HelpModel      help.Model
	Keys           help.KeyMap
	Now            time.Time
}

// ListHeight returns how many article rows fit in a terminal of the given height
func ListHeight(termHeight int) int {
	h := termHeight - chromeLines
	if h < 3 {
		return 3
	}
	return h
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	articleRender *ArticleRenderer
	popupRender   *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showSource, showAge bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		articleRender: NewArticleRenderer(styles, showSource, showAge),
		popupRender:   NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.Now.IsZero() {
		state.Now = time.Now()
	}

	content := &strings.Builder{}
	content.WriteString(r.renderTitle(state))
	content.WriteString("\n\n")

	if state.InputPrompt != "" {
		content.WriteString(r.styles.Prompt.Render(state.InputPrompt))
		content.WriteString(state.TextInput)
		content.WriteString("\n\n")
	}

	content.WriteString(r.renderList(state))
	content.WriteString("\n\n")
	content.WriteString(r.renderStatusLine(state))

	footer := ""
	if state.Keys != nil {
		footer = state.HelpModel.ShortHelpView(state.Keys.ShortHelp())
	}
	if footer != "" {
		// push the footer to the bottom of the screen
		currentLines := strings.Count(content.String(), "\n") + 1
		availableLines := state.Height - 2
		if availableLines <= 0 {
			availableLines = 22
		}
		if padding := availableLines - currentLines - 1; padding > 0 {
			content.WriteString(strings.Repeat("\n", padding))
		}
		content.WriteString("\n")
		content.WriteString(footer)
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	finalContent := mainStyle.Render(content.String())

	if state.ShowHelp && state.Keys != nil {
		full := state.HelpModel
		full.ShowAll = true
		helpContent := r.styles.Title.Render("Keys") + "\n\n" + full.FullHelpView(state.Keys.FullHelp())
		return r.popupRender.RenderPopup(finalContent, helpContent, state.Height, state.Width, r.styles.InfoBox)
	}

	return finalContent
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("articlegrip")

	right := r.styles.Page.Render(fmt.Sprintf("Page %d", state.Page))
	if state.Filter != "" {
		right = r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", state.Filter)) + "  " + right
	}

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	// account for main container padding
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderList(state ViewState) string {
	if len(state.Articles) == 0 {
		return r.styles.Dim.Render(emptyMessage(state))
	}

	height := state.ViewportHeight
	if height <= 0 {
		height = len(state.Articles)
	}
	start := state.ViewportOffset
	if start < 0 || start >= len(state.Articles) {
		start = 0
	}
	end := start + height
	if end > len(state.Articles) {
		end = len(state.Articles)
	}

	var lines []string
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", start)))
	}
	for i := start; i < end; i++ {
		lines = append(lines, r.articleRender.RenderArticle(state.Articles[i], i == state.SelectedIndex, state.Filter, state.Now))
	}
	if below := len(state.Articles) - end; below > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", below)))
	}
	return strings.Join(lines, "\n")
}

func emptyMessage(state ViewState) string {
	switch {
	case state.Status == domain.StatusLoading:
		return "Loading articles..."
	case state.Filter != "":
		return "No articles match the filter."
	case state.Status == domain.StatusError:
		return "Nothing to show."
	default:
		return "No articles on this page."
	}
}

func (r *Renderer) renderStatusLine(state ViewState) string {
	var line string
	switch {
	case state.Status == domain.StatusLoading:
		line = r.styles.StatusLoading.Render(fmt.Sprintf("%s Loading page %d...", state.Spinner, state.Page))
	case state.Error != "":
		line = r.styles.StatusError.Render("✗ "+state.Error) + r.styles.Dim.Render("  (press r to retry)")
	default:
		line = r.styles.Dim.Render(fmt.Sprintf("%d articles", len(state.Articles)))
	}
	if state.StatusMessage != "" {
		line += "  " + r.styles.StatusMessage.Render(state.StatusMessage)
	}
	return line
}
