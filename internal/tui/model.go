package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KaramelBytes/malfinder/internal/analysis"
	"github.com/KaramelBytes/malfinder/internal/catalog"
	"github.com/KaramelBytes/malfinder/internal/utils"
)

// Searcher is the TUI-facing subset of the ranker.
type Searcher interface {
	Rank(ctx context.Context, query string, n int) (*catalog.Table, []float64, error)
}

// ExportFunc writes the report for a result table.
type ExportFunc func(t *catalog.Table, query, outputPath string) error

// Options configures the TUI.
type Options struct {
	TopN        int
	DisplayRows int
	ReportPath  string
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	searcher  Searcher
	export    ExportFunc
	opts      Options
	input     textinput.Model
	viewport  viewport.Model
	results   *catalog.Table
	scores    []float64
	summary   string
	status    string
	cursor    int
	width     int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance.
func New(s Searcher, export ExportFunc, opts Options) Model {
	if opts.DisplayRows <= 0 {
		opts.DisplayRows = 20
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe the anime you are looking for and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		searcher: s,
		export:   export,
		opts:     opts,
		input:    ti,
		viewport: vp,
		status:   "Catalog loaded. Type to search; ctrl+r exports the report.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		// header, summary lines, list, status
		reserved := 2 + strings.Count(m.summary, "\n") + m.listHeight() + 1 + qh + 1
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if q := strings.TrimSpace(m.input.Value()); q != "" {
				m.search(q)
				return m, nil
			}
		case "ctrl+r":
			m.exportReport()
			return m, nil
		case "down":
			if n := m.results.Len(); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if n := m.results.Len(); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) search(q string) {
	res, scores, err := m.searcher.Rank(context.Background(), q, m.opts.TopN)
	if err != nil {
		m.status = "✗ Error: " + err.Error()
		m.results, m.scores, m.summary = nil, nil, ""
	} else {
		m.results, m.scores = res, scores
		m.cursor = 0
		m.lastQuery = q
		m.summary = analysis.SummaryText(res)
		m.status = fmt.Sprintf("Found %d results for %q", res.Len(), q)
	}
	m.viewport.SetContent(m.renderCurrentResult())
}

func (m *Model) exportReport() {
	if m.results == nil {
		m.status = "⚠ Search first, then export the report."
		return
	}
	path := m.opts.ReportPath
	if path == "" {
		path = "anime_analysis.docx"
	}
	if err := m.export(m.results, m.lastQuery, path); err != nil {
		m.status = "✗ Error generating report: " + err.Error()
		return
	}
	m.status = "✓ Report generated: " + path
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("MALFinder")
	summary := summaryStyle.Render(m.summary)
	list := m.renderList()
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	detail := resultBoxStyle.Render(m.viewport.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, summary, list, detail, input, status)
}

func (m Model) listHeight() int {
	return min(m.opts.DisplayRows, m.results.Len())
}

func (m Model) renderList() string {
	n := m.listHeight()
	if n == 0 {
		return ""
	}
	// keep the cursor on screen
	start := 0
	if m.cursor >= n {
		start = m.cursor - n + 1
	}
	lines := make([]string, 0, n)
	for i := start; i < start+n && i < m.results.Len(); i++ {
		title, _ := m.results.Cell(i, catalog.ColTitle)
		line := fmt.Sprintf("%3d. %s", i+1, utils.Ellipsize(title.Text, max(10, m.width-12)))
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCurrentResult() string {
	if m.results.Len() == 0 {
		return "No results yet."
	}
	i := m.cursor
	cell := func(col string) string {
		v, ok := m.results.Cell(i, col)
		if !ok || v.Null {
			return "-"
		}
		return v.Text
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", highlightStyle.Render(cell(catalog.ColTitle)))
	fmt.Fprintf(&b, "Result %d/%d  similarity=%.3f\n", i+1, m.results.Len(), m.scores[i])
	fmt.Fprintf(&b, "Type: %s  Episodes: %s  Score: %s\n", cell(catalog.ColType), cell(catalog.ColEpisodes), cell(catalog.ColScore))
	for _, col := range []string{catalog.ColGenres, catalog.ColThemes} {
		if v, ok := m.results.Cell(i, col); ok {
			fmt.Fprintf(&b, "%s: %s\n", col, strings.Join(analysis.ParseEncodedList(v), ", "))
		}
	}
	if u := cell(catalog.ColURL); u != "-" {
		fmt.Fprintf(&b, "%s\n", u)
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(max(20, m.viewport.Width-2)).Render(cell(catalog.ColDescription)))
	return b.String()
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
