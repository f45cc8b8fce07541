package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"diggercli/digger/internal/dns/command"
	"diggercli/digger/internal/dns/domain"
	"diggercli/digger/internal/tui/components"
	"diggercli/digger/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Querier runs one query and returns its parsed result.
type Querier interface {
	Query(ctx context.Context, spec domain.QuerySpec) *domain.QueryResult
}

const (
	// DefaultWatchInterval is the delay between successive queries when the
	// caller does not choose one.
	DefaultWatchInterval = 5 * time.Second

	// maxLatencyPoints caps the sparkline history.
	maxLatencyPoints = 60

	// maxWatchRows caps how many records the watch view lists per refresh.
	maxWatchRows = 12
)

// --- Messages ---

// watchTickMsg tells the Update loop it is time for the next query.
type watchTickMsg struct{}

// watchResultMsg carries the result of one completed query.
type watchResultMsg struct {
	result *domain.QueryResult
}

// --- Watch model ---

type watchModel struct {
	querier  Querier
	spec     domain.QuerySpec
	command  string // rendered dig invocation shown above the results
	interval time.Duration

	width  int
	height int

	spin     spinner.Model
	inFlight bool
	paused   bool
	runs     int

	result    *domain.QueryResult
	latencies []float64

	quitting bool
}

// RunWatch starts the full-window live re-query view. It blocks until the
// user quits.
func RunWatch(querier Querier, spec domain.QuerySpec, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	display := ""
	if inv, err := command.Generate(spec); err == nil {
		display = inv.Command
	}

	m := watchModel{
		querier:  querier,
		spec:     spec,
		command:  display,
		interval: interval,
		spin:     s,
		inFlight: true,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run watch: %w", err)
	}
	return nil
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.runQuery())
}

func (m watchModel) runQuery() tea.Cmd {
	querier := m.querier
	spec := m.spec
	return func() tea.Msg {
		return watchResultMsg{result: querier.Query(context.Background(), spec)}
	}
}

func (m watchModel) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(_ time.Time) tea.Msg {
		return watchTickMsg{}
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			if m.inFlight {
				return m, nil
			}
			m.inFlight = true
			return m, tea.Batch(m.spin.Tick, m.runQuery())
		case "p", " ":
			m.paused = !m.paused
			if !m.paused && !m.inFlight {
				m.inFlight = true
				return m, tea.Batch(m.spin.Tick, m.runQuery())
			}
			return m, nil
		}

	case watchResultMsg:
		m.inFlight = false
		m.runs++
		m.result = msg.result
		if msg.result.Status == domain.StatusSuccess && msg.result.ElapsedMs > 0 {
			m.latencies = appendLatency(m.latencies, msg.result.ElapsedMs)
		}
		if m.paused {
			return m, nil
		}
		return m, m.scheduleTick()

	case watchTickMsg:
		if m.paused || m.inFlight {
			return m, nil // stale tick after pause or manual refresh
		}
		m.inFlight = true
		return m, tea.Batch(m.spin.Tick, m.runQuery())

	case spinner.TickMsg:
		if m.inFlight {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	header := components.Header(m.width, "watch "+m.spec.Domain, resolverLabel(m.spec.Server))

	bindings := []components.KeyBinding{
		{Key: "q", Desc: "quit"},
		{Key: "r", Desc: "refresh"},
		{Key: "p", Desc: pauseDesc(m.paused)},
	}
	footer := components.Footer(m.width, bindings)

	statusMsg := fmt.Sprintf("Refreshing every %s", m.interval)
	if m.paused {
		statusMsg = "Paused"
	}
	statusBar := components.StatusBar(m.width, statusMsg, false)

	var parts []string
	if m.command != "" {
		parts = append(parts, "  "+styles.MutedText.Render(fitLine(m.command, m.width-4)))
	}
	parts = append(parts, "  "+m.renderStatus())
	if records := renderRecords(m.result, m.width-4); records != "" {
		parts = append(parts, indentBlock(records))
	}
	if len(m.latencies) > 1 {
		parts = append(parts, indentBlock(components.LatencyChart("Query time", m.latencies, m.width-4)))
	}
	content := strings.Join(parts, "\n\n")

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	statusH := lipgloss.Height(statusBar)
	contentH := m.height - headerH - footerH - statusH
	if contentH < 1 {
		contentH = 1
	}
	if lines := lipgloss.Height(content); lines < contentH {
		content += strings.Repeat("\n", contentH-lines)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar, footer)
}

func (m watchModel) renderStatus() string {
	if m.result == nil {
		if m.inFlight {
			return m.spin.View() + "  Querying..."
		}
		return ""
	}

	res := m.result
	parts := []string{styles.StatusIndicator(res.Status)}
	if res.Status == domain.StatusSuccess {
		parts = append(parts, styles.MutedText.Render(fmt.Sprintf("%d records", res.TotalRecords())))
	}
	if res.ElapsedMs > 0 {
		parts = append(parts, styles.MutedText.Render(fmt.Sprintf("%dms", res.ElapsedMs)))
	}
	parts = append(parts, styles.MutedText.Render(fmt.Sprintf("run %d", m.runs)))
	if m.inFlight {
		parts = append(parts, m.spin.View())
	}
	return strings.Join(parts, "  ")
}

// renderRecords lists the answer section, falling back to authority when
// the answer is empty (delegations, negative responses). Rows wider than
// width are truncated; long TXT values would otherwise wrap and break the
// fixed-height layout.
func renderRecords(res *domain.QueryResult, width int) string {
	if res == nil {
		return ""
	}

	records := res.Answer
	section := "Answer"
	if len(records) == 0 && len(res.Authority) > 0 {
		records = res.Authority
		section = "Authority"
	}
	if len(records) == 0 {
		return styles.MutedText.Render("No records returned.")
	}

	shown := records
	if len(shown) > maxWatchRows {
		shown = shown[:maxWatchRows]
	}

	nameW, typeW := recordColumnWidths(shown)
	rows := make([]string, 0, len(shown)+2)
	rows = append(rows, styles.Label.Render(section))
	for _, rec := range shown {
		line := fmt.Sprintf("%-*s  %-*s  %6d  %s", nameW, rec.Name, typeW, rec.Type, rec.TTL, rec.DisplayValue())
		rows = append(rows, styles.Value.Render(fitLine(line, width)))
	}
	if len(records) > maxWatchRows {
		rows = append(rows, styles.MutedText.Render(fmt.Sprintf("... and %d more", len(records)-maxWatchRows)))
	}
	return strings.Join(rows, "\n")
}

// fitLine truncates s to the given visual width.
func fitLine(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width-1, "…")
}

func recordColumnWidths(records []domain.Record) (nameW, typeW int) {
	for _, rec := range records {
		if len(rec.Name) > nameW {
			nameW = len(rec.Name)
		}
		if len(rec.Type) > typeW {
			typeW = len(rec.Type)
		}
	}
	return nameW, typeW
}

// appendLatency grows the sparkline series, dropping the oldest points
// once the cap is reached.
func appendLatency(latencies []float64, ms int64) []float64 {
	latencies = append(latencies, float64(ms))
	if len(latencies) > maxLatencyPoints {
		latencies = latencies[len(latencies)-maxLatencyPoints:]
	}
	return latencies
}

func resolverLabel(server string) string {
	if server == "" {
		return "system resolver"
	}
	return server
}

func pauseDesc(paused bool) string {
	if paused {
		return "resume"
	}
	return "pause"
}

func indentBlock(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
