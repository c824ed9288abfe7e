package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/codemetric/vibe-coding-tracker/analysis"
	"github.com/codemetric/vibe-coding-tracker/calculations"
	"github.com/codemetric/vibe-coding-tracker/fileio"
	"github.com/codemetric/vibe-coding-tracker/logging"
	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/codemetric/vibe-coding-tracker/pricing"
	"github.com/codemetric/vibe-coding-tracker/usage"
)

// Mode selects which live view the application renders.
type Mode int

const (
	ModeUsage Mode = iota
	ModeAnalysis
)

type tickMsg time.Time

type usageDataMsg struct {
	rows []models.ModelUsageRow
	err  error
}

type analysisDataMsg struct {
	rows []models.AnalysisRow
	err  error
}

// App is the bubbletea model of the live views. Every refresh interval it
// re-runs an aggregation cycle through the shared parse cache; a session
// watcher invalidates changed files between cycles so only those reparse.
type App struct {
	mode       Mode
	roots      *fileio.SessionRoots
	pricingMap *pricing.PricingMap
	refresh    time.Duration

	table   table.Model
	keys    KeyMap
	styles  Styles
	watcher *fileio.SessionWatcher

	usageRows    []models.ModelUsageRow
	analysisRows []models.AnalysisRow
	lastErr      error
	lastUpdated  time.Time
	width        int
	quitting     bool
}

// NewApp builds the live view. pricingMap may be nil, in which case all
// costs render as $0.00.
func NewApp(mode Mode, roots *fileio.SessionRoots, pricingMap *pricing.PricingMap, refresh time.Duration) *App {
	if refresh <= 0 {
		refresh = models.DefaultRefreshInterval
	}

	app := &App{
		mode:       mode,
		roots:      roots,
		pricingMap: pricingMap,
		refresh:    refresh,
		keys:       DefaultKeyMap(),
		styles:     DefaultStyles(),
	}
	app.table = table.New(
		table.WithColumns(app.columns(80)),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	return app
}

// Run starts the watcher and the bubbletea program, blocking until quit.
func (a *App) Run() error {
	watchRoots := []string{
		a.roots.ClaudeSessions,
		a.roots.CodexSessions,
		a.roots.CopilotSessions,
		a.roots.GeminiRoot,
	}
	watcher, err := fileio.NewSessionWatcher(watchRoots, func(path string) {
		analysis.SharedCache().Invalidate(path)
	})
	if err != nil {
		logging.LogWarnf("session watcher unavailable: %v", err)
	} else {
		a.watcher = watcher
		watcher.Start()
		defer watcher.Stop()
	}

	_, err = tea.NewProgram(a, tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.reload(), a.tick())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return a, tea.Quit
		case key.Matches(msg, a.keys.Refresh):
			return a, a.reload()
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.table.SetColumns(a.columns(msg.Width))
		height := msg.Height - 8
		if height < 3 {
			height = 3
		}
		a.table.SetHeight(height)

	case tickMsg:
		// The quit flag is observed between cycles: an in-flight reload
		// finishes, no new one starts.
		if a.quitting {
			return a, nil
		}
		return a, tea.Batch(a.reload(), a.tick())

	case usageDataMsg:
		a.usageRows, a.lastErr = msg.rows, msg.err
		a.lastUpdated = time.Now()
		a.table.SetRows(a.usageTableRows())

	case analysisDataMsg:
		a.analysisRows, a.lastErr = msg.rows, msg.err
		a.lastUpdated = time.Now()
		a.table.SetRows(a.analysisTableRows())
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	title := "Token Usage"
	if a.mode == ModeAnalysis {
		title = "Coding Activity"
	}

	out := a.styles.Title.Render("Vibe Coding Tracker · "+title) + "\n"
	out += a.table.View() + "\n"
	out += a.averagesView()

	status := fmt.Sprintf("updated %s · refresh %s · q/esc quit",
		a.lastUpdated.Format("15:04:05"), a.refresh)
	if a.lastErr != nil {
		status = a.styles.Warning.Render(fmt.Sprintf("error: %v", a.lastErr)) + " · " + status
	}
	out += a.styles.Footer.Render(status)
	return out
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) reload() tea.Cmd {
	if a.mode == ModeUsage {
		return func() tea.Msg {
			rows, err := usage.Aggregate(a.roots, a.pricingMap)
			return usageDataMsg{rows: rows, err: err}
		}
	}
	return func() tea.Msg {
		rows, err := analysis.AggregateRows(a.roots, analysis.SharedCache())
		return analysisDataMsg{rows: rows, err: err}
	}
}

func (a *App) columns(width int) []table.Column {
	if a.mode == ModeUsage {
		return []table.Column{
			{Title: "Date", Width: 12},
			{Title: "Model", Width: 34},
			{Title: "Input", Width: 12},
			{Title: "Output", Width: 12},
			{Title: "Cache Read", Width: 12},
			{Title: "Cache Create", Width: 12},
			{Title: "Cost (USD)", Width: 12},
		}
	}
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Model", Width: 30},
		{Title: "Edit Lines", Width: 10},
		{Title: "Read Lines", Width: 10},
		{Title: "Write Lines", Width: 11},
		{Title: "Read", Width: 6},
		{Title: "Write", Width: 6},
		{Title: "Edit", Width: 6},
		{Title: "Bash", Width: 6},
		{Title: "Todo", Width: 6},
	}
}

func (a *App) usageTableRows() []table.Row {
	rows := make([]table.Row, 0, len(a.usageRows))
	for _, r := range a.usageRows {
		counts := usage.ExtractTokenCounts(r.Usage)
		model := r.Model
		if r.MatchedModel != "" {
			model += " → " + r.MatchedModel
		}
		rows = append(rows, table.Row{
			r.Date,
			model,
			formatCount(counts.InputTokens),
			formatCount(counts.OutputTokens),
			formatCount(counts.CacheReadTokens),
			formatCount(counts.CacheCreationTokens),
			fmt.Sprintf("$%.4f", r.CostUSD),
		})
	}
	return rows
}

func (a *App) analysisTableRows() []table.Row {
	rows := make([]table.Row, 0, len(a.analysisRows))
	for _, r := range a.analysisRows {
		rows = append(rows, table.Row{
			r.Date,
			r.Model,
			formatCount(int64(r.EditLines)),
			formatCount(int64(r.ReadLines)),
			formatCount(int64(r.WriteLines)),
			formatCount(int64(r.ReadCount)),
			formatCount(int64(r.WriteCount)),
			formatCount(int64(r.EditCount)),
			formatCount(int64(r.BashCount)),
			formatCount(int64(r.TodoWriteCount)),
		})
	}
	return rows
}

func (a *App) averagesView() string {
	if a.mode == ModeUsage {
		averages := calculations.UsageDailyAverages(a.usageRows)
		if len(averages) == 0 {
			return ""
		}
		out := a.styles.Subtitle.Render("Daily averages") + "\n"
		for _, avg := range averages {
			out += fmt.Sprintf("  %-14s %3d day(s)  total %s  avg %s/day\n",
				avg.Provider, avg.Days,
				a.styles.Cost.Render(fmt.Sprintf("$%.2f", avg.TotalCost)),
				a.styles.Cost.Render(fmt.Sprintf("$%.2f", avg.AvgCostPerDay)))
		}
		return out
	}

	averages := calculations.AnalysisDailyAverages(a.analysisRows)
	if len(averages) == 0 {
		return ""
	}
	out := a.styles.Subtitle.Render("Daily averages") + "\n"
	for _, avg := range averages {
		out += fmt.Sprintf("  %-14s %3d day(s)  edit %.0f  read %.0f  write %.0f lines/day\n",
			avg.Provider, avg.Days, avg.AvgEditLines, avg.AvgReadLines, avg.AvgWriteLines)
	}
	return out
}

func formatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
