package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/thalassalab/observe"
	"github.com/thalassalab/observe/internal/config"
	"github.com/thalassalab/observe/internal/feed"
)

const recentLimit = 12

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// eventMsg carries one observed event into the model.
type eventMsg struct {
	event feed.Event
}

// programSink forwards notifications into the running Bubble Tea program.
// Dispatch stays synchronous on the source's goroutine; the program's own
// mailbox is the only queue involved.
type programSink struct {
	observe.Base[feed.Event]
	program *tea.Program
}

func (s *programSink) OnNotify(e feed.Event) {
	s.program.Send(eventMsg{event: e})
}

type dashboardModel struct {
	width  int
	height int

	counts  map[string]int
	recent  []feed.Event
	total   int
	started time.Time
}

func newDashboardModel() dashboardModel {
	return dashboardModel{
		counts:  make(map[string]int),
		started: time.Now(),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return nil
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case eventMsg:
		m.total++
		m.counts[msg.event.Type]++
		m.recent = append([]feed.Event{msg.event}, m.recent...)
		if len(m.recent) > recentLimit {
			m.recent = m.recent[:recentLimit]
		}
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" observe ")
	help := helpStyle.Render("q: quit")

	counts := m.renderCounts()
	recent := m.renderRecent()
	panels := lipgloss.JoinHorizontal(lipgloss.Top, counts, recent)

	uptime := time.Since(m.started).Round(time.Second)
	status := dimStyle.Render(fmt.Sprintf("%d event(s) in %s", m.total, uptime))

	return fmt.Sprintf("%s  %s\n\n%s\n\n%s\n", title, status, panels, help)
}

func (m dashboardModel) renderCounts() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Events by type"))
	b.WriteString("\n")

	if len(m.counts) == 0 {
		b.WriteString(dimStyle.Render("none yet"))
		return panelStyle.Render(b.String())
	}

	types := make([]string, 0, len(m.counts))
	for t := range m.counts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		b.WriteString(fmt.Sprintf("%-12s %s\n", t, countStyle.Render(fmt.Sprintf("%d", m.counts[t]))))
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m dashboardModel) renderRecent() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent"))
	b.WriteString("\n")

	if len(m.recent) == 0 {
		b.WriteString(dimStyle.Render("none yet"))
		return panelStyle.Render(b.String())
	}

	for _, e := range m.recent {
		msg := e.Message
		if m.width > 40 {
			// Shorten the plain message before styling so the cut can
			// never land inside an escape sequence or a multi-byte rune.
			msg = truncateRunes(msg, m.width-30)
		}
		b.WriteString(fmt.Sprintf("%s %-10s %s",
			dimStyle.Render(e.Time.Format("15:04:05")), e.Type, msg))
		b.WriteString("\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [path...]",
	Short: "Show the live event stream in a terminal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(".")
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.WatchPaths = args
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		return runDashboard(cfg)
	},
}

func runDashboard(cfg config.Config) error {
	p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
	forwarder := &programSink{program: p}

	watcher := feed.NewFileWatcher(cfg.WatchPaths...)
	ticker := feed.NewTicker(cfg.TickInterval)
	watcher.Events().Attach(forwarder)
	ticker.Events().Attach(forwarder)

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watcher.Run(gctx) })
	g.Go(func() error { return ticker.Run(gctx) })

	_, runErr := p.Run()

	cancel()
	if err := g.Wait(); runErr == nil {
		runErr = err
	}
	watcher.Close()
	ticker.Close()
	forwarder.Close()

	if runErr != nil {
		return fmt.Errorf("running dashboard: %w", runErr)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
