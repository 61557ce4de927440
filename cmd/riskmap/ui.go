// # cmd/riskmap/ui.go
package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"riskmap/internal/app"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	riskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type rankedFile struct {
	path        string
	risk        float64
	impact      float64
	explanation string
	dependents  int
}

type updateMsg struct {
	fileCount   int
	totalLines  int
	parseErrors int
	risky       []rankedFile
	impactful   []rankedFile
}

func toUpdateMsg(u app.Update) updateMsg {
	msg := updateMsg{
		fileCount:   u.FileCount,
		totalLines:  u.TotalLines,
		parseErrors: u.ParseErrors,
	}
	if u.Analysis == nil {
		return msg
	}

	for _, path := range headOf(u.MostRisky, 15) {
		fa := u.Analysis.Files[path]
		msg.risky = append(msg.risky, rankedFile{
			path:        path,
			risk:        fa.Risk.Overall,
			impact:      fa.ImpactScore(),
			explanation: fa.Risk.Explanation,
			dependents:  len(fa.Dependents),
		})
	}
	for _, path := range headOf(u.MostImpactful, 15) {
		fa := u.Analysis.Files[path]
		msg.impactful = append(msg.impactful, rankedFile{
			path:       path,
			risk:       fa.Risk.Overall,
			impact:     fa.ImpactScore(),
			dependents: len(fa.Dependents),
		})
	}
	return msg
}

func headOf(paths []string, n int) []string {
	if len(paths) < n {
		n = len(paths)
	}
	return paths[:n]
}

type model struct {
	list        list.Model
	fileCount   int
	totalLines  int
	parseErrors int
	lastUpdate  time.Time
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.fileCount = msg.fileCount
		m.totalLines = msg.totalLines
		m.parseErrors = msg.parseErrors
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, r := range msg.risky {
			items = append(items, item{
				title: fmt.Sprintf("Risk %.3f  %s", r.risk, r.path),
				desc:  r.explanation,
			})
		}
		for _, r := range msg.impactful {
			items = append(items, item{
				title: fmt.Sprintf("Impact %.3f  %s", r.impact, r.path),
				desc:  fmt.Sprintf("%d dependents", r.dependents),
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last scan: %v | %d files | %d lines",
		m.lastUpdate.Format("15:04:05"), m.fileCount, m.totalLines))

	var summary string
	if m.parseErrors == 0 {
		summary = successStyle.Render("✅ All files parsed")
	} else {
		summary = fmt.Sprintf("⚠️  %s", warnStyle.Render(fmt.Sprintf("%d parse failures", m.parseErrors)))
	}
	if m.fileCount == 0 {
		summary = riskStyle.Render("Waiting for first scan...")
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Codebase Risk Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Risk & Impact Rankings"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
