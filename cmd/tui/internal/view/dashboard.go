package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/aggregate"
	"github.com/MrJamesThe3rd/spendwise/internal/dashboard"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

const barWidth = 30

type DashboardModel struct {
	svc       *dashboard.Service
	formatter *money.Formatter

	overview *dashboard.Overview
	bar      progress.Model
	loading  bool
	err      error
}

func NewDashboardModel(svc *dashboard.Service, formatter *money.Formatter) DashboardModel {
	return DashboardModel{
		svc:       svc,
		formatter: formatter,
		bar:       progress.New(progress.WithSolidFill("63"), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		loading:   true,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadMsg:
		m.loading = false
		m.overview, m.err = msg.overview, msg.err

		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

// trend renders a month-over-month change. For expenses a rise is bad.
func (m DashboardModel) trend(d decimal.Decimal, higherIsBetter bool) string {
	s := m.formatter.Percent(d)

	switch {
	case d.IsZero():
		return faintStyle.Render(s)
	case d.IsPositive() == higherIsBetter:
		return successStyle.Render(s)
	default:
		return errorStyle.Render(s)
	}
}

// share is part/whole clamped to [0, 1].
func share(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() || !part.IsPositive() {
		return 0
	}

	f, _ := part.Div(whole).Float64()

	return min(f, 1)
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	ov := m.overview

	var b strings.Builder

	b.WriteString(headerStyle.Render("Overview") + "\n\n")
	fmt.Fprintf(&b, "Total Income    %12s  %s\n", m.formatter.Format(ov.TotalIncome), m.trend(ov.Trends.Income, true))
	fmt.Fprintf(&b, "Total Expenses  %12s  %s\n", m.formatter.Format(ov.TotalExpenses), m.trend(ov.Trends.Expenses, false))
	fmt.Fprintf(&b, "Balance         %12s  %s\n", m.formatter.Format(ov.Balance), m.trend(ov.Trends.Balance, true))

	peak := decimal.Zero
	for _, bucket := range ov.Spending {
		peak = decimal.Max(peak, bucket.Total)
	}

	b.WriteString("\n" + headerStyle.Render("Monthly Spending") + "\n\n")

	for _, bucket := range ov.Spending {
		fmt.Fprintf(&b, "%s %d  %s  %s\n",
			bucket.Label, bucket.Year,
			m.bar.ViewAs(share(bucket.Total, peak)),
			m.formatter.Format(bucket.Total),
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

type dashboardLoadMsg struct {
	overview *dashboard.Overview
	err      error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ov, err := m.svc.Overview(ctx, time.Now().UTC())

		return dashboardLoadMsg{overview: ov, err: err}
	}
}

func statusStyle(s aggregate.Status) lipgloss.Style {
	switch s {
	case aggregate.StatusExceeded:
		return errorStyle
	case aggregate.StatusWarning:
		return warnStyle
	}

	return successStyle
}
