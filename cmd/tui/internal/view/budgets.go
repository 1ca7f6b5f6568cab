package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/budget"
	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

type budgetDraft struct {
	category string
	amount   string
}

type BudgetsModel struct {
	svc       *budget.Service
	formatter *money.Formatter

	month     time.Time
	summaries []*budget.Summary
	bar       progress.Model
	form      *huh.Form
	draft     *budgetDraft

	loading bool
	err     error
	status  string
}

func NewBudgetsModel(svc *budget.Service, formatter *money.Formatter) BudgetsModel {
	return BudgetsModel{
		svc:       svc,
		formatter: formatter,
		month:     budget.FirstOfMonth(time.Now().UTC()),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
		loading:   true,
	}
}

func (m BudgetsModel) Title() string { return "Budgets" }

func (m BudgetsModel) ShortHelp() string {
	if m.form != nil {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | ←/→: month | r: refresh"
}

func (m BudgetsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetLoadMsg:
		m.loading = false
		m.summaries, m.err = msg.summaries, msg.err

		return m, nil
	case budgetSavedMsg:
		m.form = nil
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = "Budget saved."

		return m, m.loadCmd()
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "left", "h":
			m.month = m.month.AddDate(0, -1, 0)
			m.loading = true

			return m, m.loadCmd()
		case "right", "l":
			m.month = m.month.AddDate(0, 1, 0)
			m.loading = true

			return m, m.loadCmd()
		case "a":
			return m.enterAdd()
		}
	}

	return m, nil
}

func (m BudgetsModel) enterAdd() (tea.Model, tea.Cmd) {
	m.draft = &budgetDraft{category: string(category.Groceries)}

	opts := make([]huh.Option[string], 0, len(category.Expenses()))
	for _, c := range category.Expenses() {
		opts = append(opts, huh.NewOption(c.Name(), string(c)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Options(opts...).
				Value(&m.draft.category),
			huh.NewInput().
				Title(fmt.Sprintf("Budget for %s", m.month.Format("January 2006"))).
				Value(&m.draft.amount).
				Validate(func(s string) error {
					a, err := money.Parse(s)
					if err != nil {
						return err
					}

					if a.IsNegative() {
						return errors.New("amount cannot be negative")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	return m, m.form.Init()
}

func (m BudgetsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd(m.draft, m.month)
}

func (m BudgetsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading budgets...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("Budgets for "+m.month.Format("January 2006")) + "\n\n")

	if len(m.summaries) == 0 {
		b.WriteString(faintStyle.Render("No budgets set for this month. Press a to add one.") + "\n")
	}

	for _, s := range m.summaries {
		pct, _ := s.Percent.Div(decimal.NewFromInt(100)).Float64()

		fmt.Fprintf(&b, "%-15s %s %s\n", s.ExpenseCategory.Name(), m.bar.ViewAs(min(pct, 1)),
			statusStyle(s.Status).Render(string(s.Status)))
		fmt.Fprintf(&b, "%-15s %s of %s, %s left\n\n", "",
			m.formatter.Format(s.Spent), m.formatter.Format(s.Amount), m.formatter.Format(s.Remaining))
	}

	content := b.String()

	if m.form != nil {
		content = lipgloss.JoinVertical(lipgloss.Left, content, lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(m.form.View()))
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type budgetLoadMsg struct {
	summaries []*budget.Summary
	err       error
}

type budgetSavedMsg struct {
	err error
}

func (m BudgetsModel) loadCmd() tea.Cmd {
	month := m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summaries, err := m.svc.List(ctx, budget.ListFilter{Month: &month})

		return budgetLoadMsg{summaries: summaries, err: err}
	}
}

func (m BudgetsModel) createCmd(d *budgetDraft, month time.Time) tea.Cmd {
	return func() tea.Msg {
		amount, err := money.Parse(d.amount)
		if err != nil {
			return budgetSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err = m.svc.Create(ctx, budget.CreateParams{
			ExpenseCategory: category.Expense(d.category),
			Month:           month,
			Amount:          amount,
		})

		return budgetSavedMsg{err: err}
	}
}
