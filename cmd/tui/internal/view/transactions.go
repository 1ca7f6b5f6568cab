package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/filter"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateAdd
	txStateDelete
)

var (
	dateRanges = []filter.DateRange{filter.AllDates, filter.Today, filter.ThisWeek, filter.ThisMonth}
	typeRanges = []filter.Type{filter.AllTypes, filter.Income, filter.Expense}
)

var dateRangeLabels = map[filter.DateRange]string{
	filter.AllDates:  "All Time",
	filter.Today:     "Today",
	filter.ThisWeek:  "This Week",
	filter.ThisMonth: "This Month",
}

// categoryChoices lists the categories selectable for a type filter, "all" first.
func categoryChoices(t filter.Type) []string {
	out := []string{filter.AllCategories}

	if t != filter.Expense {
		for _, c := range category.Incomes() {
			out = append(out, string(c))
		}
	}

	if t != filter.Income {
		for _, c := range category.Expenses() {
			if c == category.OtherExpense && t == filter.AllTypes {
				continue
			}

			out = append(out, string(c))
		}
	}

	return out
}

// txDraft holds form bindings on the heap so they survive model copies.
type txDraft struct {
	typ         string
	category    string
	amount      string
	date        string
	description string
	paymentMode string
	confirm     bool
}

func (d *txDraft) params() (transaction.CreateParams, error) {
	amount, err := money.Parse(d.amount)
	if err != nil {
		return transaction.CreateParams{}, err
	}

	date, err := time.Parse(time.DateOnly, strings.TrimSpace(d.date))
	if err != nil {
		return transaction.CreateParams{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}

	p := transaction.CreateParams{
		Date:        date,
		Description: d.description,
		Type:        transaction.Type(d.typ),
		PaymentMode: d.paymentMode,
		Amount:      amount,
	}

	if p.Type == transaction.TypeIncome {
		p.IncomeCategory = category.Income(d.category)
	} else {
		p.ExpenseCategory = category.Expense(d.category)
	}

	return p, nil
}

type TransactionsModel struct {
	txService *transaction.Service
	formatter *money.Formatter

	state txState
	table table.Model
	all   []*transaction.Transaction
	txs   []*transaction.Transaction
	form  *huh.Form
	draft *txDraft

	dateIdx int
	typeIdx int
	catIdx  int

	loading bool
	err     error
	status  string
}

func NewTransactionsModel(txSvc *transaction.Service, formatter *money.Formatter) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 15},
		{Title: "Amount", Width: 12},
		{Title: "Payment", Width: 14},
		{Title: "Description", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return TransactionsModel{
		txService: txSvc,
		formatter: formatter,
		table:     t,
		loading:   true,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	if m.state != txStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | x: delete | d: date | t: type | c: category | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TransactionsModel) criteria() filter.Criteria {
	typ := typeRanges[m.typeIdx]
	cats := categoryChoices(typ)

	return filter.Criteria{
		DateRange: dateRanges[m.dateIdx],
		Type:      typ,
		Category:  cats[m.catIdx%len(cats)],
	}
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case txLoadMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.all = msg.txs
		m.refreshTable()

		return m, nil

	case txSavedMsg:
		m.state = txStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = msg.status

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	if m.state == txStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "d":
			m.dateIdx = cycle(m.dateIdx, len(dateRanges))
			m.refreshTable()

			return m, nil
		case "t":
			m.typeIdx = cycle(m.typeIdx, len(typeRanges))
			m.catIdx = 0
			m.refreshTable()

			return m, nil
		case "c":
			m.catIdx = cycle(m.catIdx, len(categoryChoices(typeRanges[m.typeIdx])))
			m.refreshTable()

			return m, nil
		case "a":
			return m.enterAdd()
		case "x":
			return m.enterDelete()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) enterAdd() (tea.Model, tea.Cmd) {
	m.draft = &txDraft{
		typ:         string(transaction.TypeExpense),
		date:        time.Now().Format(time.DateOnly),
		paymentMode: "UPI",
	}
	d := m.draft

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.TypeExpense)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				).
				Value(&d.typ),
			huh.NewSelect[string]().
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					return categoryOptions(transaction.Type(d.typ))
				}, &d.typ).
				Value(&d.category),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Value(&d.amount).
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
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&d.date).
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
					return err
				}),
			huh.NewInput().
				Title("Description").
				CharLimit(200).
				Value(&d.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),
			huh.NewInput().
				Title("Payment Mode").
				Value(&d.paymentMode),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func categoryOptions(t transaction.Type) []huh.Option[string] {
	var opts []huh.Option[string]

	if t == transaction.TypeIncome {
		for _, c := range category.Incomes() {
			opts = append(opts, huh.NewOption(c.Name(), string(c)))
		}

		return opts
	}

	for _, c := range category.Expenses() {
		opts = append(opts, huh.NewOption(c.Name(), string(c)))
	}

	return opts
}

func (m TransactionsModel) enterDelete() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	m.draft = &txDraft{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q (%s)?", tx.Description, m.formatter.Format(tx.Amount))).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.draft.confirm),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == txStateDelete {
		if !m.draft.confirm {
			m.state = txStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		return m, m.deleteCmd(m.selected())
	}

	return m, m.createCmd(m.draft)
}

func (m TransactionsModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m *TransactionsModel) refreshTable() {
	m.txs = filter.Apply(m.all, m.criteria(), time.Now().UTC())

	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		name := category.Expense(tx.Category()).Name()
		if tx.Type == transaction.TypeIncome {
			name = category.Income(tx.Category()).Name()
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			name,
			m.formatter.Format(tx.Amount),
			tx.PaymentMode,
			tx.Description,
		})
	}

	m.table.SetRows(rows)
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	c := m.criteria()
	header := fmt.Sprintf(
		"Filter: [d] Date: %s | [t] Type: %s | [c] Category: %s",
		activeStyle(dateRangeLabels[c.DateRange]),
		activeStyle(string(c.Type)),
		activeStyle(c.Category),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		faintStyle.Render(fmt.Sprintf("%d of %d transactions", len(m.txs), len(m.all))),
	)

	if m.state != txStateBrowse && m.form != nil {
		title := "Add Transaction"
		if m.state == txStateDelete {
			title = "Delete Transaction"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(headerStyle.Render(title) + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type txLoadMsg struct {
	txs []*transaction.Transaction
	err error
}

type txSavedMsg struct {
	status string
	err    error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, transaction.ListFilter{})

		return txLoadMsg{txs: txs, err: err}
	}
}

func (m TransactionsModel) createCmd(d *txDraft) tea.Cmd {
	return func() tea.Msg {
		params, err := d.params()
		if err != nil {
			return txSavedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.txService.Create(ctx, params)
		if err != nil {
			return txSavedMsg{err: err}
		}

		return txSavedMsg{status: fmt.Sprintf("Added %s %s.", tx.Type, m.formatter.Format(tx.Amount))}
	}
}

func (m TransactionsModel) deleteCmd(tx *transaction.Transaction) tea.Cmd {
	if tx == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.txService.Delete(ctx, tx.ID); err != nil {
			return txSavedMsg{err: err}
		}

		return txSavedMsg{status: "Transaction deleted."}
	}
}
