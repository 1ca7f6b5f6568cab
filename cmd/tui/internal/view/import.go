package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importStep int

const (
	importStepPick importStep = iota
	importStepParsing
	importStepReview
	importStepSaving
	importStepDone
)

// ImportModel walks through picking a statement, reviewing possible duplicates and saving.
// The statement format comes from the file extension.
type ImportModel struct {
	txService     *transaction.Service
	importService *importer.Service
	formatter     *money.Formatter

	step    importStep
	picker  filepicker.Model
	spinner spinner.Model
	review  table.Model

	file      string
	fresh     []transaction.CreateParams
	conflicts []transaction.Conflict
	keep      []bool

	saved int
	err   error
}

func NewImportModel(txSvc *transaction.Service, impSvc *importer.Service, formatter *money.Formatter) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".ofx", ".qfx"}
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Keep", Width: 5},
			{Title: "Date", Width: 12},
			{Title: "Type", Width: 8},
			{Title: "Amount", Width: 12},
			{Title: "Description", Width: 30},
			{Title: "Existing since", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return ImportModel{
		txService:     txSvc,
		importService: impSvc,
		formatter:     formatter,
		picker:        fp,
		spinner:       s,
		review:        t,
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.step {
	case importStepReview:
		return "Space: keep/skip | a: keep all | n: skip all | Enter: save | Esc: cancel"
	case importStepParsing, importStepSaving:
		return "Working..."
	case importStepDone:
		return "Esc: import another"
	}

	return "Enter: open | Esc: back"
}

func (m ImportModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.cancel()
		}

	case parsedMsg:
		return m.onParsed(msg)

	case savedMsg:
		m.step = importStepDone
		m.saved = msg.count
		m.err = msg.err

		return m, nil
	}

	switch m.step {
	case importStepPick:
		return m.updatePick(msg)
	case importStepReview:
		return m.updateReview(msg)
	case importStepParsing, importStepSaving:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ImportModel) cancel() (tea.Model, tea.Cmd) {
	switch m.step {
	case importStepReview, importStepDone:
		m.step = importStepPick
		m.fresh, m.conflicts, m.keep = nil, nil, nil
		m.saved = 0
		m.err = nil

		return m, m.picker.Init()
	case importStepParsing, importStepSaving:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updatePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	ok, path := m.picker.DidSelectFile(msg)
	if !ok {
		return m, cmd
	}

	format, err := importer.ParseFormat(filepath.Ext(path))
	if err != nil {
		m.step = importStepDone
		m.err = err

		return m, nil
	}

	m.file = path
	m.step = importStepParsing

	return m, tea.Batch(m.spinner.Tick, m.parseCmd(path, format))
}

func (m ImportModel) onParsed(msg parsedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.step = importStepDone
		m.err = msg.err

		return m, nil
	}

	if len(msg.result.Conflicts) == 0 {
		m.step = importStepDone
		m.saved = len(msg.result.Imported)

		return m, nil
	}

	m.step = importStepReview
	m.fresh = msg.result.New
	m.conflicts = msg.result.Conflicts
	m.keep = make([]bool, len(m.conflicts))
	m.review.SetRows(m.reviewRows())
	m.review.SetCursor(0)

	return m, nil
}

func (m ImportModel) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case " ":
			if i := m.review.Cursor(); i >= 0 && i < len(m.keep) {
				m.keep[i] = !m.keep[i]
			}
		case "a", "n":
			for i := range m.keep {
				m.keep[i] = key.String() == "a"
			}
		case "enter":
			m.step = importStepSaving

			return m, tea.Batch(m.spinner.Tick, m.saveCmd())
		default:
			var cmd tea.Cmd
			m.review, cmd = m.review.Update(msg)

			return m, cmd
		}

		m.review.SetRows(m.reviewRows())

		return m, nil
	}

	return m, nil
}

func (m ImportModel) reviewRows() []table.Row {
	rows := make([]table.Row, len(m.conflicts))

	for i, c := range m.conflicts {
		mark := "[ ]"
		if m.keep[i] {
			mark = "[x]"
		}

		rows[i] = table.Row{
			mark,
			FormatDate(c.Incoming.Date),
			string(c.Incoming.Type),
			m.formatter.Format(c.Incoming.Amount),
			c.Incoming.Description,
			FormatDate(c.Existing.CreatedAt),
		}
	}

	return rows
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case importStepPick:
		return pad.Render("Pick a CSV or OFX statement:\n\n" + m.picker.View())
	case importStepParsing:
		return pad.Render(fmt.Sprintf("%s Reading %s...", m.spinner.View(), filepath.Base(m.file)))
	case importStepSaving:
		return pad.Render(fmt.Sprintf("%s Saving...", m.spinner.View()))
	case importStepReview:
		return pad.Render(m.viewReview())
	case importStepDone:
		if m.err != nil {
			return pad.Render(errorStyle.Render(fmt.Sprintf("Import failed: %v", m.err)))
		}

		return pad.Render(successStyle.Render(fmt.Sprintf("Imported %d transactions.", m.saved)))
	}

	return ""
}

func (m ImportModel) viewReview() string {
	income, expenses := decimal.Zero, decimal.Zero

	for _, p := range m.fresh {
		if p.Type == transaction.TypeIncome {
			income = income.Add(p.Amount)
		} else {
			expenses = expenses.Add(p.Amount)
		}
	}

	kept := 0

	for _, k := range m.keep {
		if k {
			kept++
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(filepath.Base(m.file)),
		fmt.Sprintf("%d new rows (income %s, expenses %s)",
			len(m.fresh), m.formatter.Format(income), m.formatter.Format(expenses)),
		warnStyle.Render(fmt.Sprintf("%d rows match saved transactions, %d marked to keep", len(m.conflicts), kept)),
		"",
		m.review.View(),
	)
}

type parsedMsg struct {
	result *transaction.ImportResult
	err    error
}

type savedMsg struct {
	count int
	err   error
}

func (m ImportModel) parseCmd(path string, format importer.Format) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		params, err := m.importService.Import(ctx, format, f)
		if err != nil {
			return parsedMsg{err: err}
		}

		result, err := m.txService.ImportBatch(ctx, params)

		return parsedMsg{result: result, err: err}
	}
}

func (m ImportModel) saveCmd() tea.Cmd {
	params := append([]transaction.CreateParams(nil), m.fresh...)

	for i, c := range m.conflicts {
		if m.keep[i] {
			params = append(params, c.Incoming)
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := m.txService.CreateBatch(ctx, params)

		return savedMsg{count: len(txs), err: err}
	}
}
