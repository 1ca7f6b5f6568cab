package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendwise/internal/money"
	"github.com/MrJamesThe3rd/spendwise/internal/report"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type exportDraft struct {
	period string
	format string
	path   string
}

type ExportModel struct {
	reportService *report.Service
	formatter     *money.Formatter

	state   exportState
	err     error
	form    *huh.Form
	draft   *exportDraft
	spinner spinner.Model
	result  exportResultMsg
}

func NewExportModel(svc *report.Service, formatter *money.Formatter) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		reportService: svc,
		formatter:     formatter,
		state:         exportStateForm,
		draft: &exportDraft{
			period: string(report.OneMonth),
			format: "xlsx",
			path:   "./exports",
		},
		spinner: s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Download Report" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Period").
				Options(
					huh.NewOption("Last month", string(report.OneMonth)),
					huh.NewOption("Last 3 months", string(report.ThreeMonths)),
					huh.NewOption("Last year", string(report.OneYear)),
				).
				Value(&m.draft.period),
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("Excel workbook", "xlsx"),
					huh.NewOption("CSV", "csv"),
				).
				Value(&m.draft.format),
			huh.NewInput().
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.draft.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.draft))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.result = result

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Building report...", m.spinner.View()),
		)
	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	r := m.result.report

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			successStyle.Bold(true).Render("Report saved!"),
			"",
			m.result.path,
			"",
			fmt.Sprintf("Transactions:   %d", len(r.Rows)),
			fmt.Sprintf("Total Income:   %s", m.formatter.Format(r.TotalIncome)),
			fmt.Sprintf("Total Expenses: %s", m.formatter.Format(r.TotalExpenses)),
			fmt.Sprintf("Net Balance:    %s", m.formatter.Format(r.NetBalance)),
		),
	)
}

type exportResultMsg struct {
	path   string
	report *report.Report
	err    error
}

func (m ExportModel) runExportCmd(d exportDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		now := time.Now().UTC()
		period := report.ParsePeriod(d.period)

		rep, err := m.reportService.Build(ctx, period, now)
		if err != nil {
			return exportResultMsg{err: err}
		}

		if err := os.MkdirAll(d.path, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
		}

		path := filepath.Join(d.path, report.FileName(period, now, d.format))

		write := m.reportService.WriteXLSX
		if d.format == "csv" {
			write = m.reportService.WriteCSV
		}

		if err := writeFile(path, rep, write); err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{path: path, report: rep}
	}
}

func writeFile(path string, rep *report.Report, write func(io.Writer, *report.Report) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := write(f, rep); err != nil {
		f.Close()
		return fmt.Errorf("writing report: %w", err)
	}

	return f.Close()
}
