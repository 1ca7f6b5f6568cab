package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendwise/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/spendwise/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/spendwise/internal/budget/store"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
	"github.com/MrJamesThe3rd/spendwise/internal/dashboard"
	"github.com/MrJamesThe3rd/spendwise/internal/database"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/logging"
	"github.com/MrJamesThe3rd/spendwise/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/spendwise/internal/matching/store"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
	"github.com/MrJamesThe3rd/spendwise/internal/report"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/spendwise/internal/transaction/store"
)

type services struct {
	tx        *transaction.Service
	budget    *budget.Service
	dashboard *dashboard.Service
	importer  *importer.Service
	report    *report.Service
	formatter *money.Formatter
}

type model struct {
	svc     services
	appName string

	current view.View
}

var menu = []string{
	"Dashboard",
	"Transactions",
	"Budgets",
	"Import Statement",
	"Download Report",
}

func (m model) open(choice string) view.View {
	switch choice {
	case "1":
		return view.NewDashboardModel(m.svc.dashboard, m.svc.formatter)
	case "2":
		return view.NewTransactionsModel(m.svc.tx, m.svc.formatter)
	case "3":
		return view.NewBudgetsModel(m.svc.budget, m.svc.formatter)
	case "4":
		return view.NewImportModel(m.svc.tx, m.svc.importer, m.svc.formatter)
	case "5":
		return view.NewExportModel(m.svc.report, m.svc.formatter)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			if v := m.open(msg.String()); v != nil {
				m.current = v
				return m, v.Init()
			}

			return m, nil
		}
	case view.BackMsg:
		m.current = nil
		return m, nil
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

func (m model) View() string {
	if m.current == nil {
		s := m.appName + "\n\n"
		for i, item := range menu {
			s += fmt.Sprintf("%d. %s\n", i+1, item)
		}

		return lipgloss.NewStyle().Padding(2).Render(s + "\nq. Quit")
	}

	header := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(m.current.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(m.current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, header, m.current.View(), help)
}

func initialModel() (model, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return model{}, nil, err
	}

	// The TUI owns the terminal, so logs go to LOG_FILE or nowhere.
	var (
		logOut  io.Writer = io.Discard
		logFile *os.File
	)

	if cfg.App.LogFile != "" {
		logFile, err = os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return model{}, nil, fmt.Errorf("opening log file: %w", err)
		}

		logOut = logFile
	}

	logging.Setup(logOut, cfg.App.LogLevel, cfg.App.LogFormat)

	db, err := database.New(context.Background(), cfg.ConnectionString(), database.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return model{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		return model{}, nil, err
	}

	txSvc := transaction.NewService(txStore.New(db))
	formatter := money.NewFormatter(cfg.Display.Locale, cfg.Display.Currency)

	svc := services{
		tx:        txSvc,
		budget:    budget.NewService(budgetStore.New(db), txSvc),
		dashboard: dashboard.NewService(txSvc, cfg.Dashboard.Months),
		importer:  importer.NewService(matching.NewService(matchingStore.New(db))),
		report:    report.NewService(txSvc, formatter),
		formatter: formatter,
	}

	cleanup := func() {
		db.Close()

		if logFile != nil {
			logFile.Close()
		}
	}

	return model{svc: svc, appName: cfg.App.Name}, cleanup, nil
}

func main() {
	m, cleanup, err := initialModel()
	if err != nil {
		slog.Error("failed to start TUI", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
