package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/spendwise/internal/http/budget"
	"github.com/MrJamesThe3rd/spendwise/internal/http/category"
	"github.com/MrJamesThe3rd/spendwise/internal/http/dashboard"
	"github.com/MrJamesThe3rd/spendwise/internal/http/export"
	"github.com/MrJamesThe3rd/spendwise/internal/http/importfile"
	"github.com/MrJamesThe3rd/spendwise/internal/http/matching"
	"github.com/MrJamesThe3rd/spendwise/internal/http/transaction"
)

type Options struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

type Handlers struct {
	Transactions *transaction.Handler
	Dashboard    *dashboard.Handler
	Budgets      *budget.Handler
	Export       *export.Handler
	Import       *importfile.Handler
	Rules        *matching.Handler
	Categories   *category.Handler
}

func New(opts Options, v1 Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Transactions.Routes(r)
		})

		r.Group(v1.Dashboard.Routes)

		r.Route("/budgets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Budgets.Routes(r)
		})

		r.Route("/export", v1.Export.Routes)
		r.Route("/import", v1.Import.Routes)
		r.Route("/rules", v1.Rules.Routes)
		r.Route("/categories", v1.Categories.Routes)
	})

	return router
}
