package dashboard

import (
	"cmp"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/aggregate"
	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/dashboard"
	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
	txHandler "github.com/MrJamesThe3rd/spendwise/internal/http/transaction"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type Handler struct {
	svc *dashboard.Service
	now func() time.Time
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc, now: func() time.Time { return time.Now().UTC() }}
}

// Routes registers /dashboard, /income and /expenses on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.overview)
	r.Get("/income", h.categories(transaction.TypeIncome))
	r.Get("/expenses", h.categories(transaction.TypeExpense))
}

type bucketResponse struct {
	Label string          `json:"label"`
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type trendsResponse struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

type overviewResponse struct {
	TotalIncome   decimal.Decimal  `json:"total_income"`
	TotalExpenses decimal.Decimal  `json:"total_expenses"`
	Balance       decimal.Decimal  `json:"balance"`
	Spending      []bucketResponse `json:"spending"`
	Trends        trendsResponse   `json:"trends"`
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.svc.Overview(r.Context(), h.now())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := overviewResponse{
		TotalIncome:   ov.TotalIncome,
		TotalExpenses: ov.TotalExpenses,
		Balance:       ov.Balance,
		Spending:      make([]bucketResponse, 0, len(ov.Spending)),
		Trends: trendsResponse{
			Income:   ov.Trends.Income,
			Expenses: ov.Trends.Expenses,
			Balance:  ov.Trends.Balance,
		},
	}

	for _, b := range ov.Spending {
		resp.Spending = append(resp.Spending, bucketResponse{
			Label: b.Label,
			Year:  b.Year,
			Month: int(b.Month),
			Total: b.Total,
		})
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

type categoryTotalResponse struct {
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	LastDate string          `json:"last_date"`
}

type categoryViewResponse struct {
	Type         transaction.Type        `json:"type"`
	Total        decimal.Decimal         `json:"total"`
	Breakdown    []categoryTotalResponse `json:"breakdown"`
	Transactions []txHandler.Response    `json:"transactions"`
}

func displayName(t transaction.Type, key string) string {
	if t == transaction.TypeIncome {
		return category.Income(key).Name()
	}

	return category.Expense(key).Name()
}

// breakdown orders categories by total, largest first.
func breakdown(t transaction.Type, totals map[string]aggregate.CategoryTotal) []categoryTotalResponse {
	out := make([]categoryTotalResponse, 0, len(totals))
	for key, ct := range totals {
		out = append(out, categoryTotalResponse{
			Category: key,
			Name:     displayName(t, key),
			Total:    ct.Total,
			Count:    ct.Count,
			LastDate: ct.LastDate.Format(time.DateOnly),
		})
	}

	slices.SortFunc(out, func(a, b categoryTotalResponse) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	return out
}

func (h *Handler) categories(t transaction.Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.svc.Categories(r.Context(), t)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, r, http.StatusOK, categoryViewResponse{
			Type:         view.Type,
			Total:        view.Total,
			Breakdown:    breakdown(view.Type, view.Breakdown),
			Transactions: txHandler.ToResponseList(view.Transactions),
		})
	}
}
