package budget

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/aggregate"
	"github.com/MrJamesThe3rd/spendwise/internal/budget"
	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
)

const monthLayout = "2006-01"

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

type budgetResponse struct {
	ID              uuid.UUID        `json:"id"`
	ExpenseCategory category.Expense `json:"expense_category"`
	CategoryName    string           `json:"category_name"`
	Month           string           `json:"month"`
	Amount          decimal.Decimal  `json:"amount"`
	CreatedAt       time.Time        `json:"created_at"`
}

type summaryResponse struct {
	budgetResponse
	Spent     decimal.Decimal  `json:"spent"`
	Status    aggregate.Status `json:"status"`
	Percent   decimal.Decimal  `json:"percent"`
	Remaining decimal.Decimal  `json:"remaining"`
}

func toResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{
		ID:              b.ID,
		ExpenseCategory: b.ExpenseCategory,
		CategoryName:    b.ExpenseCategory.Name(),
		Month:           b.Month.Format(monthLayout),
		Amount:          b.Amount,
		CreatedAt:       b.CreatedAt,
	}
}

// parseMonth accepts YYYY-MM or a full YYYY-MM-DD date.
func parseMonth(s string) (time.Time, error) {
	if t, err := time.Parse(monthLayout, s); err == nil {
		return t, nil
	}

	return time.Parse(time.DateOnly, s)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := budget.ListFilter{}

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := parseMonth(s)
		if err != nil {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}

		filter.Month = &m
	}

	summaries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]summaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, summaryResponse{
			budgetResponse: toResponse(s.Budget),
			Spent:          s.Spent,
			Status:         s.Status,
			Percent:        s.Percent,
			Remaining:      s.Remaining,
		})
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

type createBudgetRequest struct {
	ExpenseCategory string          `json:"expense_category"`
	Month           string          `json:"month"`
	Amount          decimal.Decimal `json:"amount"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := budget.CreateParams{
		ExpenseCategory: category.Expense(req.ExpenseCategory),
		Amount:          req.Amount,
	}

	if req.Month != "" {
		m, err := parseMonth(req.Month)
		if err != nil {
			respond.Error(w, r, fmt.Errorf("%w: month %q is not YYYY-MM", budget.ErrInvalid, req.Month))
			return
		}

		params.Month = m
	}

	b, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toResponse(b))
}
