package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type option struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

type listResponse struct {
	Income  []option `json:"income"`
	Expense []option `json:"expense"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	resp := listResponse{}

	for _, c := range category.Incomes() {
		resp.Income = append(resp.Income, option{Value: string(c), Name: c.Name()})
	}

	for _, c := range category.Expenses() {
		resp.Expense = append(resp.Expense, option{Value: string(c), Name: c.Name()})
	}

	respond.JSON(w, r, http.StatusOK, resp)
}
