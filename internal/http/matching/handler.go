package matching

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
	"github.com/MrJamesThe3rd/spendwise/internal/matching"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.learn)
	r.Get("/suggest", h.suggest)
}

type ruleResponse struct {
	ID        uuid.UUID        `json:"id"`
	Pattern   string           `json:"pattern"`
	Type      transaction.Type `json:"type"`
	Category  string           `json:"category"`
	CreatedAt time.Time        `json:"created_at"`
}

func toResponse(r *matching.Rule) ruleResponse {
	return ruleResponse{
		ID:        r.ID,
		Pattern:   r.Pattern,
		Type:      r.Type,
		Category:  r.Category,
		CreatedAt: r.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		resp = append(resp, toResponse(rule))
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

type suggestResponse struct {
	Description string           `json:"description"`
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	if desc == "" {
		http.Error(w, "description query parameter is required", http.StatusBadRequest)
		return
	}

	typ := transaction.Type(r.URL.Query().Get("type"))
	if !typ.Valid() {
		http.Error(w, "type must be income or expense", http.StatusBadRequest)
		return
	}

	cat, err := h.svc.Suggest(r.Context(), typ, desc)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, suggestResponse{
		Description: desc,
		Type:        typ,
		Category:    cat,
	})
}

type learnRequest struct {
	Pattern  string           `json:"pattern"`
	Type     transaction.Type `json:"type"`
	Category string           `json:"category"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	rule, err := h.svc.Learn(r.Context(), req.Pattern, req.Type, req.Category)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toResponse(rule))
}
