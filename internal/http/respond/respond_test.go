package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/spendwise/internal/budget"
	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/matching"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

func TestStatus(t *testing.T) {
	type testCase struct {
		name string
		err  error
		want int
	}

	tests := []testCase{
		{name: "not found", err: fmt.Errorf("getting: %w", transaction.ErrNotFound), want: http.StatusNotFound},
		{name: "transaction validation", err: transaction.ErrNegativeAmount, want: http.StatusUnprocessableEntity},
		{name: "budget validation", err: budget.ErrMissingMonth, want: http.StatusUnprocessableEntity},
		{name: "rule validation", err: matching.ErrInvalid, want: http.StatusUnprocessableEntity},
		{name: "duplicate budget", err: budget.ErrDuplicate, want: http.StatusConflict},
		{name: "unknown format", err: importer.ErrUnknownFormat, want: http.StatusBadRequest},
		{name: "unreadable statement", err: fmt.Errorf("%w: row 3: bad date", importer.ErrUnreadable), want: http.StatusBadRequest},
		{name: "store failure", err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respond.Status(tt.err))
		})
	}
}

func TestError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)

	respond.Error(rec, req, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error\n", rec.Body.String())
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	respond.JSON(rec, req, http.StatusCreated, map[string]int{"imported": 2})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"imported":2}`, rec.Body.String())
}
