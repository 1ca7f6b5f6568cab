package category_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	categoryHandler "github.com/MrJamesThe3rd/spendwise/internal/http/category"
)

func TestHandler_List(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/categories", categoryHandler.NewHandler().Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string][]struct {
		Value string `json:"value"`
		Name  string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	require.Len(t, got["income"], 3)
	assert.Equal(t, "salary", got["income"][0].Value)
	assert.Equal(t, "Salary", got["income"][0].Name)

	require.Len(t, got["expense"], 6)
	assert.Equal(t, "other", got["expense"][5].Value)
}
