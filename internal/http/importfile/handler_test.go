package importfile_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/http/importfile"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

const statement = `Date,Description,Amount
2024-01-18,BIGBASKET,-150
2024-01-15,ACME PAYROLL,5000
`

func newRouter(t *testing.T) (http.Handler, *gomock.Controller, *transaction.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	h := importfile.NewHandler(importer.NewService(nil), transaction.NewService(repo))

	r := chi.NewRouter()
	r.Route("/import", h.Routes)

	return r, ctrl, repo
}

func upload(t *testing.T, h http.Handler, filename, format, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	if format != "" {
		require.NoError(t, mw.WriteField("format", format))
	}

	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Import_Created(t *testing.T) {
	router, ctrl, repo := newRouter(t)
	itx := transaction.NewMockImportTx(ctrl)

	repo.EXPECT().
		BeginImport(gomock.Any(), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)).
		Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Len(2)).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	rec := upload(t, router, "statement.csv", "", statement)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got struct {
		Imported     int `json:"imported"`
		Transactions []struct {
			Type            string `json:"type"`
			IncomeCategory  string `json:"income_category"`
			ExpenseCategory string `json:"expense_category"`
		} `json:"transactions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	assert.Equal(t, 2, got.Imported)
	assert.Equal(t, "other", got.Transactions[0].ExpenseCategory)
	assert.Equal(t, "other", got.Transactions[1].IncomeCategory)
}

func TestHandler_Import_Conflict(t *testing.T) {
	router, ctrl, repo := newRouter(t)
	itx := transaction.NewMockImportTx(ctrl)

	existing := &transaction.Transaction{
		ID:              uuid.New(),
		Date:            time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC),
		Description:     "BIGBASKET",
		Type:            transaction.TypeExpense,
		ExpenseCategory: category.Groceries,
		PaymentMode:     "UPI",
		Amount:          decimal.NewFromInt(150),
	}

	repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	rec := upload(t, router, "upload.bin", "csv", statement)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	var got struct {
		New       []json.RawMessage `json:"new"`
		Conflicts []struct {
			Incoming struct {
				Description string `json:"description"`
			} `json:"incoming"`
			Existing struct {
				ID string `json:"id"`
			} `json:"existing"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	assert.Len(t, got.New, 1)
	require.Len(t, got.Conflicts, 1)
	assert.Equal(t, "BIGBASKET", got.Conflicts[0].Incoming.Description)
	assert.Equal(t, existing.ID.String(), got.Conflicts[0].Existing.ID)
}

func TestHandler_Import_BadInput(t *testing.T) {
	type testCase struct {
		name     string
		filename string
		format   string
		content  string
	}

	tests := []testCase{
		{name: "UnknownFormat", filename: "statement.pdf", content: statement},
		{name: "UnknownLayout", filename: "statement.csv", content: "foo,bar\n1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, _ := newRouter(t)

			rec := upload(t, router, tt.filename, tt.format, tt.content)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_Import_MissingFile(t *testing.T) {
	router, _, _ := newRouter(t)

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("format", "csv"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Confirm(t *testing.T) {
	router, ctrl, repo := newRouter(t)
	itx := transaction.NewMockImportTx(ctrl)

	repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	body := `{"params":[{"date":"2024-01-18","description":"BIGBASKET","type":"expense","expense_category":"groceries","payment_mode":"UPI","amount":"150"}]}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/confirm", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"imported":1`)
}

func TestHandler_Confirm_InvalidRow(t *testing.T) {
	router, _, _ := newRouter(t)

	body := `{"params":[{"date":"2024-01-18","description":"","type":"expense","expense_category":"groceries","payment_mode":"UPI","amount":"150"}]}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/confirm", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
