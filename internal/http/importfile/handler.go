package importfile

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
	txHandler "github.com/MrJamesThe3rd/spendwise/internal/http/transaction"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
	r.Post("/confirm", h.confirmImport)
}

type importSuccessResponse struct {
	Imported     int                  `json:"imported"`
	Transactions []txHandler.Response `json:"transactions"`
}

type conflictDTO struct {
	Incoming txHandler.ParamsResponse `json:"incoming"`
	Existing txHandler.Response       `json:"existing"`
}

type importConflictResponse struct {
	New       []txHandler.ParamsResponse `json:"new"`
	Conflicts []conflictDTO              `json:"conflicts"`
}

type confirmRequest struct {
	Params []txHandler.Request `json:"params"`
}

// importFile takes a multipart upload with a file field and an optional format field.
// Without a format the file extension decides.
func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rawFormat := r.FormValue("format")
	if rawFormat == "" {
		rawFormat = filepath.Ext(header.Filename)
	}

	format, err := importer.ParseFormat(rawFormat)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	params, err := h.importSvc.Import(r.Context(), format, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	result, err := h.txSvc.ImportBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]txHandler.ParamsResponse, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, txHandler.ToParamsResponse(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: txHandler.ToParamsResponse(c.Incoming),
				Existing: txHandler.ToResponse(c.Existing),
			})
		}

		respond.JSON(w, r, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, r, http.StatusCreated, toSuccessResponse(result.Imported))
}

// confirmImport writes the rows the user kept after resolving conflicts.
func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		cp, err := p.Params()
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		params = append(params, cp)
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toSuccessResponse(txs))
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: txHandler.ToResponseList(txs),
	}
}
