package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const maxFormBody = 1 << 20

type FormHandler struct {
	UC *usecase.FormUseCase
}

func NewFormHandler(uc *usecase.FormUseCase) *FormHandler {
	return &FormHandler{UC: uc}
}

type patchable interface {
	ApplyPatch(patch []byte) error
}

// CustomerResponse acompanha o documento já mascarado para exibição.
type CustomerResponse struct {
	*entity.Customer
	DocumentFormatted string `json:"document_formatted"`
}

func newCustomerResponse(c *entity.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{Customer: c, DocumentFormatted: usecase.FormatDocument(c.Document)}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBody))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_BODY", "corpo inválido")
		return nil, false
	}
	return body, true
}

// readDraft aplica o corpo da requisição sobre o rascunho. Devolve false se já respondeu.
func readDraft(w http.ResponseWriter, r *http.Request, draft patchable) bool {
	body, ok := readBody(w, r)
	if !ok {
		return false
	}
	if err := draft.ApplyPatch(body); err != nil {
		writeUseCaseError(w, err)
		return false
	}
	return true
}

func respondCreated(w http.ResponseWriter, form string, v any, err error) {
	respondForm(w, form, "created", http.StatusCreated, v, err)
}

func respondUpdated(w http.ResponseWriter, form string, v any, err error) {
	respondForm(w, form, "updated", http.StatusOK, v, err)
}

func respondForm(w http.ResponseWriter, form, okResult string, status int, v any, err error) {
	if err != nil {
		result := usecase.ErrorCode(err)
		if result == "" {
			result = "INTERNAL_ERROR"
		}
		middleware.RecordFormSubmission(form, result)
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordFormSubmission(form, okResult)
	writeJSON(w, status, v)
}

// CreateDeal (POST /deals)
func (h *FormHandler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	draft := usecase.NewDealDraft("")
	if !readDraft(w, r, draft) {
		return
	}
	deal, err := h.UC.SubmitDeal(r.Context(), draft)
	respondCreated(w, "deal", deal, err)
}

// CreateCustomer (POST /customers)
func (h *FormHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	draft := &usecase.CustomerDraft{}
	if !readDraft(w, r, draft) {
		return
	}
	customer, err := h.UC.SubmitCustomer(r.Context(), draft)
	respondCreated(w, "customer", newCustomerResponse(customer), err)
}

// CreateAsset (POST /assets)
func (h *FormHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	draft := &usecase.AssetDraft{}
	if !readDraft(w, r, draft) {
		return
	}
	asset, err := h.UC.SubmitAsset(r.Context(), draft)
	respondCreated(w, "asset", asset, err)
}

// CreateAgent (POST /agents)
func (h *FormHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	draft := usecase.NewAgentDraft()
	if !readDraft(w, r, draft) {
		return
	}
	agent, err := h.UC.SubmitAgent(r.Context(), draft)
	respondCreated(w, "agent", agent, err)
}

// GetCustomer (GET /customers/{customerID})
func (h *FormHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.UC.FindCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCustomerResponse(customer))
}

// UpdateDeal (PUT /deals/{dealID})
func (h *FormHandler) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	deal, err := h.UC.UpdateDeal(r.Context(), chi.URLParam(r, "dealID"), body)
	respondUpdated(w, "deal", deal, err)
}

// UpdateCustomer (PUT /customers/{customerID})
func (h *FormHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	customer, err := h.UC.UpdateCustomer(r.Context(), chi.URLParam(r, "customerID"), body)
	respondUpdated(w, "customer", newCustomerResponse(customer), err)
}

// UpdateAsset (PUT /assets/{assetID})
func (h *FormHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	asset, err := h.UC.UpdateAsset(r.Context(), chi.URLParam(r, "assetID"), body)
	respondUpdated(w, "asset", asset, err)
}

// UpdateAgent (PUT /agents/{agentID})
func (h *FormHandler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	agent, err := h.UC.UpdateAgent(r.Context(), chi.URLParam(r, "agentID"), body)
	respondUpdated(w, "agent", agent, err)
}
