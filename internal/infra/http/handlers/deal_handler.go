package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type DealHandler struct {
	Board *usecase.DealBoard
}

func NewDealHandler(board *usecase.DealBoard) *DealHandler {
	return &DealHandler{Board: board}
}

type DragResponse struct {
	Outcome usecase.DragOutcome `json:"outcome"`
	Message string              `json:"message,omitempty"`
	Deal    *entity.Deal        `json:"deal,omitempty"`
	Task    *entity.Task        `json:"task,omitempty"`
}

// HandleList (GET /deals)
func (h *DealHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q, err := parseDealQuery(r.URL.Query())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Board.List(q))
}

// HandleBoard (GET /pipelines/{pipelineID}/board)
func (h *DealHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	pipelineID := chi.URLParam(r, "pipelineID")
	q, err := parseDealQuery(r.URL.Query())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	cols := h.Board.Columns(pipelineID, q)
	if len(cols) == 0 {
		writeErrorResponse(w, http.StatusNotFound, "PIPELINE_NOT_FOUND", "pipeline sem etapas: "+pipelineID)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

// HandleDrag (POST /deals/drag)
func (h *DealHandler) HandleDrag(w http.ResponseWriter, r *http.Request) {
	var ev usecase.DragEndEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}
	if ev.DraggableID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "draggableId is required")
		return
	}

	res, err := h.Board.HandleDragEnd(r.Context(), ev)
	if err != nil {
		middleware.RecordBoardMove("deals", "error")
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordBoardMove("deals", string(res.Outcome))

	// no-op e id desconhecido também respondem 200: para o quadro nada mudou.
	writeJSON(w, http.StatusOK, DragResponse{
		Outcome: res.Outcome,
		Message: res.Message,
		Deal:    res.Deal,
	})
}
