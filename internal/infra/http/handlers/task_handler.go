package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type TaskHandler struct {
	Board *usecase.TaskBoard
}

func NewTaskHandler(board *usecase.TaskBoard) *TaskHandler {
	return &TaskHandler{Board: board}
}

// HandleBoard (GET /tasks/board)
func (h *TaskHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	q, err := parseTaskQuery(r.URL.Query())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Board.Columns(q))
}

// HandleDealTasks (GET /deals/{dealID}/tasks)
func (h *TaskHandler) HandleDealTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Board.TasksForDeal(chi.URLParam(r, "dealID")))
}

// HandleDrag (POST /tasks/drag)
func (h *TaskHandler) HandleDrag(w http.ResponseWriter, r *http.Request) {
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
		middleware.RecordBoardMove("tasks", "error")
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordBoardMove("tasks", string(res.Outcome))

	writeJSON(w, http.StatusOK, DragResponse{
		Outcome: res.Outcome,
		Message: res.Message,
		Task:    res.Task,
	})
}
