package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type StageHandler struct {
	RemoveStageUC *usecase.RemoveStageUseCase
}

func NewStageHandler(uc *usecase.RemoveStageUseCase) *StageHandler {
	return &StageHandler{RemoveStageUC: uc}
}

// HandleDelete (DELETE /stages/{stageID}?reassign_to=)
func (h *StageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	input := usecase.RemoveStageInput{
		StageID:    chi.URLParam(r, "stageID"),
		ReassignTo: r.URL.Query().Get("reassign_to"),
	}

	output, err := h.RemoveStageUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}
