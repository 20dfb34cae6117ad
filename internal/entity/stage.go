package entity

import (
	"context"
	"errors"
	"sort"
)

var ErrStageNotFound = errors.New("etapa não encontrada")

type Pipeline struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DepartmentID string `json:"department_id,omitempty"`
}

type Stage struct {
	ID         string `json:"id"`
	PipelineID string `json:"pipeline_id"`
	Title      string `json:"title"`
	Order      int    `json:"order"`

	// status_id da etapa equivalente no Kommo
	ExternalStatusID int `json:"external_status_id,omitempty"`
}

// SortStages ordena por Order; empates mantêm a ordem de entrada.
func SortStages(stages []Stage) {
	sort.SliceStable(stages, func(i, j int) bool {
		return stages[i].Order < stages[j].Order
	})
}

type StageRepository interface {
	List(ctx context.Context) ([]Stage, error)
	FindByID(ctx context.Context, id string) (*Stage, error)
	Delete(ctx context.Context, id string) error
}
