package usecase

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type RemoveStageInput struct {
	StageID    string `json:"stage_id"`
	ReassignTo string `json:"reassign_to"` // vazio = remove os negócios da etapa
}

type RemoveStageOutput struct {
	StageID    string `json:"stage_id"`
	Reassigned int    `json:"reassigned"`
	Removed    int    `json:"removed"`
	Msg        string `json:"msg"`
}

// RemoveStageUseCase apaga uma etapa cuidando antes dos negócios que dependem dela.
type RemoveStageUseCase struct {
	Stages entity.StageRepository
	Deals  entity.DealRepository
	Board  *DealBoard
}

func NewRemoveStageUseCase(stages entity.StageRepository, deals entity.DealRepository, board *DealBoard) *RemoveStageUseCase {
	return &RemoveStageUseCase{Stages: stages, Deals: deals, Board: board}
}

func (uc *RemoveStageUseCase) Execute(ctx context.Context, input RemoveStageInput) (*RemoveStageOutput, error) {
	if input.StageID == "" {
		return nil, newValidationFailure([]ValidationError{{"stage_id", "is required"}})
	}
	if input.ReassignTo == input.StageID {
		return nil, newValidationFailure([]ValidationError{{"reassign_to", "must differ from stage_id"}})
	}

	stage, err := uc.findStage(ctx, input.StageID)
	if err != nil {
		return nil, err
	}
	if input.ReassignTo != "" {
		target, err := uc.findStage(ctx, input.ReassignTo)
		if err != nil {
			return nil, err
		}
		if target.PipelineID != stage.PipelineID {
			return nil, domainError(CodePipelineMismatch, "a etapa de destino pertence a outro pipeline")
		}
	}

	var (
		moved   []string
		removed []entity.Deal
	)
	saga := NewSaga("remove_stage")

	if input.ReassignTo != "" {
		saga.Step("reassign_deals",
			func(ctx context.Context) error {
				ids, err := uc.Deals.ReassignStage(ctx, stage.ID, input.ReassignTo)
				moved = ids
				return err
			},
			func(ctx context.Context) error {
				for _, id := range moved {
					if err := uc.Deals.UpdateStage(ctx, id, stage.ID); err != nil {
						return err
					}
				}
				return nil
			})
	} else {
		saga.Step("delete_deals",
			func(ctx context.Context) error {
				deals, err := uc.Deals.DeleteByStage(ctx, stage.ID)
				removed = deals
				return err
			},
			func(ctx context.Context) error {
				for i := range removed {
					if err := uc.Deals.Create(ctx, &removed[i]); err != nil {
						return err
					}
				}
				return nil
			})
	}

	saga.Step("delete_stage", func(ctx context.Context) error {
		return uc.Stages.Delete(ctx, stage.ID)
	}, nil)

	if err := saga.Run(ctx); err != nil {
		return nil, databaseError("falha ao remover etapa", err)
	}

	if uc.Board != nil {
		uc.Board.RemoveStage(stage.ID, input.ReassignTo)
	}

	log.Printf("🗑️ Etapa %s removida (%d negócios realocados, %d removidos)", stage.Title, len(moved), len(removed))
	return &RemoveStageOutput{
		StageID:    stage.ID,
		Reassigned: len(moved),
		Removed:    len(removed),
		Msg:        fmt.Sprintf(`Etapa "%s" removida`, stage.Title),
	}, nil
}

func (uc *RemoveStageUseCase) findStage(ctx context.Context, id string) (*entity.Stage, error) {
	stage, err := uc.Stages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrStageNotFound) {
			return nil, domainError(CodeStageNotFound, "etapa não encontrada: %s", id)
		}
		return nil, databaseError("falha ao buscar etapa", err)
	}
	return stage, nil
}
