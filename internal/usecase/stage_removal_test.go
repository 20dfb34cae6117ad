package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newRemoveStageFixture() (*usecase.RemoveStageUseCase, *memory.StageRepository, *memory.DealRepository, *usecase.DealBoard) {
	stages := memory.NewStageRepository(testStages()...)
	deals := memory.NewDealRepository(testDeals()...)
	board := usecase.NewDealBoard(testStages(), testDeals(), deals, nil)
	return usecase.NewRemoveStageUseCase(stages, deals, board), stages, deals, board
}

func TestRemoveStageReassignsDeals(t *testing.T) {
	uc, stages, deals, board := newRemoveStageFixture()
	ctx := context.Background()

	out, err := uc.Execute(ctx, usecase.RemoveStageInput{StageID: "s1", ReassignTo: "s2"})

	require.NoError(t, err)
	assert.Equal(t, 2, out.Reassigned)
	assert.Equal(t, 0, out.Removed)
	assert.Equal(t, `Etapa "Prospecção" removida`, out.Msg)

	_, err = stages.FindByID(ctx, "s1")
	assert.ErrorIs(t, err, entity.ErrStageNotFound)

	stored, _ := deals.List(ctx)
	for _, d := range stored {
		assert.Equal(t, "s2", d.StageID)
	}
	for _, d := range board.Deals() {
		assert.Equal(t, "s2", d.StageID)
	}
	assert.Len(t, board.Stages("p1"), 2)
}

func TestRemoveStageDeletesDealsWithoutTarget(t *testing.T) {
	uc, _, deals, board := newRemoveStageFixture()
	ctx := context.Background()

	out, err := uc.Execute(ctx, usecase.RemoveStageInput{StageID: "s1"})

	require.NoError(t, err)
	assert.Equal(t, 2, out.Removed)
	stored, _ := deals.List(ctx)
	assert.Equal(t, []string{"d3"}, dealIDs(stored))
	assert.Equal(t, []string{"d3"}, dealIDs(board.Deals()))
}

func TestRemoveStageValidation(t *testing.T) {
	uc, _, _, _ := newRemoveStageFixture()
	ctx := context.Background()

	tests := []struct {
		name  string
		input usecase.RemoveStageInput
		code  string
	}{
		{"sem etapa", usecase.RemoveStageInput{}, "VALIDATION_ERROR"},
		{"destino igual à origem", usecase.RemoveStageInput{StageID: "s1", ReassignTo: "s1"}, "VALIDATION_ERROR"},
		{"etapa inexistente", usecase.RemoveStageInput{StageID: "s9"}, "STAGE_NOT_FOUND"},
		{"destino inexistente", usecase.RemoveStageInput{StageID: "s1", ReassignTo: "s9"}, "STAGE_NOT_FOUND"},
		{"destino de outro pipeline", usecase.RemoveStageInput{StageID: "s1", ReassignTo: "x1"}, "PIPELINE_MISMATCH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.input)
			var de *usecase.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestRemoveStageCompensatesWhenStageDeleteFails(t *testing.T) {
	stage := &entity.Stage{ID: "s1", PipelineID: "p1", Title: "Prospecção"}
	target := &entity.Stage{ID: "s2", PipelineID: "p1", Title: "Proposta"}

	stages := new(MockStageRepository)
	stages.On("FindByID", mock.Anything, "s1").Return(stage, nil)
	stages.On("FindByID", mock.Anything, "s2").Return(target, nil)
	stages.On("Delete", mock.Anything, "s1").Return(errors.New("fk violation"))

	deals := new(MockDealRepository)
	deals.On("ReassignStage", mock.Anything, "s1", "s2").Return([]string{"d1", "d2"}, nil)
	deals.On("UpdateStage", mock.Anything, "d1", "s1").Return(nil)
	deals.On("UpdateStage", mock.Anything, "d2", "s1").Return(nil)

	board := usecase.NewDealBoard(testStages(), testDeals(), nil, nil)
	uc := usecase.NewRemoveStageUseCase(stages, deals, board)

	_, err := uc.Execute(context.Background(), usecase.RemoveStageInput{StageID: "s1", ReassignTo: "s2"})

	require.Error(t, err)
	assert.True(t, usecase.IsTechnicalError(err))
	deals.AssertExpectations(t)

	// o quadro não muda quando a remoção falha
	_, ok := board.Stage("s1")
	assert.True(t, ok)
	assert.Equal(t, testDeals(), board.Deals())
}

func TestRemoveStageRecreatesDeletedDealsOnFailure(t *testing.T) {
	stage := &entity.Stage{ID: "s1", PipelineID: "p1", Title: "Prospecção"}
	removed := testDeals()[:2]

	stages := new(MockStageRepository)
	stages.On("FindByID", mock.Anything, "s1").Return(stage, nil)
	stages.On("Delete", mock.Anything, "s1").Return(errors.New("timeout"))

	deals := new(MockDealRepository)
	deals.On("DeleteByStage", mock.Anything, "s1").Return(removed, nil)
	deals.On("Create", mock.Anything, mock.AnythingOfType("*entity.Deal")).Return(nil).Times(2)

	uc := usecase.NewRemoveStageUseCase(stages, deals, nil)
	_, err := uc.Execute(context.Background(), usecase.RemoveStageInput{StageID: "s1"})

	require.Error(t, err)
	deals.AssertExpectations(t)
}

func TestRemoveStageLookupFailureIsTechnical(t *testing.T) {
	stages := new(MockStageRepository)
	stages.On("FindByID", mock.Anything, "s1").Return(nil, errors.New("conexão recusada"))

	uc := usecase.NewRemoveStageUseCase(stages, new(MockDealRepository), nil)
	_, err := uc.Execute(context.Background(), usecase.RemoveStageInput{StageID: "s1"})

	assert.True(t, usecase.IsTechnicalError(err))
}
