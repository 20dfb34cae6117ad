package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func testTasks() []entity.Task {
	return []entity.Task{
		{ID: "t1", Title: "Ligar", Status: entity.TaskOpen, Priority: entity.PriorityHigh, DealID: "d1"},
		{ID: "t2", Title: "Proposta", Description: "enviar PDF", Status: entity.TaskProcessing, Priority: entity.PriorityMedium},
		{ID: "t3", Title: "Contrato", Status: entity.TaskCompleted, Priority: entity.PriorityHigh, DealID: "d1"},
		{ID: "t4", Title: "Reunião", Status: entity.TaskCancelled, Priority: entity.PriorityLow},
		{ID: "t5", Title: "Cadastro", Status: entity.TaskOpen, Priority: entity.PriorityLow},
	}
}

func taskIDs(tasks []entity.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestTaskColumnTableIsBijective(t *testing.T) {
	for _, col := range entity.TaskColumns() {
		status, ok := entity.StatusForColumn(col)
		require.True(t, ok, col)
		back, ok := entity.ColumnForStatus(status)
		require.True(t, ok, status)
		assert.Equal(t, col, back)
		assert.NotEmpty(t, entity.ColumnTitle(col))
	}

	_, ok := entity.StatusForColumn("backlog")
	assert.False(t, ok)
}

func TestOrganizeTasksByColumnPartitionsEveryTask(t *testing.T) {
	tasks := append(testTasks(), entity.Task{ID: "t6", Status: "archived"})

	cols := usecase.OrganizeTasksByColumn(tasks)

	require.Len(t, cols, 4)
	assert.Equal(t, entity.ColumnTodo, cols[0].ID)
	assert.Equal(t, "A fazer", cols[0].Title)
	assert.Equal(t, []string{"t1", "t5", "t6"}, taskIDs(cols[0].Tasks))
	assert.Equal(t, []string{"t2"}, taskIDs(cols[1].Tasks))
	assert.Equal(t, []string{"t3"}, taskIDs(cols[2].Tasks))
	assert.Equal(t, []string{"t4"}, taskIDs(cols[3].Tasks))

	total := 0
	for _, c := range cols {
		total += len(c.Tasks)
	}
	assert.Equal(t, len(tasks), total)
}

func TestOrganizeTasksByColumnEmptyInputKeepsColumns(t *testing.T) {
	cols := usecase.OrganizeTasksByColumn(nil)

	require.Len(t, cols, 4)
	for _, c := range cols {
		assert.NotNil(t, c.Tasks)
		assert.Empty(t, c.Tasks)
	}
}

func TestFilterTasks(t *testing.T) {
	tasks := testTasks()

	assert.Equal(t, []string{"t2"}, taskIDs(usecase.FilterTasks(tasks, usecase.TaskQuery{Search: "pdf"})))
	assert.Equal(t, []string{"t1", "t3"}, taskIDs(usecase.FilterTasks(tasks, usecase.TaskQuery{
		Priorities: []entity.TaskPriority{entity.PriorityHigh},
	})))
	assert.Equal(t, []string{"t3"}, taskIDs(usecase.FilterTasks(tasks, usecase.TaskQuery{
		Search:     "contrato",
		Priorities: []entity.TaskPriority{entity.PriorityHigh},
	})))
	assert.Len(t, usecase.FilterTasks(tasks, usecase.TaskQuery{}), 5)
}

func TestMoveTask(t *testing.T) {
	tasks := testTasks()

	res := usecase.MoveTask(tasks, drag("t1", "todo", "done"))

	require.Equal(t, usecase.DragMoved, res.Outcome)
	assert.Equal(t, entity.TaskCompleted, res.Tasks[0].Status)
	assert.Equal(t, entity.TaskOpen, res.FromStatus)
	assert.Equal(t, `Tarefa movida para "Concluído"`, res.Message)
	assert.Equal(t, entity.TaskOpen, tasks[0].Status)
	assert.Equal(t, tasks[1:], res.Tasks[1:])
}

func TestMoveTaskOutcomes(t *testing.T) {
	tasks := testTasks()

	tests := []struct {
		name string
		ev   usecase.DragEndEvent
		want usecase.DragOutcome
	}{
		{"sem destino", drag("t1", "todo", ""), usecase.DragNoOp},
		{"mesma coluna", drag("t1", "todo", "todo"), usecase.DragNoOp},
		{"coluna desconhecida", drag("t1", "todo", "backlog"), usecase.DragInvalidColumn},
		{"tarefa desconhecida", drag("t9", "todo", "done"), usecase.DragNotFound},
		{"já tem o status da coluna", drag("t3", "todo", "done"), usecase.DragNoOp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := usecase.MoveTask(tasks, tt.ev)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, tasks, res.Tasks)
		})
	}
}

func TestTaskBoardHandleDragEnd(t *testing.T) {
	repo := new(MockTaskStatusWriter)
	pub := new(MockPublisher)
	repo.On("UpdateStatus", mock.Anything, "t2", entity.TaskCancelled).Return(nil)
	pub.On("PublishTaskMoved", mock.Anything, mock.MatchedBy(func(e queue.TaskMovedEvent) bool {
		return e.TaskID == "t2" && e.FromStatus == "processing" && e.ToStatus == "cancelled"
	})).Return(nil)

	board := usecase.NewTaskBoard(testTasks(), repo, pub)
	res, err := board.HandleDragEnd(context.Background(), drag("t2", "inProgress", "cancelled"))

	require.NoError(t, err)
	assert.Equal(t, usecase.DragMoved, res.Outcome)

	cols := board.Columns(usecase.TaskQuery{})
	assert.Equal(t, []string{"t2", "t4"}, taskIDs(cols[3].Tasks))
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestTaskBoardHandleDragEndRepositoryFailure(t *testing.T) {
	repo := new(MockTaskStatusWriter)
	repo.On("UpdateStatus", mock.Anything, "t1", entity.TaskProcessing).Return(errors.New("timeout"))

	board := usecase.NewTaskBoard(testTasks(), repo, nil)
	_, err := board.HandleDragEnd(context.Background(), drag("t1", "todo", "inProgress"))

	require.Error(t, err)
	assert.True(t, usecase.IsTechnicalError(err))
	assert.Equal(t, testTasks(), board.Tasks())
}

func TestTaskBoardTasksForDeal(t *testing.T) {
	board := usecase.NewTaskBoard(testTasks(), nil, nil)

	assert.Equal(t, []string{"t1", "t3"}, taskIDs(board.TasksForDeal("d1")))
	assert.Empty(t, board.TasksForDeal("d9"))
}
