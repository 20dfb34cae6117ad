package entity

import (
	"context"
	"errors"
	"time"
)

var ErrTaskNotFound = errors.New("tarefa não encontrada")

type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DealID      string       `json:"deal_id,omitempty"` // só para consulta, a tarefa não é dona do negócio
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type TaskColumnID string

const (
	ColumnTodo       TaskColumnID = "todo"
	ColumnInProgress TaskColumnID = "inProgress"
	ColumnDone       TaskColumnID = "done"
	ColumnCancelled  TaskColumnID = "cancelled"
)

type taskColumnPair struct {
	Status TaskStatus
	Column TaskColumnID
	Title  string
}

// Tabela canônica status <-> coluna. Os dois mapas abaixo são gerados a partir dela.
var taskColumnTable = []taskColumnPair{
	{TaskOpen, ColumnTodo, "A fazer"},
	{TaskProcessing, ColumnInProgress, "Em andamento"},
	{TaskCompleted, ColumnDone, "Concluído"},
	{TaskCancelled, ColumnCancelled, "Cancelado"},
}

var (
	columnByStatus = make(map[TaskStatus]TaskColumnID, len(taskColumnTable))
	statusByColumn = make(map[TaskColumnID]TaskStatus, len(taskColumnTable))
	columnTitles   = make(map[TaskColumnID]string, len(taskColumnTable))
)

func init() {
	for _, p := range taskColumnTable {
		if _, dup := columnByStatus[p.Status]; dup {
			panic("entity: status duplicado na tabela de colunas: " + string(p.Status))
		}
		if _, dup := statusByColumn[p.Column]; dup {
			panic("entity: coluna duplicada na tabela de colunas: " + string(p.Column))
		}
		columnByStatus[p.Status] = p.Column
		statusByColumn[p.Column] = p.Status
		columnTitles[p.Column] = p.Title
	}
}

func ColumnForStatus(s TaskStatus) (TaskColumnID, bool) {
	c, ok := columnByStatus[s]
	return c, ok
}

func StatusForColumn(c TaskColumnID) (TaskStatus, bool) {
	s, ok := statusByColumn[c]
	return s, ok
}

func ColumnTitle(c TaskColumnID) string {
	return columnTitles[c]
}

// TaskColumns devolve as colunas na ordem de exibição.
func TaskColumns() []TaskColumnID {
	cols := make([]TaskColumnID, 0, len(taskColumnTable))
	for _, p := range taskColumnTable {
		cols = append(cols, p.Column)
	}
	return cols
}

type TaskRepository interface {
	List(ctx context.Context) ([]Task, error)
	UpdateStatus(ctx context.Context, taskID string, status TaskStatus) error
}
