package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type TaskColumnView struct {
	ID    entity.TaskColumnID `json:"id"`
	Title string              `json:"title"`
	Tasks []entity.Task       `json:"tasks"`
}

// OrganizeTasksByColumn distribui as tarefas nas quatro colunas fixas.
// Cada tarefa cai em exatamente uma coluna e a ordem de entrada é mantida dentro dela.
// Status desconhecido vai para "todo" para não sumir do quadro.
func OrganizeTasksByColumn(tasks []entity.Task) []TaskColumnView {
	ids := entity.TaskColumns()
	cols := make([]TaskColumnView, len(ids))
	pos := make(map[entity.TaskColumnID]int, len(ids))
	for i, id := range ids {
		cols[i] = TaskColumnView{ID: id, Title: entity.ColumnTitle(id), Tasks: []entity.Task{}}
		pos[id] = i
	}

	for _, t := range tasks {
		col, ok := entity.ColumnForStatus(t.Status)
		if !ok {
			col = entity.ColumnTodo
		}
		i := pos[col]
		cols[i].Tasks = append(cols[i].Tasks, t)
	}
	return cols
}

type TaskQuery struct {
	Search     string
	Priorities []entity.TaskPriority
}

// FilterTasks aplica busca (título ou descrição) e prioridade, em AND.
func FilterTasks(tasks []entity.Task, q TaskQuery) []entity.Task {
	out := make([]entity.Task, 0, len(tasks))
	for _, t := range tasks {
		if q.Search != "" && !containsFold(t.Title, q.Search) && !containsFold(t.Description, q.Search) {
			continue
		}
		if len(q.Priorities) > 0 && !slices.Contains(q.Priorities, t.Priority) {
			continue
		}
		out = append(out, t)
	}
	return out
}

type TaskMoveResult struct {
	Outcome    DragOutcome
	Tasks      []entity.Task
	Task       *entity.Task
	FromStatus entity.TaskStatus
	Message    string
}

// MoveTask é o equivalente de ReassignStage para tarefas: a coluna de destino
// é traduzida para status pela tabela fixa e só o status da tarefa muda.
func MoveTask(tasks []entity.Task, ev DragEndEvent) TaskMoveResult {
	noop := TaskMoveResult{Outcome: DragNoOp, Tasks: tasks}

	if ev.Destination == nil || ev.sameColumn() {
		return noop
	}

	col := entity.TaskColumnID(ev.Destination.DroppableID)
	status, ok := entity.StatusForColumn(col)
	if !ok {
		return TaskMoveResult{Outcome: DragInvalidColumn, Tasks: tasks}
	}

	idx := slices.IndexFunc(tasks, func(t entity.Task) bool { return t.ID == ev.DraggableID })
	if idx < 0 {
		return TaskMoveResult{Outcome: DragNotFound, Tasks: tasks}
	}
	if tasks[idx].Status == status {
		return noop
	}

	updated := slices.Clone(tasks)
	moved := updated[idx]
	moved.Status = status
	updated[idx] = moved

	return TaskMoveResult{
		Outcome:    DragMoved,
		Tasks:      updated,
		Task:       &moved,
		FromStatus: tasks[idx].Status,
		Message:    fmt.Sprintf(`Tarefa movida para "%s"`, entity.ColumnTitle(col)),
	}
}

// TaskBoard é o dono do estado do quadro de tarefas, nos moldes do DealBoard.
type TaskBoard struct {
	mu    sync.RWMutex
	tasks []entity.Task

	repo      TaskStatusWriter
	publisher EventPublisher
	now       func() time.Time
}

func NewTaskBoard(tasks []entity.Task, repo TaskStatusWriter, publisher EventPublisher) *TaskBoard {
	return &TaskBoard{
		tasks:     slices.Clone(tasks),
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

func LoadTaskBoard(ctx context.Context, repo entity.TaskRepository, publisher EventPublisher) (*TaskBoard, error) {
	tasks, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar tarefas: %w", err)
	}
	return NewTaskBoard(tasks, repo, publisher), nil
}

func (b *TaskBoard) Tasks() []entity.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.tasks)
}

func (b *TaskBoard) Columns(q TaskQuery) []TaskColumnView {
	return OrganizeTasksByColumn(FilterTasks(b.Tasks(), q))
}

// TasksForDeal lista as tarefas ligadas a um negócio.
func (b *TaskBoard) TasksForDeal(dealID string) []entity.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []entity.Task{}
	for _, t := range b.tasks {
		if t.DealID == dealID {
			out = append(out, t)
		}
	}
	return out
}

func (b *TaskBoard) HandleDragEnd(ctx context.Context, ev DragEndEvent) (TaskMoveResult, error) {
	b.mu.Lock()
	res := MoveTask(b.tasks, ev)
	if res.Outcome != DragMoved {
		res.Tasks = slices.Clone(b.tasks)
		b.mu.Unlock()
		return res, nil
	}

	if b.repo != nil {
		if err := b.repo.UpdateStatus(ctx, res.Task.ID, res.Task.Status); err != nil {
			b.mu.Unlock()
			return TaskMoveResult{Outcome: DragNoOp, Tasks: b.Tasks()}, databaseError("falha ao gravar o novo status da tarefa", err)
		}
	}

	b.tasks = res.Tasks
	res.Tasks = slices.Clone(res.Tasks)
	b.mu.Unlock()

	log.WithFields(log.Fields{
		"task_id": res.Task.ID,
		"from":    res.FromStatus,
		"to":      res.Task.Status,
	}).Info("🔀 Tarefa movida de coluna")

	if b.publisher != nil {
		event := queue.TaskMovedEvent{
			EventID:    uuid.New().String(),
			TaskID:     res.Task.ID,
			TaskTitle:  res.Task.Title,
			DealID:     res.Task.DealID,
			FromStatus: string(res.FromStatus),
			ToStatus:   string(res.Task.Status),
			MovedAt:    b.now(),
		}
		if err := b.publisher.PublishTaskMoved(ctx, event); err != nil {
			log.Printf("⚠️ Tarefa %s movida, mas falha na fila: %v", res.Task.ID, err)
		}
	}
	return res, nil
}
