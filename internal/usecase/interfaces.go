package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type EventPublisher interface {
	PublishDealMoved(ctx context.Context, event queue.DealMovedEvent) error
	PublishTaskMoved(ctx context.Context, event queue.TaskMovedEvent) error
}

// DealStageWriter é a parte do repositório que o quadro usa ao mover um negócio.
type DealStageWriter interface {
	UpdateStage(ctx context.Context, dealID, stageID string) error
}

type TaskStatusWriter interface {
	UpdateStatus(ctx context.Context, taskID string, status entity.TaskStatus) error
}

// DealWriter grava os formulários de negócio (criação e edição).
type DealWriter interface {
	Create(ctx context.Context, d *entity.Deal) error
	Update(ctx context.Context, d *entity.Deal) error
}
