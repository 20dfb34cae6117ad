package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishDealMoved(ctx context.Context, event queue.DealMovedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) PublishTaskMoved(ctx context.Context, event queue.TaskMovedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockDealStageWriter
type MockDealStageWriter struct {
	mock.Mock
}

func (m *MockDealStageWriter) UpdateStage(ctx context.Context, dealID, stageID string) error {
	args := m.Called(ctx, dealID, stageID)
	return args.Error(0)
}

// MockTaskStatusWriter
type MockTaskStatusWriter struct {
	mock.Mock
}

func (m *MockTaskStatusWriter) UpdateStatus(ctx context.Context, taskID string, status entity.TaskStatus) error {
	args := m.Called(ctx, taskID, status)
	return args.Error(0)
}

// MockDealRepository
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) List(ctx context.Context) ([]entity.Deal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Deal), args.Error(1)
}

func (m *MockDealRepository) Create(ctx context.Context, d *entity.Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDealRepository) Update(ctx context.Context, d *entity.Deal) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDealRepository) UpdateStage(ctx context.Context, dealID, stageID string) error {
	args := m.Called(ctx, dealID, stageID)
	return args.Error(0)
}

func (m *MockDealRepository) ReassignStage(ctx context.Context, fromStageID, toStageID string) ([]string, error) {
	args := m.Called(ctx, fromStageID, toStageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDealRepository) DeleteByStage(ctx context.Context, stageID string) ([]entity.Deal, error) {
	args := m.Called(ctx, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Deal), args.Error(1)
}

// MockStageRepository
type MockStageRepository struct {
	mock.Mock
}

func (m *MockStageRepository) List(ctx context.Context) ([]entity.Stage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Stage), args.Error(1)
}

func (m *MockStageRepository) FindByID(ctx context.Context, id string) (*entity.Stage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stage), args.Error(1)
}

func (m *MockStageRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func dealIDs(deals []entity.Deal) []string {
	ids := make([]string, len(deals))
	for i, d := range deals {
		ids[i] = d.ID
	}
	return ids
}

func testStages() []entity.Stage {
	return []entity.Stage{
		{ID: "s1", PipelineID: "p1", Title: "Prospecção", Order: 1},
		{ID: "s2", PipelineID: "p1", Title: "Proposta", Order: 2, ExternalStatusID: 777},
		{ID: "s3", PipelineID: "p1", Title: "Fechamento", Order: 3},
		{ID: "x1", PipelineID: "p2", Title: "Outro pipeline", Order: 1},
	}
}

func testDeals() []entity.Deal {
	return []entity.Deal{
		{ID: "d1", Title: "Alpha", StageID: "s1", Status: entity.DealOpen, Amount: ptr(100.0), ExternalID: 42},
		{ID: "d2", Title: "Beta", StageID: "s1", Status: entity.DealOpen, Amount: ptr(200.0)},
		{ID: "d3", Title: "Gamma", StageID: "s2", Status: entity.DealWon},
	}
}
