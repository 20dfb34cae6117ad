package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Repositórios em memória: o estado vive só enquanto o processo vive.

type StageRepository struct {
	mu     sync.RWMutex
	stages []entity.Stage
}

func NewStageRepository(stages ...entity.Stage) *StageRepository {
	return &StageRepository{stages: slices.Clone(stages)}
}

func (r *StageRepository) List(_ context.Context) ([]entity.Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.stages), nil
}

func (r *StageRepository) FindByID(_ context.Context, id string) (*entity.Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.stages {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, entity.ErrStageNotFound
}

func (r *StageRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.stages)
	r.stages = slices.DeleteFunc(r.stages, func(s entity.Stage) bool { return s.ID == id })
	if len(r.stages) == n {
		return entity.ErrStageNotFound
	}
	return nil
}

type DealRepository struct {
	mu    sync.RWMutex
	deals []entity.Deal
}

func NewDealRepository(deals ...entity.Deal) *DealRepository {
	return &DealRepository{deals: cloneDeals(deals)}
}

func cloneDeals(deals []entity.Deal) []entity.Deal {
	out := make([]entity.Deal, len(deals))
	for i, d := range deals {
		out[i] = d.Clone()
	}
	return out
}

func (r *DealRepository) List(_ context.Context) ([]entity.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneDeals(r.deals), nil
}

func (r *DealRepository) Create(_ context.Context, d *entity.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deals = append(r.deals, d.Clone())
	return nil
}

func (r *DealRepository) Update(_ context.Context, d *entity.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.deals {
		if r.deals[i].ID == d.ID {
			r.deals[i] = d.Clone()
			return nil
		}
	}
	return entity.ErrDealNotFound
}

func (r *DealRepository) UpdateStage(_ context.Context, dealID, stageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.deals {
		if r.deals[i].ID == dealID {
			r.deals[i].StageID = stageID
			return nil
		}
	}
	return entity.ErrDealNotFound
}

func (r *DealRepository) ReassignStage(_ context.Context, fromStageID, toStageID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for i := range r.deals {
		if r.deals[i].StageID == fromStageID {
			r.deals[i].StageID = toStageID
			ids = append(ids, r.deals[i].ID)
		}
	}
	return ids, nil
}

func (r *DealRepository) DeleteByStage(_ context.Context, stageID string) ([]entity.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []entity.Deal
	kept := r.deals[:0:0]
	for _, d := range r.deals {
		if d.StageID == stageID {
			removed = append(removed, d)
			continue
		}
		kept = append(kept, d)
	}
	r.deals = kept
	return removed, nil
}

type TaskRepository struct {
	mu    sync.RWMutex
	tasks []entity.Task
}

func NewTaskRepository(tasks ...entity.Task) *TaskRepository {
	return &TaskRepository{tasks: slices.Clone(tasks)}
}

func (r *TaskRepository) List(_ context.Context) ([]entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tasks), nil
}

func (r *TaskRepository) UpdateStatus(_ context.Context, taskID string, status entity.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.tasks {
		if r.tasks[i].ID == taskID {
			r.tasks[i].Status = status
			return nil
		}
	}
	return entity.ErrTaskNotFound
}

type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]entity.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: make(map[string]entity.Customer)}
}

func (r *CustomerRepository) Create(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.documentTaken(c) {
		return entity.ErrDocumentAlreadyExists
	}
	r.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepository) Update(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; !ok {
		return entity.ErrCustomerNotFound
	}
	if r.documentTaken(c) {
		return entity.ErrDocumentAlreadyExists
	}
	r.customers[c.ID] = *c
	return nil
}

// documentTaken replica o índice único de documento do Postgres.
func (r *CustomerRepository) documentTaken(c *entity.Customer) bool {
	for id, existing := range r.customers {
		if id != c.ID && existing.Document == c.Document {
			return true
		}
	}
	return false
}

func (r *CustomerRepository) FindByID(_ context.Context, id string) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, entity.ErrCustomerNotFound
	}
	return &c, nil
}

type AssetRepository struct {
	mu     sync.RWMutex
	assets map[string]entity.Asset
}

func NewAssetRepository() *AssetRepository {
	return &AssetRepository{assets: make(map[string]entity.Asset)}
}

func (r *AssetRepository) Create(_ context.Context, a *entity.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[a.ID] = a.Clone()
	return nil
}

func (r *AssetRepository) FindByID(_ context.Context, id string) (*entity.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, entity.ErrAssetNotFound
	}
	a = a.Clone()
	return &a, nil
}

func (r *AssetRepository) Update(_ context.Context, a *entity.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[a.ID]; !ok {
		return entity.ErrAssetNotFound
	}
	r.assets[a.ID] = a.Clone()
	return nil
}

type AgentRepository struct {
	mu     sync.RWMutex
	agents map[string]entity.Agent
}

func NewAgentRepository() *AgentRepository {
	return &AgentRepository{agents: make(map[string]entity.Agent)}
}

func (r *AgentRepository) Create(_ context.Context, a *entity.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.ID] = *a
	return nil
}

func (r *AgentRepository) FindByID(_ context.Context, id string) (*entity.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	if !ok {
		return nil, entity.ErrAgentNotFound
	}
	return &a, nil
}

func (r *AgentRepository) Update(_ context.Context, a *entity.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[a.ID]; !ok {
		return entity.ErrAgentNotFound
	}
	r.agents[a.ID] = *a
	return nil
}
