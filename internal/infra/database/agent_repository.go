package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AgentRepository struct {
	DB *sql.DB
}

func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{DB: db}
}

func (r *AgentRepository) Create(ctx context.Context, a *entity.Agent) error {
	query := `INSERT INTO agents (id, name, model, prompt, temperature, active, pipeline_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		a.ID, a.Name, a.Model, a.Prompt, a.Temperature, a.Active, a.PipelineID, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar agente: %w", err)
	}
	return nil
}

func (r *AgentRepository) FindByID(ctx context.Context, id string) (*entity.Agent, error) {
	query := `SELECT id, name, model, prompt, temperature, active, COALESCE(pipeline_id, ''), created_at, updated_at
		FROM agents WHERE id = $1`
	var a entity.Agent
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.Model, &a.Prompt, &a.Temperature, &a.Active, &a.PipelineID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrAgentNotFound
		}
		return nil, fmt.Errorf("erro ao buscar agente: %w", err)
	}
	return &a, nil
}

func (r *AgentRepository) Update(ctx context.Context, a *entity.Agent) error {
	query := `UPDATE agents SET name = $2, model = $3, prompt = $4, temperature = $5, active = $6,
		pipeline_id = NULLIF($7, ''), updated_at = $8 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		a.ID, a.Name, a.Model, a.Prompt, a.Temperature, a.Active, a.PipelineID, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao atualizar agente: %w", err)
	}
	return expectAffected(res, entity.ErrAgentNotFound)
}
