package entity

import (
	"context"
	"errors"
	"time"
)

var ErrAgentNotFound = errors.New("agente não encontrado")

// Agent é a configuração de um agente de IA que atende um pipeline.
type Agent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Model       string    `json:"model"`
	Prompt      string    `json:"prompt"`
	Temperature float64   `json:"temperature"`
	Active      bool      `json:"active"`
	PipelineID  string    `json:"pipeline_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AgentRepository interface {
	Create(ctx context.Context, a *Agent) error
	FindByID(ctx context.Context, id string) (*Agent, error)
	Update(ctx context.Context, a *Agent) error
}
