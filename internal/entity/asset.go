package entity

import (
	"context"
	"errors"
	"time"
)

var ErrAssetNotFound = errors.New("ativo não encontrado")

type Asset struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	Value      *float64  `json:"value,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a Asset) Clone() Asset {
	a.Value = clonePtr(a.Value)
	return a
}

type AssetRepository interface {
	Create(ctx context.Context, a *Asset) error
	FindByID(ctx context.Context, id string) (*Asset, error)
	Update(ctx context.Context, a *Asset) error
}
