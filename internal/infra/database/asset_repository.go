package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type AssetRepository struct {
	DB *sql.DB
}

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{DB: db}
}

func (r *AssetRepository) Create(ctx context.Context, a *entity.Asset) error {
	query := `INSERT INTO assets (id, name, kind, value, customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`
	_, err := r.DB.ExecContext(ctx, query, a.ID, a.Name, a.Kind, a.Value, a.CustomerID, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar ativo: %w", err)
	}
	return nil
}

func (r *AssetRepository) FindByID(ctx context.Context, id string) (*entity.Asset, error) {
	query := `SELECT id, name, kind, value, COALESCE(customer_id, ''), created_at, updated_at FROM assets WHERE id = $1`
	var (
		a     entity.Asset
		value sql.NullFloat64
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Kind, &value, &a.CustomerID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrAssetNotFound
		}
		return nil, fmt.Errorf("erro ao buscar ativo: %w", err)
	}
	if value.Valid {
		a.Value = &value.Float64
	}
	return &a, nil
}

func (r *AssetRepository) Update(ctx context.Context, a *entity.Asset) error {
	query := `UPDATE assets SET name = $2, kind = $3, value = $4, customer_id = NULLIF($5, ''), updated_at = $6 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, a.ID, a.Name, a.Kind, a.Value, a.CustomerID, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao atualizar ativo: %w", err)
	}
	return expectAffected(res, entity.ErrAssetNotFound)
}
