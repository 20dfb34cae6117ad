package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type StageRepository struct {
	DB *sql.DB
}

func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{DB: db}
}

func (r *StageRepository) List(ctx context.Context) ([]entity.Stage, error) {
	query := `SELECT id, pipeline_id, title, sort_order, COALESCE(external_status_id, 0) FROM stages ORDER BY pipeline_id, sort_order`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar etapas: %w", err)
	}
	defer rows.Close()

	var stages []entity.Stage
	for rows.Next() {
		var s entity.Stage
		if err := rows.Scan(&s.ID, &s.PipelineID, &s.Title, &s.Order, &s.ExternalStatusID); err != nil {
			return nil, fmt.Errorf("erro ao escanear etapa: %w", err)
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

func (r *StageRepository) FindByID(ctx context.Context, id string) (*entity.Stage, error) {
	query := `SELECT id, pipeline_id, title, sort_order, COALESCE(external_status_id, 0) FROM stages WHERE id = $1`
	var s entity.Stage
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.PipelineID, &s.Title, &s.Order, &s.ExternalStatusID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrStageNotFound
		}
		return nil, fmt.Errorf("erro ao buscar etapa: %w", err)
	}
	return &s, nil
}

func (r *StageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM stages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erro ao deletar etapa: %w", err)
	}
	return expectAffected(res, entity.ErrStageNotFound)
}
