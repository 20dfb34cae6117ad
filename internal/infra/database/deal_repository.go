package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const dealColumns = `id, title, description, stage_id, status, amount, customer_name, customer_organization,
	customer_type, type, start_date, end_date, interests, reason_for_loss, external_id, created_at, updated_at`

type DealRepository struct {
	DB *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeal(row rowScanner) (entity.Deal, error) {
	var (
		d          entity.Deal
		amount     sql.NullFloat64
		start, end sql.NullTime
		externalID sql.NullInt64
		interests  pq.StringArray
	)
	err := row.Scan(
		&d.ID, &d.Title, &d.Description, &d.StageID, &d.Status, &amount,
		&d.CustomerName, &d.CustomerOrganization, &d.CustomerType, &d.Type,
		&start, &end, &interests, &d.ReasonForLoss, &externalID,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return d, err
	}
	if amount.Valid {
		d.Amount = &amount.Float64
	}
	if start.Valid {
		d.StartDate = &start.Time
	}
	if end.Valid {
		d.EndDate = &end.Time
	}
	d.ExternalID = int(externalID.Int64)
	d.Interests = []string(interests)
	return d, nil
}

func (r *DealRepository) List(ctx context.Context) ([]entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar negócios: %w", err)
	}
	defer rows.Close()

	var deals []entity.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear negócio: %w", err)
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

func (r *DealRepository) Create(ctx context.Context, d *entity.Deal) error {
	query := `INSERT INTO deals (` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NULLIF($15, 0), $16, $17)`

	_, err := r.DB.ExecContext(ctx, query,
		d.ID, d.Title, d.Description, d.StageID, d.Status, d.Amount,
		d.CustomerName, d.CustomerOrganization, d.CustomerType, d.Type,
		d.StartDate, d.EndDate, pq.Array(d.Interests), d.ReasonForLoss, d.ExternalID,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao criar negócio: %w", err)
	}
	return nil
}

// Update grava o formulário de edição inteiro; created_at não muda.
func (r *DealRepository) Update(ctx context.Context, d *entity.Deal) error {
	query := `UPDATE deals SET title = $2, description = $3, stage_id = $4, status = $5, amount = $6,
		customer_name = $7, customer_organization = $8, customer_type = $9, type = $10,
		start_date = $11, end_date = $12, interests = $13, reason_for_loss = $14,
		external_id = NULLIF($15, 0), updated_at = $16
		WHERE id = $1`

	res, err := r.DB.ExecContext(ctx, query,
		d.ID, d.Title, d.Description, d.StageID, d.Status, d.Amount,
		d.CustomerName, d.CustomerOrganization, d.CustomerType, d.Type,
		d.StartDate, d.EndDate, pq.Array(d.Interests), d.ReasonForLoss, d.ExternalID,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar negócio: %w", err)
	}
	return expectAffected(res, entity.ErrDealNotFound)
}

func (r *DealRepository) UpdateStage(ctx context.Context, dealID, stageID string) error {
	query := `UPDATE deals SET stage_id = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, dealID, stageID)
	if err != nil {
		return fmt.Errorf("erro ao mover negócio: %w", err)
	}
	return expectAffected(res, entity.ErrDealNotFound)
}

// ReassignStage move todos os negócios de uma etapa para outra e devolve os IDs afetados.
func (r *DealRepository) ReassignStage(ctx context.Context, fromStageID, toStageID string) ([]string, error) {
	query := `UPDATE deals SET stage_id = $2, updated_at = NOW() WHERE stage_id = $1 RETURNING id`
	rows, err := r.DB.QueryContext(ctx, query, fromStageID, toStageID)
	if err != nil {
		return nil, fmt.Errorf("erro ao realocar negócios: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *DealRepository) DeleteByStage(ctx context.Context, stageID string) ([]entity.Deal, error) {
	query := `DELETE FROM deals WHERE stage_id = $1 RETURNING ` + dealColumns
	rows, err := r.DB.QueryContext(ctx, query, stageID)
	if err != nil {
		return nil, fmt.Errorf("erro ao remover negócios: %w", err)
	}
	defer rows.Close()

	var deals []entity.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, d)
	}
	return deals, rows.Err()
}
