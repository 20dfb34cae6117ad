package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const uniqueViolation = "23505"

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, phone, type, document, organization,
			street, number, complement, district, city, state, zip_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Type, c.Document, c.Organization,
		c.Address.Street, c.Address.Number, c.Address.Complement, c.Address.District,
		c.Address.City, c.Address.State, c.Address.ZipCode,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return customerWriteError(err)
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, email = $3, phone = $4, type = $5, document = $6, organization = $7,
			street = $8, number = $9, complement = $10, district = $11, city = $12, state = $13,
			zip_code = $14, updated_at = $15
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Type, c.Document, c.Organization,
		c.Address.Street, c.Address.Number, c.Address.Complement, c.Address.District,
		c.Address.City, c.Address.State, c.Address.ZipCode,
		c.UpdatedAt,
	)
	if err != nil {
		return customerWriteError(err)
	}
	return expectAffected(res, entity.ErrCustomerNotFound)
}

// customerWriteError traduz violação de unicidade do documento (23505).
func customerWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return entity.ErrDocumentAlreadyExists
	}
	log.Printf("Erro crítico no banco: %v", err)
	return err
}

// expectAffected devolve notFound quando o comando não encontrou a linha.
func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao ler linhas afetadas: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	query := `
		SELECT id, name, email, phone, type, document, organization,
			street, number, complement, district, city, state, zip_code, created_at, updated_at
		FROM customers WHERE id = $1
	`
	var c entity.Customer
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Type, &c.Document, &c.Organization,
		&c.Address.Street, &c.Address.Number, &c.Address.Complement, &c.Address.District,
		&c.Address.City, &c.Address.State, &c.Address.ZipCode,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("erro ao buscar cliente: %w", err)
	}
	return &c, nil
}
