package entity

import (
	"context"
	"errors"
	"time"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

var (
	ErrCustomerNotFound      = errors.New("cliente não encontrado")
	ErrDocumentAlreadyExists = errors.New("já existe um cliente com este documento")
)

// Value Object: Address
type Address struct {
	Street     string `json:"street,omitempty"`
	Number     string `json:"number,omitempty"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	ZipCode    string `json:"zip_code,omitempty"`
}

// Entidade: Customer
type Customer struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone,omitempty"`
	Type         CustomerType `json:"type"`
	Document     string       `json:"document"` // CPF ou CNPJ, só dígitos
	Organization string       `json:"organization,omitempty"`
	Address      Address      `json:"address"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
}
