package entity

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
)

var ErrDealNotFound = errors.New("negócio não encontrado")

type DealStatus string

const (
	DealOpen      DealStatus = "open"
	DealWon       DealStatus = "won"
	DealLost      DealStatus = "lost"
	DealCanceled  DealStatus = "canceled"
	DealCompleted DealStatus = "completed"
)

func (s DealStatus) Valid() bool {
	switch s {
	case DealOpen, DealWon, DealLost, DealCanceled, DealCompleted:
		return true
	}
	return false
}

type CustomerType string

const (
	CustomerIndividual CustomerType = "individual"
	CustomerCompany    CustomerType = "company"
)

func (t CustomerType) Valid() bool {
	return t == CustomerIndividual || t == CustomerCompany
}

// Deal é uma negociação que percorre as etapas de um pipeline.
// Amount e as datas são ponteiros porque "ausente" é diferente de zero nos filtros.
type Deal struct {
	ID                   string       `json:"id"`
	Title                string       `json:"title"`
	Description          string       `json:"description,omitempty"`
	StageID              string       `json:"stage_id"`
	Status               DealStatus   `json:"status"`
	Amount               *float64     `json:"amount,omitempty"`
	CustomerName         string       `json:"customer_name,omitempty"`
	CustomerOrganization string       `json:"customer_organization,omitempty"`
	CustomerType         CustomerType `json:"customer_type,omitempty"`
	Type                 string       `json:"type,omitempty"`
	StartDate            *time.Time   `json:"start_date,omitempty"`
	EndDate              *time.Time   `json:"end_date,omitempty"`
	Interests            []string     `json:"interests,omitempty"`
	ReasonForLoss        string       `json:"reason_for_loss,omitempty"`

	// ID do lead no CRM externo (Kommo), quando sincronizado
	ExternalID int `json:"external_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d Deal) HasDescription() bool {
	return strings.TrimSpace(d.Description) != ""
}

// Clone devolve uma cópia que não compartilha ponteiros nem a lista de interesses.
func (d Deal) Clone() Deal {
	d.Amount = clonePtr(d.Amount)
	d.StartDate = clonePtr(d.StartDate)
	d.EndDate = clonePtr(d.EndDate)
	d.Interests = slices.Clone(d.Interests)
	return d
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

type DealRepository interface {
	List(ctx context.Context) ([]Deal, error)
	Create(ctx context.Context, d *Deal) error
	Update(ctx context.Context, d *Deal) error
	UpdateStage(ctx context.Context, dealID, stageID string) error
	ReassignStage(ctx context.Context, fromStageID, toStageID string) ([]string, error)
	DeleteByStage(ctx context.Context, stageID string) ([]Deal, error)
}
