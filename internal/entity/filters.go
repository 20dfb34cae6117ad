package entity

import "time"

// DealFilters são os critérios da tela de negócios.
// nil / slice vazio significa filtro não aplicado.
type DealFilters struct {
	Title          *string
	Statuses       []DealStatus
	Types          []string
	MinAmount      *float64
	MaxAmount      *float64
	StartDateFrom  *time.Time
	StartDateTo    *time.Time
	EndDateFrom    *time.Time
	EndDateTo      *time.Time
	CustomerTypes  []CustomerType
	Interests      []string
	HasDescription *bool
}
