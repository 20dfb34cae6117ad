package usecase

import (
	"slices"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// MatchDeal diz se o negócio passa em todos os critérios ativos de f.
// Critério ausente (nil ou lista vazia) sempre passa.
func MatchDeal(deal entity.Deal, f entity.DealFilters) bool {
	if f.Title != nil && *f.Title != "" {
		if !containsFold(deal.Title, *f.Title) {
			return false
		}
	}

	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, deal.Status) {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, deal.Type) {
		return false
	}
	if len(f.CustomerTypes) > 0 && !slices.Contains(f.CustomerTypes, deal.CustomerType) {
		return false
	}
	if len(f.Interests) > 0 && !anyIn(deal.Interests, f.Interests) {
		return false
	}

	// Valor ausente nunca satisfaz uma faixa de valor definida.
	if f.MinAmount != nil && (deal.Amount == nil || *deal.Amount < *f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && (deal.Amount == nil || *deal.Amount > *f.MaxAmount) {
		return false
	}

	// Já as datas só são comparadas quando o negócio possui a data.
	if deal.StartDate != nil && !inRange(*deal.StartDate, f.StartDateFrom, f.StartDateTo) {
		return false
	}
	if deal.EndDate != nil && !inRange(*deal.EndDate, f.EndDateFrom, f.EndDateTo) {
		return false
	}

	if f.HasDescription != nil && *f.HasDescription && !deal.HasDescription() {
		return false
	}

	return true
}

// FilterDeals devolve uma nova lista com os negócios que passam em f.
func FilterDeals(deals []entity.Deal, f entity.DealFilters) []entity.Deal {
	out := make([]entity.Deal, 0, len(deals))
	for _, d := range deals {
		if MatchDeal(d, f) {
			out = append(out, d)
		}
	}
	return out
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func anyIn[T comparable](values, set []T) bool {
	return slices.ContainsFunc(values, func(v T) bool {
		return slices.Contains(set, v)
	})
}
