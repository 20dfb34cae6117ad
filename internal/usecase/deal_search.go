package usecase

import (
	"cmp"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type SortColumn string

const (
	SortByTitle     SortColumn = "title"
	SortByCustomer  SortColumn = "customer"
	SortByAmount    SortColumn = "amount"
	SortByStartDate SortColumn = "startDate"
	SortByCreatedAt SortColumn = "createdAt"
	SortByStatus    SortColumn = "status"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

var epoch = time.Unix(0, 0).UTC()

// DealQuery é o que a listagem de negócios aplica antes de exibir.
type DealQuery struct {
	Filters   entity.DealFilters
	Search    string
	Status    entity.DealStatus // filtro simples da listagem, vazio = todos
	SortBy    SortColumn        // vazio = mantém a ordem original
	Direction SortDirection
}

func ParseSortColumn(s string) (SortColumn, error) {
	switch c := SortColumn(s); c {
	case SortByTitle, SortByCustomer, SortByAmount, SortByStartDate, SortByCreatedAt, SortByStatus:
		return c, nil
	case "":
		return "", nil
	}
	return "", domainError(CodeInvalidSort, "coluna de ordenação inválida: %s", s)
}

func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(s); d {
	case SortAsc, SortDesc:
		return d, nil
	case "":
		return SortAsc, nil
	}
	return "", domainError(CodeInvalidSort, "direção de ordenação inválida: %s", s)
}

// SearchDeals faz a busca livre em título, nome do cliente e descrição.
func SearchDeals(deals []entity.Deal, term string) []entity.Deal {
	if term == "" {
		return slices.Clone(deals)
	}
	out := make([]entity.Deal, 0, len(deals))
	for _, d := range deals {
		if matchesSearch(d, term) {
			out = append(out, d)
		}
	}
	return out
}

func matchesSearch(d entity.Deal, term string) bool {
	return containsFold(d.Title, term) ||
		containsFold(d.CustomerName, term) ||
		containsFold(d.Description, term)
}

// SortDeals devolve uma cópia ordenada; empates mantêm a ordem de entrada.
func SortDeals(deals []entity.Deal, column SortColumn, direction SortDirection) []entity.Deal {
	out := slices.Clone(deals)
	compare := dealComparator(column)
	if compare == nil {
		return out
	}
	sign := 1
	if direction == SortDesc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b entity.Deal) int {
		return sign * compare(a, b)
	})
	return out
}

func dealComparator(column SortColumn) func(a, b entity.Deal) int {
	// Collator não é seguro para uso concorrente: um por ordenação.
	coll := collate.New(language.BrazilianPortuguese)

	switch column {
	case SortByTitle:
		return func(a, b entity.Deal) int {
			return coll.CompareString(a.Title, b.Title)
		}
	case SortByCustomer:
		return func(a, b entity.Deal) int {
			return coll.CompareString(a.CustomerName, b.CustomerName)
		}
	case SortByStatus:
		return func(a, b entity.Deal) int {
			return coll.CompareString(string(a.Status), string(b.Status))
		}
	case SortByAmount:
		return func(a, b entity.Deal) int {
			return cmp.Compare(amountOrZero(a.Amount), amountOrZero(b.Amount))
		}
	case SortByStartDate:
		return func(a, b entity.Deal) int {
			return timeOrEpoch(a.StartDate).Compare(timeOrEpoch(b.StartDate))
		}
	case SortByCreatedAt:
		return func(a, b entity.Deal) int {
			return timeOrEpoch(&a.CreatedAt).Compare(timeOrEpoch(&b.CreatedAt))
		}
	}
	return nil
}

func amountOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func timeOrEpoch(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return epoch
	}
	return *t
}

// ApplyDealQuery combina filtros, busca e status (todos em AND) e depois ordena.
func ApplyDealQuery(deals []entity.Deal, q DealQuery) []entity.Deal {
	out := SearchDeals(FilterDeals(deals, q.Filters), q.Search)
	if q.Status != "" {
		out = slices.DeleteFunc(out, func(d entity.Deal) bool { return d.Status != q.Status })
	}
	if q.SortBy == "" {
		return out
	}
	return SortDeals(out, q.SortBy, q.Direction)
}
