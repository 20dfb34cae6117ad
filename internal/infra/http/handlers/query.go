package handlers

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// parseDealQuery lê a listagem de negócios da query string.
// Listas aceitam valores separados por vírgula; datas aceitam YYYY-MM-DD ou RFC3339.
func parseDealQuery(v url.Values) (usecase.DealQuery, error) {
	var q usecase.DealQuery
	var err error

	q.Search = v.Get("q")
	if s := v.Get("status"); s != "" {
		q.Status = entity.DealStatus(s)
		if !q.Status.Valid() {
			return q, invalidParam("status")
		}
	}

	if q.SortBy, err = usecase.ParseSortColumn(v.Get("sort")); err != nil {
		return q, err
	}
	if q.Direction, err = usecase.ParseSortDirection(v.Get("dir")); err != nil {
		return q, err
	}

	f := &q.Filters
	if t := v.Get("title"); t != "" {
		f.Title = &t
	}
	if f.Statuses, err = parseEnumList[entity.DealStatus](v, "statuses"); err != nil {
		return q, err
	}
	f.Types = splitParam(v.Get("types"))
	if f.CustomerTypes, err = parseEnumList[entity.CustomerType](v, "customer_types"); err != nil {
		return q, err
	}
	f.Interests = splitParam(v.Get("interests"))

	if f.MinAmount, err = parseFloatParam(v, "min_amount"); err != nil {
		return q, err
	}
	if f.MaxAmount, err = parseFloatParam(v, "max_amount"); err != nil {
		return q, err
	}

	dates := []struct {
		key string
		dst **time.Time
	}{
		{"start_from", &f.StartDateFrom},
		{"start_to", &f.StartDateTo},
		{"end_from", &f.EndDateFrom},
		{"end_to", &f.EndDateTo},
	}
	for _, d := range dates {
		if *d.dst, err = parseDateParam(v, d.key); err != nil {
			return q, err
		}
	}

	if s := v.Get("has_description"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, invalidParam("has_description")
		}
		f.HasDescription = &b
	}
	return q, nil
}

func parseTaskQuery(v url.Values) (usecase.TaskQuery, error) {
	q := usecase.TaskQuery{Search: v.Get("q")}
	var err error
	q.Priorities, err = parseEnumList[entity.TaskPriority](v, "priorities")
	return q, err
}

// parseEnumList rejeita a lista inteira se algum valor não pertencer ao enum.
func parseEnumList[T interface {
	~string
	Valid() bool
}](v url.Values, key string) ([]T, error) {
	var out []T
	for _, s := range splitParam(v.Get(key)) {
		e := T(s)
		if !e.Valid() {
			return nil, invalidParam(key)
		}
		out = append(out, e)
	}
	return out, nil
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloatParam(v url.Values, key string) (*float64, error) {
	s := v.Get(key)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, invalidParam(key)
	}
	return &n, nil
}

func parseDateParam(v url.Values, key string) (*time.Time, error) {
	s := v.Get(key)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, invalidParam(key)
}

func invalidParam(key string) error {
	return &usecase.DomainError{Code: usecase.CodeInvalidQuery, Message: "parâmetro inválido: " + key}
}
