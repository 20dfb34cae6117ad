package handlers

import (
	"context"
	"net/http"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type ConnectionState interface {
	IsClosed() bool
}

// HealthHandler reporta o estado das dependências. Uma dependência ausente
// (nil) não degrada o serviço: o engine roda só em memória.
type HealthHandler struct {
	DB       Pinger
	RabbitMQ ConnectionState
	Kommo    bool
	started  time.Time
}

type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks"`
}

type check struct {
	name string
	run  func(ctx context.Context) (state string, ok bool)
}

func NewHealthHandler(db Pinger, rabbitMQ ConnectionState, kommoConfigured bool) *HealthHandler {
	return &HealthHandler{DB: db, RabbitMQ: rabbitMQ, Kommo: kommoConfigured, started: time.Now()}
}

func (h *HealthHandler) checks() []check {
	return []check{
		{"database", func(ctx context.Context) (string, bool) {
			if h.DB == nil {
				return "in-memory", true
			}
			ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			if err := h.DB.PingContext(ctx); err != nil {
				return "down: " + err.Error(), false
			}
			return "up", true
		}},
		{"rabbitmq", func(context.Context) (string, bool) {
			switch {
			case h.RabbitMQ == nil:
				return "disabled", true
			case h.RabbitMQ.IsClosed():
				return "down: connection closed", false
			}
			return "up", true
		}},
		{"kommo", func(context.Context) (string, bool) {
			if h.Kommo {
				return "enabled", true
			}
			return "disabled", true
		}},
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	res := HealthResponse{
		Status: "healthy",
		Uptime: time.Since(h.started).Round(time.Second).String(),
		Checks: map[string]string{},
	}
	for _, c := range h.checks() {
		state, ok := c.run(r.Context())
		res.Checks[c.name] = state
		if !ok {
			res.Status = "degraded"
		}
	}

	code := http.StatusOK
	if res.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, res)
}
