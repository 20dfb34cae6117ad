package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	metrics "github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

type routes struct {
	Health *handlers.HealthHandler
	Deals  *handlers.DealHandler
	Tasks  *handlers.TaskHandler
	Forms  *handlers.FormHandler
	Stages *handlers.StageHandler
}

func newRouter(ctx context.Context, h routes, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/pipelines/{pipelineID}/board", h.Deals.HandleBoard)
	r.Get("/deals", h.Deals.HandleList)
	r.Post("/deals/drag", h.Deals.HandleDrag)
	r.Get("/tasks/board", h.Tasks.HandleBoard)
	r.Post("/tasks/drag", h.Tasks.HandleDrag)
	r.Get("/deals/{dealID}/tasks", h.Tasks.HandleDealTasks)
	r.Get("/customers/{customerID}", h.Forms.GetCustomer)
	r.Delete("/stages/{stageID}", h.Stages.HandleDelete)

	// formulários: 30 envios por minuto por IP
	limiter := metrics.NewRateLimiter(ctx, 30, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Limit)
		r.Post("/deals", h.Forms.CreateDeal)
		r.Post("/customers", h.Forms.CreateCustomer)
		r.Post("/assets", h.Forms.CreateAsset)
		r.Post("/agents", h.Forms.CreateAgent)
		r.Put("/deals/{dealID}", h.Forms.UpdateDeal)
		r.Put("/customers/{customerID}", h.Forms.UpdateCustomer)
		r.Put("/assets/{assetID}", h.Forms.UpdateAsset)
		r.Put("/agents/{agentID}", h.Forms.UpdateAgent)
	})

	return r
}
