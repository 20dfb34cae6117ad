package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type repositories struct {
	stages    entity.StageRepository
	deals     entity.DealRepository
	tasks     entity.TaskRepository
	customers entity.CustomerRepository
	assets    entity.AssetRepository
	agents    entity.AgentRepository
}

func main() {
	cfg := config.Load()
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Repositórios (Postgres ou memória)
	var (
		db    *sql.DB
		repos repositories
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.NewDBConnection(ctx, cfg.DatabaseURL, database.DefaultPoolConfig)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		repos = repositories{
			stages:    database.NewStageRepository(db),
			deals:     database.NewDealRepository(db),
			tasks:     database.NewTaskRepository(db),
			customers: database.NewCustomerRepository(db),
			assets:    database.NewAssetRepository(db),
			agents:    database.NewAgentRepository(db),
		}
	} else {
		log.Println("⚠️ DATABASE_URL vazio: usando dados de demonstração em memória")
		store := memory.Seed(time.Now())
		repos = repositories{
			stages:    store.Stages,
			deals:     store.Deals,
			tasks:     store.Tasks,
			customers: store.Customers,
			assets:    store.Assets,
			agents:    store.Agents,
		}
	}

	// 2. Fila de eventos do quadro
	var (
		publisher usecase.EventPublisher = queue.LogProducer{}
		rabbitMQ  *queue.RabbitMQ
	)
	kommoClient := kommo.NewClient(cfg.Kommo.APIToken, cfg.Kommo.BaseURL)
	if cfg.RabbitMQURL != "" {
		var err error
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitMQ.Close()
		publisher = queue.NewProducer(rabbitMQ.Ch)

		// 3. Worker (consome a fila, sincroniza o Kommo e avisa por e-mail)
		var crm queue.CRMSync
		if cfg.Kommo.APIToken != "" {
			crm = kommoClient
		}
		var notifier queue.Notifier
		if cfg.Mail.Host != "" {
			notifier = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.Mail.To)
		}
		consumerCh, err := rabbitMQ.Conn.Channel()
		if err != nil {
			log.Fatalf("❌ Falha ao abrir canal do worker: %v", err)
		}
		defer consumerCh.Close()
		worker := queue.NewWorker(consumerCh, crm, notifier)
		go func() {
			if err := worker.Start(ctx, queue.QueueName); err != nil {
				log.Errorf("❌ Worker parou: %v", err)
			}
		}()
	}

	// 4. Quadros (estado da sessão)
	dealBoard, err := usecase.LoadDealBoard(ctx, repos.stages, repos.deals, publisher)
	if err != nil {
		log.Fatal(err)
	}
	taskBoard, err := usecase.LoadTaskBoard(ctx, repos.tasks, publisher)
	if err != nil {
		log.Fatal(err)
	}

	// 5. UseCases
	formUC := usecase.NewFormUseCase(dealBoard, repos.deals, repos.customers, repos.assets, repos.agents)
	removeStageUC := usecase.NewRemoveStageUseCase(repos.stages, repos.deals, dealBoard)

	// 6. Handlers
	health := handlers.NewHealthHandler(nil, nil, cfg.Kommo.APIToken != "")
	if db != nil {
		health.DB = db
	}
	if rabbitMQ != nil {
		health.RabbitMQ = rabbitMQ.Conn
	}

	router := newRouter(ctx, routes{
		Health: health,
		Deals:  handlers.NewDealHandler(dealBoard),
		Tasks:  handlers.NewTaskHandler(taskBoard),
		Forms:  handlers.NewFormHandler(formUC),
		Stages: handlers.NewStageHandler(removeStageUC),
	}, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("erro no shutdown: %v", err)
		}
	}()

	log.Printf("🔥 Server CRM rodando na porta %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
