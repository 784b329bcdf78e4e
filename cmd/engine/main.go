package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/database"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/http/handlers"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/http/middleware"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/mail"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/queue"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/infra/scheduler"
	"github.com/thibaudlanglade-collab/event-chef-pal-sub001/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		logrus.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		getenv("RABBITMQ_USER", "guest"),
		getenv("RABBITMQ_PASS", "guest"),
		getenv("RABBITMQ_HOST", "localhost"),
		getenv("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		logrus.Fatalf("rabbitmq connection failed: %v", err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	cardRepo := database.NewCardRepository(db)
	stageRepo := database.NewStageRepository(db)
	followupRepo := database.NewFollowupRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	historyRepo := database.NewStageHistoryRepository(db)
	staffRepo := database.NewStaffRepository(db)
	credentialRepo := database.NewMailCredentialRepository(db)

	// 2. Collaborators
	mailSender := mail.NewSender(credentialRepo)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	// 3. Worker (consumes "schedule a reminder" commands from the main app)
	worker := queue.NewWorker(rabbitMQ.Ch, followupRepo)
	go worker.Start(queue.ScheduleQueueName)

	// 4. Batch jobs
	monitor := usecase.NewInactivityMonitor(cardRepo, notificationRepo, producer)
	followups := usecase.NewFollowupScheduler(followupRepo, cardRepo, notificationRepo, mailSender, producer)

	// 5. Embedded cron
	engineScheduler := scheduler.NewEngineScheduler(
		monitor,
		followups,
		getenv("CRON_INACTIVITY", "0 8 * * *"),
		getenv("CRON_FOLLOWUPS", "*/5 * * * *"),
	)
	engineScheduler.Start()

	// 6. Handlers
	jobHandler := handlers.NewJobHandler(monitor, followups)
	staffingHandler := handlers.NewStaffingHandler(staffRepo)
	pipelineHandler := handlers.NewPipelineHandler(cardRepo, stageRepo, historyRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/jobs/inactivity/run", jobHandler.HandleRunInactivity)
	r.Post("/jobs/followups/run", jobHandler.HandleRunFollowups)
	r.Post("/staffing/replacements", staffingHandler.HandleReplacements)
	r.Get("/pipeline/stages", pipelineHandler.HandleStages)
	r.Get("/pipeline/urgency", pipelineHandler.HandleUrgency)
	r.Get("/cards/{cardId}/history", pipelineHandler.HandleCardHistory)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + getenv("PORT", "8080")
	logrus.Infof("🔥 Progression engine listening on %s", port)

	go func() {
		if err := http.ListenAndServe(port, r); err != nil {
			logrus.Fatalf("http server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down...")
	engineScheduler.Stop()
	logrus.Info("bye")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
