package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/studybuddy/backend/internal/auth"
	"github.com/studybuddy/backend/internal/chat"
	"github.com/studybuddy/backend/internal/config"
	"github.com/studybuddy/backend/internal/database"
	"github.com/studybuddy/backend/internal/exchange"
	"github.com/studybuddy/backend/internal/llm"
	"github.com/studybuddy/backend/internal/middleware"
	"github.com/studybuddy/backend/internal/points"
	"github.com/studybuddy/backend/internal/questionbank"
	"github.com/studybuddy/backend/internal/quiz"
	"github.com/studybuddy/backend/internal/skills"
	"github.com/studybuddy/backend/internal/studyplan"
)

const sessionIdleTimeout = 2 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	bank, err := questionbank.Default()
	if err != nil {
		log.Fatalf("Failed to load question bank: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := llm.NewProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create LLM provider: %v", err)
	}

	tokens := middleware.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize services
	pointsStore := points.NewStore(db)
	pointsService := points.NewService(pointsStore, pointsStore)
	registry := quiz.NewRegistry()
	quizService := quiz.NewService(bank, registry, pointsService, quiz.NewStore(db))
	planService := studyplan.NewService(studyplan.NewStore(db))
	chatService := chat.NewService(chat.NewStore(db), provider, cfg.ChatTimeout)
	skillsService := skills.NewService(skills.NewStore(db))
	exchangeService := exchange.NewService(exchange.NewStore(db))

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokens))

	auth.NewHandler(auth.NewStore(db), tokens).RegisterRoutes(api, protected)
	points.NewHandler(pointsService).RegisterRoutes(protected)
	quiz.NewHandler(quizService).RegisterRoutes(protected)
	studyplan.NewHandler(planService).RegisterRoutes(protected)
	chat.NewHandler(chatService).RegisterRoutes(protected)
	skills.NewHandler(skillsService).RegisterRoutes(protected)
	exchange.NewHandler(exchangeService).RegisterRoutes(protected)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Logging(c.Handler(r)),
		ReadHeaderTimeout: 10 * time.Second,
		// Chat replies can take up to CHAT_TIMEOUT.
		WriteTimeout: cfg.ChatTimeout + 15*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go sweepSessions(ctx, registry)

	go func() {
		log.Printf("Server starting on :%s (llm: %s)", cfg.Port, provider.ModelID())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: graceful shutdown: %v", err)
	}
}

func sweepSessions(ctx context.Context, registry *quiz.Registry) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Sweep(sessionIdleTimeout); n > 0 {
				log.Printf("[quiz] swept %d idle sessions", n)
			}
		}
	}
}
