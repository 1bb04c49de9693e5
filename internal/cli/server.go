package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weekly-quiz-service/internal/app"
	"weekly-quiz-service/internal/config"
	"weekly-quiz-service/internal/domain"
	"weekly-quiz-service/internal/infra/memory"
	pgloader "weekly-quiz-service/internal/infra/postgres"
	redisinfra "weekly-quiz-service/internal/infra/redis"
	transport "weekly-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the weekly quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	passphrase := cfg.Admin.Passphrase
	if passphrase == "" {
		passphrase = "admin123"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(seedQuestions())
	if pool != nil {
		loader = pgloader.NewQuestionLoader(pool, cfg.Questions.BankID)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questions app.QuestionRepository
	if redisClient != nil {
		questions = redisinfra.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, questionTTL)
	}

	var store app.LeaderboardStore
	if redisClient != nil {
		store = redisinfra.NewLeaderboardStore(redisClient)
	} else {
		store = memory.NewLeaderboardStore()
	}

	service := app.NewQuizService(store, questions, passphrase)
	handler := transport.NewHandler(service)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting weekly quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// seedQuestions is the built-in bank used when no Postgres seed is configured.
func seedQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, Correct: "4"},
		{ID: 2, Prompt: "Capital of France?", Options: []string{"Berlin", "Paris", "Madrid", "Rome"}, Correct: "Paris"},
		{ID: 3, Prompt: "Who developed React?", Options: []string{"Google", "Meta", "Microsoft", "Amazon"}, Correct: "Meta"},
	}
}
