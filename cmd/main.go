package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/examcore-2026.net/internal/adapter/judge0"
	"gitlab.com/examcore-2026.net/internal/adapter/postgres/attemptrepository"
	"gitlab.com/examcore-2026.net/internal/adapter/postgres/questionrepository"
	"gitlab.com/examcore-2026.net/internal/adapter/postgres/submissionrepository"
	"gitlab.com/examcore-2026.net/internal/adapter/redis/ratelimitport"
	"gitlab.com/examcore-2026.net/internal/config"
	"gitlab.com/examcore-2026.net/internal/core/services/admission"
	"gitlab.com/examcore-2026.net/internal/core/services/attempt"
	"gitlab.com/examcore-2026.net/internal/core/services/grading"
	logger2 "gitlab.com/examcore-2026.net/internal/global/logger"
	http2 "gitlab.com/examcore-2026.net/internal/http"
)

func main() {
	InitReader()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting exam grading service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		panic(err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})

	// SECONDARY PORTS
	attemptRepo := attemptrepository.NewAttemptRepository(db, logger)
	questionRepo := questionrepository.NewQuestionRepository(db, logger)
	submissionRepo := submissionrepository.NewSubmissionRepository(db, logger, "public")
	rateLimiter := ratelimitport.NewRateLimiter(redisClient, sysCfg.RateLimitConfig, logger)

	executor, err := judge0.NewClient(sysCfg.ExecutorConfig, logger)
	if err != nil {
		panic(err)
	}

	// services
	admissionSvc := admission.NewAdmissionService(attemptRepo, questionRepo, rateLimiter, logger)
	gradingSvc := grading.NewGradingService(submissionRepo, submissionRepo, questionRepo, logger)
	attemptSvc := attempt.NewAttemptService(attemptRepo, questionRepo, submissionRepo, logger)
	serviceProvider := http2.NewServiceProvider(admissionSvc, gradingSvc, attemptSvc, executor)

	// server
	httpServer := http2.NewServer(8082, "examGrading", *serviceProvider, sysCfg.JwtConfig, logger)
	if err := httpServer.Init(); err != nil {
		panic(err)
	}
	ctxBg := context.Background()
	httpServer.Start(ctxBg)

	if ok, endpoint := executor.TestConnection(ctxBg); ok {
		logger.Info("Executor reachable", "endpoint", endpoint)
	} else {
		logger.Warn("No executor endpoint reachable at startup")
	}

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 5*time.Second)
	defer cancel()
	httpServer.Stop(ctx)

	if err := db.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close redis client", "error", err)
	}

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
