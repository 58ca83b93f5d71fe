package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/analyzer"
	"github.com/Shrirang13/SecuRizz/internal/anchor_client"
	"github.com/Shrirang13/SecuRizz/internal/classifier"
	"github.com/Shrirang13/SecuRizz/internal/config"
	"github.com/Shrirang13/SecuRizz/internal/feedback"
	"github.com/Shrirang13/SecuRizz/internal/gatekeeper"
	"github.com/Shrirang13/SecuRizz/internal/handler"
	"github.com/Shrirang13/SecuRizz/internal/learning"
	"github.com/Shrirang13/SecuRizz/internal/ml_client"
	"github.com/Shrirang13/SecuRizz/internal/modelstore"
	"github.com/Shrirang13/SecuRizz/internal/repository"
	"github.com/Shrirang13/SecuRizz/internal/server"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	if env := os.Getenv("SECURIZZ_CONFIG"); env != "" {
		cfgPath = env
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(context.Background(), cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := repository.MigrateDB(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	reportRepo := repository.NewReportRepository(db, logger)
	feedbackRepo := repository.NewFeedbackRepository(db, logger)

	// Model store holds the versioned classifier state and the current
	// pointer the learning loop publishes to.
	store, err := modelstore.Open(cfg.ModelStore.Dir, logger)
	if err != nil {
		logger.Fatal("Failed to open model store", zap.Error(err))
	}

	// Inference engine: neural primary over HTTP with the deterministic
	// pattern fallback.
	mlClient := ml_client.NewClient(cfg.MLService.URL)
	timeout := time.Duration(cfg.MLService.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	neural := classifier.NewNeuralStrategy(mlClient, timeout, logger)
	fallback := classifier.NewPatternStrategy(logger)
	engine := classifier.NewEngine(neural, fallback, logger)

	detector := gatekeeper.NewDetector(logger)
	auditAnalyzer := analyzer.NewAnalyzer(detector, engine, store, logger)

	// Feedback intake and learning loop
	queue := feedback.NewQueue(cfg.Feedback.QueueCapacity)
	intake := feedback.NewIntake(queue, logger)

	learningCfg := learning.DefaultConfig()
	if cfg.Learning.MinFeedbackCount > 0 {
		learningCfg.MinFeedbackCount = cfg.Learning.MinFeedbackCount
	}
	if cfg.Learning.BatchSize > 0 {
		learningCfg.BatchSize = cfg.Learning.BatchSize
	}
	if cfg.Learning.UpdateIntervalSeconds > 0 {
		learningCfg.UpdateInterval = time.Duration(cfg.Learning.UpdateIntervalSeconds) * time.Second
	}
	if cfg.Learning.LearningRate > 0 {
		learningCfg.LearningRate = cfg.Learning.LearningRate
	}

	loop := learning.NewLoop(queue, feedbackRepo, store, feedbackRepo, learning.SystemClock{}, learningCfg, logger)

	checkInterval := time.Minute
	if cfg.Learning.CheckIntervalSeconds > 0 {
		checkInterval = time.Duration(cfg.Learning.CheckIntervalSeconds) * time.Second
	}
	supervisor := learning.NewSupervisor(loop, checkInterval, logger)

	// Initialize anchor client (optional - proof submission collaborator)
	var anchorClient *anchor_client.Client
	if cfg.Anchor.Enabled {
		anchorClient = anchor_client.NewClient(cfg.Anchor.URL, logger)
		logger.Info("Anchor service enabled for proof submission")
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	supervisor.Start(ctx)
	defer supervisor.Stop()

	// Initialize handlers and run the server
	analysisHandler := handler.NewAnalysisHandler(auditAnalyzer, reportRepo, anchorClient, logger)
	feedbackHandler := handler.NewFeedbackHandler(intake, logger)
	modelHandler := handler.NewModelHandler(store, loop, logger)

	srv := server.NewServer(cfg, analysisHandler, feedbackHandler, modelHandler, mlClient, logger)
	go srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
