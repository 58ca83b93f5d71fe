package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/config"
	"github.com/Shrirang13/SecuRizz/internal/handler"
	"github.com/Shrirang13/SecuRizz/internal/middleware"
	"github.com/Shrirang13/SecuRizz/internal/ml_client"
)

// Server wires the HTTP surface of the audit service.
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	mlClient *ml_client.Client
	log      *zap.Logger
}

// NewServer builds the router with all routes registered.
func NewServer(
	cfg *config.Config,
	analysisHandler *handler.AnalysisHandler,
	feedbackHandler *handler.FeedbackHandler,
	modelHandler *handler.ModelHandler,
	mlClient *ml_client.Client,
	log *zap.Logger,
) *Server {
	router := gin.Default()
	router.Use(cors.Default())

	s := &Server{
		router:   router,
		cfg:      cfg,
		mlClient: mlClient,
		log:      log,
	}

	// Health check reports inference service reachability; the service
	// stays healthy on fallback because the pattern classifier always runs.
	router.GET("/health", s.health)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := router.Group("/api")
	{
		api.POST("/analyze", analysisHandler.Analyze)
		api.POST("/feedback", feedbackHandler.Submit)
		api.GET("/reports", analysisHandler.GetAllReports)
		api.GET("/reports/:contract_hash", analysisHandler.GetReportByHash)
		api.GET("/model/info", modelHandler.GetModelInfo)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware([]byte(cfg.Server.JWTSecret), log))
	{
		admin.GET("/learning/stats", modelHandler.GetLearningStats)
		admin.POST("/learning/run", modelHandler.TriggerUpdate)
	}

	return s
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	mlStatus := "unavailable"
	if s.mlClient != nil {
		if health, err := s.mlClient.HealthCheck(ctx); err == nil && health.ModelLoaded {
			mlStatus = "healthy"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"inference_service": mlStatus,
		"timestamp":         time.Now().UTC(),
	})
}

// Run starts the server.
func (s *Server) Run(addr string) {
	s.log.Info("Server starting", zap.String("port", addr))
	if err := s.router.Run(addr); err != nil {
		s.log.Fatal("Server failed to start", zap.Error(err))
	}
}
