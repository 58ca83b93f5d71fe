package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/learning"
	"github.com/Shrirang13/SecuRizz/internal/modelstore"
)

// ModelHandler exposes model metadata and learning statistics.
type ModelHandler struct {
	store  *modelstore.Store
	loop   *learning.Loop
	logger *zap.Logger
}

// NewModelHandler creates a new model handler.
func NewModelHandler(store *modelstore.Store, loop *learning.Loop, logger *zap.Logger) *ModelHandler {
	return &ModelHandler{store: store, loop: loop, logger: logger}
}

// GetModelInfo returns the current model version metadata.
// GET /api/model/info
func (h *ModelHandler) GetModelInfo(c *gin.Context) {
	mv := h.store.Current()
	if mv == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No model version loaded"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"version":          mv.Version,
		"label_space":      mv.LabelSpace.Labels,
		"num_labels":       mv.LabelSpace.Len(),
		"created_at":       mv.CreatedAt,
		"training_updates": len(mv.TrainingHistory),
	})
}

// GetLearningStats returns the learning loop statistics.
// GET /api/admin/learning/stats
func (h *ModelHandler) GetLearningStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.loop.Stats())
}

// TriggerUpdate runs one learning iteration immediately.
// POST /api/admin/learning/run
func (h *ModelHandler) TriggerUpdate(c *gin.Context) {
	h.logger.Info("Manual learning iteration triggered",
		zap.String("username", c.GetString("username")))
	h.loop.RunOnce()
	c.JSON(http.StatusOK, h.loop.Stats())
}
