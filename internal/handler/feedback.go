package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/feedback"
)

// FeedbackHandler handles community feedback submissions.
type FeedbackHandler struct {
	intake *feedback.Intake
	logger *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(intake *feedback.Intake, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{intake: intake, logger: logger}
}

// Submit validates and enqueues one feedback item.
// POST /api/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var sub feedback.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accepted, reason := h.intake.Ingest(&sub)
	if !accepted {
		c.JSON(http.StatusOK, gin.H{
			"accepted": false,
			"reason":   reason,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": true})
}
