package feedback

import (
	"errors"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

// ErrQueueFull is reported when the feedback queue is at capacity. Enqueue
// never silently drops items; callers surface the condition so the learning
// signal is not lost.
var ErrQueueFull = errors.New("feedback queue is full")

// Queue is the bounded buffer between the many feedback producers and the
// single learning-loop consumer. It is the only shared mutable structure
// between them.
type Queue struct {
	items chan *models.FeedbackItem
}

// NewQueue creates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{items: make(chan *models.FeedbackItem, capacity)}
}

// Enqueue adds an item, or returns ErrQueueFull when at capacity.
func (q *Queue) Enqueue(item *models.FeedbackItem) error {
	select {
	case q.items <- item:
		return nil
	default:
		return ErrQueueFull
	}
}

// Drain removes up to max items without blocking.
func (q *Queue) Drain(max int) []*models.FeedbackItem {
	batch := make([]*models.FeedbackItem, 0, max)
	for len(batch) < max {
		select {
		case item := <-q.items:
			batch = append(batch, item)
		default:
			return batch
		}
	}
	return batch
}

// Depth returns the current number of queued items.
func (q *Queue) Depth() int {
	return len(q.items)
}
