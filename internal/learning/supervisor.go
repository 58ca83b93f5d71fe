package learning

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Supervisor owns the single background learning worker and gives it an
// explicit start/stop lifecycle.
type Supervisor struct {
	loop          *Loop
	checkInterval time.Duration
	logger        *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewSupervisor wraps a loop; checkInterval controls how often the loop body
// runs.
func NewSupervisor(loop *Loop, checkInterval time.Duration, logger *zap.Logger) *Supervisor {
	return &Supervisor{
		loop:          loop,
		checkInterval: checkInterval,
		logger:        logger,
	}
}

// Start launches the worker goroutine. Starting twice is a no-op.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.logger.Warn("Learning loop already running")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx)
	s.logger.Info("Learning loop started",
		zap.Duration("check_interval", s.checkInterval))
}

// Stop cancels the worker and waits for the current iteration to finish.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
	s.logger.Info("Learning loop stopped")
}

func (s *Supervisor) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.loop.RunOnce()
		}
	}
}
