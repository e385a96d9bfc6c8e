package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// Sweeper is the daily job run by the scheduler
type Sweeper interface {
	Run(ctx context.Context, today time.Time) (int, error)
}

// Scheduler runs the site visit sweep once a day at a fixed hour
type Scheduler struct {
	sweeper  Sweeper
	hour     int
	location *time.Location
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	lastRun string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewScheduler creates a scheduler that fires at hour (0-23) in location
func NewScheduler(sweeper Sweeper, hour int, location *time.Location, timeout time.Duration) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		sweeper:  sweeper,
		hour:     hour,
		location: location,
		interval: time.Minute,
		timeout:  timeout,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins the ticker loop in the background
func (s *Scheduler) Start() {
	log.Printf("Starting scheduler (daily sweep at %02d:00 %s)...", s.hour, s.location)

	ticker := time.NewTicker(s.interval)
	go func() {
		defer close(s.done)
		defer ticker.Stop()

		// Catch up immediately if the process starts after the sweep hour
		s.tick(s.ctx, s.now())

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.tick(s.ctx, s.now())
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight sweep to finish
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	s.cancel()
	<-s.done
	log.Println("Scheduler stopped")
}

// tick runs the sweep at most once per calendar day, at or after the sweep hour.
// It reports whether the sweep ran.
func (s *Scheduler) tick(ctx context.Context, now time.Time) bool {
	local := now.In(s.location)
	day := local.Format("2006-01-02")

	s.mu.Lock()
	if local.Hour() < s.hour || s.lastRun == day {
		s.mu.Unlock()
		return false
	}
	s.lastRun = day
	s.mu.Unlock()

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	count, err := s.sweeper.Run(runCtx, now)
	if err != nil {
		log.Printf("Scheduled site visit sweep failed: %v", err)
		return true
	}

	log.Printf("Scheduled site visit sweep completed %d projects", count)
	return true
}

// GetStatus returns current scheduler status
func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"sweep_hour": s.hour,
		"last_run":   s.lastRun,
		"running":    s.ctx.Err() == nil,
	}
}
