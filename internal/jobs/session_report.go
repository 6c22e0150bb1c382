package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maoshanman/durian-order-bot/internal/services"
)

// SessionReportJob periodically logs how many orders are in progress and which have gone quiet.
// Sessions are never expired; this only makes abandoned ones visible.
type SessionReportJob struct {
	sessions  *services.SessionStore
	interval  time.Duration
	idleAfter time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSessionReportJob reports every interval and flags sessions idle for longer than idleAfter
func NewSessionReportJob(sessions *services.SessionStore, interval, idleAfter time.Duration) *SessionReportJob {
	return &SessionReportJob{
		sessions:  sessions,
		interval:  interval,
		idleAfter: idleAfter,
	}
}

// Start runs the job in the background until Stop or ctx is cancelled
func (j *SessionReportJob) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		log.Debug().Msg("Session report job already running")
		return
	}
	if j.interval <= 0 {
		log.Info().Msg("Session report job disabled")
		return
	}

	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})
	go j.loop(ctx, j.done)

	log.Info().Dur("interval", j.interval).Msg("⏰ Session report job started")
}

// Stop halts the job and waits for the loop to exit
func (j *SessionReportJob) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Info().Msg("⏹️  Session report job stopped")
}

func (j *SessionReportJob) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Report()
		}
	}
}

// Report logs one snapshot and returns the identities idle past the threshold
func (j *SessionReportJob) Report() []string {
	stats := j.sessions.Stats()
	idle := j.sessions.IdleLongerThan(j.idleAfter)

	if stats.ActiveSessions == 0 {
		log.Debug().Msg("📊 No order sessions in progress")
		return idle
	}

	event := log.Info()
	if len(idle) > 0 {
		event = log.Warn()
	}
	event.
		Int("active", stats.ActiveSessions).
		Interface("by_step", stats.SessionsByStep).
		Str("oldest_idle", stats.OldestIdleHuman).
		Int("idle", len(idle)).
		Msg("📊 Order sessions in progress")
	return idle
}
