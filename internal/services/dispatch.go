package services

import (
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Dispatcher runs message handlers concurrently across users while keeping each user's messages
// strictly in arrival order, one at a time.
type Dispatcher struct {
	mu     sync.Mutex
	queues map[string]*userQueue
	g      *errgroup.Group
}

type userQueue struct {
	pending []func()
}

// NewDispatcher allows up to maxInFlight users to be handled at once
func NewDispatcher(maxInFlight int) *Dispatcher {
	g := new(errgroup.Group)
	if maxInFlight > 0 {
		g.SetLimit(maxInFlight)
	}
	return &Dispatcher{
		queues: make(map[string]*userQueue),
		g:      g,
	}
}

// Go queues fn behind any pending work for userID. It blocks only when the in-flight limit is reached.
func (d *Dispatcher) Go(userID string, fn func()) {
	d.mu.Lock()
	if q, running := d.queues[userID]; running {
		q.pending = append(q.pending, fn)
		d.mu.Unlock()
		return
	}
	q := &userQueue{pending: []func(){fn}}
	d.queues[userID] = q
	d.mu.Unlock()

	d.g.Go(func() error {
		d.drain(userID, q)
		return nil
	})
}

// Do is Go followed by waiting for fn to finish
func (d *Dispatcher) Do(userID string, fn func()) {
	done := make(chan struct{})
	d.Go(userID, func() {
		defer close(done)
		fn()
	})
	<-done
}

// Wait blocks until every queued handler has run
func (d *Dispatcher) Wait() {
	_ = d.g.Wait()
}

func (d *Dispatcher) drain(userID string, q *userQueue) {
	for {
		d.mu.Lock()
		if len(q.pending) == 0 {
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		}
		fn := q.pending[0]
		q.pending = q.pending[1:]
		d.mu.Unlock()

		d.run(userID, fn)
	}
}

func (d *Dispatcher) run(userID string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("user_id", userID).Msg("❌ Handler panicked")
		}
	}()
	fn()
}
