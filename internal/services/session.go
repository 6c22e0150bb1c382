package services

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/maoshanman/durian-order-bot/internal/models"
)

// SessionStore maps user identities to in-progress orders. It lives in process memory only:
// sessions do not survive a restart and abandoned sessions are never expired.
type SessionStore struct {
	sessions map[string]*models.Session
	mu       sync.RWMutex
	nowFunc  func() time.Time
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.Session),
		nowFunc:  time.Now,
	}
}

// NewSession builds a fresh session at the first step
func (s *SessionStore) NewSession(userID string) *models.Session {
	now := s.nowFunc()
	return &models.Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		Step:       models.StepAwaitName,
		Answers:    make(map[models.Field]string),
		CreatedAt:  now,
		LastActive: now,
	}
}

// Get returns a copy of the user's session, or nil if there is none
func (s *SessionStore) Get(userID string) *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions[userID].Clone()
}

// Put stores a copy of session under userID, replacing any existing one
func (s *SessionStore) Put(userID string, session *models.Session) {
	c := session.Clone()
	c.LastActive = s.nowFunc()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[userID] = c
}

// Touch marks the user's session as active now. It reports whether one existed.
func (s *SessionStore) Touch(userID string) bool {
	now := s.nowFunc()

	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[userID]
	if exists {
		session.LastActive = now
	}
	return exists
}

// Delete removes the user's session. It reports whether one existed.
func (s *SessionStore) Delete(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.sessions[userID]
	delete(s.sessions, userID)
	return exists
}

// Count returns the number of sessions in memory
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SessionStats summarises the sessions currently held
type SessionStats struct {
	ActiveSessions  int            `json:"active_sessions"`
	SessionsByStep  map[string]int `json:"sessions_by_step"`
	OldestIdle      time.Duration  `json:"oldest_idle_ns"`
	OldestIdleHuman string         `json:"oldest_idle"`
}

// Stats returns session statistics for monitoring
func (s *SessionStore) Stats() *SessionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &SessionStats{
		ActiveSessions: len(s.sessions),
		SessionsByStep: make(map[string]int),
	}

	now := s.nowFunc()
	for _, session := range s.sessions {
		stats.SessionsByStep[session.Step.String()]++
		if idle := now.Sub(session.LastActive); idle > stats.OldestIdle {
			stats.OldestIdle = idle
		}
	}
	stats.OldestIdleHuman = stats.OldestIdle.Round(time.Second).String()

	return stats
}

// IdleLongerThan lists user IDs whose session has been idle for at least d, oldest first
func (s *SessionStore) IdleLongerThan(d time.Duration) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.nowFunc()
	type idle struct {
		userID string
		since  time.Time
	}
	var found []idle
	for userID, session := range s.sessions {
		if now.Sub(session.LastActive) >= d {
			found = append(found, idle{userID: userID, since: session.LastActive})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].since.Before(found[j].since) })

	ids := make([]string, len(found))
	for i, f := range found {
		ids[i] = f.userID
	}
	if len(ids) > 0 {
		log.Debug().Int("count", len(ids)).Dur("idle", d).Msg("Found idle sessions")
	}
	return ids
}
