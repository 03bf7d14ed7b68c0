// Package session keeps per-user state that lives from /start until
// /stop or process shutdown.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Snapshotter persists quiz state across process restarts
type Snapshotter interface {
	Save(ctx context.Context, userID uuid.UUID, st QuizState) error
	Load(ctx context.Context, userID uuid.UUID) (QuizState, bool, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// Session is the state of one user between session start and end
type Session struct {
	UserID        uuid.UUID
	StartedAt     time.Time
	Notifications *Notifications
	Quiz          *QuizAnswers
}

// Option configures a Manager
type Option func(*Manager)

// WithSnapshotter stores quiz state in s on every change
func WithSnapshotter(s Snapshotter) Option {
	return func(m *Manager) { m.snapshots = s }
}

// WithNotificationTTL sets how long notifications stay visible
func WithNotificationTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// Manager owns every live session
type Manager struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*Session
	ttl       time.Duration
	snapshots Snapshotter
	logger    *zap.Logger
}

// NewManager creates a session manager
func NewManager(logger *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      DefaultNotificationTTL,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start returns the user's session, creating it and restoring any quiz
// snapshot when none is live. A new session becomes visible only after
// its snapshot is restored.
func (m *Manager) Start(ctx context.Context, userID uuid.UUID) *Session {
	if s, ok := m.Get(userID); ok {
		return s
	}

	s := &Session{
		UserID:        userID,
		StartedAt:     time.Now().UTC(),
		Notifications: newNotifications(m.ttl),
	}
	s.Quiz = newQuizAnswers(func(st QuizState) { m.save(userID, st) })
	m.restore(ctx, s)

	m.mu.Lock()
	if live, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		s.Notifications.Close()
		return live
	}
	m.sessions[userID] = s
	m.mu.Unlock()

	m.logger.Info("Session started", zap.String("user_id", userID.String()))
	return s
}

func (m *Manager) restore(ctx context.Context, s *Session) {
	if m.snapshots == nil {
		return
	}
	st, ok, err := m.snapshots.Load(ctx, s.UserID)
	switch {
	case err != nil:
		m.logger.Error("Failed to restore quiz state", zap.String("user_id", s.UserID.String()), zap.Error(err))
	case ok:
		s.Quiz.restore(st)
		m.logger.Debug("Quiz state restored", zap.String("user_id", s.UserID.String()))
	}
}

// Get returns the live session of a user
func (m *Manager) Get(userID uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Notify pushes text to the user's notifications if a session is live
func (m *Manager) Notify(userID uuid.UUID, text string) bool {
	s, ok := m.Get(userID)
	if !ok {
		return false
	}
	_, pushed := s.Notifications.Push(text)
	return pushed
}

// End tears the session down and deletes its quiz snapshot
func (m *Manager) End(ctx context.Context, userID uuid.UUID) bool {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.Notifications.Close()

	if m.snapshots != nil {
		if err := m.snapshots.Delete(ctx, userID); err != nil {
			m.logger.Error("Failed to delete quiz state", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	m.logger.Info("Session ended", zap.String("user_id", userID.String()))
	return true
}

// Shutdown tears down every session. Snapshots are kept so quizzes resume
// after a restart.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Notifications.Close()
	}
	m.logger.Info("Sessions closed", zap.Int("count", len(sessions)))
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) save(userID uuid.UUID, st QuizState) {
	if m.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.snapshots.Save(ctx, userID, st); err != nil {
		m.logger.Error("Failed to snapshot quiz state", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
