// Package session mints and persists the opaque token that binds a client to its document
// corpus on the backend.
package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager hands out the client's session token. The zero value has no store and always
// returns an empty token.
type Manager struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
}

// NewManager creates a Manager over store. A nil logger is replaced by a no-op logger.
func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger}
}

// Generate returns a fresh UUID v4 token without persisting it.
func Generate() string {
	return uuid.NewString()
}

// ID returns the stored token, minting and persisting one on first use. An empty string means
// storage is unavailable and callers should defer anything that needs a session.
func (m *Manager) ID() string {
	if m == nil || m.store == nil {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.store.Load()
	if err != nil {
		m.log().Warn("session load failed", zap.Error(err))
		return ""
	}
	if token != "" {
		return token
	}

	token = Generate()
	if err := m.store.Save(token); err != nil {
		m.log().Warn("session save failed", zap.Error(err))
		return ""
	}
	m.log().Info("session created", zap.String("session_id", token))
	return token
}

// Clear removes the stored token so the next ID call mints a new one.
func (m *Manager) Clear() error {
	if m == nil || m.store == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Delete()
}

func (m *Manager) log() *zap.Logger {
	if m.logger == nil {
		return zap.NewNop()
	}
	return m.logger
}
