package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"ms-event-dashboard/internal/config"
	"ms-event-dashboard/internal/linker"
	"ms-event-dashboard/internal/logger"
)

var ErrSessionNotFound = errors.New("editor session not found")

// Manager is the in-memory registry of open editor sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	store     Store
	catalogs  Catalogs
	resolver  *linker.Resolver
	publisher Publisher
	logger    *logger.Logger
	cfg       config.EditorConfig
}

func NewManager(store Store, catalogs Catalogs, resolver *linker.Resolver, publisher Publisher, log *logger.Logger, cfg config.EditorConfig) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		store:     store,
		catalogs:  catalogs,
		resolver:  resolver,
		publisher: publisher,
		logger:    log,
		cfg:       cfg,
	}
}

// Open creates a session for one vendor and loads the event into it.
func (m *Manager) Open(ctx context.Context, vendorID, eventID string) (*Session, error) {
	session := &Session{
		ID:          uuid.NewString(),
		VendorID:    vendorID,
		state:       StateLoading,
		tab:         TabDetails,
		store:       m.store,
		catalogs:    m.catalogs,
		resolver:    m.resolver,
		publisher:   m.publisher,
		logger:      m.logger,
		saveTimeout: m.cfg.SaveTimeout,
	}
	if m.cfg.AutosaveEnabled {
		session.autosaver = NewAutosaver(session, m.cfg.AutosaveDebounce, m.logger)
	}

	if err := session.Load(ctx, eventID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	return session, nil
}

// Get returns one vendor's session; other vendors' sessions are
// invisible.
func (m *Manager) Get(sessionID, vendorID string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[sessionID]
	m.mu.RUnlock()

	if !ok || session.VendorID != vendorID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Remove drops a closed session from the registry.
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}
