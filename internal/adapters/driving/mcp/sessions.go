package mcp

import (
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/consultsync/internal/core/ports/driving"
)

// sessionTable holds the playback sessions opened through the server.
type sessionTable struct {
	mu       sync.Mutex
	sessions map[string]driving.PlaybackSession
}

func newSessionTable() *sessionTable {
	return &sessionTable{sessions: make(map[string]driving.PlaybackSession)}
}

func (t *sessionTable) add(s driving.PlaybackSession) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[s.ID()] = s
}

func (t *sessionTable) get(id string) (driving.PlaybackSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return s, nil
}

// remove closes and forgets a session.
func (t *sessionTable) remove(id string) error {
	t.mu.Lock()
	s, ok := t.sessions[id]
	delete(t.sessions, id)
	t.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return s.Close()
}

// closeAll closes every session and empties the table.
func (t *sessionTable) closeAll() error {
	t.mu.Lock()
	open := t.sessions
	t.sessions = make(map[string]driving.PlaybackSession)
	t.mu.Unlock()

	var errs []error
	for _, s := range open {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *sessionTable) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
