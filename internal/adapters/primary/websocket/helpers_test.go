package websocket

import (
	"io"
	"log/slog"
	"sync"

	apperrors "github.com/lorrc/scan-relay/internal/core/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSession records delivered messages in memory.
type fakeSession struct {
	id string

	mu       sync.Mutex
	messages [][]byte
	closed   bool
	failWith error
}

func newFakeSession(id string) *fakeSession {
	return &fakeSession{id: id}
}

func newBrokenSession(id string) *fakeSession {
	return &fakeSession{id: id, failWith: apperrors.ErrSessionClosed}
}

func (s *fakeSession) ID() string { return s.id }

func (s *fakeSession) Deliver(message []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if s.closed {
		return apperrors.ErrSessionClosed
	}
	s.messages = append(s.messages, message)
	return nil
}

func (s *fakeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSession) Messages() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.messages...)
}

func (s *fakeSession) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// panickySession fails by panicking inside Deliver.
type panickySession struct{ id string }

func (s panickySession) ID() string           { return s.id }
func (s panickySession) Deliver([]byte) error { panic("transport exploded") }
func (s panickySession) Close()               {}
