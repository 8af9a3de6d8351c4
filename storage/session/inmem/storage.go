package inmemsession

import (
	"sync"

	"github.com/trezcool/classwork/core/session"
)

// Storage keeps the session in memory only; it does not survive restarts.
type Storage struct {
	mu   sync.Mutex
	sess *session.Session
}

var _ session.Storage = (*Storage)(nil) // interface compliance check

func New() *Storage {
	return &Storage{}
}

func (s *Storage) Load() (session.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return session.Session{}, false, nil
	}
	return *s.sess, true, nil
}

func (s *Storage) Save(sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = &sess
	return nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}
