// Package session holds the authenticated identity & token of the client.
package session

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/classwork/core/user"
)

// Storage keys under which a Session is persisted.
const (
	TokenKey = "token"
	UserKey  = "user"
)

type (
	Session struct {
		User  user.User `json:"user"`
		Token string    `json:"token"`
	}

	// Storage is the durable local storage of a Session.
	// Load returns ok=false when nothing has been stored.
	Storage interface {
		Load() (sess Session, ok bool, err error)
		Save(sess Session) error
		Clear() error
	}

	// Reason tells logout listeners why the session ended.
	Reason int

	Store struct {
		writes    sync.Mutex // serializes Login & the ends of a session
		mu        sync.RWMutex
		storage   Storage
		current   *Session
		listeners []func(Reason)
	}
)

const (
	// LoggedOut: the user asked to log out.
	LoggedOut Reason = iota
	// Expired: the API rejected the credentials.
	Expired
	// Replaced: another user logged in over the session.
	Replaced
)

func (r Reason) String() string {
	switch r {
	case Expired:
		return "expired"
	case Replaced:
		return "replaced"
	}
	return "logged out"
}

// NewStore restores the Session kept in storage, if any.
func NewStore(storage Storage) (*Store, error) {
	s := &Store{storage: storage}
	sess, ok, err := storage.Load()
	if err != nil {
		return nil, errors.Wrap(err, "restoring session")
	}
	if ok && sess.Token != "" {
		s.current = &sess
	}
	return s, nil
}

// Login replaces the current session and persists it.
// When another user's session is current, the listeners run with Replaced
// before the new session becomes visible.
func (s *Store) Login(usr user.User, token string) error {
	s.writes.Lock()
	defer s.writes.Unlock()

	sess := Session{User: usr, Token: token}
	if err := s.storage.Save(sess); err != nil {
		return errors.Wrap(err, "saving session")
	}

	s.mu.Lock()
	prev := s.current
	listeners := s.copyListeners()
	s.mu.Unlock()
	if prev != nil && prev.User.ID != usr.ID {
		for _, fn := range listeners {
			fn(Replaced)
		}
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	return nil
}

// Logout clears the session from memory & storage then notifies the listeners.
func (s *Store) Logout() error {
	return s.end(LoggedOut)
}

// Expire is Logout for authentication-rejected responses.
func (s *Store) Expire() error {
	return s.end(Expired)
}

// ExpireIf expires the session only while token is still the current one,
// so a rejection of a request sent before a new login leaves that login alone.
// It reports whether the session was expired.
func (s *Store) ExpireIf(token string) (bool, error) {
	s.writes.Lock()
	defer s.writes.Unlock()

	s.mu.Lock()
	if s.current == nil || s.current.Token != token {
		s.mu.Unlock()
		return false, nil
	}
	s.current = nil
	listeners := s.copyListeners()
	s.mu.Unlock()
	return true, s.finish(Expired, listeners)
}

func (s *Store) end(reason Reason) error {
	s.writes.Lock()
	defer s.writes.Unlock()

	s.mu.Lock()
	s.current = nil
	listeners := s.copyListeners()
	s.mu.Unlock()
	return s.finish(reason, listeners)
}

func (s *Store) copyListeners() []func(Reason) {
	listeners := make([]func(Reason), len(s.listeners))
	copy(listeners, s.listeners)
	return listeners
}

func (s *Store) finish(reason Reason, listeners []func(Reason)) error {
	// memory is cleared even if storage fails; listeners always run
	err := s.storage.Clear()
	for _, fn := range listeners {
		fn(reason)
	}
	return errors.Wrap(err, "clearing session")
}

// OnLogout registers fn to be called whenever the session ends or is
// replaced by another user's.
func (s *Store) OnLogout(fn func(Reason)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

func (s *Store) Token() string {
	sess, _ := s.Current()
	return sess.Token
}

func (s *Store) User() (user.User, bool) {
	sess, ok := s.Current()
	return sess.User, ok
}
