package boltsession

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/trezcool/classwork/core/session"
)

var bucket = []byte("session")

// Storage persists the session in a bbolt file under fixed keys.
type Storage struct {
	db *bbolt.DB
}

var _ session.Storage = (*Storage)(nil) // interface compliance check

// Open opens (or creates) the session file at path.
func Open(path string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "creating session dir")
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating session bucket")
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Load() (session.Session, bool, error) {
	var sess session.Session
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		token := b.Get([]byte(session.TokenKey))
		usr := b.Get([]byte(session.UserKey))
		if token == nil || usr == nil {
			return nil
		}
		if err := json.Unmarshal(usr, &sess.User); err != nil {
			return errors.Wrap(err, "decoding user")
		}
		sess.Token = string(token)
		found = true
		return nil
	})
	if err != nil {
		return session.Session{}, false, err
	}
	return sess, found, nil
}

func (s *Storage) Save(sess session.Session) error {
	usr, err := json.Marshal(sess.User)
	if err != nil {
		return errors.Wrap(err, "encoding user")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if err := b.Put([]byte(session.TokenKey), []byte(sess.Token)); err != nil {
			return err
		}
		return b.Put([]byte(session.UserKey), usr)
	})
}

func (s *Storage) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if err := b.Delete([]byte(session.TokenKey)); err != nil {
			return err
		}
		return b.Delete([]byte(session.UserKey))
	})
}
