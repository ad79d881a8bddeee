package boltdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/boltdb/bolt"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/domain/entity"
	"github.com/kiosk404/andalem/internal/andalem/service/crew/pkg/errno"
	"github.com/kiosk404/andalem/pkg/utils/json"
)

// SessionStore implements repo.SessionRepository using BoltDB.
type SessionStore struct {
	boltDB *bolt.DB
}

// NewSessionStore creates a new SessionStore instance.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{boltDB: db.Bolt()}
}

func (s *SessionStore) Create(_ context.Context, session *entity.Session) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		return putSession(tx.Bucket(bucketSessionStore), session)
	})
}

func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	var session entity.Session
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketSessionStore).Get([]byte(id))
		if data == nil {
			return errno.ErrSessionNotFound
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get session %q: %w", id, err)
	}
	session.EnsureCollections()
	return &session, nil
}

func (s *SessionStore) Update(_ context.Context, session *entity.Session) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessionStore)
		if b.Get([]byte(session.ID)) == nil {
			return fmt.Errorf("session %q: %w", session.ID, errno.ErrSessionNotFound)
		}
		return putSession(b, session)
	})
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	return s.boltDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessionStore)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("session %q: %w", id, errno.ErrSessionNotFound)
		}
		return b.Delete([]byte(id))
	})
}

func (s *SessionStore) List(_ context.Context) ([]*entity.Session, error) {
	sessions := make([]*entity.Session, 0)
	err := s.boltDB.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessionStore).ForEach(func(_, v []byte) error {
			var session entity.Session
			if err := json.Unmarshal(v, &session); err != nil {
				return fmt.Errorf("failed to unmarshal session: %w", err)
			}
			session.EnsureCollections()
			sessions = append(sessions, &session)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func putSession(b *bolt.Bucket, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return b.Put([]byte(session.ID), data)
}
