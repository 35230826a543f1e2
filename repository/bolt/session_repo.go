package bolt

import (
	"context"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// SessionBucket is the bucket holding session records keyed by session ID.
const SessionBucket = "sessions"

type sessionRepository struct {
	db     *bolt.DB
	bucket []byte
	ttl    time.Duration
}

// Repository is a session store that also supports purging expired records.
type Repository interface {
	repository.SessionRepository
	repository.SessionPurger
}

// NewSessionRepository creates a BoltDB-backed session repository for
// deployments without Redis. Expired records are removed by PurgeExpired.
func NewSessionRepository(db *bolt.DB, ttl time.Duration) Repository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionRepository{
		db:     db,
		bucket: []byte(SessionBucket),
		ttl:    ttl,
	}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var session *domain.Session
	err := r.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(r.bucket).Get([]byte(id))
		if raw == nil {
			return domain.ErrSessionNotFound
		}
		session = &domain.Session{}
		return json.Unmarshal(raw, session)
	})
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Put([]byte(session.ID), payload)
	})
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Delete([]byte(id))
	})
}

func (r *sessionRepository) Extend(ctx context.Context, id string, ttlSeconds int) error {
	duration := time.Duration(ttlSeconds) * time.Second
	if duration <= 0 {
		duration = r.ttl
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		raw := b.Get([]byte(id))
		if raw == nil {
			return domain.ErrSessionNotFound
		}
		var session domain.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return err
		}
		session.ExpiresAt = time.Now().Add(duration)
		payload, err := json.Marshal(&session)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), payload)
	})
}

// PurgeExpired deletes every session that expired at or before now.
func (r *sessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	var purged int
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		var expired [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			var session domain.Session
			if err := json.Unmarshal(v, &session); err != nil || session.IsExpired(now) {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		purged = len(expired)
		return nil
	})
	return purged, err
}
