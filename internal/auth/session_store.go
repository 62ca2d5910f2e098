package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Adham-Aroubite/hr-back/internal/model"
)

// DefaultSessionTTL is how long a credential stays valid when no TTL is configured
const DefaultSessionTTL = 24 * time.Hour

// ErrSessionNotFound is returned when no live session matches
var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps credentials to accounts. Each account holds at most one live session.
type SessionStore interface {
	// Issue returns the account's unexpired session or replaces it with a new one
	Issue(ctx context.Context, userID uuid.UUID) (model.Session, error)
	// Lookup returns the live session with the given id
	Lookup(ctx context.Context, id uuid.UUID) (model.Session, error)
	// Revoke deletes the session, ErrSessionNotFound when nothing was deleted
	Revoke(ctx context.Context, id uuid.UUID) error
	// WithTx returns a store whose writes join the transaction
	WithTx(tx *gorm.DB) SessionStore
}

// GormSessionStore keeps sessions in the sessions table
type GormSessionStore struct {
	DB  *gorm.DB
	TTL time.Duration
	now func() time.Time
}

// NewGormSessionStore creates a database backed store
func NewGormSessionStore(db *gorm.DB, ttl time.Duration) *GormSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &GormSessionStore{DB: db, TTL: ttl, now: time.Now}
}

// WithTx returns a copy of the store bound to tx
func (s *GormSessionStore) WithTx(tx *gorm.DB) SessionStore {
	return &GormSessionStore{DB: tx, TTL: s.TTL, now: s.now}
}

// Issue reuses a live session, otherwise it deletes the expired one and inserts a fresh session.
// Concurrent first logins race on the user_id unique index, the loser reads the winner's row.
func (s *GormSessionStore) Issue(ctx context.Context, userID uuid.UUID) (model.Session, error) {
	db := s.DB.WithContext(ctx)
	now := s.now().UTC()

	var session model.Session
	err := db.Where("user_id = ?", userID).First(&session).Error
	switch {
	case err == nil && !session.Expired(now):
		return session, nil
	case err == nil:
		if err := db.Delete(&model.Session{}, "id = ?", session.ID).Error; err != nil {
			return model.Session{}, err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return model.Session{}, err
	}

	session = model.Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&session)
	if result.Error != nil {
		return model.Session{}, result.Error
	}
	if result.RowsAffected == 0 {
		if err := db.Where("user_id = ?", userID).First(&session).Error; err != nil {
			return model.Session{}, err
		}
	}
	return session, nil
}

// Lookup returns the session if it exists and has not expired
func (s *GormSessionStore) Lookup(ctx context.Context, id uuid.UUID) (model.Session, error) {
	var session model.Session
	err := s.DB.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, s.now().UTC()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	return session, nil
}

// Revoke deletes the session row
func (s *GormSessionStore) Revoke(ctx context.Context, id uuid.UUID) error {
	result := s.DB.WithContext(ctx).Delete(&model.Session{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// InMemorySessionStore keeps sessions in process memory.
// Expired entries are dropped when they are next touched.
type InMemorySessionStore struct {
	TTL    time.Duration
	now    func() time.Time
	mu     sync.RWMutex
	byID   map[uuid.UUID]model.Session
	byUser map[uuid.UUID]uuid.UUID
}

// NewInMemorySessionStore creates an empty in-process store
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &InMemorySessionStore{
		TTL:    ttl,
		now:    time.Now,
		byID:   make(map[uuid.UUID]model.Session),
		byUser: make(map[uuid.UUID]uuid.UUID),
	}
}

// WithTx returns the store itself, memory writes are not transactional
func (s *InMemorySessionStore) WithTx(_ *gorm.DB) SessionStore {
	return s
}

// Issue reuses a live session or replaces it
func (s *InMemorySessionStore) Issue(_ context.Context, userID uuid.UUID) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if id, ok := s.byUser[userID]; ok {
		if session := s.byID[id]; !session.Expired(now) {
			return session, nil
		}
		delete(s.byID, id)
	}

	session := model.Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}
	s.byID[session.ID] = session
	s.byUser[userID] = session.ID
	return session, nil
}

// Lookup returns the live session with the given id
func (s *InMemorySessionStore) Lookup(_ context.Context, id uuid.UUID) (model.Session, error) {
	s.mu.RLock()
	session, ok := s.byID[id]
	s.mu.RUnlock()

	if !ok {
		return model.Session{}, ErrSessionNotFound
	}
	if session.Expired(s.now().UTC()) {
		s.remove(session)
		return model.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Revoke deletes the session
func (s *InMemorySessionStore) Revoke(_ context.Context, id uuid.UUID) error {
	s.mu.RLock()
	session, ok := s.byID[id]
	s.mu.RUnlock()

	if !ok || !s.remove(session) {
		return ErrSessionNotFound
	}
	return nil
}

func (s *InMemorySessionStore) remove(session model.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[session.ID]; !ok {
		return false
	}
	delete(s.byID, session.ID)
	if s.byUser[session.UserID] == session.ID {
		delete(s.byUser, session.UserID)
	}
	return true
}
