package store

import (
	"context"
	"database/sql"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Session is one persisted deliberation run.
type Session struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	Prompt    string    `json:"prompt"`
	Status    string    `json:"status"`
	Answer    string    `json:"answer,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// SessionStore persists sessions in Postgres when a DSN is configured and
// falls back to process memory otherwise. Reads go through an LRU cache.
type SessionStore struct {
	db *sql.DB

	mu   sync.RWMutex
	byID map[string]Session

	schemaOnce sync.Once
	schemaErr  error

	cache *lru.Cache[string, Session]
}

// NewMemory returns an in-memory store, used when no database is configured
// and in tests.
func NewMemory() *SessionStore {
	return &SessionStore{byID: make(map[string]Session)}
}

// NewPostgres opens a pgx-backed store and verifies connectivity.
func NewPostgres(dsn string) (*SessionStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Session](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SessionStore{db: db, cache: cache}, nil
}

// NewFromEnv reads COUNCIL_PG_DSN and falls back to memory when it is unset
// or the database is unreachable.
func NewFromEnv() *SessionStore {
	dsn := strings.TrimSpace(os.Getenv("COUNCIL_PG_DSN"))
	if dsn == "" {
		return NewMemory()
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return NewMemory()
	}
	return s
}

func (s *SessionStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SessionStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	mode       TEXT NOT NULL,
	prompt     TEXT NOT NULL,
	status     TEXT NOT NULL,
	answer     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`)
	})
	return s.schemaErr
}

// Put inserts or replaces a session.
func (s *SessionStore) Put(ctx context.Context, sess Session) error {
	now := time.Now().UTC()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now

	if s.db == nil {
		s.mu.Lock()
		s.byID[sess.ID] = sess
		s.mu.Unlock()
		return nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (id, mode, prompt, status, answer, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
	mode = EXCLUDED.mode,
	prompt = EXCLUDED.prompt,
	status = EXCLUDED.status,
	answer = EXCLUDED.answer,
	updated_at = EXCLUDED.updated_at`,
		sess.ID, sess.Mode, sess.Prompt, sess.Status, sess.Answer, sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		return err
	}
	s.cache.Add(sess.ID, sess)
	return nil
}

// Get returns a session by ID.
func (s *SessionStore) Get(ctx context.Context, id string) (Session, bool, error) {
	if s.db == nil {
		s.mu.RLock()
		sess, ok := s.byID[id]
		s.mu.RUnlock()
		return sess, ok, nil
	}
	if sess, ok := s.cache.Get(id); ok {
		return sess, true, nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return Session{}, false, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, mode, prompt, status, answer, created_at, updated_at
FROM sessions WHERE id = $1`, id)
	var sess Session
	err := row.Scan(&sess.ID, &sess.Mode, &sess.Prompt, &sess.Status, &sess.Answer,
		&sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	s.cache.Add(sess.ID, sess)
	return sess, true, nil
}

// SetStatus updates a session's status and final answer.
func (s *SessionStore) SetStatus(ctx context.Context, id, status, answer string) error {
	now := time.Now().UTC()
	if s.db == nil {
		s.mu.Lock()
		if sess, ok := s.byID[id]; ok {
			sess.Status = status
			sess.Answer = answer
			sess.UpdatedAt = now
			s.byID[id] = sess
		}
		s.mu.Unlock()
		return nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
UPDATE sessions SET status = $2, answer = $3, updated_at = $4 WHERE id = $1`,
		id, status, answer, now)
	if err != nil {
		return err
	}
	s.cache.Remove(id)
	return nil
}

// List returns sessions newest first, up to limit.
func (s *SessionStore) List(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	if s.db == nil {
		s.mu.RLock()
		out := make([]Session, 0, len(s.byID))
		for _, sess := range s.byID {
			out = append(out, sess)
		}
		s.mu.RUnlock()
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
		if len(out) > limit {
			out = out[:limit]
		}
		return out, nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, mode, prompt, status, answer, created_at, updated_at
FROM sessions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Mode, &sess.Prompt, &sess.Status,
			&sess.Answer, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}
