package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveTransition(ctx context.Context, t Transition) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	obs, err := json.Marshal(t.Obs)
	if err != nil {
		return fmt.Errorf("encoding observation: %w", err)
	}
	next, err := json.Marshal(t.NextObs)
	if err != nil {
		return fmt.Errorf("encoding next observation: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO transitions (
			run_id, episode, step, flow, class, agent, obs, next_obs,
			requested, realized, reward, target, done
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, episode, step) DO UPDATE SET
			flow = excluded.flow,
			class = excluded.class,
			agent = excluded.agent,
			obs = excluded.obs,
			next_obs = excluded.next_obs,
			requested = excluded.requested,
			realized = excluded.realized,
			reward = excluded.reward,
			target = excluded.target,
			done = excluded.done
	`, t.RunID, t.Episode, t.Step, int64(t.Flow), t.Class, t.Agent, obs, next,
		t.Requested, t.Realized, t.Reward, t.Target, t.Done)
	return err
}

func (s *SQLiteStore) Transitions(ctx context.Context, runID string) ([]Transition, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT episode, step, flow, class, agent, obs, next_obs, requested, realized, reward, target, done
		FROM transitions
		WHERE run_id = ?
		ORDER BY episode, step
	`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Transition
	for rows.Next() {
		t := Transition{RunID: runID}
		var flow int64
		var obs, next []byte
		if err := rows.Scan(&t.Episode, &t.Step, &flow, &t.Class, &t.Agent, &obs, &next,
			&t.Requested, &t.Realized, &t.Reward, &t.Target, &t.Done); err != nil {
			return nil, err
		}
		t.Flow = uint64(flow)
		if err := json.Unmarshal(obs, &t.Obs); err != nil {
			return nil, fmt.Errorf("decoding observation: %w", err)
		}
		if err := json.Unmarshal(next, &t.NextObs); err != nil {
			return nil, fmt.Errorf("decoding next observation: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS transitions (
			run_id TEXT NOT NULL,
			episode INTEGER NOT NULL,
			step INTEGER NOT NULL,
			flow INTEGER NOT NULL,
			class INTEGER NOT NULL,
			agent TEXT NOT NULL,
			obs BLOB NOT NULL,
			next_obs BLOB NOT NULL,
			requested INTEGER NOT NULL,
			realized INTEGER NOT NULL,
			reward REAL NOT NULL,
			target REAL NOT NULL,
			done INTEGER NOT NULL,
			PRIMARY KEY (run_id, episode, step)
		);
	`)
	return err
}
