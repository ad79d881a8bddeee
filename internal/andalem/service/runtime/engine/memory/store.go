// Package memory persists task outcomes so agents with memory enabled can
// recall what the crew learned in earlier tasks and runs.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // Register SQLite3 driver
)

const TableMemories = "memories"

// Entry is one remembered task outcome.
type Entry struct {
	ID        string
	Crew      string
	AgentRole string
	Task      string
	Output    string
	CreatedAt time.Time
}

// Query selects memories to recall.
type Query struct {
	Crew string
	// AgentRole restricts recall to one agent; empty recalls the whole crew.
	AgentRole string
	// Text ranks entries sharing words with it first.
	Text  string
	Limit int
}

// Store is a SQLite backed memory.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the memory database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create memory dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + TableMemories + ` (
			id TEXT PRIMARY KEY,
			crew TEXT NOT NULL,
			agent_role TEXT NOT NULL,
			task TEXT NOT NULL,
			output TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_crew ON ` + TableMemories + `(crew, agent_role)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save records one task outcome.
func (s *Store) Save(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+TableMemories+` (id, crew, agent_role, task, output, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Crew, e.AgentRole, e.Task, e.Output, e.CreatedAt.UnixMilli())
	return err
}

// Recall returns up to q.Limit memories of q.Crew, the ones sharing the most
// words with q.Text first, then the newest.
func (s *Store) Recall(ctx context.Context, q Query) ([]*Entry, error) {
	stmt := `SELECT id, crew, agent_role, task, output, created_at FROM ` + TableMemories + ` WHERE crew = ?`
	args := []interface{}{q.Crew}
	if q.AgentRole != "" {
		stmt += ` AND agent_role = ?`
		args = append(args, q.AgentRole)
	}
	stmt += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			e  Entry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.Crew, &e.AgentRole, &e.Task, &e.Output, &ms); err != nil {
			return nil, err
		}
		e.CreatedAt = time.UnixMilli(ms)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rank(entries, q.Text, q.Limit), nil
}

// rank orders entries by shared words with text, keeping recency order on ties.
func rank(entries []*Entry, text string, limit int) []*Entry {
	terms := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if len(w) > 3 {
			terms[w] = struct{}{}
		}
	}
	score := func(e *Entry) int {
		n := 0
		body := strings.ToLower(e.Task + " " + e.Output)
		for t := range terms {
			if strings.Contains(body, t) {
				n++
			}
		}
		return n
	}
	scores := make(map[*Entry]int, len(entries))
	for _, e := range entries {
		scores[e] = score(e)
	}
	sorted := make([]*Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return scores[sorted[i]] > scores[sorted[j]] })
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
