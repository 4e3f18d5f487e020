package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"MarketInsight/internal/common"
	"MarketInsight/internal/model"
)

// SQLiteStore persists positions and their change history to SQLite.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *common.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, logger *common.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite position store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			symbol       TEXT PRIMARY KEY,
			quantity     REAL NOT NULL,
			average_cost REAL NOT NULL,
			updated_at   INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS position_history (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			action       TEXT NOT NULL,
			quantity     REAL,
			average_cost REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_symbol ON position_history(symbol, timestamp)`,
	}

	for _, st := range stmts {
		if _, err := s.db.Exec(st); err != nil {
			return fmt.Errorf("exec %q: %w", st[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.Position, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, quantity, average_cost FROM positions ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	out := []model.Position{}
	for rows.Next() {
		var p model.Position
		if err := rows.Scan(&p.Symbol, &p.Quantity, &p.AverageCost); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, symbol string) (*model.Position, error) {
	var p model.Position
	err := s.db.QueryRowContext(ctx,
		`SELECT symbol, quantity, average_cost FROM positions WHERE symbol = ?`,
		normalizeSymbol(symbol)).Scan(&p.Symbol, &p.Quantity, &p.AverageCost)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get position %s: %w", symbol, err)
	}
	return &p, nil
}

func (s *SQLiteStore) Put(ctx context.Context, p model.Position) error {
	p, err := Normalize(p)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO positions (symbol, quantity, average_cost, updated_at)
			VALUES (?,?,?,?)
			ON CONFLICT(symbol) DO UPDATE SET
				quantity = excluded.quantity,
				average_cost = excluded.average_cost,
				updated_at = excluded.updated_at`,
			p.Symbol, p.Quantity, p.AverageCost, now,
		); err != nil {
			return fmt.Errorf("upsert position %s: %w", p.Symbol, err)
		}
		return s.record(ctx, tx, now, p.Symbol, ActionPut, p.Quantity, p.AverageCost)
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, symbol string) error {
	symbol = normalizeSymbol(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM positions WHERE symbol = ?`, symbol)
		if err != nil {
			return fmt.Errorf("delete position %s: %w", symbol, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return s.record(ctx, tx, s.now().Unix(), symbol, ActionDelete, 0, 0)
	})
}

func (s *SQLiteStore) History(ctx context.Context, symbol string) ([]Change, error) {
	q := `SELECT symbol, action, quantity, average_cost, timestamp FROM position_history`
	var args []any
	if symbol = normalizeSymbol(symbol); symbol != "" {
		q += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	q += ` ORDER BY timestamp DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("position history: %w", err)
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var c Change
		var ts int64
		if err := rows.Scan(&c.Symbol, &c.Action, &c.Quantity, &c.AverageCost, &ts); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		c.At = time.Unix(ts, 0)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) record(ctx context.Context, tx *sql.Tx, ts int64, symbol, action string, qty, cost float64) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO position_history
		(timestamp, symbol, action, quantity, average_cost)
		VALUES (?,?,?,?,?)`,
		ts, symbol, action, qty, cost,
	)
	if err != nil {
		return fmt.Errorf("record %s %s: %w", action, symbol, err)
	}
	return nil
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	s.logger.Info().Msg("closing sqlite position store")
	return s.db.Close()
}
