package storage

// sqlite.go: persistencia de pools de cuentas y auditoría de ticks.
//
// Estrategia:
//   - `accounts`: UNA fila por (role, address). El INSERT usa ON CONFLICT DO NOTHING,
//     así que repetir el provisioning al reiniciar nunca crea duplicados.
//   - `ticks`: una fila por tick completado (supply o buy) para auditar decisiones.
//   - Prune automático al arrancar: ticks > 30d.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alejandrodnm/frcbot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Una fila por cuenta y rol, sin duplicados
CREATE TABLE IF NOT EXISTS accounts (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    role       INTEGER  NOT NULL,
    address    TEXT     NOT NULL,
    key        TEXT     NOT NULL,
    created_at DATETIME NOT NULL,
    UNIQUE (role, address)
);

-- Resumen de cada tick del scheduler
CREATE TABLE IF NOT EXISTS ticks (
    id           TEXT PRIMARY KEY,
    branch       TEXT     NOT NULL,
    token        TEXT     NOT NULL,
    started_at   DATETIME NOT NULL,
    duration_ms  INTEGER  NOT NULL DEFAULT 0,
    total_count  INTEGER  NOT NULL DEFAULT 0,
    total_amount TEXT     NOT NULL DEFAULT '0',
    threshold    TEXT     NOT NULL DEFAULT '0',
    deficit      INTEGER  NOT NULL DEFAULT 0,
    floor_price  TEXT     NOT NULL DEFAULT '0',
    price_index  INTEGER  NOT NULL DEFAULT 0,
    candidates   INTEGER  NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_accounts_role ON accounts(role);
CREATE INDEX IF NOT EXISTS idx_ticks_at      ON ticks(started_at DESC);
`

const retentionTicks = 30 * 24 * time.Hour

// SQLiteStorage implementa ports.AccountStore y ports.TickStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia ticks antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	path = strings.TrimPrefix(path, "sqlite://")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: %w: open %q: %w", domain.ErrStorage, path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: %w: apply schema: %w", domain.ErrStorage, err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// PersistAccounts inserta las cuentas del rol en una transacción.
// Las que ya existen se ignoran.
func (s *SQLiteStorage) PersistAccounts(ctx context.Context, role domain.Role, accounts []domain.Account) error {
	if !role.Valid() {
		return fmt.Errorf("storage.PersistAccounts: %w: invalid role %d", domain.ErrStorage, int(role))
	}
	if len(accounts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.PersistAccounts: %w: begin tx: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accounts (role, address, key, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(role, address) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("storage.PersistAccounts: %w: prepare: %w", domain.ErrStorage, err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	inserted := 0
	for _, a := range accounts {
		res, err := stmt.ExecContext(ctx, int(role), a.Address, a.Key, now)
		if err != nil {
			return fmt.Errorf("storage.PersistAccounts: %w: insert %s: %w", domain.ErrStorage, a.Address, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.PersistAccounts: %w: commit: %w", domain.ErrStorage, err)
	}
	slog.Debug("accounts persisted", "role", role, "given", len(accounts), "inserted", inserted)
	return nil
}

// CountAccounts devuelve el número de cuentas guardadas del rol.
func (s *SQLiteStorage) CountAccounts(ctx context.Context, role domain.Role) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE role = ?`, int(role),
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage.CountAccounts: %w: %w", domain.ErrStorage, err)
	}
	return n, nil
}

// SaveTick guarda el resumen de un tick. Los uint64 se guardan como TEXT
// porque INTEGER de SQLite es con signo.
func (s *SQLiteStorage) SaveTick(ctx context.Context, rec domain.TickRecord) error {
	deficit := 0
	if rec.Deficit {
		deficit = 1
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO ticks
			(id, branch, token, started_at, duration_ms, total_count, total_amount,
			 threshold, deficit, floor_price, price_index, candidates)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		string(rec.Branch),
		rec.Token,
		rec.StartedAt.UTC(),
		rec.Duration.Milliseconds(),
		rec.TotalCount,
		fmt.Sprint(rec.TotalAmount),
		fmt.Sprint(rec.Threshold),
		deficit,
		fmt.Sprint(rec.FloorPrice),
		rec.PriceIndex,
		rec.Candidates,
	); err != nil {
		return fmt.Errorf("storage.SaveTick: %w: insert %s: %w", domain.ErrStorage, rec.ID, err)
	}
	return nil
}

// RecentTicks devuelve los últimos limit ticks de la rama dada, más nuevos primero.
func (s *SQLiteStorage) RecentTicks(ctx context.Context, branch domain.Branch, limit int) ([]domain.TickRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, branch, token, started_at, duration_ms, total_count, total_amount,
		       threshold, deficit, floor_price, price_index, candidates
		FROM ticks
		WHERE branch = ?
		ORDER BY started_at DESC
		LIMIT ?`, string(branch), limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentTicks: %w: query: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var out []domain.TickRecord
	for rows.Next() {
		var (
			rec                   domain.TickRecord
			br, total, thr, floor string
			durMs                 int64
			deficit               int
		)
		if err := rows.Scan(&rec.ID, &br, &rec.Token, &rec.StartedAt, &durMs, &rec.TotalCount,
			&total, &thr, &deficit, &floor, &rec.PriceIndex, &rec.Candidates); err != nil {
			return nil, fmt.Errorf("storage.RecentTicks: %w: scan row: %w", domain.ErrStorage, err)
		}
		rec.Branch = domain.Branch(br)
		rec.Duration = time.Duration(durMs) * time.Millisecond
		rec.Deficit = deficit == 1
		if rec.TotalAmount, err = domain.ParseUint(total, "total_amount"); err != nil {
			return nil, fmt.Errorf("storage.RecentTicks: %w", err)
		}
		if rec.Threshold, err = domain.ParseUint(thr, "threshold"); err != nil {
			return nil, fmt.Errorf("storage.RecentTicks: %w", err)
		}
		if rec.FloorPrice, err = domain.ParseUint(floor, "floor_price"); err != nil {
			return nil, fmt.Errorf("storage.RecentTicks: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina ticks antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionTicks)
	s.db.ExecContext(ctx, `DELETE FROM ticks WHERE started_at < ?`, cutoff)
}
