package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/tsawler/isaref/model"
	"github.com/tsawler/isaref/records"
)

const schema = `
CREATE TABLE IF NOT EXISTS instructions (
	id               INTEGER PRIMARY KEY,
	name             TEXT,
	opcode           TEXT,
	cpuid            TEXT,
	support_64bit    TEXT,
	operand_encoding TEXT
);
CREATE TABLE IF NOT EXISTS diagnostics (
	id         INTEGER PRIMARY KEY,
	code       TEXT NOT NULL,
	entry      TEXT NOT NULL,
	header_key TEXT NOT NULL,
	cell_value TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_instructions_name ON instructions(name);
`

type dbConfig struct {
	busyTimeout int
	synchronous string
	mkdirAll    bool
}

// DBOption customises OpenDB.
type DBOption func(*dbConfig)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) DBOption { return func(c *dbConfig) { c.busyTimeout = ms } }

// WithSynchronous sets PRAGMA synchronous. Default: "NORMAL".
func WithSynchronous(mode string) DBOption { return func(c *dbConfig) { c.synchronous = mode } }

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() DBOption { return func(c *dbConfig) { c.mkdirAll = true } }

// OpenDB opens an SQLite database with WAL journaling and the export schema
// applied. ":memory:" opens a private in-memory database.
func OpenDB(path string, opts ...DBOption) (*sql.DB, error) {
	cfg := dbConfig{busyTimeout: 10_000, synchronous: "NORMAL"}
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		fmt.Sprintf("PRAGMA synchronous = %s", cfg.synchronous),
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: exec schema: %w", err)
	}
	return db, nil
}

// SQLiteExporter replaces the contents of an SQLite database with a report.
type SQLiteExporter struct{}

// Export implements Exporter.
func (e *SQLiteExporter) Export(r *Report, filename string) error {
	db, err := OpenDB(filename, WithMkdirAll())
	if err != nil {
		return err
	}
	if err := WriteSQLite(context.Background(), db, r.Records, r.Diagnostics); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}

// WriteSQLite replaces the instructions and diagnostics tables in one
// transaction. Absent fields are stored as NULL.
func WriteSQLite(ctx context.Context, db *sql.DB, recs []model.InstructionRecord, diags []records.Diagnostic) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, stmt := range []string{"DELETE FROM instructions", "DELETE FROM diagnostics"} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: %s: %w", stmt, err)
		}
	}

	ins, err := tx.PrepareContext(ctx, `INSERT INTO instructions
		(id, name, opcode, cpuid, support_64bit, operand_encoding) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer ins.Close()
	for i, rec := range recs {
		if _, err = ins.ExecContext(ctx, i+1, rec.Name, rec.Opcode, rec.CPUID, rec.Support64Bit, rec.OperandEncoding); err != nil {
			return fmt.Errorf("sqlite: insert instruction %d: %w", i+1, err)
		}
	}

	diag, err := tx.PrepareContext(ctx, `INSERT INTO diagnostics (id, code, entry, header_key, cell_value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer diag.Close()
	for i, d := range diags {
		if _, err = diag.ExecContext(ctx, i+1, string(d.Code), d.Entry, d.Key, d.Value); err != nil {
			return fmt.Errorf("sqlite: insert diagnostic %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// ReadSQLite returns the stored records in insertion order.
func ReadSQLite(ctx context.Context, db *sql.DB) ([]model.InstructionRecord, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, opcode, cpuid, support_64bit, operand_encoding
		FROM instructions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()

	var out []model.InstructionRecord
	for rows.Next() {
		var rec model.InstructionRecord
		if err := rows.Scan(&rec.Name, &rec.Opcode, &rec.CPUID, &rec.Support64Bit, &rec.OperandEncoding); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
