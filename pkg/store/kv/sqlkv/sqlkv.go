// Package sqlkv persists key-value pairs in a two column SQL table. The same
// code serves SQLite, Snowflake and Databricks SQL warehouses; the table
// definition and the write statement differ per dialect.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/de-tools/material-atlas/pkg/store/kv"
	"github.com/rs/zerolog"
)

const DefaultTable = "kv_store"

// Dialect describes how a driver names, creates and writes the key-value table.
type Dialect struct {
	Driver      string
	CreateTable string
	// Upsert is a single statement taking (key, value). When empty, writes use
	// DELETE and INSERT inside a transaction.
	Upsert string
}

var (
	SQLite = Dialect{
		Driver:      "sqlite",
		CreateTable: `CREATE TABLE IF NOT EXISTS %s (kv_key VARCHAR(255) NOT NULL PRIMARY KEY, kv_value TEXT NOT NULL)`,
	}
	Snowflake = Dialect{
		Driver:      "snowflake",
		CreateTable: `CREATE TABLE IF NOT EXISTS %s (kv_key VARCHAR(255) NOT NULL, kv_value VARCHAR NOT NULL)`,
	}
	Databricks = Dialect{
		Driver:      "databricks",
		CreateTable: `CREATE TABLE IF NOT EXISTS %s (kv_key STRING NOT NULL, kv_value STRING NOT NULL)`,
		// The driver has no transaction support.
		Upsert: `MERGE INTO %s t USING (SELECT ? AS kv_key, ? AS kv_value) s ON t.kv_key = s.kv_key ` +
			`WHEN MATCHED THEN UPDATE SET kv_value = s.kv_value ` +
			`WHEN NOT MATCHED THEN INSERT (kv_key, kv_value) VALUES (s.kv_key, s.kv_value)`,
	}
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

type store struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

// New creates the key-value table if needed and returns a substrate over it.
func New(ctx context.Context, db *sql.DB, dialect Dialect, table string) (kv.Substrate, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(dialect.CreateTable, table)); err != nil {
		return nil, fmt.Errorf("failed to create %s table %s: %w", dialect.Driver, table, err)
	}

	return &store{db: db, dialect: dialect, table: table}, nil
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	query := fmt.Sprintf(`SELECT kv_value FROM %s WHERE kv_key = ?`, s.table)
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return []byte(value), nil
}

// Put replaces the value with the dialect's upsert, or with delete and insert
// inside one transaction when the dialect has none.
func (s *store) Put(ctx context.Context, key string, value []byte) (err error) {
	if s.dialect.Upsert != "" {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf(s.dialect.Upsert, s.table), key, string(value)); err != nil {
			return fmt.Errorf("failed to write key %q: %w", key, err)
		}
		return nil
	}

	logger := zerolog.Ctx(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Warn().Err(rbErr).Str("key", key).Msg("failed to roll back key-value write")
		}
	}()

	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE kv_key = ?`, s.table), key); err != nil {
		return fmt.Errorf("failed to clear key %q: %w", key, err)
	}
	insert := fmt.Sprintf(`INSERT INTO %s (kv_key, kv_value) VALUES (?, ?)`, s.table)
	if _, err = tx.ExecContext(ctx, insert, key, string(value)); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit key %q: %w", key, err)
	}
	return nil
}

func (s *store) Close() error {
	return s.db.Close()
}
