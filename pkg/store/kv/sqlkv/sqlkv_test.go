package sqlkv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/material-atlas/pkg/store/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportsKey = "material-didatico-reports"

type fixture struct {
	mock  sqlmock.Sqlmock
	store kv.Substrate
}

func setupFixture(t *testing.T) *fixture {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS kv_store`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := New(context.Background(), db, Snowflake, "")
	require.NoError(t, err)

	return &fixture{mock: mock, store: s}
}

func TestNew(t *testing.T) {
	t.Run("nil db", func(t *testing.T) {
		s, err := New(context.Background(), nil, SQLite, "")
		assert.Error(t, err)
		assert.Nil(t, s)
	})

	t.Run("invalid table name", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		s, err := New(context.Background(), db, SQLite, "kv; DROP TABLE x")
		assert.Error(t, err)
		assert.Nil(t, s)
	})

	t.Run("qualified table name", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS main.reports.kv_store (kv_key STRING NOT NULL`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		s, err := New(context.Background(), db, Databricks, "main.reports.kv_store")
		require.NoError(t, err)
		assert.NotNil(t, s)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("existing key", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectQuery(regexp.QuoteMeta(`SELECT kv_value FROM kv_store WHERE kv_key = ?`)).
			WithArgs(reportsKey).
			WillReturnRows(sqlmock.NewRows([]string{"kv_value"}).AddRow(`[{"id":"1"}]`))

		data, err := f.store.Get(ctx, reportsKey)
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1"}]`, string(data))
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("missing key", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectQuery(regexp.QuoteMeta(`SELECT kv_value FROM kv_store WHERE kv_key = ?`)).
			WithArgs(reportsKey).
			WillReturnRows(sqlmock.NewRows([]string{"kv_value"}))

		_, err := f.store.Get(ctx, reportsKey)
		assert.ErrorIs(t, err, kv.ErrKeyNotFound)
	})
}

func TestStore_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces value in one transaction", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_store WHERE kv_key = ?`)).
			WithArgs(reportsKey).
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_store (kv_key, kv_value) VALUES (?, ?)`)).
			WithArgs(reportsKey, `[]`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		f.mock.ExpectCommit()

		require.NoError(t, f.store.Put(ctx, reportsKey, []byte(`[]`)))
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("rolls back on insert failure", func(t *testing.T) {
		f := setupFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_store WHERE kv_key = ?`)).
			WithArgs(reportsKey).
			WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_store (kv_key, kv_value) VALUES (?, ?)`)).
			WithArgs(reportsKey, `[]`).
			WillReturnError(errors.New("warehouse unavailable"))
		f.mock.ExpectRollback()

		err := f.store.Put(ctx, reportsKey, []byte(`[]`))
		assert.ErrorContains(t, err, "warehouse unavailable")
		assert.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("databricks merges without a transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS kv_store`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		s, err := New(ctx, db, Databricks, "")
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta(`MERGE INTO kv_store t USING (SELECT ? AS kv_key, ? AS kv_value) s`)).
			WithArgs(reportsKey, `[{"id":"1"}]`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Put(ctx, reportsKey, []byte(`[{"id":"1"}]`)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("databricks merge failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS kv_store`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		s, err := New(ctx, db, Databricks, "")
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta(`MERGE INTO kv_store`)).
			WillReturnError(errors.New("warehouse unavailable"))

		err = s.Put(ctx, reportsKey, []byte(`[]`))
		assert.ErrorContains(t, err, "warehouse unavailable")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLiteFactory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reports.db")

	s, err := SQLiteFactory(ctx, kv.Settings{Path: path})
	require.NoError(t, err)

	_, err = s.Get(ctx, reportsKey)
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)

	require.NoError(t, s.Put(ctx, reportsKey, []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, reportsKey, []byte(`[1,2]`)))
	require.NoError(t, s.Close())

	reopened, err := SQLiteFactory(ctx, kv.Settings{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.Get(ctx, reportsKey)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))
}

func TestLoadSnowflakeConfig(t *testing.T) {
	t.Run("valid yaml", func(t *testing.T) {
		// Given
		path := filepath.Join(t.TempDir(), "snowflake.yaml")
		content := `account: "xy12345"
user: "reporter"
password: "secret"
database: "REPORTS"
warehouse: "COMPUTE_WH"`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		// When
		cfg, err := LoadSnowflakeConfig(path)

		// Then
		require.NoError(t, err)
		assert.Equal(t, "xy12345", cfg.Account)
		assert.Equal(t, "reporter", cfg.User)
		assert.Equal(t, "REPORTS", cfg.Database)
		assert.Equal(t, "COMPUTE_WH", cfg.Warehouse)
	})

	t.Run("missing account", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snowflake.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`user: "reporter"`), 0o644))

		_, err := LoadSnowflakeConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSnowflakeConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
