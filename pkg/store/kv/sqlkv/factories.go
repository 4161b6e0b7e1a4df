package sqlkv

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/material-atlas/pkg/services/config"
	"github.com/de-tools/material-atlas/pkg/store/kv"
	sf "github.com/snowflakedb/gosnowflake"
	"github.com/spf13/viper"

	_ "github.com/databricks/databricks-sql-go"
	_ "modernc.org/sqlite"
)

const (
	defaultSQLitePath = "material-atlas.db"
	defaultHttpPath   = "/sql/1.0/warehouses/warehouse"
)

// SQLiteFactory opens a local SQLite database file.
func SQLiteFactory(ctx context.Context, settings kv.Settings) (kv.Substrate, error) {
	path := settings.Path
	if path == "" {
		path = defaultSQLitePath
	}

	db, err := sql.Open(SQLite.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// A single writer connection keeps SQLite from reporting busy databases.
	db.SetMaxOpenConns(1)

	return openOrClose(ctx, db, SQLite, settings.Table)
}

// SnowflakeFactory connects with the account described by the profile file.
func SnowflakeFactory(ctx context.Context, settings kv.Settings) (kv.Substrate, error) {
	cfg, err := LoadSnowflakeConfig(settings.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dsn, err := sf.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DSN: %w", err)
	}

	db, err := sql.Open(Snowflake.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return openOrClose(ctx, db, Snowflake, settings.Table)
}

// DatabricksFactory connects to a SQL warehouse using a .databrickscfg profile.
func DatabricksFactory(ctx context.Context, settings kv.Settings) (kv.Substrate, error) {
	registry, err := config.NewRegistry(settings.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to read databricks profiles: %w", err)
	}

	profile, err := registry.GetProfile(ctx, settings.ProfileName)
	if err != nil {
		return nil, err
	}

	httpPath := profile.HTTPPath
	if httpPath == "" {
		httpPath = settings.HTTPPath
	}
	if httpPath == "" {
		httpPath = defaultHttpPath
	}

	dsn := fmt.Sprintf("token:%s@%s%s", profile.Config.Token, config.HostName(profile.Config.Host), httpPath)

	db, err := sql.Open(Databricks.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Databricks: %w", err)
	}

	return openOrClose(ctx, db, Databricks, settings.Table)
}

func openOrClose(ctx context.Context, db *sql.DB, dialect Dialect, table string) (kv.Substrate, error) {
	s, err := New(ctx, db, dialect, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

type snowflakeProfile struct {
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
}

// LoadSnowflakeConfig loads connection settings from the specified profile path
func LoadSnowflakeConfig(profilePath string) (*sf.Config, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var profile snowflakeProfile
	if err := v.Unmarshal(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse snowflake config: %w", err)
	}
	if profile.Account == "" || profile.User == "" {
		return nil, fmt.Errorf("snowflake profile %s must define account and user", profilePath)
	}

	return &sf.Config{
		Account:   profile.Account,
		User:      profile.User,
		Password:  profile.Password,
		Database:  profile.Database,
		Schema:    profile.Schema,
		Warehouse: profile.Warehouse,
		Role:      profile.Role,
	}, nil
}
