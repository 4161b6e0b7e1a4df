// Package config loads application settings, institution profiles and backend
// credential profiles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/material-atlas/pkg/store/kv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MATERIAL_ATLAS_STORE_BACKEND.
const EnvPrefix = "MATERIAL_ATLAS"

type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Server      ServerConfig      `mapstructure:"server"`
	Store       StoreConfig       `mapstructure:"store"`
	Import      ImportConfig      `mapstructure:"import"`
	Export      ExportConfig      `mapstructure:"export"`
	Institution InstitutionConfig `mapstructure:"institution"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr is the listen address of the web server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StoreConfig struct {
	Backend     string   `mapstructure:"backend"`
	Key         string   `mapstructure:"key"`
	Path        string   `mapstructure:"path"`
	Table       string   `mapstructure:"table"`
	Profile     string   `mapstructure:"profile"`
	ProfileName string   `mapstructure:"profile_name"`
	HTTPPath    string   `mapstructure:"http_path"`
	S3          S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`
}

// Settings converts the store section into substrate options.
func (s StoreConfig) Settings() kv.Settings {
	return kv.Settings{
		Path:        s.Path,
		Table:       s.Table,
		Profile:     s.Profile,
		ProfileName: s.ProfileName,
		HTTPPath:    s.HTTPPath,
		Bucket:      s.S3.Bucket,
		Prefix:      s.S3.Prefix,
		Region:      s.S3.Region,
	}
}

type ImportConfig struct {
	Strict bool `mapstructure:"strict"`
}

type ExportConfig struct {
	Scale      float64       `mapstructure:"scale"`
	Timeout    time.Duration `mapstructure:"timeout"`
	BrowserBin string        `mapstructure:"browser_bin"`
}

type InstitutionConfig struct {
	Path    string `mapstructure:"path"`
	Profile string `mapstructure:"profile"`
}

var defaults = map[string]any{
	"log.level":           "info",
	"server.host":         "0.0.0.0",
	"server.port":         8080,
	"store.backend":       "file",
	"store.key":           "material-didatico-reports",
	"store.path":          "",
	"store.table":         "kv_store",
	"store.profile":       "",
	"store.profile_name":  DefaultDatabricksProfile,
	"store.http_path":     "",
	"store.s3.bucket":     "",
	"store.s3.prefix":     "",
	"store.s3.region":     "",
	"import.strict":       false,
	"export.scale":        2.0,
	"export.timeout":      "60s",
	"export.browser_bin":  "",
	"institution.path":    "institution.ini",
	"institution.profile": DefaultInstitutionProfile,
}

// LoadConfig reads the optional config file at path and applies environment
// overrides on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
