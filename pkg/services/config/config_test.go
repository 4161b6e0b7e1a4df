package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/de-tools/material-atlas/pkg/store/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, "material-didatico-reports", cfg.Store.Key)
	assert.Equal(t, "kv_store", cfg.Store.Table)
	assert.False(t, cfg.Import.Strict)
	assert.Equal(t, 2.0, cfg.Export.Scale)
	assert.Equal(t, 60*time.Second, cfg.Export.Timeout)
	assert.Equal(t, "institution.ini", cfg.Institution.Path)
	assert.Equal(t, DefaultInstitutionProfile, cfg.Institution.Profile)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	// Given
	path := writeFile(t, "material-atlas.yaml", `
server:
  port: 9090
store:
  backend: s3
  s3:
    bucket: reports
    prefix: atlas
    region: sa-east-1
import:
  strict: true
export:
  timeout: 90s
`)
	t.Setenv("MATERIAL_ATLAS_LOG_LEVEL", "debug")
	t.Setenv("MATERIAL_ATLAS_STORE_KEY", "other-key")

	// When
	cfg, err := LoadConfig(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "other-key", cfg.Store.Key)
	assert.True(t, cfg.Import.Strict)
	assert.Equal(t, 90*time.Second, cfg.Export.Timeout)
	assert.Equal(t, kv.Settings{
		Table:       "kv_store",
		ProfileName: DefaultDatabricksProfile,
		Bucket:      "reports",
		Prefix:      "atlas",
		Region:      "sa-east-1",
	}, cfg.Store.Settings())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInstitutionRegistry(t *testing.T) {
	path := writeFile(t, "institution.ini", `
[default]
name = Universidade Estadual
logo = logo.png

[campus]
name = Campus Norte
sector = Núcleo de Educação a Distância
`)

	registry, err := NewInstitutionRegistry(path)
	require.NoError(t, err)

	profiles, err := registry.GetProfiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "campus"}, profiles)

	inst, err := registry.GetInstitution(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.Institution{
		Profile: "default",
		Name:    "Universidade Estadual",
		Sector:  "Setor de Material Didático",
		Logo:    filepath.Join(filepath.Dir(path), "logo.png"),
	}, inst)

	inst, err = registry.GetInstitution(context.Background(), "campus")
	require.NoError(t, err)
	assert.Equal(t, "Campus Norte - Núcleo de Educação a Distância", inst.String())

	_, err = registry.GetInstitution(context.Background(), "missing")
	assert.EqualError(t, err, "institution profile missing not found, available: default, campus")
}

func TestLoadInstitution_MissingFileFallsBack(t *testing.T) {
	inst, err := LoadInstitution(context.Background(), InstitutionConfig{
		Path:    filepath.Join(t.TempDir(), "institution.ini"),
		Profile: "default",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultInstitution, inst)
}

func TestDatabricksRegistry(t *testing.T) {
	path := writeFile(t, ".databrickscfg", `
[DEFAULT]
host = https://adb-123.azuredatabricks.net/
token = dapi-secret
http_path = /sql/1.0/warehouses/abc

[broken]
host = https://adb-456.azuredatabricks.net
`)

	registry, err := NewRegistry(path)
	require.NoError(t, err)

	profile, err := registry.GetProfile(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "DEFAULT", profile.Config.Profile)
	assert.Equal(t, "/sql/1.0/warehouses/abc", profile.HTTPPath)
	assert.Equal(t, "adb-123.azuredatabricks.net", HostName(profile.Config.Host))

	_, err = registry.GetProfile(context.Background(), "broken")
	assert.Error(t, err)

	_, err = registry.GetProfile(context.Background(), "staging")
	assert.EqualError(t, err, "profile staging not found, available: DEFAULT, broken")
}
