package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.DefaultLogin)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.AuditEnabled())
}

func TestLoad_NotExists(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Exists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, DirName), 0755))
	content := "default_login: emmerik\nlogging:\n  level: debug\naudit:\n  enabled: false\n"
	require.NoError(t, os.WriteFile(Path(dir), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "emmerik", cfg.DefaultLogin)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.AuditEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, DirName), 0755))
	require.NoError(t, os.WriteFile(Path(dir), []byte("logging: [unclosed"), 0644))

	_, err := Load(dir)
	assert.ErrorContains(t, err, "parse config")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	require.NoError(t, cfg.Set("default_login", "morgan"))
	require.NoError(t, cfg.Set("audit.enabled", "false"))
	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{key: "default_login", value: " emmerik ", want: "emmerik"},
		{key: "output_format", value: "json", want: "json"},
		{key: "output_format", value: "xml", wantErr: true},
		{key: "logging.level", value: "WARN", want: "warn"},
		{key: "logging.level", value: "loud", wantErr: true},
		{key: "audit.enabled", value: "true", want: "true"},
		{key: "audit.enabled", value: "maybe", wantErr: true},
		{key: "nope", value: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := Default()
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGet_AuditUnset(t *testing.T) {
	v, err := Default().Get("audit.enabled")
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = Default().Get("engine")
	assert.Error(t, err)
}
