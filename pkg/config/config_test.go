package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, TransportStdout, cfg.Transport)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "telemetry.spark", cfg.NATS.Subject)
	assert.Equal(t, 10, cfg.NATS.MaxReconnects)
	assert.Equal(t, time.Second, cfg.NATS.ReconnectWait)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigEnvOverride(t *testing.T) {
	t.Setenv("SPARKTEL_TRANSPORT", "nats")
	t.Setenv("SPARKTEL_NATS_URL", "nats://telemetry:4222")
	t.Setenv("SPARKTEL_NATS_MAX_RECONNECTS", "3")

	cfg := DefaultConfig()
	assert.Equal(t, TransportNATS, cfg.Transport)
	assert.Equal(t, "nats://telemetry:4222", cfg.NATS.URL)
	assert.Equal(t, 3, cfg.NATS.MaxReconnects)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"stdout", Config{Transport: TransportStdout}, false},
		{"nats valid", Config{Transport: TransportNATS, NATS: NATSConfig{URL: "nats://x:4222", Subject: "t"}}, false},
		{"nats missing url", Config{Transport: TransportNATS, NATS: NATSConfig{Subject: "t"}}, true},
		{"nats missing subject", Config{Transport: TransportNATS, NATS: NATSConfig{URL: "nats://x:4222"}}, true},
		{"unknown transport", Config{Transport: "smoke-signals"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sparktel.yaml")
	content := `
transport: nats
connector_version: 4.1.0
nats:
  url: nats://telemetry.internal:4222
  subject: telemetry.spark.prod
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, TransportNATS, cfg.Transport)
	assert.Equal(t, "4.1.0", cfg.ConnectorVersion)
	assert.Equal(t, "nats://telemetry.internal:4222", cfg.NATS.URL)
	assert.Equal(t, "telemetry.spark.prod", cfg.NATS.Subject)
	// Defaults survive where the file is silent.
	assert.Equal(t, 10, cfg.NATS.MaxReconnects)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: [unclosed"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
