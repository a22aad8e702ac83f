package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerTo(t *testing.T) {
	t.Cleanup(func() { SetLogger(zerolog.Nop()) })

	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"json info", "info", "json", false},
		{"text debug", "DEBUG", "text", false},
		{"empty format defaults to text", "warn", "", false},
		{"bad level", "loud", "json", true},
		{"bad format", "info", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := SetupLoggerTo(&buf, tt.level, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetLogger_AddsComponent(t *testing.T) {
	t.Cleanup(func() { SetLogger(zerolog.Nop()) })

	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, "info", "json"))

	logger := GetLogger("defaultfill")
	logger.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "defaultfill", entry["component"])
	assert.Equal(t, "hello", entry["message"])
}

func TestGetLogger_SilentByDefault(t *testing.T) {
	SetLogger(zerolog.Nop())
	logger := GetLogger("x")
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
