package logging

import (
	"bytes"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lines decodes the JSON log lines written to buf.
func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		require.NoError(t, sonic.Unmarshal(line, &entry))
		out = append(out, entry)
	}
	return out
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, LevelInfo, cfg.Level)
	assert.False(t, cfg.Pretty)
	assert.NotNil(t, cfg.Output)
}

func TestSetup_FiltersBelowLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelWarn, Output: buf})

	logger.Info().Msg("dropped")
	logger.Warn().Str("endpoint", "/me").Msg("kept")

	entries := lines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["message"])
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "/me", entries[0]["endpoint"])
	assert.Equal(t, Service, entries[0]["service"])
	assert.Contains(t, entries[0], "time")
}

func TestSetup_UnknownLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: "verbose", Output: buf})
	logger.Debug().Msg("dropped")

	entries := lines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "verbose", entries[0]["requested_level"], "warning names the rejected level")
}

func TestSetup_Pretty(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelInfo, Pretty: true, Output: buf})
	logger.Info().Msg("human readable")

	assert.Contains(t, buf.String(), "human readable")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   LogLevel
		want    zerolog.Level
		wantErr bool
	}{
		{LevelDebug, zerolog.DebugLevel, false},
		{LevelInfo, zerolog.InfoLevel, false},
		{LevelWarn, zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{" ERROR ", zerolog.ErrorLevel, false},
		{"invalid", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	logger := NewLogger("transport")
	logger.Info().Msg("component message")

	entries := lines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "transport", entries[0]["component"])
	assert.Equal(t, Service, entries[0]["service"])
}

func TestNop(t *testing.T) {
	logger := Nop()
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}
