package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/telepack/errs"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":         zerolog.InfoLevel,
		"debug":    zerolog.DebugLevel,
		" Warn ":   zerolog.WarnLevel,
		"ERROR":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
	}

	for input, want := range cases {
		t.Run("level_"+input, func(t *testing.T) {
			got, err := parseLevel(input)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}

	_, err := parseLevel("not-a-level")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("json", "info", &buf)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("tenant", "t1").Msg("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "visible", entry["message"])
	require.Equal(t, "t1", entry["tenant"])
	require.Equal(t, "info", entry["level"])
	require.Contains(t, entry, "time")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("console", "debug", &buf)
	require.NoError(t, err)

	log.Debug().Str("tenant", "t1").Msg("packed")
	require.Contains(t, buf.String(), "packed")
	require.Contains(t, buf.String(), "tenant=t1")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("json", "loud")
	require.Error(t, err)
}
