package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		log   func(Logger, string)
		want  bool
	}{
		{"debug at debug", LevelDebug, func(l Logger, m string) { l.Debug(m) }, true},
		{"debug at info", LevelInfo, func(l Logger, m string) { l.Debug(m) }, false},
		{"info at info", LevelInfo, func(l Logger, m string) { l.Info(m) }, true},
		{"warn at error", LevelError, func(l Logger, m string) { l.Warn(m) }, false},
		{"error at error", LevelError, func(l Logger, m string) { l.Error(m) }, true},
		{"error at silent", LevelSilent, func(l Logger, m string) { l.Error(m) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewLogger(tt.level, &buf), "compiling main")

			if tt.want {
				assert.Contains(t, buf.String(), "compiling main")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LevelInfo, &buf).WithFields(F("stage", "deploy"))

	log.Info("publishing module", F("module", "Message"), F("err", errors.New("boom")))

	out := buf.String()
	for _, want := range []string{"publishing module", "deploy", "Message", "boom"} {
		assert.Contains(t, out, want)
	}
}

func TestLogger_SetLevelIsShared(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LevelError, &buf)
	child := log.WithFields(F("bootstrap", "1"))

	child.Info("before")
	log.SetLevel(LevelInfo)
	child.Info("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]Level{"debug": LevelDebug, "WARN": LevelWarn, " silent ": LevelSilent} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorContains(t, err, `unknown log level "verbose"`)
}

func TestSilentLogger(t *testing.T) {
	log := NewSilentLogger()
	log.Error("nothing")
	assert.NoError(t, log.Sync())
}

func TestDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	silent := NewSilentLogger()
	SetDefault(silent)
	assert.Same(t, silent, Default())
}
