package observe

import (
	"bytes"
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"city-weather/pkg/logger"
)

func TestNewSentryHook_EmptyDSN(t *testing.T) {
	hook, err := NewSentryHook("development", "test-app", "", false)
	assert.Error(t, err)
	assert.Nil(t, hook)
}

func TestSentryHook_EventFromErrorLine(t *testing.T) {
	var buf bytes.Buffer
	logger.NewZapLogger("test-app", &buf).Error(errors.New("provider unreachable"))

	hook := &SentryHook{appEnv: "production", appName: "test-app"}
	event, ok, err := hook.event(buf.Bytes())

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "provider unreachable", event.Message)
	assert.Equal(t, sentry.LevelError, event.Level)
	assert.Equal(t, "production", event.Environment)
	assert.Equal(t, "test-app", event.Extra["AppName"])
	assert.False(t, event.Timestamp.IsZero())
	require.Len(t, event.Exception, 1)
	assert.Equal(t, "provider unreachable", event.Exception[0].Value)
}

func TestSentryHook_SkipsLowerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger.NewZapLogger("test-app", &buf).Warning("city not found")

	hook := &SentryHook{}
	_, ok, err := hook.event(buf.Bytes())

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSentryHook_WriteNeverFails(t *testing.T) {
	hook := &SentryHook{}

	n, err := hook.Write([]byte("not json"))

	assert.NoError(t, err)
	assert.Equal(t, len("not json"), n)
}

func TestSentryHook_MapLevel(t *testing.T) {
	hook := &SentryHook{}
	assert.Equal(t, sentry.LevelWarning, hook.mapLevel(zapcore.WarnLevel))
	assert.Equal(t, sentry.LevelFatal, hook.mapLevel(zapcore.PanicLevel))
	assert.Equal(t, sentry.LevelDebug, hook.mapLevel(zapcore.InvalidLevel))
}
