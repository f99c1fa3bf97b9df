package log

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func replaceWithObserver(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	oldL, oldP := L(), _globalP.Load().(*ZapProperties)
	t.Cleanup(func() { ReplaceGlobals(oldL, oldP) })

	core, logs := observer.New(level)
	ReplaceGlobals(zap.New(core), &ZapProperties{Core: core, Level: zap.NewAtomicLevelAt(level)})
	return logs
}

func TestWithFieldsIsolated(t *testing.T) {
	logs := replaceWithObserver(t, zapcore.DebugLevel)

	parent := With(FieldComponent("decoder"))
	child := parent.With(FieldRecord("Apple"))
	child.Info("child")
	parent.Info("parent")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Apple", entries[0].ContextMap()[FieldNameRecord])
	assert.Equal(t, "decoder", entries[0].ContextMap()[FieldNameComponent])
	_, ok := entries[1].ContextMap()[FieldNameRecord]
	assert.False(t, ok)
}

func TestCtxLogger(t *testing.T) {
	logs := replaceWithObserver(t, zapcore.DebugLevel)

	ctx := WithModule(context.Background(), "dson")
	ctx = WithFields(ctx, FieldOffset(12))
	Ctx(ctx).Warn("ctx")
	Ctx(context.Background()).Warn("plain")
	//nolint:staticcheck
	Ctx(nil).Warn("nil")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "dson", entries[0].ContextMap()[FieldNameModule])
	assert.EqualValues(t, 12, entries[0].ContextMap()[FieldNameOffset])
	assert.Empty(t, entries[1].ContextMap())
}

func TestRatedLogger(t *testing.T) {
	logs := replaceWithObserver(t, zapcore.DebugLevel)

	group := fmt.Sprintf("log_test_%d", time.Now().UnixNano())
	logger := With().WithRateGroup(group, 1, 1)
	assert.True(t, logger.RatedWarn(1, "first"))
	assert.False(t, logger.RatedWarn(1, "second"))

	other := With().WithRateGroup(group, 1, 1)
	assert.False(t, other.RatedDebug(1, "shared group"))

	assert.True(t, RatedWarn(1, "global"))
	assert.Equal(t, 2, logs.Len())
}

func TestBinder(t *testing.T) {
	logs := replaceWithObserver(t, zapcore.InfoLevel)

	var b Binder
	b.Logger().Info("default")
	b.SetLogger(With(FieldComponent("bound")))
	b.Logger().Info("bound")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "bound", entries[1].ContextMap()[FieldNameComponent])
}

func TestLevel(t *testing.T) {
	replaceWithObserver(t, zapcore.InfoLevel)
	SetLevel(zapcore.ErrorLevel)
	assert.Equal(t, zapcore.ErrorLevel, GetLevel())
}

func TestInitLogger(t *testing.T) {
	lg, props, err := InitLogger(&Config{Level: "trace", Stdout: true, Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, lg)
	assert.Equal(t, zapcore.DebugLevel, props.Level.Level())

	_, _, err = InitLogger(&Config{Level: "bogus", Stdout: true})
	assert.Error(t, err)

	lg, _, err = InitTestLogger(t, &Config{Level: "info"})
	require.NoError(t, err)
	lg.Info("from test logger")
}

func TestInitFileLog(t *testing.T) {
	dir := t.TempDir()
	lg, err := initFileLog(&FileLogConfig{RootPath: dir, Filename: "dson.log"})
	require.NoError(t, err)
	assert.Equal(t, defaultLogMaxSize, lg.MaxSize)

	_, err = initFileLog(&FileLogConfig{RootPath: "/", Filename: "tmp"})
	assert.Error(t, err)
}

func TestGetenv(t *testing.T) {
	t.Setenv("DSON_LOG_TEST_BOOL", "on")
	t.Setenv("DSON_LOG_TEST_FLOAT", "2.5")
	assert.True(t, getenvBool("DSON_LOG_TEST_BOOL", false))
	assert.False(t, getenvBool("DSON_LOG_TEST_MISSING", false))
	assert.Equal(t, 2.5, getenvFloat("DSON_LOG_TEST_FLOAT", 1))
	assert.Equal(t, 1.0, getenvFloat("DSON_LOG_TEST_MISSING", 1))
}
