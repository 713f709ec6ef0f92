package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func catalogQuery() (string, int64) {
	return `SELECT * FROM "states" WHERE country_id = $1 ORDER BY name`, 3
}

func TestNewGormLogger_Defaults(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	assert.Equal(t, 200*time.Millisecond, gormLog.slowThreshold)
	assert.True(t, gormLog.ignoreRecordNotFoundError)
}

func TestNewGormLogger_Options(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gormLog.slowThreshold)
	assert.False(t, gormLog.ignoreRecordNotFoundError)
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info)

	changed := gormLog.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	changedLog, ok := changed.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, changedLog.logLevel)
}

func TestGormLogger_TraceError(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Error)

	gormLog.Trace(context.Background(), time.Now(), catalogQuery, errors.New("connection refused"))

	entries := recorded.FilterMessage("sql failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Contains(t, fields["sql"], "states")
	assert.Equal(t, int64(3), fields["rows"])
	assert.Equal(t, "connection refused", fields["error"])
}

func TestGormLogger_TraceIgnoresRecordNotFound(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Error)

	gormLog.Trace(context.Background(), time.Now(), catalogQuery, gormlogger.ErrRecordNotFound)

	assert.Zero(t, recorded.Len())
}

func TestGormLogger_TraceReportsRecordNotFoundWhenConfigured(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

	gormLog.Trace(context.Background(), time.Now(), catalogQuery, gormlogger.ErrRecordNotFound)

	assert.Len(t, recorded.FilterMessage("sql failed").All(), 1)
}

func TestGormLogger_TraceSlowQuery(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

	gormLog.Trace(context.Background(), time.Now().Add(-50*time.Millisecond), catalogQuery, nil)

	entries := recorded.FilterMessage("slow sql").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestGormLogger_TraceCarriesRequestScope(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Info)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")
	ctx, _ = WithUserID(ctx, zap.NewNop(), "7")
	gormLog.Trace(ctx, time.Now(), catalogQuery, nil)

	entries := recorded.FilterMessage("sql").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "7", fields["user_id"])
}

func TestGormLogger_SilentLogsNothing(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Silent)

	gormLog.Trace(context.Background(), time.Now(), catalogQuery, errors.New("connection refused"))
	gormLog.Info(context.Background(), "noisy %s", "message")
	gormLog.Warn(context.Background(), "noisy %s", "message")
	gormLog.Error(context.Background(), "noisy %s", "message")

	assert.Zero(t, recorded.Len())
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"", gormlogger.Warn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapGormLogLevel(tt.in), "level %q", tt.in)
	}
}
