package db

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap/zapcore"

	"docpipe-backend/internal/shared/telemetry"
)

// stubOpen swaps the pgx opener for sqlmock and counts how often it is called.
func stubOpen(t *testing.T, open func() (*sql.DB, error)) *int {
	t.Helper()
	calls := 0
	prev := openDB
	openDB = func(driverName, dsn string) (*sql.DB, error) {
		if driverName != "pgx" {
			t.Errorf("expected pgx driver, got %q", driverName)
		}
		calls++
		return open()
	}
	t.Cleanup(func() { openDB = prev })
	return &calls
}

func mockPool() (*sql.DB, error) {
	sqlDB, _, err := sqlmock.New()
	return sqlDB, err
}

func resetSingleton(t *testing.T) {
	t.Helper()
	reset := func() {
		singletonMu.Lock()
		singletonDB = nil
		singletonInFly = false
		singletonMu.Unlock()
	}
	reset()
	t.Cleanup(reset)
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	calls := stubOpen(t, mockPool)

	if _, err := Connect(context.Background(), "   ", DefaultServerOptions()); err == nil {
		t.Fatalf("expected error for empty DATABASE_URL")
	}
	if *calls != 0 {
		t.Fatalf("expected no open attempt, got %d", *calls)
	}
}

func TestConnectAppliesMigratePool(t *testing.T) {
	stubOpen(t, mockPool)

	sqlDB, err := Connect(context.Background(), "postgres://crm@localhost/docs", DefaultMigrateOptions())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer sqlDB.Close()

	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("expected a single connection for migrations, got %d", got)
	}
}

func TestConnectFailsWhenPingFails(t *testing.T) {
	refused := errors.New("connection refused")
	var mock sqlmock.Sqlmock
	stubOpen(t, func() (*sql.DB, error) {
		sqlDB, m, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			return nil, err
		}
		m.ExpectPing().WillReturnError(refused)
		mock = m
		return sqlDB, nil
	})

	_, err := Connect(context.Background(), "postgres://crm@localhost/docs", DefaultServerOptions())
	if !errors.Is(err, refused) {
		t.Fatalf("expected ping error, got %v", err)
	}
	if !strings.Contains(err.Error(), "ping database") {
		t.Fatalf("expected ping context in error, got %q", err.Error())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOpenForRuntimeSharesPoolInLambda(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "docpipe-api")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	resetSingleton(t)
	calls := stubOpen(t, mockPool)

	first, err := OpenForRuntime(context.Background(), "postgres://crm@localhost/docs")
	if err != nil {
		t.Fatalf("OpenForRuntime first: %v", err)
	}
	second, err := OpenForRuntime(context.Background(), "postgres://crm@localhost/docs")
	if err != nil {
		t.Fatalf("OpenForRuntime second: %v", err)
	}
	if first != second {
		t.Fatalf("expected invocations to share one pool")
	}
	if *calls != 1 {
		t.Fatalf("expected one open, got %d", *calls)
	}
	if got := first.Stats().MaxOpenConnections; got != DefaultLambdaOptions().MaxOpenConns {
		t.Fatalf("expected lambda pool size %d, got %d", DefaultLambdaOptions().MaxOpenConns, got)
	}
}

func TestOpenForRuntimeUsesServerPool(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	if IsLambdaRuntime() {
		t.Fatalf("expected non-lambda runtime")
	}
	resetSingleton(t)
	calls := stubOpen(t, mockPool)

	sqlDB, err := OpenForRuntime(context.Background(), "postgres://crm@localhost/docs")
	if err != nil {
		t.Fatalf("OpenForRuntime: %v", err)
	}
	defer sqlDB.Close()

	if got := sqlDB.Stats().MaxOpenConnections; got != DefaultServerOptions().MaxOpenConns {
		t.Fatalf("expected server pool size %d, got %d", DefaultServerOptions().MaxOpenConns, got)
	}
	if *calls != 1 {
		t.Fatalf("expected one open, got %d", *calls)
	}
	singletonMu.Lock()
	shared := singletonDB
	singletonMu.Unlock()
	if shared != nil {
		t.Fatalf("server runtime should not populate the lambda singleton")
	}
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	got := OptionsFromEnv(DefaultServerOptions())
	want := Options{
		MaxOpenConns:    7,
		MaxIdleConns:    3,
		ConnMaxLifetime: 20 * time.Minute,
		ConnMaxIdleTime: 45 * time.Second,
		PingTimeout:     time.Second,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestOptionsFromEnvKeepsDefaultsOnInvalidValues(t *testing.T) {
	var buf bytes.Buffer
	restore := telemetry.SetOutput(zapcore.AddSync(&buf))
	defer restore()

	t.Setenv("DB_MAX_OPEN_CONNS", "plenty")
	t.Setenv("DB_MAX_IDLE_CONNS", "")
	t.Setenv("DB_CONN_MAX_LIFETIME", "")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "")
	t.Setenv("DB_PING_TIMEOUT", "soon")

	got := OptionsFromEnv(DefaultLambdaOptions())
	if got != DefaultLambdaOptions() {
		t.Fatalf("expected lambda defaults, got %+v", got)
	}
	logs := buf.String()
	for _, key := range []string{"DB_MAX_OPEN_CONNS", "DB_PING_TIMEOUT"} {
		if !strings.Contains(logs, key) {
			t.Fatalf("expected db.env_invalid warning for %s, got %q", key, logs)
		}
	}
	if !strings.Contains(logs, "db.env_invalid") {
		t.Fatalf("expected db.env_invalid message, got %q", logs)
	}
}

func TestGetSingletonRetriesAfterFailure(t *testing.T) {
	resetSingleton(t)
	attempt := 0
	stubOpen(t, func() (*sql.DB, error) {
		attempt++
		if attempt == 1 {
			return nil, errors.New("dial tcp: connection refused")
		}
		return mockPool()
	})

	if _, err := GetSingleton(context.Background(), "postgres://crm@localhost/docs", DefaultLambdaOptions()); err == nil {
		t.Fatalf("expected first call to fail")
	}
	sqlDB, err := GetSingleton(context.Background(), "postgres://crm@localhost/docs", DefaultLambdaOptions())
	if err != nil {
		t.Fatalf("expected second call to succeed: %v", err)
	}
	if sqlDB == nil {
		t.Fatalf("expected db after retry")
	}
}
