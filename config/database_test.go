package config

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	conn, err := OpenDatabase(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}))
	require.NoError(t, err)
	return conn, mock
}

const insertThing = "INSERT INTO things (name) VALUES (?)"

func TestWithTransactionOn_Commit(t *testing.T) {
	conn, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertThing)).WithArgs("a").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := WithTransactionOn(context.Background(), conn, "Insert", func(tx *gorm.DB) error {
		return tx.Exec(insertThing, "a").Error
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionOn_RollbackOnError(t *testing.T) {
	conn, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertThing)).WithArgs("a").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := WithTransactionOn(context.Background(), conn, "Insert", func(tx *gorm.DB) error {
		if err := tx.Exec(insertThing, "a").Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionOn_RollbackOnPanic(t *testing.T) {
	conn, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	require.PanicsWithValue(t, "kaboom", func() {
		_ = WithTransactionOn(context.Background(), conn, "Panic", func(tx *gorm.DB) error {
			panic("kaboom")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionOn_NotConnected(t *testing.T) {
	called := false
	err := WithTransactionOn(context.Background(), nil, "Nothing", func(tx *gorm.DB) error {
		called = true
		return nil
	})
	require.EqualError(t, err, "Nothing: database not connected")
	require.False(t, called)
}

func TestMySQLDSN(t *testing.T) {
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "insurance")

	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3306")
	dsn := MySQLDSN()
	require.Contains(t, dsn, "svc:secret@tcp(db.internal:3306)/insurance")
	require.Contains(t, dsn, "parseTime=true")

	t.Setenv("DB_HOST", "/cloudsql/proj:region:inst")
	require.Contains(t, MySQLDSN(), "@unix(/cloudsql/proj:region:inst)/insurance")
}

func TestEnvFlags(t *testing.T) {
	t.Setenv("SKIP_MIGRATIONS", "yes")
	require.True(t, SkipMigrations())
	t.Setenv("SKIP_MIGRATIONS", "nope")
	require.False(t, SkipMigrations())

	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "")
	require.EqualValues(t, 600, RateLimitMaxRequests())
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "abc")
	require.EqualValues(t, 600, RateLimitMaxRequests())
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "30")
	require.EqualValues(t, 30, RateLimitWindowSeconds())

	t.Setenv("GO_ENV", " Production ")
	require.True(t, IsProduction())
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	require.Equal(t, logrus.ErrorLevel, logLevelFromEnv())
	t.Setenv("LOG_LEVEL", "debug")
	require.Equal(t, logrus.DebugLevel, logLevelFromEnv())
	t.Setenv("LOG_LEVEL", "chatty")
	require.Equal(t, logrus.ErrorLevel, logLevelFromEnv())
}
