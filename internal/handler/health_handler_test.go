package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patentdesk/internal/handler"
)

func newPingDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestHealthHandler_Readiness(t *testing.T) {
	db, dbMock := newPingDB(t)
	dbMock.ExpectPing()
	h := handler.NewHealthHandler(db, map[string]handler.Pinger{
		"redis": handler.PingFunc(func(context.Context) error { return nil }),
	})

	c, w := newContext(http.MethodGet, "/readyz", nil, nil, "")
	h.Readiness(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestHealthHandler_Readiness_DependencyDown(t *testing.T) {
	db, dbMock := newPingDB(t)
	dbMock.ExpectPing()
	h := handler.NewHealthHandler(db, map[string]handler.Pinger{
		"redis": handler.PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
	})

	c, w := newContext(http.MethodGet, "/readyz", nil, nil, "")
	h.Readiness(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis not reachable")
}

func TestHealthHandler_Readiness_DatabaseDown(t *testing.T) {
	db, dbMock := newPingDB(t)
	dbMock.ExpectPing().WillReturnError(errors.New("connection refused"))
	h := handler.NewHealthHandler(db, nil)

	c, w := newContext(http.MethodGet, "/readyz", nil, nil, "")
	h.Readiness(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database not reachable")
}
