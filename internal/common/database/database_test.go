package database

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-workers/internal/common/config"
)

func TestCheckAll_AllHealthy(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing()

	mr := miniredis.RunT(t)
	rdb := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rdb.Close()

	err = CheckAll(context.Background(), time.Second, NewPostgresFromDB(db), rdb)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAll_ReportsFailingStore(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = CheckAll(context.Background(), time.Second, NewPostgresFromDB(db))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres not ready")
}

func TestCheckAll_SkipsNilStores(t *testing.T) {
	var es Pinger
	assert.NoError(t, CheckAll(context.Background(), time.Second, es))
}

func TestElasticsearchClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, es.Ping(context.Background()))
}
