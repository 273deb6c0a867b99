package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"auxbox/migrations"
	"auxbox/modules/search"
	"auxbox/modules/session"
	"auxbox/modules/session/models"

	"github.com/gin-gonic/gin"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"
	"xorm.io/xorm"
)

const testHashKey = "test-hash-key"

type testEnv struct {
	api    *API
	engine *xorm.Engine
	codec  *session.Codec
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	engine, err := xorm.NewEngine("sqlite3", dsn)
	require.NoError(t, err)
	engine.SetMaxOpenConns(1)

	_, err = engine.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(engine.DB().DB))
	t.Cleanup(func() { engine.Close() })

	codec := session.NewCodec(testHashKey)
	api := NewAPI(
		codec,
		session.NewRegistry(engine),
		session.NewStore(engine),
		search.NewClient("", engine),
		NewHub(),
		"http://localhost:8080",
	)

	return &testEnv{
		api:    api,
		engine: engine,
		codec:  codec,
		router: api.Router(),
	}
}

func (e *testEnv) seedVideo(t *testing.T, id string) {
	t.Helper()

	_, err := e.engine.Insert(&models.Video{
		ID:        id,
		Title:     "title " + id,
		Channel:   "channel",
		Uploaded:  "2024-01-01",
		Duration:  180,
		CreatedAt: time.Now().Unix(),
	})
	require.NoError(t, err)
}

type envelope struct {
	Code  int             `json:"code"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, target, token string) envelope {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Basic "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, rec.Code, env.Code, "envelope code should match HTTP status")
	return env
}

// startSession runs POST /start and returns the host token.
func (e *testEnv) startSession(t *testing.T) string {
	t.Helper()

	env := e.do(t, http.MethodPost, "/start", "")
	require.Equal(t, http.StatusOK, env.Code)

	var token string
	require.NoError(t, json.Unmarshal(env.Data, &token))
	return token
}
