package session

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"auxbox/migrations"
	"auxbox/modules/session/models"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/require"
	"xorm.io/xorm"
)

// newTestEngine opens a throwaway database with the real schema. A single
// pooled connection keeps the pragmas in force for every statement.
func newTestEngine(t *testing.T) *xorm.Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", filepath.Join(t.TempDir(), "test.db"))
	engine, err := xorm.NewEngine("sqlite3", dsn)
	require.NoError(t, err)
	engine.SetMaxOpenConns(1)

	_, err = engine.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	_, err = engine.Exec(`PRAGMA busy_timeout = 5000`)
	require.NoError(t, err)

	require.NoError(t, migrations.Run(engine.DB().DB))

	t.Cleanup(func() { engine.Close() })
	return engine
}

func seedVideo(t *testing.T, engine *xorm.Engine, id, title string) {
	t.Helper()

	_, err := engine.Insert(&models.Video{
		ID:        id,
		Title:     title,
		Channel:   "test channel",
		Uploaded:  "2024-01-01",
		Duration:  240,
		CreatedAt: time.Now().Unix(),
	})
	require.NoError(t, err)
}

func newTestSession(t *testing.T, engine *xorm.Engine) *models.Session {
	t.Helper()

	sess, err := NewRegistry(engine).Create()
	require.NoError(t, err)
	return sess
}
