package job

import (
	"context"
	"os"
	"testing"

	"rjokes/database"
	"rjokes/logger"
	"rjokes/web/global"

	logging "github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubServer struct {
	ctx context.Context
}

func (s stubServer) GetCtx() context.Context { return s.ctx }

func TestCheckpointJobRun(t *testing.T) {
	t.Setenv("JOKES_LOG_FOLDER", t.TempDir())
	logger.InitLogger(logging.ERROR)

	dbPath := "test.db"
	os.Remove(dbPath)
	require.NoError(t, database.InitDB(dbPath))
	defer os.Remove(dbPath)

	j := NewCheckpointJob()

	// No server registered: the checkpoint runs against the open database.
	global.SetWebServer(nil)
	assert.NotPanics(t, j.Run)

	// A live server context still lets the checkpoint through.
	ctx, cancel := context.WithCancel(context.Background())
	global.SetWebServer(stubServer{ctx: ctx})
	defer global.SetWebServer(nil)
	assert.NotPanics(t, j.Run)

	// Once the context is cancelled the job stands down without touching
	// the database, even after it has been closed.
	cancel()
	require.NoError(t, database.CloseDB())
	assert.NotPanics(t, j.Run)
}
