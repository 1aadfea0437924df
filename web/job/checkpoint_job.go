// Package job contains the scheduled maintenance jobs run by the web
// server's cron.
package job

import (
	"rjokes/database"
	"rjokes/logger"
	"rjokes/web/global"
)

// CheckpointJob flushes the sqlite WAL back into the main database file.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

// Run implements cron.Job. A checkpoint fired during shutdown would race
// the database close, so the job stands down once the server's context
// is cancelled.
func (j *CheckpointJob) Run() {
	if s := global.GetWebServer(); s != nil {
		select {
		case <-s.GetCtx().Done():
			return
		default:
		}
	}
	if err := database.Checkpoint(); err != nil {
		logger.Warning("wal checkpoint failed:", err)
		return
	}
	logger.Debug("wal checkpoint completed")
}
