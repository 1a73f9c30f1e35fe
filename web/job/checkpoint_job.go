// Package job holds the scheduled background tasks of the userdesk server.
package job

import (
	"github.com/userdesk/userdesk/database"
	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/util/common"

	"gorm.io/gorm"
)

// CheckpointJob folds the SQLite write-ahead log back into the database file
// so the WAL does not grow between restarts.
type CheckpointJob struct {
	db *gorm.DB
}

func NewCheckpointJob(db *gorm.DB) *CheckpointJob {
	return &CheckpointJob{db: db}
}

// Run checkpoints the database.
func (j *CheckpointJob) Run() {
	defer common.Recover("checkpoint job")

	if err := database.Checkpoint(j.db); err != nil {
		logger.Warning("checkpoint job err:", err)
		return
	}
	logger.Debug("database checkpoint done")
}
