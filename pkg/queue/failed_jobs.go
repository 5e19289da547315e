package queue

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/zmaxim/skystore/pkg/logger"
)

// FailedJobRecord keeps jobs that exhausted their retries so they can be
// inspected and replayed by hand.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "skystore_failed_jobs" }

var failedJobDB *gorm.DB

// UseDB persists failed jobs to the database. Call once after the database
// connection is up.
func UseDB(db *gorm.DB) {
	failedJobDB = db
	if err := db.AutoMigrate(&FailedJobRecord{}); err != nil {
		logger.Error("queue: migrate failed jobs table", "error", err)
	}
}

func (m *Manager) persistFailed(job Job, typeName string, lastErr error, attempts int) {
	if failedJobDB == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte("{}")
	}

	rec := FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Attempts: attempts,
	}
	if lastErr != nil {
		rec.Error = lastErr.Error()
	}

	if err := failedJobDB.Create(&rec).Error; err != nil {
		logger.Error("queue: persist failed job", "type", typeName, "error", err)
	}
}
