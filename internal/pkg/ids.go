package pkg

import (
	"time"

	"github.com/google/uuid"
)

const tableNameLayout = "20060102-150405"

// GenerateRunID identifies one train/test/play invocation in the logs.
func GenerateRunID() string {
	return uuid.New().String()
}

// GenerateTableName names a freshly trained table after its completion time.
func GenerateTableName(now time.Time) string {
	return "qtable_" + now.Format(tableNameLayout)
}
