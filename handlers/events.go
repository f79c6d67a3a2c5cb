package handlers

import (
	"time"

	"github.com/Cloud-Net-Park/Gravel/models"
)

func newEvent(table string, change models.ChangeType, id string) models.ChangeEvent {
	return models.ChangeEvent{
		Table:           table,
		Type:            change,
		RecordID:        id,
		CommitTimestamp: time.Now().UTC(),
	}
}
