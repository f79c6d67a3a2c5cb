package models

import "time"

// Table names shared by the REST routes and the realtime feed
const (
	TableProducts    = "products"
	TableUsers       = "users"
	TableFitProfiles = "fit_profiles"
)

// ChangeType is the kind of row change reported by the realtime feed
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent is one notification on the realtime feed
type ChangeEvent struct {
	Table           string     `json:"table"`
	Type            ChangeType `json:"type"`
	RecordID        string     `json:"record_id,omitempty"`
	CommitTimestamp time.Time  `json:"commit_timestamp"`
}
