// model.go this code defines the data model for the application
package datastore

import "time"

// Event represents a single accepted call detection. Events are append-only:
// they are created once at the ingest boundary and never updated or deleted.
type Event struct {
	ID         uint      `gorm:"primaryKey"`
	Timestamp  time.Time `gorm:"index:idx_events_timestamp;not null"` // always UTC, normalized on Save
	Species    string    `gorm:"index:idx_events_species"`
	Confidence float64
	ClipName   string // relative path to the supporting audio clip, empty for non-audio sources
	SourceNode string // node or device that produced the detection
	CreatedAt  time.Time
}

// DailyCount represents the number of events recorded on one calendar date.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
