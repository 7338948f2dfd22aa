package schema

import "time"

// CacheStatus represents the status of the metrics cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
	SchemaVersion   uint      `json:"schema_version"`
	Dirty           bool      `json:"dirty"`
}

// LanguageInfo describes one registry entry and how its lines are classified.
type LanguageInfo struct {
	Language   Language       `json:"language"`
	Classifier ClassifierKind `json:"classifier"`
	Marker     string         `json:"marker,omitempty"`
}
