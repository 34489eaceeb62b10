package model

import "time"

// HealthStatus is the payload of the health endpoint.
type HealthStatus struct {
	Status string `json:"status"`
}

// Endpoint describes one route in the API info payload.
type Endpoint struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

// APIInfo is the payload of the API root.
type APIInfo struct {
	Message     string     `json:"message"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	Endpoints   []Endpoint `json:"endpoints"`
}

// DocumentList is a session's stored documents, newest first.
type DocumentList struct {
	Items []Document `json:"data"`
	Total int        `json:"total"`
}

// PurgeResult reports how many documents were removed by a purge or retention sweep.
type PurgeResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Removed int    `json:"removed"`
}

// CleanupStatus describes the retention sweep.
type CleanupStatus struct {
	Enabled      bool       `json:"enabled"`
	Interval     string     `json:"interval"`
	Retention    string     `json:"retention"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastRemoved  int        `json:"last_removed"`
	TotalRemoved int        `json:"total_removed"`
	LastError    string     `json:"last_error,omitempty"`
}

// DownloadLink is a presigned URL for one stored document.
type DownloadLink struct {
	URL string `json:"url"`
}
