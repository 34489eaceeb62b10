package model

import (
	"io"
	"time"
)

// Document represents an uploaded file that belongs to a session's corpus.
// This is a pure domain model with no database-specific dependencies or tags.
type Document struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	StoragePath  string    `json:"storage_path"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// UploadCandidate is a file queued on the client that passed validation and awaits transmission.
// Open is called once per attempt, so a candidate left queued after a failure can be sent again.
type UploadCandidate struct {
	ID          string                        `json:"id"`
	Name        string                        `json:"name"`
	Size        int64                         `json:"size"`
	ContentType string                        `json:"content_type"`
	Open        func() (io.ReadCloser, error) `json:"-"`
}

// UploadResult is the aggregate outcome of one upload batch.
// FileCount never exceeds the number of candidates submitted.
type UploadResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	FileCount int    `json:"fileCount"`
}

// UploadResponse is the body the backend returns for a single accepted file.
type UploadResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	FileCount int       `json:"fileCount"`
	Document  *Document `json:"document,omitempty"`
}
