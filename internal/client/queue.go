package client

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"docuchat/internal/filepolicy"
	"docuchat/internal/model"
)

// Opener returns a fresh reader over a file's bytes.
type Opener = func() (io.ReadCloser, error)

// FileOpener reopens path on every call.
func FileOpener(path string) Opener {
	return func() (io.ReadCloser, error) { return os.Open(path) }
}

// BytesOpener serves b on every call.
func BytesOpener(b []byte) Opener {
	return func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b)), nil }
}

// Queue holds upload candidates that passed validation. It is safe for concurrent use.
type Queue struct {
	mu    sync.Mutex
	items []model.UploadCandidate
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add queues f when it passes the file policy. Rejected files are never queued and the
// returned Result carries the reason.
func (q *Queue) Add(f filepolicy.File, open Opener) (model.UploadCandidate, filepolicy.Result) {
	res := filepolicy.Validate(f)
	if !res.Valid {
		return model.UploadCandidate{}, res
	}

	c := model.UploadCandidate{
		ID:          uuid.NewString(),
		Name:        f.Name,
		Size:        f.Size,
		ContentType: f.ContentType,
		Open:        open,
	}
	q.mu.Lock()
	q.items = append(q.items, c)
	q.mu.Unlock()
	return c, res
}

// Remove drops the candidate with the given id and reports whether it was queued.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, c := range q.items {
		if c.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Candidates returns a snapshot in insertion order.
func (q *Queue) Candidates() []model.UploadCandidate {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.UploadCandidate, len(q.items))
	copy(out, q.items)
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}
