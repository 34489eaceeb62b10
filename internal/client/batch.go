package client

import (
	"context"
	"errors"
	"sync"

	"docuchat/internal/model"
)

// BatchState is the lifecycle of an UploadBatch: Idle -> Uploading -> Completed or Aborted.
type BatchState int

const (
	BatchIdle BatchState = iota
	BatchUploading
	BatchCompleted
	BatchAborted
)

func (s BatchState) String() string {
	switch s {
	case BatchIdle:
		return "idle"
	case BatchUploading:
		return "uploading"
	case BatchCompleted:
		return "completed"
	case BatchAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ErrBatchStarted is returned when Run is called on a batch that already left Idle.
var ErrBatchStarted = errors.New("upload batch already started")

// UploadBatch uploads a snapshot of a queue once. Accepted candidates are removed from the
// queue; the failed one and everything after it stay queued.
type UploadBatch struct {
	client    *Client
	queue     *Queue
	sessionID string

	mu     sync.Mutex
	state  BatchState
	result model.UploadResult
}

// NewUploadBatch prepares a batch over the current contents of q.
func (c *Client) NewUploadBatch(sessionID string, q *Queue) *UploadBatch {
	return &UploadBatch{client: c, queue: q, sessionID: sessionID}
}

// Run uploads the queued candidates. A batch runs at most once; both terminal states are final.
func (b *UploadBatch) Run(ctx context.Context) (model.UploadResult, error) {
	b.mu.Lock()
	if b.state != BatchIdle {
		res := b.result
		b.mu.Unlock()
		return res, ErrBatchStarted
	}
	b.state = BatchUploading
	b.mu.Unlock()

	files := b.queue.Candidates()
	res := b.client.UploadDocuments(ctx, b.sessionID, files)

	for _, f := range files[:res.FileCount] {
		b.queue.Remove(f.ID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.result = res
	if res.Success {
		b.state = BatchCompleted
	} else {
		b.state = BatchAborted
	}
	return res, nil
}

func (b *UploadBatch) State() BatchState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Result is the batch outcome; it is the zero value until the batch finishes.
func (b *UploadBatch) Result() model.UploadResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}
