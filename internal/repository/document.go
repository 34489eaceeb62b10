package repository

import (
	"context"
	"time"

	"docuchat/internal/model"
)

// DocumentRepository defines data access for session documents using SQL queries only.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListBySession returns one page of a session's documents, newest first, with the session's total.
	ListBySession(ctx context.Context, sessionID string, pq PageQuery) (*PageResult[model.Document], error)

	// ListCreatedBefore returns up to limit documents older than before, oldest first.
	ListCreatedBefore(ctx context.Context, before time.Time, limit int) ([]model.Document, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
