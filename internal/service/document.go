package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"docuchat/internal/filepolicy"
	"docuchat/internal/model"
	"docuchat/internal/repository"
	"docuchat/internal/storage"
)

var tracer = otel.Tracer("docuchat/internal/service")

const (
	purgeBatchSize = 100
	presignExpiry  = 15 * time.Minute
)

// DocumentService defines the use cases for a session's uploaded documents.
type DocumentService interface {
	// Upload validates the file, stores its bytes, and records its metadata. Storage is rolled back
	// if the metadata cannot be saved.
	Upload(ctx context.Context, sessionID string, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error)

	// List returns a page of the session's documents and the session's total.
	List(ctx context.Context, sessionID string, limit, offset int) (*model.DocumentList, error)

	// DownloadURL returns a short-lived URL for one of the session's documents.
	DownloadURL(ctx context.Context, sessionID, id string) (string, error)

	// PurgeSession removes every document of a session and reports how many were removed.
	PurgeSession(ctx context.Context, sessionID string) (int, error)

	// PurgeExpired removes documents created before the cutoff.
	PurgeExpired(ctx context.Context, before time.Time) (int, error)
}

type documentService struct {
	store    storage.Storage
	repo     repository.DocumentRepository
	maxBytes int64
	log      *zap.Logger
}

// NewDocumentService constructs a DocumentService. A non-positive maxBytes falls back to the
// client-side cap.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, maxBytes int64, log *zap.Logger) DocumentService {
	if maxBytes <= 0 {
		maxBytes = filepolicy.MaxFileSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &documentService{store: store, repo: repo, maxBytes: maxBytes, log: log}
}

// DocumentKey is the object key for a stored document.
func DocumentKey(sessionID, filename string) string {
	return path.Join("documents", sessionID, filename)
}

func (s *documentService) Upload(ctx context.Context, sessionID string, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Upload")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("document.content_type", contentType),
		attribute.Int64("document.size", size),
	)

	if !ValidSessionID(sessionID) {
		return nil, ErrInvalidSession
	}
	if r == nil {
		return nil, ErrReaderNil
	}
	check := filepolicy.ValidateWithLimit(filepolicy.File{
		Name:        originalFilename,
		Size:        size,
		ContentType: contentType,
	}, s.maxBytes)
	if !check.Valid {
		return nil, fmt.Errorf("%s: %w", originalFilename, check.Reason)
	}

	ext, _ := filepolicy.Extension(contentType)
	id := uuid.NewString()
	genName := id + ext
	key := DocumentKey(sessionID, genName)

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
			"session-id":        sessionID,
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage put failed")
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:           id,
		SessionID:    sessionID,
		Filename:     genName,
		OriginalName: originalFilename,
		StoragePath:  objInfo.Key,
		Size:         objInfo.Size,
		ContentType:  objInfo.ContentType,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "metadata insert failed")
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.log.Info("document stored",
		zap.String("session_id", sessionID),
		zap.String("document_id", stored.ID),
		zap.String("original_name", originalFilename),
		zap.Int64("size", stored.Size),
	)
	return stored, nil
}

func (s *documentService) List(ctx context.Context, sessionID string, limit, offset int) (*model.DocumentList, error) {
	if !ValidSessionID(sessionID) {
		return nil, ErrInvalidSession
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.ListBySession(ctx, sessionID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &model.DocumentList{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) DownloadURL(ctx context.Context, sessionID, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	// Documents of other sessions are reported as missing.
	if doc.SessionID != sessionID {
		return "", ErrNotFound
	}
	return s.store.PresignGet(ctx, doc.StoragePath, presignExpiry)
}

func (s *documentService) PurgeSession(ctx context.Context, sessionID string) (int, error) {
	if !ValidSessionID(sessionID) {
		return 0, ErrInvalidSession
	}
	removed := 0
	for {
		page, err := s.repo.ListBySession(ctx, sessionID, repository.PageQuery{Limit: purgeBatchSize})
		if err != nil {
			return removed, err
		}
		if len(page.Items) == 0 {
			break
		}
		for _, doc := range page.Items {
			if err := s.remove(ctx, doc); err != nil {
				return removed, err
			}
			removed++
		}
	}
	s.log.Info("session purged", zap.String("session_id", sessionID), zap.Int("removed", removed))
	return removed, nil
}

func (s *documentService) PurgeExpired(ctx context.Context, before time.Time) (int, error) {
	removed := 0
	for {
		docs, err := s.repo.ListCreatedBefore(ctx, before, purgeBatchSize)
		if err != nil {
			return removed, err
		}
		if len(docs) == 0 {
			return removed, nil
		}
		for _, doc := range docs {
			if err := s.remove(ctx, doc); err != nil {
				return removed, err
			}
			removed++
		}
	}
}

// remove deletes the object first so a failed storage delete keeps the row that points at it.
func (s *documentService) remove(ctx context.Context, doc model.Document) error {
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	return nil
}
