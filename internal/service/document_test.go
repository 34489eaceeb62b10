package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"docuchat/internal/filepolicy"
	"docuchat/internal/model"
	"docuchat/internal/repository"
	repoMocks "docuchat/internal/repository/mocks"
	"docuchat/internal/storage"
	storeMocks "docuchat/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testSession = "8a6e0804-2bd0-4672-b79d-d97027f9071a"

func TestDocumentService_Upload(t *testing.T) {
	tests := []struct {
		name             string
		sessionID        string
		originalFilename string
		contentType      string
		size             int64
		setupMocks       func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader
		wantErr          error
		wantErrMsg       string
	}{
		{
			name:             "happy path",
			sessionID:        testSession,
			originalFilename: "notes.txt",
			contentType:      "text/plain",
			size:             11,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello world")
				mStore.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "documents/"+testSession+"/") && strings.HasSuffix(key, ".txt")
				}), r, storage.PutObjectOptions{
					Size:        11,
					ContentType: "text/plain",
					Metadata:    map[string]string{"original-filename": "notes.txt", "session-id": testSession},
				}).Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
					return storage.ObjectInfo{Key: key, Size: 11, ContentType: "text/plain"}
				}, nil)

				mRepo.On("Create", mock.Anything, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.SessionID == testSession &&
						doc.OriginalName == "notes.txt" &&
						doc.Filename == doc.ID+".txt" &&
						strings.HasSuffix(doc.StoragePath, doc.Filename)
				})).Return(&model.Document{ID: "gen-id", SessionID: testSession}, nil)

				return r
			},
		},
		{
			name:             "extension comes from content type",
			sessionID:        testSession,
			originalFilename: "report",
			contentType:      filepolicy.ContentTypePDF,
			size:             3,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("pdf")
				mStore.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
					return strings.HasSuffix(key, ".pdf")
				}), r, mock.Anything).Return(storage.ObjectInfo{Key: "k"}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(&model.Document{ID: "gen-id"}, nil)
				return r
			},
		},
		{
			name:             "invalid session",
			sessionID:        "not-a-uuid",
			originalFilename: "notes.txt",
			contentType:      "text/plain",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("x")
			},
			wantErr: ErrInvalidSession,
		},
		{
			name:             "nil reader",
			sessionID:        testSession,
			originalFilename: "notes.txt",
			contentType:      "text/plain",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name:             "unsupported type never reaches storage",
			sessionID:        testSession,
			originalFilename: "notes.exe",
			contentType:      "application/x-msdownload",
			size:             1024,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("MZ")
			},
			wantErr: ErrUnsupportedType,
		},
		{
			name:             "too large",
			sessionID:        testSession,
			originalFilename: "big.pdf",
			contentType:      filepolicy.ContentTypePDF,
			size:             filepolicy.MaxFileSize + 1,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				return strings.NewReader("x")
			},
			wantErr: ErrTooLarge,
		},
		{
			name:             "storage error",
			sessionID:        testSession,
			originalFilename: "notes.txt",
			contentType:      "text/plain",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", mock.Anything, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:             "repository error with successful rollback",
			sessionID:        testSession,
			originalFilename: "notes.txt",
			contentType:      "text/plain",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", mock.Anything, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, mock.Anything).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:             "repository error with failed rollback",
			sessionID:        testSession,
			originalFilename: "notes.txt",
			contentType:      "text/plain",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", mock.Anything, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mStore, mRepo, 0, nil)

			r := tt.setupMocks(mStore, mRepo)

			doc, err := svc.Upload(context.Background(), tt.sessionID, r, tt.originalFilename, tt.contentType, tt.size)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			case tt.wantErrMsg != "":
				assert.ErrorContains(t, err, tt.wantErrMsg)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, doc)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("ListBySession", ctx, testSession, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.Document]{
				Items: []model.Document{{ID: "1"}, {ID: "2"}},
				Total: 2,
			}, nil)

		res, err := NewDocumentService(nil, mRepo, 0, nil).List(ctx, testSession, 10, 0)

		assert.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 2, res.Total)
		mRepo.AssertExpectations(t)
	})

	t.Run("pagination boundary uses defaults", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("ListBySession", ctx, testSession, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.Document]{Items: []model.Document{}}, nil)

		_, err := NewDocumentService(nil, mRepo, 0, nil).List(ctx, testSession, 0, -1)

		assert.NoError(t, err)
		mRepo.AssertExpectations(t)
	})

	t.Run("invalid session", func(t *testing.T) {
		_, err := NewDocumentService(nil, new(repoMocks.MockDocumentRepository), 0, nil).List(ctx, "x", 10, 0)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestDocumentService_DownloadURL(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		sessionID  string
		id         string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository)
		want       string
		wantErr    error
	}{
		{
			name:      "happy path",
			sessionID: testSession,
			id:        "doc-1",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1", SessionID: testSession, StoragePath: "p"}, nil)
				mStore.On("PresignGet", ctx, "p", presignExpiry).Return("https://minio/p?sig", nil)
			},
			want: "https://minio/p?sig",
		},
		{
			name:       "empty id",
			sessionID:  testSession,
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockDocumentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name:      "missing row",
			sessionID: testSession,
			id:        "gone",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "gone").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:      "other session's document",
			sessionID: testSession,
			id:        "doc-2",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-2").Return(&model.Document{ID: "doc-2", SessionID: "someone-else"}, nil)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockDocumentRepository)
			tt.setupMocks(mStore, mRepo)

			got, err := NewDocumentService(mStore, mRepo, 0, nil).DownloadURL(ctx, tt.sessionID, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_PurgeSession(t *testing.T) {
	ctx := context.Background()
	page := repository.PageQuery{Limit: purgeBatchSize}

	t.Run("removes every document", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)

		mRepo.On("ListBySession", ctx, testSession, page).Return(&repository.PageResult[model.Document]{
			Items: []model.Document{{ID: "a", StoragePath: "pa"}, {ID: "b", StoragePath: "pb"}},
			Total: 2,
		}, nil).Once()
		mRepo.On("ListBySession", ctx, testSession, page).Return(&repository.PageResult[model.Document]{}, nil).Once()
		mStore.On("Delete", ctx, "pa").Return(nil)
		mStore.On("Delete", ctx, "pb").Return(nil)
		mRepo.On("Delete", ctx, "a").Return(nil)
		mRepo.On("Delete", ctx, "b").Return(nil)

		n, err := NewDocumentService(mStore, mRepo, 0, nil).PurgeSession(ctx, testSession)

		assert.NoError(t, err)
		assert.Equal(t, 2, n)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("storage failure keeps the row", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)

		mRepo.On("ListBySession", ctx, testSession, page).Return(&repository.PageResult[model.Document]{
			Items: []model.Document{{ID: "a", StoragePath: "pa"}},
			Total: 1,
		}, nil).Once()
		mStore.On("Delete", ctx, "pa").Return(errors.New("minio down"))

		n, err := NewDocumentService(mStore, mRepo, 0, nil).PurgeSession(ctx, testSession)

		assert.ErrorContains(t, err, "delete storage: minio down")
		assert.Equal(t, 0, n)
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestDocumentService_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	cutoff := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockDocumentRepository)

	mRepo.On("ListCreatedBefore", ctx, cutoff, purgeBatchSize).Return([]model.Document{{ID: "old", StoragePath: "po"}}, nil).Once()
	mRepo.On("ListCreatedBefore", ctx, cutoff, purgeBatchSize).Return([]model.Document{}, nil).Once()
	mStore.On("Delete", ctx, "po").Return(nil)
	mRepo.On("Delete", ctx, "old").Return(nil)

	n, err := NewDocumentService(mStore, mRepo, 0, nil).PurgeExpired(ctx, cutoff)

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}
