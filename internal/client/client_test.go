package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"docuchat/internal/model"
)

const testSession = "0f8fad5b-d9cb-469f-a165-70867728950e"

func candidate(name, body string) model.UploadCandidate {
	return model.UploadCandidate{
		ID:          name,
		Name:        name,
		Size:        int64(len(body)),
		ContentType: "text/plain",
		Open:        BytesOpener([]byte(body)),
	}
}

func TestUploadDocuments_ShortContentIsAFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	c := candidate("a.txt", "four")
	c.Open = BytesOpener(nil)

	res := New(srv.URL).UploadDocuments(context.Background(), testSession, []model.UploadCandidate{c})

	assert.False(t, res.Success)
	assert.Zero(t, res.FileCount)
	assert.Contains(t, res.Message, "upload failed for a.txt: file changed since it was queued: read 0 of 4 bytes")
}

func TestUploadDocuments_StopsAtFirstFailure(t *testing.T) {
	var calls atomic.Int32
	var names []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/upload-document/"+testSession, r.URL.Path)

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		names = append(names, hdr.Filename)
		assert.Equal(t, "text/plain", hdr.Header.Get("Content-Type"))

		if n == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"request_id":"r","error":{"code":"INTERNAL","message":"disk full"}}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"message":"Successfully uploaded 1 document(s)","fileCount":1}`)
	}))
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	c := New(srv.URL, WithLogger(zap.New(core)))

	res := c.UploadDocuments(context.Background(), testSession, []model.UploadCandidate{
		candidate("a.txt", "one"),
		candidate("b.txt", "two"),
		candidate("c.txt", "three"),
	})

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.FileCount)
	assert.Equal(t, "Failed to upload documents: upload failed for b.txt: HTTP 500: disk full", res.Message)
	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)
	assert.Equal(t, 1, logs.FilterMessage("document upload failed").Len())
}

func TestUploadDocuments_Success(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"success":true,"message":"ok","fileCount":1}`)
	}))
	defer srv.Close()

	res := New(srv.URL).UploadDocuments(context.Background(), testSession, []model.UploadCandidate{
		candidate("a.txt", "one"),
		candidate("b.txt", "two"),
	})

	assert.Equal(t, model.UploadResult{Success: true, Message: "Successfully uploaded 2 document(s)", FileCount: 2}, res)
	assert.EqualValues(t, 2, calls.Load())
}

func TestUploadDocuments_RejectedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"corpus is full"}`)
	}))
	defer srv.Close()

	res := New(srv.URL).UploadDocuments(context.Background(), testSession, []model.UploadCandidate{candidate("a.txt", "one")})

	assert.False(t, res.Success)
	assert.Equal(t, 0, res.FileCount)
	assert.Contains(t, res.Message, "corpus is full")
}

func TestUploadDocuments_NoSession(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls.Add(1) }))
	defer srv.Close()

	res := New(srv.URL).UploadDocuments(context.Background(), "", []model.UploadCandidate{candidate("a.txt", "one")})

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "session id is not available")
	assert.Zero(t, calls.Load())
}

func TestSendChatMessage_Normalizes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "quoted bare string", body: `"\"hello\""`, want: "hello"},
		{name: "bare string", body: `"hello"`, want: "hello"},
		{name: "single quoted", body: `"'hi there'"`, want: "hi there"},
		{name: "message only", body: `{"message":"hi"}`, want: "hi"},
		{name: "response preferred", body: `{"success":true,"message":"Response generated successfully","response":"answer"}`, want: "answer"},
		{name: "empty response falls back", body: `{"response":"","message":"m"}`, want: "m"},
		{name: "structured response", body: `{"response": {"text": "x", "n": 1}}`, want: `{"text":"x","n":1}`},
		{name: "unknown object", body: `{"result":"x"}`, want: `{"result":"x"}`},
		{name: "not json", body: "plain words\n", want: "plain words"},
		{name: "quotes stripped once", body: `"\"\"twice\"\""`, want: `"twice"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/chat/"+testSession, r.URL.Path)
				assert.Equal(t, "what is in my notes?", r.URL.Query().Get("query"))
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			res := New(srv.URL).SendChatMessage(context.Background(), testSession, "what is in my notes?")

			assert.True(t, res.Success)
			assert.Equal(t, "Message sent successfully", res.Message)
			assert.Equal(t, tt.want, res.Response)
		})
	}
}

func TestSendChatMessage_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"request_id":"r","error":{"code":"EMPTY_QUERY","message":"query is required"}}`)
	}))
	defer srv.Close()

	res := New(srv.URL).SendChatMessage(context.Background(), testSession, " ")

	assert.False(t, res.Success)
	assert.Equal(t, "Failed to send message: HTTP 400: query is required", res.Message)
	assert.Empty(t, res.Response)
}

func TestSendChatMessage_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	start := time.Now()
	res := New(srv.URL, WithTimeout(50*time.Millisecond)).SendChatMessage(context.Background(), testSession, "hi")

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Failed to send message:")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCheckBackendHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/health", r.URL.Path)
			_, _ = io.WriteString(w, `{"status":"ok"}`)
		}))
		defer srv.Close()

		got := New(srv.URL).CheckBackendHealth(context.Background())

		require.NotNil(t, got)
		assert.Equal(t, "ok", got.Status)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		core, logs := observer.New(zap.WarnLevel)
		got := New(url, WithLogger(zap.New(core))).CheckBackendHealth(context.Background())

		assert.Nil(t, got)
		require.Equal(t, 1, logs.FilterMessage("backend health check failed").Len())
	})

	t.Run("unhealthy status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		assert.Nil(t, New(srv.URL).CheckBackendHealth(context.Background()))
	})
}

func TestGetAPIInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/", r.URL.Path)
		_, _ = io.WriteString(w, `{"message":"DocuChat API","version":"0.1.0","description":"d","endpoints":[{"path":"/api/health","method":"GET","description":"Health check"}]}`)
	}))
	defer srv.Close()

	info := New(srv.URL + "/").GetAPIInfo(context.Background())

	require.NotNil(t, info)
	assert.Equal(t, "0.1.0", info.Version)
	require.Len(t, info.Endpoints, 1)
	assert.Equal(t, "GET", info.Endpoints[0].Method)
}

func TestListDocumentsAndPurge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/documents/"+testSession:
			_, _ = io.WriteString(w, `{"data":[{"id":"d1","original_name":"a.txt"}],"total":1}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/session/"+testSession:
			_, _ = io.WriteString(w, `{"status":"success","message":"Session data removed","removed":1}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)

	list, err := c.ListDocuments(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "a.txt", list.Items[0].OriginalName)

	purged, err := c.PurgeSession(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, 1, purged.Removed)

	_, err = c.ListDocuments(context.Background(), "")
	assert.ErrorIs(t, err, errSessionUnavailable)
}

func TestIsValidSessionID(t *testing.T) {
	assert.True(t, IsValidSessionID(testSession))
	assert.True(t, IsValidSessionID(strings.ToUpper(testSession)))
	assert.False(t, IsValidSessionID(""))
	assert.False(t, IsValidSessionID("0f8fad5b-d9cb-069f-a165-70867728950e"))
	assert.False(t, IsValidSessionID("not-a-uuid"))
}
