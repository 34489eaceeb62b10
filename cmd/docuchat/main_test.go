package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/client"
)

type harness struct {
	sessionFile string
	baseURL     string
}

func newHarness(t *testing.T, h http.Handler) *harness {
	t.Helper()
	hs := &harness{sessionFile: filepath.Join(t.TempDir(), "session-id")}
	if h != nil {
		srv := httptest.NewServer(h)
		t.Cleanup(srv.Close)
		hs.baseURL = srv.URL
	} else {
		hs.baseURL = "http://127.0.0.1:1"
	}
	return hs
}

func (h *harness) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--base-url", h.baseURL, "--session-file", h.sessionFile, "--log-level", "error"}, args...)
	code := run(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_NoCommandPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "usage: docuchat")
}

func TestRun_UnknownCommand(t *testing.T) {
	h := newHarness(t, nil)
	code, _, stderr := h.run(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)
}

func TestRun_SessionIsStableUntilReset(t *testing.T) {
	h := newHarness(t, nil)

	code, first, _ := h.run(t, "session")
	require.Equal(t, 0, code)
	first = strings.TrimSpace(first)
	assert.True(t, client.IsValidSessionID(first))

	_, again, _ := h.run(t, "session")
	assert.Equal(t, first, strings.TrimSpace(again))

	code, reset, _ := h.run(t, "session", "reset")
	require.Equal(t, 0, code)
	reset = strings.TrimSpace(reset)
	assert.True(t, client.IsValidSessionID(reset))
	assert.NotEqual(t, first, reset)

	stored, err := os.ReadFile(h.sessionFile)
	require.NoError(t, err)
	assert.Equal(t, reset, strings.TrimSpace(string(stored)))
}

func TestRun_UploadSkipsRejectedFiles(t *testing.T) {
	var uploads atomic.Int32
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploads.Add(1)
		assert.True(t, strings.HasPrefix(r.URL.Path, "/api/upload-document/"))
		_, hdr, err := r.FormFile("file")
		if assert.NoError(t, err) {
			assert.Equal(t, "notes.txt", hdr.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"message":"Successfully uploaded 1 document(s)","fileCount":1}`)
	}))

	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	exe := filepath.Join(dir, "tool.exe")
	require.NoError(t, os.WriteFile(txt, []byte("meeting notes"), 0o600))
	require.NoError(t, os.WriteFile(exe, []byte("MZ"), 0o600))

	code, stdout, stderr := h.run(t, "upload", txt, exe)

	assert.Equal(t, 1, code)
	assert.Equal(t, int32(1), uploads.Load())
	assert.Contains(t, stdout, "queued notes.txt (13 Bytes)")
	assert.Contains(t, stdout, "Successfully uploaded 1 document(s)")
	assert.Contains(t, stderr, "rejected tool.exe")
}

func TestRun_UploadReadsFilesAtSendTime(t *testing.T) {
	var got []string
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		got = append(got, hdr.Filename+"="+string(b))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"message":"Successfully uploaded 1 document(s)","fileCount":1}`)
	}))

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("alfa"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("bravo"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.txt"), 0o700))

	code, stdout, stderr := h.run(t, "upload", a, filepath.Join(dir, "folder.txt"), b)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "folder.txt: not a regular file")
	assert.Contains(t, stdout, "Successfully uploaded 2 document(s)")
	assert.Equal(t, []string{"a.txt=alfa", "b.txt=bravo"}, got)
}

func TestRun_UploadNothingValid(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	code, _, stderr := h.run(t, "upload", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nothing to upload")
}

func TestRun_ChatPrintsReply(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "what is in my notes", r.URL.Query().Get("query"))
		_, _ = io.WriteString(w, `{"success":true,"message":"Response generated successfully","response":"Your notes cover the kickoff."}`)
	}))

	code, stdout, _ := h.run(t, "chat", "what", "is", "in", "my", "notes")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Your notes cover the kickoff.\n", stdout)
}

func TestRun_ChatFailurePrintsApology(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"request_id":"r","error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`)
	}))

	code, stdout, stderr := h.run(t, "chat", "hello")
	assert.Equal(t, 1, code)
	assert.Equal(t, client.ApologyMessage+"\n", stdout)
	assert.Contains(t, stderr, "Failed to send message")
}

func TestRun_HealthAndInfo(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/health":
			_, _ = io.WriteString(w, `{"status":"ok"}`)
		case "/api/":
			_, _ = io.WriteString(w, `{"message":"docuchat API","version":"1.2.0","description":"chat with your documents","endpoints":[{"path":"/api/health","method":"GET","description":"Health check"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))

	code, stdout, _ := h.run(t, "health")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, ": ok")

	code, stdout, _ = h.run(t, "info")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "docuchat API 1.2.0")
	assert.Contains(t, stdout, "/api/health")
}

func TestRun_HealthUnreachable(t *testing.T) {
	h := newHarness(t, nil)
	code, stdout, _ := h.run(t, "health")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "unreachable")
}

func TestRun_DocumentsAndPurge(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/documents/"):
			_, _ = io.WriteString(w, `{"data":[{"id":"d1","original_name":"report.pdf","size":2048,"content_type":"application/pdf","created_at":"2026-01-02T03:04:05Z"}],"total":1}`)
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/session/"):
			_, _ = io.WriteString(w, `{"status":"ok","message":"Removed 1 document(s)","removed":1}`)
		default:
			http.NotFound(w, r)
		}
	}))

	code, stdout, _ := h.run(t, "documents")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "report.pdf")
	assert.Contains(t, stdout, "2 KB")

	code, stdout, _ = h.run(t, "purge")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Removed 1 document(s)")
}
