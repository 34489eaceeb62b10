package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"docuchat/internal/model"
)

// UploadDocuments sends files one request at a time and stops at the first failure. Files the
// backend already accepted stay accepted; the failure result's FileCount says how many there were.
func (c *Client) UploadDocuments(ctx context.Context, sessionID string, files []model.UploadCandidate) model.UploadResult {
	if sessionID == "" {
		return uploadFailure(errSessionUnavailable, 0)
	}

	for i, f := range files {
		if err := c.uploadOne(ctx, sessionID, f); err != nil {
			c.log.Warn("document upload failed",
				zap.String("session_id", sessionID),
				zap.String("file", f.Name),
				zap.Int("accepted", i),
				zap.Int("remaining", len(files)-i),
				zap.Error(err),
			)
			return uploadFailure(err, i)
		}
	}

	return model.UploadResult{
		Success:   true,
		Message:   fmt.Sprintf("Successfully uploaded %d document(s)", len(files)),
		FileCount: len(files),
	}
}

func uploadFailure(err error, accepted int) model.UploadResult {
	return model.UploadResult{
		Message:   "Failed to upload documents: " + err.Error(),
		FileCount: accepted,
	}
}

func (c *Client) uploadOne(ctx context.Context, sessionID string, f model.UploadCandidate) error {
	if f.Open == nil {
		return fmt.Errorf("upload failed for %s: no content", f.Name)
	}

	body, contentType, err := multipartBody(f)
	if err != nil {
		return fmt.Errorf("upload failed for %s: %w", f.Name, err)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/api/upload-document/"+url.PathEscape(sessionID), body, contentType)
	if err != nil {
		return fmt.Errorf("upload failed for %s: %w", f.Name, err)
	}

	var res model.UploadResponse
	if err := json.Unmarshal(respBody, &res); err != nil {
		return fmt.Errorf("upload failed for %s: decode response: %w", f.Name, err)
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "rejected by backend"
		}
		return fmt.Errorf("upload failed for %s: %w", f.Name, errors.New(msg))
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody builds a single-part form with field "file". Unlike CreateFormFile it keeps the
// candidate's content type on the part. The content must still be the size it was queued with.
func multipartBody(f model.UploadCandidate) (io.Reader, string, error) {
	src, err := f.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(f.Name)))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	n, err := io.Copy(part, src)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	if n != f.Size {
		return nil, "", fmt.Errorf("file changed since it was queued: read %d of %d bytes", n, f.Size)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
