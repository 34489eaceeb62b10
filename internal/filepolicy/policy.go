// Package filepolicy decides which files may be uploaded. It performs no I/O and keeps no state.
package filepolicy

import (
	"errors"
	"fmt"
	"math"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeText = "text/plain"

	// MaxFileSize is the upload cap in bytes (10 MiB).
	MaxFileSize int64 = 10 * 1024 * 1024
)

var (
	ErrUnsupportedType = errors.New("unsupported type")
	ErrTooLarge        = errors.New("too large")
)

// supported maps each accepted content type to its canonical extension.
var supported = map[string]string{
	ContentTypePDF:  ".pdf",
	ContentTypeDOCX: ".docx",
	ContentTypeText: ".txt",
}

// File is the subset of a file's attributes the policy looks at.
type File struct {
	Name        string
	Size        int64
	ContentType string
}

// Result is the outcome of Validate. Reason is nil when Valid is true.
type Result struct {
	Valid  bool
	Reason error
}

// Message returns a user facing explanation for an invalid result.
func (r Result) Message() string {
	switch {
	case r.Valid:
		return ""
	case errors.Is(r.Reason, ErrUnsupportedType):
		return "Unsupported file type. Please upload PDF, DOCX, or TXT files."
	case errors.Is(r.Reason, ErrTooLarge):
		return fmt.Sprintf("File size exceeds %s limit.", FormatSize(MaxFileSize))
	default:
		return r.Reason.Error()
	}
}

// Validate applies the type whitelist first and the size cap second.
func Validate(f File) Result {
	return ValidateWithLimit(f, MaxFileSize)
}

// ValidateWithLimit is Validate with a caller supplied size cap.
func ValidateWithLimit(f File, maxSize int64) Result {
	if !IsSupportedType(f.ContentType) {
		return Result{Reason: ErrUnsupportedType}
	}
	if f.Size > maxSize {
		return Result{Reason: ErrTooLarge}
	}
	return Result{Valid: true}
}

// IsSupportedType reports whether contentType is exactly one of the whitelisted types. Case,
// padding and parameters such as "; charset=utf-8" make a type unsupported; callers holding
// a raw header run it through MediaType first.
func IsSupportedType(contentType string) bool {
	_, ok := supported[contentType]
	return ok
}

// Extension returns the canonical extension for a supported content type.
func Extension(contentType string) (string, bool) {
	ext, ok := supported[contentType]
	return ext, ok
}

// MediaType reduces a Content-Type header to its lower-case media type, dropping parameters.
// A header that does not parse is returned unchanged so Validate rejects it.
func MediaType(header string) string {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return header
	}
	return mt
}

// ContentTypeFor resolves a content type from a file name's extension. It returns
// "application/octet-stream" for anything outside the whitelist so Validate rejects it.
func ContentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	for ct, e := range supported {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}

// FormatSize renders a byte count the way the upload UI shows it, e.g. "2 MB" or "1.5 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	const k = 1024
	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(k)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}
	v := float64(bytes) / math.Pow(k, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + sizes[i]
}
