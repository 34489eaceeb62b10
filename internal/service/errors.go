package service

import (
	"errors"

	"docuchat/internal/filepolicy"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrNotFound        = errors.New("document not found")
	ErrReaderNil       = errors.New("reader is nil")
	ErrInvalidSession  = errors.New("session id must be a UUID")
	ErrEmptyQuery      = errors.New("query is required")
	ErrUnsupportedType = filepolicy.ErrUnsupportedType
	ErrTooLarge        = filepolicy.ErrTooLarge
)
