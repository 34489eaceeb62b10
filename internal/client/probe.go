package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"docuchat/internal/model"
)

// CheckBackendHealth returns the backend's health payload, or nil when it cannot be fetched.
// It never retries.
func (c *Client) CheckBackendHealth(ctx context.Context) *model.HealthStatus {
	var out model.HealthStatus
	if err := c.getJSON(ctx, "/api/health", &out); err != nil {
		c.log.Warn("backend health check failed", zap.String("base_url", c.baseURL), zap.Error(err))
		return nil
	}
	return &out
}

// GetAPIInfo returns the backend's self description, or nil when it cannot be fetched.
func (c *Client) GetAPIInfo(ctx context.Context) *model.APIInfo {
	var out model.APIInfo
	if err := c.getJSON(ctx, "/api/", &out); err != nil {
		c.log.Warn("failed to get API info", zap.String("base_url", c.baseURL), zap.Error(err))
		return nil
	}
	return &out
}

// ListDocuments returns the documents the backend holds for the session.
func (c *Client) ListDocuments(ctx context.Context, sessionID string) (*model.DocumentList, error) {
	if sessionID == "" {
		return nil, errSessionUnavailable
	}
	var out model.DocumentList
	if err := c.getJSON(ctx, "/api/documents/"+url.PathEscape(sessionID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PurgeSession asks the backend to drop every document and the conversation of the session.
func (c *Client) PurgeSession(ctx context.Context, sessionID string) (*model.PurgeResult, error) {
	if sessionID == "" {
		return nil, errSessionUnavailable
	}
	body, err := c.do(ctx, http.MethodDelete, "/api/session/"+url.PathEscape(sessionID), nil, "")
	if err != nil {
		return nil, err
	}
	var out model.PurgeResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
