// Package backend implements the HTTP client for the remote classification
// service. The service is an opaque collaborator: this package only knows the
// request/response contract, never the classification logic behind it.
package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Classifier submits announcements to the classification backend. Each call
// issues exactly one request: no retry, no dedup, no shared state between
// calls.
type Classifier interface {
	ClassifyText(ctx context.Context, title, text string) (*Result, error)
	ClassifyPDF(ctx context.Context, title string, pdf io.ReadSeeker) (*Result, error)
}

type request struct {
	Title     string `json:"title"`
	Text      string `json:"text,omitempty"`
	PDFBase64 string `json:"pdf_base64,omitempty"`
}

type client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// New creates a Classifier against the configured endpoint. The endpoint and
// timeout are fixed at construction; nothing is read from global state.
func New(cfg *Config, logger *slog.Logger) Classifier {
	return &client{
		endpoint: cfg.Endpoint,
		http: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		logger: logger.With("system", "backend"),
	}
}

func (c *client) ClassifyText(ctx context.Context, title, text string) (*Result, error) {
	return c.post(ctx, request{Title: title, Text: text})
}

// ClassifyPDF reads the full stream, restores the read position, and submits
// the content base64-encoded. The position reset lets the caller re-submit
// the same upload without re-reading it from its source.
func (c *client) ClassifyPDF(ctx context.Context, title string, pdf io.ReadSeeker) (*Result, error) {
	data, err := io.ReadAll(pdf)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	if _, err := pdf.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("reset pdf position: %w", err)
	}

	return c.post(ctx, request{
		Title:     title,
		PDFBase64: base64.StdEncoding.EncodeToString(data),
	})
}

func (c *client) post(ctx context.Context, payload request) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("backend timeout", "title", payload.Title, "elapsed", time.Since(start))
			return nil, fmt.Errorf("%w after %v", ErrTimeout, time.Since(start).Round(time.Millisecond))
		}
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		diagnostic, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			diagnostic = nil
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: string(diagnostic)}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	result = result.Normalized()

	c.logger.Info(
		"classification received",
		"title", payload.Title,
		"qualified", result.Qualified,
		"stage", result.Stage,
		"duration", time.Since(start),
	)

	return &result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
