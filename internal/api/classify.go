package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/tc2044/ma-classifier-demo/internal/announcements"
	"github.com/tc2044/ma-classifier-demo/internal/backend"
	"github.com/tc2044/ma-classifier-demo/pkg/handlers"
	"github.com/tc2044/ma-classifier-demo/pkg/routes"
)

// Classify endpoint validation errors, caught before any backend call.
var (
	ErrMissingText  = errors.New("title and text are required")
	ErrMissingTitle = errors.New("title is required")
	ErrMissingFile  = errors.New("a PDF file is required")
	ErrNotPDF       = errors.New("uploaded file is not a PDF")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
)

// TextRequest is the JSON body for the text classify endpoint.
type TextRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ClassifyHandler exposes the classification client over HTTP. Each request
// maps to exactly one backend call; the verdict is recorded in history as a
// side effect that never masks the classification result.
type ClassifyHandler struct {
	backend       backend.Classifier
	history       announcements.System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewClassifyHandler creates a ClassifyHandler.
func NewClassifyHandler(
	client backend.Classifier,
	history announcements.System,
	logger *slog.Logger,
	maxUploadSize int64,
) *ClassifyHandler {
	return &ClassifyHandler{
		backend:       client,
		history:       history,
		logger:        logger.With("handler", "classify"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for classify endpoints.
func (h *ClassifyHandler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/classify",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/text", Handler: h.Text},
			{Method: "POST", Pattern: "/pdf", Handler: h.PDF},
		},
	}
}

// Text classifies announcement text. Responds 201 with the recorded
// announcement, or 200 with the bare result when recording failed.
func (h *ClassifyHandler) Text(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingText)
		return
	}

	if req.Title == "" || req.Text == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingText)
		return
	}

	result, err := h.backend.ClassifyText(r.Context(), req.Title, req.Text)
	if err != nil {
		handlers.RespondError(w, h.logger, backend.MapHTTPStatus(err), err)
		return
	}

	h.respond(w, r, announcements.RecordCommand{
		Title:         req.Title,
		Source:        announcements.SourceText,
		Qualified:     result.Qualified,
		Confidence:    result.Confidence,
		Theme:         result.Theme,
		Reasoning:     result.Reasoning,
		Stage:         result.Stage,
		BedrockCalled: result.BedrockCalled,
		Reason:        result.Reason,
		Filter:        result.Filter,
	}, result)
}

// PDF classifies an uploaded PDF announcement from a multipart form with
// title and file fields.
func (h *ClassifyHandler) PDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	title := r.FormValue("title")
	if title == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingTitle)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return
	}

	if int64(len(data)) > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), data)
	if contentType != "application/pdf" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotPDF)
		return
	}

	result, err := h.backend.ClassifyPDF(r.Context(), title, bytes.NewReader(data))
	if err != nil {
		handlers.RespondError(w, h.logger, backend.MapHTTPStatus(err), err)
		return
	}

	h.respond(w, r, announcements.RecordCommand{
		Title:         title,
		Source:        announcements.SourcePDF,
		Qualified:     result.Qualified,
		Confidence:    result.Confidence,
		Theme:         result.Theme,
		Reasoning:     result.Reasoning,
		Stage:         result.Stage,
		BedrockCalled: result.BedrockCalled,
		Reason:        result.Reason,
		Filter:        result.Filter,
		Document: &announcements.DocumentUpload{
			Data:        data,
			Filename:    header.Filename,
			ContentType: contentType,
			PageCount:   extractPageCount(h.logger, data),
		},
	}, result)
}

// respond records the verdict and writes the response. A record failure is
// logged and the classification result is still returned, so persistence
// problems never hide a verdict from the caller.
func (h *ClassifyHandler) respond(
	w http.ResponseWriter,
	r *http.Request,
	cmd announcements.RecordCommand,
	result *backend.Result,
) {
	recorded, err := h.history.Record(r.Context(), cmd)
	if err != nil {
		h.logger.Error("failed to record announcement", "title", cmd.Title, "error", err)
		handlers.RespondJSON(w, http.StatusOK, result)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, recorded)
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func extractPageCount(logger *slog.Logger, data []byte) *int {
	count, err := pdfapi.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}
	return &count
}
