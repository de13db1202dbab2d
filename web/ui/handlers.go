package ui

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tc2044/ma-classifier-demo/internal/announcements"
	"github.com/tc2044/ma-classifier-demo/internal/backend"
	"github.com/tc2044/ma-classifier-demo/internal/samples"
	"github.com/tc2044/ma-classifier-demo/internal/verdict"
	"github.com/tc2044/ma-classifier-demo/pkg/formatting"
	"github.com/tc2044/ma-classifier-demo/pkg/pagination"
	"github.com/tc2044/ma-classifier-demo/pkg/web"
)

// Pre-submission validation messages, shown before any network call.
const (
	msgMissingText  = "Please provide both title and text"
	msgMissingTitle = "Please provide an announcement title"
	msgMissingFile  = "Please upload a PDF file"
	msgNotPDF       = "The uploaded file is not a PDF"
)

type handler struct {
	templates     *web.TemplateSet
	backend       backend.Classifier
	history       announcements.System
	logger        *slog.Logger
	maxUploadSize int64
}

// demoPage is the view model for the demo page across all three tabs.
type demoPage struct {
	Tab         string
	Title       string
	Text        string
	Samples     []samples.Announcement
	SampleIndex int
	Selected    samples.Announcement
	MaxUpload   string
	FileInfo    string
	Error       string
	ErrorDetail string
	Verdict     *verdict.View
}

// dashboardPage is the view model for the dashboard page.
type dashboardPage struct {
	Stats         *announcements.Stats
	AvgConfidence string
	Recent        []announcements.Announcement
	Error         string
}

func (h *handler) Intro(w http.ResponseWriter, r *http.Request) {
	h.render(w, views["intro"], nil)
}

// Demo renders the demo page. Optional query parameters select the active
// tab and the sample shown in the samples tab.
func (h *handler) Demo(w http.ResponseWriter, r *http.Request) {
	page := h.newDemoPage(r.URL.Query().Get("tab"))

	if s := r.URL.Query().Get("sample"); s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			if selected, ok := samples.Get(i); ok {
				page.SampleIndex = i
				page.Selected = selected
			}
		}
	}

	h.render(w, views["demo"], page)
}

// ClassifyText handles the text tab form submission.
func (h *handler) ClassifyText(w http.ResponseWriter, r *http.Request) {
	page := h.newDemoPage("text")
	page.Title = r.FormValue("title")
	page.Text = r.FormValue("text")

	if page.Title == "" || page.Text == "" {
		page.Error = msgMissingText
		h.render(w, views["demo"], page)
		return
	}

	result, err := h.backend.ClassifyText(r.Context(), page.Title, page.Text)
	if err != nil {
		msg := verdict.Failure(verdict.ModeText, err)
		page.Error = msg.Summary
		page.ErrorDetail = msg.Detail
		h.render(w, views["demo"], page)
		return
	}

	h.record(r, page.Title, announcements.SourceText, result, nil)

	view := verdict.Render(*result)
	page.Verdict = &view
	h.render(w, views["demo"], page)
}

// ClassifyPDF handles the PDF tab form submission.
func (h *handler) ClassifyPDF(w http.ResponseWriter, r *http.Request) {
	page := h.newDemoPage("pdf")

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		page.Error = "Upload failed"
		h.render(w, views["demo"], page)
		return
	}

	page.Title = r.FormValue("title")
	if page.Title == "" {
		page.Error = msgMissingTitle
		h.render(w, views["demo"], page)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		page.Error = msgMissingFile
		h.render(w, views["demo"], page)
		return
	}
	defer file.Close()

	data := new(bytes.Buffer)
	if _, err := data.ReadFrom(file); err != nil {
		page.Error = msgMissingFile
		h.render(w, views["demo"], page)
		return
	}

	// ParseMultipartForm only bounds memory use, not the file itself.
	if int64(data.Len()) > h.maxUploadSize {
		page.Error = fmt.Sprintf("Upload failed: file exceeds %s", formatting.FormatBytes(h.maxUploadSize, 0))
		h.render(w, views["demo"], page)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data.Bytes())
	}
	if contentType != "application/pdf" {
		page.Error = msgNotPDF
		h.render(w, views["demo"], page)
		return
	}

	page.FileInfo = fmt.Sprintf(
		"📄 File uploaded: %s (%s)",
		header.Filename,
		formatting.FormatBytes(int64(data.Len()), 1),
	)

	result, err := h.backend.ClassifyPDF(r.Context(), page.Title, bytes.NewReader(data.Bytes()))
	if err != nil {
		msg := verdict.Failure(verdict.ModePDF, err)
		page.Error = msg.Summary
		page.ErrorDetail = msg.Detail
		h.render(w, views["demo"], page)
		return
	}

	h.record(r, page.Title, announcements.SourcePDF, result, &announcements.DocumentUpload{
		Data:        data.Bytes(),
		Filename:    header.Filename,
		ContentType: contentType,
	})

	view := verdict.Render(*result)
	page.Verdict = &view
	h.render(w, views["demo"], page)
}

// ClassifySample handles the samples tab form submission. The selected
// sample's stored title and text are submitted unmodified.
func (h *handler) ClassifySample(w http.ResponseWriter, r *http.Request) {
	page := h.newDemoPage("samples")

	i, err := strconv.Atoi(r.FormValue("sample"))
	if err != nil {
		h.render(w, views["demo"], page)
		return
	}

	selected, ok := samples.Get(i)
	if !ok {
		h.render(w, views["demo"], page)
		return
	}

	page.SampleIndex = i
	page.Selected = selected

	result, err := h.backend.ClassifyText(r.Context(), selected.Title, selected.Text)
	if err != nil {
		msg := verdict.Failure(verdict.ModeText, err)
		page.Error = msg.Summary
		page.ErrorDetail = msg.Detail
		h.render(w, views["demo"], page)
		return
	}

	h.record(r, selected.Title, announcements.SourceSample, result, nil)

	view := verdict.Render(*result)
	page.Verdict = &view
	h.render(w, views["demo"], page)
}

// Dashboard renders aggregate statistics and the most recent records.
func (h *handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	page := dashboardPage{}

	stats, err := h.history.Stats(r.Context())
	if err != nil {
		h.logger.Error("dashboard stats failed", "error", err)
		page.Error = "History is unavailable right now"
		h.render(w, views["dashboard"], page)
		return
	}
	page.Stats = stats
	page.AvgConfidence = formatting.FormatPercent(stats.AvgConfidence)

	recent, err := h.history.List(r.Context(), recentPage(), announcements.Filters{})
	if err != nil {
		h.logger.Error("dashboard recent list failed", "error", err)
	} else {
		page.Recent = recent.Data
	}

	h.render(w, views["dashboard"], page)
}

// record persists a classification outcome best-effort: a history failure is
// logged and never discards the verdict the user is waiting on.
func (h *handler) record(
	r *http.Request,
	title, source string,
	result *backend.Result,
	doc *announcements.DocumentUpload,
) {
	_, err := h.history.Record(r.Context(), announcements.RecordCommand{
		Title:         title,
		Source:        source,
		Qualified:     result.Qualified,
		Confidence:    result.Confidence,
		Theme:         result.Theme,
		Reasoning:     result.Reasoning,
		Stage:         result.Stage,
		BedrockCalled: result.BedrockCalled,
		Reason:        result.Reason,
		Filter:        result.Filter,
		Document:      doc,
	})
	if err != nil {
		h.logger.Error("failed to record announcement", "title", title, "error", err)
	}
}

func (h *handler) newDemoPage(tab string) *demoPage {
	switch tab {
	case "pdf", "samples":
	default:
		tab = "text"
	}

	selected, _ := samples.Get(0)
	return &demoPage{
		Tab:       tab,
		Samples:   samples.All(),
		Selected:  selected,
		MaxUpload: formatting.FormatBytes(h.maxUploadSize, 0),
	}
}

func (h *handler) render(w http.ResponseWriter, view web.ViewDef, data any) {
	if err := h.templates.RenderView(w, layout, view, data); err != nil {
		h.logger.Error("render failed", "template", view.Template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func recentPage() pagination.PageRequest {
	return pagination.PageRequest{Page: 1, PageSize: 10}
}
