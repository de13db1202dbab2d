// Package announcements implements the classification history domain. Every
// announcement submitted through the demo is recorded here with its verdict,
// and PDF submissions optionally retain their bytes in blob storage.
package announcements

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// Submission sources.
const (
	SourceText   = "text"
	SourcePDF    = "pdf"
	SourceSample = "sample"
)

// Announcement is a recorded classification outcome. Document columns
// (Filename, SizeBytes, PageCount, StorageKey) are nil for text submissions;
// StorageKey is also nil when blob retention is disabled. Verdict columns
// store the normalized backend result.
type Announcement struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Source        string    `json:"source"`
	Filename      *string   `json:"filename"`
	SizeBytes     *int64    `json:"size_bytes"`
	PageCount     *int      `json:"page_count"`
	StorageKey    *string   `json:"storage_key"`
	Qualified     bool      `json:"qualified"`
	Confidence    float64   `json:"confidence"`
	Theme         string    `json:"theme"`
	Reasoning     string    `json:"reasoning"`
	Stage         string    `json:"stage"`
	BedrockCalled bool      `json:"bedrock_called"`
	Reason        string    `json:"reason"`
	Filter        string    `json:"filter"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// DocumentUpload carries the raw bytes and metadata of a submitted PDF.
// PageCount is optional; nil values are stored as NULL.
type DocumentUpload struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}

// RecordCommand carries the data needed to record a classification outcome.
// Document is nil for text and sample submissions.
type RecordCommand struct {
	Title         string
	Source        string
	Qualified     bool
	Confidence    float64
	Theme         string
	Reasoning     string
	Stage         string
	BedrockCalled bool
	Reason        string
	Filter        string
	Document      *DocumentUpload
}

// DocumentStream is a retained PDF streamed back from blob storage.
// The caller must close Body.
type DocumentStream struct {
	Body          io.ReadCloser
	Filename      string
	ContentType   string
	ContentLength int64
}
