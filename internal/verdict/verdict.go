// Package verdict maps classification results and client failures to their
// user-facing presentation. Everything here is a pure function of its input:
// no network, no formatting framework, no side effects.
package verdict

import (
	"errors"
	"fmt"

	"github.com/tc2044/ma-classifier-demo/internal/backend"
	"github.com/tc2044/ma-classifier-demo/pkg/formatting"
)

// Banner text for the two verdict outcomes.
const (
	QualifiedBanner = "✅ M&A Transaction Detected"
	RejectedBanner  = "❌ Not an M&A Transaction"
)

// View is the rendered presentation of a classification result. Optional
// affordances (Reasoning, Filter) are empty when the result carried nothing
// to show. Captions (Engine, Filter, Stage) are pre-formatted display strings;
// Stage is set only on rejected verdicts, where the stage caption is shown.
type View struct {
	Qualified  bool
	Banner     string
	Confidence string
	Theme      string
	Reasoning  string
	Reason     string
	Filter     string
	Engine     string
	Stage      string
}

// Render maps a result to its view. Qualified results show confidence, theme,
// optional analysis, and an engine caption naming the processing stage;
// rejected results show the reason, the firing filter when known, and the
// stage. No other branching exists.
func Render(result backend.Result) View {
	result = result.Normalized()

	if result.Qualified {
		return View{
			Qualified:  true,
			Banner:     QualifiedBanner,
			Confidence: formatting.FormatPercent(result.Confidence),
			Theme:      result.Theme,
			Reasoning:  result.Reasoning,
			Engine:     engineCaption(result.BedrockCalled, result.Stage),
		}
	}

	view := View{
		Banner: RejectedBanner,
		Reason: result.Reason,
		Stage:  fmt.Sprintf("Processing stage: %s", result.Stage),
	}
	if result.Filter != "" {
		view.Filter = fmt.Sprintf("🔍 Filtered by: %s", result.Filter)
	}
	return view
}

func engineCaption(bedrockCalled bool, stage string) string {
	if bedrockCalled {
		return fmt.Sprintf("🤖 AWS Bedrock Claude used (Stage: %s)", stage)
	}
	return fmt.Sprintf("⚡ Pre-filter/Rule-based classification (Stage: %s)", stage)
}

// Mode identifies which submission path failed, since the PDF path surfaces
// its own failure copy.
type Mode int

const (
	ModeText Mode = iota
	ModePDF
)

// Message is the user-facing description of a failed classification attempt.
// Detail carries the raw diagnostic (response body or underlying cause).
type Message struct {
	Summary string
	Detail  string
}

// Failure maps a backend client error to the message shown to the user.
// Timeouts get mode-specific copy, non-2xx statuses surface the code and the
// body verbatim, and anything else gets a generic failure with the cause.
func Failure(mode Mode, err error) Message {
	if errors.Is(err, backend.ErrTimeout) {
		if mode == ModePDF {
			return Message{Summary: "Request timed out. The PDF may be too large or complex."}
		}
		return Message{Summary: "Request timed out. The document may be too complex."}
	}

	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		return Message{
			Summary: fmt.Sprintf("API Error: %d", statusErr.Code),
			Detail:  statusErr.Body,
		}
	}

	if mode == ModePDF {
		return Message{Summary: fmt.Sprintf("PDF processing failed: %v", err)}
	}
	return Message{Summary: fmt.Sprintf("API call failed: %v", err)}
}
