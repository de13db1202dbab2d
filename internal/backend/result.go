package backend

// Default values applied to absent response fields.
const (
	DefaultTheme  = "N/A"
	DefaultStage  = "unknown"
	DefaultReason = "Does not meet M&A criteria"
)

// Result is the classification verdict returned by the backend. Fields the
// response omits are zero-valued; Normalized applies the documented defaults
// once at the boundary so downstream code never probes for absence.
type Result struct {
	Qualified     bool    `json:"qualified"`
	Confidence    float64 `json:"confidence"`
	Theme         string  `json:"theme"`
	Reasoning     string  `json:"reasoning,omitempty"`
	Stage         string  `json:"stage"`
	BedrockCalled bool    `json:"bedrock_called"`
	Reason        string  `json:"reason,omitempty"`
	Filter        string  `json:"filter,omitempty"`
}

// Normalized returns a copy with defaults substituted for absent fields:
// empty theme becomes "N/A", empty stage becomes "unknown", and an empty
// rejection reason becomes the generic criteria message. Qualified results
// keep an empty reason.
func (r Result) Normalized() Result {
	if r.Theme == "" {
		r.Theme = DefaultTheme
	}
	if r.Stage == "" {
		r.Stage = DefaultStage
	}
	if !r.Qualified && r.Reason == "" {
		r.Reason = DefaultReason
	}
	return r
}
