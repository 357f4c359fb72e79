package types

// ModelVersion tags which scoring tier produced a result.
type ModelVersion string

const (
	ModelNone              ModelVersion = "none"
	ModelShortInputGuard   ModelVersion = "short-input-guard"
	ModelTrained           ModelVersion = "trained-ml"
	ModelHeuristicFallback ModelVersion = "heuristic-fallback"
)

// LabelSuspicious is the label carried by every lexicon highlight.
const LabelSuspicious = "suspicious"

// Highlight is an evidence span. Start and End are byte offsets into the text
// the span was computed on, so Text == text[Start:End].
type Highlight struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

// ScoreResult is the scorer's answer for one text. PhishProb and BenignProb
// are rounded to 3 decimals and sum to 1.
type ScoreResult struct {
	PhishProb    float64      `json:"phish_prob"`
	BenignProb   float64      `json:"benign_prob"`
	Highlights   []Highlight  `json:"highlights"`
	ModelVersion ModelVersion `json:"model_version"`
}

// PredictRequest is the message metadata accepted by the request layer.
type PredictRequest struct {
	MessageID *string  `json:"message_id,omitempty"`
	Subject   string   `json:"subject,omitempty"`
	Body      string   `json:"body,omitempty"`
	FromAddr  string   `json:"from_addr,omitempty"`
	To        []string `json:"to,omitempty"`
}

// Text joins subject and body the way the scorer expects them.
func (r PredictRequest) Text() string {
	if r.Subject != "" {
		return r.Subject + "\n\n" + r.Body
	}
	return r.Body
}

// PredictResponse is a ScoreResult with the request's message id echoed.
type PredictResponse struct {
	MessageID *string `json:"message_id"`
	ScoreResult
}
