package ports

import (
	"io"

	"github.com/phishshield/phishscore/internal/types"
)

// Classifier is a trained binary phishing model. Implementations must be safe
// for concurrent use once constructed.
type Classifier interface {
	PositiveClassProbability(normalized string) (float64, error)
}

// MessageReader turns a raw RFC 5322 message into scorer input.
type MessageReader interface {
	Read(r io.Reader) (types.PredictRequest, error)
}
