// Package classify calls the optional trained classifier and turns every way
// it can fail into one of two sentinel errors, so the scorer can fall back to
// the heuristic tier without inspecting the model.
package classify

import (
	"errors"
	"fmt"
	"math"

	"github.com/phishshield/phishscore/internal/ports"
)

var (
	// ErrUnavailable means no model is loaded. It is the normal path when the
	// process runs without an artifact.
	ErrUnavailable = errors.New("classifier unavailable")
	// ErrInferenceFailed wraps any error or panic raised by a loaded model.
	ErrInferenceFailed = errors.New("classifier inference failed")
)

// Classify returns the positive-class probability of normalized text,
// clamped to [0,1]. c may be nil.
func Classify(normalized string, c ports.Classifier) (p float64, err error) {
	if c == nil {
		return 0, ErrUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			p, err = 0, fmt.Errorf("%w: panic: %v", ErrInferenceFailed, r)
		}
	}()

	p, err = c.PositiveClassProbability(normalized)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInferenceFailed, err)
	}
	if math.IsNaN(p) {
		return 0, fmt.Errorf("%w: model returned NaN", ErrInferenceFailed)
	}
	return clamp01(p), nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
