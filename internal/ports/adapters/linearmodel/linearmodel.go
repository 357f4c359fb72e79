// Package linearmodel loads an exported TF-IDF + logistic regression model and
// exposes it through ports.Classifier.
//
// A trained model reaches the scorer in one of two shapes: a single predictor
// with a probability output over a batch of texts, or a vectorizer/classifier
// pair applied in sequence. Predictor and Pair adapt each shape; callers only
// see ports.Classifier.
package linearmodel

import (
	"fmt"
)

// ProbaPredictor maps raw texts to class probabilities.
type ProbaPredictor interface {
	PredictProba(texts []string) ([][]float64, error)
}

// Vectorizer is the feature extraction stage of a pair.
type Vectorizer interface {
	Transform(texts []string) ([]Vector, error)
}

// ProbaClassifier is the probability stage of a pair.
type ProbaClassifier interface {
	PredictProba(rows []Vector) ([][]float64, error)
}

// Predictor adapts a single ProbaPredictor.
type Predictor struct {
	model ProbaPredictor
}

func NewPredictor(model ProbaPredictor) *Predictor {
	return &Predictor{model: model}
}

func (p *Predictor) PositiveClassProbability(normalized string) (float64, error) {
	rows, err := p.model.PredictProba([]string{normalized})
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	return positiveClass(rows)
}

// Pair adapts a vectorizer/classifier pair.
type Pair struct {
	vec Vectorizer
	clf ProbaClassifier
}

func NewPair(vec Vectorizer, clf ProbaClassifier) *Pair {
	return &Pair{vec: vec, clf: clf}
}

func (p *Pair) PositiveClassProbability(normalized string) (float64, error) {
	rows, err := p.vec.Transform([]string{normalized})
	if err != nil {
		return 0, fmt.Errorf("transform: %w", err)
	}
	probs, err := p.clf.PredictProba(rows)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	return positiveClass(probs)
}

// positiveClass extracts P(phish) from a batch of one: the second column of a
// two-class output, or the only column of a single-output model.
func positiveClass(rows [][]float64) (float64, error) {
	if len(rows) != 1 {
		return 0, fmt.Errorf("expected 1 output row, got %d", len(rows))
	}
	switch row := rows[0]; len(row) {
	case 2:
		return row[1], nil
	case 1:
		return row[0], nil
	default:
		return 0, fmt.Errorf("expected 1 or 2 probabilities, got %d", len(row))
	}
}
