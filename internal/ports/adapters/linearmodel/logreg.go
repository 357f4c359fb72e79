package linearmodel

import (
	"fmt"
	"math"
)

// LogisticRegression is a fitted binary linear classifier.
type LogisticRegression struct {
	coef      []float64
	intercept float64
}

// NewLogisticRegression checks the weights against the expected feature count.
func NewLogisticRegression(s ClassifierSpec, features int) (*LogisticRegression, error) {
	if len(s.Coef) == 0 {
		return nil, fmt.Errorf("classifier: empty coef")
	}
	if len(s.Coef) != features {
		return nil, fmt.Errorf("classifier: %d coefficients for %d features", len(s.Coef), features)
	}
	return &LogisticRegression{coef: s.Coef, intercept: s.Intercept}, nil
}

// PredictProba returns [P(benign), P(phish)] for each row.
func (m *LogisticRegression) PredictProba(rows []Vector) ([][]float64, error) {
	out := make([][]float64, 0, len(rows))
	for _, row := range rows {
		z := m.intercept
		for _, f := range row {
			if f.Index < 0 || f.Index >= len(m.coef) {
				return nil, fmt.Errorf("classifier: feature %d out of range", f.Index)
			}
			z += m.coef[f.Index] * f.Value
		}
		p := sigmoid(z)
		out = append(out, []float64{1 - p, p})
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// Pipeline chains a vectorizer and a classifier behind a single
// text-in, probabilities-out call.
type Pipeline struct {
	vec Vectorizer
	clf ProbaClassifier
}

func NewPipeline(vec Vectorizer, clf ProbaClassifier) *Pipeline {
	return &Pipeline{vec: vec, clf: clf}
}

func (p *Pipeline) PredictProba(texts []string) ([][]float64, error) {
	rows, err := p.vec.Transform(texts)
	if err != nil {
		return nil, err
	}
	return p.clf.PredictProba(rows)
}
