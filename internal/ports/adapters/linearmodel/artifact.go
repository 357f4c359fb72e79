package linearmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phishshield/phishscore/internal/ports"
)

var (
	_ ports.Classifier = (*Predictor)(nil)
	_ ports.Classifier = (*Pair)(nil)
)

const (
	KindPipeline = "pipeline"
	KindPair     = "pair"
)

// Artifact is the exported model file written by the training job.
type Artifact struct {
	Kind       string         `json:"kind" yaml:"kind"`
	Vectorizer VectorizerSpec `json:"vectorizer" yaml:"vectorizer"`
	Classifier ClassifierSpec `json:"classifier" yaml:"classifier"`
}

type VectorizerSpec struct {
	Vocabulary  map[string]int `json:"vocabulary" yaml:"vocabulary"`
	IDF         []float64      `json:"idf" yaml:"idf"`
	NgramRange  []int          `json:"ngram_range" yaml:"ngram_range"`
	SublinearTF bool           `json:"sublinear_tf" yaml:"sublinear_tf"`
	Norm        string         `json:"norm" yaml:"norm"`
}

type ClassifierSpec struct {
	Coef      []float64 `json:"coef" yaml:"coef"`
	Intercept float64   `json:"intercept" yaml:"intercept"`
}

// Load reads a .json, .yaml or .yml artifact and builds the classifier it
// describes. A missing file yields an error matching fs.ErrNotExist.
func Load(path string) (ports.Classifier, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var a Artifact
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &a)
	default:
		err = json.Unmarshal(b, &a)
	}
	if err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	return Build(a)
}

// Build validates an artifact and returns the adapter for its shape.
func Build(a Artifact) (ports.Classifier, error) {
	vec, err := NewTFIDF(a.Vectorizer)
	if err != nil {
		return nil, err
	}
	clf, err := NewLogisticRegression(a.Classifier, vec.Features())
	if err != nil {
		return nil, err
	}

	switch a.Kind {
	case KindPipeline, "":
		return NewPredictor(NewPipeline(vec, clf)), nil
	case KindPair:
		return NewPair(vec, clf), nil
	default:
		return nil, fmt.Errorf("model: unknown kind %q", a.Kind)
	}
}
