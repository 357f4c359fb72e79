package linearmodel

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Feature is one non-zero entry of a sparse vector.
type Feature struct {
	Index int
	Value float64
}

// Vector is a sparse row sorted by Index.
type Vector []Feature

var reToken = regexp.MustCompile(`\b\w\w+\b`)

// TFIDF reproduces the transform of a fitted scikit-learn TfidfVectorizer
// with the default token pattern.
type TFIDF struct {
	vocab     map[string]int
	idf       []float64
	minN      int
	maxN      int
	sublinear bool
	norm      string
}

// NewTFIDF validates a vectorizer export.
func NewTFIDF(s VectorizerSpec) (*TFIDF, error) {
	if len(s.Vocabulary) == 0 {
		return nil, fmt.Errorf("vectorizer: empty vocabulary")
	}
	if len(s.IDF) != len(s.Vocabulary) {
		return nil, fmt.Errorf("vectorizer: idf has %d weights for %d terms", len(s.IDF), len(s.Vocabulary))
	}
	for term, idx := range s.Vocabulary {
		if idx < 0 || idx >= len(s.IDF) {
			return nil, fmt.Errorf("vectorizer: term %q has index %d out of range", term, idx)
		}
	}

	minN, maxN := 1, 1
	switch len(s.NgramRange) {
	case 0:
	case 2:
		minN, maxN = s.NgramRange[0], s.NgramRange[1]
	default:
		return nil, fmt.Errorf("vectorizer: ngram_range needs 2 values, got %d", len(s.NgramRange))
	}
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("vectorizer: invalid ngram_range [%d, %d]", minN, maxN)
	}

	norm := s.Norm
	if norm == "" {
		norm = "l2"
	}
	switch norm {
	case "l1", "l2", "none":
	default:
		return nil, fmt.Errorf("vectorizer: unsupported norm %q", s.Norm)
	}

	return &TFIDF{
		vocab:     s.Vocabulary,
		idf:       s.IDF,
		minN:      minN,
		maxN:      maxN,
		sublinear: s.SublinearTF,
		norm:      norm,
	}, nil
}

// Features returns the vocabulary size.
func (v *TFIDF) Features() int { return len(v.idf) }

// Transform turns each text into a weighted sparse row.
func (v *TFIDF) Transform(texts []string) ([]Vector, error) {
	out := make([]Vector, 0, len(texts))
	for _, t := range texts {
		out = append(out, v.transformOne(t))
	}
	return out, nil
}

func (v *TFIDF) transformOne(text string) Vector {
	tokens := reToken.FindAllString(strings.ToLower(text), -1)

	counts := make(map[int]float64)
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			gram := tokens[i]
			if n > 1 {
				gram = strings.Join(tokens[i:i+n], " ")
			}
			if idx, ok := v.vocab[gram]; ok {
				counts[idx]++
			}
		}
	}

	row := make(Vector, 0, len(counts))
	for idx, tf := range counts {
		if v.sublinear {
			tf = 1 + math.Log(tf)
		}
		row = append(row, Feature{Index: idx, Value: tf * v.idf[idx]})
	}
	sort.Slice(row, func(i, j int) bool { return row[i].Index < row[j].Index })

	var total float64
	switch v.norm {
	case "l2":
		for _, f := range row {
			total += f.Value * f.Value
		}
		total = math.Sqrt(total)
	case "l1":
		for _, f := range row {
			total += math.Abs(f.Value)
		}
	}
	if total > 0 {
		for i := range row {
			row[i].Value /= total
		}
	}
	return row
}
