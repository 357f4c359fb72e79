package usecase

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/phishshield/phishscore/internal/classify"
	"github.com/phishshield/phishscore/internal/domain/highlights"
	"github.com/phishshield/phishscore/internal/domain/normalize"
	"github.com/phishshield/phishscore/internal/ports"
	"github.com/phishshield/phishscore/internal/types"
)

// MinTokens is the normalized token count below which a message is too
// short to score.
const MinTokens = 3

// ShortInputProbability is reported for messages under MinTokens.
const ShortInputProbability = 0.02

type Deps struct {
	// Classifier is nil when no trained model is loaded.
	Classifier ports.Classifier
	// Lexicon defaults to highlights.DefaultLexicon.
	Lexicon *highlights.Lexicon
	Logger  *slog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Lexicon == nil {
		d.Lexicon = highlights.DefaultLexicon()
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Usecase{d: d}
}

// Score runs the two-tier decision over text. It never fails: every
// classifier problem degrades to the heuristic tier.
func (u Usecase) Score(text string) types.ScoreResult {
	if strings.TrimSpace(text) == "" {
		return result(0, nil, types.ModelNone)
	}

	norm := normalize.Text(text)
	if len(normalize.Tokens(norm)) < MinTokens {
		return result(ShortInputProbability, nil, types.ModelShortInputGuard)
	}

	hp, hl := u.d.Lexicon.Score(text)

	p, err := classify.Classify(norm, u.d.Classifier)
	switch {
	case err == nil:
		return result(p, hl, types.ModelTrained)
	case errors.Is(err, classify.ErrUnavailable):
	default:
		u.d.Logger.Warn("classifier failed, using heuristic", "err", err)
	}
	return result(hp, hl, types.ModelHeuristicFallback)
}

// ScoreMessage scores subject and body together and echoes the message id.
func (u Usecase) ScoreMessage(req types.PredictRequest) types.PredictResponse {
	return types.PredictResponse{
		MessageID:   req.MessageID,
		ScoreResult: u.Score(req.Text()),
	}
}

func result(p float64, hl []types.Highlight, mv types.ModelVersion) types.ScoreResult {
	if hl == nil {
		hl = []types.Highlight{}
	}
	phish := round3(p)
	return types.ScoreResult{
		PhishProb:    phish,
		BenignProb:   round3(1 - phish),
		Highlights:   hl,
		ModelVersion: mv,
	}
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
