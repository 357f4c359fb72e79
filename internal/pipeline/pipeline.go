package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/phishshield/phishscore/internal/config"
	"github.com/phishshield/phishscore/internal/domain/highlights"
	"github.com/phishshield/phishscore/internal/ports"
	"github.com/phishshield/phishscore/internal/ports/adapters/eml"
	"github.com/phishshield/phishscore/internal/ports/adapters/linearmodel"
	"github.com/phishshield/phishscore/internal/usecase"
)

// New validates cfg, loads the lexicon and the classifier once and returns
// the scorer. Only a bad config or lexicon is fatal; a model that cannot be
// loaded leaves the scorer on the heuristic tier for the process lifetime.
func New(cfg config.Config, logger *slog.Logger) (usecase.Usecase, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return usecase.Usecase{}, fmt.Errorf("config: %w", err)
	}

	lex, err := loadLexicon(cfg.LexiconPath)
	if err != nil {
		return usecase.Usecase{}, err
	}
	logger.Info("lexicon ready",
		"terms", len(lex.Terms()),
		"triggers", len(lex.Triggers()),
		"window", lex.Window(),
	)

	return usecase.New(usecase.Deps{
		Classifier: LoadClassifier(cfg.ModelPath, logger),
		Lexicon:    lex,
		Logger:     logger,
	}), nil
}

// LoadClassifier returns nil when the artifact is missing or unusable.
func LoadClassifier(path string, logger *slog.Logger) ports.Classifier {
	clf, err := linearmodel.Load(path)
	switch {
	case err == nil:
		logger.Info("model loaded", "path", path)
		return clf
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("no model artifact, using heuristic scorer", "path", path)
	default:
		logger.Error("model artifact unusable, using heuristic scorer", "path", path, "err", err)
	}
	return nil
}

func loadLexicon(path string) (*highlights.Lexicon, error) {
	if path == "" {
		return highlights.DefaultLexicon(), nil
	}
	lex, err := highlights.LoadLexicon(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	return lex, nil
}

// ensure adapters implement ports
var _ ports.MessageReader = (*eml.Adapter)(nil)
