package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phishshield/phishscore/internal/api"
	"github.com/phishshield/phishscore/internal/config"
	"github.com/phishshield/phishscore/internal/pipeline"
	"github.com/phishshield/phishscore/internal/ports/adapters/eml"
	"github.com/phishshield/phishscore/internal/types"
	"github.com/phishshield/phishscore/internal/usecase"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	uc, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.NewRouter(uc, api.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			Metrics:        api.NewMetrics(),
			Logger:         logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func runScore(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")

	var body string
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		body = string(b)
	} else {
		body = strings.Join(args, " ")
	}

	uc, err := newScorer(cmd)
	if err != nil {
		return err
	}
	req := types.PredictRequest{Subject: subject, Body: body}
	return printJSON(cmd.OutOrStdout(), uc.Score(req.Text()))
}

func runEML(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	req, err := eml.New().Read(f)
	if err != nil {
		return err
	}

	uc, err := newScorer(cmd)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), uc.ScoreMessage(req))
}

func newScorer(cmd *cobra.Command) (usecase.Usecase, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return usecase.Usecase{}, err
	}
	return pipeline.New(cfg, logger)
}

// loadConfig layers flags over the environment and sets up logging.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg := config.FromEnv()
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = f.Value.String()
	}
	if f := cmd.Flags().Lookup("model"); f != nil && f.Changed {
		cfg.ModelPath = f.Value.String()
	}
	if f := cmd.Flags().Lookup("lexicon"); f != nil && f.Changed {
		cfg.LexiconPath = f.Value.String()
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
