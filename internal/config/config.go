package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
)

const (
	DefaultAddr      = ":8000"
	DefaultModelPath = "model.json"
)

const (
	EnvAddr           = "PHISHSCORE_ADDR"
	EnvModelPath      = "PHISHSCORE_MODEL_PATH"
	EnvLexiconPath    = "PHISHSCORE_LEXICON_PATH"
	EnvAllowedOrigins = "PHISHSCORE_ALLOWED_ORIGINS"
	EnvLogLevel       = "LOG_LEVEL"
)

type Config struct {
	Addr string
	// ModelPath points at the exported classifier. A missing file is not an
	// error: the scorer runs on the heuristic tier.
	ModelPath string
	// LexiconPath is an optional yaml lexicon; empty means the built-in one.
	LexiconPath    string
	AllowedOrigins []string
	LogLevel       string
}

// FromEnv reads the process environment. Call godotenv.Load first if a .env
// file should be honored.
func FromEnv() Config {
	return Config{
		Addr:           getenvDefault(EnvAddr, DefaultAddr),
		ModelPath:      getenvDefault(EnvModelPath, DefaultModelPath),
		LexiconPath:    os.Getenv(EnvLexiconPath),
		AllowedOrigins: splitList(getenvDefault(EnvAllowedOrigins, "*")),
		LogLevel:       getenvDefault(EnvLogLevel, "info"),
	}
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is empty")
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid addr %q: %w", c.Addr, err)
	}
	if c.ModelPath == "" {
		return errors.New("model path is empty")
	}
	if c.LexiconPath != "" {
		if _, err := os.Stat(c.LexiconPath); err != nil {
			return fmt.Errorf("stat lexicon: %w", err)
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return ValidateOrigins(c.AllowedOrigins)
}

// ParseLevel maps LOG_LEVEL values to slog levels. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid %s %q", EnvLogLevel, s)
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
