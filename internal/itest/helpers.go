//go:build integration

package itest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

const cliTimeout = 60 * time.Second

type cliRunResult struct {
	exitCode int
	stdout   string
	// output holds stdout followed by stderr.
	output string
}

// runCLI runs the phishscore command from source in repoRoot.
func runCLI(t *testing.T, repoRoot string, args []string, env map[string]string, stdin string) cliRunResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmdArgs := append([]string{"run", "./cmd/phishscore"}, args...)
	cmd := exec.CommandContext(ctx, "go", cmdArgs...)
	cmd.Dir = repoRoot
	cmd.Env = mergeEnv(os.Environ(), baseEnv(t), env)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("command timed out after %s: go %s", cliTimeout, strings.Join(cmdArgs, " "))
	}

	res := cliRunResult{stdout: stdout.String(), output: stdout.String() + stderr.String()}
	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res
	}

	t.Fatalf("run command: %v\noutput:\n%s", err, res.output)
	return cliRunResult{}
}

// baseEnv points the model path at a file that does not exist so a stray
// model.json in the checkout never changes the tier under test.
func baseEnv(t *testing.T) map[string]string {
	t.Helper()
	return map[string]string{
		"NO_COLOR":                   "1",
		"TERM":                       "dumb",
		"PHISHSCORE_MODEL_PATH":      filepath.Join(t.TempDir(), "absent.json"),
		"PHISHSCORE_LEXICON_PATH":    "",
		"PHISHSCORE_ALLOWED_ORIGINS": "",
		"PHISHSCORE_ADDR":            "",
		"LOG_LEVEL":                  "",
	}
}

func mergeEnv(base []string, overrides ...map[string]string) []string {
	env := make(map[string]string, len(base))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		env[kv[:i]] = kv[i+1:]
	}

	for _, set := range overrides {
		for k, v := range set {
			env[k] = v
		}
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return wd
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			break
		}
		wd = parent
	}
	t.Fatalf("repo root: could not locate go.mod")
	return ""
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

const modelFixture = `{
  "kind": "pair",
  "vectorizer": {
    "vocabulary": {"verify": 0, "account": 1, "click": 2, "meeting": 3},
    "idf": [1.2, 1.0, 1.5, 1.1],
    "ngram_range": [1, 1]
  },
  "classifier": {"coef": [2.5, 1.0, 2.0, -3.0], "intercept": -1.0}
}`

const emlFixture = "From: Security <security@bank.example>\r\n" +
	"To: alice@example.org\r\n" +
	"Subject: Account suspended\r\n" +
	"Message-ID: <itest-1@bank.example>\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Your account is suspended. Click the link to verify your password: https://bank.example.test/login\r\n"
