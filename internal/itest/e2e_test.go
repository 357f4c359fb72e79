//go:build integration

package itest

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/phishshield/phishscore/internal/types"
)

func TestE2E_Score(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	model := writeFixture(t, "model.json", modelFixture)
	text := "Please verify your account by clicking this link"

	cases := []struct {
		name      string
		args      []string
		stdin     string
		wantModel types.ModelVersion
	}{
		{
			name:      "heuristic from args",
			args:      []string{"score", text},
			wantModel: types.ModelHeuristicFallback,
		},
		{
			name:      "trained model from stdin",
			args:      []string{"score", "--model", model, "--subject", "Urgent", "-"},
			stdin:     text,
			wantModel: types.ModelTrained,
		},
		{
			name:      "short input",
			args:      []string{"score", "hi", "there"},
			wantModel: types.ModelShortInputGuard,
		},
		{
			name:      "empty stdin",
			args:      []string{"score"},
			wantModel: types.ModelNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, repoRoot, tc.args, nil, tc.stdin)
			if res.exitCode != 0 {
				t.Fatalf("exit %d\noutput:\n%s", res.exitCode, res.output)
			}
			var got types.ScoreResult
			if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
				t.Fatalf("decode stdout: %v\n%s", err, res.stdout)
			}
			if got.ModelVersion != tc.wantModel {
				t.Fatalf("model version = %q, want %q", got.ModelVersion, tc.wantModel)
			}
			if got.PhishProb < 0 || got.PhishProb > 1 || got.PhishProb+got.BenignProb < 0.999 || got.PhishProb+got.BenignProb > 1.001 {
				t.Fatalf("bad probabilities: %+v", got)
			}
		})
	}
}

func TestE2E_EML(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	msg := writeFixture(t, "message.eml", emlFixture)

	res := runCLI(t, repoRoot, []string{"eml", msg}, nil, "")
	if res.exitCode != 0 {
		t.Fatalf("exit %d\noutput:\n%s", res.exitCode, res.output)
	}
	var got types.PredictResponse
	if err := json.Unmarshal([]byte(res.stdout), &got); err != nil {
		t.Fatalf("decode stdout: %v\n%s", err, res.stdout)
	}
	if got.MessageID == nil || *got.MessageID != "itest-1@bank.example" {
		t.Fatalf("message id not echoed: %v", got.MessageID)
	}
	if got.ModelVersion != types.ModelHeuristicFallback || got.PhishProb <= 0.05 || len(got.Highlights) == 0 {
		t.Fatalf("unexpected result: %+v", got.ScoreResult)
	}
}

func TestE2E_Serve(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	bin := filepath.Join(t.TempDir(), "phishscore")

	build := exec.Command("go", "build", "-o", bin, "./cmd/phishscore")
	build.Dir = repoRoot
	if b, err := build.CombinedOutput(); err != nil {
		t.Fatalf("build: %v\n%s", err, string(b))
	}

	addr := freeAddr(t)
	model := writeFixture(t, "model.yaml", "kind: pipeline\n"+
		"vectorizer:\n  vocabulary: {verify: 0, meeting: 1}\n  idf: [1, 1]\n"+
		"classifier:\n  coef: [3, -3]\n  intercept: 0\n")

	var logs strings.Builder
	cmd := exec.Command(bin, "serve", "--addr", addr, "--model", model)
	cmd.Dir = t.TempDir()
	cmd.Env = mergeEnv(os.Environ(), baseEnv(t))
	cmd.Stdout = &logs
	cmd.Stderr = &logs
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
	})

	base := "http://" + addr
	waitHealthy(t, base)

	payload := `{"message_id":"s-1","subject":"Hi","body":"please verify your login now"}`
	res, err := http.Post(base+"/predict", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	var got types.PredictResponse
	err = json.NewDecoder(res.Body).Decode(&got)
	res.Body.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ModelVersion != types.ModelTrained || got.MessageID == nil || *got.MessageID != "s-1" {
		t.Fatalf("unexpected response: %+v", got)
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("signal: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("server exited with %v\nlogs:\n%s", err, logs.String())
		}
	case <-time.After(15 * time.Second):
		t.Fatalf("server did not stop\nlogs:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "server stopped") {
		t.Fatalf("expected clean shutdown log\nlogs:\n%s", logs.String())
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().String()
}

func waitHealthy(t *testing.T, base string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	for {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
		res, err := http.DefaultClient.Do(req)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				return
			}
		}
		select {
		case <-ctx.Done():
			t.Fatalf("server not healthy: %v", fmt.Errorf("%w (last error: %v)", ctx.Err(), err))
		case <-time.After(100 * time.Millisecond):
		}
	}
}
