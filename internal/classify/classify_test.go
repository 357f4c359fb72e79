package classify

import (
	"errors"
	"math"
	"testing"
)

type fakeClassifier struct {
	p     float64
	err   error
	panic bool
	calls int
}

func (f *fakeClassifier) PositiveClassProbability(string) (float64, error) {
	f.calls++
	if f.panic {
		panic("shape mismatch")
	}
	return f.p, f.err
}

func TestClassify_Unavailable(t *testing.T) {
	_, err := Classify("some text here", nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		name       string
		clf        *fakeClassifier
		want       float64
		wantFailed bool
	}{
		{name: "ok", clf: &fakeClassifier{p: 0.73}, want: 0.73},
		{name: "clamp high", clf: &fakeClassifier{p: 1.7}, want: 1},
		{name: "clamp low", clf: &fakeClassifier{p: -0.2}, want: 0},
		{name: "error", clf: &fakeClassifier{err: errors.New("boom")}, wantFailed: true},
		{name: "panic", clf: &fakeClassifier{panic: true}, wantFailed: true},
		{name: "nan", clf: &fakeClassifier{p: math.NaN()}, wantFailed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify("some text here", tt.clf)
			if tt.clf.calls != 1 {
				t.Fatalf("expected exactly one model call, got %d", tt.clf.calls)
			}
			if tt.wantFailed {
				if !errors.Is(err, ErrInferenceFailed) {
					t.Fatalf("expected ErrInferenceFailed, got %v", err)
				}
				if errors.Is(err, ErrUnavailable) {
					t.Fatalf("inference failure must not look like unavailable")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_WrapsCause(t *testing.T) {
	cause := errors.New("vocabulary mismatch")
	_, err := Classify("x y z", &fakeClassifier{err: cause})
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be wrapped, got %v", err)
	}
}
