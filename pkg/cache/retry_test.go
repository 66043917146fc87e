package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	errFlaky := errors.New("flaky")
	errFatal := errors.New("fatal")

	tests := []struct {
		name      string
		attempts  int
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"succeeds first", 3, 0, nil, 1, nil},
		{"transient then ok", 3, 2, &TransientError{Err: errFlaky}, 3, nil},
		{"transient exhausted", 2, 5, &TransientError{Err: errFlaky}, 2, errFlaky},
		{"permanent", 3, 5, errFatal, 1, errFatal},
		{"zero attempts runs once", 0, 5, errFatal, 1, errFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return &TransientError{Err: errors.New("down")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestIsTransient(t *testing.T) {
	base := errors.New("ping")
	if !IsTransient(&TransientError{Err: base}) {
		t.Error("TransientError not transient")
	}
	if IsTransient(base) {
		t.Error("plain error reported as transient")
	}
	wrapped := errors.Join(errors.New("connect"), &TransientError{Err: base})
	if !IsTransient(wrapped) || !errors.Is(wrapped, base) {
		t.Error("wrapped transient error lost")
	}
}
