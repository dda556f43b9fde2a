package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"
	"time"
)

// fastConfig keeps test runtime low while still exercising the backoff loop.
func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialDelay:   5 * time.Millisecond,
		MaxDelay:       50 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

func TestWithBackoff(t *testing.T) {
	t.Run("immediate success", func(t *testing.T) {
		attempts := 0
		err := WithBackoff(context.Background(), fastConfig(3), func() error {
			attempts++
			return nil
		})
		if err != nil {
			t.Errorf("err = %v", err)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("success after transient failures", func(t *testing.T) {
		attempts := 0
		err := WithBackoff(context.Background(), fastConfig(5), func() error {
			attempts++
			if attempts < 3 {
				return syscall.ECONNREFUSED
			}
			return nil
		})
		if err != nil {
			t.Errorf("err = %v", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("attempts exhausted", func(t *testing.T) {
		attempts := 0
		cause := syscall.ECONNRESET
		err := WithBackoff(context.Background(), fastConfig(3), func() error {
			attempts++
			return cause
		})
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
		if err == nil || !errors.Is(err, cause) {
			t.Errorf("err = %v, want wrapped %v", err, cause)
		}
		if !strings.Contains(err.Error(), "max retry attempts (3) exceeded") {
			t.Errorf("err message = %q", err.Error())
		}
	})

	t.Run("non-retryable stops immediately", func(t *testing.T) {
		attempts := 0
		cause := errors.New("review payload malformed")
		err := WithBackoff(context.Background(), fastConfig(5), func() error {
			attempts++
			return cause
		})
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
		if !errors.Is(err, cause) {
			t.Errorf("err = %v, want %v", err, cause)
		}
	})

	t.Run("context cancellation aborts the wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cfg := fastConfig(5)
		cfg.InitialDelay = 500 * time.Millisecond

		attempts := 0
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
		start := time.Now()
		err := WithBackoff(ctx, cfg, func() error {
			attempts++
			return syscall.ETIMEDOUT
		})

		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
		if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
			t.Errorf("took %v, should abort well before the full delay", elapsed)
		}
	})
}

type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "i/o timeout" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return true }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"wrapped cancellation", fmt.Errorf("fetch: %w", context.Canceled), false},
		{"network timeout", timeoutNetError{}, true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"connection reset", syscall.ECONNRESET, true},
		{"syscall timeout", syscall.ETIMEDOUT, true},
		{"network unreachable", syscall.ENETUNREACH, true},
		{"http 500", &HTTPError{StatusCode: 500, Message: "internal"}, true},
		{"http 503", &HTTPError{StatusCode: 503, Message: "unavailable"}, true},
		{"http 429", &HTTPError{StatusCode: 429, Message: "slow down"}, true},
		{"http 408", &HTTPError{StatusCode: 408, Message: "timeout"}, true},
		{"http 404", &HTTPError{StatusCode: 404, Message: "gone"}, false},
		{"http 400", &HTTPError{StatusCode: 400, Message: "bad"}, false},
		{"wrapped http 502", fmt.Errorf("fetch feed: %w", &HTTPError{StatusCode: 502, Message: "bad gateway"}), true},
		{"plain error", errors.New("no such clinic"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConfigPresets(t *testing.T) {
	def := DefaultConfig()
	if def.MaxAttempts != 3 || def.InitialDelay != time.Second || def.MaxDelay != 30*time.Second {
		t.Errorf("DefaultConfig = %+v", def)
	}

	feed := FeedFetchConfig()
	if feed.MaxAttempts != 5 {
		t.Errorf("FeedFetchConfig.MaxAttempts = %d, want 5", feed.MaxAttempts)
	}

	page := PageFetchConfig()
	if page.MaxAttempts != 3 || page.MaxDelay != 10*time.Second {
		t.Errorf("PageFetchConfig = %+v", page)
	}

	db := DBConfig()
	if db.InitialDelay != 100*time.Millisecond || db.MaxDelay != time.Second {
		t.Errorf("DBConfig = %+v", db)
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	err := &HTTPError{StatusCode: 503, Message: "Service Unavailable"}
	if got := err.Error(); got != "HTTP 503: Service Unavailable" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAddJitter(t *testing.T) {
	base := 100 * time.Millisecond

	for i := 0; i < 50; i++ {
		got := addJitter(base, 0.1)
		if got < base || got > base+10*time.Millisecond {
			t.Fatalf("jittered delay %v outside [100ms, 110ms]", got)
		}
	}

	if got := addJitter(base, 0); got != base {
		t.Errorf("zero fraction changed delay: %v", got)
	}
	if got := addJitter(base, -1); got != base {
		t.Errorf("negative fraction changed delay: %v", got)
	}
	// Fractions above 1 are clamped; result stays within double the base.
	if got := addJitter(base, 5); got < base || got > 2*base {
		t.Errorf("clamped fraction gave %v", got)
	}
}
