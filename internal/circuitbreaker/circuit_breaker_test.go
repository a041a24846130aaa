package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errProbe = errors.New("warehouse unreachable")

func testConfig() *Config {
	return &Config{
		Name:              "test",
		MaxFailures:       3,
		Timeout:           50 * time.Millisecond,
		HalfOpenSuccesses: 2,
	}
}

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := New(testConfig())

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("expected closed, got %s", cb.State())
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(testConfig())

	for i := 0; i < 3; i++ {
		if err := cb.Execute(func() error { return errProbe }); !errors.Is(err, errProbe) {
			t.Fatalf("expected probe error, got %v", err)
		}
	}

	if cb.State() != StateOpen {
		t.Fatalf("expected open after 3 failures, got %s", cb.State())
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if called {
		t.Error("function should not run while the breaker is open")
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := New(testConfig())

	cb.Execute(func() error { return errProbe })
	cb.Execute(func() error { return errProbe })
	cb.Execute(func() error { return nil })
	cb.Execute(func() error { return errProbe })
	cb.Execute(func() error { return errProbe })

	if cb.State() != StateClosed {
		t.Errorf("expected closed, interleaved successes reset the count, got %s", cb.State())
	}
}

func TestBreakerClosesAfterProbeSuccesses(t *testing.T) {
	cb := New(testConfig())

	for i := 0; i < 3; i++ {
		cb.Execute(func() error { return errProbe })
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	time.Sleep(60 * time.Millisecond)

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("probe should be allowed after timeout: %v", err)
	}
	if cb.State() != StateHalfOpen {
		t.Fatalf("expected half_open after first probe, got %s", cb.State())
	}

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("second probe failed: %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("expected closed after %d probe successes, got %s", 2, cb.State())
	}
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	cb := New(testConfig())

	for i := 0; i < 3; i++ {
		cb.Execute(func() error { return errProbe })
	}

	time.Sleep(60 * time.Millisecond)

	cb.Execute(func() error { return errProbe })

	if cb.State() != StateOpen {
		t.Errorf("expected open after failed probe, got %s", cb.State())
	}
}
