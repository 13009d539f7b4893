package retry

import (
	"errors"
	"testing"
)

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	var reported []int
	v, err := Do(Config{MaxAttempts: 3}, func(attempt int, err error) {
		reported = append(reported, attempt)
	}, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if v != "ok" {
		t.Fatalf("expected ok, got %q", v)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(reported) != 2 || reported[0] != 1 || reported[1] != 2 {
		t.Fatalf("expected failure reports for attempts 1 and 2, got %v", reported)
	}
}

func TestDoExhaustsBudget(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	_, err := Do(Config{MaxAttempts: 3}, nil, func() (int, error) {
		calls++
		return 0, boom
	})
	if calls != 3 {
		t.Fatalf("expected exactly 3 calls, got %d", calls)
	}
	var exhausted *Exhausted
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *Exhausted, got %v", err)
	}
	if exhausted.Attempts != 3 {
		t.Fatalf("expected 3 attempts recorded, got %d", exhausted.Attempts)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestDoStopsReportingAfterSuccess(t *testing.T) {
	calls := 0
	reports := 0
	_, err := Do(Config{MaxAttempts: 5}, func(int, error) { reports++ }, func() (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 || reports != 0 {
		t.Fatalf("expected 1 call and 0 reports, got %d/%d", calls, reports)
	}
}

func TestDoClampsNonPositiveBudget(t *testing.T) {
	calls := 0
	_, err := Do(Config{MaxAttempts: 0}, nil, func() (int, error) {
		calls++
		return 0, errors.New("nope")
	})
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
	if err == nil {
		t.Fatalf("expected error")
	}
}
