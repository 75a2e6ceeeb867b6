package core

import (
	"context"
	"errors"
	"testing"
)

func TestCheck(t *testing.T) {
	repo := newFakeRepo("central", fooBar("1.0.0", "0.5.0"))
	c := NewChecker("foo", "bar", "0.4.0", WithRepositories(repo))

	res := Check(context.Background(), c)
	if res.Err != nil {
		t.Fatalf("Check() error = %v", res.Err)
	}
	if res.Status != StatusOutdated {
		t.Errorf("Status = %s, want outdated", res.Status)
	}
	if res.Latest == nil || res.Latest.String() != "1.0.0" {
		t.Errorf("Latest = %v, want 1.0.0", res.Latest)
	}
	if res.Location != "https://central.example.com/repo/foo:bar/1.0.0.jar" {
		t.Errorf("Location = %q", res.Location)
	}
	if res.Checker != c {
		t.Error("Checker not set on result")
	}
}

func TestCheckUnknown(t *testing.T) {
	res := Check(context.Background(), NewChecker("foo", "bar", "0.4.0"))
	if res.Err != nil || res.Status != StatusUnknown || res.Latest != nil || res.Location != "" {
		t.Errorf("Check() = %+v, want bare unknown", res)
	}
}

func TestCheckAll(t *testing.T) {
	checkers := []*Checker{
		NewChecker("foo", "bar", "0.4.0", WithRepositories(newFakeRepo("a", fooBar("1.0.0")))),
		NewChecker("foo", "bar", "1.0.0", WithRepositories(newFakeRepo("b", fooBar("1.0.0")))),
		NewChecker("foo", "bar", "1.0.0"),
		NewChecker("foo", "bar", "bad", WithRepositories(newFakeRepo("c", fooBar("1.0.0")))),
	}

	results := CheckAllWithConcurrency(context.Background(), checkers, 2)
	if len(results) != len(checkers) {
		t.Fatalf("got %d results, want %d", len(results), len(checkers))
	}

	want := []Status{StatusOutdated, StatusUpToDate, StatusUnknown, StatusUnknown}
	for i, res := range results {
		if res.Checker != checkers[i] {
			t.Errorf("results[%d] out of order", i)
		}
		if res.Status != want[i] {
			t.Errorf("results[%d].Status = %s, want %s", i, res.Status, want[i])
		}
	}
	if !errors.Is(results[3].Err, ErrInvalidVersionFormat) {
		t.Errorf("results[3].Err = %v, want ErrInvalidVersionFormat", results[3].Err)
	}
}

func TestCheckAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checkers := []*Checker{
		NewChecker("foo", "bar", "0.4.0", WithRepositories(newFakeRepo("a", fooBar("1.0.0")))),
	}
	results := CheckAllWithConcurrency(ctx, checkers, 0)
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	// The checker either ran before noticing cancellation or reported ctx.Err().
	if results[0].Err != nil && !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("Err = %v, want nil or context.Canceled", results[0].Err)
	}
}
