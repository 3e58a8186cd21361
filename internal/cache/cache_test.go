package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRoundTrip(t *testing.T) {
	c := New[string]("test", nil)
	c.Set("k", "v", 50*time.Millisecond)

	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("expected hit with v, got %q ok=%v", got, ok)
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after ttl elapsed")
	}
	// expired entry must have been purged, not just hidden
	c.mu.Lock()
	_, still := c.items["k"]
	c.mu.Unlock()
	if still {
		t.Fatal("expected expired entry to be purged on read")
	}
}

func TestSetOverwritesAndResetsExpiry(t *testing.T) {
	c := New[int]("test", nil)
	c.Set("k", 1, 30*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	c.Set("k", 2, 30*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Fatalf("expected 2 after overwrite, got %d ok=%v", got, ok)
	}
}

func TestDelete(t *testing.T) {
	c := New[int]("test", nil)
	c.Set("k", 1, time.Minute)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestGetOrComputeCollapse(t *testing.T) {
	c := New[int]("test", nil)
	calls := 0
	fn := func(ctx context.Context) (int, error) {
		calls++
		// simulate some work
		time.Sleep(50 * time.Millisecond)
		return 42, nil
	}

	ctx := context.Background()
	// concurrent callers
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		go func() {
			c.GetOrCompute(ctx, "k", time.Minute, fn)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 5; i++ {
		<-done
	}
	if calls != 1 {
		t.Fatalf("expected single compute got %d", calls)
	}
}

func TestGetOrComputeDoesNotCacheFailure(t *testing.T) {
	c := New[int]("test", nil)
	calls := 0
	boom := errors.New("boom")
	fail := func(ctx context.Context) (int, error) {
		calls++
		return 0, boom
	}

	ctx := context.Background()
	if _, err := c.GetOrCompute(ctx, "k", time.Minute, fail); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatal("failed computation must not be cached")
	}

	ok := func(ctx context.Context) (int, error) {
		calls++
		return 7, nil
	}
	got, err := c.GetOrCompute(ctx, "k", time.Minute, ok)
	if err != nil || got != 7 {
		t.Fatalf("expected recomputed 7, got %d err=%v", got, err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 computations, got %d", calls)
	}
}

func TestDistinctKeysDoNotInterfere(t *testing.T) {
	c := New[int]("test", nil)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Delete("a")

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a gone")
	}
	if got, ok := c.Get("b"); !ok || got != 2 {
		t.Fatalf("expected b untouched, got %d ok=%v", got, ok)
	}
}
