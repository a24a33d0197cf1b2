package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPacer_FirstCallDoesNotWait(t *testing.T) {
	p := NewPacer(time.Second)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first call waited %v", elapsed)
	}
}

func TestPacer_SpacesConsecutiveCalls(t *testing.T) {
	const interval = 50 * time.Millisecond
	p := NewPacer(interval)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 2*interval {
		t.Errorf("three calls finished in %v, want at least %v", elapsed, 2*interval)
	}
}

func TestPacer_DisabledWhenZero(t *testing.T) {
	p := NewPacer(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := p.Wait(ctx); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("disabled pacer waited %v", elapsed)
	}
}

func TestPacer_CancelledContext(t *testing.T) {
	p := NewPacer(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	if err := p.Wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	cancel()
	if err := p.Wait(ctx); err == nil {
		t.Fatal("expected context error while waiting out the interval")
	}
}
