package ratelimit

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestNilLimiterAllowsEverything(t *testing.T) {
	var l *Limiter

	if err := l.Wait(context.Background(), APITavily); err != nil {
		t.Errorf("Wait() returned unexpected error: %v", err)
	}
	if !l.Allow(APIYahoo) {
		t.Error("Allow() = false, want true")
	}
}

func TestUnknownAPIIsUnlimited(t *testing.T) {
	l := New(map[API]rate.Limit{APITavily: rate.Limit(1)})

	for i := 0; i < 5; i++ {
		if !l.Allow(API("other")) {
			t.Fatalf("Allow() = false on call %d, want true", i)
		}
	}
}

func TestAllow_RespectsBurst(t *testing.T) {
	l := New(map[API]rate.Limit{APIYahoo: rate.Every(time.Hour)})

	if !l.Allow(APIYahoo) {
		t.Fatal("first Allow() = false, want true")
	}
	if l.Allow(APIYahoo) {
		t.Error("second Allow() = true, want false")
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	l := New(map[API]rate.Limit{APIYahoo: rate.Every(time.Hour)})
	l.Allow(APIYahoo)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, APIYahoo); err == nil {
		t.Error("Wait() expected error for exhausted limiter, got nil")
	}
}

func TestNewUnlimited(t *testing.T) {
	l := NewUnlimited()
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 50; i++ {
		if err := l.Wait(ctx, APITavily); err != nil {
			t.Fatalf("Wait() returned unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("unlimited Wait() took %v", elapsed)
	}
}

func TestSetLimit(t *testing.T) {
	l := NewUnlimited()
	l.SetLimit(APIPages, rate.Every(time.Hour))

	l.Allow(APIPages)
	if l.Allow(APIPages) {
		t.Error("Allow() = true after SetLimit, want false")
	}
}
