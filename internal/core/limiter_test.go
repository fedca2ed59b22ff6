package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestAnalysisLimiter_AcquireRelease(t *testing.T) {
	limiter := NewAnalysisLimiter(2, time.Second)
	ctx := context.Background()

	if got := limiter.Available(); got != 2 {
		t.Errorf("initial Available = %d, want 2", got)
	}

	for i := 0; i < 2; i++ {
		if err := limiter.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
	}
	if got := limiter.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount = %d, want 2", got)
	}
	if got := limiter.Available(); got != 0 {
		t.Errorf("Available = %d, want 0", got)
	}

	limiter.Release()
	limiter.Release()

	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after Release, ActiveCount = %d, want 0", got)
	}
}

func TestAnalysisLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewAnalysisLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release()

	err := limiter.Acquire(ctx)
	if !errors.Is(err, ErrTooManyAnalyses) {
		t.Errorf("Acquire on full limiter = %v, want ErrTooManyAnalyses", err)
	}
}

func TestAnalysisLimiter_ContextCancellation(t *testing.T) {
	limiter := NewAnalysisLimiter(1, 5*time.Second)
	if !limiter.TryAcquire() {
		t.Fatal("TryAcquire on empty limiter failed")
	}
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- limiter.Acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Acquire = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancellation")
	}
}

func TestAnalysisLimiter_ConcurrentAccess(t *testing.T) {
	const maxConcurrent = 3
	limiter := NewAnalysisLimiter(maxConcurrent, time.Second)

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		maxObserved int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer limiter.Release()

			mu.Lock()
			if n := limiter.ActiveCount(); n > maxObserved {
				maxObserved = n
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	if maxObserved > maxConcurrent {
		t.Errorf("observed %d concurrent analyses, max %d", maxObserved, maxConcurrent)
	}
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("final ActiveCount = %d, want 0", got)
	}
}

func TestAnalysisLimiter_WaitForDrain(t *testing.T) {
	limiter := NewAnalysisLimiter(2, time.Second)
	limiter.TryAcquire()

	done := make(chan error, 1)
	go func() { done <- limiter.WaitForDrain(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitForDrain returned while an analysis was active")
	case <-time.After(30 * time.Millisecond):
	}

	limiter.Release()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not return after release")
	}
}

func TestAnalysisLimiter_Status(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		acquire int
		want    LimiterStatus
	}{
		{"idle", 3, 0, LimiterStatus{Active: 0, Available: 3, MaxConcurrent: 3}},
		{"partly busy", 3, 2, LimiterStatus{Active: 2, Available: 1, MaxConcurrent: 3}},
		{"defaults", 0, 0, LimiterStatus{Active: 0, Available: DefaultMaxConcurrentAnalyses, MaxConcurrent: DefaultMaxConcurrentAnalyses}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewAnalysisLimiter(tt.max, time.Second)
			for i := 0; i < tt.acquire; i++ {
				limiter.TryAcquire()
			}
			if got := limiter.Status(); got != tt.want {
				t.Errorf("Status() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
