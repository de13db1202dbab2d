package lifecycle_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tc2044/ma-classifier-demo/pkg/lifecycle"
)

func TestNotReadyBeforeStartup(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}
}

func TestReadyAfterStartup(t *testing.T) {
	lc := lifecycle.New()
	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("startup failed: %v", err)
	}

	if !lc.Ready() {
		t.Error("should be ready after WaitForStartup")
	}
}

func TestStartupHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup("counter", func(ctx context.Context) error {
			count.Add(1)
			return nil
		})
	}

	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("startup failed: %v", err)
	}

	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
}

func TestStartupFailureNamesHook(t *testing.T) {
	lc := lifecycle.New()

	lc.OnStartup("database", func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	err := lc.WaitForStartup()
	if err == nil {
		t.Fatal("expected startup error")
	}
	if !strings.Contains(err.Error(), "database startup") {
		t.Errorf("error = %v, want hook name in message", err)
	}
	if lc.Ready() {
		t.Error("should not be ready after failed startup")
	}
}

func TestShutdownHooksRunInReverseOrder(t *testing.T) {
	lc := lifecycle.New()

	var order []string
	lc.OnShutdown("first", func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	lc.OnShutdown("second", func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("startup failed: %v", err)
	}
	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("shutdown order = %v, want [second first]", order)
	}
}

func TestShutdownCollectsHookErrors(t *testing.T) {
	lc := lifecycle.New()

	var ran atomic.Bool
	lc.OnShutdown("storage", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	lc.OnShutdown("http", func(ctx context.Context) error {
		return errors.New("close failed")
	})

	lc.WaitForStartup()

	err := lc.Shutdown(5 * time.Second)
	if err == nil {
		t.Fatal("expected shutdown error")
	}
	if !strings.Contains(err.Error(), "http shutdown") {
		t.Errorf("error = %v, want hook name in message", err)
	}
	if !ran.Load() {
		t.Error("later hooks should still run after an earlier hook error")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown("slow", func(ctx context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})
	lc.OnShutdown("slower", func(ctx context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	lc.WaitForStartup()

	err := lc.Shutdown(50 * time.Millisecond)
	if err == nil {
		t.Error("expected timeout error, got nil")
	}
}

func TestContextCancelledOnShutdown(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}

	if lc.Ready() {
		t.Error("should not be ready after shutdown")
	}
}
