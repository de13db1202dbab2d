package api_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tc2044/ma-classifier-demo/internal/api"
	"github.com/tc2044/ma-classifier-demo/internal/backend"
	"github.com/tc2044/ma-classifier-demo/internal/config"
	"github.com/tc2044/ma-classifier-demo/internal/infrastructure"
	"github.com/tc2044/ma-classifier-demo/pkg/lifecycle"
	"github.com/tc2044/ma-classifier-demo/pkg/middleware"
	"github.com/tc2044/ma-classifier-demo/pkg/module"
	"github.com/tc2044/ma-classifier-demo/pkg/storage"
)

type stubDatabase struct{}

func (stubDatabase) Connection() *sql.DB                { return nil }
func (stubDatabase) Start(*lifecycle.Coordinator) error { return nil }

func newTestModule(t *testing.T, client *mockClassifier) *module.Module {
	t.Helper()

	cfg := &config.Config{}
	if err := cfg.API.Finalize(); err != nil {
		t.Fatalf("finalize api config: %v", err)
	}

	store, err := storage.New(&storage.Config{}, discardLogger())
	if err != nil {
		t.Fatalf("create storage: %v", err)
	}

	infra := &infrastructure.Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    discardLogger(),
		Database:  stubDatabase{},
		Storage:   store,
		Backend:   client,
	}

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("create module: %v", err)
	}
	return m
}

func classifyTextRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/classify/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestModuleRequestID(t *testing.T) {
	m := newTestModule(t, &mockClassifier{
		textFn: func(context.Context, string, string) (*backend.Result, error) {
			return nil, backend.ErrTimeout
		},
	})

	t.Run("assigns an id to each response", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.Serve(rec, classifyTextRequest(`{"title": "Deal", "text": "KKR acquires"}`))

		if rec.Header().Get(middleware.RequestIDHeader) == "" {
			t.Error("response missing request id header")
		}
	})

	t.Run("echoes an inbound id", func(t *testing.T) {
		req := classifyTextRequest(`{"title": "Deal", "text": "KKR acquires"}`)
		req.Header.Set(middleware.RequestIDHeader, "upstream-id")

		rec := httptest.NewRecorder()
		m.Serve(rec, req)

		if got := rec.Header().Get(middleware.RequestIDHeader); got != "upstream-id" {
			t.Errorf("request id = %q, want upstream-id", got)
		}
	})
}

func TestModuleRecoversPanics(t *testing.T) {
	m := newTestModule(t, &mockClassifier{
		textFn: func(context.Context, string, string) (*backend.Result, error) {
			panic("backend client bug")
		},
	})

	rec := httptest.NewRecorder()
	m.Serve(rec, classifyTextRequest(`{"title": "Deal", "text": "KKR acquires"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
