package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"stockcount/pkg/count"
	"stockcount/pkg/kv/memory"
)

func TestObserve(t *testing.T) {
	ctx := context.Background()
	m := New()
	storage := memory.New()
	svc := count.Open(ctx, storage)
	Observe(m, svc.Store())

	_, _ = svc.Set(ctx, "789", "1")
	_, _ = svc.Set(ctx, "123", "1")
	_ = svc.Remove(ctx, "789")

	if got := testutil.ToFloat64(m.mutations.WithLabelValues(count.StorageKey, "upsert")); got != 2 {
		t.Fatalf("expected 2 upserts, got %v", got)
	}
	if got := testutil.ToFloat64(m.records.WithLabelValues(count.StorageKey)); got != 1 {
		t.Fatalf("expected 1 record, got %v", got)
	}

	storage.SetErr = errors.New("disk full")
	_ = svc.Clear(ctx)
	if got := testutil.ToFloat64(m.persistErrors.WithLabelValues(count.StorageKey)); got != 1 {
		t.Fatalf("expected 1 persist error, got %v", got)
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/counts", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `stockcount_http_requests_total{code="418",method="GET"} 1`) {
		t.Fatalf("missing request counter in:\n%s", rec.Body.String())
	}
}
