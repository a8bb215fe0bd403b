package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nbsync/notebook-order/internal/health"
)

type fakeHealthChecker struct {
	name    string
	healthy bool
}

func (f *fakeHealthChecker) Name() string      { return f.name }
func (f *fakeHealthChecker) IsHealthy() bool   { return f.healthy }
func (f *fakeHealthChecker) Start(context.Context, time.Duration) {}

func TestCheckReadyReportsReadyWhenDepsHealthy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checker := health.NewServiceHealthChecker(zerolog.Nop(), &fakeHealthChecker{name: "dep", healthy: true})
	go checker.Start(ctx, 5*time.Millisecond)
	waitForReady(t, checker, true)

	h := NewReadinessHandler(checker)
	req := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
	w := httptest.NewRecorder()
	h.CheckReady(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestCheckReadyReportsNotReadyWhenDepUnhealthy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dep := &fakeHealthChecker{name: "dep", healthy: false}
	checker := health.NewServiceHealthChecker(zerolog.Nop(), dep)
	go checker.Start(ctx, 5*time.Millisecond)
	waitForReady(t, checker, false)

	h := NewReadinessHandler(checker)
	req := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
	w := httptest.NewRecorder()
	h.CheckReady(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Result().StatusCode)
}

func waitForReady(t *testing.T, checker *health.ServiceHealthChecker, want bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if checker.IsHealthy() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for readiness to become %v", want)
}
