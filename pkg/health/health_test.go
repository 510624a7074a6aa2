package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, h http.HandlerFunc) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var status string
	d := jx.DecodeBytes(rec.Body.Bytes())
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "status" {
			return d.Skip()
		}
		var err error
		status, err = d.Str()
		return err
	})
	require.NoError(t, err)
	return rec.Code, status
}

func TestLiveEndpoint(t *testing.T) {
	svc := New()
	svc.AddLivenessCheck("always-ok", time.Second, func(_ context.Context) error {
		return nil
	})
	svc.runAll(context.Background())

	code, status := probe(t, svc.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", status)
}

func TestLiveEndpoint_FailingCheck(t *testing.T) {
	svc := New()
	svc.AddLivenessCheck("broken", time.Second, func(_ context.Context) error {
		return errors.New("component down")
	})
	svc.runAll(context.Background())

	code, status := probe(t, svc.LiveEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", status)
	assert.Contains(t, httpBody(t, svc.LiveEndpoint), "component down")
}

func httpBody(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec.Body.String()
}

func TestReadyEndpoint_Gate(t *testing.T) {
	svc := New()

	code, _ := probe(t, svc.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code, "not ready until SetReady(true)")

	svc.SetReady(true)
	code, status := probe(t, svc.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", status)

	svc.SetReady(false)
	code, _ = probe(t, svc.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code, "draining flips readiness off")
}

func TestReadyEndpoint_CheckFailure(t *testing.T) {
	svc := New()
	svc.AddReadinessCheck("db", time.Second, func(_ context.Context) error {
		return errors.New("connection refused")
	})
	svc.SetReady(true)
	svc.runAll(context.Background())

	code, status := probe(t, svc.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", status)

	// Liveness is unaffected by readiness failures.
	code, _ = probe(t, svc.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
}

func TestStartStop(t *testing.T) {
	var calls int
	done := make(chan struct{})
	svc := New()
	svc.AddLivenessCheck("counting", time.Second, func(_ context.Context) error {
		calls++
		if calls == 1 {
			close(done)
		}
		return nil
	})

	svc.Start(context.Background(), time.Hour)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("check did not run after Start")
	}
	svc.Stop()

	code, _ := probe(t, svc.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
