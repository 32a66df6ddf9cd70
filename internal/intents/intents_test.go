package intents

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIntent(kind types.IntentKind, target string) types.Intent {
	return types.Intent{
		ID:        "01HTESTINTENT",
		Kind:      kind,
		Target:    target,
		Source:    types.ModeDirectional,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRouterFansOut(t *testing.T) {
	var first, second []Envelope
	r := NewRouter("session-1", nil,
		SinkFunc(func(env Envelope) { first = append(first, env) }),
		nil,
	)
	r.Add(SinkFunc(func(env Envelope) { second = append(second, env) }))
	assert.Equal(t, 2, r.Len())

	r.RequestNavigation(testIntent(types.IntentRoute, "/settings"))

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "session-1", first[0].SessionID)
	assert.Equal(t, "/settings", second[0].Intent.Target)
}

func TestRouterWithoutSinks(t *testing.T) {
	r := NewRouter("", nil)
	assert.NotPanics(t, func() { r.RequestNavigation(testIntent(types.IntentBack, "")) })
}

func TestNewWebhookRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "ftp://example.com/hook", "http://"} {
		_, err := NewWebhook(WebhookConfig{URL: raw}, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestWebhookDelivers(t *testing.T) {
	var mu sync.Mutex
	var got []Envelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)

		var env Envelope
		if assert.NoError(t, sonic.Unmarshal(body, &env)) {
			mu.Lock()
			got = append(got, env)
			mu.Unlock()
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	metrics := monitoring.NewMetrics()
	hook, err := NewWebhook(WebhookConfig{URL: srv.URL}, metrics, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hook.Run(ctx)

	router := NewRouter("s1", nil, hook)
	router.RequestNavigation(testIntent(types.IntentGroup, "content"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, "s1", got[0].SessionID)
	assert.Equal(t, types.IntentGroup, got[0].Intent.Kind)
	assert.Equal(t, "content", got[0].Intent.Target)
	mu.Unlock()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.WebhookDeliveries.WithLabelValues(StatusDelivered)) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestWebhookRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	metrics := monitoring.NewMetrics()
	hook, err := NewWebhook(WebhookConfig{
		URL:          srv.URL,
		RetryMax:     3,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}, metrics, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hook.Run(ctx)

	hook.Publish(Envelope{Intent: testIntent(types.IntentBack, "")})

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.WebhookDeliveries.WithLabelValues(StatusDelivered)) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWebhookGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	metrics := monitoring.NewMetrics()
	hook, err := NewWebhook(WebhookConfig{URL: srv.URL}, metrics, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hook.Run(ctx)

	hook.Publish(Envelope{Intent: testIntent(types.IntentRoute, "/x")})

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.WebhookDeliveries.WithLabelValues(StatusFailed)) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebhookDropsWhenFull(t *testing.T) {
	metrics := monitoring.NewMetrics()
	hook, err := NewWebhook(WebhookConfig{URL: "http://127.0.0.1:1/hook", QueueSize: 1}, metrics, nil)
	require.NoError(t, err)

	// not running, so the queue never drains
	hook.Publish(Envelope{Intent: testIntent(types.IntentBack, "")})
	hook.Publish(Envelope{Intent: testIntent(types.IntentBack, "")})
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.WebhookDeliveries.WithLabelValues(StatusDropped)))

	hook.Close()
	hook.Close()
	assert.ErrorIs(t, hook.Run(context.Background()), ErrWebhookClosed)

	hook.Publish(Envelope{Intent: testIntent(types.IntentBack, "")})
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.WebhookDeliveries.WithLabelValues(StatusDropped)))
}
