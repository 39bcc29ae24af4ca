package ai_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyashahama/agrocamer-backend/internal/ai"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

// stubCaller returns canned outcomes keyed by provider name and records the
// order of calls.
type stubCaller struct {
	outcomes map[string]ai.Outcome
	calls    []string
}

func (s *stubCaller) Invoke(_ context.Context, p ai.Provider, _ ai.Request) ai.Outcome {
	s.calls = append(s.calls, p.Name)
	return s.outcomes[p.Name]
}

// discardLogger returns a *slog.Logger that silently drops all log output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func providers(names ...string) []ai.Provider {
	out := make([]ai.Provider, len(names))
	for i, n := range names {
		out[i] = ai.Provider{Name: n}
	}
	return out
}

func failed(provider string, status int, retry bool) ai.Outcome {
	return ai.Outcome{
		Status:      status,
		ShouldRetry: retry,
		Err:         &ai.ProviderError{Provider: provider, Status: status, Message: "boom", Retryable: retry},
	}
}

// ─── Chain with stub caller ───────────────────────────────────────────────────

func TestChain_FirstSuccessStops(t *testing.T) {
	caller := &stubCaller{outcomes: map[string]ai.Outcome{
		"a": {Success: true, Payload: ai.Payload{Text: "from a"}},
		"b": {Success: true, Payload: ai.Payload{Text: "from b"}},
	}}

	res := ai.NewChain(caller, discardLogger()).Run(context.Background(), providers("a", "b"), ai.Request{})

	require.True(t, res.Success)
	assert.Equal(t, "from a", res.Payload.Text)
	assert.Equal(t, "a", res.Provider)
	assert.Equal(t, []string{"a"}, caller.calls)
	assert.Equal(t, 1, res.Attempts)
}

func TestChain_FatalStopsWithoutTryingNext(t *testing.T) {
	caller := &stubCaller{outcomes: map[string]ai.Outcome{
		"a": failed("a", http.StatusUnauthorized, false),
		"b": {Success: true},
	}}

	res := ai.NewChain(caller, discardLogger()).Run(context.Background(), providers("a", "b"), ai.Request{})

	assert.False(t, res.Success)
	assert.Equal(t, []string{"a"}, caller.calls)
	assert.Equal(t, "a: status 401: boom", res.LastError)
}

func TestChain_RetryableFailsOver(t *testing.T) {
	caller := &stubCaller{outcomes: map[string]ai.Outcome{
		"a": failed("a", http.StatusTooManyRequests, true),
		"b": {Success: true, Payload: ai.Payload{Text: "from b"}},
	}}

	res := ai.NewChain(caller, discardLogger()).Run(context.Background(), providers("a", "b"), ai.Request{})

	require.True(t, res.Success)
	assert.Equal(t, "b", res.Provider)
	assert.Empty(t, res.LastError)
	assert.Equal(t, 2, res.Attempts)
}

func TestChain_ExhaustionReportsLastError(t *testing.T) {
	caller := &stubCaller{outcomes: map[string]ai.Outcome{
		"a": failed("a", http.StatusServiceUnavailable, true),
		"b": failed("b", http.StatusServiceUnavailable, true),
		"c": failed("c", http.StatusServiceUnavailable, true),
	}}

	res := ai.NewChain(caller, discardLogger()).Run(context.Background(), providers("a", "b", "c"), ai.Request{})

	assert.False(t, res.Success)
	assert.Equal(t, "c: status 503: boom", res.LastError)
	assert.Equal(t, []string{"a", "b", "c"}, caller.calls)
}

func TestChain_NoProviders(t *testing.T) {
	caller := &stubCaller{}
	res := ai.NewChain(caller, discardLogger()).Run(context.Background(), nil, ai.Request{})

	assert.False(t, res.Success)
	assert.Equal(t, ai.ErrNoProviders.Error(), res.LastError)
	assert.Empty(t, caller.calls)
}

func TestChain_CancelledContextStops(t *testing.T) {
	caller := &stubCaller{outcomes: map[string]ai.Outcome{"a": failed("a", 500, true)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := ai.NewChain(caller, discardLogger()).Run(ctx, providers("a", "b"), ai.Request{})

	assert.False(t, res.Success)
	assert.Empty(t, caller.calls)
	assert.Equal(t, context.Canceled.Error(), res.LastError)
}

func TestChain_BackoffPausesBetweenAttempts(t *testing.T) {
	caller := &stubCaller{outcomes: map[string]ai.Outcome{
		"a": failed("a", 429, true),
		"b": {Success: true},
	}}

	start := time.Now()
	res := ai.NewChain(caller, discardLogger(), ai.WithBackoff(40*time.Millisecond)).
		Run(context.Background(), providers("a", "b"), ai.Request{})

	require.True(t, res.Success)
	assert.Greater(t, time.Since(start), time.Millisecond)
}

// ─── Chain over HTTP ──────────────────────────────────────────────────────────

// fakeProvider is an httptest server that answers with a fixed status and
// body and counts requests.
type fakeProvider struct {
	*httptest.Server
	hits atomic.Int32
}

func newFakeProvider(t *testing.T, status int, body string) *fakeProvider {
	t.Helper()
	fp := &fakeProvider{}
	fp.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(fp.Close)
	return fp
}

const gradeArgs = `{"grade":"A","feedback":"good"}`

func gatewaySuccess(t *testing.T) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{
			"tool_calls": []any{map[string]any{"function": map[string]any{"name": "grade", "arguments": gradeArgs}}},
		}}},
	})
	require.NoError(t, err)
	return string(b)
}

func directSuccess(t *testing.T) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{"content": map[string]any{
			"parts": []any{map[string]any{"text": "Result:\n" + gradeArgs}},
		}}},
	})
	require.NoError(t, err)
	return string(b)
}

func gatewayAt(fp *fakeProvider) ai.Provider {
	return ai.Provider{Name: "gateway", Endpoint: fp.URL, APIKey: "k", Model: "m", Format: ai.FormatGateway}
}

func directAt(name string, fp *fakeProvider) ai.Provider {
	return ai.Provider{Name: name, Endpoint: fp.URL, APIKey: "k", Model: "m", Format: ai.FormatDirect}
}

func structuredRequest() ai.Request {
	return ai.Request{
		SystemPrompt: "grade",
		UserPrompt:   "grade this",
		Image:        "QUJD",
		Tool:         &ai.Tool{Name: "grade", Parameters: map[string]any{"type": "object"}, ShapeHint: gradeArgs},
	}
}

func newHTTPChain() *ai.Chain {
	inv := ai.NewInvoker(&http.Client{Timeout: 5 * time.Second}, ai.DefaultPolicy(), nil)
	return ai.NewChain(inv, discardLogger())
}

func TestChainHTTP_FatalDoesNotTouchSecondProvider(t *testing.T) {
	first := newFakeProvider(t, http.StatusUnauthorized, `{"error":"invalid key"}`)
	second := newFakeProvider(t, http.StatusOK, directSuccess(t))

	res := newHTTPChain().Run(context.Background(),
		[]ai.Provider{gatewayAt(first), directAt("gemini-1", second)}, structuredRequest())

	assert.False(t, res.Success)
	assert.Equal(t, int32(1), first.hits.Load())
	assert.Equal(t, int32(0), second.hits.Load())
	assert.Contains(t, res.LastError, "gateway: status 401")
}

func TestChainHTTP_RateLimitedFailsOverToParsedResult(t *testing.T) {
	first := newFakeProvider(t, http.StatusTooManyRequests, `{"error":"slow down"}`)
	second := newFakeProvider(t, http.StatusOK, directSuccess(t))

	res := newHTTPChain().Run(context.Background(),
		[]ai.Provider{gatewayAt(first), directAt("gemini-1", second)}, structuredRequest())

	require.True(t, res.Success)
	assert.Equal(t, "gemini-1", res.Provider)
	assert.Empty(t, res.LastError)

	var got map[string]any
	require.NoError(t, res.Payload.Decode(&got))
	assert.Equal(t, "A", got["grade"])
	assert.Equal(t, false, got["from_database"])
}

func TestChainHTTP_AllUnavailable(t *testing.T) {
	a := newFakeProvider(t, http.StatusServiceUnavailable, `down-a`)
	b := newFakeProvider(t, http.StatusServiceUnavailable, `down-b`)

	res := newHTTPChain().Run(context.Background(),
		[]ai.Provider{directAt("gemini-1", a), directAt("gemini-2", b)}, structuredRequest())

	assert.False(t, res.Success)
	assert.Equal(t, "gemini-2: status 503: down-b", res.LastError)
	assert.Equal(t, int32(1), a.hits.Load())
	assert.Equal(t, int32(1), b.hits.Load())
}

func TestChainHTTP_UnparseableSuccessIsRetryable(t *testing.T) {
	first := newFakeProvider(t, http.StatusOK, `{"choices":[{"message":{"content":"no tool call here"}}]}`)
	second := newFakeProvider(t, http.StatusOK, gatewaySuccess(t))

	res := newHTTPChain().Run(context.Background(),
		[]ai.Provider{gatewayAt(first), gatewayAt(second)}, structuredRequest())

	require.True(t, res.Success)
	assert.Equal(t, int32(1), second.hits.Load())
}

func TestChainHTTP_ValidationRejectionFailsOver(t *testing.T) {
	first := newFakeProvider(t, http.StatusOK, gatewaySuccess(t))
	second := newFakeProvider(t, http.StatusOK, directSuccess(t))

	calls := 0
	req := structuredRequest()
	req.Validate = func(ai.Payload) error {
		calls++
		if calls == 1 {
			return assert.AnError
		}
		return nil
	}

	res := newHTTPChain().Run(context.Background(),
		[]ai.Provider{gatewayAt(first), directAt("gemini-1", second)}, req)

	require.True(t, res.Success)
	assert.Equal(t, "gemini-1", res.Provider)
}

func TestChainHTTP_NetworkErrorIsRetryable(t *testing.T) {
	dead := newFakeProvider(t, http.StatusOK, "")
	dead.Close()
	alive := newFakeProvider(t, http.StatusOK, directSuccess(t))

	res := newHTTPChain().Run(context.Background(),
		[]ai.Provider{directAt("gemini-1", dead), directAt("gemini-2", alive)}, structuredRequest())

	require.True(t, res.Success)
	assert.Equal(t, "gemini-2", res.Provider)
}

func TestInvoker_SendsCredentialsPerFormat(t *testing.T) {
	var gotAuth, gotGoog string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotGoog = r.Header.Get("x-goog-api-key")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	inv := ai.NewInvoker(nil, ai.DefaultPolicy(), nil)

	inv.Invoke(context.Background(), ai.Provider{Name: "gw", Endpoint: srv.URL, APIKey: "secret-gw", Format: ai.FormatGateway}, ai.Request{})
	assert.Equal(t, "Bearer secret-gw", gotAuth)
	assert.Empty(t, gotGoog)

	out := inv.Invoke(context.Background(), ai.Provider{Name: "d", Endpoint: srv.URL, APIKey: "secret-d", Format: ai.FormatDirect}, ai.Request{})
	assert.Equal(t, "secret-d", gotGoog)
	assert.True(t, out.ShouldRetry)
	assert.Equal(t, "d", out.Provider)

	perr, ok := ai.AsProviderError(out.Err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, perr.Status)
	assert.NotContains(t, perr.Error(), "secret-d")
}

func TestInvoker_RecordsMetrics(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, directSuccess(t))
	reg := prometheus.NewRegistry()
	inv := ai.NewInvoker(nil, ai.DefaultPolicy(), ai.NewMetrics(reg))

	out := inv.Invoke(context.Background(), directAt("gemini-1", fp), structuredRequest())
	require.True(t, out.Success)

	n, err := testutil.GatherAndCount(reg, "ai_provider_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
