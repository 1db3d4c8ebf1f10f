package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pocketdigest/pocketdigest/pkg/cache"
	digesterrors "github.com/pocketdigest/pocketdigest/pkg/errors"
	"github.com/pocketdigest/pocketdigest/pkg/httputil"
	"github.com/pocketdigest/pocketdigest/pkg/observability"
)

func TestNewClient(t *testing.T) {
	c := cache.NewMemoryCache()
	defer c.Close()

	headers := map[string]string{"Authorization": "Bearer token"}
	client := NewClient(c, "test:", DefaultSettings(), headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
	if client.attempts != 1 {
		t.Errorf("NewClient() attempts = %d, want 1", client.attempts)
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(nil, "test:", Settings{Retries: -3}, nil)

	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
	if _, ok := client.cache.(*cache.NullCache); !ok {
		t.Errorf("NewClient(nil) cache = %T, want *cache.NullCache", client.cache)
	}
	if client.attempts != 1 {
		t.Errorf("negative retries should clamp to one attempt, got %d", client.attempts)
	}
	if client.http.GetClient().Timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", client.http.GetClient().Timeout, defaultTimeout)
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		userAgent = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(nil, "test:", Settings{UserAgent: "digest-test"}, nil)

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
	if userAgent != "digest-test" {
		t.Errorf("User-Agent = %q, want %q", userAgent, "digest-test")
	}
}

func TestClientGetJSONHeadersAndQuery(t *testing.T) {
	var gotHeader, gotDefault, gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Override")
		gotDefault = r.Header.Get("X-Default")
		gotQuery = r.URL.Query().Get("limit")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(nil, "test:", DefaultSettings(), map[string]string{
		"X-Override": "default",
		"X-Default":  "kept",
	})

	var resp map[string]string
	err := client.GetJSON(context.Background(), server.URL,
		map[string][]string{"limit": {"5"}},
		map[string]string{"X-Override": "overridden"},
		&resp)
	if err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}
	if gotHeader != "overridden" {
		t.Errorf("header = %q, want %q", gotHeader, "overridden")
	}
	if gotDefault != "kept" {
		t.Errorf("default header = %q, want %q", gotDefault, "kept")
	}
	if gotQuery != "5" {
		t.Errorf("query limit = %q, want %q", gotQuery, "5")
	}
}

func TestClientGetText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text response"))
	}))
	defer server.Close()

	client := NewClient(nil, "test:", DefaultSettings(), nil)

	text, err := client.GetText(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("GetText() error: %v", err)
	}
	if text != "plain text response" {
		t.Errorf("GetText() = %q, want %q", text, "plain text response")
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		want      error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized, false},
		{"forbidden", http.StatusForbidden, ErrUnauthorized, false},
		{"server error", http.StatusInternalServerError, ErrNetwork, true},
		{"rate limited", http.StatusTooManyRequests, ErrNetwork, true},
		{"bad request", http.StatusBadRequest, ErrNetwork, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(nil, "test:", DefaultSettings(), nil)

			var resp map[string]string
			err := client.Get(context.Background(), server.URL, &resp)
			if !errors.Is(err, tt.want) {
				t.Errorf("Get() error = %v, want %v", err, tt.want)
			}
			var retryErr *httputil.RetryableError
			if got := errors.As(err, &retryErr); got != tt.retryable {
				t.Errorf("retryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestClientRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":"yes"}`))
	}))
	defer server.Close()

	client := NewClient(nil, "test:", Settings{Retries: 1}, nil)

	var resp map[string]string
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestClientNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(nil, "test:", DefaultSettings(), nil)

	var resp map[string]string
	if err := client.Get(context.Background(), server.URL, &resp); err == nil {
		t.Fatal("Get() should fail")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestClientCached(t *testing.T) {
	c := cache.NewMemoryCache()
	defer c.Close()

	client := NewClient(c, "test:", DefaultSettings(), nil)

	fetchCount := 0
	type testData struct {
		Value string `json:"value"`
	}

	fetch := func(out *testData) func() error {
		return func() error {
			fetchCount++
			out.Value = "fetched"
			return nil
		}
	}

	var d1 testData
	if err := client.Cached(context.Background(), "key", false, &d1, fetch(&d1)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	var d2 testData
	if err := client.Cached(context.Background(), "key", false, &d2, fetch(&d2)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 1 {
		t.Errorf("fetch called %d times, want 1", fetchCount)
	}
	if d2.Value != "fetched" {
		t.Errorf("cached value = %q, want %q", d2.Value, "fetched")
	}

	var d3 testData
	if err := client.Cached(context.Background(), "key", true, &d3, fetch(&d3)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if fetchCount != 2 {
		t.Errorf("refresh should bypass cache, fetch called %d times", fetchCount)
	}
}

func TestClientCachedError(t *testing.T) {
	c := cache.NewMemoryCache()
	client := NewClient(c, "test:", DefaultSettings(), nil)

	var v map[string]string
	err := client.Cached(context.Background(), "key", false, &v, func() error {
		return ErrNetwork
	})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Cached() error = %v, want ErrNetwork", err)
	}
	if c.Len() != 0 {
		t.Error("failed fetch should not be cached")
	}
}

func TestClientLoadImage(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer server.Close()

	client := NewClient(cache.NewMemoryCache(), "images:", DefaultSettings(), nil)

	for i := 0; i < 2; i++ {
		data, err := client.LoadImage(context.Background(), server.URL+"/a.png")
		if err != nil {
			t.Fatalf("LoadImage() error: %v", err)
		}
		if string(data) != "\x89PNG" {
			t.Errorf("LoadImage() = %q", data)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("image fetched %d times, want 1", calls.Load())
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	requests  int
	responses []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string, string) { h.requests++ }

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.responses = append(h.responses, status)
}

func TestClientReportsToHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := NewClient(nil, "test:", DefaultSettings(), nil)
	_, _ = client.GetBytes(context.Background(), server.URL)

	if hooks.requests != 1 {
		t.Errorf("requests = %d, want 1", hooks.requests)
	}
	if len(hooks.responses) != 1 || hooks.responses[0] != http.StatusTeapot {
		t.Errorf("responses = %v, want [418]", hooks.responses)
	}
}

func TestSentinelsCarryCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewClient(nil, "test:", DefaultSettings(), nil).GetBytes(context.Background(), server.URL)
	if !digesterrors.Is(err, digesterrors.ErrCodeUnauthorized) {
		t.Errorf("error = %v, want UNAUTHORIZED code", err)
	}
	if digesterrors.GetCode(ErrNotConfigured) != digesterrors.ErrCodeNotConfigured {
		t.Errorf("ErrNotConfigured code = %q", digesterrors.GetCode(ErrNotConfigured))
	}
}

func TestClientClassifiesTransientFailures(t *testing.T) {
	limited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer limited.Close()

	_, err := NewClient(nil, "test:", DefaultSettings(), nil).GetBytes(context.Background(), limited.URL)
	if !errors.Is(err, ErrNetwork) || !digesterrors.Is(err, digesterrors.ErrCodeRateLimited) {
		t.Errorf("429 error = %v, want ErrNetwork with RATE_LIMITED", err)
	}

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	_, err = NewClient(nil, "test:", Settings{Timeout: 50 * time.Millisecond}, nil).GetBytes(context.Background(), slow.URL)
	if !errors.Is(err, ErrNetwork) || !digesterrors.Is(err, digesterrors.ErrCodeTimeout) {
		t.Errorf("timeout error = %v, want ErrNetwork with TIMEOUT", err)
	}
}
