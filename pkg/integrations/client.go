package integrations

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pocketdigest/pocketdigest/pkg/buildinfo"
	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
	"github.com/pocketdigest/pocketdigest/pkg/httputil"
	"github.com/pocketdigest/pocketdigest/pkg/observability"
)

// Client provides shared HTTP functionality for all service clients.
// It handles caching, retry logic, and common request headers.
//
// All methods are safe for concurrent use.
type Client struct {
	http      *resty.Client
	cache     cache.Cache
	namespace string
	ttl       time.Duration
	attempts  int
	headers   map[string]string
}

// NewClient creates a Client that caches under namespace.
// Headers are applied to all requests made through this client.
// Pass nil for backend to disable caching and nil for headers if no default
// headers are needed.
func NewClient(backend cache.Cache, namespace string, s Settings, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	if s.UserAgent == "" {
		s.UserAgent = buildinfo.UserAgent()
	}

	h := resty.New().
		SetTimeout(s.Timeout).
		SetHeader("User-Agent", s.UserAgent)
	instrument(h)

	return &Client{
		http:      h,
		cache:     backend,
		namespace: namespace,
		ttl:       s.CacheTTL,
		attempts:  1 + max(s.Retries, 0),
		headers:   headers,
	}
}

// instrument reports every request to the registered HTTP hooks.
func instrument(h *resty.Client) {
	h.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		host, path := splitURL(req.URL)
		observability.HTTP().OnRequest(req.Context(), req.Method, host, path)
		return nil
	})
	h.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		host, path := splitURL(resp.Request.URL)
		observability.HTTP().OnResponse(resp.Request.Context(), resp.Request.Method, host, path, resp.StatusCode(), resp.Time())
		return nil
	})
	h.OnError(func(req *resty.Request, err error) {
		host, path := splitURL(req.URL)
		observability.HTTP().OnError(req.Context(), req.Method, host, path, err)
	})
}

func splitURL(raw string) (host, path string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}

// Namespace returns the cache namespace of the client.
func (c *Client) Namespace() string { return c.namespace }

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	key = c.namespace + key
	hooks := observability.Cache()
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, c.namespace)
				return nil
			}
		}
		hooks.OnCacheMiss(ctx, c.namespace)
	}
	if err := fetch(); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, c.namespace, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	return c.GetJSON(ctx, rawURL, nil, nil, v)
}

// GetWithQuery performs an HTTP GET with query parameters and JSON-decodes
// the response into v.
func (c *Client) GetWithQuery(ctx context.Context, rawURL string, query url.Values, v any) error {
	return c.GetJSON(ctx, rawURL, query, nil, v)
}

// GetJSON performs an HTTP GET with optional query parameters and extra
// headers, and JSON-decodes the response into v. Request-specific headers
// override client defaults for the same key.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, headers map[string]string, v any) error {
	body, err := c.do(ctx, rawURL, query, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s response: %w", c.namespace, err)
	}
	return nil
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, rawURL string, query url.Values) (string, error) {
	body, err := c.do(ctx, rawURL, query, nil)
	return string(body), err
}

// GetBytes performs an HTTP GET request and returns the raw response body.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	return c.do(ctx, rawURL, nil, nil)
}

// LoadImage fetches an image, caching its bytes for the rest of the run.
func (c *Client) LoadImage(ctx context.Context, rawURL string) ([]byte, error) {
	key := cache.Key("image", rawURL)
	var data []byte
	err := c.Cached(ctx, key, false, &data, func() error {
		var err error
		data, err = c.GetBytes(ctx, rawURL)
		return err
	})
	return data, err
}

func (c *Client) do(ctx context.Context, rawURL string, query url.Values, headers map[string]string) ([]byte, error) {
	var body []byte
	policy := httputil.Policy{Attempts: c.attempts, Delay: retryDelay, MaxDelay: maxRetryDelay}
	err := httputil.Retry(ctx, policy, func() error {
		req := c.http.R().
			SetContext(ctx).
			SetHeaders(c.headers).
			SetHeaders(headers)
		if len(query) > 0 {
			req.SetQueryParamsFromValues(query)
		}

		resp, err := req.Get(rawURL)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &httputil.RetryableError{Err: transportError(err)}
		}
		if err := checkStatus(resp.StatusCode(), resp.Header().Get("Retry-After")); err != nil {
			return err
		}
		body = resp.Body()
		return nil
	})
	return body, err
}

func checkStatus(code int, retryAfter string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	case code == http.StatusTooManyRequests:
		return &httputil.RetryableError{
			Err:   errors.Wrap(errors.ErrCodeRateLimited, ErrNetwork, "status %d", code),
			After: httputil.ParseRetryAfter(retryAfter, time.Now()),
		}
	case code >= 500:
		return &httputil.RetryableError{
			Err:   fmt.Errorf("%w: status %d", ErrNetwork, code),
			After: httputil.ParseRetryAfter(retryAfter, time.Now()),
		}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// transportError classifies a failure to get any response at all.
func transportError(err error) error {
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return errors.Wrap(errors.ErrCodeTimeout, ErrNetwork, "%v", err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
