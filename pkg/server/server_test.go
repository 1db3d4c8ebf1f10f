package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/pocketdigest/pocketdigest/pkg/booklet/content"
	"github.com/pocketdigest/pocketdigest/pkg/booklet/grid"
	"github.com/pocketdigest/pocketdigest/pkg/config"
	"github.com/pocketdigest/pocketdigest/pkg/errors"
	"github.com/pocketdigest/pocketdigest/pkg/pipeline"
	"github.com/pocketdigest/pocketdigest/pkg/render/pdf"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Slots = []config.Slot{
		{Column: 0, Row: 1, Label: "Hello", Source: "label"},
		{Column: 1, Row: 1, Label: "World", Source: "label"},
	}
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	s := New(cfg, log.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp, body := get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok\n", string(body))
}

func TestDigest(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, body := get(t, ts.URL+"/digest.pdf?boundaries=false")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Equal(t, "0", resp.Header.Get("X-Digest-Failed"))
	require.NotEmpty(t, resp.Header.Get("X-Digest-Run"))
	require.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	require.NoError(t, pdf.Validate(body))

	again, _ := get(t, ts.URL+"/digest.pdf")
	require.NotEqual(t, resp.Header.Get("X-Digest-Run"), again.Header.Get("X-Digest-Run"))
}

func TestDigestReportsFailedPanels(t *testing.T) {
	s := New(testConfig(), log.New(io.Discard))
	s.Producers = map[grid.PanelID]content.Producer{
		{Column: 0, Row: 1}: content.ProducerFunc(func(context.Context) ([]content.Block, error) {
			return nil, stderrors.New("down")
		}),
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, _ := get(t, ts.URL+"/digest.pdf")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "1", resp.Header.Get("X-Digest-Failed"))
}

func TestBadParameter(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, body := get(t, ts.URL+"/digest.pdf?refresh=maybe")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	require.Equal(t, string(errors.ErrCodeInvalidInput), e.Code)
	require.Contains(t, e.Message, "refresh")
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Page.Columns = 0
	ts := newTestServer(t, cfg)

	resp, body := get(t, ts.URL+"/digest.pdf")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	require.Equal(t, string(errors.ErrCodeInvalidConfig), e.Code)
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp, body := get(t, ts.URL+"/layout")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var info pipeline.LayoutInfo
	require.NoError(t, json.Unmarshal(body, &info))
	require.Equal(t, 4, info.Columns)
	require.Equal(t, 2, info.Rows)
	require.Len(t, info.Panels, 8)
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp, _ := get(t, ts.URL+"/nope")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidInput, "bad"), http.StatusBadRequest},
		{errors.Wrap(errors.ErrCodeContentFetch, context.Canceled, "collect interrupted"), http.StatusServiceUnavailable},
		{errors.New(errors.ErrCodeInvalidConfig, "bad"), http.StatusInternalServerError},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestNewDefaultsCacheTTL(t *testing.T) {
	cfg := testConfig()
	s := New(cfg, log.New(io.Discard))
	require.Equal(t, config.DefaultServerCacheTTL, s.Config.HTTP.CacheTTL)
	require.Zero(t, cfg.HTTP.CacheTTL, "caller's config is not modified")
	require.Equal(t, config.DefaultServerCacheTTL, s.Config.Settings().CacheTTL)
}
