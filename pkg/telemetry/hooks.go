package telemetry

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pocketdigest/pocketdigest/pkg/observability"
)

const instrumentation = "github.com/pocketdigest/pocketdigest"

// TracerProvider is the subset of trace.TracerProvider the hooks need.
type TracerProvider interface {
	Tracer(name string, opts ...trace.TracerOption) trace.Tracer
}

// Hooks turns observability events into spans. Events report their
// duration once finished, so each span is started backdated and ended
// immediately.
type Hooks struct {
	tracer trace.Tracer
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
)

// New returns hooks that record spans with tp.
func New(tp TracerProvider) *Hooks {
	return &Hooks{tracer: tp.Tracer(instrumentation)}
}

func (h *Hooks) span(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, s := h.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attrs...),
	)
	if err != nil {
		s.RecordError(err)
		s.SetStatus(codes.Error, err.Error())
	}
	s.End(trace.WithTimestamp(end))
}

// OnFetchStart is a no-op; the span is recorded on completion.
func (h *Hooks) OnFetchStart(context.Context, string, string) {}

func (h *Hooks) OnFetchComplete(ctx context.Context, source, panel string, blocks int, d time.Duration, err error) {
	h.span(ctx, "fetch "+source, d, err,
		attribute.String("digest.source", source),
		attribute.String("digest.panel", panel),
		attribute.Int("digest.blocks", blocks),
	)
}

func (h *Hooks) OnPanelDrawn(ctx context.Context, panel string, rotated bool, err error) {
	h.span(ctx, "draw "+panel, 0, err,
		attribute.String("digest.panel", panel),
		attribute.Bool("digest.rotated", rotated),
	)
}

// OnRenderStart is a no-op; the span is recorded on completion.
func (h *Hooks) OnRenderStart(context.Context, int) {}

func (h *Hooks) OnRenderComplete(ctx context.Context, size int, d time.Duration, err error) {
	h.span(ctx, "render", d, err, attribute.Int("digest.bytes", size))
}

// OnRequest is a no-op; the span is recorded with the response.
func (h *Hooks) OnRequest(context.Context, string, string, string) {}

func (h *Hooks) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	var err error
	if status >= 500 {
		err = statusError(status)
	}
	h.span(ctx, method+" "+host, d, err,
		attribute.String("http.request.method", method),
		attribute.String("server.address", host),
		attribute.String("url.path", path),
		attribute.Int("http.response.status_code", status),
	)
}

func (h *Hooks) OnError(ctx context.Context, method, host, path string, err error) {
	h.span(ctx, method+" "+host, 0, err,
		attribute.String("http.request.method", method),
		attribute.String("server.address", host),
		attribute.String("url.path", path),
	)
}

type statusError int

func (e statusError) Error() string { return "server returned " + strconv.Itoa(int(e)) }

func (h *Hooks) cache(ctx context.Context, outcome, namespace string, attrs ...attribute.KeyValue) {
	attrs = append(attrs, attribute.String("digest.cache.namespace", namespace))
	h.span(ctx, "cache "+outcome, 0, nil, attrs...)
}

func (h *Hooks) OnCacheHit(ctx context.Context, namespace string) {
	h.cache(ctx, "hit", namespace)
}

func (h *Hooks) OnCacheMiss(ctx context.Context, namespace string) {
	h.cache(ctx, "miss", namespace)
}

func (h *Hooks) OnCacheSet(ctx context.Context, namespace string, size int) {
	h.cache(ctx, "set", namespace, attribute.Int("digest.bytes", size))
}
