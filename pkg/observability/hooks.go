// Package observability lets a backend watch a digest run without the
// pipeline importing it.
//
// Three hook sets exist: [PipelineHooks] for fetch, draw and render,
// [CacheHooks] for the integration response cache, and [HTTPHooks] for
// outgoing service calls. Each defaults to a no-op. A backend such as
// pkg/telemetry installs its implementation once at startup:
//
//	restore := observability.Install(observability.Hooks{
//	    Pipeline: tracer,
//	    HTTP:     tracer,
//	})
//	defer restore()
//
// Emitters read the current set on every event:
//
//	observability.Pipeline().OnFetchComplete(ctx, "news", "2-0", len(blocks), time.Since(start), err)
package observability

import (
	"context"
	"time"
)

// PipelineHooks receives events from a digest run. Panels are named by
// their "column-row" id.
type PipelineHooks interface {
	OnFetchStart(ctx context.Context, source, panel string)
	OnFetchComplete(ctx context.Context, source, panel string, blocks int, duration time.Duration, err error)

	OnPanelDrawn(ctx context.Context, panel string, rotated bool, err error)

	OnRenderStart(ctx context.Context, panels int)
	OnRenderComplete(ctx context.Context, size int, duration time.Duration, err error)
}

// CacheHooks receives response cache events. namespace is the client
// prefix, e.g. "lastfm:".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, namespace string)
	OnCacheMiss(ctx context.Context, namespace string)
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// HTTPHooks receives events for calls made by the service clients. OnError
// covers transport failures only; error statuses arrive via OnResponse.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, status int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFetchStart(context.Context, string, string) {}

func (NoopPipelineHooks) OnFetchComplete(context.Context, string, string, int, time.Duration, error) {
}

func (NoopPipelineHooks) OnPanelDrawn(context.Context, string, bool, error) {}

func (NoopPipelineHooks) OnRenderStart(context.Context, int) {}

func (NoopPipelineHooks) OnRenderComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string) {}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}

func (NoopHTTPHooks) OnError(context.Context, string, string, string, error) {}
