package observability

import "sync/atomic"

// Hooks bundles one implementation per event family. Nil members leave the
// installed implementation in place.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

func noop() *Hooks {
	return &Hooks{
		Pipeline: NoopPipelineHooks{},
		Cache:    NoopCacheHooks{},
		HTTP:     NoopHTTPHooks{},
	}
}

// current is replaced wholesale, never mutated, so readers need no lock.
var current atomic.Pointer[Hooks]

func init() { current.Store(noop()) }

func load() *Hooks { return current.Load() }

// Install merges h over the current hooks and returns a func that puts the
// previous set back.
func Install(h Hooks) (restore func()) {
	for {
		prev := current.Load()
		next := *prev
		if h.Pipeline != nil {
			next.Pipeline = h.Pipeline
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if current.CompareAndSwap(prev, &next) {
			return func() { current.Store(prev) }
		}
	}
}

// SetPipelineHooks installs h. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) { Install(Hooks{Pipeline: h}) }

// SetCacheHooks installs h. Nil is ignored.
func SetCacheHooks(h CacheHooks) { Install(Hooks{Cache: h}) }

// SetHTTPHooks installs h. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) { Install(Hooks{HTTP: h}) }

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return load().Pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return load().Cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return load().HTTP }

// Reset restores the no-op hooks.
func Reset() { current.Store(noop()) }
