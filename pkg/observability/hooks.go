// Package observability lets a program watch layout runs without the
// library depending on any metrics backend.
//
// Three groups of events are reported: layout events (reading segments,
// allocating padding, drawing images), cache events and HTTP server
// events. Every group starts out as a no-op. A main package that wants
// metrics registers its own implementation once at startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&promLayoutHooks{})
//	    observability.SetServerHooks(&promServerHooks{})
//	    cli.Execute()
//	}
//
// Library code fetches the current hooks at the point of use:
//
//	observability.Layout().OnAllocateStart(ctx, "tile", len(segments))
//	plan, err := tile.Allocate(ctx, frame, segments, opts)
//	observability.Layout().OnAllocateComplete(ctx, "tile", plan.ImageLength, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// LayoutHooks receives events from reading, allocation and rendering.
type LayoutHooks interface {
	OnReadStart(ctx context.Context, path string)
	OnReadComplete(ctx context.Context, path string, segments int, duration time.Duration, err error)

	// mode is "tile", "curve" or "parallel".
	OnAllocateStart(ctx context.Context, mode string, segments int)
	OnAllocateComplete(ctx context.Context, mode string, imageLength int64, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, width, height int)
	OnRenderComplete(ctx context.Context, width, height int, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType is "plan" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopLayoutHooks ignores every layout event.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnReadStart(context.Context, string)                               {}
func (NoopLayoutHooks) OnReadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopLayoutHooks) OnAllocateStart(context.Context, string, int)                      {}
func (NoopLayoutHooks) OnAllocateComplete(context.Context, string, int64, time.Duration, error) {
}
func (NoopLayoutHooks) OnRenderStart(context.Context, int, int)                          {}
func (NoopLayoutHooks) OnRenderComplete(context.Context, int, int, time.Duration, error) {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks ignores every server event.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	hooksMu     sync.RWMutex
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	serverHooks ServerHooks = NoopServerHooks{}
)

// SetLayoutHooks installs h. A nil h is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks installs h. A nil h is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Layout returns the installed layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the installed server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset puts the no-op hooks back. Tests use it to isolate themselves.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
