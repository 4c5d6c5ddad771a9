// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about submissions, cache operations,
// and API calls.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSubmissionHooks(&mySubmissionHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Submission().OnParseStart(ctx, scenePath)
//	// ... parse the dump ...
//	observability.Submission().OnParseComplete(ctx, scenePath, primCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Submission Hooks
// =============================================================================

// SubmissionHooks receives events from the submission pipeline.
type SubmissionHooks interface {
	// Dump events
	OnDumpStart(ctx context.Context, scenePath string)
	OnDumpComplete(ctx context.Context, scenePath string, bytes int, duration time.Duration, err error)

	// Parse events
	OnParseStart(ctx context.Context, scenePath string)
	OnParseComplete(ctx context.Context, scenePath string, primCount int, duration time.Duration, err error)

	// Plan events
	OnPlanComplete(ctx context.Context, scenePath string, passCount, outputCount int)

	// Farm submission events
	OnSubmitStart(ctx context.Context, jobName string)
	OnSubmitComplete(ctx context.Context, jobName string, success bool, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// API Hooks
// =============================================================================

// APIHooks receives events from the HTTP API surface.
type APIHooks interface {
	// OnRequest records an incoming API request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a handled API request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSubmissionHooks is a no-op implementation of SubmissionHooks.
type NoopSubmissionHooks struct{}

func (NoopSubmissionHooks) OnDumpStart(context.Context, string)                             {}
func (NoopSubmissionHooks) OnDumpComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopSubmissionHooks) OnParseStart(context.Context, string) {}
func (NoopSubmissionHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopSubmissionHooks) OnPlanComplete(context.Context, string, int, int)            {}
func (NoopSubmissionHooks) OnSubmitStart(context.Context, string)                       {}
func (NoopSubmissionHooks) OnSubmitComplete(context.Context, string, bool, time.Duration) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopAPIHooks is a no-op implementation of APIHooks.
type NoopAPIHooks struct{}

func (NoopAPIHooks) OnRequest(context.Context, string, string)                        {}
func (NoopAPIHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	submissionHooks SubmissionHooks = NoopSubmissionHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	apiHooks        APIHooks        = NoopAPIHooks{}
	hooksMu         sync.RWMutex
)

// SetSubmissionHooks registers custom submission hooks.
// This should be called once at application startup.
func SetSubmissionHooks(h SubmissionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		submissionHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetAPIHooks registers custom API hooks.
// This should be called once at application startup.
func SetAPIHooks(h APIHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		apiHooks = h
	}
}

// Submission returns the registered submission hooks.
func Submission() SubmissionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return submissionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// API returns the registered API hooks.
func API() APIHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return apiHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	submissionHooks = NoopSubmissionHooks{}
	cacheHooks = NoopCacheHooks{}
	apiHooks = NoopAPIHooks{}
}
