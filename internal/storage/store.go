package storage

import (
	"context"
	"log/slog"
)

// PrimaryStore is the large-capacity key-value backend.
// Writes may be comparatively slow; payload size is unbounded.
type PrimaryStore interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Clear(ctx context.Context) error
}

// FallbackStore is the small synchronous backend used as a write-mirror
// and recovery source. Implementations may refuse oversized payloads.
type FallbackStore interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Clear(ctx context.Context) error
}

// EmptyFunc reports whether a stored payload is conceptually empty,
// e.g. an empty JSON array. A nil EmptyFunc treats every payload as
// meaningful.
type EmptyFunc func([]byte) bool

// persistentRequester is implemented by backends that can ask the host
// not to evict their data under storage pressure.
type persistentRequester interface {
	RequestPersistent() bool
}

// Adapter combines the two backends behind a single save/load contract:
// writes go to the primary and are unconditionally mirrored to the
// fallback; reads prefer the primary and promote fallback hits back into
// it. All failures are logged and swallowed — callers only ever observe
// presence or absence of data.
type Adapter struct {
	primary  PrimaryStore
	fallback FallbackStore
	log      *slog.Logger
}

// NewAdapter creates a store adapter over the given backends
func NewAdapter(primary PrimaryStore, fallback FallbackStore, log *slog.Logger) *Adapter {
	return &Adapter{
		primary:  primary,
		fallback: fallback,
		log:      log,
	}
}

// Save writes the value to the primary backend and mirrors it to the
// fallback. A primary failure leaves the mirror as the only persisted
// copy; no error reaches the caller.
func (a *Adapter) Save(ctx context.Context, key string, value []byte) {
	if err := a.primary.Save(ctx, key, value); err != nil {
		a.log.Warn("primary store write failed, relying on fallback mirror",
			"key", key, "error", err)
	}

	if err := a.fallback.Save(ctx, key, value); err != nil {
		a.log.Warn("fallback mirror write failed", "key", key, "error", err)
	}
}

// Load reads the value for key. The fallback is consulted when the
// primary has no value or the payload is conceptually empty per emptyFn;
// a fallback hit is promoted back into the primary before returning.
// Absence is reported as (nil, false), never as an error.
func (a *Adapter) Load(ctx context.Context, key string, emptyFn EmptyFunc) ([]byte, bool) {
	value, ok, err := a.primary.Load(ctx, key)
	if err != nil {
		a.log.Warn("primary store read failed, trying fallback", "key", key, "error", err)
		ok = false
	}

	if ok && (emptyFn == nil || !emptyFn(value)) {
		return value, true
	}

	recovered, found, err := a.fallback.Load(ctx, key)
	if err != nil {
		a.log.Warn("fallback store read failed", "key", key, "error", err)
		found = false
	}

	if found && (emptyFn == nil || !emptyFn(recovered)) {
		// Migrate the recovered value back into the primary so the next
		// read does not need the fallback
		if err := a.primary.Save(ctx, key, recovered); err != nil {
			a.log.Warn("failed to promote fallback value to primary", "key", key, "error", err)
		}
		a.log.Info("recovered value from fallback store", "key", key, "bytes", len(recovered))
		return recovered, true
	}

	if ok {
		return value, true
	}

	return nil, false
}

// Clear removes all values from both backends
func (a *Adapter) Clear(ctx context.Context) {
	if err := a.primary.Clear(ctx); err != nil {
		a.log.Warn("failed to clear primary store", "error", err)
	}
	if err := a.fallback.Clear(ctx); err != nil {
		a.log.Warn("failed to clear fallback store", "error", err)
	}
}

// RequestPersistent asks the primary backend to pin its data against
// eviction. The result is advisory only; false never blocks operation.
func (a *Adapter) RequestPersistent() bool {
	if pr, ok := a.primary.(persistentRequester); ok {
		return pr.RequestPersistent()
	}
	return false
}
