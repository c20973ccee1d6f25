// Package registry tracks live shader handles for hot reload and original
// retention.
//
// The driver never tells us when a shader dies; the only release signal is a
// handle showing up again on a fresh creation. Every creation therefore
// evicts whatever the handle previously keyed, across all tables at once, so
// the tables can never disagree about what a handle means.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/zerr"
)

// Registry is the handle-keyed bookkeeping for live shaders. All methods are
// safe for concurrent use.
type Registry struct {
	mu sync.Mutex
	// fingerprints maps every seen shader handle to its identity.
	fingerprints map[domain.Handle]domain.Fingerprint
	// records holds the reload bookkeeping for substituted (or deferred
	// candidate) shaders.
	records map[domain.Handle]*domain.ReplacementRecord
	// originals holds a retained second instance of the pristine shader,
	// keyed by the handle the host actually uses.
	originals map[domain.Handle]domain.Handle

	driver ports.Driver
	log    ports.Logger
	cfg    *domain.Settings
}

// New creates an empty registry.
func New(driver ports.Driver, log ports.Logger, cfg *domain.Settings) *Registry {
	return &Registry{
		fingerprints: make(map[domain.Handle]domain.Fingerprint),
		records:      make(map[domain.Handle]*domain.ReplacementRecord),
		originals:    make(map[domain.Handle]domain.Handle),
		driver:       driver,
		log:          log,
		cfg:          cfg,
	}
}

// CleanupStaleHandle evicts everything a reused handle previously keyed,
// releasing every owned driver reference. Must run before the handle is
// re-registered for its new object.
func (r *Registry) CleanupStaleHandle(h domain.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.fingerprints, h)

	if rec, ok := r.records[h]; ok {
		if rec.Linkage != domain.NilHandle {
			r.driver.Release(rec.Linkage)
		}
		if rec.Replacement != domain.NilHandle {
			r.driver.Release(rec.Replacement)
		}
		delete(r.records, h)
	}

	if orig, ok := r.originals[h]; ok {
		r.driver.Release(orig)
		delete(r.originals, h)
	}
}

// Register records the identity of a freshly created shader handle.
func (r *Registry) Register(h domain.Handle, fp domain.Fingerprint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fingerprints[h] = fp
}

// Fingerprint returns the identity a live handle was registered with.
func (r *Registry) Fingerprint(h domain.Handle) (domain.Fingerprint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fp, ok := r.fingerprints[h]
	return fp, ok
}

// RegisterForReload stores the reload record for a handle. The registry
// takes ownership of the record's Linkage and Replacement references.
func (r *Registry) RegisterForReload(h domain.Handle, rec *domain.ReplacementRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[h] = rec
}

// Record returns the reload record for a handle.
func (r *Registry) Record(h domain.Handle) (*domain.ReplacementRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[h]
	return rec, ok
}

// Replacement returns the installed substitute handle for a shader handle,
// NilHandle when none is installed.
func (r *Registry) Replacement(h domain.Handle) (domain.Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[h]
	if !ok || rec.Replacement == domain.NilHandle {
		return domain.NilHandle, false
	}
	return rec.Replacement, true
}

// ForEachRecord calls fn for every reload record under the registry lock.
// fn may mutate the record but must not call back into the registry.
func (r *Registry) ForEachRecord(fn func(h domain.Handle, rec *domain.ReplacementRecord)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, rec := range r.records {
		fn(h, rec)
	}
}

// InstallReplacement swaps the live substitute recorded for a handle,
// releasing the previously installed one. No-op if the handle has been
// evicted in the meantime; the caller's new reference is released instead
// so it cannot leak.
func (r *Registry) InstallReplacement(h domain.Handle, repl domain.Handle, model string, stamp time.Time, info string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[h]
	if !ok {
		r.driver.Release(repl)
		return
	}
	if rec.Replacement != domain.NilHandle {
		r.driver.Release(rec.Replacement)
	}
	rec.Replacement = repl
	rec.Model = model
	rec.SourceTimestamp = stamp
	rec.InfoText = info
	rec.DeferredCandidate = false
}

// NeedsOriginal reports whether the retention policy wants a pristine
// instance of this shader kept alive alongside any substitute.
func (r *Registry) NeedsOriginal(fp domain.Fingerprint) bool {
	if r.cfg.Hunting &&
		(r.cfg.MarkingMode == domain.MarkOriginal || r.cfg.ConfigReloadable || r.cfg.ShowOriginal) {
		return true
	}
	ov := r.cfg.ShaderOverrideFor(fp)
	if ov == nil {
		return false
	}
	return ov.Depth != domain.DepthNone || ov.Partner != 0
}

// KeepOriginal creates and retains a second driver instance of the pristine
// bytecode, keyed by the handle the host uses. Idempotent per handle; the
// retained instance is released when the handle is evicted.
func (r *Registry) KeepOriginal(ctx context.Context, h domain.Handle, kind domain.ShaderKind, bytecode []byte, linkage domain.Handle) {
	r.mu.Lock()
	if _, ok := r.originals[h]; ok {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	// Creation happens outside the lock; the driver call can be slow.
	orig, err := r.driver.CreateShader(ctx, kind, bytecode, linkage)
	if err != nil {
		r.log.Error(zerr.Wrap(err, "failed to retain original shader"))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.originals[h]; ok {
		// Lost the race, drop ours.
		r.driver.Release(orig)
		return
	}
	r.originals[h] = orig
	r.log.Debug(fmt.Sprintf("retained original shader for handle %#x", uint64(h)))
}

// Original returns the retained pristine instance for a handle.
func (r *Registry) Original(h domain.Handle) (domain.Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orig, ok := r.originals[h]
	return orig, ok
}

// Stats reports the table sizes, surfaced by the diagnostic overlay.
func (r *Registry) Stats() (shaders, reloadable, retained int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fingerprints), len(r.records), len(r.originals)
}
