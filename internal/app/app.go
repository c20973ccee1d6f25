// Package app implements the application layer for standin.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"go.trai.ch/standin/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/standin/internal/engine/cache"
	"go.trai.ch/standin/internal/engine/resolver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	store    *cache.Store
	resolver *resolver.Resolver
	watcher  ports.Watcher
	logger   ports.Logger
}

// New creates a new App instance.
func New(
	store *cache.Store,
	res *resolver.Resolver,
	w ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		store:    store,
		resolver: res,
		watcher:  w,
		logger:   log,
	}
}

// target is one shader binary to run through the pipeline.
type target struct {
	key  domain.ShaderKey
	code []byte
}

// lookupTarget resolves a command-line target to a shader binary. A target
// is either a path to a binary file following the artifact naming
// convention, or a fingerprint key of a previously exported original.
func (a *App) lookupTarget(name string) (target, error) {
	if code, err := os.ReadFile(name); err == nil { //nolint:gosec // User-supplied CLI argument
		fp, kind, ok := domain.ParseArtifactName(filepath.Base(name))
		if !ok {
			return target{}, zerr.With(domain.ErrUnknownTarget, "path", name)
		}
		return target{key: domain.ShaderKey{Fingerprint: fp, Kind: kind}, code: code}, nil
	}

	fp, kind, ok := domain.ParseArtifactName(name)
	if !ok {
		// Accept the bare key without an extension.
		fp, kind, ok = domain.ParseArtifactName(name + ".bin")
	}
	if !ok {
		return target{}, zerr.With(domain.ErrUnknownTarget, "target", name)
	}

	code, found := a.store.Original(fp, kind)
	if !found {
		return target{}, zerr.With(zerr.With(domain.ErrUnknownTarget, "target", name), "reason", "no exported original")
	}
	return target{key: domain.ShaderKey{Fingerprint: fp, Kind: kind}, code: code}, nil
}

// collectTargets resolves the named targets, or enumerates every exported
// original when none are named.
func (a *App) collectTargets(names []string) ([]target, error) {
	if len(names) == 0 {
		keys, err := a.store.Originals()
		if err != nil {
			return nil, err
		}
		targets := make([]target, 0, len(keys))
		for _, key := range keys {
			code, ok := a.store.Original(key.Fingerprint, key.Kind)
			if !ok {
				continue
			}
			targets = append(targets, target{key: key, code: code})
		}
		return targets, nil
	}

	targets := make([]target, 0, len(names))
	for _, name := range names {
		t, err := a.lookupTarget(name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	// Jobs bounds pipeline concurrency; zero means one worker per CPU.
	Jobs int
}

// Resolve runs the substitution pipeline over the named targets, or over
// every exported original when no targets are given. Finding no substitute
// for a shader is the normal case, not an error.
func (a *App) Resolve(ctx context.Context, names []string, opts ResolveOptions) error {
	targets, err := a.collectTargets(names)
	if err != nil {
		return zerr.Wrap(err, "failed to collect targets")
	}
	if len(targets) == 0 {
		a.logger.Info("no exported originals to resolve")
		return nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var substituted atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, t := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if res := a.resolver.Resolve(ctx, t.key.Fingerprint, t.key.Kind, t.code); res != nil {
				substituted.Add(1)
				a.logger.Info(fmt.Sprintf("%s: substitute built (model %s)", t.key, res.Model))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("resolved %d shaders, %d substituted", len(targets), substituted.Load()))
	return nil
}

// Export writes the requested artifacts for the named targets, or for every
// exported original when no targets are given.
func (a *App) Export(ctx context.Context, names []string, opts resolver.ExportOptions) error {
	targets, err := a.collectTargets(names)
	if err != nil {
		return zerr.Wrap(err, "failed to collect targets")
	}
	if len(targets) == 0 {
		a.logger.Info("nothing to export")
		return nil
	}

	var errs error
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.resolver.Export(ctx, t.key.Fingerprint, t.key.Kind, t.code, opts); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "export failed"), "target", t.key.String()))
		}
	}
	return errs
}

// Watch watches the fixes directory and re-runs the pipeline for each
// changed artifact, coalescing editor save bursts into one pass. It blocks
// until the context is canceled.
func (a *App) Watch(ctx context.Context) error {
	fixesDir := a.store.FixesDir()
	if err := os.MkdirAll(fixesDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create fixes directory")
	}

	deb := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		a.reload(ctx, paths)
	})

	if err := a.watcher.Start(ctx, fixesDir); err != nil {
		return zerr.Wrap(err, "failed to start fixes watcher")
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	a.logger.Info(fmt.Sprintf("watching %s for fix changes", fixesDir))
	for event := range a.watcher.Events() {
		deb.Add(event.Path)
	}

	// Finish the last pending reload before tearing down.
	deb.Flush()
	return nil
}

// reload re-resolves every shader touched by a debounced batch of artifact
// events. Multiple files for the same fingerprint collapse into one pass.
func (a *App) reload(ctx context.Context, paths []string) {
	seen := make(map[domain.ShaderKey]struct{})
	for _, path := range paths {
		fp, kind, ok := domain.ParseArtifactName(filepath.Base(path))
		if !ok {
			continue
		}
		key := domain.ShaderKey{Fingerprint: fp, Kind: kind}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		original, found := a.store.Original(fp, kind)
		if !found {
			a.logger.Warn(fmt.Sprintf("%s changed but no original is exported; skipping reload", key))
			continue
		}

		a.logger.Info(fmt.Sprintf("reloading %s", key))
		if res := a.resolver.Resolve(ctx, fp, kind, original); res != nil {
			a.logger.Info(fmt.Sprintf("%s: substitute rebuilt (model %s)", key, res.Model))
		}
	}
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// Exports removes every artifact from the cache directory.
	Exports bool
	// Stale removes fixes-directory binaries whose timestamp no longer
	// matches their paired source.
	Stale bool
}

// Clean removes cache and build artifacts based on the provided options.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	var errs error

	if opts.Exports {
		n, err := a.store.ClearExports()
		if err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, "failed to clear exports"))
		}
		a.logger.Info(fmt.Sprintf("removed %d exported artifacts", n))
	}

	if opts.Stale {
		n, err := a.store.RemoveStaleBinaries()
		if err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, "failed to remove stale binaries"))
		}
		a.logger.Info(fmt.Sprintf("removed %d stale binaries", n))
	}

	return errs
}
