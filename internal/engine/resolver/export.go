package resolver

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/zerr"
)

// ExportOptions selects which artifacts a forced export produces,
// independent of the configured passive-export settings.
type ExportOptions struct {
	// Binaries exports the pristine original binary.
	Binaries bool
	// Listings exports the disassembly of the original.
	Listings bool
	// Level exports decompiled source with the usual trailing blocks.
	Level domain.ExportLevel
	// Fixed runs the interpolation patch during decompilation and, when it
	// fires, writes the patched source to the fixes directory instead of
	// the cache directory.
	Fixed bool
}

// Export writes the requested artifacts for one shader unconditionally,
// overwriting previous exports. Unlike the passive export settings consulted
// during Resolve, this is a user-initiated operation and reports failures
// instead of degrading silently.
func (r *Resolver) Export(ctx context.Context, fp domain.Fingerprint, kind domain.ShaderKind, original []byte, opts ExportOptions) error {
	ctx, span := r.tracer.Start(ctx, "export")
	defer span.End()
	span.SetAttribute("fingerprint", fp.String())
	span.SetAttribute("kind", string(kind))

	var errs []error
	if opts.Binaries {
		if err := r.store.ExportOriginal(fp, kind, original); err != nil {
			errs = append(errs, err)
		}
	}

	if !opts.Listings && opts.Level < domain.ExportSource && !opts.Fixed {
		return errors.Join(errs...)
	}

	listing, err := r.disasm.Disassemble(original)
	if err != nil {
		errs = append(errs, zerr.Wrap(err, domain.ErrDisassemblyFailed.Error()))
		return errors.Join(errs...)
	}

	if opts.Listings {
		if err := r.store.ExportListing(fp, kind, listing); err != nil {
			errs = append(errs, err)
		}
	}
	if opts.Level >= domain.ExportSource || opts.Fixed {
		if err := r.exportSource(ctx, fp, kind, listing, original, opts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Resolver) exportSource(ctx context.Context, fp domain.Fingerprint, kind domain.ShaderKind, listing string, original []byte, opts ExportOptions) error {
	dec := r.decomp.Decompile(listing, original, ports.DecompileOptions{
		FixInterpolation: opts.Fixed,
	})
	if dec.Source == "" {
		return zerr.With(domain.ErrDecompileFailed, "fingerprint", fp.String())
	}
	if dec.ErrorOccurred {
		// The skeleton source is still worth exporting as a starting point
		// for a hand-written fix; it just carries the warning comment.
		r.log.Warn(fmt.Sprintf("partial decompilation exported for %s-%s", fp, kind))
	}

	model := dec.Model
	if ov := r.cfg.ShaderOverrideFor(fp); ov != nil && ov.Model != "" {
		model = ov.Model
	}

	// A fired patch goes live in the fixes directory, everything else is a
	// pure reference export.
	exportPath := r.store.ExportSourcePath(fp, kind, !(opts.Fixed && dec.Patched))

	var code []byte
	var diagnostics string
	if opts.Level >= domain.ExportSourceWithRecompiled || (opts.Fixed && dec.Patched) {
		var compileErr error
		code, diagnostics, compileErr = r.comp.Compile(ctx, dec.Source, model, exportPath)
		if compileErr != nil {
			r.log.Error(zerr.With(zerr.Wrap(compileErr, domain.ErrCompileFailed.Error()), "fingerprint", fp.String()))
		}
	}

	level := opts.Level
	if level < domain.ExportSource {
		level = domain.ExportSource
	}
	content := r.composeExport(dec.Source, listing, code, diagnostics, level)
	if _, err := r.store.WriteExport(exportPath, content); err != nil {
		return err
	}
	r.log.Info(fmt.Sprintf("exported decompiled source: %s", exportPath))
	return nil
}
