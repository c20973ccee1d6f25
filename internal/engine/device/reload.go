package device

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/zerr"
)

// reloadEntry is the snapshot taken of a reload record before resolution
// runs, so the slow filesystem and compile work happens outside the
// registry lock.
type reloadEntry struct {
	handle   domain.Handle
	fp       domain.Fingerprint
	kind     domain.ShaderKind
	linkage  domain.Handle
	original []byte
	stamp    time.Time
}

// ReloadFixes re-runs the replacement pipeline for every shader recorded
// since startup and swaps in any substitute whose source changed on disk.
// It returns the number of shaders that were swapped.
//
// Records created with a zero source timestamp always rebuild: those are
// shaders whose last build had recoverable errors, and the author editing
// the file is exactly who this path serves.
func (d *Device) ReloadFixes(ctx context.Context) (int, error) {
	ctx, span := d.tracer.Start(ctx, "reload_fixes")
	defer span.End()

	var entries []reloadEntry
	d.registry.ForEachRecord(func(h domain.Handle, rec *domain.ReplacementRecord) {
		if len(rec.OriginalByteCode) == 0 {
			return
		}
		entries = append(entries, reloadEntry{
			handle:   h,
			fp:       rec.Fingerprint,
			kind:     rec.Kind,
			linkage:  rec.Linkage,
			original: rec.OriginalByteCode,
			stamp:    rec.SourceTimestamp,
		})
	})

	reloaded := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			return reloaded, zerr.Wrap(ctx.Err(), "reload interrupted")
		}

		sub := d.resolver.Resolve(ctx, e.fp, e.kind, e.original)
		if sub == nil {
			continue
		}
		// An unchanged stamp means the active code was built from this very
		// source; skip it. Zero stamps never compare equal here, so failed
		// builds retry every pass.
		if !sub.Stamp.IsZero() && sub.Stamp.Equal(e.stamp) {
			continue
		}

		repl, err := d.driver.CreateShader(ctx, e.kind, sub.Code, e.linkage)
		if err != nil {
			d.log.Error(zerr.With(zerr.Wrap(err, domain.ErrCreateFailed.Error()), "fingerprint", e.fp.String()))
			continue
		}

		d.registry.InstallReplacement(e.handle, repl, sub.Model, sub.Stamp, sub.InfoText)
		d.log.Info(fmt.Sprintf("reloaded shader %s-%s", e.fp, e.kind))
		reloaded++
	}

	span.SetAttribute("reloaded", fmt.Sprintf("%d", reloaded))
	return reloaded, nil
}

// Replacement returns the live substitute handle installed for a shader
// handle by the last reload pass, if any.
func (d *Device) Replacement(h domain.Handle) (domain.Handle, bool) {
	return d.registry.Replacement(h)
}
