// Package resolver walks the ordered candidate sources for a substitute
// shader binary.
//
// Precedence is fixed and short-circuits on first success: cached binary,
// recompiled high-level source, reassembled listing, then the
// decompile-and-patch fallback. Every failure inside the pipeline degrades
// to "no substitute"; nothing here ever aborts the creation call that
// triggered it.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/standin/internal/engine/cache"
	"go.trai.ch/zerr"
)

// Result is a resolved substitute.
type Result struct {
	// Code is the substitute binary to install.
	Code []byte
	// Model is the declared shader model the code was built for, or "bin"
	// when loaded from a cached binary without a disassembly pass.
	Model string
	// Stamp is the timestamp of the text source the code was built from.
	// Zero when the build had recoverable errors, so the next reload pass
	// always retries and the author keeps seeing their mistakes.
	Stamp time.Time
	// InfoText is the first line of the source file.
	InfoText string
}

// Resolver resolves substitutes through the fixed-precedence pipeline.
type Resolver struct {
	store  *cache.Store
	disasm ports.Disassembler
	asm    ports.Assembler
	comp   ports.Compiler
	decomp ports.Decompiler
	log    ports.Logger
	tracer ports.Tracer
	cfg    *domain.Settings
}

// New creates a resolver over the given collaborators.
func New(
	store *cache.Store,
	disasm ports.Disassembler,
	asm ports.Assembler,
	comp ports.Compiler,
	decomp ports.Decompiler,
	log ports.Logger,
	tracer ports.Tracer,
	cfg *domain.Settings,
) *Resolver {
	return &Resolver{
		store:  store,
		disasm: disasm,
		asm:    asm,
		comp:   comp,
		decomp: decomp,
		log:    log,
		tracer: tracer,
		cfg:    cfg,
	}
}

// Resolve attempts to find a substitute for the original binary. It returns
// nil when no substitute applies, which is the normal case, not an error.
func (r *Resolver) Resolve(ctx context.Context, fp domain.Fingerprint, kind domain.ShaderKind, original []byte) *Result {
	ctx, span := r.tracer.Start(ctx, "resolve")
	defer span.End()
	span.SetAttribute("fingerprint", fp.String())
	span.SetAttribute("kind", string(kind))

	if r.store.FixesDir() == "" || r.store.CacheDir() == "" {
		return nil
	}

	if r.store.MarkedBad(fp, kind) {
		r.log.Info(fmt.Sprintf("skipping shader marked bad: %s-%s", fp, kind))
		return nil
	}
	if ov := r.cfg.ShaderOverrideFor(fp); ov != nil && ov.Disable {
		r.log.Info(fmt.Sprintf("skipping disabled shader: %s-%s", fp, kind))
		return nil
	}

	if r.cfg.ExportBinaries {
		if err := r.store.ExportOriginal(fp, kind, original); err != nil {
			r.log.Error(err)
		}
	}
	if r.cfg.ExportListings {
		r.exportListing(fp, kind, original)
	}

	if res := r.loadBinary(fp, kind); res != nil {
		return res
	}
	if res := r.compileSource(ctx, fp, kind, original); res != nil {
		return res
	}
	if res := r.assembleListing(fp, kind, original); res != nil {
		return res
	}
	return r.decompileAndPatch(ctx, fp, kind, original)
}

// loadBinary is stage 1: precompiled binaries from the fixes directory.
func (r *Resolver) loadBinary(fp domain.Fingerprint, kind domain.ShaderKind) *Result {
	code, stamp, ok := r.store.LoadBinary(fp, kind)
	if !ok {
		return nil
	}
	// Tag as a reload candidate that still needs a disassembly pass to
	// recover its model.
	return &Result{Code: code, Model: "bin", Stamp: stamp}
}

// targetModel recovers the shader model the compiler must target: the
// original binary's declared model, unless a per-fingerprint config entry
// overrides it.
func (r *Resolver) targetModel(fp domain.Fingerprint, original []byte) (string, error) {
	model, err := r.disasm.DetectModel(original)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrDisassemblyFailed.Error())
	}
	if ov := r.cfg.ShaderOverrideFor(fp); ov != nil && ov.Model != "" {
		return ov.Model, nil
	}
	return model, nil
}

// compileSource is stage 2: recompile a high-level text source.
func (r *Resolver) compileSource(ctx context.Context, fp domain.Fingerprint, kind domain.ShaderKind, original []byte) *Result {
	source, stamp, ok := r.store.ReplaceSource(fp, kind)
	if !ok {
		return nil
	}
	r.log.Info(fmt.Sprintf("replacement source found: %s-%s", fp, kind))

	model, err := r.targetModel(fp, original)
	if err != nil {
		r.log.Error(err)
		return nil
	}

	srcPath := r.store.ExportSourcePath(fp, kind, false)
	code, diagnostics, err := r.comp.Compile(ctx, source, model, srcPath)
	if diagnostics != "" {
		r.log.Warn(fmt.Sprintf("compiler diagnostics for %s-%s:\n%s", fp, kind, diagnostics))
	}
	if err != nil {
		r.log.Error(zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "fingerprint", fp.String()))
		return nil
	}

	if r.cfg.CacheShaders {
		if err := r.store.StoreBinary(fp, kind, true, code, stamp); err != nil {
			// Best effort, the in-memory substitute is still used.
			r.log.Error(err)
		}
	}

	return &Result{Code: code, Model: model, Stamp: stamp, InfoText: firstLine(source)}
}

// assembleListing is stage 3: reassemble a low-level listing source.
// Parse errors are non-fatal at creation time: the partial result is still
// offered, but caching is suppressed and the stamp is left empty so a
// manual reload always retries.
func (r *Resolver) assembleListing(fp domain.Fingerprint, kind domain.ShaderKind, original []byte) *Result {
	text, stamp, ok := r.store.Source(fp, kind)
	if !ok {
		return nil
	}
	r.log.Info(fmt.Sprintf("replacement listing found: %s-%s", fp, kind))

	model, err := r.targetModel(fp, original)
	if err != nil {
		r.log.Error(err)
		return nil
	}

	code, parseErrors, err := r.asm.Assemble(text, original)
	if err != nil {
		r.log.Error(zerr.With(zerr.Wrap(err, domain.ErrAssemblyFailed.Error()), "fingerprint", fp.String()))
		return nil
	}

	if len(parseErrors) > 0 {
		for _, pe := range parseErrors {
			r.log.Warn(fmt.Sprintf("%s-%s line %d: %s", fp, kind, pe.Line, pe.Message))
		}
		stamp = time.Time{}
	} else if r.cfg.CacheShaders {
		if err := r.store.StoreBinary(fp, kind, false, code, stamp); err != nil {
			r.log.Error(err)
		}
	}

	if len(code) == 0 {
		return nil
	}
	return &Result{Code: code, Model: model, Stamp: stamp, InfoText: firstLine(text)}
}

// decompileAndPatch is stage 4: disassemble, decompile, optionally
// auto-patch and recompile. Export artifacts are written regardless of the
// outcome; a substitute is returned only when an automatic patch actually
// changed the code, since a pure export must not alter what the host
// renders.
func (r *Resolver) decompileAndPatch(ctx context.Context, fp domain.Fingerprint, kind domain.ShaderKind, original []byte) *Result {
	if !r.cfg.DecompileEnabled() {
		return nil
	}

	// Pure exports go to the cache directory; auto-fixed shaders go to the
	// fixes directory where they are live. Skip if we already did this
	// slow pass.
	exportPath := r.store.ExportSourcePath(fp, kind, r.cfg.ExportLevel >= domain.ExportSource)
	if r.store.Exists(exportPath) {
		return nil
	}

	listing, err := r.disasm.Disassemble(original)
	if err != nil {
		r.log.Error(zerr.Wrap(err, domain.ErrDisassemblyFailed.Error()))
		return nil
	}

	dec := r.decomp.Decompile(listing, original, ports.DecompileOptions{
		FixInterpolation: r.cfg.FixInterpolation,
	})
	if dec.Source == "" || dec.ErrorOccurred {
		r.log.Warn(fmt.Sprintf("error decompiling %s-%s", fp, kind))
		return nil
	}

	model := dec.Model
	if ov := r.cfg.ShaderOverrideFor(fp); ov != nil && ov.Model != "" {
		model = ov.Model
	}

	r.log.Info(fmt.Sprintf("recompiling decompiled source with model %s", model))
	code, diagnostics, compileErr := r.comp.Compile(ctx, dec.Source, model, exportPath)
	if diagnostics != "" {
		r.log.Warn(fmt.Sprintf("compiler diagnostics for %s-%s:\n%s", fp, kind, diagnostics))
	}

	var stamp time.Time
	if r.cfg.ExportLevel >= domain.ExportSource || (r.cfg.ExportFixed && dec.Patched) {
		content := r.composeExport(dec.Source, listing, code, diagnostics, r.cfg.ExportLevel)
		stamp, err = r.store.WriteExport(exportPath, content)
		if err != nil {
			r.log.Error(err)
		}
	}

	if compileErr != nil {
		r.log.Error(zerr.With(zerr.Wrap(compileErr, domain.ErrCompileFailed.Error()), "fingerprint", fp.String()))
		return nil
	}
	if !dec.Patched {
		return nil
	}
	return &Result{Code: code, Model: model, Stamp: stamp, InfoText: firstLine(dec.Source)}
}

// composeExport builds the export file: decompiled source, then optional
// trailing comment blocks with the original listing, compiler diagnostics,
// and the recompiled listing. The listing block makes the original the
// master reference for fixing shaders.
func (r *Resolver) composeExport(source, listing string, compiled []byte, diagnostics string, level domain.ExportLevel) []byte {
	var b strings.Builder
	b.WriteString(source)

	if level >= domain.ExportSourceWithListing {
		b.WriteString("\n\n/*~~~~~~~~~~~~~~~~~~~~~~~~~~~ Original listing ~~~~~~~~~~~~~~~~~~~~~~~~~~~~\n")
		b.WriteString(listing)
		b.WriteString("\n//~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~*/\n")
	}

	if diagnostics != "" {
		b.WriteString("\n\n/*~~~~~~~~~~~~~~~~~~~~~~~~~~~ Compiler output ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~\n")
		b.WriteString(diagnostics)
		b.WriteString("\n~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~*/\n")
	}

	if level >= domain.ExportSourceWithRecompiled && len(compiled) > 0 {
		if relisting, err := r.disasm.Disassemble(compiled); err == nil {
			b.WriteString("\n\n/*~~~~~~~~~~~~~~~~~~~~~~~~~~ Recompiled listing ~~~~~~~~~~~~~~~~~~~~~~~~~~~\n")
			b.WriteString(relisting)
			b.WriteString("\n//~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~*/\n")
		}
	}

	return []byte(b.String())
}

func (r *Resolver) exportListing(fp domain.Fingerprint, kind domain.ShaderKind, original []byte) {
	listing, err := r.disasm.Disassemble(original)
	if err != nil {
		r.log.Error(zerr.Wrap(err, domain.ErrDisassemblyFailed.Error()))
		return
	}
	if err := r.store.ExportListing(fp, kind, listing); err != nil {
		r.log.Error(err)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimRight(s[:i], "\r")
	}
	return s
}
