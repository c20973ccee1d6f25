// Package device is the interception facade: every shader and resource
// creation call flows through here on its way to the real driver.
//
// The facade fingerprints what the host hands it, consults the resolver and
// the override matcher, forwards a possibly substituted call to the driver,
// and keeps the bookkeeping that makes hot reload and hunting possible. A
// failed substitution never fails the host's call; the original parameters
// are always the fallback.
package device

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/standin/internal/engine/fingerprint"
	"go.trai.ch/standin/internal/engine/override"
	"go.trai.ch/standin/internal/engine/registry"
	"go.trai.ch/standin/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// Device wraps the real driver with substitution and override behavior.
type Device struct {
	fp       *fingerprint.Engine
	resolver *resolver.Resolver
	registry *registry.Registry
	matcher  *override.Matcher
	driver   ports.Driver
	modeCtl  ports.ModeController
	log      ports.Logger
	tracer   ports.Tracer
	cfg      *domain.Settings

	// modeMu serializes every resource creation call because the vendor's
	// surface-creation mode is process-global and not reentrant. Locked
	// unconditionally, whether or not a mode override is pending.
	modeMu sync.Mutex

	// resourceMu guards the resource bookkeeping tables below.
	resourceMu sync.Mutex
	resources  map[domain.Handle]*domain.ResourceRecord
	// resourceInfo is the per-fingerprint stat table kept while hunting.
	resourceInfo map[domain.ResourceFingerprint]*domain.ResourceInfo
}

// New wires up the facade.
func New(
	fp *fingerprint.Engine,
	res *resolver.Resolver,
	reg *registry.Registry,
	matcher *override.Matcher,
	driver ports.Driver,
	modeCtl ports.ModeController,
	log ports.Logger,
	tracer ports.Tracer,
	cfg *domain.Settings,
) *Device {
	return &Device{
		fp:           fp,
		resolver:     res,
		registry:     reg,
		matcher:      matcher,
		driver:       driver,
		modeCtl:      modeCtl,
		log:          log,
		tracer:       tracer,
		cfg:          cfg,
		resources:    make(map[domain.Handle]*domain.ResourceRecord),
		resourceInfo: make(map[domain.ResourceFingerprint]*domain.ResourceInfo),
	}
}

// CreateVertexShader intercepts a vertex shader creation call.
func (d *Device) CreateVertexShader(ctx context.Context, bytecode []byte, linkage domain.Handle) (domain.Handle, error) {
	return d.createShader(ctx, domain.VertexShader, bytecode, linkage)
}

// CreatePixelShader intercepts a pixel shader creation call.
func (d *Device) CreatePixelShader(ctx context.Context, bytecode []byte, linkage domain.Handle) (domain.Handle, error) {
	return d.createShader(ctx, domain.PixelShader, bytecode, linkage)
}

// CreateGeometryShader intercepts a geometry shader creation call.
func (d *Device) CreateGeometryShader(ctx context.Context, bytecode []byte, linkage domain.Handle) (domain.Handle, error) {
	return d.createShader(ctx, domain.GeometryShader, bytecode, linkage)
}

// CreateHullShader intercepts a hull shader creation call.
func (d *Device) CreateHullShader(ctx context.Context, bytecode []byte, linkage domain.Handle) (domain.Handle, error) {
	return d.createShader(ctx, domain.HullShader, bytecode, linkage)
}

// CreateDomainShader intercepts a domain shader creation call.
func (d *Device) CreateDomainShader(ctx context.Context, bytecode []byte, linkage domain.Handle) (domain.Handle, error) {
	return d.createShader(ctx, domain.DomainShader, bytecode, linkage)
}

// CreateComputeShader intercepts a compute shader creation call.
func (d *Device) CreateComputeShader(ctx context.Context, bytecode []byte, linkage domain.Handle) (domain.Handle, error) {
	return d.createShader(ctx, domain.ComputeShader, bytecode, linkage)
}

func (d *Device) createShader(ctx context.Context, kind domain.ShaderKind, bytecode []byte, linkage domain.Handle) (domain.Handle, error) {
	ctx, span := d.tracer.Start(ctx, "create_shader")
	defer span.End()
	span.SetAttribute("kind", string(kind))

	if len(bytecode) == 0 {
		err := zerr.With(domain.ErrNilByteCode, "kind", string(kind))
		span.RecordError(err)
		return domain.NilHandle, err
	}

	fp := d.fp.Shader(bytecode)
	span.SetAttribute("fingerprint", fp.String())

	sub := d.resolver.Resolve(ctx, fp, kind, bytecode)

	code := bytecode
	if sub != nil {
		code = sub.Code
	}

	handle, err := d.driver.CreateShader(ctx, kind, code, linkage)
	if err != nil && sub != nil {
		// A broken substitute must not take the host down with it.
		d.log.Warn(fmt.Sprintf("substitute creation failed for %s-%s, falling back to original", fp, kind))
		sub = nil
		handle, err = d.driver.CreateShader(ctx, kind, bytecode, linkage)
	}
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrCreateFailed.Error()), "fingerprint", fp.String())
		span.RecordError(err)
		return domain.NilHandle, err
	}

	// The driver reusing a handle is the only release signal we ever get.
	d.registry.CleanupStaleHandle(handle)
	d.registry.Register(handle, fp)

	if rec := d.reloadRecord(fp, kind, bytecode, linkage, sub); rec != nil {
		if rec.Linkage != domain.NilHandle {
			d.driver.AddRef(rec.Linkage)
		}
		d.registry.RegisterForReload(handle, rec)
	}

	if sub != nil && d.registry.NeedsOriginal(fp) {
		d.registry.KeepOriginal(ctx, handle, kind, bytecode, linkage)
	}

	if sub != nil {
		d.log.Info(fmt.Sprintf("substituted shader %s-%s", fp, kind))
	}
	return handle, nil
}

// reloadRecord decides whether this creation needs reload bookkeeping and
// builds the record. Hunting records every shader so it can be reloaded
// later; with hunting off, unsubstituted shaders are still recorded when a
// deferred-replacement consumer is configured.
func (d *Device) reloadRecord(fp domain.Fingerprint, kind domain.ShaderKind, original []byte, linkage domain.Handle, sub *resolver.Result) *domain.ReplacementRecord {
	if !d.cfg.Hunting && !(sub == nil && d.cfg.DeferredAnalysis) {
		return nil
	}

	rec := &domain.ReplacementRecord{
		Fingerprint:      fp,
		Kind:             kind,
		Linkage:          linkage,
		OriginalByteCode: append([]byte(nil), original...),
	}
	if sub != nil {
		rec.Model = sub.Model
		rec.SourceTimestamp = sub.Stamp
		rec.InfoText = sub.InfoText
		return rec
	}
	rec.Model = "bin"
	rec.DeferredCandidate = true
	return rec
}

// CreateBuffer intercepts a linear buffer creation call.
func (d *Device) CreateBuffer(ctx context.Context, desc *domain.ResourceDesc, initial []byte) (domain.Handle, error) {
	return d.createResource(ctx, domain.ResourceBuffer, desc, initial)
}

// CreateTexture1D intercepts a 1D texture creation call.
func (d *Device) CreateTexture1D(ctx context.Context, desc *domain.ResourceDesc, initial []byte) (domain.Handle, error) {
	return d.createResource(ctx, domain.ResourceTexture1D, desc, initial)
}

// CreateTexture2D intercepts a 2D texture creation call.
func (d *Device) CreateTexture2D(ctx context.Context, desc *domain.ResourceDesc, initial []byte) (domain.Handle, error) {
	return d.createResource(ctx, domain.ResourceTexture2D, desc, initial)
}

// CreateTexture3D intercepts a volume texture creation call.
func (d *Device) CreateTexture3D(ctx context.Context, desc *domain.ResourceDesc, initial []byte) (domain.Handle, error) {
	return d.createResource(ctx, domain.ResourceTexture3D, desc, initial)
}

func (d *Device) createResource(ctx context.Context, kind domain.ResourceKind, desc *domain.ResourceDesc, initial []byte) (domain.Handle, error) {
	ctx, span := d.tracer.Start(ctx, "create_resource")
	defer span.End()
	span.SetAttribute("kind", kind.String())

	if desc != nil {
		desc.Kind = kind
	}

	hash, payloadHash := d.fp.Resource(desc, initial)
	span.SetAttribute("fingerprint", hash.String())

	effective, mode, matched := d.matcher.Apply(hash, desc)
	if matched {
		d.log.Info(fmt.Sprintf("resource override applied: %s", hash))
	}

	handle, err := d.createWithMode(ctx, effective, initial, mode)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrCreateFailed.Error()), "fingerprint", hash.String())
		span.RecordError(err)
		return domain.NilHandle, err
	}

	d.trackResource(handle, kind, hash, payloadHash, effective, len(initial) > 0)
	return handle, nil
}

// createWithMode performs the actual driver call inside the process-global
// mode critical section. The previous mode is restored even when creation
// fails.
func (d *Device) createWithMode(ctx context.Context, desc *domain.ResourceDesc, initial []byte, mode domain.StereoMode) (domain.Handle, error) {
	d.modeMu.Lock()
	defer d.modeMu.Unlock()

	if mode != domain.StereoUnset && d.modeCtl != nil {
		prev, err := d.modeCtl.SurfaceCreationMode()
		if err != nil {
			d.log.Error(zerr.Wrap(err, "failed to read surface creation mode"))
		} else if prev != mode {
			if err := d.modeCtl.SetSurfaceCreationMode(mode); err != nil {
				d.log.Error(zerr.Wrap(err, "failed to set surface creation mode"))
			} else {
				defer func() {
					if err := d.modeCtl.SetSurfaceCreationMode(prev); err != nil {
						d.log.Error(zerr.Wrap(err, "failed to restore surface creation mode"))
					}
				}()
			}
		}
	}

	return d.driver.CreateResource(ctx, desc, initial)
}

func (d *Device) trackResource(h domain.Handle, kind domain.ResourceKind, hash, payloadHash domain.ResourceFingerprint, desc *domain.ResourceDesc, payloadInHash bool) {
	d.resourceMu.Lock()
	defer d.resourceMu.Unlock()

	// Handle reuse evicts the previous occupant.
	delete(d.resources, h)

	rec := &domain.ResourceRecord{
		Kind:               kind,
		Fingerprint:        hash,
		OrigFingerprint:    hash,
		PayloadFingerprint: payloadHash,
	}
	if desc != nil {
		rec.Desc = *desc
	}
	d.resources[h] = rec

	if d.cfg.Hunting {
		info := &domain.ResourceInfo{PayloadInHash: payloadInHash}
		if desc != nil {
			info.Desc = *desc
		}
		d.resourceInfo[hash] = info
	}
}

// ResourceRecord returns the bookkeeping entry for a live resource handle.
func (d *Device) ResourceRecord(h domain.Handle) (*domain.ResourceRecord, bool) {
	d.resourceMu.Lock()
	defer d.resourceMu.Unlock()
	rec, ok := d.resources[h]
	return rec, ok
}

// ResourceInfo returns the hunting stat entry for a resource fingerprint.
func (d *Device) ResourceInfo(hash domain.ResourceFingerprint) (*domain.ResourceInfo, bool) {
	d.resourceMu.Lock()
	defer d.resourceMu.Unlock()
	info, ok := d.resourceInfo[hash]
	return info, ok
}

// Stats reports table sizes for the diagnostic overlay.
func (d *Device) Stats() Stats {
	shaders, reloadable, retained := d.registry.Stats()

	d.resourceMu.Lock()
	defer d.resourceMu.Unlock()
	return Stats{
		Shaders:    shaders,
		Reloadable: reloadable,
		Retained:   retained,
		Resources:  len(d.resources),
	}
}

// Stats is a snapshot of the live bookkeeping table sizes.
type Stats struct {
	Shaders    int
	Reloadable int
	Retained   int
	Resources  int
}
