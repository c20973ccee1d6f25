// Package domain contains the core types for the substitution engine.
package domain

import "fmt"

// Fingerprint is the deterministic identity of a shader binary. Two binaries
// with equal fingerprints are treated as the same logical shader; collisions
// are an accepted, bounded risk and are not disambiguated further.
type Fingerprint uint64

// String formats the fingerprint the way it appears in file names and logs.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// ResourceFingerprint is the 32-bit identity of a buffer or texture, derived
// from its initial payload (when present) and its full description.
type ResourceFingerprint uint32

// String formats the resource fingerprint for file names and logs.
func (f ResourceFingerprint) String() string {
	return fmt.Sprintf("%08x", uint32(f))
}

// Handle identifies a live driver object. Handles are opaque and may be
// reused by the driver for unrelated objects after release; reuse is the
// only release signal the engine ever observes.
type Handle uint64

// NilHandle is the zero handle, never a valid driver object.
const NilHandle Handle = 0

// ShaderKind is the pipeline stage a shader binary was declared for.
type ShaderKind string

const (
	// VertexShader processes individual vertices.
	VertexShader ShaderKind = "vs"
	// PixelShader processes individual fragments.
	PixelShader ShaderKind = "ps"
	// GeometryShader processes whole primitives.
	GeometryShader ShaderKind = "gs"
	// HullShader is the tessellation control stage.
	HullShader ShaderKind = "hs"
	// DomainShader is the tessellation evaluation stage.
	DomainShader ShaderKind = "ds"
	// ComputeShader is the compute stage.
	ComputeShader ShaderKind = "cs"
)

// Valid reports whether the kind is one of the six pipeline stages.
func (k ShaderKind) Valid() bool {
	switch k {
	case VertexShader, PixelShader, GeometryShader, HullShader, DomainShader, ComputeShader:
		return true
	}
	return false
}

// HashMode selects the fingerprinting algorithm for shader bytecode.
type HashMode string

const (
	// HashContent hashes the full byte range. The fallback for the other
	// two modes when the binary cannot be parsed.
	HashContent HashMode = "content"
	// HashEmbedded extracts the digest already embedded in the binary's
	// container header.
	HashEmbedded HashMode = "embedded"
	// HashSections hashes only the whitelisted container sections, so two
	// builds differing only in toolchain or debug metadata fingerprint
	// identically.
	HashSections HashMode = "sections"
)

// Valid reports whether the mode is a known hash mode.
func (m HashMode) Valid() bool {
	switch m {
	case HashContent, HashEmbedded, HashSections:
		return true
	}
	return false
}

// ShaderKey names a logical shader: the fingerprint of its bytecode plus
// the pipeline stage it was declared for.
type ShaderKey struct {
	Fingerprint Fingerprint
	Kind        ShaderKind
}

// String formats the key the way it prefixes artifact file names.
func (k ShaderKey) String() string {
	return fmt.Sprintf("%s-%s", k.Fingerprint, k.Kind)
}

// StereoMode is the vendor surface-creation mode. It is process-global
// driver state, not engine state. The zero value is StereoUnset so a
// zero-valued Settings never enables a mode override by accident.
type StereoMode int

const (
	// StereoUnset means no mode override is pending; the driver's current
	// mode stays in effect.
	StereoUnset StereoMode = iota
	// StereoAutomatic lets the driver pick per surface.
	StereoAutomatic
	// StereoForceStereo creates the surface stereoized.
	StereoForceStereo
	// StereoForceMono creates the surface mono.
	StereoForceMono
)

// ParseStereoMode maps the vendor's numeric mode (0 automatic, 1 force
// stereo, 2 force mono) onto the domain representation.
func ParseStereoMode(n int) (StereoMode, error) {
	if n < 0 || n > 2 {
		return StereoUnset, ErrInvalidStereoMode
	}
	return StereoAutomatic + StereoMode(n), nil
}
