package domain

import "time"

// ReplacementRecord holds everything needed to later recreate or replace a
// live shader in place. Keyed by the currently active driver handle; evicted
// when the handle is observed to have been reused for an unrelated object.
type ReplacementRecord struct {
	Fingerprint Fingerprint
	Kind        ShaderKind
	// Model is the declared shader model of the active code, or "bin" when
	// the code was loaded from a cached binary and the model would need a
	// disassembly pass to recover.
	Model string
	// Linkage is an owned reference to the class linkage the shader was
	// created with; released on eviction.
	Linkage Handle
	// OriginalByteCode is the pristine, pre-replacement binary. Always the
	// original, never the substitute, so later tooling can regenerate a
	// fix file from unmodified source. Nil when capture was not needed.
	OriginalByteCode []byte
	// SourceTimestamp is the stamp of the text source the active code was
	// built from. The zero value forces the next reload pass to rebuild.
	SourceTimestamp time.Time
	// InfoText is the first line of the source file, surfaced in overlays.
	InfoText string
	// Replacement is the live substitute installed by a reload pass,
	// NilHandle until one exists.
	Replacement Handle

	// DeferredCandidate marks a shader recorded for possible later
	// analysis rather than immediate substitution.
	DeferredCandidate bool
	// DeferredProcessed is set once a deferred consumer has seen it.
	DeferredProcessed bool
}

// ResourceRecord is the bookkeeping kept per live resource handle.
type ResourceRecord struct {
	Kind ResourceKind
	// Fingerprint is the identity the resource is currently known by.
	Fingerprint ResourceFingerprint
	// OrigFingerprint is the identity at creation time, before any hash
	// contamination tracking updates.
	OrigFingerprint ResourceFingerprint
	// PayloadFingerprint is the hash of the initial payload alone, zero
	// when the resource was created without initial data.
	PayloadFingerprint ResourceFingerprint
	Desc               ResourceDesc
}

// ResourceInfo is the diagnostic stat entry kept per resource fingerprint
// while hunting is enabled.
type ResourceInfo struct {
	Desc ResourceDesc
	// PayloadInHash records whether initial data contributed to the hash.
	PayloadInHash bool
}
