package domain

// MarkingMode selects what the diagnostic overlay shows for a hunted shader.
type MarkingMode string

const (
	// MarkSubstituted displays the installed substitute.
	MarkSubstituted MarkingMode = "substituted"
	// MarkOriginal displays the retained original, which forces the
	// retention policy to keep one alive.
	MarkOriginal MarkingMode = "original"
)

// ExportLevel controls how much the decompile stage writes to disk.
type ExportLevel int

const (
	// ExportOff writes nothing unless an automatic patch fired.
	ExportOff ExportLevel = iota
	// ExportSource writes the decompiled source.
	ExportSource
	// ExportSourceWithListing appends the original listing as a trailing
	// comment block, making it the master reference for fixing shaders.
	ExportSourceWithListing
	// ExportSourceWithRecompiled additionally appends the recompiled
	// listing for a direct before/after comparison.
	ExportSourceWithRecompiled
)

// Settings is the engine configuration, loaded once at startup and treated
// as read-only afterwards.
type Settings struct {
	// FixesDir holds live replacement sources and binaries.
	FixesDir string
	// CacheDir holds exported originals and reference artifacts.
	CacheDir string

	HashMode HashMode

	// Hunting enables the deeper bookkeeping needed for live
	// investigation: hot-reload records and original retention.
	Hunting     bool
	MarkingMode MarkingMode
	// ConfigReloadable keeps originals alive so a config reload can
	// revert substitutions.
	ConfigReloadable bool
	// ShowOriginal enables the show-original overlay toggle.
	ShowOriginal bool
	// DeferredAnalysis marks that a deferred-replacement consumer exists,
	// so unsubstituted shaders are still recorded as candidates.
	DeferredAnalysis bool

	// CacheShaders writes compiled/assembled output back to disk.
	CacheShaders bool

	ExportBinaries bool
	ExportListings bool
	ExportLevel    ExportLevel
	// ExportFixed writes the export artifacts whenever an automatic patch
	// fired, even with ExportLevel off.
	ExportFixed bool
	// FixInterpolation enables the decompiler's automatic
	// interpolation-qualifier patching.
	FixInterpolation bool

	// SquareSurfaceMode is the default stereo mode for square,
	// non-immutable 2D surfaces. StereoUnset disables the heuristic.
	SquareSurfaceMode StereoMode

	ShaderOverrides map[Fingerprint]*ShaderOverride
	// TextureOverrides is sorted by ascending priority at load time.
	TextureOverrides []*OverrideRule
}

// ShaderOverrideFor returns the override entry for a fingerprint, or nil.
func (s *Settings) ShaderOverrideFor(fp Fingerprint) *ShaderOverride {
	if s == nil || s.ShaderOverrides == nil {
		return nil
	}
	return s.ShaderOverrides[fp]
}

// DecompileEnabled reports whether the decompile-and-patch stage should run
// at all.
func (s *Settings) DecompileEnabled() bool {
	return s.ExportLevel > ExportOff || s.ExportFixed || s.FixInterpolation
}
