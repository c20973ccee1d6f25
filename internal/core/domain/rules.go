package domain

// DepthFilter restricts a shader override to frames where the depth buffer
// is in a particular state.
type DepthFilter string

const (
	// DepthNone applies the override unconditionally.
	DepthNone DepthFilter = ""
	// DepthActive applies only while the depth buffer is bound.
	DepthActive DepthFilter = "active"
	// DepthInactive applies only while the depth buffer is unbound.
	DepthInactive DepthFilter = "inactive"
)

// ShaderOverride is a per-fingerprint configuration entry for the
// replacement pipeline.
type ShaderOverride struct {
	Fingerprint Fingerprint
	// Model overrides the shader model detected by disassembling the
	// original when recompiling a text source. Empty means use detected.
	Model string
	// Disable short-circuits the whole pipeline for this fingerprint,
	// equivalent to an on-disk bad marker.
	Disable bool
	// Depth restricts the override and forces original retention.
	Depth DepthFilter
	// Partner declares a paired fingerprint relationship and forces
	// original retention for both.
	Partner Fingerprint
}

// OverrideRule mutates a resource's creation parameters when its match
// predicate fires. Rules are applied in ascending Priority order, so later
// rules win on conflicting fields.
type OverrideRule struct {
	// Section is the config section name the rule came from, for logs.
	Section string

	Fingerprint ResourceFingerprint
	Priority    int

	// MatchKind narrows the rule to one resource kind. Nil matches all.
	MatchKind *ResourceKind
	// MatchWidth / MatchHeight narrow the rule to exact dimensions.
	// Zero matches any.
	MatchWidth  uint32
	MatchHeight uint32

	// Format replaces the declared format when not FormatUnset.
	Format int32
	// Width / Height replace the declared dimensions when non-zero.
	Width  uint32
	Height uint32
	// WidthMultiply / HeightMultiply scale the (possibly already
	// overridden) dimensions when not 1.0.
	WidthMultiply  float64
	HeightMultiply float64
	// StereoMode records a pending vendor-mode override, StereoUnset for
	// none. Last matching writer wins.
	StereoMode StereoMode

	// Iterations gates the rule to firing only on the listed match
	// counts. The counter increments on every match attempt for this
	// rule, whether or not the rule ends up changing anything.
	Iterations []int
}

// Matches reports whether the rule's predicate fires for the given
// fingerprint and description. It does not consult the iteration gate;
// gating is evaluated against a running counter owned by the matcher.
func (r *OverrideRule) Matches(fp ResourceFingerprint, desc *ResourceDesc) bool {
	if r.Fingerprint != fp {
		return false
	}
	if desc == nil {
		return r.MatchKind == nil && r.MatchWidth == 0 && r.MatchHeight == 0
	}
	if r.MatchKind != nil && *r.MatchKind != desc.Kind {
		return false
	}
	if r.MatchWidth != 0 && r.MatchWidth != desc.Width {
		return false
	}
	if r.MatchHeight != 0 && r.MatchHeight != desc.Height {
		return false
	}
	return true
}
