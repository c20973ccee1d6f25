// Package override rewrites resource creation parameters according to the
// configured rule set.
package override

import (
	"fmt"
	"sync"

	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
)

// Matcher applies override rules to resource creation calls. Rules come
// pre-sorted by ascending priority, so on conflicting fields the highest
// priority writes last and wins.
type Matcher struct {
	cfg *domain.Settings
	log ports.Logger

	// mu guards the per-rule iteration counters; everything else is
	// read-only after construction.
	mu       sync.Mutex
	attempts map[*domain.OverrideRule]int
}

// NewMatcher creates a matcher over the configured rules.
func NewMatcher(cfg *domain.Settings, log ports.Logger) *Matcher {
	return &Matcher{
		cfg:      cfg,
		log:      log,
		attempts: make(map[*domain.OverrideRule]int),
	}
}

// Apply computes the effective creation parameters for a resource. It
// returns a copy of the description with all fired rules applied, the
// vendor mode to set for the creation call (StereoUnset for none), and
// whether any rule fired.
//
// The square-surface heuristic runs before the rule list, so an explicit
// rule can always override the heuristic's mode.
func (m *Matcher) Apply(fp domain.ResourceFingerprint, desc *domain.ResourceDesc) (*domain.ResourceDesc, domain.StereoMode, bool) {
	mode := domain.StereoUnset
	if desc != nil && m.cfg.SquareSurfaceMode != domain.StereoUnset && desc.IsSquareSurface() {
		mode = m.cfg.SquareSurfaceMode
	}

	var effective *domain.ResourceDesc
	if desc != nil {
		clone := *desc
		effective = &clone
	}

	matched := false
	for _, rule := range m.cfg.TextureOverrides {
		if !rule.Matches(fp, desc) {
			continue
		}
		if !m.passesIterationGate(rule) {
			continue
		}
		matched = true
		mode = m.applyRule(rule, effective, mode)
	}

	return effective, mode, matched
}

// passesIterationGate counts the match attempt and reports whether the rule
// may fire this time. The counter advances on every attempt, gated or not,
// and never resets, which keeps repeat matches of the same scene from
// re-firing one-shot rules.
func (m *Matcher) passesIterationGate(rule *domain.OverrideRule) bool {
	if len(rule.Iterations) == 0 {
		return true
	}

	m.mu.Lock()
	m.attempts[rule]++
	n := m.attempts[rule]
	m.mu.Unlock()

	for _, want := range rule.Iterations {
		if n == want {
			return true
		}
	}
	return false
}

// applyRule mutates the effective description in place and returns the
// updated vendor mode.
func (m *Matcher) applyRule(rule *domain.OverrideRule, desc *domain.ResourceDesc, mode domain.StereoMode) domain.StereoMode {
	m.log.Debug(fmt.Sprintf("override rule fired: section=%s fingerprint=%s", rule.Section, rule.Fingerprint))

	if rule.StereoMode != domain.StereoUnset {
		mode = rule.StereoMode
	}
	if desc == nil {
		return mode
	}

	if rule.Format != domain.FormatUnset {
		desc.Format = rule.Format
	}
	if rule.Width != 0 {
		desc.Width = rule.Width
	}
	if rule.Height != 0 {
		desc.Height = rule.Height
	}
	if rule.WidthMultiply != 0 && rule.WidthMultiply != 1 {
		desc.Width = uint32(float64(desc.Width) * rule.WidthMultiply)
	}
	if rule.HeightMultiply != 0 && rule.HeightMultiply != 1 {
		desc.Height = uint32(float64(desc.Height) * rule.HeightMultiply)
	}
	return mode
}
