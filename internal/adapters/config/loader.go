// Package config provides the YAML configuration loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load searches from cwd upwards for standin.yaml and returns the validated
// settings. Relative directory paths in the file resolve against the config
// file's own directory, so the file can live at a project root and be
// invoked from anywhere below it.
func (l *Loader) Load(cwd string) (*domain.Settings, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var file File
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	return l.buildSettings(filepath.Dir(configPath), &file)
}

// findConfiguration walks from cwd to the filesystem root looking for the
// config file.
func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) buildSettings(baseDir string, file *File) (*domain.Settings, error) {
	s := &domain.Settings{
		FixesDir:          resolveDir(baseDir, file.FixesDir, domain.DefaultFixesDirName),
		CacheDir:          resolveDir(baseDir, file.CacheDir, domain.DefaultCacheDirName),
		HashMode:          domain.HashMode(file.HashMode),
		Hunting:           file.Hunting,
		MarkingMode:       domain.MarkingMode(file.MarkingMode),
		ConfigReloadable:  file.ConfigReloadable,
		ShowOriginal:      file.ShowOriginal,
		DeferredAnalysis:  file.DeferredAnalysis,
		CacheShaders:      file.CacheShaders,
		ExportBinaries:    file.Export.Binaries,
		ExportListings:    file.Export.Listings,
		ExportLevel:       domain.ExportLevel(file.Export.Level),
		ExportFixed:       file.Export.Fixed,
		FixInterpolation:  file.Export.FixInterpolation,
		SquareSurfaceMode: domain.StereoUnset,
		ShaderOverrides:   make(map[domain.Fingerprint]*domain.ShaderOverride),
	}

	if s.HashMode == "" {
		s.HashMode = domain.HashContent
	}
	if !s.HashMode.Valid() {
		return nil, zerr.With(domain.ErrInvalidHashMode, "hash_mode", file.HashMode)
	}

	if s.MarkingMode == "" {
		s.MarkingMode = domain.MarkSubstituted
	}
	if s.MarkingMode != domain.MarkSubstituted && s.MarkingMode != domain.MarkOriginal {
		return nil, zerr.With(domain.ErrInvalidMarkingMode, "marking_mode", file.MarkingMode)
	}

	if s.ExportLevel < domain.ExportOff || s.ExportLevel > domain.ExportSourceWithRecompiled {
		return nil, zerr.With(domain.ErrInvalidExportLevel, "level", strconv.Itoa(file.Export.Level))
	}

	if file.SquareSurfaceMode != nil {
		mode, err := domain.ParseStereoMode(*file.SquareSurfaceMode)
		if err != nil {
			return nil, zerr.With(err, "square_surface_mode", strconv.Itoa(*file.SquareSurfaceMode))
		}
		s.SquareSurfaceMode = mode
	}

	for i := range file.ShaderOverrides {
		ov, err := buildShaderOverride(&file.ShaderOverrides[i])
		if err != nil {
			return nil, err
		}
		if prev, dup := s.ShaderOverrides[ov.Fingerprint]; dup {
			l.Logger.Warn(fmt.Sprintf("duplicate shader override for %s, keeping the later entry (model %q dropped)", ov.Fingerprint, prev.Model))
		}
		s.ShaderOverrides[ov.Fingerprint] = ov
	}

	for i := range file.TextureOverrides {
		rule, err := buildTextureOverride(i, &file.TextureOverrides[i])
		if err != nil {
			return nil, err
		}
		s.TextureOverrides = append(s.TextureOverrides, rule)
	}

	// Ascending priority; stable so equal priorities keep file order.
	slices.SortStableFunc(s.TextureOverrides, func(a, b *domain.OverrideRule) int {
		return a.Priority - b.Priority
	})

	return s, nil
}

func buildShaderOverride(dto *ShaderOverrideDTO) (*domain.ShaderOverride, error) {
	fp, err := parseFingerprint64(dto.Fingerprint)
	if err != nil {
		return nil, err
	}

	depth := domain.DepthFilter(dto.Depth)
	switch depth {
	case domain.DepthNone, domain.DepthActive, domain.DepthInactive:
	default:
		return nil, zerr.With(domain.ErrInvalidDepthFilter, "depth", dto.Depth)
	}

	ov := &domain.ShaderOverride{
		Fingerprint: fp,
		Model:       dto.Model,
		Disable:     dto.Disable,
		Depth:       depth,
	}

	if dto.Partner != "" {
		partner, err := parseFingerprint64(dto.Partner)
		if err != nil {
			return nil, err
		}
		ov.Partner = partner
	}

	return ov, nil
}

func buildTextureOverride(index int, dto *TextureOverrideDTO) (*domain.OverrideRule, error) {
	fp, err := parseFingerprint32(dto.Fingerprint)
	if err != nil {
		return nil, err
	}

	rule := &domain.OverrideRule{
		Section:        dto.Name,
		Fingerprint:    fp,
		Priority:       dto.Priority,
		MatchWidth:     dto.MatchWidth,
		MatchHeight:    dto.MatchHeight,
		Format:         domain.FormatUnset,
		Width:          dto.Width,
		Height:         dto.Height,
		WidthMultiply:  dto.WidthMultiply,
		HeightMultiply: dto.HeightMultiply,
		StereoMode:     domain.StereoUnset,
		Iterations:     dto.Iterations,
	}
	if rule.Section == "" {
		rule.Section = fmt.Sprintf("texture_overrides[%d]", index)
	}

	if dto.MatchKind != "" {
		kind, err := parseResourceKind(dto.MatchKind)
		if err != nil {
			return nil, zerr.With(err, "rule", rule.Section)
		}
		rule.MatchKind = &kind
	}
	if dto.Format != nil {
		rule.Format = *dto.Format
	}
	if dto.StereoMode != nil {
		mode, err := domain.ParseStereoMode(*dto.StereoMode)
		if err != nil {
			return nil, zerr.With(err, "rule", rule.Section)
		}
		rule.StereoMode = mode
	}

	return rule, nil
}

func parseResourceKind(name string) (domain.ResourceKind, error) {
	kinds := []domain.ResourceKind{
		domain.ResourceBuffer,
		domain.ResourceTexture1D,
		domain.ResourceTexture2D,
		domain.ResourceTexture3D,
	}
	for _, k := range kinds {
		if k.String() == strings.ToLower(name) {
			return k, nil
		}
	}
	return 0, zerr.With(domain.ErrInvalidResourceKind, "kind", name)
}

func parseFingerprint64(s string) (domain.Fingerprint, error) {
	v, err := parseHex(s, 64)
	if err != nil {
		return 0, err
	}
	return domain.Fingerprint(v), nil
}

func parseFingerprint32(s string) (domain.ResourceFingerprint, error) {
	v, err := parseHex(s, 32)
	if err != nil {
		return 0, err
	}
	return domain.ResourceFingerprint(v), nil
}

// parseHex accepts fingerprints with or without a 0x prefix.
func parseHex(s string, bits int) (uint64, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(s), "0x")
	if trimmed == "" {
		return 0, zerr.With(domain.ErrInvalidFingerprint, "fingerprint", s)
	}
	v, err := strconv.ParseUint(trimmed, 16, bits)
	if err != nil {
		return 0, zerr.With(domain.ErrInvalidFingerprint, "fingerprint", s)
	}
	return v, nil
}

func resolveDir(baseDir, configured, fallback string) string {
	dir := configured
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(baseDir, dir)
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
