package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/standin/internal/adapters/config"
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) *config.Loader {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	return config.NewLoader(log)
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o644))
}

func TestLoad_NotFound(t *testing.T) {
	t.Parallel()

	loader := newLoader(t)

	_, err := loader.Load(t.TempDir())
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}

func TestLoad_WalksUpToParent(t *testing.T) {
	t.Parallel()

	loader := newLoader(t)
	root := t.TempDir()
	writeConfig(t, root, "hunting: true\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	s, err := loader.Load(nested)
	require.NoError(t, err)
	assert.True(t, s.Hunting)
	// Relative dirs resolve against the config file's directory, not cwd.
	assert.Equal(t, filepath.Join(root, domain.DefaultFixesDirName), s.FixesDir)
	assert.Equal(t, filepath.Join(root, domain.DefaultCacheDirName), s.CacheDir)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	loader := newLoader(t)
	root := t.TempDir()
	writeConfig(t, root, "")

	s, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, domain.HashContent, s.HashMode)
	assert.Equal(t, domain.MarkSubstituted, s.MarkingMode)
	assert.Equal(t, domain.StereoUnset, s.SquareSurfaceMode)
	assert.Equal(t, domain.ExportOff, s.ExportLevel)
	assert.False(t, s.Hunting)
	assert.Empty(t, s.ShaderOverrides)
	assert.Empty(t, s.TextureOverrides)
}

func TestLoad_FullConfig(t *testing.T) {
	t.Parallel()

	loader := newLoader(t)
	root := t.TempDir()
	writeConfig(t, root, `
fixes_dir: fixes
cache_dir: /abs/cache
hash_mode: sections
hunting: true
marking_mode: original
config_reloadable: true
cache_shaders: true
export:
  binaries: true
  listings: true
  level: 2
  fixed: true
square_surface_mode: 2
shader_overrides:
  - fingerprint: "0xabcd"
    model: vs_4_0
    depth: active
    partner: "1234"
texture_overrides:
  - name: shadow_map
    fingerprint: deadbeef
    priority: 10
    match_kind: texture2d
    match_width: 1024
    format: 62
    width_multiply: 2.0
    stereo_mode: 1
    iterations: [1, 2]
`)

	s, err := loader.Load(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "fixes"), s.FixesDir)
	assert.Equal(t, "/abs/cache", s.CacheDir)
	assert.Equal(t, domain.HashSections, s.HashMode)
	assert.True(t, s.Hunting)
	assert.Equal(t, domain.MarkOriginal, s.MarkingMode)
	assert.True(t, s.ConfigReloadable)
	assert.True(t, s.CacheShaders)
	assert.True(t, s.ExportBinaries)
	assert.True(t, s.ExportListings)
	assert.Equal(t, domain.ExportSourceWithListing, s.ExportLevel)
	assert.True(t, s.ExportFixed)
	assert.Equal(t, domain.StereoForceMono, s.SquareSurfaceMode)

	ov := s.ShaderOverrideFor(0xabcd)
	require.NotNil(t, ov)
	assert.Equal(t, "vs_4_0", ov.Model)
	assert.Equal(t, domain.DepthActive, ov.Depth)
	assert.Equal(t, domain.Fingerprint(0x1234), ov.Partner)

	require.Len(t, s.TextureOverrides, 1)
	rule := s.TextureOverrides[0]
	assert.Equal(t, "shadow_map", rule.Section)
	assert.Equal(t, domain.ResourceFingerprint(0xdeadbeef), rule.Fingerprint)
	require.NotNil(t, rule.MatchKind)
	assert.Equal(t, domain.ResourceTexture2D, *rule.MatchKind)
	assert.Equal(t, uint32(1024), rule.MatchWidth)
	assert.Equal(t, int32(62), rule.Format)
	assert.Equal(t, 2.0, rule.WidthMultiply)
	assert.Equal(t, domain.StereoForceStereo, rule.StereoMode)
	assert.Equal(t, []int{1, 2}, rule.Iterations)
}

func TestLoad_RulesSortedByAscendingPriority(t *testing.T) {
	t.Parallel()

	loader := newLoader(t)
	root := t.TempDir()
	writeConfig(t, root, `
texture_overrides:
  - fingerprint: "1"
    priority: 30
  - fingerprint: "2"
    priority: 10
  - fingerprint: "3"
    priority: 20
`)

	s, err := loader.Load(root)
	require.NoError(t, err)

	priorities := make([]int, 0, len(s.TextureOverrides))
	for _, rule := range s.TextureOverrides {
		priorities = append(priorities, rule.Priority)
	}
	assert.Equal(t, []int{10, 20, 30}, priorities)

	// Unset per-rule fields keep their sentinels after loading.
	assert.Equal(t, domain.FormatUnset, s.TextureOverrides[0].Format)
	assert.Equal(t, domain.StereoUnset, s.TextureOverrides[0].StereoMode)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "bad yaml",
			content: "hunting: [unclosed",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "bad hash mode",
			content: "hash_mode: sha1\n",
			wantErr: domain.ErrInvalidHashMode,
		},
		{
			name:    "bad marking mode",
			content: "marking_mode: highlighted\n",
			wantErr: domain.ErrInvalidMarkingMode,
		},
		{
			name:    "export level out of range",
			content: "export:\n  level: 7\n",
			wantErr: domain.ErrInvalidExportLevel,
		},
		{
			name:    "square surface mode out of range",
			content: "square_surface_mode: 3\n",
			wantErr: domain.ErrInvalidStereoMode,
		},
		{
			name:    "rule stereo mode out of range",
			content: "texture_overrides:\n  - fingerprint: \"1\"\n    stereo_mode: -1\n",
			wantErr: domain.ErrInvalidStereoMode,
		},
		{
			name:    "bad shader fingerprint",
			content: "shader_overrides:\n  - fingerprint: xyz\n",
			wantErr: domain.ErrInvalidFingerprint,
		},
		{
			name:    "bad depth filter",
			content: "shader_overrides:\n  - fingerprint: \"1\"\n    depth: sometimes\n",
			wantErr: domain.ErrInvalidDepthFilter,
		},
		{
			name:    "bad resource kind",
			content: "texture_overrides:\n  - fingerprint: \"1\"\n    match_kind: cubemap\n",
			wantErr: domain.ErrInvalidResourceKind,
		},
		{
			name:    "resource fingerprint too wide",
			content: "texture_overrides:\n  - fingerprint: \"123456789\"\n",
			wantErr: domain.ErrInvalidFingerprint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader := newLoader(t)
			root := t.TempDir()
			writeConfig(t, root, tt.content)

			_, err := loader.Load(root)
			require.Error(t, err)
			require.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestLoad_DuplicateShaderOverrideKeepsLater(t *testing.T) {
	t.Parallel()

	loader := newLoader(t)
	root := t.TempDir()
	writeConfig(t, root, `
shader_overrides:
  - fingerprint: "abcd"
    model: vs_4_0
  - fingerprint: "abcd"
    model: vs_5_0
`)

	s, err := loader.Load(root)
	require.NoError(t, err)

	ov := s.ShaderOverrideFor(0xabcd)
	require.NotNil(t, ov)
	assert.Equal(t, "vs_5_0", ov.Model)
}
