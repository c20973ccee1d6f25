package config

// File represents the structure of the standin.yaml configuration file.
type File struct {
	// FixesDir and CacheDir are resolved relative to the config file's
	// directory when not absolute.
	FixesDir string `yaml:"fixes_dir"`
	CacheDir string `yaml:"cache_dir"`

	HashMode string `yaml:"hash_mode"`

	Hunting          bool   `yaml:"hunting"`
	MarkingMode      string `yaml:"marking_mode"`
	ConfigReloadable bool   `yaml:"config_reloadable"`
	ShowOriginal     bool   `yaml:"show_original"`
	DeferredAnalysis bool   `yaml:"deferred_analysis"`

	CacheShaders bool `yaml:"cache_shaders"`

	Export ExportDTO `yaml:"export"`

	// SquareSurfaceMode is optional; absent leaves the heuristic disabled.
	SquareSurfaceMode *int `yaml:"square_surface_mode"`

	ShaderOverrides  []ShaderOverrideDTO  `yaml:"shader_overrides"`
	TextureOverrides []TextureOverrideDTO `yaml:"texture_overrides"`
}

// ExportDTO groups the export knobs of the decompile stage.
type ExportDTO struct {
	Binaries         bool `yaml:"binaries"`
	Listings         bool `yaml:"listings"`
	Level            int  `yaml:"level"`
	Fixed            bool `yaml:"fixed"`
	FixInterpolation bool `yaml:"fix_interpolation"`
}

// ShaderOverrideDTO is a per-shader configuration entry.
type ShaderOverrideDTO struct {
	// Fingerprint is the 64-bit shader identity in hex.
	Fingerprint string `yaml:"fingerprint"`
	Model       string `yaml:"model"`
	Disable     bool   `yaml:"disable"`
	Depth       string `yaml:"depth"`
	// Partner is the paired shader's fingerprint in hex.
	Partner string `yaml:"partner"`
}

// TextureOverrideDTO is a resource override rule.
type TextureOverrideDTO struct {
	// Name labels the rule in logs; a positional default is generated when
	// empty.
	Name string `yaml:"name"`

	// Fingerprint is the 32-bit resource identity in hex.
	Fingerprint string `yaml:"fingerprint"`
	Priority    int    `yaml:"priority"`

	MatchKind   string `yaml:"match_kind"`
	MatchWidth  uint32 `yaml:"match_width"`
	MatchHeight uint32 `yaml:"match_height"`

	Format         *int32  `yaml:"format"`
	Width          uint32  `yaml:"width"`
	Height         uint32  `yaml:"height"`
	WidthMultiply  float64 `yaml:"width_multiply"`
	HeightMultiply float64 `yaml:"height_multiply"`
	StereoMode     *int    `yaml:"stereo_mode"`

	Iterations []int `yaml:"iterations"`
}
