package domain

// ResourceKind is the dimensionality of a driver resource.
type ResourceKind uint8

const (
	// ResourceBuffer is a linear buffer.
	ResourceBuffer ResourceKind = iota
	// ResourceTexture1D is a one-dimensional texture.
	ResourceTexture1D
	// ResourceTexture2D is a two-dimensional surface.
	ResourceTexture2D
	// ResourceTexture3D is a volume texture.
	ResourceTexture3D
)

// String returns the kind name used in config files and logs.
func (k ResourceKind) String() string {
	switch k {
	case ResourceBuffer:
		return "buffer"
	case ResourceTexture1D:
		return "texture1d"
	case ResourceTexture2D:
		return "texture2d"
	case ResourceTexture3D:
		return "texture3d"
	}
	return "unknown"
}

// Usage describes how a resource's contents may change after creation.
type Usage uint8

const (
	// UsageDefault allows GPU read/write access.
	UsageDefault Usage = iota
	// UsageImmutable is read-only after creation.
	UsageImmutable
	// UsageDynamic allows CPU writes.
	UsageDynamic
	// UsageStaging allows CPU round trips.
	UsageStaging
)

// FormatUnset leaves the resource's declared format untouched.
const FormatUnset int32 = -1

// ResourceDesc is the creation description for a buffer or texture. A single
// struct covers all four kinds; fields that do not apply to a kind are zero.
type ResourceDesc struct {
	Kind      ResourceKind
	Width     uint32
	Height    uint32
	Depth     uint32
	Format    int32
	Usage     Usage
	MipLevels uint32
	ArraySize uint32
	BindFlags uint32
	// ByteWidth is the payload size for buffers.
	ByteWidth uint32
}

// IsSquareSurface reports whether the description is a square, non-immutable
// 2D surface. Only such surfaces receive the configured default stereo mode.
func (d *ResourceDesc) IsSquareSurface() bool {
	return d != nil &&
		d.Kind == ResourceTexture2D &&
		d.Usage != UsageImmutable &&
		d.Width == d.Height
}
