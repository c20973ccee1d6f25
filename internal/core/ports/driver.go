package ports

import (
	"context"

	"go.trai.ch/standin/internal/core/domain"
)

// Driver is the real graphics driver the engine forwards creation calls to.
// The engine never observes object release; handles returned here may be
// reused for unrelated objects at any later point.
//
//go:generate mockgen -source=driver.go -destination=mocks/mock_driver.go -package=mocks
type Driver interface {
	// CreateShader creates a shader program of the given pipeline stage.
	// linkage may be NilHandle.
	CreateShader(ctx context.Context, kind domain.ShaderKind, bytecode []byte, linkage domain.Handle) (domain.Handle, error)

	// CreateResource creates a buffer or texture. initial may be nil.
	CreateResource(ctx context.Context, desc *domain.ResourceDesc, initial []byte) (domain.Handle, error)

	// AddRef takes an additional ownership reference on a live object.
	AddRef(h domain.Handle)

	// Release drops one ownership reference.
	Release(h domain.Handle)
}

// ModeController exposes the vendor's process-global surface-creation mode.
// The setting is not reentrant; callers must serialize a set/restore pair
// around exactly one creation call.
type ModeController interface {
	SurfaceCreationMode() (domain.StereoMode, error)
	SetSurfaceCreationMode(mode domain.StereoMode) error
}
