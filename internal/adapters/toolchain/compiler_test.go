package toolchain_test

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/standin/internal/adapters/toolchain"
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/standin/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const vertexSource = `@vertex
fn main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

func newTestLogger(t *testing.T) ports.Logger {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

func TestCompile_ProducesModule(t *testing.T) {
	t.Parallel()

	comp := toolchain.NewCompiler(newTestLogger(t))

	code, diagnostics, err := comp.Compile(context.Background(), vertexSource, "vs_1_3", "")
	require.NoError(t, err)
	assert.Empty(t, diagnostics)

	require.GreaterOrEqual(t, len(code), 20)
	assert.Equal(t, uint32(0x07230203), binary.LittleEndian.Uint32(code))

	// The produced module must round-trip through model detection.
	disasm := toolchain.NewDisassembler(newTestLogger(t))
	model, err := disasm.DetectModel(code)
	require.NoError(t, err)
	assert.Equal(t, "vs_1_3", model)
}

func TestCompile_UnknownModel(t *testing.T) {
	t.Parallel()

	comp := toolchain.NewCompiler(newTestLogger(t))

	_, _, err := comp.Compile(context.Background(), vertexSource, "vs_9_9", "")
	require.ErrorContains(t, err, domain.ErrUnknownModel.Error())

	_, _, err = comp.Compile(context.Background(), vertexSource, "bogus", "")
	require.ErrorContains(t, err, domain.ErrUnknownModel.Error())
}

func TestCompile_StageMismatchDiagnostic(t *testing.T) {
	t.Parallel()

	comp := toolchain.NewCompiler(newTestLogger(t))

	code, diagnostics, err := comp.Compile(context.Background(), vertexSource, "ps_1_3", "")
	require.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.Contains(t, diagnostics, `no "ps" entry point`)
}

func TestCompile_ParseFailure(t *testing.T) {
	t.Parallel()

	comp := toolchain.NewCompiler(newTestLogger(t))

	_, _, err := comp.Compile(context.Background(), "definitely not shader source {", "vs_1_3", "")
	require.Error(t, err)
}

func TestCompile_ResolvesIncludes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	include := `fn anchor() -> vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.wgsl"), []byte(include), 0o644))

	source := `//!include "util.wgsl"
@vertex
fn main() -> @builtin(position) vec4<f32> {
    return anchor();
}
`
	comp := toolchain.NewCompiler(newTestLogger(t))

	code, _, err := comp.Compile(context.Background(), source, "vs_1_3", filepath.Join(dir, "main_replace.txt"))
	require.NoError(t, err)
	assert.NotEmpty(t, code)
}

func TestCompile_MissingInclude(t *testing.T) {
	t.Parallel()

	source := `//!include "nope.wgsl"
@vertex
fn main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	comp := toolchain.NewCompiler(newTestLogger(t))

	_, _, err := comp.Compile(context.Background(), source, "vs_1_3", filepath.Join(t.TempDir(), "main_replace.txt"))
	require.ErrorContains(t, err, "failed to read include")
}

func TestCompile_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	comp := toolchain.NewCompiler(newTestLogger(t))

	_, _, err := comp.Compile(ctx, vertexSource, "vs_1_3", "")
	require.ErrorIs(t, err, context.Canceled)
}
