package device_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/standin/internal/adapters/telemetry"
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports/mocks"
	"go.trai.ch/standin/internal/engine/cache"
	"go.trai.ch/standin/internal/engine/device"
	"go.trai.ch/standin/internal/engine/fingerprint"
	"go.trai.ch/standin/internal/engine/override"
	"go.trai.ch/standin/internal/engine/registry"
	"go.trai.ch/standin/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

var bytecode = []byte("vertex-shader-bytecode")

// contentFP mirrors the default content hash so tests can predict artifact
// file names.
func contentFP(code []byte) domain.Fingerprint {
	return domain.Fingerprint(xxhash.Sum64(code))
}

type harness struct {
	fixesDir string
	driver   *mocks.MockDriver
	modeCtl  *mocks.MockModeController
	registry *registry.Registry
	device   *device.Device
}

func newHarness(t *testing.T, cfg *domain.Settings) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	h := &harness{
		fixesDir: t.TempDir(),
		driver:   mocks.NewMockDriver(ctrl),
		modeCtl:  mocks.NewMockModeController(ctrl),
	}

	if cfg.HashMode == "" {
		cfg.HashMode = domain.HashContent
	}
	cfg.FixesDir = h.fixesDir
	cfg.CacheDir = t.TempDir()

	tracer := telemetry.NewNoOpTracer()
	store := cache.NewStore(cfg.FixesDir, cfg.CacheDir, log)
	fp := fingerprint.New(cfg.HashMode, log)

	// Toolchain ports are unused in these paths; the cached-binary stage is
	// exercised directly through files on disk.
	res := resolver.New(store,
		mocks.NewMockDisassembler(ctrl),
		mocks.NewMockAssembler(ctrl),
		mocks.NewMockCompiler(ctrl),
		mocks.NewMockDecompiler(ctrl),
		log, tracer, cfg)
	h.registry = registry.New(h.driver, log, cfg)
	matcher := override.NewMatcher(cfg, log)

	h.device = device.New(fp, res, h.registry, matcher, h.driver, h.modeCtl, log, tracer, cfg)
	return h
}

// writeSubstitute plants a valid cached binary with a matching source stamp
// so the first resolver stage fires.
func (h *harness) writeSubstitute(t *testing.T, fp domain.Fingerprint, kind domain.ShaderKind, code []byte) {
	t.Helper()

	binPath := filepath.Join(h.fixesDir, domain.ReplaceBinaryName(fp, kind))
	txtPath := filepath.Join(h.fixesDir, domain.ReplaceSourceName(fp, kind))
	require.NoError(t, os.WriteFile(binPath, code, 0o644))
	require.NoError(t, os.WriteFile(txtPath, []byte("// fix\n"), 0o644))
	info, err := os.Stat(txtPath)
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(binPath, info.ModTime(), info.ModTime()))
}

func TestCreateShader_NoSubstituteForwardsOriginal(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &domain.Settings{})

	h.driver.EXPECT().
		CreateShader(gomock.Any(), domain.VertexShader, bytecode, domain.NilHandle).
		Return(domain.Handle(0x10), nil)

	handle, err := h.device.CreateVertexShader(context.Background(), bytecode, domain.NilHandle)
	require.NoError(t, err)
	assert.Equal(t, domain.Handle(0x10), handle)

	// Without hunting there is no reload bookkeeping.
	_, ok := h.device.Replacement(handle)
	assert.False(t, ok)
}

func TestCreateShader_NilByteCode(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &domain.Settings{})

	_, err := h.device.CreatePixelShader(context.Background(), nil, domain.NilHandle)
	require.Error(t, err)
	require.ErrorContains(t, err, domain.ErrNilByteCode.Error())
}

func TestCreateShader_SubstitutesCachedBinary(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &domain.Settings{})
	sub := []byte("substitute-code")
	h.writeSubstitute(t, contentFP(bytecode), domain.VertexShader, sub)

	h.driver.EXPECT().
		CreateShader(gomock.Any(), domain.VertexShader, sub, domain.NilHandle).
		Return(domain.Handle(0x10), nil)

	handle, err := h.device.CreateVertexShader(context.Background(), bytecode, domain.NilHandle)
	require.NoError(t, err)
	assert.Equal(t, domain.Handle(0x10), handle)
}

func TestCreateShader_BrokenSubstituteFallsBack(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &domain.Settings{})
	sub := []byte("broken-substitute")
	h.writeSubstitute(t, contentFP(bytecode), domain.VertexShader, sub)

	gomock.InOrder(
		h.driver.EXPECT().
			CreateShader(gomock.Any(), domain.VertexShader, sub, domain.NilHandle).
			Return(domain.NilHandle, assert.AnError),
		h.driver.EXPECT().
			CreateShader(gomock.Any(), domain.VertexShader, bytecode, domain.NilHandle).
			Return(domain.Handle(0x10), nil),
	)

	handle, err := h.device.CreateVertexShader(context.Background(), bytecode, domain.NilHandle)
	require.NoError(t, err)
	assert.Equal(t, domain.Handle(0x10), handle)
}

func TestCreateShader_RetainsOriginalUnderRetentionPolicy(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &domain.Settings{Hunting: true, ConfigReloadable: true})
	sub := []byte("substitute-code")
	h.writeSubstitute(t, contentFP(bytecode), domain.VertexShader, sub)

	gomock.InOrder(
		h.driver.EXPECT().
			CreateShader(gomock.Any(), domain.VertexShader, sub, domain.NilHandle).
			Return(domain.Handle(0x10), nil),
		// Retention creates a second, independent instance of the pristine
		// bytecode.
		h.driver.EXPECT().
			CreateShader(gomock.Any(), domain.VertexShader, bytecode, domain.NilHandle).
			Return(domain.Handle(0x20), nil),
	)

	_, err := h.device.CreateVertexShader(context.Background(), bytecode, domain.NilHandle)
	require.NoError(t, err)
}

func TestCreateShader_HuntingRecordsUnsubstituted(t *testing.T) {
	t.Parallel()

	// While hunting, a shader with no substitute on disk still gets a
	// reload record carrying the original bytecode, so a fix dropped in
	// later can be picked up by a reload pass.
	h := newHarness(t, &domain.Settings{Hunting: true})

	h.driver.EXPECT().
		CreateShader(gomock.Any(), domain.VertexShader, bytecode, domain.NilHandle).
		Return(domain.Handle(0x10), nil)

	handle, err := h.device.CreateVertexShader(context.Background(), bytecode, domain.NilHandle)
	require.NoError(t, err)

	rec, ok := h.registry.Record(handle)
	require.True(t, ok)
	assert.Equal(t, "bin", rec.Model)
	assert.Equal(t, bytecode, rec.OriginalByteCode)
	assert.True(t, rec.DeferredCandidate)
	assert.True(t, rec.SourceTimestamp.IsZero())
}

func TestCreateShader_DeferredConsumerRecordsWithoutHunting(t *testing.T) {
	t.Parallel()

	// A configured deferred-replacement consumer needs candidate records
	// even when hunting is off.
	h := newHarness(t, &domain.Settings{DeferredAnalysis: true})

	h.driver.EXPECT().
		CreateShader(gomock.Any(), domain.VertexShader, bytecode, domain.NilHandle).
		Return(domain.Handle(0x10), nil)

	handle, err := h.device.CreateVertexShader(context.Background(), bytecode, domain.NilHandle)
	require.NoError(t, err)

	rec, ok := h.registry.Record(handle)
	require.True(t, ok)
	assert.True(t, rec.DeferredCandidate)
	assert.Equal(t, bytecode, rec.OriginalByteCode)
}

func TestCreateShader_HandleReuseEvictsPreviousOwner(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &domain.Settings{Hunting: true})
	linkage := domain.Handle(0x99)
	sub := []byte("substitute-code")
	h.writeSubstitute(t, contentFP(bytecode), domain.VertexShader, sub)

	other := []byte("other-shader")

	gomock.InOrder(
		h.driver.EXPECT().
			CreateShader(gomock.Any(), domain.VertexShader, sub, linkage).
			Return(domain.Handle(0x10), nil),
		// The reload record takes ownership of the linkage.
		h.driver.EXPECT().AddRef(linkage),
		// The driver hands the same handle back for an unrelated shader;
		// the stale record's linkage reference is released.
		h.driver.EXPECT().
			CreateShader(gomock.Any(), domain.VertexShader, other, domain.NilHandle).
			Return(domain.Handle(0x10), nil),
		h.driver.EXPECT().Release(linkage),
	)

	_, err := h.device.CreateVertexShader(context.Background(), bytecode, linkage)
	require.NoError(t, err)

	_, err = h.device.CreateVertexShader(context.Background(), other, domain.NilHandle)
	require.NoError(t, err)
}

func TestCreateResource_AppliesOverrideRule(t *testing.T) {
	t.Parallel()

	desc := &domain.ResourceDesc{Width: 1920, Height: 1080, Format: 10}
	payload := []byte("texels")

	// Predict the fingerprint by running the same derivation.
	hash, _ := fingerprintFor(t, desc, payload)

	h := newHarness(t, &domain.Settings{
		TextureOverrides: []*domain.OverrideRule{
			{Fingerprint: hash, Width: 3840, Format: domain.FormatUnset, StereoMode: domain.StereoUnset},
		},
	})

	h.driver.EXPECT().
		CreateResource(gomock.Any(), gomock.Any(), payload).
		DoAndReturn(func(_ context.Context, got *domain.ResourceDesc, _ []byte) (domain.Handle, error) {
			assert.Equal(t, uint32(3840), got.Width)
			assert.Equal(t, uint32(1080), got.Height)
			return domain.Handle(0x30), nil
		})

	handle, err := h.device.CreateTexture2D(context.Background(), desc, payload)
	require.NoError(t, err)

	rec, ok := h.device.ResourceRecord(handle)
	require.True(t, ok)
	assert.Equal(t, hash, rec.Fingerprint)
	assert.Equal(t, uint32(3840), rec.Desc.Width)
}

// fingerprintFor derives the resource fingerprint exactly as the engine does.
func fingerprintFor(t *testing.T, desc *domain.ResourceDesc, payload []byte) (domain.ResourceFingerprint, domain.ResourceFingerprint) {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	d := *desc
	d.Kind = domain.ResourceTexture2D
	return fingerprint.New(domain.HashContent, log).Resource(&d, payload)
}

func TestCreateResource_StereoModeScope(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &domain.Settings{SquareSurfaceMode: domain.StereoForceMono})

	desc := &domain.ResourceDesc{Width: 512, Height: 512, Format: 10}

	gomock.InOrder(
		h.modeCtl.EXPECT().SurfaceCreationMode().Return(domain.StereoAutomatic, nil),
		h.modeCtl.EXPECT().SetSurfaceCreationMode(domain.StereoForceMono).Return(nil),
		h.driver.EXPECT().
			CreateResource(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(domain.Handle(0x40), nil),
		h.modeCtl.EXPECT().SetSurfaceCreationMode(domain.StereoAutomatic).Return(nil),
	)

	_, err := h.device.CreateTexture2D(context.Background(), desc, nil)
	require.NoError(t, err)
}

func TestCreateResource_ModeRestoredOnFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &domain.Settings{SquareSurfaceMode: domain.StereoForceMono})

	desc := &domain.ResourceDesc{Width: 512, Height: 512, Format: 10}

	gomock.InOrder(
		h.modeCtl.EXPECT().SurfaceCreationMode().Return(domain.StereoAutomatic, nil),
		h.modeCtl.EXPECT().SetSurfaceCreationMode(domain.StereoForceMono).Return(nil),
		h.driver.EXPECT().
			CreateResource(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(domain.NilHandle, assert.AnError),
		h.modeCtl.EXPECT().SetSurfaceCreationMode(domain.StereoAutomatic).Return(nil),
	)

	_, err := h.device.CreateTexture2D(context.Background(), desc, nil)
	require.Error(t, err)
	require.ErrorContains(t, err, assert.AnError.Error())
}

func TestReloadFixes_SwapsChangedSource(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &domain.Settings{Hunting: true})
	fp := contentFP(bytecode)
	sub := []byte("substitute-v1")
	h.writeSubstitute(t, fp, domain.VertexShader, sub)

	h.driver.EXPECT().
		CreateShader(gomock.Any(), domain.VertexShader, sub, domain.NilHandle).
		Return(domain.Handle(0x10), nil)

	handle, err := h.device.CreateVertexShader(context.Background(), bytecode, domain.NilHandle)
	require.NoError(t, err)

	// The author edits the fix: new binary, newer stamp.
	sub2 := []byte("substitute-v2")
	binPath := filepath.Join(h.fixesDir, domain.ReplaceBinaryName(fp, domain.VertexShader))
	txtPath := filepath.Join(h.fixesDir, domain.ReplaceSourceName(fp, domain.VertexShader))
	require.NoError(t, os.WriteFile(binPath, sub2, 0o644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(txtPath, later, later))
	require.NoError(t, os.Chtimes(binPath, later, later))

	h.driver.EXPECT().
		CreateShader(gomock.Any(), domain.VertexShader, sub2, domain.NilHandle).
		Return(domain.Handle(0x50), nil)

	reloaded, err := h.device.ReloadFixes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded)

	repl, ok := h.device.Replacement(handle)
	require.True(t, ok)
	assert.Equal(t, domain.Handle(0x50), repl)
}

func TestReloadFixes_PicksUpFixDroppedInAfterCreation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &domain.Settings{Hunting: true})
	fp := contentFP(bytecode)

	h.driver.EXPECT().
		CreateShader(gomock.Any(), domain.VertexShader, bytecode, domain.NilHandle).
		Return(domain.Handle(0x10), nil)

	handle, err := h.device.CreateVertexShader(context.Background(), bytecode, domain.NilHandle)
	require.NoError(t, err)

	// The fix arrives only after the shader went live.
	sub := []byte("substitute-v1")
	h.writeSubstitute(t, fp, domain.VertexShader, sub)

	h.driver.EXPECT().
		CreateShader(gomock.Any(), domain.VertexShader, sub, domain.NilHandle).
		Return(domain.Handle(0x50), nil)

	reloaded, err := h.device.ReloadFixes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded)

	repl, ok := h.device.Replacement(handle)
	require.True(t, ok)
	assert.Equal(t, domain.Handle(0x50), repl)
}

func TestReloadFixes_UnchangedSourceIsSkipped(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &domain.Settings{Hunting: true})
	fp := contentFP(bytecode)
	sub := []byte("substitute-v1")
	h.writeSubstitute(t, fp, domain.VertexShader, sub)

	h.driver.EXPECT().
		CreateShader(gomock.Any(), domain.VertexShader, sub, domain.NilHandle).
		Return(domain.Handle(0x10), nil)

	_, err := h.device.CreateVertexShader(context.Background(), bytecode, domain.NilHandle)
	require.NoError(t, err)

	reloaded, err := h.device.ReloadFixes(context.Background())
	require.NoError(t, err)
	assert.Zero(t, reloaded)
}
