package fingerprint_test

import (
	"encoding/binary"
	"sort"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports/mocks"
	"go.trai.ch/standin/internal/engine/fingerprint"
	"go.uber.org/mock/gomock"
)

func newEngine(t *testing.T, mode domain.HashMode) *fingerprint.Engine {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	return fingerprint.New(mode, log)
}

// buildContainer assembles a minimal valid shader container with the given
// sections, mirroring the layout the section-filtered mode parses: magic,
// 16-byte digest, version, total size, section count, offset table, then
// the sections themselves.
func buildContainer(t *testing.T, digest [16]byte, sections map[string][]byte) []byte {
	t.Helper()

	names := make([]string, 0, len(sections))
	for name := range sections {
		require.Len(t, name, 4)
		names = append(names, name)
	}
	// Section order is part of the hash; keep it deterministic.
	sort.Strings(names)

	headerLen := 32 + 4*len(names)
	total := headerLen
	for _, name := range names {
		total += 8 + len(sections[name])
	}

	buf := make([]byte, 0, total)
	buf = append(buf, "DXBC"...)
	buf = append(buf, digest[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, 1)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(total))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(names)))

	off := headerLen
	for _, name := range names {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(off))
		off += 8 + len(sections[name])
	}
	for _, name := range names {
		buf = append(buf, name...)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(sections[name])))
		buf = append(buf, sections[name]...)
	}

	require.Len(t, buf, total)
	return buf
}

func TestShader_ContentMode(t *testing.T) {
	t.Parallel()

	e := newEngine(t, domain.HashContent)
	code := []byte("some shader bytecode")

	assert.Equal(t, domain.Fingerprint(xxhash.Sum64(code)), e.Shader(code))
	assert.Equal(t, e.Shader(code), e.Shader(code))
}

func TestShader_EmbeddedMode(t *testing.T) {
	t.Parallel()

	e := newEngine(t, domain.HashEmbedded)

	digest := [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}
	code := buildContainer(t, digest, map[string][]byte{"SHDR": []byte("prog")})

	// The first eight digest bytes, read in display order.
	assert.Equal(t, domain.Fingerprint(0x123456789abcdef0), e.Shader(code))
}

func TestShader_EmbeddedModeFallsBackWithoutHeader(t *testing.T) {
	t.Parallel()

	e := newEngine(t, domain.HashEmbedded)
	code := []byte("short")

	assert.Equal(t, domain.Fingerprint(xxhash.Sum64(code)), e.Shader(code))
}

func TestShader_SectionMode(t *testing.T) {
	t.Parallel()

	e := newEngine(t, domain.HashSections)

	withDebug := buildContainer(t, [16]byte{1}, map[string][]byte{
		"SHDR": []byte("program"),
		"ISGN": []byte("inputs"),
		"SDBG": []byte("debug-info-a"),
	})
	differentDebug := buildContainer(t, [16]byte{2}, map[string][]byte{
		"SHDR": []byte("program"),
		"ISGN": []byte("inputs"),
		"SDBG": []byte("debug-info-b"),
	})
	differentProgram := buildContainer(t, [16]byte{1}, map[string][]byte{
		"SHDR": []byte("other-program"),
		"ISGN": []byte("inputs"),
		"SDBG": []byte("debug-info-a"),
	})

	// Builds differing only in non-whitelisted sections or the embedded
	// digest fingerprint identically.
	assert.Equal(t, e.Shader(withDebug), e.Shader(differentDebug))
	assert.NotEqual(t, e.Shader(withDebug), e.Shader(differentProgram))
}

func TestShader_SectionModeBoundsFailureFallsBack(t *testing.T) {
	t.Parallel()

	e := newEngine(t, domain.HashSections)

	code := buildContainer(t, [16]byte{1}, map[string][]byte{"SHDR": []byte("prog")})
	// Corrupt the first section offset to point past the end.
	binary.LittleEndian.PutUint32(code[32:], uint32(len(code)+100))

	assert.Equal(t, domain.Fingerprint(xxhash.Sum64(code)), e.Shader(code))
}

func TestResource_PayloadFoldedFirst(t *testing.T) {
	t.Parallel()

	e := newEngine(t, domain.HashContent)
	desc := &domain.ResourceDesc{Kind: domain.ResourceTexture2D, Width: 64, Height: 64, Format: 10}

	withPayload, payloadHash := e.Resource(desc, []byte("texels"))
	withoutPayload, noPayloadHash := e.Resource(desc, nil)

	assert.NotZero(t, payloadHash)
	assert.Zero(t, noPayloadHash)
	assert.NotEqual(t, withPayload, withoutPayload)
}

func TestResource_DescriptionChangesHash(t *testing.T) {
	t.Parallel()

	e := newEngine(t, domain.HashContent)
	a := &domain.ResourceDesc{Kind: domain.ResourceTexture2D, Width: 64, Height: 64, Format: 10}
	b := &domain.ResourceDesc{Kind: domain.ResourceTexture2D, Width: 64, Height: 64, Format: 11}

	hashA, _ := e.Resource(a, []byte("texels"))
	hashB, _ := e.Resource(b, []byte("texels"))

	assert.NotEqual(t, hashA, hashB)
}

func TestResource_NilDesc(t *testing.T) {
	t.Parallel()

	e := newEngine(t, domain.HashContent)

	hash, payloadHash := e.Resource(nil, []byte("texels"))
	assert.Zero(t, hash)
	assert.Zero(t, payloadHash)
}
