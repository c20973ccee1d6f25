package fingerprint

import (
	"encoding/binary"
	"hash/crc32"
)

// Shader container layout: a 4-byte magic, a 16-byte embedded digest, a
// version word, the total size, a section count, then one offset per
// section. Each section starts with a 4-byte signature and a size word.
const (
	containerMagic  = "DXBC"
	headerSize      = 32
	digestOffset    = 4
	sectionCountOff = 28
	sectionHeadSize = 8
)

// Sections whitelisted for the section-filtered hash: the program
// instructions and the input/output/patch-constant signatures. Anything
// that makes two shaders genuinely incompatible belongs here. Compiler
// version and debug metadata are deliberately excluded so builds differing
// only in toolchain or build paths fingerprint identically.
var hashWhitelistedSections = []string{
	"SHDR", "SHEX",
	"ISGN", "ISG1",
	"PCSG", "PSG1",
	"OSGN", "OSG5", "OSG1",
}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// crc32c continues a seeded Castagnoli CRC over buf.
func crc32c(seed uint32, buf []byte) uint32 {
	return crc32.Update(seed, castagnoli, buf)
}

// hasContainerHeader reports whether the blob is large enough to carry a
// container header and starts with the expected magic.
func hasContainerHeader(bytecode []byte) bool {
	return len(bytecode) >= headerSize && string(bytecode[:4]) == containerMagic
}

// embeddedHash reads the digest already present in the container header,
// byte-swapped to the canonical display order.
func embeddedHash(bytecode []byte) uint64 {
	return binary.BigEndian.Uint64(bytecode[digestOffset : digestOffset+8])
}

// sectionHash hashes only the whitelisted sections of the container.
// Returns 0 when the section table fails any bounds check; callers fall
// back to the content hash in that case.
func sectionHash(bytecode []byte) uint32 {
	numSections := int(binary.LittleEndian.Uint32(bytecode[sectionCountOff:]))
	tableEnd := headerSize + numSections*4
	if numSections < 0 || len(bytecode) < tableEnd {
		return 0
	}

	var hash uint32
	for i := 0; i < numSections; i++ {
		off := int(binary.LittleEndian.Uint32(bytecode[headerSize+i*4:]))
		if off < 0 || off+sectionHeadSize > len(bytecode) {
			return 0
		}
		sig := string(bytecode[off : off+4])
		size := int(binary.LittleEndian.Uint32(bytecode[off+4:]))
		if size < 0 || off+sectionHeadSize+size > len(bytecode) {
			return 0
		}
		for _, want := range hashWhitelistedSections {
			if sig == want {
				hash = crc32c(hash, bytecode[off+sectionHeadSize:off+sectionHeadSize+size])
				break
			}
		}
	}
	return hash
}
