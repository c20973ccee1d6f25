// Package fingerprint derives stable identities for opaque binary blobs.
package fingerprint

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
)

// Engine computes fingerprints for shader bytecode and resource
// descriptions. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	mode domain.HashMode
	log  ports.Logger
}

// New creates a fingerprint engine for the given hash mode.
func New(mode domain.HashMode, log ports.Logger) *Engine {
	return &Engine{mode: mode, log: log}
}

// Shader computes the identity of a shader binary. The embedded and
// section-filtered modes fall back to the content hash when the blob is too
// short to carry a container header or its section table fails bounds
// checks; a malformed binary is never fatal.
func (e *Engine) Shader(bytecode []byte) domain.Fingerprint {
	switch e.mode {
	case domain.HashEmbedded:
		if hasContainerHeader(bytecode) {
			hash := domain.Fingerprint(embeddedHash(bytecode))
			e.log.Debug(fmt.Sprintf("embedded hash = %s", hash))
			return hash
		}
	case domain.HashSections:
		if hasContainerHeader(bytecode) {
			if hash := sectionHash(bytecode); hash != 0 {
				fp := domain.Fingerprint(hash)
				e.log.Debug(fmt.Sprintf("section hash = %s", fp))
				return fp
			}
			e.log.Warn("section table failed bounds checks, falling back to content hash")
		}
	case domain.HashContent:
	}

	hash := domain.Fingerprint(xxhash.Sum64(bytecode))
	e.log.Debug(fmt.Sprintf("content hash = %s", hash))
	return hash
}

// Resource computes the identity of a buffer or texture. The raw initial
// payload (when present) is folded in first, then the full description, so
// distinct resources with identical payloads but different declared
// sizes or formats still differ. The payload-only hash is returned
// separately for contamination tracking.
func (e *Engine) Resource(desc *domain.ResourceDesc, payload []byte) (hash, payloadHash domain.ResourceFingerprint) {
	var h uint32
	if len(payload) > 0 && desc != nil {
		h = crc32c(h, payload)
		payloadHash = domain.ResourceFingerprint(h)
	}
	if desc != nil {
		h = crc32c(h, encodeDesc(desc))
	}
	return domain.ResourceFingerprint(h), payloadHash
}

// encodeDesc serializes a description into a deterministic byte layout for
// hashing. Field order is part of the fingerprint contract; changing it
// would orphan every shipped override rule.
func encodeDesc(desc *domain.ResourceDesc) []byte {
	buf := make([]byte, 0, 40)
	buf = append(buf, byte(desc.Kind), byte(desc.Usage))
	buf = binary.LittleEndian.AppendUint32(buf, desc.Width)
	buf = binary.LittleEndian.AppendUint32(buf, desc.Height)
	buf = binary.LittleEndian.AppendUint32(buf, desc.Depth)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(desc.Format))
	buf = binary.LittleEndian.AppendUint32(buf, desc.MipLevels)
	buf = binary.LittleEndian.AppendUint32(buf, desc.ArraySize)
	buf = binary.LittleEndian.AppendUint32(buf, desc.BindFlags)
	buf = binary.LittleEndian.AppendUint32(buf, desc.ByteWidth)
	return buf
}
