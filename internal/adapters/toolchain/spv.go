package toolchain

import (
	"encoding/binary"
	"strings"

	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	spirvMagic      = 0x07230203
	spirvHeaderSize = 20

	opEntryPoint = 15
)

// moduleHeader is the fixed five-word SPIR-V module preamble.
type moduleHeader struct {
	Magic     uint32
	Version   uint32
	Generator uint32
	Bound     uint32
	Schema    uint32
}

func (h moduleHeader) versionMajor() uint32 { return (h.Version >> 16) & 0xFF }
func (h moduleHeader) versionMinor() uint32 { return (h.Version >> 8) & 0xFF }

// instruction is one decoded instruction. Words holds every word including
// the leading opcode/word-count word.
type instruction struct {
	Opcode uint16
	Words  []uint32
}

// operands returns the words after the leading opcode word.
func (i instruction) operands() []uint32 {
	return i.Words[1:]
}

// literalString decodes the NUL-terminated UTF-8 literal starting at
// operand index start, returning the string and the number of words it
// occupied.
func (i instruction) literalString(start int) (string, int) {
	var sb strings.Builder
	ops := i.operands()
	for w := start; w < len(ops); w++ {
		word := ops[w]
		for shift := 0; shift < 32; shift += 8 {
			b := byte(word >> shift)
			if b == 0 {
				return sb.String(), w - start + 1
			}
			sb.WriteByte(b)
		}
	}
	return sb.String(), len(ops) - start
}

// parseHeader validates the module preamble.
func parseHeader(data []byte) (moduleHeader, error) {
	if len(data) < spirvHeaderSize {
		return moduleHeader{}, zerr.With(domain.ErrMalformedContainer, "reason", "truncated header")
	}
	h := moduleHeader{
		Magic:     binary.LittleEndian.Uint32(data[0:]),
		Version:   binary.LittleEndian.Uint32(data[4:]),
		Generator: binary.LittleEndian.Uint32(data[8:]),
		Bound:     binary.LittleEndian.Uint32(data[12:]),
		Schema:    binary.LittleEndian.Uint32(data[16:]),
	}
	if h.Magic != spirvMagic {
		return moduleHeader{}, zerr.With(domain.ErrMalformedContainer, "reason", "bad magic")
	}
	return h, nil
}

// walkInstructions decodes the instruction stream after the header and
// calls fn for each instruction. Iteration stops when fn returns false.
// Instructions shorter than their opcode's minimum word count are rejected
// so downstream formatters can index fixed operand positions safely.
func walkInstructions(data []byte, fn func(ins instruction) bool) error {
	offset := spirvHeaderSize
	for offset+4 <= len(data) {
		word := binary.LittleEndian.Uint32(data[offset:])
		wordCount := int(word >> 16)
		opcode := uint16(word & 0xFFFF)
		if wordCount == 0 || offset+wordCount*4 > len(data) {
			return zerr.With(domain.ErrMalformedContainer, "offset", offset)
		}
		if floor, ok := opcodeMinWords[opcode]; ok && wordCount < floor {
			return zerr.With(zerr.With(domain.ErrMalformedContainer, "reason", "truncated instruction"), "offset", offset)
		}

		words := make([]uint32, wordCount)
		for i := range words {
			words[i] = binary.LittleEndian.Uint32(data[offset+i*4:])
		}
		if !fn(instruction{Opcode: opcode, Words: words}) {
			return nil
		}
		offset += wordCount * 4
	}
	if offset != len(data) {
		return zerr.With(domain.ErrMalformedContainer, "offset", offset)
	}
	return nil
}
