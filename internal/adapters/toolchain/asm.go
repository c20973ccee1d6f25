package toolchain

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/zerr"
)

// Assembler reassembles a listing into a SPIR-V module from the raw-word
// comments the disassembler emits. The original binary serves as the
// template for the module header; the bound is taken from the listing so
// an edited listing can raise it.
type Assembler struct {
	Logger ports.Logger
}

// NewAssembler creates the listing assembler.
func NewAssembler(log ports.Logger) *Assembler {
	return &Assembler{Logger: log}
}

// Assemble implements ports.Assembler. Lines that cannot be parsed are
// skipped and reported; the partial module is still returned so the
// author can see the damage in-engine instead of a black screen.
func (a *Assembler) Assemble(text string, template []byte) ([]byte, []ports.ParseError, error) {
	header, err := parseHeader(template)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "template binary unusable")
	}

	var (
		body       []uint32
		parseErrs  []ports.ParseError
		boundSeen  bool
		boundValue uint32
	)

	for n, line := range strings.Split(text, "\n") {
		lineNo := n + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ";") {
			if v, ok := parseBoundComment(trimmed); ok {
				boundValue, boundSeen = v, true
			}
			continue
		}

		words, perr := parseRawWords(trimmed, lineNo)
		if perr != nil {
			parseErrs = append(parseErrs, *perr)
			continue
		}
		body = append(body, words...)
	}

	if boundSeen {
		header.Bound = boundValue
	}

	out := make([]byte, 0, spirvHeaderSize+len(body)*4)
	out = appendWord(out, header.Magic)
	out = appendWord(out, header.Version)
	out = appendWord(out, header.Generator)
	out = appendWord(out, header.Bound)
	out = appendWord(out, header.Schema)
	for _, w := range body {
		out = appendWord(out, w)
	}
	return out, parseErrs, nil
}

// parseRawWords extracts and validates the instruction words from one
// listing line. The leading word's encoded count must match the number of
// words present, otherwise a partial edit would silently corrupt every
// instruction after it.
func parseRawWords(line string, lineNo int) ([]uint32, *ports.ParseError) {
	_, raw, ok := strings.Cut(line, ";")
	if !ok {
		return nil, &ports.ParseError{Line: lineNo, Message: "missing raw-word comment"}
	}

	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, &ports.ParseError{Line: lineNo, Message: "empty raw-word comment"}
	}

	words := make([]uint32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 16, 32)
		if err != nil {
			return nil, &ports.ParseError{Line: lineNo, Message: fmt.Sprintf("invalid instruction word %q", f)}
		}
		words = append(words, uint32(v))
	}

	if wc := int(words[0] >> 16); wc != len(words) {
		return nil, &ports.ParseError{
			Line:    lineNo,
			Message: fmt.Sprintf("declared word count %d does not match %d raw words", wc, len(words)),
		}
	}
	return words, nil
}

// parseBoundComment extracts the id bound from a "; Bound: N" header line.
func parseBoundComment(line string) (uint32, bool) {
	rest, ok := strings.CutPrefix(line, "; Bound:")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func appendWord(out []byte, w uint32) []byte {
	return binary.LittleEndian.AppendUint32(out, w)
}
