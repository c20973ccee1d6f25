// Package toolchain adapts the shader build tools behind the engine's
// compiler, disassembler, assembler and decompiler ports. High-level
// sources are WGSL text, binaries are SPIR-V modules, and listings are the
// spvasm-style text format with raw instruction words in trailing comments
// so a listing can be reassembled bit-exact.
package toolchain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/naga/spirv"
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/zerr"
)

// Shader model strings pair a pipeline stage with the SPIR-V version the
// binary targets, e.g. "vs_1_3" or "ps_1_5".

// supportedVersions are the SPIR-V versions the compiler backend can emit.
var supportedVersions = map[string]spirv.Version{
	"1_0": spirv.Version1_0,
	"1_3": spirv.Version1_3,
	"1_4": spirv.Version1_4,
	"1_5": spirv.Version1_5,
	"1_6": spirv.Version1_6,
}

// ParseModel splits a shader model string into its stage and target
// version.
func ParseModel(model string) (domain.ShaderKind, spirv.Version, error) {
	kindStr, versionStr, ok := strings.Cut(model, "_")
	if !ok {
		return "", spirv.Version{}, zerr.With(domain.ErrUnknownModel, "model", model)
	}
	kind := domain.ShaderKind(kindStr)
	if !kind.Valid() {
		return "", spirv.Version{}, zerr.With(domain.ErrUnknownModel, "model", model)
	}
	version, ok := supportedVersions[versionStr]
	if !ok {
		return "", spirv.Version{}, zerr.With(domain.ErrUnknownModel, "model", model)
	}
	return kind, version, nil
}

// FormatModel is the inverse of ParseModel.
func FormatModel(kind domain.ShaderKind, major, minor uint32) string {
	return fmt.Sprintf("%s_%d_%d", kind, major, minor)
}

// SPIR-V execution models, mapped to the pipeline stages they correspond
// to.
var executionModelKinds = map[uint32]domain.ShaderKind{
	0: domain.VertexShader,
	1: domain.HullShader,
	2: domain.DomainShader,
	3: domain.GeometryShader,
	4: domain.PixelShader,
	5: domain.ComputeShader,
}

var executionModelNames = map[uint32]string{
	0: "Vertex",
	1: "TessellationControl",
	2: "TessellationEvaluation",
	3: "Geometry",
	4: "Fragment",
	5: "GLCompute",
	6: "Kernel",
}

// kindForExecutionModelName maps a listing's execution model token back to
// a pipeline stage.
func kindForExecutionModelName(name string) (domain.ShaderKind, bool) {
	for value, n := range executionModelNames {
		if n == name {
			kind, ok := executionModelKinds[value]
			return kind, ok
		}
	}
	return "", false
}

// parseVersionComment extracts major and minor from a "; Version: 1.3"
// listing header line.
func parseVersionComment(line string) (major, minor uint32, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), "; Version:")
	if !found {
		return 0, 0, false
	}
	majStr, minStr, found := strings.Cut(strings.TrimSpace(rest), ".")
	if !found {
		return 0, 0, false
	}
	maj, err := strconv.ParseUint(majStr, 10, 8)
	if err != nil {
		return 0, 0, false
	}
	min, err := strconv.ParseUint(minStr, 10, 8)
	if err != nil {
		return 0, 0, false
	}
	return uint32(maj), uint32(min), true
}
