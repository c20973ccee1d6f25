package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/zerr"
)

// includeDirective pulls another source file into the compilation unit,
// resolved relative to the including file:
//
//	//!include "lighting.wgsl"
const includeDirective = "//!include"

// maxIncludeDepth bounds include recursion so an include cycle fails
// instead of spinning.
const maxIncludeDepth = 16

// Compiler compiles WGSL source to SPIR-V through the staged naga
// pipeline, surfacing validation findings as diagnostics text.
type Compiler struct {
	Logger ports.Logger
}

// NewCompiler creates the WGSL compiler adapter.
func NewCompiler(log ports.Logger) *Compiler {
	return &Compiler{Logger: log}
}

// Compile implements ports.Compiler.
func (c *Compiler) Compile(ctx context.Context, source, targetModel, sourcePath string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	kind, version, err := ParseModel(targetModel)
	if err != nil {
		return nil, "", err
	}

	expanded, err := expandIncludes(source, filepath.Dir(sourcePath), 0)
	if err != nil {
		return nil, "", err
	}

	ast, err := naga.Parse(expanded)
	if err != nil {
		return nil, "", zerr.Wrap(err, "failed to parse source")
	}
	module, err := naga.LowerWithSource(ast, expanded)
	if err != nil {
		return nil, "", zerr.Wrap(err, "failed to lower source")
	}

	var diags []string
	if note := stageNote(module, kind); note != "" {
		diags = append(diags, note)
	}

	findings, err := naga.Validate(module)
	if err != nil {
		return nil, strings.Join(diags, "\n"), zerr.Wrap(err, "validation aborted")
	}
	if len(findings) > 0 {
		for _, f := range findings {
			diags = append(diags, f.Error())
		}
		return nil, strings.Join(diags, "\n"), zerr.With(
			zerr.New("source failed validation"), "findings", len(findings))
	}

	code, err := naga.GenerateSPIRV(module, spirv.Options{
		Version:    version,
		Validation: true,
	})
	if err != nil {
		return nil, strings.Join(diags, "\n"), zerr.Wrap(err, "failed to generate code")
	}
	return code, strings.Join(diags, "\n"), nil
}

// stageNote reports when the compiled module carries no entry point for
// the stage the target model names. The mismatch is not fatal, the host
// decides what to bind, but the author should see it.
func stageNote(module *ir.Module, kind domain.ShaderKind) string {
	var want ir.ShaderStage
	switch kind {
	case domain.VertexShader:
		want = ir.StageVertex
	case domain.PixelShader:
		want = ir.StageFragment
	case domain.ComputeShader:
		want = ir.StageCompute
	default:
		return fmt.Sprintf("target stage %q cannot be expressed in WGSL, compiling declared entry points as-is", kind)
	}
	for _, ep := range module.EntryPoints {
		if ep.Stage == want {
			return ""
		}
	}
	return fmt.Sprintf("source declares no %q entry point", kind)
}

// expandIncludes resolves include directives against baseDir, depth-first.
func expandIncludes(source, baseDir string, depth int) (string, error) {
	if !strings.Contains(source, includeDirective) {
		return source, nil
	}
	if depth >= maxIncludeDepth {
		return "", zerr.With(zerr.New("include depth limit exceeded"), "dir", baseDir)
	}

	var sb strings.Builder
	for _, line := range strings.SplitAfter(source, "\n") {
		name, ok := includeTarget(line)
		if !ok {
			sb.WriteString(line)
			continue
		}

		path := filepath.Join(baseDir, name)
		raw, err := os.ReadFile(path) //nolint:gosec // path comes from the fix author's own source tree
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to read include"), "path", path)
		}
		expanded, err := expandIncludes(string(raw), filepath.Dir(path), depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(expanded)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// includeTarget extracts the quoted file name from an include directive
// line, if the line is one.
func includeTarget(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, includeDirective)
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", false
	}
	return rest[1 : len(rest)-1], true
}
