package ports

import "context"

// ParseError is a single recoverable error reported while reassembling a
// listing. Parse errors at creation time are non-fatal; the partial result
// is still offered as a substitute so a fix author can see and iterate on
// their mistakes.
type ParseError struct {
	Line    int
	Message string
}

// Compiler turns high-level shader source into a binary program.
//
//go:generate mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type Compiler interface {
	// Compile compiles source against the given target model. sourcePath
	// is the on-disk location of the source, used to resolve relative
	// includes. Diagnostics are returned for logging even on success.
	Compile(ctx context.Context, source, targetModel, sourcePath string) (code []byte, diagnostics string, err error)
}

// Disassembler turns a binary program into listing text and recovers the
// declared shader model, which the compiler needs as an explicit target.
type Disassembler interface {
	// Disassemble returns the full listing for the binary.
	Disassemble(bytecode []byte) (string, error)

	// DetectModel returns the declared shader model string, e.g. "vs_1_3".
	DetectModel(bytecode []byte) (string, error)
}

// Assembler turns listing text back into a binary program.
type Assembler interface {
	// Assemble reassembles the listing, using template (the original
	// binary) as a structural reference for anything the text format
	// cannot fully re-encode. Parse errors are reported alongside the
	// partial result rather than aborting; err is non-nil only when no
	// result could be produced at all.
	Assemble(text string, template []byte) (code []byte, parseErrors []ParseError, err error)
}

// DecompileOptions configures the automatic decompile-and-patch stage.
type DecompileOptions struct {
	// FixInterpolation enables automatic interpolation-qualifier patching.
	FixInterpolation bool
}

// DecompileResult is the outcome of a decompilation.
type DecompileResult struct {
	// Source is the recovered high-level-equivalent source.
	Source string
	// Patched reports whether an automatic patch changed the code. Only a
	// patched result may be installed as a substitute; a pure export must
	// not alter what the host renders.
	Patched bool
	// Model is the shader model detected during decompilation.
	Model string
	// ErrorOccurred reports a non-fatal decompiler failure.
	ErrorOccurred bool
}

// Decompiler recovers high-level-equivalent source from a listing.
type Decompiler interface {
	Decompile(listing string, bytecode []byte, opts DecompileOptions) DecompileResult
}
