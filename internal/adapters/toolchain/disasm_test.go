package toolchain_test

import (
	"encoding/binary"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/standin/internal/adapters/toolchain"
	"go.trai.ch/standin/internal/core/domain"
)

// testModule assembles a minimal but valid SPIR-V module: an empty entry
// point of the given execution model.
func testModule(executionModel uint32) []byte {
	words := []uint32{
		0x07230203, // magic
		0x00010300, // version 1.3
		0x00000000, // generator
		6,          // bound
		0,          // schema

		0x00020011, 1, // OpCapability Shader
		0x0003000e, 0, 1, // OpMemoryModel Logical GLSL450
		0x0005000f, executionModel, 4, 0x6e69616d, 0, // OpEntryPoint ... %_4 "main"
		0x00020013, 2, // %_2 = OpTypeVoid
		0x00030021, 3, 2, // %_3 = OpTypeFunction %_2
		0x00050036, 2, 4, 0, 3, // %_4 = OpFunction %_2 None %_3
		0x000200f8, 5, // %_5 = OpLabel
		0x000100fd, // OpReturn
		0x00010038, // OpFunctionEnd
	}

	out := make([]byte, 0, len(words)*4)
	for _, w := range words {
		out = binary.LittleEndian.AppendUint32(out, w)
	}
	return out
}

func TestDisassemble_VertexModule(t *testing.T) {
	t.Parallel()

	disasm := toolchain.NewDisassembler(newTestLogger(t))

	listing, err := disasm.Disassemble(testModule(0))
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "vertex_listing", []byte(listing))
}

func TestDisassemble_RejectsGarbage(t *testing.T) {
	t.Parallel()

	disasm := toolchain.NewDisassembler(newTestLogger(t))

	_, err := disasm.Disassemble([]byte("short"))
	require.ErrorContains(t, err, domain.ErrMalformedContainer.Error())

	notSPIRV := make([]byte, 24)
	_, err = disasm.Disassemble(notSPIRV)
	require.ErrorContains(t, err, domain.ErrMalformedContainer.Error())
}

func TestDisassemble_TruncatedInstructionStream(t *testing.T) {
	t.Parallel()

	disasm := toolchain.NewDisassembler(newTestLogger(t))

	module := testModule(0)
	_, err := disasm.Disassemble(module[:len(module)-2])
	require.ErrorContains(t, err, domain.ErrMalformedContainer.Error())
}

func TestDisassemble_InstructionShortForOpcode(t *testing.T) {
	t.Parallel()

	// A word count that fits the buffer can still be short for its opcode;
	// here an OpEntryPoint declares two words where four is the floor. The
	// walker must reject it instead of letting the formatter index past the
	// operands.
	words := []uint32{
		0x07230203, 0x00010300, 0, 2, 0,
		0x0002000f, 0, // OpEntryPoint with a single operand
	}
	module := make([]byte, 0, len(words)*4)
	for _, w := range words {
		module = binary.LittleEndian.AppendUint32(module, w)
	}

	disasm := toolchain.NewDisassembler(newTestLogger(t))

	_, err := disasm.Disassemble(module)
	require.ErrorContains(t, err, domain.ErrMalformedContainer.Error())

	_, err = disasm.DetectModel(module)
	require.ErrorContains(t, err, domain.ErrMalformedContainer.Error())
}

func TestDetectModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		executionModel uint32
		want           string
	}{
		{name: "vertex", executionModel: 0, want: "vs_1_3"},
		{name: "fragment", executionModel: 4, want: "ps_1_3"},
		{name: "compute", executionModel: 5, want: "cs_1_3"},
		{name: "geometry", executionModel: 3, want: "gs_1_3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			disasm := toolchain.NewDisassembler(newTestLogger(t))

			model, err := disasm.DetectModel(testModule(tt.executionModel))
			require.NoError(t, err)
			assert.Equal(t, tt.want, model)
		})
	}
}

func TestDetectModel_NoEntryPoint(t *testing.T) {
	t.Parallel()

	words := []uint32{
		0x07230203, 0x00010300, 0, 2, 0,
		0x00020011, 1, // OpCapability Shader
	}
	module := make([]byte, 0, len(words)*4)
	for _, w := range words {
		module = binary.LittleEndian.AppendUint32(module, w)
	}

	disasm := toolchain.NewDisassembler(newTestLogger(t))

	_, err := disasm.DetectModel(module)
	require.ErrorContains(t, err, domain.ErrUnknownModel.Error())
}
