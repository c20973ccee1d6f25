package toolchain

import (
	"fmt"
	"strings"

	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/zerr"
)

// rawWordColumn is where the raw-word comment starts on an instruction
// line. Lines whose text runs past it get a single separating space.
const rawWordColumn = 55

// Disassembler renders SPIR-V modules as listing text. Every instruction
// line carries the raw instruction words in a trailing comment, which is
// what the assembler reassembles from.
type Disassembler struct {
	Logger ports.Logger
}

// NewDisassembler creates the listing disassembler.
func NewDisassembler(log ports.Logger) *Disassembler {
	return &Disassembler{Logger: log}
}

// Disassemble implements ports.Disassembler.
func (d *Disassembler) Disassemble(bytecode []byte) (string, error) {
	header, err := parseHeader(bytecode)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("; SPIR-V\n")
	fmt.Fprintf(&sb, "; Version: %d.%d\n", header.versionMajor(), header.versionMinor())
	fmt.Fprintf(&sb, "; Generator: 0x%08X\n", header.Generator)
	fmt.Fprintf(&sb, "; Bound: %d\n", header.Bound)
	fmt.Fprintf(&sb, "; Schema: %d\n", header.Schema)
	sb.WriteString("\n")

	err = walkInstructions(bytecode, func(ins instruction) bool {
		text := formatInstruction(ins)
		sb.WriteString(text)
		if pad := rawWordColumn - len(text); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		} else {
			sb.WriteString(" ")
		}
		sb.WriteString(";")
		for _, w := range ins.Words {
			fmt.Fprintf(&sb, " %08x", w)
		}
		sb.WriteString("\n")
		return true
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// DetectModel implements ports.Disassembler. The model pairs the entry
// point's pipeline stage with the module's declared version.
func (d *Disassembler) DetectModel(bytecode []byte) (string, error) {
	header, err := parseHeader(bytecode)
	if err != nil {
		return "", err
	}

	var kind domain.ShaderKind
	found := false
	err = walkInstructions(bytecode, func(ins instruction) bool {
		if ins.Opcode != opEntryPoint || len(ins.operands()) < 2 {
			return true
		}
		kind, found = executionModelKinds[ins.operands()[0]]
		return false
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", zerr.With(domain.ErrUnknownModel, "reason", "no entry point declaration")
	}
	return FormatModel(kind, header.versionMajor(), header.versionMinor()), nil
}

func id(n uint32) string {
	return fmt.Sprintf("%%_%d", n)
}

func lookupName(names map[uint32]string, value uint32) string {
	if s, ok := names[value]; ok {
		return s
	}
	return fmt.Sprintf("%d", value)
}

// formatInstruction renders the assembly text for one instruction.
// Result-carrying lines are indented so the "=" signs line up, matching
// the usual spvasm layout.
//
//nolint:gocognit,gocyclo,cyclop,funlen // one case per instruction class
func formatInstruction(ins instruction) string {
	name, ok := opcodeNames[ins.Opcode]
	if !ok {
		name = fmt.Sprintf("Op%d", ins.Opcode)
	}
	ops := ins.operands()

	plain := func(parts ...string) string {
		return "               " + strings.Join(parts, " ")
	}
	result := func(res uint32, parts ...string) string {
		return "         " + id(res) + " = " + strings.Join(parts, " ")
	}
	idList := func(from int) string {
		var b strings.Builder
		for i := from; i < len(ops); i++ {
			b.WriteString(" ")
			b.WriteString(id(ops[i]))
		}
		return b.String()
	}
	numList := func(from int) string {
		var b strings.Builder
		for i := from; i < len(ops); i++ {
			fmt.Fprintf(&b, " %d", ops[i])
		}
		return b.String()
	}

	switch ins.Opcode {
	case 17: // OpCapability
		return plain(name, lookupName(capabilityNames, ops[0]))
	case 10, 4: // OpExtension, OpSourceExtension
		str, _ := ins.literalString(0)
		return plain(name, fmt.Sprintf("%q", str))
	case 11: // OpExtInstImport
		str, _ := ins.literalString(1)
		return result(ops[0], name, fmt.Sprintf("%q", str))
	case 14: // OpMemoryModel
		return plain(name, lookupName(addressingModelNames, ops[0]), lookupName(memoryModelNames, ops[1]))
	case 15: // OpEntryPoint
		str, strWords := ins.literalString(2)
		text := plain(name, lookupName(executionModelNames, ops[0]), id(ops[1]), fmt.Sprintf("%q", str))
		return text + idList(2+strWords)
	case 16: // OpExecutionMode
		return plain(name, id(ops[0]), lookupName(executionModeNames, ops[1])) + numList(2)
	case 5: // OpName
		str, _ := ins.literalString(1)
		return plain(name, id(ops[0]), fmt.Sprintf("%q", str))
	case 6: // OpMemberName
		str, _ := ins.literalString(2)
		return plain(name, id(ops[0]), fmt.Sprintf("%d", ops[1]), fmt.Sprintf("%q", str))
	case 71: // OpDecorate
		text := plain(name, id(ops[0]), lookupName(decorationNames, ops[1]))
		if ops[1] == 11 && len(ops) > 2 { // BuiltIn
			return text + " " + lookupName(builtinNames, ops[2])
		}
		return text + numList(2)
	case 72: // OpMemberDecorate
		text := plain(name, id(ops[0]), fmt.Sprintf("%d", ops[1]), lookupName(decorationNames, ops[2]))
		return text + numList(3)
	case 19, 20, 26: // OpTypeVoid, OpTypeBool, OpTypeSampler
		return result(ops[0], name)
	case 21: // OpTypeInt
		return result(ops[0], name, fmt.Sprintf("%d", ops[1]), fmt.Sprintf("%d", ops[2]))
	case 22: // OpTypeFloat
		return result(ops[0], name, fmt.Sprintf("%d", ops[1]))
	case 23, 24: // OpTypeVector, OpTypeMatrix
		return result(ops[0], name, id(ops[1]), fmt.Sprintf("%d", ops[2]))
	case 25: // OpTypeImage
		return result(ops[0], name, id(ops[1]), lookupName(dimNames, ops[2])) + numList(3)
	case 27: // OpTypeSampledImage
		return result(ops[0], name, id(ops[1]))
	case 28: // OpTypeArray
		return result(ops[0], name, id(ops[1]), id(ops[2]))
	case 29: // OpTypeRuntimeArray
		return result(ops[0], name, id(ops[1]))
	case 30: // OpTypeStruct
		return result(ops[0], name) + idList(1)
	case 32: // OpTypePointer
		return result(ops[0], name, lookupName(storageClassNames, ops[1]), id(ops[2]))
	case 33: // OpTypeFunction
		return result(ops[0], name, id(ops[1])) + idList(2)
	case 43, 50: // OpConstant, OpSpecConstant
		return result(ops[1], name, id(ops[0])) + numList(2)
	case 41, 42, 46: // OpConstantTrue, OpConstantFalse, OpConstantNull
		return result(ops[1], name, id(ops[0]))
	case 44: // OpConstantComposite
		return result(ops[1], name, id(ops[0])) + idList(2)
	case 54: // OpFunction
		return result(ops[1], name, id(ops[0]), "None", id(ops[3]))
	case 55: // OpFunctionParameter
		return result(ops[1], name, id(ops[0]))
	case 56, 253, 252, 255: // OpFunctionEnd, OpReturn, OpKill, OpUnreachable
		return plain(name)
	case 59: // OpVariable
		return result(ops[1], name, id(ops[0]), lookupName(storageClassNames, ops[2])) + idList(3)
	case 62: // OpStore
		return plain(name, id(ops[0]), id(ops[1])) + numList(2)
	case 81: // OpCompositeExtract
		return result(ops[1], name, id(ops[0]), id(ops[2])) + numList(3)
	case 79: // OpVectorShuffle
		return result(ops[1], name, id(ops[0]), id(ops[2]), id(ops[3])) + numList(4)
	case 248: // OpLabel
		return result(ops[0], name)
	case 249: // OpBranch
		return plain(name, id(ops[0]))
	case 254: // OpReturnValue
		return plain(name, id(ops[0]))
	default:
		// Result-carrying fallback: type then result then id operands.
		if len(ops) >= 2 && hasTypedResult(ins.Opcode) {
			return result(ops[1], name, id(ops[0])) + idList(2)
		}
		return plain(name) + idList(0)
	}
}

// hasTypedResult reports whether the opcode's first two operands are a
// result type and a result id. Covers the value-producing instruction
// ranges the formatter has no dedicated case for.
func hasTypedResult(opcode uint16) bool {
	switch {
	case opcode == 12: // OpExtInst
		return true
	case opcode == 57, opcode == 61, opcode == 65, opcode == 66, opcode == 68: // calls, loads, chains
		return true
	case opcode >= 77 && opcode <= 100: // composite and image ops
		return true
	case opcode >= 103 && opcode <= 205: // queries, conversions, arithmetic, logic
		return true
	case opcode == 245: // OpPhi
		return true
	}
	return false
}
