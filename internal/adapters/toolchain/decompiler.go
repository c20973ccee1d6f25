package toolchain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
)

// Decompiler reconstructs WGSL-equivalent source from a disassembly
// listing. The entry point signature is recovered in full; the function
// body is translated only for straight-line single-block code, anything
// beyond that yields a signature skeleton with the error flag set so the
// result is exported for manual work but never installed.
type Decompiler struct {
	Logger ports.Logger
}

// NewDecompiler creates the listing decompiler.
func NewDecompiler(log ports.Logger) *Decompiler {
	return &Decompiler{Logger: log}
}

// Decompile implements ports.Decompiler.
func (d *Decompiler) Decompile(listing string, _ []byte, opts ports.DecompileOptions) ports.DecompileResult {
	mod := parseListing(listing)
	if mod.stage == "" {
		return ports.DecompileResult{ErrorOccurred: true}
	}

	patched := false
	if opts.FixInterpolation && mod.stage == domain.PixelShader {
		patched = mod.patchInterpolation()
	}

	source, translated := mod.emitWGSL()
	return ports.DecompileResult{
		Source:        source,
		Patched:       patched,
		Model:         mod.model,
		ErrorOccurred: !translated,
	}
}

// ioVariable is one Input or Output interface variable of the entry point.
type ioVariable struct {
	id       string
	name     string
	typ      wgslType
	input    bool
	location int // -1 when builtin-decorated
	builtin  string
	flat     bool
	patched  bool
}

// wgslType is the WGSL rendering of a parsed type id.
type wgslType struct {
	name   string // full WGSL spelling
	scalar string // component scalar: f32, i32, u32 or bool
	rows   int    // vector size, 0 for scalars
}

// listingModule is everything the decompiler recovers from a listing.
type listingModule struct {
	model     string
	stage     domain.ShaderKind
	entryName string
	workgroup [3]uint32

	names     map[string]string
	types     map[string]wgslType
	pointers  map[string]string // pointer id -> pointee type id
	constants map[string]string // constant id -> WGSL literal
	vars      []*ioVariable
	varByID   map[string]*ioVariable

	bodyOps     []bodyOp
	labelCount  int
	unsupported bool
}

// bodyOp is one instruction inside the entry function.
type bodyOp struct {
	result string
	opcode string
	typeID string
	args   []string
}

//nolint:gocognit,gocyclo,cyclop,funlen // one case per instruction class
func parseListing(listing string) *listingModule {
	mod := &listingModule{
		names:     map[string]string{},
		types:     map[string]wgslType{},
		pointers:  map[string]string{},
		constants: map[string]string{},
		varByID:   map[string]*ioVariable{},
	}

	var (
		major, minor  uint32 = 1, 0
		functionCount int
	)

	for _, line := range strings.Split(listing, "\n") {
		if maj, min, ok := parseVersionComment(line); ok {
			major, minor = maj, min
			continue
		}
		tokens := splitListingLine(line)
		if len(tokens) == 0 {
			continue
		}

		var result string
		if len(tokens) >= 3 && tokens[1] == "=" {
			result = tokens[0]
			tokens = tokens[2:]
		}

		op := tokens[0]
		args := tokens[1:]
		switch op {
		case "OpEntryPoint":
			if len(args) >= 3 {
				if kind, ok := kindForExecutionModelName(args[0]); ok {
					mod.stage = kind
				}
				mod.entryName = sanitizeIdentifier(unquote(args[2]))
			}
		case "OpExecutionMode":
			if len(args) >= 5 && args[1] == "LocalSize" {
				for i := 0; i < 3; i++ {
					v, _ := strconv.ParseUint(args[2+i], 10, 32)
					mod.workgroup[i] = uint32(v)
				}
			}
		case "OpName":
			if len(args) >= 2 {
				mod.names[args[0]] = sanitizeIdentifier(unquote(args[1]))
			}
		case "OpDecorate":
			mod.parseDecoration(args)
		case "OpTypeVoid":
			mod.types[result] = wgslType{name: "void"}
		case "OpTypeBool":
			mod.types[result] = wgslType{name: "bool", scalar: "bool"}
		case "OpTypeFloat":
			mod.types[result] = wgslType{name: "f32", scalar: "f32"}
		case "OpTypeInt":
			if len(args) >= 2 && args[1] == "1" {
				mod.types[result] = wgslType{name: "i32", scalar: "i32"}
			} else {
				mod.types[result] = wgslType{name: "u32", scalar: "u32"}
			}
		case "OpTypeVector":
			if len(args) >= 2 {
				elem := mod.types[args[0]]
				size, _ := strconv.Atoi(args[1])
				mod.types[result] = wgslType{
					name:   fmt.Sprintf("vec%d<%s>", size, elem.name),
					scalar: elem.scalar,
					rows:   size,
				}
			}
		case "OpTypePointer":
			if len(args) >= 2 {
				mod.pointers[result] = args[1]
			}
		case "OpConstant":
			if len(args) >= 2 {
				mod.constants[result] = formatConstant(mod.types[args[0]], args[1])
			}
		case "OpConstantComposite":
			if len(args) >= 1 {
				parts := make([]string, 0, len(args)-1)
				for _, a := range args[1:] {
					parts = append(parts, mod.constants[a])
				}
				mod.constants[result] = mod.types[args[0]].name + "(" + strings.Join(parts, ", ") + ")"
			}
		case "OpVariable":
			if len(args) >= 2 {
				mod.parseVariable(result, args[0], args[1])
			}
		case "OpFunction":
			functionCount++
		case "OpLabel":
			mod.labelCount++
		case "OpFunctionEnd", "OpTypeFunction", "OpCapability", "OpMemoryModel",
			"OpExtInstImport", "OpExtension", "OpSource", "OpSourceExtension",
			"OpString", "OpNop", "OpReturn":
			// structural, nothing to recover
		default:
			mod.bodyOps = append(mod.bodyOps, bodyOp{result: result, opcode: op, args: args})
		}
	}

	if mod.stage != "" {
		mod.model = FormatModel(mod.stage, major, minor)
	}
	if functionCount > 1 || mod.labelCount > 1 {
		mod.unsupported = true
	}

	mod.finishVariables()
	return mod
}

func (m *listingModule) parseDecoration(args []string) {
	if len(args) < 2 {
		return
	}
	target := args[0]
	v := m.varByID[target]
	if v == nil {
		v = &ioVariable{id: target, location: -1}
		m.varByID[target] = v
	}
	switch args[1] {
	case "Location":
		if len(args) >= 3 {
			v.location, _ = strconv.Atoi(args[2])
		}
	case "BuiltIn":
		if len(args) >= 3 {
			v.builtin = args[2]
		}
	case "Flat":
		v.flat = true
	}
}

func (m *listingModule) parseVariable(id, pointerID, storageClass string) {
	if storageClass != "Input" && storageClass != "Output" {
		// Bindings (uniforms, textures, storage) cannot be reconstructed
		// reliably from a listing alone.
		m.unsupported = true
		return
	}
	v := m.varByID[id]
	if v == nil {
		v = &ioVariable{id: id, location: -1}
		m.varByID[id] = v
	}
	v.input = storageClass == "Input"
	v.typ = m.types[m.pointers[pointerID]]
	m.vars = append(m.vars, v)
}

// finishVariables names unnamed interface variables and orders them:
// builtins first, then ascending location.
func (m *listingModule) finishVariables() {
	for i, v := range m.vars {
		if v.name == "" {
			v.name = m.names[v.id]
		}
		if v.name == "" {
			prefix := "in"
			if !v.input {
				prefix = "out"
			}
			v.name = fmt.Sprintf("%s%d", prefix, i)
		}
	}
	sort.SliceStable(m.vars, func(i, j int) bool {
		a, b := m.vars[i], m.vars[j]
		if (a.builtin != "") != (b.builtin != "") {
			return a.builtin != ""
		}
		return a.location < b.location
	})
}

// patchInterpolation adds the flat qualifier to integer fragment inputs
// that lack one. Integer varyings cannot be interpolated; toolchains
// disagree on emitting the qualifier, and the mismatch is the classic
// broken-port artifact this pass repairs.
func (m *listingModule) patchInterpolation() bool {
	patched := false
	for _, v := range m.vars {
		if !v.input || v.flat || v.builtin != "" {
			continue
		}
		if v.typ.scalar == "i32" || v.typ.scalar == "u32" {
			v.flat = true
			v.patched = true
			patched = true
		}
	}
	return patched
}

// wgslBuiltinNames maps listing builtin tokens to WGSL attribute names.
var wgslBuiltinNames = map[string]string{
	"Position":             "position",
	"FragCoord":            "position",
	"VertexIndex":          "vertex_index",
	"InstanceIndex":        "instance_index",
	"FrontFacing":          "front_facing",
	"FragDepth":            "frag_depth",
	"SampleId":             "sample_index",
	"SampleMask":           "sample_mask",
	"GlobalInvocationId":   "global_invocation_id",
	"LocalInvocationId":    "local_invocation_id",
	"LocalInvocationIndex": "local_invocation_index",
	"WorkgroupId":          "workgroup_id",
	"NumWorkgroups":        "num_workgroups",
}

// emitWGSL renders the module. The bool reports whether the function body
// was fully translated; when false the body is zero-filled scaffolding.
func (m *listingModule) emitWGSL() (string, bool) {
	stored, translated := m.translateBody()
	if m.unsupported {
		translated = false
	}

	var inputs, outputs []*ioVariable
	for _, v := range m.vars {
		if v.input {
			inputs = append(inputs, v)
		} else {
			outputs = append(outputs, v)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// %s reconstructed from %s\n", m.entryOrMain(), m.model)
	if !translated {
		b.WriteString("// WARNING: function body could not be fully reconstructed\n")
	}
	b.WriteString("\n")

	outStruct := ""
	if len(outputs) > 1 {
		outStruct = "MainOutput"
		fmt.Fprintf(&b, "struct %s {\n", outStruct)
		for _, v := range outputs {
			fmt.Fprintf(&b, "    %s%s: %s,\n", v.attributes(), v.name, v.typ.name)
		}
		b.WriteString("}\n\n")
	}

	b.WriteString(m.stageAttribute())
	fmt.Fprintf(&b, "fn %s(", m.entryOrMain())
	for i, v := range inputs {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s%s: %s", v.attributes(), v.name, v.typ.name)
	}
	b.WriteString(")")

	switch {
	case outStruct != "":
		fmt.Fprintf(&b, " -> %s {\n", outStruct)
		fmt.Fprintf(&b, "    var out: %s;\n", outStruct)
		for _, v := range outputs {
			fmt.Fprintf(&b, "    out.%s = %s;\n", v.name, valueOr(stored[v.id], v.typ))
		}
		b.WriteString("    return out;\n")
	case len(outputs) == 1:
		v := outputs[0]
		fmt.Fprintf(&b, " -> %s%s {\n", v.attributes(), v.typ.name)
		fmt.Fprintf(&b, "    return %s;\n", valueOr(stored[v.id], v.typ))
	default:
		b.WriteString(" {\n")
	}
	b.WriteString("}\n")

	return b.String(), translated
}

func (m *listingModule) entryOrMain() string {
	if m.entryName != "" {
		return m.entryName
	}
	return "main"
}

func (m *listingModule) stageAttribute() string {
	switch m.stage {
	case domain.PixelShader:
		return "@fragment\n"
	case domain.ComputeShader:
		wg := m.workgroup
		if wg == [3]uint32{} {
			wg = [3]uint32{1, 1, 1}
		}
		return fmt.Sprintf("@compute @workgroup_size(%d, %d, %d)\n", wg[0], wg[1], wg[2])
	default:
		return "@vertex\n"
	}
}

// attributes renders the IO attributes for one variable, trailing space
// included.
func (v *ioVariable) attributes() string {
	var b strings.Builder
	if v.builtin != "" {
		name, ok := wgslBuiltinNames[v.builtin]
		if !ok {
			name = strings.ToLower(v.builtin)
		}
		fmt.Fprintf(&b, "@builtin(%s) ", name)
		return b.String()
	}
	loc := v.location
	if loc < 0 {
		loc = 0
	}
	fmt.Fprintf(&b, "@location(%d) ", loc)
	if v.flat {
		b.WriteString("@interpolate(flat) ")
	}
	return b.String()
}

// binaryOperators maps translatable two-operand opcodes to WGSL operators.
var binaryOperators = map[string]string{
	"OpFAdd": "+", "OpFSub": "-", "OpFMul": "*", "OpFDiv": "/",
	"OpIAdd": "+", "OpISub": "-", "OpIMul": "*",
	"OpSDiv": "/", "OpUDiv": "/",
	"OpVectorTimesScalar": "*",
}

// translateBody maps SSA results to WGSL expressions and collects the
// final expression stored to each output variable. Any opcode outside the
// supported straight-line set aborts translation.
func (m *listingModule) translateBody() (map[string]string, bool) {
	exprs := map[string]string{}
	stored := map[string]string{}
	ok := true

	for _, op := range m.bodyOps {
		switch {
		case op.opcode == "OpLoad" && len(op.args) >= 2:
			exprs[op.result] = m.loadExpr(op.args[1], exprs)
		case op.opcode == "OpStore" && len(op.args) >= 2:
			stored[op.args[0]] = m.valueExpr(op.args[1], exprs)
		case op.opcode == "OpCompositeConstruct" && len(op.args) >= 1:
			parts := make([]string, 0, len(op.args)-1)
			for _, a := range op.args[1:] {
				parts = append(parts, m.valueExpr(a, exprs))
			}
			exprs[op.result] = m.types[op.args[0]].name + "(" + strings.Join(parts, ", ") + ")"
		case op.opcode == "OpCompositeExtract" && len(op.args) >= 3:
			exprs[op.result] = m.valueExpr(op.args[1], exprs) + swizzle(op.args[2])
		case op.opcode == "OpFNegate" && len(op.args) >= 2:
			exprs[op.result] = "-(" + m.valueExpr(op.args[1], exprs) + ")"
		case binaryOperators[op.opcode] != "" && len(op.args) >= 3:
			operator := binaryOperators[op.opcode]
			exprs[op.result] = fmt.Sprintf("(%s %s %s)",
				m.valueExpr(op.args[1], exprs), operator, m.valueExpr(op.args[2], exprs))
		default:
			ok = false
		}
	}
	return stored, ok
}

// loadExpr resolves a load through an interface variable to its WGSL name.
func (m *listingModule) loadExpr(pointer string, exprs map[string]string) string {
	if v := m.varByID[pointer]; v != nil && v.input {
		return v.name
	}
	return m.valueExpr(pointer, exprs)
}

func (m *listingModule) valueExpr(id string, exprs map[string]string) string {
	if e, ok := exprs[id]; ok {
		return e
	}
	if c, ok := m.constants[id]; ok {
		return c
	}
	if v := m.varByID[id]; v != nil {
		return v.name
	}
	return id
}

func valueOr(expr string, typ wgslType) string {
	if expr != "" {
		return expr
	}
	return zeroValue(typ)
}

func zeroValue(typ wgslType) string {
	scalarZero := map[string]string{"f32": "0.0", "i32": "0", "u32": "0u", "bool": "false"}
	z, ok := scalarZero[typ.scalar]
	if !ok {
		z = "0.0"
	}
	if typ.rows == 0 {
		return z
	}
	parts := make([]string, typ.rows)
	for i := range parts {
		parts[i] = z
	}
	return typ.name + "(" + strings.Join(parts, ", ") + ")"
}

// swizzle renders a literal component index as the member accessor WGSL
// expects for vectors.
func swizzle(index string) string {
	switch index {
	case "0":
		return ".x"
	case "1":
		return ".y"
	case "2":
		return ".z"
	case "3":
		return ".w"
	}
	return "[" + index + "]"
}

// formatConstant renders an OpConstant literal word. Float constants are
// stored bit-exact in the listing, integers verbatim.
func formatConstant(typ wgslType, literal string) string {
	v, err := strconv.ParseUint(literal, 10, 32)
	if err != nil {
		return literal
	}
	switch typ.scalar {
	case "f32":
		f := math.Float32frombits(uint32(v))
		return strconv.FormatFloat(float64(f), 'g', -1, 32) + formatFloatSuffix(f)
	case "u32":
		return literal + "u"
	case "i32":
		return strconv.FormatInt(int64(int32(uint32(v))), 10)
	default:
		return literal
	}
}

// formatFloatSuffix keeps float literals unambiguous: "1" alone would
// parse as an integer.
func formatFloatSuffix(f float32) string {
	if f == float32(int64(f)) && !strings.ContainsAny(strconv.FormatFloat(float64(f), 'g', -1, 32), ".eE") {
		return ".0"
	}
	return ""
}

// splitListingLine tokenizes the assembly-text side of one listing line,
// dropping the raw-word comment and keeping quoted strings whole.
func splitListingLine(line string) []string {
	if i := strings.LastIndex(line, ";"); i >= 0 && isRawWordComment(line[i+1:]) {
		line = line[:i]
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, ";") {
		return nil
	}

	var tokens []string
	for len(trimmed) > 0 {
		if trimmed[0] == '"' {
			end := strings.Index(trimmed[1:], `"`)
			if end < 0 {
				tokens = append(tokens, trimmed)
				break
			}
			tokens = append(tokens, trimmed[:end+2])
			trimmed = strings.TrimLeft(trimmed[end+2:], " \t")
			continue
		}
		next := strings.IndexAny(trimmed, " \t")
		if next < 0 {
			tokens = append(tokens, trimmed)
			break
		}
		tokens = append(tokens, trimmed[:next])
		trimmed = strings.TrimLeft(trimmed[next:], " \t")
	}
	return tokens
}

// isRawWordComment reports whether the text after a ";" is hex instruction
// words only, distinguishing the raw-word column from ";" inside strings.
func isRawWordComment(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if len(f) != 8 {
			return false
		}
		if _, err := strconv.ParseUint(f, 16, 32); err != nil {
			return false
		}
	}
	return true
}

func unquote(token string) string {
	if s, err := strconv.Unquote(token); err == nil {
		return s
	}
	return token
}

// sanitizeIdentifier strips characters WGSL identifiers cannot carry.
func sanitizeIdentifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				b.WriteString("_")
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
