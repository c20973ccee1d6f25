package toolchain

// Name tables for the listing text. Unknown values fall back to their
// numeric form; the assembler never reads these tokens, reassembly works
// from the raw words alone.

var opcodeNames = map[uint16]string{
	0: "OpNop", 1: "OpUndef", 3: "OpSource", 4: "OpSourceExtension",
	5: "OpName", 6: "OpMemberName", 7: "OpString",
	10: "OpExtension", 11: "OpExtInstImport", 12: "OpExtInst",
	14: "OpMemoryModel", 15: "OpEntryPoint", 16: "OpExecutionMode",
	17: "OpCapability", 19: "OpTypeVoid", 20: "OpTypeBool",
	21: "OpTypeInt", 22: "OpTypeFloat", 23: "OpTypeVector",
	24: "OpTypeMatrix", 25: "OpTypeImage", 26: "OpTypeSampler",
	27: "OpTypeSampledImage", 28: "OpTypeArray", 29: "OpTypeRuntimeArray",
	30: "OpTypeStruct", 32: "OpTypePointer", 33: "OpTypeFunction",
	41: "OpConstantTrue", 42: "OpConstantFalse", 43: "OpConstant",
	44: "OpConstantComposite", 46: "OpConstantNull",
	50: "OpSpecConstant", 54: "OpFunction", 55: "OpFunctionParameter",
	56: "OpFunctionEnd", 57: "OpFunctionCall", 59: "OpVariable",
	61: "OpLoad", 62: "OpStore", 63: "OpCopyMemory",
	65: "OpAccessChain", 66: "OpInBoundsAccessChain", 68: "OpArrayLength",
	71: "OpDecorate", 72: "OpMemberDecorate",
	77: "OpVectorExtractDynamic", 78: "OpVectorInsertDynamic",
	79: "OpVectorShuffle", 80: "OpCompositeConstruct", 81: "OpCompositeExtract",
	82: "OpCompositeInsert", 83: "OpCopyObject", 84: "OpTranspose",
	86: "OpSampledImage", 87: "OpImageSampleImplicitLod",
	88: "OpImageSampleExplicitLod", 89: "OpImageSampleDrefImplicitLod",
	90: "OpImageSampleDrefExplicitLod", 95: "OpImageFetch",
	96: "OpImageGather", 98: "OpImageRead", 99: "OpImageWrite",
	100: "OpImage", 103: "OpImageQuerySizeLod", 104: "OpImageQuerySize",
	105: "OpImageQueryLod", 106: "OpImageQueryLevels",
	109: "OpConvertFToU", 110: "OpConvertFToS", 111: "OpConvertSToF",
	112: "OpConvertUToF", 113: "OpUConvert", 114: "OpSConvert",
	115: "OpFConvert", 116: "OpQuantizeToF16", 124: "OpBitcast",
	126: "OpSNegate", 127: "OpFNegate", 128: "OpIAdd", 129: "OpFAdd",
	130: "OpISub", 131: "OpFSub", 132: "OpIMul", 133: "OpFMul",
	134: "OpUDiv", 135: "OpSDiv", 136: "OpFDiv", 137: "OpUMod",
	138: "OpSRem", 139: "OpSMod", 140: "OpFRem", 141: "OpFMod",
	142: "OpVectorTimesScalar", 143: "OpMatrixTimesScalar",
	144: "OpVectorTimesMatrix", 145: "OpMatrixTimesVector",
	146: "OpMatrixTimesMatrix", 147: "OpOuterProduct", 148: "OpDot",
	164: "OpAny", 165: "OpAll", 166: "OpIsNan", 167: "OpIsInf",
	174: "OpLogicalEqual", 175: "OpLogicalNotEqual",
	176: "OpLogicalOr", 177: "OpLogicalAnd", 178: "OpLogicalNot",
	179: "OpSelect", 180: "OpIEqual", 181: "OpINotEqual",
	182: "OpUGreaterThan", 183: "OpSGreaterThan", 184: "OpUGreaterThanEqual",
	185: "OpSGreaterThanEqual", 186: "OpULessThan", 187: "OpSLessThan",
	188: "OpULessThanEqual", 189: "OpSLessThanEqual",
	190: "OpFOrdEqual", 192: "OpFOrdNotEqual",
	194: "OpShiftRightLogical", 195: "OpShiftRightArithmetic",
	196: "OpShiftLeftLogical", 197: "OpBitwiseOr", 198: "OpBitwiseXor",
	199: "OpBitwiseAnd", 200: "OpNot", 205: "OpBitCount",
	245: "OpPhi", 246: "OpLoopMerge", 247: "OpSelectionMerge",
	248: "OpLabel", 249: "OpBranch", 250: "OpBranchConditional",
	251: "OpSwitch", 252: "OpKill", 253: "OpReturn", 254: "OpReturnValue",
	255: "OpUnreachable",
}

var capabilityNames = map[uint32]string{
	0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
	9: "Float16", 10: "Float64", 11: "Int64", 22: "Int16",
	31: "ClipDistance", 32: "CullDistance", 33: "ImageCubeArray",
	34: "SampleRateShading", 38: "Int8", 39: "InputAttachment",
	42: "Sampled1D", 43: "Image1D", 45: "SampledBuffer", 46: "ImageBuffer",
	49: "ImageQuery", 50: "DerivativeControl", 51: "InterpolationFunction",
	56: "MultiViewport", 4427: "DrawParameters",
}

var storageClassNames = map[uint32]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
	8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
	12: "StorageBuffer",
}

var decorationNames = map[uint32]string{
	0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
	4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
	11: "BuiltIn", 13: "NoPerspective", 14: "Flat", 15: "Patch",
	16: "Centroid", 17: "Sample", 18: "Invariant", 21: "Volatile",
	23: "Coherent", 24: "NonWritable", 25: "NonReadable",
	29: "Stream", 30: "Location", 31: "Component", 32: "Index",
	33: "Binding", 34: "DescriptorSet", 35: "Offset",
	42: "NoContraction", 43: "InputAttachmentIndex",
}

var builtinNames = map[uint32]string{
	0: "Position", 1: "PointSize", 2: "ClipDistance", 3: "CullDistance",
	4: "VertexId", 5: "InstanceId", 6: "PrimitiveId", 7: "InvocationId",
	8: "Layer", 9: "ViewportIndex", 13: "PatchVertices",
	14: "FragCoord", 15: "PointCoord", 16: "FrontFacing",
	17: "SampleId", 18: "SamplePosition", 19: "SampleMask",
	22: "FragDepth", 23: "HelperInvocation", 24: "NumWorkgroups",
	25: "WorkgroupSize", 26: "WorkgroupId", 27: "LocalInvocationId",
	28: "GlobalInvocationId", 29: "LocalInvocationIndex",
	42: "VertexIndex", 43: "InstanceIndex",
}

var executionModeNames = map[uint32]string{
	0: "Invocations", 4: "VertexOrderCw", 5: "VertexOrderCcw",
	7: "OriginUpperLeft", 8: "OriginLowerLeft", 9: "EarlyFragmentTests",
	12: "DepthReplacing", 14: "DepthGreater", 15: "DepthLess",
	16: "DepthUnchanged", 17: "LocalSize", 22: "Triangles",
	24: "Quads", 25: "Isolines", 26: "OutputVertices",
	27: "OutputPoints", 28: "OutputLineStrip", 29: "OutputTriangleStrip",
	31: "ContractionOff",
}

var addressingModelNames = map[uint32]string{
	0: "Logical", 1: "Physical32", 2: "Physical64",
	5348: "PhysicalStorageBuffer64",
}

var memoryModelNames = map[uint32]string{
	0: "Simple", 1: "GLSL450", 2: "OpenCL", 3: "Vulkan",
}

var dimNames = map[uint32]string{
	0: "1D", 1: "2D", 2: "3D", 3: "Cube", 4: "Rect", 5: "Buffer",
	6: "SubpassData",
}

// opcodeMinWords is the smallest word count the walker accepts per opcode,
// covering every fixed operand position the listing formatter reads. A word
// count can be legal for the buffer yet short for its opcode; such
// instructions are rejected instead of formatted.
var opcodeMinWords = map[uint16]int{
	4: 2, 5: 3, 6: 4, 10: 2, 11: 3, 14: 3, 15: 4, 16: 3, 17: 2,
	19: 2, 20: 2, 21: 4, 22: 3, 23: 4, 24: 4, 25: 4, 26: 2, 27: 3,
	28: 4, 29: 3, 30: 2, 32: 4, 33: 3,
	41: 3, 42: 3, 43: 3, 44: 3, 46: 3, 50: 3,
	54: 5, 55: 3, 56: 1, 59: 4, 62: 3,
	71: 3, 72: 4, 79: 5, 81: 4,
	248: 2, 249: 2, 252: 1, 253: 1, 254: 2, 255: 1,
}
