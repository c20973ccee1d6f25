package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigNotFound is returned when no standin.yaml can be found.
	ErrConfigNotFound = zerr.New("could not find standin.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidHashMode is returned when the configured hash mode is unknown.
	ErrInvalidHashMode = zerr.New("invalid hash mode, expected 'content', 'embedded' or 'sections'")

	// ErrInvalidMarkingMode is returned when the marking mode is unknown.
	ErrInvalidMarkingMode = zerr.New("invalid marking mode, expected 'substituted' or 'original'")

	// ErrInvalidDepthFilter is returned when a depth filter is unknown.
	ErrInvalidDepthFilter = zerr.New("invalid depth filter, expected 'active', 'inactive' or empty")

	// ErrInvalidResourceKind is returned when a rule names an unknown resource kind.
	ErrInvalidResourceKind = zerr.New("invalid resource kind")

	// ErrInvalidFingerprint is returned when a fingerprint cannot be parsed.
	ErrInvalidFingerprint = zerr.New("invalid fingerprint")

	// ErrInvalidExportLevel is returned when the export level is out of range.
	ErrInvalidExportLevel = zerr.New("invalid export level, expected 0 to 3")

	// ErrInvalidStereoMode is returned when a stereo mode is out of range.
	ErrInvalidStereoMode = zerr.New("invalid stereo mode, expected 0 to 2")

	// ErrCacheReadFailed is returned when a cached artifact cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cached artifact")

	// ErrCacheWriteFailed is returned when a cached artifact cannot be written.
	ErrCacheWriteFailed = zerr.New("failed to write cached artifact")

	// ErrCacheStampFailed is returned when the timestamp stamp on a cached
	// binary cannot be set.
	ErrCacheStampFailed = zerr.New("failed to stamp cached artifact")

	// ErrMalformedContainer is returned when a binary's section table fails
	// bounds checks during fingerprinting.
	ErrMalformedContainer = zerr.New("malformed shader container")

	// ErrDisassemblyFailed is returned when the original binary cannot be
	// disassembled for model detection.
	ErrDisassemblyFailed = zerr.New("disassembly failed")

	// ErrCompileFailed is returned when recompiling a high-level source fails.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrAssemblyFailed is returned when a listing cannot be reassembled at all.
	ErrAssemblyFailed = zerr.New("assembly failed")

	// ErrDecompileFailed is returned when the decompiler reports an error.
	ErrDecompileFailed = zerr.New("decompilation failed")

	// ErrUnknownModel is returned when a shader model string cannot be mapped
	// to a pipeline stage.
	ErrUnknownModel = zerr.New("unknown shader model")

	// ErrCreateFailed is returned when the driver rejects a creation call.
	ErrCreateFailed = zerr.New("driver creation call failed")

	// ErrNilByteCode is returned when a creation call carries no bytecode.
	ErrNilByteCode = zerr.New("nil shader bytecode")

	// ErrWatcherClosed is returned when the fixes watcher has been closed.
	ErrWatcherClosed = zerr.New("fixes watcher closed")

	// ErrUnknownTarget is returned when a target names neither an exported
	// original nor a readable binary file.
	ErrUnknownTarget = zerr.New("unknown shader target")
)
