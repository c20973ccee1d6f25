package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ConfigFileName is the name of the engine configuration file.
	ConfigFileName = "standin.yaml"

	// DefaultFixesDirName is the default live-fixes directory.
	DefaultFixesDirName = "ShaderFixes"

	// DefaultCacheDirName is the default export/reference directory.
	DefaultCacheDirName = "ShaderCache"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Artifact file names follow a strict convention; binary/text pairing is
// matched purely by name:
//
//	{fingerprint}-{kind}.bin          reassembled or exported binary
//	{fingerprint}-{kind}.txt          low-level listing source
//	{fingerprint}-{kind}_replace.bin  recompiled binary
//	{fingerprint}-{kind}_replace.txt  high-level source
//	{fingerprint}-{kind}_bad.txt      sentinel: skip this fingerprint

// BinaryName returns the plain cached-binary file name.
func BinaryName(fp Fingerprint, kind ShaderKind) string {
	return fmt.Sprintf("%s-%s.bin", fp, kind)
}

// SourceName returns the low-level listing source file name.
func SourceName(fp Fingerprint, kind ShaderKind) string {
	return fmt.Sprintf("%s-%s.txt", fp, kind)
}

// ReplaceBinaryName returns the recompiled-binary file name.
func ReplaceBinaryName(fp Fingerprint, kind ShaderKind) string {
	return fmt.Sprintf("%s-%s_replace.bin", fp, kind)
}

// ReplaceSourceName returns the high-level source file name.
func ReplaceSourceName(fp Fingerprint, kind ShaderKind) string {
	return fmt.Sprintf("%s-%s_replace.txt", fp, kind)
}

// BadMarkerName returns the sentinel file name that marks a fingerprint
// permanently skipped.
func BadMarkerName(fp Fingerprint, kind ShaderKind) string {
	return fmt.Sprintf("%s-%s_bad.txt", fp, kind)
}

// NumberedBinaryName returns the collision-suffixed export name used when an
// existing exported binary differs byte-for-byte.
func NumberedBinaryName(fp Fingerprint, kind ShaderKind, n int) string {
	return fmt.Sprintf("%s-%s_%d.bin", fp, kind, n)
}

// ParseArtifactName extracts the fingerprint and kind from an artifact file
// name following the convention above. Suffix variants (_replace, _bad,
// collision numbers) and either extension are accepted; anything else is
// rejected.
func ParseArtifactName(name string) (Fingerprint, ShaderKind, bool) {
	base, ok := strings.CutSuffix(name, ".bin")
	if !ok {
		if base, ok = strings.CutSuffix(name, ".txt"); !ok {
			return 0, "", false
		}
	}
	if i := strings.IndexByte(base, '_'); i >= 0 {
		base = base[:i]
	}

	hex, kindPart, ok := strings.Cut(base, "-")
	if !ok || len(hex) != 16 {
		return 0, "", false
	}
	raw, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return 0, "", false
	}
	kind := ShaderKind(kindPart)
	if !kind.Valid() {
		return 0, "", false
	}
	return Fingerprint(raw), kind, true
}
