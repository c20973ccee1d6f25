// Package cache implements the on-disk artifact store for shader fixes.
//
// Artifacts live in two externally configured directories: the fixes
// directory holds live replacement sources and binaries, the cache
// directory holds exported originals and reference output. Binary/text
// pairing is matched purely by the file naming convention; the sole
// staleness signal is exact timestamp equality between a binary and its
// paired text source, stamped explicitly when the binary is written.
package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store reads and writes cache artifacts. All methods are best-effort on
// the write side: a failed cache write is logged by the caller and never
// fails the creation that produced it.
type Store struct {
	fixesDir string
	cacheDir string
	log      ports.Logger
}

// NewStore creates a store over the given fixes and cache directories.
func NewStore(fixesDir, cacheDir string, log ports.Logger) *Store {
	return &Store{
		fixesDir: filepath.Clean(fixesDir),
		cacheDir: filepath.Clean(cacheDir),
		log:      log,
	}
}

// FixesDir returns the configured fixes directory.
func (s *Store) FixesDir() string { return s.fixesDir }

// CacheDir returns the configured cache directory.
func (s *Store) CacheDir() string { return s.cacheDir }

// MarkedBad reports whether the fingerprint carries an on-disk sentinel
// marking it permanently skipped.
func (s *Store) MarkedBad(fp domain.Fingerprint, kind domain.ShaderKind) bool {
	_, err := os.Stat(filepath.Join(s.fixesDir, domain.BadMarkerName(fp, kind)))
	return err == nil
}

// LoadBinary looks for a precompiled replacement binary in the fixes
// directory: first the "_replace" variant, then the plain one. Each
// candidate is validated against its paired text source before being
// trusted; a stale candidate is discarded and the next one tried.
func (s *Store) LoadBinary(fp domain.Fingerprint, kind domain.ShaderKind) ([]byte, time.Time, bool) {
	if code, stamp, ok := s.loadCachedBinary(filepath.Join(s.fixesDir, domain.ReplaceBinaryName(fp, kind))); ok {
		return code, stamp, true
	}
	return s.loadCachedBinary(filepath.Join(s.fixesDir, domain.BinaryName(fp, kind)))
}

func (s *Store) loadCachedBinary(binPath string) ([]byte, time.Time, bool) {
	info, err := os.Stat(binPath)
	if err != nil {
		return nil, time.Time{}, false
	}

	stamp, ok := s.checkCacheTimestamp(binPath, info.ModTime())
	if !ok {
		s.log.Info(fmt.Sprintf("discarding stale cached shader: %s", binPath))
		return nil, time.Time{}, false
	}

	code, err := os.ReadFile(binPath) //nolint:gosec // Path derived from configured directory
	if err != nil {
		s.log.Error(zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", binPath))
		return nil, time.Time{}, false
	}

	s.log.Info(fmt.Sprintf("replacement binary shader found: %s", binPath))
	return code, stamp, true
}

// checkCacheTimestamp validates a cached binary against its paired text
// source. The timestamps must match exactly: a binary shipped inside a fix
// package may carry a stamp older OR newer than a source regenerated on the
// user's machine, so "newer than" proves nothing. When no paired source
// exists at all the binary is accepted with a warning; binary-only fixes
// are supported but discouraged.
func (s *Store) checkCacheTimestamp(binPath string, binTime time.Time) (time.Time, bool) {
	txtPath := strings.TrimSuffix(binPath, ".bin") + ".txt"
	txtInfo, err := os.Stat(txtPath)
	if err != nil {
		s.log.Warn(fmt.Sprintf("unable to validate timestamp of %s - no corresponding .txt file?", binPath))
		return time.Time{}, true
	}

	if !binTime.Equal(txtInfo.ModTime()) {
		return time.Time{}, false
	}

	// Either stamp would do once they match; keep the source's since that
	// is the one compared against on reload.
	return txtInfo.ModTime(), true
}

// StoreBinary writes compiled or reassembled output to the fixes directory
// and stamps it with the text source's timestamp so later loads can check
// its validity. A zero stamp leaves the write time untouched, which makes
// the binary permanently stale by construction.
func (s *Store) StoreBinary(fp domain.Fingerprint, kind domain.ShaderKind, replace bool, code []byte, stamp time.Time) error {
	name := domain.BinaryName(fp, kind)
	if replace {
		name = domain.ReplaceBinaryName(fp, kind)
	}
	path := filepath.Join(s.fixesDir, name)

	if err := os.MkdirAll(s.fixesDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := os.WriteFile(path, code, domain.FilePerm); err != nil { //nolint:gosec // Path derived from configured directory
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	if !stamp.IsZero() {
		if err := os.Chtimes(path, stamp, stamp); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrCacheStampFailed.Error()), "path", path)
		}
	}
	s.log.Info(fmt.Sprintf("stored cached shader: %s", path))
	return nil
}

// Source reads the low-level listing source for a fingerprint from the
// fixes directory, returning the text, its timestamp, and whether it exists.
func (s *Store) Source(fp domain.Fingerprint, kind domain.ShaderKind) (string, time.Time, bool) {
	return s.readSource(filepath.Join(s.fixesDir, domain.SourceName(fp, kind)))
}

// ReplaceSource reads the high-level source for a fingerprint from the
// fixes directory.
func (s *Store) ReplaceSource(fp domain.Fingerprint, kind domain.ShaderKind) (string, time.Time, bool) {
	return s.readSource(filepath.Join(s.fixesDir, domain.ReplaceSourceName(fp, kind)))
}

func (s *Store) readSource(path string) (string, time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, false
	}
	data, err := os.ReadFile(path) //nolint:gosec // Path derived from configured directory
	if err != nil {
		s.log.Error(zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path))
		return "", time.Time{}, false
	}
	return string(data), info.ModTime(), true
}

// ExportSourcePath returns where the decompile stage writes its output:
// pure exports go to the cache directory, auto-fixed shaders to the fixes
// directory where they are live.
func (s *Store) ExportSourcePath(fp domain.Fingerprint, kind domain.ShaderKind, toCache bool) string {
	dir := s.fixesDir
	if toCache {
		dir = s.cacheDir
	}
	return filepath.Join(dir, domain.ReplaceSourceName(fp, kind))
}

// Exists reports whether a path exists. Used to skip redoing slow exports.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteExport writes an export artifact, creating its directory if needed,
// and returns the resulting write timestamp.
func (s *Store) WriteExport(path string, content []byte) (time.Time, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return time.Time{}, zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := os.WriteFile(path, content, domain.FilePerm); err != nil { //nolint:gosec // Path derived from configured directory
		return time.Time{}, zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, zerr.Wrap(err, domain.ErrCacheStampFailed.Error())
	}
	return info.ModTime(), nil
}

// ExportOriginal writes the pristine game binary to the cache directory.
// When a previous export exists with different content, numbered variants
// are tried until a byte-identical file or a free name is found.
func (s *Store) ExportOriginal(fp domain.Fingerprint, kind domain.ShaderKind, bytecode []byte) error {
	path := filepath.Join(s.cacheDir, domain.BinaryName(fp, kind))
	for n := 1; ; n++ {
		existing, err := os.ReadFile(path) //nolint:gosec // Path derived from configured directory
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				break
			}
			return zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
		}
		if bytes.Equal(existing, bytecode) {
			return nil
		}
		path = filepath.Join(s.cacheDir, domain.NumberedBinaryName(fp, kind, n))
	}

	if err := os.MkdirAll(s.cacheDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := os.WriteFile(path, bytecode, domain.FilePerm); err != nil { //nolint:gosec // Path derived from configured directory
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	s.log.Info(fmt.Sprintf("stored original binary shader: %s", path))
	return nil
}

// Original reads a previously exported pristine binary from the cache
// directory.
func (s *Store) Original(fp domain.Fingerprint, kind domain.ShaderKind) ([]byte, bool) {
	path := filepath.Join(s.cacheDir, domain.BinaryName(fp, kind))
	data, err := os.ReadFile(path) //nolint:gosec // Path derived from configured directory
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Error(zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path))
		}
		return nil, false
	}
	return data, true
}

// Originals lists every exported pristine binary in the cache directory,
// keyed by fingerprint and kind. Collision-numbered variants and files that
// do not follow the naming convention are skipped.
func (s *Store) Originals() ([]domain.ShaderKey, error) {
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", s.cacheDir)
	}

	var keys []domain.ShaderKey
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".bin") || strings.Contains(name, "_") {
			continue
		}
		fp, kind, ok := domain.ParseArtifactName(name)
		if !ok {
			continue
		}
		keys = append(keys, domain.ShaderKey{Fingerprint: fp, Kind: kind})
	}
	return keys, nil
}

// ClearExports removes every artifact from the cache directory and returns
// how many files were deleted. The fixes directory is never touched.
func (s *Store) ClearExports() (int, error) {
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", s.cacheDir)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, _, ok := domain.ParseArtifactName(entry.Name()); !ok {
			continue
		}
		path := filepath.Join(s.cacheDir, entry.Name())
		if err := os.Remove(path); err != nil {
			return removed, zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
		}
		removed++
	}
	return removed, nil
}

// RemoveStaleBinaries deletes fixes-directory binaries whose timestamp no
// longer matches their paired text source, forcing a fresh build on the
// next resolve. Binary-only fixes without a paired source survive.
func (s *Store) RemoveStaleBinaries() (int, error) {
	entries, err := os.ReadDir(s.fixesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", s.fixesDir)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".bin") {
			continue
		}
		if _, _, ok := domain.ParseArtifactName(name); !ok {
			continue
		}
		path := filepath.Join(s.fixesDir, name)
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if _, ok := s.checkCacheTimestamp(path, info.ModTime()); ok {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
		}
		s.log.Info(fmt.Sprintf("removed stale cached shader: %s", path))
		removed++
	}
	return removed, nil
}

// ExportListing writes the disassembly of an original shader to the cache
// directory, skipping the disassembly cost when the file already exists.
func (s *Store) ExportListing(fp domain.Fingerprint, kind domain.ShaderKind, listing string) error {
	path := filepath.Join(s.cacheDir, domain.SourceName(fp, kind))
	if s.Exists(path) {
		return nil
	}
	_, err := s.WriteExport(path, []byte(listing))
	return err
}
