package ports

import (
	"context"
	"iter"
)

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates an artifact file was created.
	OpCreate WatchOp = iota
	// OpWrite indicates an artifact file was modified.
	OpWrite
	// OpRemove indicates an artifact file was removed.
	OpRemove
	// OpRename indicates an artifact file was renamed.
	OpRename
)

// WatchEvent represents a change to one artifact file in the fixes
// directory.
type WatchEvent struct {
	// Path is the absolute path of the file that changed.
	Path string
	// Operation is the type of change that occurred.
	Operation WatchOp
}

// Watcher watches the fixes directory for artifact changes, feeding the
// live-reload pass.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given fixes directory.
	Start(ctx context.Context, dir string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of artifact change events.
	Events() iter.Seq[WatchEvent]
}
