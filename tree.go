package vfs

import "time"

// Tree is the contract every mountable backend implements: an in-process
// filesystem addressed by paths relative to its own root, with no knowledge
// of the mount name it is installed under. The facade is the only caller;
// a Tree never needs to resolve `//name` root names itself (SPEC_FULL.md
// §4.4, grounded on IFilesystemTree.hpp).
//
// Every method takes a Path already stripped of its root name by the
// caller (the mount manager). The root directory is kept: a tree mounted at
// //name sees `/a/b` for `//name/a/b`, and `.` for a bare `//name`.
type Tree interface {
	// Open returns a stream buffer for path, honoring mode. Opening a
	// nonexistent path for reading fails with CodeNoSuchFileOrDirectory;
	// opening for writing creates the file (and, per ModeTrunc, discards
	// existing contents) but never creates missing parent directories.
	Open(path Path, mode OpenMode) (StreamBuffer, error)

	// OpenDirectory returns an iterator over path's immediate children.
	// path must already denote a directory.
	OpenDirectory(path Path) (DirIterator, error)

	// CreateDirectory creates path as a directory. It does not create
	// missing parents; it succeeds without effect if path already denotes a
	// directory, and fails with CodeFileExists if path denotes anything
	// else.
	CreateDirectory(path Path) (bool, error)

	// Rename moves oldPath to newPath within this tree. Renaming a path onto
	// itself is a no-op; renaming a directory into its own subtree, or onto
	// one of its ancestors, fails with CodeInvalidArgument.
	Rename(oldPath, newPath Path) error

	// Canonical resolves path to an absolute, symlink-free, normal-form
	// path; the in-memory tree has no symlinks, so this is equivalent to
	// WeaklyCanonical, but every existing path component must exist.
	Canonical(path Path) (Path, error)

	// WeaklyCanonical resolves the existing leading portion of path and
	// lexically appends whatever trailing components do not yet exist.
	WeaklyCanonical(path Path) (Path, error)

	// FileSize returns the size in bytes of the regular file at path.
	FileSize(path Path) (uint64, error)

	// Status returns the type of the entry at path. A nonexistent path
	// yields FileStatus{Type: TypeNotFound} and a nil error.
	Status(path Path) (FileStatus, error)

	// Remove deletes the single entry at path, which must not be a
	// non-empty directory. Removing a nonexistent path is a no-op that
	// reports false, not an error.
	Remove(path Path) (bool, error)

	// RemoveAll recursively removes path and everything beneath it,
	// returning the number of entries removed.
	RemoveAll(path Path) (uint64, error)

	// HardLinkCount returns the number of directory entries referring to
	// the same underlying file as path.
	HardLinkCount(path Path) (uint64, error)

	// Space reports capacity/free/available for the tree as a whole.
	Space(path Path) (SpaceInfo, error)

	// LastWriteTime returns the last modification time of path.
	LastWriteTime(path Path) (time.Time, error)

	// SetLastWriteTime updates the last modification time of path.
	SetLastWriteTime(path Path, t time.Time) error

	// SetSpecialData attaches an opaque, backend-defined value to path,
	// replacing any previous value. The in-memory tree keeps it purely by
	// reference: SPEC_FULL.md's Open Question decision (see DESIGN.md)
	// resolves the reference type as `any` rather than a boost::any-style
	// container, since Go interfaces already erase the concrete type.
	SetSpecialData(path Path, data any) error

	// GetSpecialData returns the value attached by SetSpecialData. It fails
	// with CodeNoSuchFileOrDirectory if path has none attached, and with the
	// same code if path does not exist.
	GetSpecialData(path Path) (any, error)

	// GetSpecialDataIfExists returns the value attached by SetSpecialData,
	// or ok=false if none is attached, without treating absence as an
	// error.
	GetSpecialDataIfExists(path Path) (data any, ok bool)
}
