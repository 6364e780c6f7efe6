package vfs

// FileType tags the kind of entry a FileStatus describes.
type FileType int

const (
	// TypeNotFound means nothing exists at the queried path.
	TypeNotFound FileType = iota
	// TypeRegular is a regular file.
	TypeRegular
	// TypeDirectory is a directory.
	TypeDirectory
	// TypeOther is a filesystem entry that is neither a regular file nor a directory.
	TypeOther
	// TypeStatusError means the query itself failed; consult the accompanying error.
	TypeStatusError
)

// FileStatus is a tagged file-type value, returned by Status/SymlinkStatus.
// Non-existence is not itself an error: a missing path yields
// FileStatus{Type: TypeNotFound} with no error, per SPEC_FULL.md §7.
type FileStatus struct {
	Type FileType
}

// StatusExists reports whether s denotes an entry that is actually
// present. The path-based Exists in facade.go is the usual entry point;
// this variant is for callers that already hold a FileStatus.
func StatusExists(s FileStatus) bool {
	return s.Type != TypeNotFound && s.Type != TypeStatusError
}

// IsDirectoryStatus reports whether s denotes a directory.
func IsDirectoryStatus(s FileStatus) bool {
	return s.Type == TypeDirectory
}

// IsRegularFileStatus reports whether s denotes a regular file.
func IsRegularFileStatus(s FileStatus) bool {
	return s.Type == TypeRegular
}

// IsOtherStatus reports whether s denotes neither a regular file, a
// directory, nor an absent path.
func IsOtherStatus(s FileStatus) bool {
	return s.Type == TypeOther
}

// StatusKnown reports whether s carries a definite type, i.e. the status
// query that produced it did not fail.
func StatusKnown(s FileStatus) bool {
	return s.Type != TypeStatusError
}

// SpaceInfo reports capacity, free, and available bytes for a filesystem.
// The in-memory tree always reports the zero value: it has no fixed
// capacity (SPEC_FULL.md §3).
type SpaceInfo struct {
	Capacity  uint64
	Free      uint64
	Available uint64
}
