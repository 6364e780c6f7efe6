// Package vfs is a process-wide virtual filesystem facade. It routes
// conventional filesystem operations either to the host operating system or
// to one of several mountable in-process backends, selected by a path's
// leading `//name` root name. Callers write ordinary-looking filesystem
// code; which storage actually answers a call is a mount-time decision.
package vfs

import (
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const copyBufferSize = 128 * 1024

// OpenFile opens path with the given mode and returns a stream buffer from
// whichever backend owns it.
func OpenFile(path Path, mode OpenMode) (StreamBuffer, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return nil, err
	}
	return t.Open(trail, mode)
}

// MustOpenFile is OpenFile's throwing variant: it panics with a *PathError
// on failure instead of returning one.
func MustOpenFile(path Path, mode OpenMode) StreamBuffer {
	return mustV(OpenFile(path, mode))
}

// Absolute returns path, lexically normalized, if it already has a root name
// or root directory, else it is resolved against the current working
// directory and normalized.
// Unlike Canonical, it never touches a backend and never fails.
func Absolute(path Path) Path {
	if path.HasRootPath() {
		return path.LexicallyNormal()
	}
	return CurrentPath().Join(path.String()).LexicallyNormal()
}

// Canonical resolves path to an absolute, symlink-free, normalized form.
// Every component of the result must exist.
func Canonical(path Path) (Path, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return "", err
	}
	resolved, err := t.Canonical(trail)
	if err != nil {
		return "", err
	}
	return rejoin(path, trail, resolved), nil
}

func MustCanonical(path Path) Path { return mustV(Canonical(path)) }

// WeaklyCanonical resolves the leading, existing portion of path and
// lexically appends whatever trailing components do not yet exist.
func WeaklyCanonical(path Path) (Path, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return "", err
	}
	resolved, err := t.WeaklyCanonical(trail)
	if err != nil {
		return "", err
	}
	return rejoin(path, trail, resolved), nil
}

func MustWeaklyCanonical(path Path) Path { return mustV(WeaklyCanonical(path)) }

// rejoin reattaches the root name/directory that resolveMaybeRelative
// stripped, so canonical results still carry a root the caller can pass
// straight back into the facade.
func rejoin(original, trail, resolved Path) Path {
	if !original.HasRootName() {
		return resolved
	}
	root := Path("//" + original.RootName())
	if resolved.HasRootDirectory() {
		return root + resolved
	}
	if resolved.LexicallyNormal() == "." {
		return root
	}
	return root.Join(resolved.String())
}

// Exists reports whether path denotes an existing entry. It never fails:
// a query error is treated as non-existence.
func Exists(path Path) bool {
	st, err := Status(path)
	if err != nil {
		return false
	}
	return StatusExists(st)
}

// Equivalent reports whether a and b name the same underlying entry: both
// must exist, resolve to the same tree (or both to the host OS), and
// canonicalize to the same path.
func Equivalent(a, b Path) (bool, error) {
	ca, err := Canonical(a)
	if err != nil {
		return false, err
	}
	cb, err := Canonical(b)
	if err != nil {
		return false, err
	}
	return ca.Equal(cb), nil
}

func MustEquivalent(a, b Path) bool { return mustV(Equivalent(a, b)) }

// FileSize returns the size in bytes of the regular file at path.
func FileSize(path Path) (uint64, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return 0, err
	}
	return t.FileSize(trail)
}

func MustFileSize(path Path) uint64 { return mustV(FileSize(path)) }

// Status returns the type of the entry at path. A nonexistent path yields
// FileStatus{Type: TypeNotFound} and a nil error, not an error.
func Status(path Path) (FileStatus, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		if ErrCode(err) == CodeNoSuchFileOrDirectory {
			return FileStatus{Type: TypeNotFound}, nil
		}
		return FileStatus{Type: TypeStatusError}, err
	}
	return t.Status(trail)
}

func MustStatus(path Path) FileStatus { return mustV(Status(path)) }

// SymlinkStatus is Status without following a terminal symlink. Neither
// concrete backend has symlinks of its own, so it currently behaves
// identically to Status; it exists as a distinct entry point so a future
// backend that does model symlinks does not need a facade-level API
// change.
func SymlinkStatus(path Path) (FileStatus, error) { return Status(path) }

func MustSymlinkStatus(path Path) FileStatus { return mustV(SymlinkStatus(path)) }

func IsDirectory(path Path) bool   { return IsDirectoryStatus(MustStatusOrNotFound(path)) }
func IsRegularFile(path Path) bool { return IsRegularFileStatus(MustStatusOrNotFound(path)) }
func IsOther(path Path) bool       { return IsOtherStatus(MustStatusOrNotFound(path)) }
func IsSymlink(path Path) bool     { return false }

// MustStatusOrNotFound is the internal helper behind the Is* predicates:
// any query failure is folded into "not found" rather than propagated,
// matching the throwing predicates' own no-error-parameter signature.
func MustStatusOrNotFound(path Path) FileStatus {
	st, err := Status(path)
	if err != nil {
		return FileStatus{Type: TypeNotFound}
	}
	return st
}

// IsEmpty reports whether path is an empty file or an empty directory.
func IsEmpty(path Path) (bool, error) {
	st, err := Status(path)
	if err != nil {
		return false, err
	}
	switch st.Type {
	case TypeDirectory:
		t, trail, err := theManager().resolveMaybeRelative(path)
		if err != nil {
			return false, err
		}
		it, err := t.OpenDirectory(trail)
		if err != nil {
			return false, err
		}
		return it.End(), nil
	case TypeRegular:
		size, err := FileSize(path)
		if err != nil {
			return false, err
		}
		return size == 0, nil
	default:
		return false, newErr("is_empty", path, CodeInvalidArgument)
	}
}

func MustIsEmpty(path Path) bool { return mustV(IsEmpty(path)) }

// LastWriteTime returns path's last modification time.
func LastWriteTime(path Path) (time.Time, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return time.Time{}, err
	}
	return t.LastWriteTime(trail)
}

func MustLastWriteTime(path Path) time.Time { return mustV(LastWriteTime(path)) }

// SetLastWriteTime updates path's last modification time.
func SetLastWriteTime(path Path, tm time.Time) error {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return err
	}
	return t.SetLastWriteTime(trail, tm)
}

func MustSetLastWriteTime(path Path, tm time.Time) { must(SetLastWriteTime(path, tm)) }

// HardLinkCount returns the number of directory entries referring to the
// same underlying file as path.
func HardLinkCount(path Path) (uint64, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return 0, err
	}
	return t.HardLinkCount(trail)
}

func MustHardLinkCount(path Path) uint64 { return mustV(HardLinkCount(path)) }

// Space reports capacity/free/available for the filesystem containing
// path.
func Space(path Path) (SpaceInfo, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return SpaceInfo{}, err
	}
	return t.Space(trail)
}

func MustSpace(path Path) SpaceInfo { return mustV(Space(path)) }

// CreateDirectory creates path as a single directory. It returns false,
// with no error, if path already denotes a directory.
func CreateDirectory(path Path) (bool, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return false, err
	}
	return t.CreateDirectory(trail)
}

func MustCreateDirectory(path Path) bool { return mustV(CreateDirectory(path)) }

// CreateDirectories creates path and every missing parent directory,
// returning true if it created at least one of them.
func CreateDirectories(path Path) (bool, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return false, err
	}
	comps := trail.LexicallyNormal().components()
	created := false
	for i := 1; i <= len(comps); i++ {
		prefix := buildPath(trail.RootName(), trail.HasRootDirectory(), comps[:i], false)
		ok, err := t.CreateDirectory(prefix)
		if err != nil {
			return created, err
		}
		created = created || ok
	}
	return created, nil
}

func MustCreateDirectories(path Path) bool { return mustV(CreateDirectories(path)) }

// Remove deletes the single entry at path. Removing a nonexistent path is
// a no-op that reports false, not an error.
func Remove(path Path) (bool, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		if ErrCode(err) == CodeNoSuchFileOrDirectory {
			return false, nil
		}
		return false, err
	}
	return t.Remove(trail)
}

func MustRemove(path Path) bool { return mustV(Remove(path)) }

// RemoveAll recursively removes path, returning the number of entries
// removed.
func RemoveAll(path Path) (uint64, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		if ErrCode(err) == CodeNoSuchFileOrDirectory {
			return 0, nil
		}
		return 0, err
	}
	return t.RemoveAll(trail)
}

func MustRemoveAll(path Path) uint64 { return mustV(RemoveAll(path)) }

// Rename moves oldPath to newPath. When both endpoints fall in the same
// tree, this delegates to the tree's own Rename; when they fall in
// different trees (or one is on the host OS and the other isn't), it
// degrades to CopyFile followed by Remove (or CopyDirectory followed by
// RemoveAll for a directory), which is not atomic (SPEC_FULL.md §4.8 step 5).
func Rename(oldPath, newPath Path) error {
	m := theManager()
	oldTree, oldTrail, err := m.resolveMaybeRelative(oldPath)
	if err != nil {
		return err
	}
	newTree, newTrail, err := m.resolveMaybeRelative(newPath)
	if err != nil {
		return err
	}

	if sameTree(oldTree, newTree) {
		return oldTree.Rename(oldTrail, newTrail)
	}

	log.Debug().Str("from", oldPath.String()).Str("to", newPath.String()).
		Msg("rename crosses trees, degrading to copy+remove")

	st, err := oldTree.Status(oldTrail)
	if err != nil {
		return err
	}
	if err := copyAcrossTrees(oldTree, oldTrail, oldPath, newTree, newTrail, newPath, st); err != nil {
		return wrapErr("rename", oldPath, CodeCrossDeviceLink, err)
	}
	if IsDirectoryStatus(st) {
		if _, err := oldTree.RemoveAll(oldTrail); err != nil {
			return err
		}
		return nil
	}
	_, err = oldTree.Remove(oldTrail)
	return err
}

func MustRename(oldPath, newPath Path) { must(Rename(oldPath, newPath)) }

func sameTree(a, b Tree) bool {
	return a == b
}

// Copy copies path to targetPath, dispatching to CopyDirectory or
// CopyFile depending on path's type.
func Copy(path, targetPath Path) error {
	st, err := Status(path)
	if err != nil {
		return err
	}
	if IsDirectoryStatus(st) {
		return CopyDirectory(path, targetPath)
	}
	return CopyFile(path, targetPath)
}

func MustCopy(path, targetPath Path) { must(Copy(path, targetPath)) }

// CopyFile streams path's contents to targetPath through a fixed-size
// buffer, matching the reference implementation's chunked copy loop
// (SPEC_FULL.md §7): a short write at any point aborts with
// CodeFileTooLarge rather than silently truncating the copy.
func CopyFile(path, targetPath Path) error {
	src, err := OpenFile(path, ModeIn)
	if err != nil {
		return err
	}
	defer silentClose(streamBufferCloser{src})

	dst, err := OpenFile(targetPath, ModeOut|ModeTrunc)
	if err != nil {
		return err
	}
	defer silentClose(streamBufferCloser{dst})

	buf := make([]byte, copyBufferSize)
	for {
		n, rerr := src.Xsgetn(buf)
		if n > 0 {
			written, werr := dst.Xsputn(buf[:n])
			if werr != nil {
				return wrapErr("copy_file", path, CodeFileTooLarge, werr)
			}
			if written != n {
				return newErr2("copy_file", path, targetPath, CodeFileTooLarge)
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return wrapErr("copy_file", path, CodeInvalidArgument, rerr)
		}
	}
}

func MustCopyFile(path, targetPath Path) { must(CopyFile(path, targetPath)) }

type streamBufferCloser struct{ StreamBuffer }

func (s streamBufferCloser) Close() error { return s.StreamBuffer.Close() }

// CopyDirectory recursively copies path's tree to targetPath, creating
// targetPath if needed. Independent subtrees are copied concurrently
// through an errgroup, bounded by the source directory's own fan-out
// (SPEC_FULL.md §5, "operations on disjoint paths are fully concurrent").
func CopyDirectory(path, targetPath Path) error {
	if _, err := CreateDirectory(targetPath); err != nil {
		return err
	}

	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return err
	}
	it, err := t.OpenDirectory(trail)
	if err != nil {
		return err
	}
	entries, err := ReadDirAll(it)
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, e := range entries {
		e := e
		name := e.Path.Filename()
		srcChild := path.Join(name.String())
		dstChild := targetPath.Join(name.String())
		g.Go(func() error {
			st, err := Status(srcChild)
			if err != nil {
				return err
			}
			if IsDirectoryStatus(st) {
				return CopyDirectory(srcChild, dstChild)
			}
			return CopyFile(srcChild, dstChild)
		})
	}
	return g.Wait()
}

func MustCopyDirectory(path, targetPath Path) { must(CopyDirectory(path, targetPath)) }

// copyAcrossTrees is Rename's degraded-path helper: it copies the source
// entry (file or directory) into the destination tree before the caller
// removes the original.
func copyAcrossTrees(_ Tree, _ Path, oldPath Path, _ Tree, _ Path, newPath Path, st FileStatus) error {
	if IsDirectoryStatus(st) {
		return CopyDirectory(oldPath, newPath)
	}
	return CopyFile(oldPath, newPath)
}

// CopySymlink, CreateSymlink, CreateDirectorySymlink, CreateHardLink, and
// ReadSymlink are declared for API completeness but report
// CodeFunctionNotSupported: neither the in-memory tree nor the host-OS
// bridge in this module models symlinks or additional hard-link creation
// (SPEC_FULL.md's Non-goals scope symlink semantics out of the in-memory
// backend; this module carries the same restriction on the facade so a
// caller sees one consistent error rather than success on one backend and
// failure on another).
func CopySymlink(path, targetPath Path) error {
	return newErr2("copy_symlink", path, targetPath, CodeFunctionNotSupported)
}

func CreateSymlink(target, linkPath Path) error {
	return newErr2("create_symlink", target, linkPath, CodeFunctionNotSupported)
}

func CreateDirectorySymlink(target, linkPath Path) error {
	return newErr2("create_directory_symlink", target, linkPath, CodeFunctionNotSupported)
}

func CreateHardLink(target, linkPath Path) error {
	return newErr2("create_hard_link", target, linkPath, CodeFunctionNotSupported)
}

func ReadSymlink(path Path) (Path, error) {
	return "", newErr("read_symlink", path, CodeFunctionNotSupported)
}

// Relative returns the lexically-relative path from base to path.
func Relative(path, base Path) Path {
	return path.LexicallyRelative(base)
}

// ResizeFile grows the regular file at path to newSize, zero-filling any
// newly-added bytes. It does not shrink: a newSize below the current size
// leaves the file unchanged.
func ResizeFile(path Path, newSize uint64) error {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return err
	}
	buf, err := t.Open(trail, ModeOut)
	if err != nil {
		return err
	}
	defer silentClose(streamBufferCloser{buf})

	if _, err := buf.Seekpos(int64(newSize), Out); err != nil {
		return wrapErr("resize_file", path, CodeInvalidArgument, err)
	}
	// A write of zero bytes at the target offset triggers the same
	// grow-and-zero-fill path a real write would, without altering
	// existing content up to newSize.
	if _, err := buf.Xsputn(nil); err != nil {
		return wrapErr("resize_file", path, CodeInvalidArgument, err)
	}
	return nil
}

func MustResizeFile(path Path, newSize uint64) { must(ResizeFile(path, newSize)) }

// SystemComplete resolves path to an absolute path the way the host OS
// would, without requiring the result to exist.
func SystemComplete(path Path) (Path, error) {
	return Absolute(path), nil
}

func MustSystemComplete(path Path) Path { return mustV(SystemComplete(path)) }

// UniquePath expands `%` characters in model into random hexadecimal
// digits and returns the result joined to the temp directory, mirroring
// boost::filesystem::unique_path's substitution grammar. Randomness comes
// from a UUIDv4, matching the entropy source used elsewhere in this
// module's dependency stack for unique naming.
func UniquePath(model string) (Path, error) {
	if model == "" {
		model = "vfs-%%%%-%%%%-%%%%-%%%%"
	}
	id := uuid.New().String()
	hex := make([]byte, 0, len(id))
	for _, r := range id {
		if r != '-' {
			hex = append(hex, byte(r))
		}
	}

	out := make([]byte, 0, len(model))
	hi := 0
	for i := 0; i < len(model); i++ {
		if model[i] == '%' {
			out = append(out, hex[hi%len(hex)])
			hi++
			continue
		}
		out = append(out, model[i])
	}
	return TempDirectoryPath().Join(string(out)), nil
}

func MustUniquePath(model string) Path { return mustV(UniquePath(model)) }

// SetSpecialData attaches an opaque, backend-defined value to path.
func SetSpecialData(path Path, data any) error {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return err
	}
	return t.SetSpecialData(trail, data)
}

func MustSetSpecialData(path Path, data any) { must(SetSpecialData(path, data)) }

// GetSpecialData returns the value attached by SetSpecialData.
func GetSpecialData(path Path) (any, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return nil, err
	}
	return t.GetSpecialData(trail)
}

func MustGetSpecialData(path Path) any { return mustV(GetSpecialData(path)) }

// GetSpecialDataIfExists returns the value attached by SetSpecialData, or
// ok=false if none is attached or path cannot be resolved.
func GetSpecialDataIfExists(path Path) (data any, ok bool) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return nil, false
	}
	return t.GetSpecialDataIfExists(trail)
}

// OpenDirectory returns a lazy iterator over path's immediate children.
func OpenDirectory(path Path) (DirIterator, error) {
	t, trail, err := theManager().resolveMaybeRelative(path)
	if err != nil {
		return DirIterator{}, err
	}
	return t.OpenDirectory(trail)
}

func MustOpenDirectory(path Path) DirIterator { return mustV(OpenDirectory(path)) }
