package vfs

import (
	"io"
	"os"
	"path/filepath"
	"time"
)

// HostTree bridges to the real operating system filesystem, rooted at a
// base directory. The mount manager hands it paths that carry no root name
// (absolute host paths, or relative paths joined onto a host-owned CWD);
// resolve places their components beneath base.
//
// Unlike the teacher's LocalFileSystem.Open, HostTree.Open never retries by
// creating missing parent directories: SPEC_FULL.md's Open contract treats
// a missing parent as CodeNoSuchFileOrDirectory, matching the in-memory
// tree's behavior so callers see one contract regardless of backend.
type HostTree struct {
	base string
}

// NewHostTree returns a Tree bridging to the host OS beneath base.
func NewHostTree(base string) *HostTree {
	return &HostTree{base: filepath.Clean(base)}
}

var _ Tree = (*HostTree)(nil)

// resolve maps a virtual, root-stripped Path onto a real filesystem path
// beneath t.base. `..` components are honored (unlike the in-memory tree,
// the host OS itself enforces its own boundaries).
func (t *HostTree) resolve(p Path) string {
	comps := p.LexicallyNormal().components()
	return filepath.Join(append([]string{t.base}, comps...)...)
}

func hostErrCode(err error) Code {
	switch {
	case os.IsNotExist(err):
		return CodeNoSuchFileOrDirectory
	case os.IsExist(err):
		return CodeFileExists
	case os.IsPermission(err):
		return CodeInvalidArgument
	default:
		return CodeInvalidArgument
	}
}

func (t *HostTree) Open(path Path, mode OpenMode) (StreamBuffer, error) {
	flag := 0
	switch {
	case mode&ModeOut != 0 && mode&ModeIn != 0:
		flag = os.O_RDWR
	case mode&ModeOut != 0:
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}
	if mode&ModeOut != 0 {
		flag |= os.O_CREATE
	}
	if mode&ModeTrunc != 0 {
		flag |= os.O_TRUNC
	}

	f, err := os.OpenFile(t.resolve(path), flag, 0o644)
	if err != nil {
		return nil, wrapErr("open", path, hostErrCode(err), err)
	}
	return newHostStreamBuffer(f, mode), nil
}

func (t *HostTree) OpenDirectory(path Path) (DirIterator, error) {
	entries, err := os.ReadDir(t.resolve(path))
	if err != nil {
		return DirIterator{}, wrapErr("open_directory", path, hostErrCode(err), err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return NewDirIterator(newMemDirIterator(path, names)), nil
}

func (t *HostTree) CreateDirectory(path Path) (bool, error) {
	real := t.resolve(path)
	if info, err := os.Stat(real); err == nil {
		if info.IsDir() {
			return false, nil
		}
		return false, newErr("create_directory", path, CodeFileExists)
	}
	if err := os.Mkdir(real, 0o755); err != nil {
		return false, wrapErr("create_directory", path, hostErrCode(err), err)
	}
	return true, nil
}

func (t *HostTree) Rename(oldPath, newPath Path) error {
	if err := os.Rename(t.resolve(oldPath), t.resolve(newPath)); err != nil {
		return wrapErr("rename", oldPath, hostErrCode(err), err)
	}
	return nil
}

// Canonical resolves path to its real, symlink-free, absolute form. It
// returns the resolved path as-is rather than relative to t.base: every
// other HostTree method treats the paths it is given and returns as fully
// absolute host paths (mount.go's resolveMaybeRelative hands the host
// branch an unstripped absolute path straight through), so Canonical must
// not be the one method that silently root-strips its result.
func (t *HostTree) Canonical(path Path) (Path, error) {
	real, err := filepath.EvalSymlinks(t.resolve(path))
	if err != nil {
		return "", wrapErr("canonical", path, hostErrCode(err), err)
	}
	return Path(filepath.ToSlash(real)).LexicallyNormal(), nil
}

// WeaklyCanonical resolves symlinks in the longest existing leading prefix
// of path and appends the remaining (possibly nonexistent) trailing
// components unresolved. Unlike Canonical it never fails for a path that
// does not exist in full.
func (t *HostTree) WeaklyCanonical(path Path) (Path, error) {
	norm := path.LexicallyNormal()
	comps := norm.components()

	existing := len(comps)
	for existing > 0 {
		prefix := buildPath(norm.RootName(), norm.HasRootDirectory(), comps[:existing], false)
		if _, err := os.Stat(t.resolve(prefix)); err == nil {
			break
		}
		existing--
	}
	if existing == 0 {
		return norm, nil
	}

	resolvedPrefix, err := t.Canonical(buildPath(norm.RootName(), norm.HasRootDirectory(), comps[:existing], false))
	if err != nil {
		return norm, nil
	}
	if existing == len(comps) {
		return resolvedPrefix, nil
	}
	return buildPath(resolvedPrefix.RootName(), resolvedPrefix.HasRootDirectory(),
		append(resolvedPrefix.components(), comps[existing:]...), false), nil
}

func (t *HostTree) FileSize(path Path) (uint64, error) {
	info, err := os.Stat(t.resolve(path))
	if err != nil {
		return 0, wrapErr("file_size", path, hostErrCode(err), err)
	}
	return uint64(info.Size()), nil
}

func (t *HostTree) Status(path Path) (FileStatus, error) {
	info, err := os.Stat(t.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return FileStatus{Type: TypeNotFound}, nil
		}
		return FileStatus{Type: TypeStatusError}, wrapErr("status", path, hostErrCode(err), err)
	}
	switch {
	case info.IsDir():
		return FileStatus{Type: TypeDirectory}, nil
	case info.Mode().IsRegular():
		return FileStatus{Type: TypeRegular}, nil
	default:
		return FileStatus{Type: TypeOther}, nil
	}
}

func (t *HostTree) Remove(path Path) (bool, error) {
	err := os.Remove(t.resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, wrapErr("remove", path, hostErrCode(err), err)
	}
	return true, nil
}

func (t *HostTree) RemoveAll(path Path) (uint64, error) {
	var count uint64
	real := t.resolve(path)
	err := filepath.WalkDir(real, func(_ string, _ os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, wrapErr("remove_all", path, hostErrCode(err), err)
	}
	if err := os.RemoveAll(real); err != nil {
		return 0, wrapErr("remove_all", path, hostErrCode(err), err)
	}
	return count, nil
}

func (t *HostTree) HardLinkCount(path Path) (uint64, error) {
	info, err := os.Stat(t.resolve(path))
	if err != nil {
		return 0, wrapErr("hard_link_count", path, hostErrCode(err), err)
	}
	if nlink := hostNlink(info); nlink > 0 {
		return nlink, nil
	}
	return 1, nil
}

func (t *HostTree) Space(path Path) (SpaceInfo, error) {
	return hostSpace(t.resolve(path))
}

func (t *HostTree) LastWriteTime(path Path) (time.Time, error) {
	info, err := os.Stat(t.resolve(path))
	if err != nil {
		return time.Time{}, wrapErr("last_write_time", path, hostErrCode(err), err)
	}
	return info.ModTime(), nil
}

func (t *HostTree) SetLastWriteTime(path Path, tm time.Time) error {
	real := t.resolve(path)
	if err := os.Chtimes(real, tm, tm); err != nil {
		return wrapErr("last_write_time", path, hostErrCode(err), err)
	}
	return nil
}

// SetSpecialData/GetSpecialData have no host-OS analogue; the host tree
// stores them in a process-wide in-process side table keyed by resolved
// host path, so every HostTree that resolves a path to the same host file
// sees the same special data.
func (t *HostTree) SetSpecialData(path Path, data any) error {
	hostSpecialMu.Lock()
	defer hostSpecialMu.Unlock()
	hostSpecialData[t.resolve(path)] = data
	return nil
}

func (t *HostTree) GetSpecialData(path Path) (any, error) {
	data, ok := t.GetSpecialDataIfExists(path)
	if !ok {
		return nil, newErr("get_special_data", path, CodeNoSuchFileOrDirectory)
	}
	return data, nil
}

func (t *HostTree) GetSpecialDataIfExists(path Path) (any, bool) {
	hostSpecialMu.RLock()
	defer hostSpecialMu.RUnlock()
	data, ok := hostSpecialData[t.resolve(path)]
	return data, ok
}

// hostStreamBuffer adapts an *os.File to StreamBuffer, tracking its own
// read/write cursors since os.File has only a single position.
type hostStreamBuffer struct {
	f        *os.File
	readPos  int64
	writePos int64
	closed   bool
	app      bool
}

func newHostStreamBuffer(f *os.File, mode OpenMode) *hostStreamBuffer {
	b := &hostStreamBuffer{f: f, app: mode&ModeApp != 0}
	if mode&ModeApp != 0 {
		if info, err := f.Stat(); err == nil {
			b.writePos = info.Size()
		}
	}
	return b
}

var _ StreamBuffer = (*hostStreamBuffer)(nil)

func (b *hostStreamBuffer) IsOpen() bool { return !b.closed }

func (b *hostStreamBuffer) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.f.Close()
}

func (b *hostStreamBuffer) Underflow() (byte, error) {
	buf := make([]byte, 1)
	n, err := b.f.ReadAt(buf, b.readPos)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	return buf[0], nil
}

func (b *hostStreamBuffer) Uflow() (byte, error) {
	c, err := b.Underflow()
	if err != nil {
		return 0, err
	}
	b.readPos++
	return c, nil
}

func (b *hostStreamBuffer) Xsgetn(p []byte) (int, error) {
	n, err := b.f.ReadAt(p, b.readPos)
	b.readPos += int64(n)
	if err == io.EOF && n > 0 {
		return n, nil
	}
	return n, err
}

func (b *hostStreamBuffer) Overflow(c byte) error {
	_, err := b.Xsputn([]byte{c})
	return err
}

func (b *hostStreamBuffer) Xsputn(p []byte) (int, error) {
	if b.app || len(p) == 0 {
		info, err := b.f.Stat()
		if err != nil {
			return 0, err
		}
		if b.app {
			b.writePos = info.Size()
		}
		if len(p) == 0 && b.writePos > info.Size() {
			// An empty write past the end still grows the file, zero-filled.
			return 0, b.f.Truncate(b.writePos)
		}
	}
	n, err := b.f.WriteAt(p, b.writePos)
	b.writePos += int64(n)
	return n, err
}

func (b *hostStreamBuffer) Seekpos(pos int64, which Which) (int64, error) {
	if pos < 0 {
		return 0, errInvalidSeek
	}
	if which&In != 0 {
		b.readPos = pos
	}
	if which&Out != 0 {
		b.writePos = pos
	}
	return pos, nil
}

func (b *hostStreamBuffer) Seekoff(off int64, dir SeekDir, which Which) (int64, error) {
	if which == (In|Out) && dir == Cur {
		return 0, errInvalidSeek
	}
	var size int64
	if dir == End {
		info, err := b.f.Stat()
		if err != nil {
			return 0, err
		}
		size = info.Size()
	}
	base := func(cur int64) int64 {
		switch dir {
		case Beg:
			return off
		case End:
			return size + off
		default:
			return cur + off
		}
	}
	var result int64
	if which&In != 0 {
		result = base(b.readPos)
		if result < 0 {
			return 0, errInvalidSeek
		}
		b.readPos = result
	}
	if which&Out != 0 {
		result = base(b.writePos)
		if result < 0 {
			return 0, errInvalidSeek
		}
		b.writePos = result
	}
	return result, nil
}
