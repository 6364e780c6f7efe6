package vfs

import (
	"sync"
	"time"
	"unsafe"
)

// memNode is one entry in the in-memory tree: either a directory (children
// non-nil, file nil) or a regular file (file non-nil, children nil). Each
// node owns its own mutex so that traversal can proceed hand-over-hand,
// locking a child before releasing its parent, rather than holding one
// coarse lock over the whole tree (SPEC_FULL.md §5, grounded on
// FilesystemTreeInMemory.cpp's findTreeNode).
type memNode struct {
	mu sync.RWMutex

	name     string
	children map[string]*memNode // nil for files
	file     *memFile            // nil for directories

	special    any
	hasSpecial bool
	modTime    time.Time
}

// memFile is the byte storage backing a regular file. It has its own mutex
// distinct from the owning memNode's, so that a stream buffer's reads and
// writes serialize independently of lookups happening in the parent
// directory.
type memFile struct {
	mu   sync.Mutex
	data []byte
}

func newMemDir(name string) *memNode {
	return &memNode{name: name, children: map[string]*memNode{}, modTime: time.Time{}}
}

func newMemFile(name string) *memNode {
	return &memNode{name: name, file: &memFile{}, modTime: time.Time{}}
}

func (n *memNode) isDir() bool {
	return n.children != nil
}

// MemTree is an in-process filesystem held entirely in memory: no
// descriptors, no host paths, torn down when the process (or the mount that
// owns it) is dropped. It is the only concrete Tree backend this module
// ships beyond the host-OS passthrough, matching the scope of the original
// design (an in-memory tree is the only concrete Tree implementation beyond
// the host-OS bridge).
type MemTree struct {
	root *memNode
}

// NewMemTree returns an empty in-memory tree, rooted at a fresh directory.
func NewMemTree() *MemTree {
	return &MemTree{root: newMemDir("")}
}

var _ Tree = (*MemTree)(nil)

// lookupNode walks path component by component from the tree root,
// hand-over-hand: it locks each child before releasing its parent, so no
// more than two node locks are ever held at once. The final component is
// locked for writing if wlock is true, for reading otherwise; the caller
// must release it.
func (t *MemTree) lookupNode(path Path, wlock bool) (*memNode, error) {
	comps := path.LexicallyNormal().components()

	cur := t.root
	cur.mu.RLock()
	curWLock := false

	relock := func(n *memNode, w bool) {
		if w {
			n.mu.Lock()
		} else {
			n.mu.RLock()
		}
	}
	release := func(n *memNode, w bool) {
		if w {
			n.mu.Unlock()
		} else {
			n.mu.RUnlock()
		}
	}

	for i, c := range comps {
		if c == "." {
			continue
		}
		if !cur.isDir() {
			release(cur, curWLock)
			return nil, newErr("open", path, CodeNoSuchFileOrDirectory)
		}
		child, ok := cur.children[c]
		if !ok {
			release(cur, curWLock)
			return nil, newErr("open", path, CodeNoSuchFileOrDirectory)
		}
		final := i == len(comps)-1
		wantW := final && wlock
		relock(child, wantW)
		release(cur, curWLock)
		cur, curWLock = child, wantW
	}

	// len(comps) == 0 resolves to the root itself, already locked as read.
	if len(comps) == 0 && wlock {
		cur.mu.RUnlock()
		cur.mu.Lock()
	}
	return cur, nil
}

// lookupParent locates the parent directory of path, locked (write if
// wlock, else read), along with path's final component name. The final
// component itself need not exist.
func (t *MemTree) lookupParent(path Path, wlock bool) (*memNode, string, error) {
	comps := path.LexicallyNormal().components()
	if len(comps) == 0 {
		return nil, "", newErr("open", path, CodeInvalidArgument)
	}
	parent, err := t.lookupNode(path.ParentPath(), wlock)
	if err != nil {
		return nil, "", err
	}
	if !parent.isDir() {
		if wlock {
			parent.mu.Unlock()
		} else {
			parent.mu.RUnlock()
		}
		return nil, "", newErr("open", path, CodeNoSuchFileOrDirectory)
	}
	return parent, comps[len(comps)-1], nil
}

func (t *MemTree) Open(path Path, mode OpenMode) (StreamBuffer, error) {
	parent, name, err := t.lookupParent(path, true)
	if err != nil {
		return nil, err
	}
	defer parent.mu.Unlock()

	child, ok := parent.children[name]
	if !ok {
		if mode&ModeOut == 0 {
			return nil, newErr("open", path, CodeNoSuchFileOrDirectory)
		}
		child = newMemFile(name)
		parent.children[name] = child
	}
	if child.isDir() {
		return nil, newErr("open", path, CodeInvalidArgument)
	}
	if mode&ModeTrunc != 0 {
		child.file.mu.Lock()
		child.file.data = nil
		child.file.mu.Unlock()
	}
	parent.modTime = time.Now()

	return newMemStreamBuffer(child.file, mode), nil
}

func (t *MemTree) OpenDirectory(path Path) (DirIterator, error) {
	node, err := t.lookupNode(path, false)
	if err != nil {
		return DirIterator{}, err
	}
	defer node.mu.RUnlock()

	if !node.isDir() {
		return DirIterator{}, newErr("open_directory", path, CodeInvalidArgument)
	}

	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	return NewDirIterator(newMemDirIterator(path, names)), nil
}

func (t *MemTree) CreateDirectory(path Path) (bool, error) {
	if path.LexicallyNormal() == "." {
		return false, nil
	}
	parent, name, err := t.lookupParent(path, true)
	if err != nil {
		return false, err
	}
	defer parent.mu.Unlock()

	if existing, ok := parent.children[name]; ok {
		if existing.isDir() {
			return false, nil
		}
		return false, newErr("create_directory", path, CodeFileExists)
	}
	parent.children[name] = newMemDir(name)
	parent.modTime = time.Now()
	return true, nil
}

// Rename moves oldPath to newPath. Both parents are locked in a fixed order
// determined by their node addresses (nodeOrder) to avoid the classic
// two-directory-rename deadlock, mirroring FilesystemTreeInMemory.cpp's
// rename.
func (t *MemTree) Rename(oldPath, newPath Path) error {
	if oldPath.LexicallyNormal() == newPath.LexicallyNormal() {
		return nil
	}
	if isProperAncestor(oldPath, newPath) || isProperAncestor(newPath, oldPath) {
		return newErr2("rename", oldPath, newPath, CodeInvalidArgument)
	}

	oldComps := oldPath.LexicallyNormal().components()
	newComps := newPath.LexicallyNormal().components()
	if len(oldComps) == 0 || len(newComps) == 0 {
		return newErr2("rename", oldPath, newPath, CodeInvalidArgument)
	}
	oldParentPath := oldPath.ParentPath()
	newParentPath := newPath.ParentPath()
	oldName := oldComps[len(oldComps)-1]
	newName := newComps[len(newComps)-1]

	sameParent := oldParentPath.Equal(newParentPath)

	if sameParent {
		parent, err := t.lookupNode(oldParentPath, true)
		if err != nil {
			return err
		}
		defer parent.mu.Unlock()
		return t.renameWithin(parent, oldName, parent, newName, oldPath, newPath)
	}

	// Resolve both parents unlocked first, then lock in pointer order to
	// prevent A-locks-then-waits-for-B while B-locks-then-waits-for-A.
	oldParent, err := t.lookupNode(oldParentPath, false)
	if err != nil {
		return err
	}
	oldParent.mu.RUnlock()
	newParent, err := t.lookupNode(newParentPath, false)
	if err != nil {
		return err
	}
	newParent.mu.RUnlock()

	first, second := oldParent, newParent
	if nodeOrder(newParent) < nodeOrder(oldParent) {
		first, second = newParent, oldParent
	}
	first.mu.Lock()
	second.mu.Lock()
	defer second.mu.Unlock()
	defer first.mu.Unlock()

	return t.renameWithin(oldParent, oldName, newParent, newName, oldPath, newPath)
}

// renameWithin assumes oldParent and newParent are already held for
// writing (possibly the same node).
func (t *MemTree) renameWithin(oldParent *memNode, oldName string, newParent *memNode, newName string, oldPath, newPath Path) error {
	if !oldParent.isDir() || !newParent.isDir() {
		return newErr2("rename", oldPath, newPath, CodeNoSuchFileOrDirectory)
	}
	moved, ok := oldParent.children[oldName]
	if !ok {
		return newErr2("rename", oldPath, newPath, CodeNoSuchFileOrDirectory)
	}
	if existing, ok := newParent.children[newName]; ok && existing != moved {
		if existing.isDir() != moved.isDir() {
			return newErr2("rename", oldPath, newPath, CodeInvalidArgument)
		}
		if existing.isDir() && len(existing.children) > 0 {
			return newErr2("rename", oldPath, newPath, CodeDirectoryNotEmpty)
		}
	}
	delete(oldParent.children, oldName)
	moved.name = newName
	newParent.children[newName] = moved
	now := time.Now()
	oldParent.modTime, newParent.modTime = now, now
	return nil
}

func (t *MemTree) Canonical(path Path) (Path, error) {
	node, err := t.lookupNode(path, false)
	if err != nil {
		return "", newErr("canonical", path, CodeNoSuchFileOrDirectory)
	}
	node.mu.RUnlock()
	return path.LexicallyNormal(), nil
}

// WeaklyCanonical has no symlinks to resolve in this backend, so its
// lexically-normal form already satisfies the "leading existing portion
// resolved, trailing missing portion appended lexically" contract without
// needing to probe which prefix exists.
func (t *MemTree) WeaklyCanonical(path Path) (Path, error) {
	return path.LexicallyNormal(), nil
}

func (t *MemTree) FileSize(path Path) (uint64, error) {
	node, err := t.lookupNode(path, false)
	if err != nil {
		return 0, err
	}
	defer node.mu.RUnlock()
	if node.isDir() {
		return 0, newErr("file_size", path, CodeInvalidArgument)
	}
	node.file.mu.Lock()
	defer node.file.mu.Unlock()
	return uint64(len(node.file.data)), nil
}

func (t *MemTree) Status(path Path) (FileStatus, error) {
	node, err := t.lookupNode(path, false)
	if err != nil {
		if ErrCode(err) == CodeNoSuchFileOrDirectory {
			return FileStatus{Type: TypeNotFound}, nil
		}
		return FileStatus{Type: TypeStatusError}, err
	}
	defer node.mu.RUnlock()
	if node.isDir() {
		return FileStatus{Type: TypeDirectory}, nil
	}
	return FileStatus{Type: TypeRegular}, nil
}

func (t *MemTree) Remove(path Path) (bool, error) {
	parent, name, err := t.lookupParent(path, true)
	if err != nil {
		if ErrCode(err) == CodeNoSuchFileOrDirectory {
			return false, nil
		}
		return false, err
	}
	defer parent.mu.Unlock()

	child, ok := parent.children[name]
	if !ok {
		return false, nil
	}
	if child.isDir() && len(child.children) > 0 {
		return false, newErr("remove", path, CodeDirectoryNotEmpty)
	}
	delete(parent.children, name)
	parent.modTime = time.Now()
	return true, nil
}

func (t *MemTree) RemoveAll(path Path) (uint64, error) {
	parent, name, err := t.lookupParent(path, true)
	if err != nil {
		if ErrCode(err) == CodeNoSuchFileOrDirectory {
			return 0, nil
		}
		return 0, err
	}
	defer parent.mu.Unlock()

	child, ok := parent.children[name]
	if !ok {
		return 0, nil
	}
	count := countNodes(child)
	delete(parent.children, name)
	parent.modTime = time.Now()
	return count, nil
}

func countNodes(n *memNode) uint64 {
	var total uint64 = 1
	for _, c := range n.children {
		total += countNodes(c)
	}
	return total
}

func (t *MemTree) HardLinkCount(path Path) (uint64, error) {
	node, err := t.lookupNode(path, false)
	if err != nil {
		return 0, err
	}
	defer node.mu.RUnlock()
	// The in-memory tree has no hard-link aliasing: every node has exactly
	// one referring directory entry.
	return 1, nil
}

func (t *MemTree) Space(path Path) (SpaceInfo, error) {
	return SpaceInfo{}, nil
}

func (t *MemTree) LastWriteTime(path Path) (time.Time, error) {
	node, err := t.lookupNode(path, false)
	if err != nil {
		return time.Time{}, err
	}
	defer node.mu.RUnlock()
	return node.modTime, nil
}

func (t *MemTree) SetLastWriteTime(path Path, tm time.Time) error {
	node, err := t.lookupNode(path, true)
	if err != nil {
		return err
	}
	defer node.mu.Unlock()
	node.modTime = tm
	return nil
}

func (t *MemTree) SetSpecialData(path Path, data any) error {
	node, err := t.lookupNode(path, true)
	if err != nil {
		return err
	}
	defer node.mu.Unlock()
	node.special = data
	node.hasSpecial = true
	return nil
}

func (t *MemTree) GetSpecialData(path Path) (any, error) {
	node, err := t.lookupNode(path, false)
	if err != nil {
		return nil, err
	}
	defer node.mu.RUnlock()
	if !node.hasSpecial {
		return nil, newErr("get_special_data", path, CodeNoSuchFileOrDirectory)
	}
	return node.special, nil
}

func (t *MemTree) GetSpecialDataIfExists(path Path) (any, bool) {
	node, err := t.lookupNode(path, false)
	if err != nil {
		return nil, false
	}
	defer node.mu.RUnlock()
	return node.special, node.hasSpecial
}

func hasDotDotPrefix(p Path) bool {
	comps := p.components()
	return len(comps) > 0 && comps[0] == ".."
}

// isProperAncestor reports whether anc is a strict ancestor of desc, i.e.
// desc names something reachable by descending from anc but is not anc
// itself. Rename fails with CodeInvalidArgument when either endpoint is a
// proper ancestor of the other (SPEC_FULL.md §4.4).
func isProperAncestor(anc, desc Path) bool {
	rel := desc.LexicallyRelative(anc)
	if rel == "" || rel == "." {
		return false
	}
	return !hasDotDotPrefix(rel)
}

// nodeOrder gives an arbitrary but stable total order over node identities,
// used only to pick a consistent dual-lock order for cross-directory
// renames and avoid the classic AB/BA deadlock.
func nodeOrder(n *memNode) uintptr {
	return uintptr(unsafe.Pointer(n))
}
