package vfs

import (
	"os"
	"sync"
)

// manager is the process-wide singleton routing table: which Tree backend
// answers for a given root name, and the process's current working
// directory. It keeps two independent mutexes, one guarding the mount
// table and CWD together, one guarding the temp-directory override, since
// they are read and written on unrelated code paths and coupling them
// would serialize operations that have no reason to block each other
// (SPEC_FULL.md §5, grounded on FilesystemManager.hpp's two-mutex split).
type manager struct {
	mountMu     sync.Mutex
	trees       map[string]Tree
	currentPath Path // has a root name when a tree owns CWD, else a plain host path
	hasCWDTree  bool // true iff a mounted tree, not the host OS, owns currentPath

	tempMu  sync.Mutex
	tempDir Path

	hostRoot Tree // the real OS filesystem, addressed by plain absolute paths
}

var (
	instanceOnce sync.Once
	instance     *manager
)

func theManager() *manager {
	instanceOnce.Do(func() {
		wd, err := os.Getwd()
		if err != nil {
			wd = "/"
		}
		instance = &manager{
			trees:       map[string]Tree{},
			currentPath: Path(filepathToSlash(wd)),
			hasCWDTree:  false,
			hostRoot:    NewHostTree("/"),
		}
	})
	return instance
}

func filepathToSlash(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			out[i] = '/'
		} else {
			out[i] = s[i]
		}
	}
	return string(out)
}

// Mount installs tree so that paths rooted at //name are routed to it.
// Mounting over an already-mounted name replaces the previous tree;
// InstallTree is the insert-or-fail form.
func Mount(name string, tree Tree) {
	m := theManager()
	m.mountMu.Lock()
	defer m.mountMu.Unlock()
	m.trees[name] = tree
}

// InstallTree installs tree at root name, failing if one is already
// mounted there. This is the strict counterpart to Mount, matching
// FilesystemManager::installTree's insert-or-fail contract.
func InstallTree(name string, tree Tree) error {
	m := theManager()
	m.mountMu.Lock()
	defer m.mountMu.Unlock()
	if _, ok := m.trees[name]; ok {
		log.Debug().Str("root", name).Msg("install_tree failed: root already mounted")
		return newErr("install_tree", Path("//"+name), CodeFileExists)
	}
	m.trees[name] = tree
	return nil
}

// MustInstallTree is InstallTree's throwing variant. SPEC_FULL.md §7
// classifies install_tree as a programming error rather than a recoverable
// I/O failure, matching FilesystemManager::installTreeAtRoot, which has no
// error-code form at all; MustInstallTree is the primary way this module
// expects that call to be made, with InstallTree kept for callers that do
// want to handle a collision themselves.
func MustInstallTree(name string, tree Tree) {
	must(InstallTree(name, tree))
}

// GetTree returns the tree installed at root name, if any.
func GetTree(name string) (Tree, bool) {
	return theManager().treeAt(name)
}

// Unmount removes the tree installed at name, if any.
func Unmount(name string) {
	m := theManager()
	m.mountMu.Lock()
	defer m.mountMu.Unlock()
	delete(m.trees, name)
}

// treeAt returns the tree installed at root name, and whether one exists.
func (m *manager) treeAt(name string) (Tree, bool) {
	m.mountMu.Lock()
	defer m.mountMu.Unlock()
	t, ok := m.trees[name]
	return t, ok
}

// Clear tears down the mount table and CWD state, restoring CWD to the
// real host OS working directory. Intended for use between test cases,
// mirroring FilesystemManager::clear().
func Clear() {
	m := theManager()
	wd, err := os.Getwd()
	if err != nil {
		wd = "/"
	}

	m.mountMu.Lock()
	m.trees = map[string]Tree{}
	m.currentPath = Path(filepathToSlash(wd))
	m.hasCWDTree = false
	m.mountMu.Unlock()

	m.tempMu.Lock()
	m.tempDir = ""
	m.tempMu.Unlock()
}

// resolveAbsolute resolves an absolute, root-named path to its backing
// tree and the root-stripped trail that tree should operate on. A root
// name formatted like a virtual root but naming no mounted tree is
// reported as absent rather than silently handed to the host OS
// (SPEC_FULL.md §4.8 step 4).
func (m *manager) resolveAbsolute(p Path) (Tree, Path, error) {
	root := p.RootName()
	t, ok := m.treeAt(root)
	if !ok {
		log.Debug().Str("root", root).Msg("virtual root has no mounted tree, reporting absent rather than falling through to host OS")
		return nil, "", newErr("resolve", p, CodeNoSuchFileOrDirectory)
	}
	_, hasRootDir, rest := splitRaw(p.LexicallyNormal().String())
	trail := Path(rest)
	if hasRootDir {
		trail = "/" + trail
	}
	if trail == "" {
		trail = "."
	}
	return t, trail, nil
}

// resolveMaybeRelative is the facade's single routing chokepoint
// (SPEC_FULL.md §4.8, grounded on FilesystemImplUtils.hpp's
// getTreeForPathMaybeRelative): a path with a root name always resolves
// against the mount table; a rooted (but root-name-less) path or a
// relative path under a host-owned CWD falls through to the real
// filesystem; a relative path under a tree-owned CWD resolves within that
// tree.
func (m *manager) resolveMaybeRelative(p Path) (Tree, Path, error) {
	if p.HasRootName() {
		return m.resolveAbsolute(p)
	}

	if p.IsAbsolute() {
		return m.hostRoot, p, nil
	}

	m.mountMu.Lock()
	cur := m.currentPath
	m.mountMu.Unlock()

	if cur.HasRootName() {
		return m.resolveAbsolute(cur.Join(p.String()))
	}
	return m.hostRoot, cur.Join(p.String()), nil
}

// CurrentPath returns the process's current working directory. It has a
// root name when a mounted tree owns the CWD, otherwise it is a plain
// absolute host OS path.
func CurrentPath() Path {
	m := theManager()
	m.mountMu.Lock()
	defer m.mountMu.Unlock()
	return m.currentPath
}

// SetCurrentPath changes the process's current working directory. p may
// be relative to the existing current path or absolute; the resolved
// target must denote an existing directory. A relative p fails with
// CodeInvalidArgument when no mounted tree currently owns the CWD
// (SPEC_FULL.md §4.7, "if path is relative and no tree owns CWD: error"),
// matching FilesystemManager::setCurrentPath's unconditional throw for a
// relative path while _currentPathTree is null.
func SetCurrentPath(p Path) error {
	m := theManager()

	var target Path
	if p.HasRootName() || p.IsAbsolute() {
		target = p.LexicallyNormal()
	} else {
		m.mountMu.Lock()
		cur := m.currentPath
		hasTree := m.hasCWDTree
		m.mountMu.Unlock()
		if !hasTree {
			return newErr("current_path", p, CodeInvalidArgument)
		}
		target = cur.Join(p.String()).LexicallyNormal()
	}

	t, trail, err := m.resolveMaybeRelative(target)
	if err != nil {
		return err
	}
	status, err := t.Status(trail)
	if err != nil {
		return err
	}
	if !IsDirectoryStatus(status) {
		return newErr("current_path", p, CodeInvalidArgument)
	}

	m.mountMu.Lock()
	m.currentPath = target
	m.hasCWDTree = target.HasRootName()
	m.mountMu.Unlock()
	return nil
}

// TempDirectoryPath returns the process's temp directory override if one
// was set via SetTempDirectoryPath, else the host OS's own temp directory.
func TempDirectoryPath() Path {
	m := theManager()
	m.tempMu.Lock()
	defer m.tempMu.Unlock()
	if m.tempDir != "" {
		return m.tempDir
	}
	return Path(filepathToSlash(os.TempDir()))
}

// SetTempDirectoryPath overrides the path UniquePath and other
// temp-file-needing operations use as a base.
func SetTempDirectoryPath(p Path) {
	m := theManager()
	m.tempMu.Lock()
	defer m.tempMu.Unlock()
	m.tempDir = p
}
