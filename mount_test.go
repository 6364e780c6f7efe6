package vfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstallTreeThenLookupReturnsSameTree(t *testing.T) {
	Clear()
	defer Clear()

	tree := NewMemTree()
	require.NoError(t, InstallTree("test", tree))

	got, ok := GetTree("test")
	require.True(t, ok)
	require.Same(t, tree, got)
}

func TestInstallTreeSecondTimeFails(t *testing.T) {
	Clear()
	defer Clear()

	require.NoError(t, InstallTree("test", NewMemTree()))
	err := InstallTree("test", NewMemTree())
	require.Error(t, err)
	require.Equal(t, CodeFileExists, ErrCode(err))
}

func TestSetCurrentPathIntoMountedTree(t *testing.T) {
	Clear()
	defer Clear()

	tree := NewMemTree()
	Mount("test", tree)
	_, err := tree.CreateDirectory("/dir")
	require.NoError(t, err)

	require.NoError(t, SetCurrentPath("//test/dir"))
	require.Equal(t, Path("//test/dir"), CurrentPath())
}

func TestSetCurrentPathRejectsNonDirectory(t *testing.T) {
	Clear()
	defer Clear()

	tree := NewMemTree()
	Mount("test", tree)
	_, err := tree.Open("/file", ModeOut|ModeTrunc)
	require.NoError(t, err)

	err = SetCurrentPath("//test/file")
	require.Error(t, err)
}

// TestSetCurrentPathRelativeFailsWithoutTree is spec.md §4.7's "if path is
// relative and no tree owns CWD: error" rule. Freshly cleared state has the
// host OS owning CWD, not a mounted tree, so a relative SetCurrentPath must
// fail rather than silently resolve against the cached host path.
func TestSetCurrentPathRelativeFailsWithoutTree(t *testing.T) {
	Clear()
	defer Clear()

	err := SetCurrentPath("relative/dir")
	require.Error(t, err)
	require.Equal(t, CodeInvalidArgument, ErrCode(err))
}

// TestSetCurrentPathRelativeSucceedsUnderTreeOwnedCWD is the positive
// counterpart: once a tree owns CWD, a relative SetCurrentPath resolves
// against it.
func TestSetCurrentPathRelativeSucceedsUnderTreeOwnedCWD(t *testing.T) {
	Clear()
	defer Clear()

	tree := NewMemTree()
	Mount("test", tree)
	_, err := tree.CreateDirectory("/dir")
	require.NoError(t, err)
	_, err = tree.CreateDirectory("/dir/sub")
	require.NoError(t, err)

	require.NoError(t, SetCurrentPath("//test/dir"))
	require.NoError(t, SetCurrentPath("sub"))
	require.Equal(t, Path("//test/dir/sub"), CurrentPath())
}

// TestSetCurrentPathBackToHostClearsTreeOwnership verifies that switching
// CWD back to a plain host path (no root name) makes a subsequent relative
// SetCurrentPath fail again, since no tree owns CWD anymore.
func TestSetCurrentPathBackToHostClearsTreeOwnership(t *testing.T) {
	Clear()
	defer Clear()

	tree := NewMemTree()
	Mount("test", tree)
	_, err := tree.CreateDirectory("/dir")
	require.NoError(t, err)

	require.NoError(t, SetCurrentPath("//test/dir"))
	require.NoError(t, SetCurrentPath("/"))
	require.Error(t, SetCurrentPath("relative"))
}

func TestVirtualRootWithNoTreeIsNotFoundNotDelegated(t *testing.T) {
	Clear()
	defer Clear()

	_, err := Status("//nonexistent/x")
	require.NoError(t, err) // Status never errors on absence
	st, err := Status("//nonexistent/x")
	require.NoError(t, err)
	require.Equal(t, TypeNotFound, st.Type)
}
