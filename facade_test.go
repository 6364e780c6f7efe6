package vfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenarioMountWriteLineRead is end-to-end scenario 1: mount a fresh
// in-memory tree at //test, set CWD to //test/, write two lines to a file,
// and read them back line by line.
func TestScenarioMountWriteLineRead(t *testing.T) {
	Clear()
	defer Clear()

	Mount("test", NewMemTree())
	require.NoError(t, SetCurrentPath("//test/"))

	out := OpenOutputStream("//test/file", ModeOut|ModeTrunc)
	out.WriteString("testdata\ntestdata2\n")
	require.False(t, out.Fail())
	require.NoError(t, out.Close())

	in := OpenInputStream("//test/file")
	line1, ok := in.ReadLine()
	require.True(t, ok)
	require.Equal(t, "testdata", line1)

	line2, ok := in.ReadLine()
	require.True(t, ok)
	require.Equal(t, "testdata2", line2)

	line3, ok := in.ReadLine()
	require.False(t, ok)
	require.Equal(t, "", line3)
	require.False(t, in.Fail())
}

// TestScenarioRenameThenReadThenExistsFalse is scenario 2.
func TestScenarioRenameThenReadThenExistsFalse(t *testing.T) {
	Clear()
	defer Clear()

	Mount("test", NewMemTree())
	out := OpenOutputStream("//test/file", ModeOut|ModeTrunc)
	out.WriteString("testdata\ntestdata2\n")
	require.NoError(t, out.Close())

	require.NoError(t, Rename("//test/file", "//test/file2"))

	in := OpenInputStream("//test/file2")
	data, err := in.ReadAll()
	require.NoError(t, err)
	require.Equal(t, "testdata\ntestdata2\n", string(data))

	require.False(t, Exists("//test/file"))
}

// TestScenarioCreateDirectoriesChain is scenario 3.
func TestScenarioCreateDirectoriesChain(t *testing.T) {
	Clear()
	defer Clear()

	Mount("test", NewMemTree())
	created, err := CreateDirectories("//test/a/b/c")
	require.NoError(t, err)
	require.True(t, created)

	for _, p := range []Path{"//test", "//test/a", "//test/a/b", "//test/a/b/c"} {
		require.True(t, IsDirectory(p), "%s must be a directory", p)
	}
}

// TestScenarioSpecialDataSharedReference is scenario 4.
func TestScenarioSpecialDataSharedReference(t *testing.T) {
	Clear()
	defer Clear()

	Mount("test", NewMemTree())
	_, err := CreateDirectory("//test/dummy")
	require.NoError(t, err)
	out := OpenOutputStream("//test/fn", ModeOut|ModeTrunc)
	require.NoError(t, out.Close())

	type payload struct{ v int }
	want := &payload{v: 7}
	require.NoError(t, SetSpecialData("//test/fn", want))

	got, err := GetSpecialData("//test/fn")
	require.NoError(t, err)
	require.Same(t, want, got)
}

// TestScenarioDirectoryIteratorExactEntrySet is scenario 5.
func TestScenarioDirectoryIteratorExactEntrySet(t *testing.T) {
	Clear()
	defer Clear()

	Mount("test", NewMemTree())
	_, err := CreateDirectory("//test/dir1")
	require.NoError(t, err)
	out1 := OpenOutputStream("//test/file1", ModeOut|ModeTrunc)
	out1.WriteString("testdata\ntestdata2\n")
	require.NoError(t, out1.Close())
	out2 := OpenOutputStream("//test/file2", ModeOut|ModeTrunc)
	require.NoError(t, out2.Close())

	it, err := OpenDirectory("//test/")
	require.NoError(t, err)
	entries, err := ReadDirAll(it)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Path.Filename().String()] = true
	}
	require.Equal(t, map[string]bool{"dir1": true, "file1": true, "file2": true}, names)
}

// TestScenarioCrossTreeRenameDegradesToCopyAndRemove is scenario 6.
func TestScenarioCrossTreeRenameDegradesToCopyAndRemove(t *testing.T) {
	Clear()
	defer Clear()

	Mount("a", NewMemTree())
	Mount("b", NewMemTree())

	out := OpenOutputStream("//a/x", ModeOut|ModeTrunc)
	out.WriteString("cross-tree-payload")
	require.NoError(t, out.Close())

	sizeBefore, err := FileSize("//a/x")
	require.NoError(t, err)

	require.NoError(t, Rename("//a/x", "//b/x"))

	sizeAfter, err := FileSize("//b/x")
	require.NoError(t, err)
	require.Equal(t, sizeBefore, sizeAfter)
	require.False(t, Exists("//a/x"))
}

func TestRoundTripWriteThenRead(t *testing.T) {
	Clear()
	defer Clear()

	Mount("test", NewMemTree())
	out := OpenOutputStream("//test/roundtrip", ModeOut|ModeTrunc)
	out.WriteString("exact bytes")
	require.NoError(t, out.Close())

	in := OpenInputStream("//test/roundtrip")
	data, err := in.ReadAll()
	require.NoError(t, err)
	require.Equal(t, "exact bytes", string(data))
}

func TestVirtualRootLooksUpButNeverDelegatesToHost(t *testing.T) {
	Clear()
	defer Clear()

	_, err := OpenFile("//ghost/file", ModeIn)
	require.Error(t, err)
	require.Equal(t, CodeNoSuchFileOrDirectory, ErrCode(err))
}
