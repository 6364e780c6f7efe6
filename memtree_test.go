package vfs

import (
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemTreeCreateDirectory(t *testing.T) {
	tree := NewMemTree()
	created, err := tree.CreateDirectory("/a")
	require.NoError(t, err)
	require.True(t, created)

	st, err := tree.Status("/a")
	require.NoError(t, err)
	require.True(t, IsDirectoryStatus(st))

	created, err = tree.CreateDirectory("/a")
	require.NoError(t, err)
	require.False(t, created, "creating an already-existing directory reports false, not an error")
}

func TestMemTreeOpenWriteRead(t *testing.T) {
	tree := NewMemTree()
	buf, err := tree.Open("/file", ModeOut|ModeTrunc)
	require.NoError(t, err)
	n, err := buf.Xsputn([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, buf.Close())

	size, err := tree.FileSize("/file")
	require.NoError(t, err)
	require.EqualValues(t, 5, size)

	rbuf, err := tree.Open("/file", ModeIn)
	require.NoError(t, err)
	out := make([]byte, 5)
	rn, err := rbuf.Xsgetn(out)
	require.NoError(t, err)
	require.Equal(t, 5, rn)
	require.Equal(t, "hello", string(out))
}

func TestMemTreeOpenNonexistentForReadFails(t *testing.T) {
	tree := NewMemTree()
	_, err := tree.Open("/missing", ModeIn)
	require.Error(t, err)
	require.Equal(t, CodeNoSuchFileOrDirectory, ErrCode(err))
}

func TestMemTreeSparseWriteZeroFills(t *testing.T) {
	tree := NewMemTree()
	buf, err := tree.Open("/file", ModeOut|ModeTrunc)
	require.NoError(t, err)

	_, err = buf.Xsputn([]byte("AB"))
	require.NoError(t, err)

	_, err = buf.Seekpos(10, Out)
	require.NoError(t, err)
	_, err = buf.Xsputn([]byte("Z"))
	require.NoError(t, err)

	size, err := tree.FileSize("/file")
	require.NoError(t, err)
	require.EqualValues(t, 11, size)

	rbuf, err := tree.Open("/file", ModeIn)
	require.NoError(t, err)
	out := make([]byte, 11)
	_, err = rbuf.Xsgetn(out)
	require.NoError(t, err)
	require.Equal(t, byte('A'), out[0])
	require.Equal(t, byte('B'), out[1])
	for i := 2; i < 10; i++ {
		require.Equal(t, byte(0), out[i], "gap byte %d must be zero-filled", i)
	}
	require.Equal(t, byte('Z'), out[10])
}

func TestMemTreeRename(t *testing.T) {
	tree := NewMemTree()
	buf, err := tree.Open("/file", ModeOut|ModeTrunc)
	require.NoError(t, err)
	_, err = buf.Xsputn([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, buf.Close())

	require.NoError(t, tree.Rename("/file", "/file2"))

	_, err = tree.Status("/file")
	require.NoError(t, err)
	st, err := tree.Status("/file")
	require.NoError(t, err)
	require.Equal(t, TypeNotFound, st.Type)

	rbuf, err := tree.Open("/file2", ModeIn)
	require.NoError(t, err)
	out, err := io.ReadAll(streamReader{rbuf})
	require.NoError(t, err)
	require.Equal(t, "payload", string(out))
}

func TestMemTreeRenameRoundTrip(t *testing.T) {
	tree := NewMemTree()
	buf, err := tree.Open("/a", ModeOut|ModeTrunc)
	require.NoError(t, err)
	_, err = buf.Xsputn([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, buf.Close())

	require.NoError(t, tree.Rename("/a", "/b"))
	require.NoError(t, tree.Rename("/b", "/a"))

	st, err := tree.Status("/a")
	require.NoError(t, err)
	require.True(t, IsRegularFileStatus(st))
}

func TestMemTreeCreateDirectoriesChain(t *testing.T) {
	tree := NewMemTree()
	comps := []string{"a", "a/b", "a/b/c"}
	for _, c := range comps {
		_, err := tree.CreateDirectory(Path("/" + c))
		require.NoError(t, err)
	}
	for _, c := range append([]string{""}, comps...) {
		st, err := tree.Status(Path("/" + c))
		require.NoError(t, err)
		require.True(t, IsDirectoryStatus(st), "%q must be a directory", c)
	}
}

func TestMemTreeSpecialData(t *testing.T) {
	tree := NewMemTree()
	_, err := tree.Open("/fn", ModeOut|ModeTrunc)
	require.NoError(t, err)

	type payload struct{ v int }
	want := &payload{v: 42}
	require.NoError(t, tree.SetSpecialData("/fn", want))

	got, err := tree.GetSpecialData("/fn")
	require.NoError(t, err)
	require.Same(t, want, got)
}

func TestMemTreeDirectoryIteratorYieldsEntrySet(t *testing.T) {
	tree := NewMemTree()
	_, err := tree.CreateDirectory("/dir1")
	require.NoError(t, err)
	buf1, err := tree.Open("/file1", ModeOut|ModeTrunc)
	require.NoError(t, err)
	_, err = buf1.Xsputn([]byte("testdata\ntestdata2\n"))
	require.NoError(t, err)
	require.NoError(t, buf1.Close())
	_, err = tree.Open("/file2", ModeOut|ModeTrunc)
	require.NoError(t, err)

	it, err := tree.OpenDirectory("/")
	require.NoError(t, err)
	entries, err := ReadDirAll(it)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Path.Filename().String()] = true
	}
	require.Equal(t, map[string]bool{"dir1": true, "file1": true, "file2": true}, names)
}

// TestMemTreeRenameAncestorRejectedBothDirections is spec.md §4.4's
// "invalid_argument when from is an ancestor of to (or vice versa)" rule,
// checked in both directions.
func TestMemTreeRenameAncestorRejectedBothDirections(t *testing.T) {
	tree := NewMemTree()
	_, err := tree.CreateDirectory("/a")
	require.NoError(t, err)
	_, err = tree.CreateDirectory("/a/b")
	require.NoError(t, err)
	_, err = tree.CreateDirectory("/a/b/c")
	require.NoError(t, err)

	err = tree.Rename("/a", "/a/b/c")
	require.Error(t, err, "from must not be an ancestor of to")
	require.Equal(t, CodeInvalidArgument, ErrCode(err))

	err = tree.Rename("/a/b/c", "/a")
	require.Error(t, err, "to must not be an ancestor of from")
	require.Equal(t, CodeInvalidArgument, ErrCode(err))
}

// TestMemTreeConcurrentWritesToDisjointFilesDoNotInterleave exercises the
// "concurrent writers to disjoint files never interleave" property from
// spec.md §8: two goroutines write to two different files at once; both
// files must come out at full length, and every byte of /a must be 'A'.
func TestMemTreeConcurrentWritesToDisjointFilesDoNotInterleave(t *testing.T) {
	tree := NewMemTree()
	bufA, err := tree.Open("/a", ModeOut|ModeTrunc)
	require.NoError(t, err)
	bufB, err := tree.Open("/b", ModeOut|ModeTrunc)
	require.NoError(t, err)

	const n = 500
	payloadA := make([]byte, n)
	payloadB := make([]byte, n)
	for i := range payloadA {
		payloadA[i] = 'A'
		payloadB[i] = 'B'
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, werr := bufA.Xsputn(payloadA)
		require.NoError(t, werr)
	}()
	go func() {
		defer wg.Done()
		_, werr := bufB.Xsputn(payloadB)
		require.NoError(t, werr)
	}()
	wg.Wait()

	sizeA, err := tree.FileSize("/a")
	require.NoError(t, err)
	require.EqualValues(t, n, sizeA)
	sizeB, err := tree.FileSize("/b")
	require.NoError(t, err)
	require.EqualValues(t, n, sizeB)

	rbufA, err := tree.Open("/a", ModeIn)
	require.NoError(t, err)
	outA := make([]byte, n)
	_, err = rbufA.Xsgetn(outA)
	require.NoError(t, err)
	for i, b := range outA {
		require.Equal(t, byte('A'), b, "byte %d of /a must be untouched by the write to /b", i)
	}
}

// TestMemTreeConcurrentWritesToSameFileDoNotCorruptData is the same-file
// half of spec.md §8's write-safety property: two independently opened
// buffers on the same file write to disjoint offsets concurrently, and the
// resulting byte-vector must be exactly as long and as filled as a
// sequential run would produce, with no lost growth from a racing
// reallocation.
func TestMemTreeConcurrentWritesToSameFileDoNotCorruptData(t *testing.T) {
	tree := NewMemTree()
	_, err := tree.Open("/f", ModeOut|ModeTrunc)
	require.NoError(t, err)

	const chunk = 200
	first, err := tree.Open("/f", ModeOut)
	require.NoError(t, err)
	second, err := tree.Open("/f", ModeOut)
	require.NoError(t, err)

	_, err = first.Seekpos(0, Out)
	require.NoError(t, err)
	_, err = second.Seekpos(chunk, Out)
	require.NoError(t, err)

	firstPayload := make([]byte, chunk)
	secondPayload := make([]byte, chunk)
	for i := range firstPayload {
		firstPayload[i] = 'X'
		secondPayload[i] = 'Y'
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, werr := first.Xsputn(firstPayload)
		require.NoError(t, werr)
	}()
	go func() {
		defer wg.Done()
		_, werr := second.Xsputn(secondPayload)
		require.NoError(t, werr)
	}()
	wg.Wait()

	size, err := tree.FileSize("/f")
	require.NoError(t, err)
	require.EqualValues(t, 2*chunk, size)

	rbuf, err := tree.Open("/f", ModeIn)
	require.NoError(t, err)
	out := make([]byte, 2*chunk)
	_, err = rbuf.Xsgetn(out)
	require.NoError(t, err)
	for i := 0; i < chunk; i++ {
		require.Equal(t, byte('X'), out[i], "byte %d must belong to the first writer's chunk", i)
	}
	for i := chunk; i < 2*chunk; i++ {
		require.Equal(t, byte('Y'), out[i], "byte %d must belong to the second writer's chunk", i)
	}
}

func TestMemTreeRemoveAllCountsEntries(t *testing.T) {
	tree := NewMemTree()
	_, err := tree.CreateDirectory("/a")
	require.NoError(t, err)
	_, err = tree.CreateDirectory("/a/b")
	require.NoError(t, err)
	_, err = tree.Open("/a/b/f", ModeOut|ModeTrunc)
	require.NoError(t, err)

	count, err := tree.RemoveAll("/a")
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	st, err := tree.Status("/a")
	require.NoError(t, err)
	require.Equal(t, TypeNotFound, st.Type)
}
