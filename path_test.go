package vfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathRootParsing(t *testing.T) {
	p := Path("//test/a/b")
	require.True(t, p.HasRootName())
	require.Equal(t, "test", p.RootName())
	require.True(t, p.HasRootDirectory())
	require.True(t, p.IsAbsolute())
	require.Equal(t, Path("//test/a"), p.ParentPath())
	require.Equal(t, Path("b"), p.Filename())
}

func TestPathNoRootName(t *testing.T) {
	p := Path("/etc/passwd")
	require.False(t, p.HasRootName())
	require.True(t, p.IsAbsolute())
}

func TestPathBackslashSeparators(t *testing.T) {
	p := Path(`//test\a\b`)
	require.Equal(t, "test", p.RootName())
	require.Equal(t, []string{"a", "b"}, p.components())
}

func TestLexicallyNormalCollapsesDotAndDotDot(t *testing.T) {
	require.Equal(t, Path("//test/a/c"), Path("//test/a/./b/../c").LexicallyNormal())
	require.Equal(t, Path("//test/"), Path("//test/a/..").LexicallyNormal())
}

func TestLexicallyNormalDropsDotDotAboveRoot(t *testing.T) {
	require.Equal(t, Path("//test/"), Path("//test/../../a/..").LexicallyNormal())
}

func TestLexicallyNormalIsIdempotent(t *testing.T) {
	p := Path("//test/a/./b/../c/")
	once := p.LexicallyNormal()
	twice := once.LexicallyNormal()
	require.Equal(t, once, twice)
}

func TestLexicallyRelative(t *testing.T) {
	require.Equal(t, Path("../b"), Path("//test/a/b").LexicallyRelative("//test/a/x"))
	require.Equal(t, Path("."), Path("//test/a").LexicallyRelative("//test/a"))
	require.Equal(t, Path(""), Path("//test/a").LexicallyRelative("//other/a"))
}

func TestJoinAbsoluteElementReplaces(t *testing.T) {
	p := Path("//test/a").Join("b", "//other/c")
	require.Equal(t, Path("//other/c"), p)
}

func TestJoinRelativeElementsAppend(t *testing.T) {
	p := Path("//test/a").Join("b", "c")
	require.Equal(t, Path("//test/a/b/c"), p)
}

func TestPathEqual(t *testing.T) {
	require.True(t, Path("//test/a/./b").Equal(Path("//test/a/b")))
	require.False(t, Path("//test/a").Equal(Path("//other/a")))
}
