package vfs

import "strings"

// A Path is an immutable filesystem path: an optional root name (`//name`),
// an optional root directory (`/`), and a relative trail of components. It
// holds no filesystem state and no operation on it ever touches a backend.
//
// Design decisions
//
//  * It is a string, not a struct of parsed fields, for the same reasons the
//    original vfs.Path in this codebase chose a string: paths are cheap to
//    compare, cheap to use as map keys (the mount table is keyed by root
//    name, itself derived from a Path), and every consumer wants a string
//    representation anyway. Semantic queries (IsAbsolute, RootName, ...)
//    parse on demand instead of caching a struct, because a Path is small
//    and short-lived enough that repeated parsing is cheaper than the
//    bookkeeping to keep a cached parse in sync with an immutable value that
//    never changes after construction.
//
//  * Both `/` and `\` are accepted as component separators on construction
//    (SPEC_FULL.md §6, "Path string grammar"); the original string form is
//    preserved verbatim, and only LexicallyNormal produces a new Path in
//    canonical `/`-separated form.
type Path string

// isSeparator reports whether b is a path component separator.
func isSeparator(b byte) bool {
	return b == '/' || b == '\\'
}

// splitRaw decomposes s into its root name, whether it has a root directory,
// and the remaining (root-stripped) trail, without resolving `.`/`..` or
// collapsing separator runs beyond what's needed to detect the root.
func splitRaw(s string) (rootName string, hasRootDir bool, rest string) {
	// A root name is exactly two leading separators followed by a run of
	// non-separator characters (SPEC_FULL.md §6: `//alphanumeric_string`).
	// Three or more leading separators are just a root directory.
	if len(s) >= 2 && isSeparator(s[0]) && isSeparator(s[1]) &&
		!(len(s) >= 3 && isSeparator(s[2])) {
		i := 2
		for i < len(s) && !isSeparator(s[i]) {
			i++
		}
		rootName = s[2:i]
		rest = s[i:]
	} else {
		rest = s
	}

	if len(rest) > 0 && isSeparator(rest[0]) {
		hasRootDir = true
		rest = rest[1:]
	}
	return rootName, hasRootDir, rest
}

// splitComponents splits a root-stripped trail into its components,
// collapsing separator runs and dropping empty segments. `.` and `..`
// tokens are preserved verbatim; resolving them is LexicallyNormal's job.
func splitComponents(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}

// String returns the path exactly as constructed.
func (p Path) String() string {
	return string(p)
}

// IsAbsolute reports whether p has a root directory. A root name alone
// (`//test` with no following `/`) is not sufficient, matching this
// module's chosen POSIX-flavored absoluteness rule (SPEC_FULL.md §4.1).
func (p Path) IsAbsolute() bool {
	_, hasRootDir, _ := splitRaw(string(p))
	return hasRootDir
}

// HasRootName reports whether p begins with a `//name` root name.
func (p Path) HasRootName() bool {
	root, _, _ := splitRaw(string(p))
	return root != ""
}

// HasRootDirectory reports whether p has a root directory component.
func (p Path) HasRootDirectory() bool {
	_, hasRootDir, _ := splitRaw(string(p))
	return hasRootDir
}

// HasRootPath reports whether p has a root name, a root directory, or both.
func (p Path) HasRootPath() bool {
	root, hasRootDir, _ := splitRaw(string(p))
	return root != "" || hasRootDir
}

// RootName returns the leading `//name` root name, or the empty string.
func (p Path) RootName() string {
	root, _, _ := splitRaw(string(p))
	return root
}

// RootDirectory returns "/" if p has a root directory, else the empty Path.
func (p Path) RootDirectory() Path {
	if p.HasRootDirectory() {
		return "/"
	}
	return ""
}

// RootPath returns the root name and root directory portion of p combined.
func (p Path) RootPath() Path {
	root, hasRootDir, _ := splitRaw(string(p))
	var sb strings.Builder
	if root != "" {
		sb.WriteString("//")
		sb.WriteString(root)
	}
	if hasRootDir {
		sb.WriteByte('/')
	}
	return Path(sb.String())
}

// components returns the non-root part of p, split on separators, with `.`
// and `..` tokens intact.
func (p Path) components() []string {
	_, _, rest := splitRaw(string(p))
	return splitComponents(rest)
}

// ParentPath returns p without its last component. If p has no components,
// ParentPath returns p unchanged (mirroring std::filesystem::path).
func (p Path) ParentPath() Path {
	root, hasRootDir, rest := splitRaw(string(p))
	comps := splitComponents(rest)
	if len(comps) == 0 {
		return p
	}
	return buildPath(root, hasRootDir, comps[:len(comps)-1], false)
}

// Filename returns the last component of p, or the empty Path if p ends in
// a root directory with no trailing component.
func (p Path) Filename() Path {
	comps := p.components()
	if len(comps) == 0 {
		return ""
	}
	return Path(comps[len(comps)-1])
}

// FilenameIsDot reports whether p's filename is exactly ".".
func (p Path) FilenameIsDot() bool {
	return p.Filename() == "."
}

// FilenameIsDotDot reports whether p's filename is exactly "..".
func (p Path) FilenameIsDotDot() bool {
	return p.Filename() == ".."
}

// buildPath renders a root name, root-directory flag, component list, and
// trailing-separator flag back into a canonical `/`-separated string.
func buildPath(root string, hasRootDir bool, comps []string, trailingSep bool) Path {
	var sb strings.Builder
	if root != "" {
		sb.WriteString("//")
		sb.WriteString(root)
	}
	if hasRootDir {
		sb.WriteByte('/')
	}
	sb.WriteString(strings.Join(comps, "/"))
	out := sb.String()
	if out == "" {
		out = "."
	}
	if trailingSep && !strings.HasSuffix(out, "/") {
		out += "/"
	}
	return Path(out)
}

// LexicallyNormal collapses `.` components, resolves `..` components purely
// textually (never touching a backend), and preserves a trailing separator
// only when p itself ended with one. A `..` that would climb above a root
// directory is dropped rather than kept, since there is nothing above a
// root to climb to.
func (p Path) LexicallyNormal() Path {
	root, hasRootDir, rest := splitRaw(string(p))
	trailingSep := len(rest) > 0 && isSeparator(rest[len(rest)-1])
	comps := splitComponents(rest)

	out := make([]string, 0, len(comps))
	for _, c := range comps {
		switch c {
		case ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
			} else if !hasRootDir {
				out = append(out, "..")
			}
			// Above a root directory, ".." is simply dropped.
		default:
			out = append(out, c)
		}
	}

	return buildPath(root, hasRootDir, out, trailingSep && len(out) > 0)
}

// LexicallyRelative returns the shortest relative Path that, joined to base,
// lexically resolves to the same location as p. It returns the empty Path
// when no such relative path exists: differing root names, or one of p/base
// being absolute while the other is not.
func (p Path) LexicallyRelative(base Path) Path {
	a := p.LexicallyNormal()
	b := base.LexicallyNormal()

	aRoot, aHasRootDir, aRest := splitRaw(string(a))
	bRoot, bHasRootDir, bRest := splitRaw(string(b))

	if aRoot != bRoot || aHasRootDir != bHasRootDir {
		return ""
	}

	aComps := splitComponents(aRest)
	bComps := splitComponents(bRest)

	i := 0
	for i < len(aComps) && i < len(bComps) && aComps[i] == bComps[i] {
		i++
	}

	var out []string
	for j := i; j < len(bComps); j++ {
		if bComps[j] == ".." {
			// A ".." remaining in base after the common prefix cannot be
			// resolved lexically.
			return ""
		}
		out = append(out, "..")
	}
	out = append(out, aComps[i:]...)

	if len(out) == 0 {
		return "."
	}
	return Path(strings.Join(out, "/"))
}

// Join lexically appends elem to p, the Go rendering of the `/` operator in
// SPEC_FULL.md §4.1: an absolute element replaces everything accumulated so
// far, exactly like std::filesystem::path::operator/=.
func (p Path) Join(elem ...string) Path {
	result := string(p)
	for _, e := range elem {
		if e == "" {
			continue
		}
		if Path(e).IsAbsolute() || Path(e).HasRootName() {
			result = e
			continue
		}
		if result != "" && !isSeparator(result[len(result)-1]) {
			result += "/"
		}
		result += e
	}
	return Path(result)
}

// Equal reports whether p and other denote the same lexically-normalized
// location.
func (p Path) Equal(other Path) bool {
	return p.LexicallyNormal() == other.LexicallyNormal()
}

// Empty reports whether p has no characters at all.
func (p Path) Empty() bool {
	return len(p) == 0
}
