package vfs

// DirEntry is a single entry yielded while enumerating a directory. It
// carries only the full path; callers that need type/size call Status
// through the facade, which keeps the iterator contract backend-agnostic
// (SPEC_FULL.md §4.3).
type DirEntry struct {
	Path Path
}

// DirIteratorImpl is the backend-supplied cursor behind a DirIterator. A
// Tree's OpenDirectory returns one of these; the facade never talks to it
// directly.
type DirIteratorImpl interface {
	// Increment advances to the next entry. Calling Increment once the
	// iterator is already at end is forbidden.
	Increment() error

	// Dereference returns the entry currently under the cursor.
	Dereference() DirEntry

	// IsEnd reports whether the cursor has moved past the last entry.
	IsEnd() bool
}

// DirIterator is a single-pass, lazily-advanced enumeration of a directory's
// entries. Its zero value is a valid end-iterator: an absent backend
// implementation compares equal to end, matching SPEC_FULL.md §4.3's rule
// that "end-iterator compares equal to an iterator whose implementation is
// absent".
type DirIterator struct {
	impl DirIteratorImpl
}

// NewDirIterator wraps a backend implementation. Passing a nil impl, or one
// that already reports IsEnd, yields an end-iterator.
func NewDirIterator(impl DirIteratorImpl) DirIterator {
	if impl == nil || impl.IsEnd() {
		return DirIterator{}
	}
	return DirIterator{impl: impl}
}

// End reports whether the iterator has been exhausted.
func (it DirIterator) End() bool {
	return it.impl == nil
}

// Entry returns the entry currently under the cursor. Calling it on an
// end-iterator returns the zero DirEntry.
func (it DirIterator) Entry() DirEntry {
	if it.impl == nil {
		return DirEntry{}
	}
	return it.impl.Dereference()
}

// Next advances the iterator and returns the (possibly now-ended) iterator.
// Calling Next on an already-ended iterator is a programming error and
// panics, matching the "advance past end is undefined" rule; callers should
// check End() first.
func (it DirIterator) Next() (DirIterator, error) {
	if it.impl == nil {
		panic("vfs: increment on end directory iterator")
	}
	if err := it.impl.Increment(); err != nil {
		return DirIterator{}, err
	}
	if it.impl.IsEnd() {
		return DirIterator{}, nil
	}
	return it, nil
}

// ReadDirAll drains it into a slice, for callers that don't need the lazy,
// single-pass behavior.
func ReadDirAll(it DirIterator) ([]DirEntry, error) {
	var out []DirEntry
	for !it.End() {
		out = append(out, it.Entry())
		next, err := it.Next()
		if err != nil {
			return out, err
		}
		it = next
	}
	return out, nil
}
