package vfs

import "io"

// memStreamBuffer is the StreamBuffer implementation returned by MemTree's
// Open. It holds two independent cursor positions into the same backing
// memFile, and implements the sparse-write contract: writing past the
// current end of the file extends it and zero-fills the gap rather than
// leaving undefined bytes, matching
// FilesystemTreeInMemory.cpp's FilesystemTreeInMemoryFileBuf::overflow.
type memStreamBuffer struct {
	file *memFile
	mode OpenMode

	readPos  int64
	writePos int64
	closed   bool
}

func newMemStreamBuffer(f *memFile, mode OpenMode) *memStreamBuffer {
	b := &memStreamBuffer{file: f, mode: mode}
	if mode&ModeApp != 0 {
		f.mu.Lock()
		b.writePos = int64(len(f.data))
		f.mu.Unlock()
	}
	return b
}

var _ StreamBuffer = (*memStreamBuffer)(nil)

func (b *memStreamBuffer) IsOpen() bool {
	return !b.closed
}

func (b *memStreamBuffer) Close() error {
	b.closed = true
	return nil
}

func (b *memStreamBuffer) Underflow() (byte, error) {
	b.file.mu.Lock()
	defer b.file.mu.Unlock()
	if b.readPos >= int64(len(b.file.data)) {
		return 0, io.EOF
	}
	return b.file.data[b.readPos], nil
}

func (b *memStreamBuffer) Uflow() (byte, error) {
	c, err := b.Underflow()
	if err != nil {
		return 0, err
	}
	b.readPos++
	return c, nil
}

func (b *memStreamBuffer) Xsgetn(p []byte) (int, error) {
	b.file.mu.Lock()
	defer b.file.mu.Unlock()
	if b.readPos >= int64(len(b.file.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.file.data[b.readPos:])
	b.readPos += int64(n)
	return n, nil
}

func (b *memStreamBuffer) Overflow(c byte) error {
	return b.writeLocked([]byte{c})
}

func (b *memStreamBuffer) Xsputn(p []byte) (int, error) {
	if err := b.writeLocked(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// writeLocked writes p at the write cursor, growing and zero-filling
// b.file.data as needed so that a write starting beyond the current end
// never leaves a gap of undefined bytes.
func (b *memStreamBuffer) writeLocked(p []byte) error {
	if b.mode&ModeApp != 0 {
		b.file.mu.Lock()
		b.writePos = int64(len(b.file.data))
		b.file.mu.Unlock()
	}

	b.file.mu.Lock()
	defer b.file.mu.Unlock()

	end := b.writePos + int64(len(p))
	if end > int64(len(b.file.data)) {
		grown := make([]byte, end)
		copy(grown, b.file.data)
		// The gap between the old end and writePos, if any, is left at
		// its zero value by make(), which is the sparse-fill contract.
		b.file.data = grown
	}
	copy(b.file.data[b.writePos:end], p)
	b.writePos = end
	return nil
}

func (b *memStreamBuffer) Seekpos(pos int64, which Which) (int64, error) {
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

func (b *memStreamBuffer) Seekoff(off int64, dir SeekDir, which Which) (int64, error) {
	if which == (In|Out) && dir == Cur {
		return 0, errInvalidSeek
	}

	b.file.mu.Lock()
	size := int64(len(b.file.data))
	b.file.mu.Unlock()

	base := func(cur int64) int64 {
		switch dir {
		case Beg:
			return off
		case End:
			return size + off
		default: // Cur
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

// memDirIterator is the DirIteratorImpl backing MemTree.OpenDirectory. It
// snapshots the child name list at open time, matching the "changes made
// after the iterator was created are not necessarily reflected" allowance
// for directory iterators (SPEC_FULL.md §4.3).
type memDirIterator struct {
	dir   Path
	names []string
	pos   int
}

func newMemDirIterator(dir Path, names []string) *memDirIterator {
	return &memDirIterator{dir: dir, names: names}
}

var _ DirIteratorImpl = (*memDirIterator)(nil)

func (it *memDirIterator) Increment() error {
	it.pos++
	return nil
}

func (it *memDirIterator) Dereference() DirEntry {
	if it.IsEnd() {
		return DirEntry{}
	}
	return DirEntry{Path: it.dir.Join(it.names[it.pos])}
}

func (it *memDirIterator) IsEnd() bool {
	return it.pos >= len(it.names)
}
