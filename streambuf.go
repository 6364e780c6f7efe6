package vfs

import "errors"

// Which is a direction bitmask distinguishing the read cursor from the write
// cursor of a StreamBuffer, mirroring std::ios_base::openmode's in/out bits.
type Which int

const (
	// In selects the read cursor.
	In Which = 1 << iota
	// Out selects the write cursor.
	Out
)

// SeekDir is the reference point for a relative seek.
type SeekDir int

const (
	// Beg seeks relative to the beginning of the stream.
	Beg SeekDir = iota
	// Cur seeks relative to the current position of the selected cursor.
	Cur
	// End seeks relative to the end of the stream.
	End
)

// OpenMode is a bitmask of file-open flags, independent of the host OS's
// os.O_* constants so that the in-memory and host-OS backends agree on one
// vocabulary.
type OpenMode int

const (
	// ModeIn opens for reading.
	ModeIn OpenMode = 1 << iota
	// ModeOut opens for writing.
	ModeOut
	// ModeApp seeks the write cursor to the end before every write.
	ModeApp
	// ModeTrunc discards existing contents when opening for writing.
	ModeTrunc
)

// StreamBuffer is the polymorphic byte-stream primitive every Tree backend
// returns from Open. It carries two independent cursors — one for reads, one
// for writes — because a single fstream-like position cannot represent
// simultaneous append-writers and readers-from-start on the same handle
// (SPEC_FULL.md §4.2).
type StreamBuffer interface {
	// IsOpen reports whether the buffer still holds a reference to backing storage.
	IsOpen() bool

	// Close releases the buffer's reference to backing storage. Closing
	// twice is a no-op returning nil.
	Close() error

	// Underflow returns the next unread byte without consuming it, or io.EOF.
	Underflow() (byte, error)

	// Uflow returns the next unread byte and advances the read cursor, or io.EOF.
	Uflow() (byte, error)

	// Xsgetn reads up to len(p) bytes into p, advancing the read cursor. It
	// returns io.EOF once the read cursor is at or past the end of the
	// stream, matching io.Reader's end-of-stream contract.
	Xsgetn(p []byte) (int, error)

	// Overflow writes a single byte at the write cursor and advances it.
	Overflow(c byte) error

	// Xsputn writes p at the write cursor, advancing it, extending and
	// sparse-zero-filling backing storage as needed.
	Xsputn(p []byte) (int, error)

	// Seekpos sets the cursor(s) selected by which to an absolute position.
	Seekpos(pos int64, which Which) (int64, error)

	// Seekoff moves the cursor(s) selected by which by off, relative to dir.
	// Requesting both In and Out together is only well-defined for Beg and
	// End; for Cur it is an error (SPEC_FULL.md §4.2).
	Seekoff(off int64, dir SeekDir, which Which) (int64, error)
}

// errInvalidSeek is returned when a StreamBuffer implementation is asked to
// perform a seek combination its contract forbids, such as Cur with both
// In and Out requested at once.
var errInvalidSeek = errors.New("vfs: invalid seek")

// errStreamFailed is returned by InputStream/OutputStream operations
// attempted after the stream's fail bit is already set.
var errStreamFailed = errors.New("vfs: stream has failed")
