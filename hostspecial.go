package vfs

import (
	"os"
	"sync"
	"syscall"
)

// hostSpecialData is the process-wide side table backing HostTree's
// SetSpecialData/GetSpecialData, keyed by resolved absolute path. It is
// intentionally unbounded for the lifetime of the process, mirroring how
// the in-memory tree keeps special data attached to a node for as long as
// the node exists.
var (
	hostSpecialMu   sync.RWMutex
	hostSpecialData = map[string]any{}
)

// hostNlink extracts the hard-link count from a host os.FileInfo, when the
// underlying platform exposes it through syscall.Stat_t. It returns 0 if
// the platform's FileInfo.Sys() doesn't carry that information.
func hostNlink(info os.FileInfo) uint64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Nlink)
	}
	return 0
}

// hostSpace reports free/available/capacity for the filesystem containing
// path, via statfs.
func hostSpace(path string) (SpaceInfo, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return SpaceInfo{}, wrapErr("space", Path(path), CodeInvalidArgument, err)
	}
	bsize := uint64(stat.Bsize)
	return SpaceInfo{
		Capacity:  stat.Blocks * bsize,
		Free:      stat.Bfree * bsize,
		Available: stat.Bavail * bsize,
	}, nil
}
