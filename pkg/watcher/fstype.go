package watcher

import (
	"path/filepath"
	"strings"
)

// FilesystemType is a best-effort classification of the filesystem
// backing a watched path, used to decide whether fsnotify's inotify
// events can be trusted or whether polling is required.
type FilesystemType int

const (
	FSTypeUnknown FilesystemType = iota
	FSTypeLocal
	FSTypeNFS
	FSTypeSMB
	FSTypeSSHFS
	FSTypeFUSE
)

func (t FilesystemType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeNFS:
		return "nfs"
	case FSTypeSMB:
		return "smb"
	case FSTypeSSHFS:
		return "sshfs"
	case FSTypeFUSE:
		return "fuse"
	default:
		return "unknown"
	}
}

// remoteMountMarkers are substrings of mount-point-ish path prefixes
// that commonly indicate a network filesystem on Linux, where inotify
// either doesn't fire or fires unreliably.
var remoteMountMarkers = []string{"/nfs/", "/smb/", "/cifs/", "/sshfs/", "/gvfs/", "/run/user/"}

// detectFilesystemTypeFunc is indirected so tests can force a
// particular classification without mounting a real network share.
var detectFilesystemTypeFunc = DetectFilesystemType

// DetectFilesystemType classifies path using its absolute form, not an
// actual statfs(2) call — good enough to pick a watch strategy without
// adding an OS-specific syscall dependency.
func DetectFilesystemType(path string) FilesystemType {
	if strings.TrimSpace(path) == "" {
		return FSTypeUnknown
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return FSTypeUnknown
	}
	lower := strings.ToLower(abs)
	for _, marker := range remoteMountMarkers {
		if !strings.Contains(lower, marker) {
			continue
		}
		switch {
		case strings.Contains(marker, "smb") || strings.Contains(marker, "cifs"):
			return FSTypeSMB
		case strings.Contains(marker, "sshfs"):
			return FSTypeSSHFS
		default:
			return FSTypeNFS
		}
	}
	return FSTypeLocal
}

func isRemoteFilesystem(t FilesystemType) bool {
	return t == FSTypeNFS || t == FSTypeSMB || t == FSTypeSSHFS || t == FSTypeFUSE
}
