package fsutil

// Permission bits for files and directories pkgtrack writes.
const (
	FileModeDefault = 0o644 // -rw-r--r--
	FileModeSecure  = 0o640 // -rw-r----- config, may hold credentials
	FileModeExec    = 0o755 // -rwxr-xr-x executable recipe files on export

	DirModeDefault = 0o755 // drwxr-xr-x
)
