package cache

import "time"

const (
	// DefaultTTL is how long a remote's package list is trusted.
	DefaultTTL = time.Hour

	// DirName is the cache directory below the mirror root.
	DirName = "cache"

	filePrefix = "remote-"
)
