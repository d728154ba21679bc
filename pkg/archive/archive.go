// Package archive packs an exported package tree into a gzip-compressed tarball.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mholt/archives"

	"github.com/glorpus-work/pkgtrack/pkg/fsutil"
)

// Extension is appended to the package name to form the archive file name.
const Extension = ".tar.gz"

// Manager creates export archives.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Create archives the contents of sourceDir into archivePath. Entries are
// stored below rootName when it is set, so that unpacking yields a single
// directory. It returns the number of regular files and symlinks archived.
// The archive appears at archivePath only once it is complete.
func (am *Manager) Create(ctx context.Context, sourceDir, archivePath, rootName string) (int, error) {
	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return 0, fmt.Errorf("failed to get absolute path for source directory: %w", err)
	}

	archiveFiles, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath + string(os.PathSeparator): rootName,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read files from disk: %w", err)
	}

	count := 0
	for _, f := range archiveFiles {
		if !f.IsDir() {
			count++
		}
	}

	if err := fsutil.EnsureFileDir(archivePath); err != nil {
		return 0, fmt.Errorf("failed to create directory for %s: %w", archivePath, err)
	}
	file, err := os.CreateTemp(filepath.Dir(archivePath), ".pkgtrack-archive-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create output file for %s: %w", archivePath, err)
	}
	tmpPath := file.Name()
	committed := false
	defer func() {
		if !committed {
			_ = file.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	format := archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	}
	if err := format.Archive(ctx, file, archiveFiles); err != nil {
		return 0, fmt.Errorf("failed to create archive: %w", err)
	}
	if err := file.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync archive: %w", err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("failed to close archive: %w", err)
	}
	if err := os.Chmod(tmpPath, fsutil.FileModeDefault); err != nil {
		return 0, fmt.Errorf("failed to set permissions on archive: %w", err)
	}
	if err := fsutil.Move(tmpPath, archivePath); err != nil {
		return 0, fmt.Errorf("failed to move archive into place: %w", err)
	}
	committed = true
	return count, nil
}
