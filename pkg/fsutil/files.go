package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path, so readers observe either the old or the new content. A non-zero
// modTime is applied to the file before it is promoted.
func WriteFileAtomic(path string, data []byte, perm os.FileMode, modTime time.Time) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if !modTime.IsZero() {
		if err := os.Chtimes(tmpName, modTime, modTime); err != nil {
			cleanup()
			return fmt.Errorf("failed to set modification time on %s: %w", tmpName, err)
		}
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}

// Move moves the regular file src to dst, creating dst's directory.
// A rename is attempted first; across filesystems it falls back to copy and delete.
func Move(src, dst string) error {
	if src == "" || dst == "" {
		return fmt.Errorf("source and destination paths cannot be empty")
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source %s: %w", src, err)
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("cannot move directory %s: only regular files are supported", src)
	}
	if err := EnsureFileDir(dst); err != nil {
		return fmt.Errorf("failed to create destination directory for %s: %w", dst, err)
	}

	err = os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossFilesystemError(err) {
		return fmt.Errorf("failed to rename %s to %s: %w", src, dst, err)
	}
	return moveFile(src, dst, srcInfo)
}

// isCrossFilesystemError reports whether a rename failed with EXDEV.
func isCrossFilesystemError(err error) bool {
	if err == nil {
		return false
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		if errno, ok := linkErr.Err.(syscall.Errno); ok {
			return errno == syscall.EXDEV
		}
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return isCrossFilesystemError(pathErr.Err)
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cross-device") || strings.Contains(msg, "cross device")
}

func moveFile(src, dst string, srcInfo os.FileInfo) error {
	if err := Copy(src, dst); err != nil {
		return err
	}
	if err := os.Chmod(dst, srcInfo.Mode()); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", dst, err)
	}
	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return fmt.Errorf("failed to set modification time on %s: %w", dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove source file %s after copy: %w", src, err)
	}
	return nil
}

// Copy copies the contents of srcFile to dstFile.
func Copy(srcFile, dstFile string) error {
	src, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer src.Close()

	dst, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to copy from %s to %s: %w", srcFile, dstFile, err)
	}
	return dst.Close()
}

// CreateFilePerm creates or truncates name with the given permissions.
func CreateFilePerm(name string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
}
