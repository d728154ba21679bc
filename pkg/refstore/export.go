package refstore

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/fsutil"
)

// ExportTree writes the files of the commit at ref below dest. When subdir is
// set only that directory of the tree is written, with subdir itself stripped
// from the output paths.
func (s *GitStore) ExportTree(ctx context.Context, ref, subdir, dest string) error {
	tree, err := s.exportRoot(ref, subdir)
	if err != nil {
		return err
	}
	if err := fsutil.EnsureDir(dest); err != nil {
		return errors.Wrapf(err, "failed to create export directory %s", dest)
	}

	// Reading blobs goes through the object storage, so hold the lock for the walk.
	s.mu.Lock()
	defer s.mu.Unlock()

	return tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := exportPath(dest, f.Name)
		if err != nil {
			return err
		}
		if f.Mode == filemode.Symlink {
			return writeSymlink(f, target)
		}
		return writeRegularFile(f, target)
	})
}

func (s *GitStore) exportRoot(ref, subdir string) (*object.Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	commit, err := s.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read commit %s for %s", hash, ref)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tree of %s", ref)
	}

	subdir = strings.Trim(path.Clean("/"+filepath.ToSlash(subdir)), "/")
	if subdir == "" {
		return tree, nil
	}
	sub, err := tree.Tree(subdir)
	if stderrors.Is(err, object.ErrDirectoryNotFound) {
		return nil, errors.Wrapf(errors.ErrInvalidPath, "directory %q not found in %s", subdir, ref)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s in %s", subdir, ref)
	}
	return sub, nil
}

// exportPath joins name below dest, refusing paths that would escape it.
func exportPath(dest, name string) (string, error) {
	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return "", errors.Wrapf(errors.ErrInvalidPath, "tree entry %q escapes export directory", name)
	}
	return filepath.Join(dest, filepath.FromSlash(clean)), nil
}

func writeSymlink(f *object.File, target string) error {
	linkTarget, err := f.Contents()
	if err != nil {
		return fmt.Errorf("failed to read symlink %s: %w", f.Name, err)
	}
	if err := fsutil.EnsureFileDir(target); err != nil {
		return fmt.Errorf("failed to create parent directory for symlink %s: %w", f.Name, err)
	}
	_ = os.Remove(target)
	return os.Symlink(linkTarget, target)
}

func writeRegularFile(f *object.File, target string) error {
	perm := os.FileMode(fsutil.FileModeDefault)
	if f.Mode == filemode.Executable {
		perm = fsutil.FileModeExec
	}

	src, err := f.Reader()
	if err != nil {
		return fmt.Errorf("failed to open blob %s: %w", f.Name, err)
	}
	defer func() { _ = src.Close() }()

	if err := fsutil.EnsureFileDir(target); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", f.Name, err)
	}
	dst, err := fsutil.CreateFilePerm(target, perm)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", target, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to copy file %s: %w", f.Name, err)
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return os.Chmod(target, perm)
}
