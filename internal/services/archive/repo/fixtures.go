// Package repo holds the file-backed adapters of the archive service
package repo

import (
	"io"
	"os"
	"path/filepath"

	"apmarchive/internal/services/archive/domain"

	perr "apmarchive/internal/platform/errors"
)

// fixtureStore implements domain.FixtureStore on the local filesystem
type fixtureStore struct{}

// NewFixtureStore returns the filesystem FixtureStore
func NewFixtureStore() domain.FixtureStore { return fixtureStore{} }

func (fixtureStore) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeFilesystem, "create %s", dir)
	}
	return nil
}

func (fixtureStore) CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeFilesystem, "open %s", src)
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeFilesystem, "stat %s", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeFilesystem, "create %s", dst)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = perr.Wrapf(cerr, perr.ErrorCodeFilesystem, "close %s", dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeFilesystem, "copy %s to %s", src, dst)
	}
	return nil
}

func (fixtureStore) RemoveScratch(root, archive string, files []string) error {
	dir := filepath.Join(root, archive)
	for _, f := range files {
		p := filepath.Join(dir, f)
		if err := os.Remove(p); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeFilesystem, "remove %s", p)
		}
	}
	// os.Remove refuses non-empty directories, matching rmdir
	for _, d := range []string{dir, root} {
		if err := os.Remove(d); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeFilesystem, "remove %s", d)
		}
	}
	return nil
}
