// Package fsutil provides the directory-listing and file-existence helpers
// used by the plugin loader, on top of an afero filesystem.
package fsutil

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// FS wraps an afero.Fs with the few operations plugin discovery needs.
type FS struct {
	fs afero.Fs
}

// New returns an FS over fs, or over the OS filesystem when fs is nil.
func New(fs afero.Fs) *FS {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &FS{fs: fs}
}

// NewOS returns an FS backed by the operating system.
func NewOS() *FS {
	return New(afero.NewOsFs())
}

// Afero exposes the underlying filesystem.
func (f *FS) Afero() afero.Fs {
	return f.fs
}

// ListSubdirectories returns the names of the immediate subdirectories of
// path, sorted by name.
func (f *FS) ListSubdirectories(path string) ([]string, error) {
	infos, err := afero.ReadDir(f.fs, path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		if fi.IsDir() {
			names = append(names, fi.Name())
		}
	}

	return names, nil
}

// Exists reports whether path names a regular file.
func (f *FS) Exists(path string) bool {
	fi, err := f.fs.Stat(path)
	if err != nil {
		return false
	}

	return fi.Mode().IsRegular()
}

// ModTime returns the last modification time of path.
func (f *FS) ModTime(path string) (time.Time, error) {
	fi, err := f.fs.Stat(path)
	if err != nil {
		return time.Time{}, err
	}

	return fi.ModTime(), nil
}

// ReadFile reads the whole file at path.
func (f *FS) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(f.fs, path)
}

// WriteFile writes data to path, creating parent directories as needed.
func (f *FS) WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := f.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return afero.WriteFile(f.fs, path, data, perm)
}
