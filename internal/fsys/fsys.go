// Package fsys is the filesystem service the wizard materializes folders
// through. It wraps an afero.Fs so production code runs against the OS and
// tests run in memory.
package fsys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	oerrors "github.com/wplizard/cli/internal/errors"
)

// Kind classifies a filesystem failure.
type Kind string

const (
	KindPermission    Kind = "permission denied"
	KindAlreadyExists Kind = "already exists"
	KindNotFound      Kind = "not found"
	KindNotDirectory  Kind = "not a directory"
	KindNotEmpty      Kind = "not empty"
	KindIO            Kind = "i/o error"
)

// Error is a failed filesystem operation.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

// Unwrap exposes the cause together with the matching sentinels, so callers
// can test for oerrors.ErrFilesystem, oerrors.ErrPermission, fs.ErrExist and
// friends with errors.Is.
func (e *Error) Unwrap() []error {
	errs := []error{oerrors.ErrFilesystem}
	switch e.Kind {
	case KindPermission:
		errs = append(errs, oerrors.ErrPermission)
	case KindNotFound:
		errs = append(errs, oerrors.ErrNotFound)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, fs.ErrExist):
		return KindAlreadyExists
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	default:
		return KindIO
	}
}

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Op: op, Path: path, Kind: classify(err), Err: err}
}

// Entry is one item of a directory listing.
type Entry struct {
	Name        string
	IsDirectory bool
}

// Info is the subset of file metadata the wizard reports.
type Info struct {
	Name        string
	CreatedAt   time.Time
	Permissions fs.FileMode
	SizeBytes   int64
	IsDirectory bool
}

// DirPerm is the mode new directories are created with.
const DirPerm os.FileMode = 0o755

// FilePerm is the mode new files are written with.
const FilePerm os.FileMode = 0o644

// Service performs filesystem operations on behalf of the wizard.
type Service struct {
	fs afero.Fs
}

// New returns a Service over fs.
func New(fs afero.Fs) *Service {
	return &Service{fs: fs}
}

// NewOS returns a Service over the host filesystem.
func NewOS() *Service {
	return New(afero.NewOsFs())
}

// NewMemory returns a Service over an empty in-memory filesystem.
func NewMemory() *Service {
	return New(afero.NewMemMapFs())
}

// Fs returns the underlying afero filesystem.
func (s *Service) Fs() afero.Fs {
	return s.fs
}

// Exists reports whether path exists. Stat failures other than "not found"
// are treated as existing, so callers never overwrite what they cannot see.
func (s *Service) Exists(path string) bool {
	_, err := s.fs.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// CreateDirectory creates path. Without recursive the parent must exist and
// path must not. With recursive, missing parents are created and an existing
// directory at path is accepted.
func (s *Service) CreateDirectory(path string, recursive bool) error {
	if recursive {
		if info, err := s.fs.Stat(path); err == nil && !info.IsDir() {
			return &Error{Op: "mkdir", Path: path, Kind: KindNotDirectory}
		}
		return wrap("mkdir", path, s.fs.MkdirAll(path, DirPerm))
	}

	if s.Exists(path) {
		return &Error{Op: "mkdir", Path: path, Kind: KindAlreadyExists, Err: fs.ErrExist}
	}
	parent := filepath.Dir(path)
	info, err := s.fs.Stat(parent)
	if err != nil {
		return wrap("mkdir", path, err)
	}
	if !info.IsDir() {
		return &Error{Op: "mkdir", Path: path, Kind: KindNotDirectory}
	}
	return wrap("mkdir", path, s.fs.Mkdir(path, DirPerm))
}

// RemoveDirectory removes path. Without recursive the directory must be empty.
func (s *Service) RemoveDirectory(path string, recursive bool) error {
	info, err := s.fs.Stat(path)
	if err != nil {
		return wrap("rmdir", path, err)
	}
	if !info.IsDir() {
		return &Error{Op: "rmdir", Path: path, Kind: KindNotDirectory}
	}

	if recursive {
		return wrap("rmdir", path, s.fs.RemoveAll(path))
	}

	entries, err := afero.ReadDir(s.fs, path)
	if err != nil {
		return wrap("rmdir", path, err)
	}
	if len(entries) > 0 {
		return &Error{Op: "rmdir", Path: path, Kind: KindNotEmpty}
	}
	return wrap("rmdir", path, s.fs.Remove(path))
}

// ListEntries returns the entries of the directory at path sorted by name.
func (s *Service) ListEntries(path string) ([]Entry, error) {
	infos, err := afero.ReadDir(s.fs, path)
	if err != nil {
		return nil, wrap("readdir", path, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{Name: info.Name(), IsDirectory: info.IsDir()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Stat returns metadata for path. CreatedAt is the best timestamp the
// platform exposes, which is the modification time.
func (s *Service) Stat(path string) (Info, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		return Info{}, wrap("stat", path, err)
	}
	return Info{
		Name:        info.Name(),
		CreatedAt:   info.ModTime(),
		Permissions: info.Mode().Perm(),
		SizeBytes:   info.Size(),
		IsDirectory: info.IsDir(),
	}, nil
}

// Rename moves oldPath to newPath. An existing target is a collision.
func (s *Service) Rename(oldPath, newPath string) error {
	if !s.Exists(oldPath) {
		return &Error{Op: "rename", Path: oldPath, Kind: KindNotFound, Err: fs.ErrNotExist}
	}
	if s.Exists(newPath) {
		return &Error{Op: "rename", Path: newPath, Kind: KindAlreadyExists, Err: fs.ErrExist}
	}
	return wrap("rename", oldPath, s.fs.Rename(oldPath, newPath))
}

// WriteFile writes data to path, creating parent directories.
func (s *Service) WriteFile(path string, data []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return wrap("write", path, err)
	}
	return wrap("write", path, afero.WriteFile(s.fs, path, data, FilePerm))
}

// ReadFile returns the contents of path.
func (s *Service) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	return data, wrap("read", path, err)
}

// Remove deletes the file at path. A missing file is not an error.
func (s *Service) Remove(path string) error {
	err := s.fs.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return wrap("remove", path, err)
}
