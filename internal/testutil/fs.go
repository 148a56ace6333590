package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"

	"github.com/spf13/afero"

	"github.com/wplizard/cli/internal/fsys"
)

// MemService returns a filesystem service over a fresh in-memory fs with
// the given directories already created.
func MemService(t testing.TB, dirs ...string) *fsys.Service {
	t.Helper()
	svc := fsys.NewMemory()
	for _, d := range dirs {
		if err := svc.CreateDirectory(d, true); err != nil {
			t.Fatalf("failed to create %s: %v", d, err)
		}
	}
	return svc
}

// WriteFile creates a file with content, creating parent directories.
func WriteFile(t testing.TB, svc *fsys.Service, path, content string) string {
	t.Helper()
	if err := svc.WriteFile(path, []byte(content)); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// FailingFs wraps an afero.Fs and denies directory creation for every path
// containing one of the configured fragments. Everything else passes through.
type FailingFs struct {
	afero.Fs

	mu       sync.Mutex
	deny     []string
	attempts []string
}

// NewFailingFs returns a FailingFs over base that denies paths containing deny.
func NewFailingFs(base afero.Fs, deny ...string) *FailingFs {
	return &FailingFs{Fs: base, deny: deny}
}

// Attempts returns every path passed to Mkdir or MkdirAll.
func (f *FailingFs) Attempts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.attempts...)
}

func (f *FailingFs) denied(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, name)
	slashed := filepath.ToSlash(name)
	for _, d := range f.deny {
		if strings.Contains(slashed, d) {
			return true
		}
	}
	return false
}

// Mkdir implements afero.Fs.
func (f *FailingFs) Mkdir(name string, perm os.FileMode) error {
	if f.denied(name) {
		return &os.PathError{Op: "mkdir", Path: name, Err: syscall.EACCES}
	}
	return f.Fs.Mkdir(name, perm)
}

// MkdirAll implements afero.Fs.
func (f *FailingFs) MkdirAll(name string, perm os.FileMode) error {
	if f.denied(name) {
		return &os.PathError{Op: "mkdir", Path: name, Err: syscall.EACCES}
	}
	return f.Fs.MkdirAll(name, perm)
}
