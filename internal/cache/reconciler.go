// Package cache reconciles a stub cache directory with a freshly rendered
// stub set: new and changed stubs are written, unchanged stubs are left
// alone, and stubs for objects no longer present are deleted.
package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/fauxforce/fauxforce/internal/errors"
	"github.com/fauxforce/fauxforce/internal/generator"
	"github.com/fauxforce/fauxforce/internal/logging"
)

// Counts summarizes one directory's reconciliation.
type Counts struct {
	Written   int // files created or rewritten with new content
	Unchanged int // files whose content already matched
	Deleted   int // stale stubs removed
}

// Total returns the number of stubs present after reconciliation.
func (c Counts) Total() int { return c.Written + c.Unchanged }

// Reconciler converges a directory onto a rendered stub set.
type Reconciler interface {
	// Reconcile makes dir contain exactly one stub file per key of stubs,
	// with that key's content, deleting any generated stub whose object is
	// absent from the set. Writes are not atomic across the whole set: a
	// crash mid-call may leave a partially updated directory, but a
	// completed call leaves dir fully converged.
	Reconcile(dir string, stubs map[string]string) (Counts, error)
}

// Dir is the filesystem Reconciler.
type Dir struct {
	logger *logging.Logger
}

// NewDir creates a filesystem reconciler.
func NewDir(logger *logging.Logger) *Dir {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Dir{logger: logger}
}

// Reconcile implements Reconciler. Any create/write/delete failure surfaces
// as a CacheWriteError and aborts the remainder of this directory's
// reconciliation.
func (d *Dir) Reconcile(dir string, stubs map[string]string) (Counts, error) {
	var counts Counts

	if err := os.MkdirAll(dir, 0755); err != nil {
		return counts, errors.NewCacheWriteError("creating stub directory", err).WithDirectory(dir)
	}

	existing, err := listStubs(dir)
	if err != nil {
		return counts, errors.NewCacheWriteError("reading stub directory", err).WithDirectory(dir)
	}

	// Delete stale stubs first so a name reuse with different casing on
	// case-insensitive filesystems cannot collide with a fresh write.
	for name := range existing {
		if _, ok := stubs[name]; ok {
			continue
		}
		path := filepath.Join(dir, generator.FileName(name))
		if err := os.Remove(path); err != nil {
			return counts, errors.NewCacheWriteError("deleting stale stub", err).
				WithDirectory(dir).
				WithFile(generator.FileName(name))
		}
		counts.Deleted++
		d.logger.Debug("deleted stale stub", "object", name)
	}

	for name, content := range stubs {
		path := filepath.Join(dir, generator.FileName(name))

		if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, []byte(content)) {
			counts.Unchanged++
			continue
		}

		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return counts, errors.NewCacheWriteError("writing stub", err).
				WithDirectory(dir).
				WithFile(generator.FileName(name))
		}
		counts.Written++
	}

	d.logger.Debug("reconciled stub directory",
		"dir", dir, "written", counts.Written, "unchanged", counts.Unchanged, "deleted", counts.Deleted)
	return counts, nil
}

// listStubs returns the object names of the generated stub files in dir.
// Files without the stub suffix are ignored; they are not ours to manage.
func listStubs(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), generator.FileSuffix) {
			continue
		}
		names[strings.TrimSuffix(entry.Name(), generator.FileSuffix)] = struct{}{}
	}
	return names, nil
}
