package scanner

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Filesystem is the read-only part of billy.Filesystem the scanner needs.
// Both osfs.Default and memfs satisfy it.
type Filesystem interface {
	billy.Dir
	Stat(filename string) (os.FileInfo, error)
}

// Scanner walks a directory tree depth-first and collects the paths of files
// carrying its target extension.
type Scanner struct {
	fs        Filesystem
	extension string
	logger    *logrus.Logger
	out       io.Writer
	tracer    trace.Tracer
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFilesystem replaces the native filesystem, mostly for tests.
func WithFilesystem(fs Filesystem) Option {
	return func(s *Scanner) {
		s.fs = fs
	}
}

// WithOutput sets where ScanForMeshes writes its console report.
func WithOutput(w io.Writer) Option {
	return func(s *Scanner) {
		s.out = w
	}
}

// New creates a scanner matching the given extension (with or without a leading dot).
func New(extension string, logger *logrus.Logger, opts ...Option) (*Scanner, error) {
	extension = NormalizeExtension(extension)
	if extension == "" {
		return nil, ErrEmptyExtension
	}

	s := &Scanner{
		fs:        osfs.Default,
		extension: extension,
		logger:    logger,
		out:       os.Stdout,
		tracer:    otel.Tracer("meshscan"),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Extension returns the target extension, without the dot.
func (s *Scanner) Extension() string {
	return s.extension
}

// WithExtension returns a copy of the scanner targeting another extension.
// An empty extension keeps the current one.
func (s *Scanner) WithExtension(extension string) (*Scanner, error) {
	if extension == "" {
		return s, nil
	}
	extension = NormalizeExtension(extension)
	if extension == "" {
		return nil, ErrEmptyExtension
	}

	clone := *s
	clone.extension = extension
	return &clone, nil
}

// Scan returns every file below root whose extension matches. A root that is
// missing or is not a directory yields an empty result and no error.
//
// The first listing failure aborts the scan; matches already collected from
// other subtrees are dropped along with it.
func (s *Scanner) Scan(ctx context.Context, root string) ([]string, error) {
	_, span := s.tracer.Start(ctx, "scan")
	defer span.End()

	span.SetAttributes(
		attribute.String("root", root),
		attribute.String("extension", s.extension),
	)

	meshes, err := s.recursiveScan(root, []string{})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("meshes.count", len(meshes)))
	return meshes, nil
}

// recursiveScan threads meshes through the walk so that a subdirectory's
// matches land where that subdirectory sits in its parent's listing.
func (s *Scanner) recursiveScan(dir string, meshes []string) ([]string, error) {
	if !s.isDir(dir) {
		return meshes, nil
	}

	s.logger.Debugf("Scanning directory: %s", dir)

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, &DirectoryReadError{Op: "readdir", Path: dir, Err: err}
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		isDir, err := s.entryIsDir(path, entry)
		if err != nil {
			return nil, err
		}

		if isDir {
			meshes, err = s.recursiveScan(path, meshes)
			if err != nil {
				return nil, err
			}
			continue
		}

		if Matches(entry.Name(), s.extension) {
			meshes = append(meshes, path)
		}
	}

	return meshes, nil
}

func (s *Scanner) isDir(path string) bool {
	info, err := s.fs.Stat(path)
	return err == nil && info.IsDir()
}

// entryIsDir follows symlinks. A dangling link counts as a plain file.
func (s *Scanner) entryIsDir(path string, entry os.FileInfo) (bool, error) {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, &DirectoryReadError{Op: "stat", Path: path, Err: err}
	}
	return info.IsDir(), nil
}
