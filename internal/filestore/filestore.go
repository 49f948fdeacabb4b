// Package filestore provides durable per-prompt file storage. One markdown
// file per prompt under a root directory; this layer is the source of
// truth that the metadata index is derived from.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/promptkeep/promptkeep/internal/prompt"
)

// Extension is the recognized prompt file extension.
const Extension = ".md"

// StorageError wraps a file read/write/enumeration failure.
type StorageError struct {
	Path string
	Op   string // "read", "write", "list", "archive", "remove"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ParseError wraps a malformed prompt file. Distinct from StorageError so
// batch reconciliation can report it as a data problem rather than an I/O
// problem.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Store reads and writes prompt files under a root directory.
type Store struct {
	root    string
	archive string
}

// New creates a file store rooted at dir, archiving soft-deleted files to
// archiveDir.
func New(dir, archiveDir string) *Store {
	return &Store{root: dir, archive: archiveDir}
}

// Root returns the prompt files directory.
func (s *Store) Root() string { return s.root }

// ArchiveDir returns the soft-delete destination directory.
func (s *Store) ArchiveDir() string { return s.archive }

// Init creates the root and archive directories if needed.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return &StorageError{Path: s.root, Op: "list", Err: err}
	}
	if err := os.MkdirAll(s.archive, 0755); err != nil {
		return &StorageError{Path: s.archive, Op: "archive", Err: err}
	}
	return nil
}

// Read parses the prompt file at path. Missing or unreadable files return
// a StorageError; malformed frontmatter returns a ParseError.
func (s *Store) Read(path string) (*prompt.Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}

	p, err := prompt.Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return p, nil
}

// Write serializes the prompt and persists it at path via write-temp-then-
// rename, so a reader never observes a half-written file. Overwrites
// unconditionally.
func (s *Store) Write(path string, p *prompt.Prompt) error {
	data, err := prompt.Serialize(p)
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	if err := atomic.WriteFile(path, strings.NewReader(string(data))); err != nil {
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// List enumerates all prompt files under the root, excluding the archive
// directory when it nests inside the root. No order is guaranteed.
func (s *Store) List() ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if samePath(path, s.archive) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), Extension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, &StorageError{Path: s.root, Op: "list", Err: err}
	}

	return paths, nil
}

// Hash computes the content fingerprint of a prompt body.
func (s *Store) Hash(text string) string {
	return prompt.HashContent(text)
}

// Archive relocates a file out of the live root into the archive
// directory. Content is preserved; the file stops appearing in List.
func (s *Store) Archive(path string) (string, error) {
	if err := os.MkdirAll(s.archive, 0755); err != nil {
		return "", &StorageError{Path: s.archive, Op: "archive", Err: err}
	}

	dest := filepath.Join(s.archive, filepath.Base(path))
	// Keep archived generations apart instead of overwriting.
	for i := 1; exists(dest); i++ {
		base := strings.TrimSuffix(filepath.Base(path), Extension)
		dest = filepath.Join(s.archive, fmt.Sprintf("%s.%d%s", base, i, Extension))
	}

	if err := os.Rename(path, dest); err != nil {
		return "", &StorageError{Path: path, Op: "archive", Err: err}
	}
	return dest, nil
}

// Remove deletes a prompt file permanently.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return &StorageError{Path: path, Op: "remove", Err: err}
	}
	return nil
}

// PathFor derives a free file path for a new prompt from its name,
// suffixing a short id fragment on collision.
func (s *Store) PathFor(name, id string) string {
	slug := prompt.Slug(name)
	path := filepath.Join(s.root, slug+Extension)
	if !exists(path) {
		return path
	}

	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return filepath.Join(s.root, slug+"-"+suffix+Extension)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return aa == bb
}
