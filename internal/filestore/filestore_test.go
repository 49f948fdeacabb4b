package filestore

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/promptkeep/promptkeep/internal/prompt"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	s := New(filepath.Join(root, "prompts"), filepath.Join(root, "archive"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func testPrompt(name string) *prompt.Prompt {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	return &prompt.Prompt{
		ID:      "11112222-3333-4444-5555-666677778888",
		Name:    name,
		Created: now,
		Updated: now,
		Version: 1,
		Content: "body of " + name + "\n",
	}
}

func TestWriteRead(t *testing.T) {
	s := newTestStore(t)
	p := testPrompt("Coding Assistant")
	path := s.PathFor(p.Name, p.ID)

	if err := s.Write(path, p); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := s.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.ID != p.ID || got.Name != p.Name || got.Content != p.Content {
		t.Errorf("read back %+v, want %+v", got, p)
	}
}

func TestReadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Read(filepath.Join(s.Root(), "nope.md"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("error = %v, want StorageError", err)
	}
}

func TestReadMalformed(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Root(), "broken.md")
	if err := os.WriteFile(path, []byte("---\nid: x\nnever closed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Read(path)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error = %v, want ParseError", err)
	}
}

func TestListExcludesArchive(t *testing.T) {
	root := t.TempDir()
	// Archive nested inside the root, like the default layout.
	s := New(root, filepath.Join(root, ".archive"))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"a.md", "b.md", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(s.ArchiveDir(), "old.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	paths, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sort.Strings(paths)

	want := []string{filepath.Join(root, "a.md"), filepath.Join(root, "b.md")}
	if len(paths) != len(want) || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("List = %v, want %v", paths, want)
	}
}

func TestArchive(t *testing.T) {
	s := newTestStore(t)
	p := testPrompt("Old Prompt")
	path := s.PathFor(p.Name, p.ID)
	if err := s.Write(path, p); err != nil {
		t.Fatal(err)
	}

	dest, err := s.Archive(path)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("archived file still present in root")
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("archived copy missing: %v", err)
	}

	paths, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Errorf("List after archive = %v, want empty", paths)
	}
}

func TestArchiveCollision(t *testing.T) {
	s := newTestStore(t)

	var dests []string
	for i := 0; i < 2; i++ {
		path := filepath.Join(s.Root(), "dup.md")
		if err := os.WriteFile(path, []byte("gen"), 0644); err != nil {
			t.Fatal(err)
		}
		dest, err := s.Archive(path)
		if err != nil {
			t.Fatalf("Archive #%d: %v", i, err)
		}
		dests = append(dests, dest)
	}

	if dests[0] == dests[1] {
		t.Errorf("second archive overwrote the first: %s", dests[0])
	}
}

func TestPathForCollision(t *testing.T) {
	s := newTestStore(t)

	first := s.PathFor("My Prompt", "aaaabbbb-cccc-dddd-eeee-ffff00001111")
	if filepath.Base(first) != "my-prompt.md" {
		t.Errorf("first path = %s, want my-prompt.md", first)
	}
	if err := os.WriteFile(first, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	second := s.PathFor("My Prompt", "99998888-7777-6666-5555-444433332222")
	if second == first {
		t.Error("PathFor returned an occupied path")
	}
	if filepath.Base(second) != "my-prompt-99998888.md" {
		t.Errorf("second path = %s, want my-prompt-99998888.md", second)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Root(), "gone.md")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still present after Remove")
	}
}
