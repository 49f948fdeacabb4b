package config

import (
	"os"
	"path/filepath"
	"testing"
)

func makeRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(PromptkeepPath(root), 0755); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestFindRepositoryWalksUp(t *testing.T) {
	t.Setenv(RootEnv, "")
	root := makeRepo(t)
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindRepository(nested)
	if err != nil {
		t.Fatalf("FindRepository: %v", err)
	}
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedFound, _ := filepath.EvalSymlinks(found)
	if resolvedFound != resolvedRoot {
		t.Errorf("found %s, want %s", found, root)
	}
}

func TestFindRepositoryNotFound(t *testing.T) {
	t.Setenv(RootEnv, "")
	if _, err := FindRepository(t.TempDir()); err == nil {
		t.Error("expected error outside a repository")
	}
}

func TestFindRepositoryEnvOverride(t *testing.T) {
	root := makeRepo(t)
	t.Setenv(RootEnv, root)

	found, err := FindRepository(t.TempDir())
	if err != nil {
		t.Fatalf("FindRepository: %v", err)
	}
	if found != root {
		t.Errorf("found %s, want %s", found, root)
	}
}

func TestFindRepositoryEnvOverrideInvalid(t *testing.T) {
	t.Setenv(RootEnv, t.TempDir())

	if _, err := FindRepository(t.TempDir()); err == nil {
		t.Error("expected error for env pointing at a non-repository")
	}
}

func TestLoadMissingIsDefaults(t *testing.T) {
	root := makeRepo(t)

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PromptsPath(root) != filepath.Join(root, DefaultPromptsDir) {
		t.Errorf("PromptsPath = %s", cfg.PromptsPath(root))
	}
	if cfg.ArchivePath(root) != filepath.Join(root, DefaultArchiveDir) {
		t.Errorf("ArchivePath = %s", cfg.ArchivePath(root))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := makeRepo(t)

	want := &Config{PromptsDir: "library", Editor: "vim"}
	if err := want.Save(root); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.PromptsDir != "library" || got.Editor != "vim" {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
	if got.PromptsPath(root) != filepath.Join(root, "library") {
		t.Errorf("PromptsPath = %s", got.PromptsPath(root))
	}
}

func TestPromptsPathAbsolute(t *testing.T) {
	abs := t.TempDir()
	cfg := &Config{PromptsDir: abs}

	if got := cfg.PromptsPath("/elsewhere"); got != abs {
		t.Errorf("PromptsPath = %s, want %s", got, abs)
	}
}
