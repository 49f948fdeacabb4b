package reconcile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/promptkeep/promptkeep/internal/filestore"
	"github.com/promptkeep/promptkeep/internal/index"
	"github.com/promptkeep/promptkeep/internal/prompt"
)

func newTestEngine(t *testing.T) (*Engine, *filestore.Store, *index.DB) {
	t.Helper()
	root := t.TempDir()

	files := filestore.New(filepath.Join(root, "prompts"), filepath.Join(root, "archive"))
	if err := files.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	idx, err := index.Open(filepath.Join(root, "cache", "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	return New(files, idx), files, idx
}

func writePrompt(t *testing.T, files *filestore.Store, p *prompt.Prompt) string {
	t.Helper()
	path := files.PathFor(p.Name, p.ID)
	if err := files.Write(path, p); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return path
}

func testPrompt(id, name string, tags ...string) *prompt.Prompt {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return &prompt.Prompt{
		ID:      id,
		Name:    name,
		Created: now,
		Updated: now,
		Version: 1,
		Tags:    tags,
		Content: "body of " + name + "\n",
	}
}

func TestSyncOneCreates(t *testing.T) {
	engine, files, idx := newTestEngine(t)
	path := writePrompt(t, files, testPrompt("p1", "Coding Assistant", "coding"))

	action, err := engine.SyncOne(path)
	if err != nil {
		t.Fatalf("SyncOne: %v", err)
	}
	if action != Created {
		t.Errorf("action = %v, want created", action)
	}

	row, err := idx.GetPrompt("p1")
	if err != nil {
		t.Fatal(err)
	}
	if row == nil {
		t.Fatal("prompt not indexed")
	}
	if row.FilePath != path || row.Version != 1 {
		t.Errorf("row = %+v", row)
	}
	tags, err := idx.TagsForPrompt("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0] != "coding" {
		t.Errorf("tags = %v, want [coding]", tags)
	}
}

func TestSyncOneIdempotent(t *testing.T) {
	engine, files, _ := newTestEngine(t)
	path := writePrompt(t, files, testPrompt("p1", "Coding Assistant", "coding"))

	if _, err := engine.SyncOne(path); err != nil {
		t.Fatal(err)
	}
	action, err := engine.SyncOne(path)
	if err != nil {
		t.Fatal(err)
	}
	if action != Unchanged {
		t.Errorf("second pass = %v, want unchanged", action)
	}
}

func TestSyncOneSubSecondTimestamps(t *testing.T) {
	engine, files, _ := newTestEngine(t)

	// Hand-edited frontmatter may carry fractional seconds; the index
	// keeps whole seconds, and that must not defeat change detection.
	payload := "---\n" +
		"id: p1\n" +
		"name: Precise\n" +
		"created: 2026-06-01T10:00:00.5Z\n" +
		"updated: 2026-06-01T10:00:00.5Z\n" +
		"version: 1\n" +
		"---\n\nbody\n"
	path := filepath.Join(files.Root(), "precise.md")
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}

	action, err := engine.SyncOne(path)
	if err != nil {
		t.Fatalf("SyncOne: %v", err)
	}
	if action != Created {
		t.Errorf("first pass = %v, want created", action)
	}

	action, err = engine.SyncOne(path)
	if err != nil {
		t.Fatal(err)
	}
	if action != Unchanged {
		t.Errorf("second pass on unchanged file = %v, want unchanged", action)
	}
}

func TestSyncOneDetectsChange(t *testing.T) {
	engine, files, idx := newTestEngine(t)
	p := testPrompt("p1", "Coding Assistant")
	path := writePrompt(t, files, p)
	if _, err := engine.SyncOne(path); err != nil {
		t.Fatal(err)
	}

	p.Content = "an entirely new body\n"
	p.Version = 2
	p.Updated = p.Updated.Add(time.Hour)
	if err := files.Write(path, p); err != nil {
		t.Fatal(err)
	}

	action, err := engine.SyncOne(path)
	if err != nil {
		t.Fatal(err)
	}
	if action != Updated {
		t.Errorf("action = %v, want updated", action)
	}

	row, err := idx.GetPrompt("p1")
	if err != nil {
		t.Fatal(err)
	}
	if row.Version != 2 || row.ContentHash != prompt.HashContent(p.Content) {
		t.Errorf("row not refreshed: %+v", row)
	}
}

func TestSyncOneTagOnlyChange(t *testing.T) {
	engine, files, idx := newTestEngine(t)
	p := testPrompt("p1", "Coding Assistant", "coding")
	path := writePrompt(t, files, p)
	if _, err := engine.SyncOne(path); err != nil {
		t.Fatal(err)
	}

	p.Tags = []string{"coding", "review"}
	if err := files.Write(path, p); err != nil {
		t.Fatal(err)
	}

	action, err := engine.SyncOne(path)
	if err != nil {
		t.Fatal(err)
	}
	if action != Updated {
		t.Errorf("action = %v, want updated", action)
	}
	tags, err := idx.TagsForPrompt("p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 {
		t.Errorf("tags = %v, want two", tags)
	}
}

func TestSyncOneAdoptsHeaderlessFile(t *testing.T) {
	engine, files, idx := newTestEngine(t)
	path := filepath.Join(files.Root(), "scratch-note.md")
	body := "just a pasted snippet\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	action, err := engine.SyncOne(path)
	if err != nil {
		t.Fatalf("SyncOne: %v", err)
	}
	if action != Created {
		t.Errorf("action = %v, want created", action)
	}

	// The file now carries generated frontmatter.
	p, err := files.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if !p.HasMetadata() {
		t.Fatal("adopted file still has no metadata")
	}
	if p.Name != "scratch-note" || p.Version != 1 || p.Content != body {
		t.Errorf("adopted prompt = %+v", p)
	}

	row, err := idx.GetPrompt(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if row == nil {
		t.Fatal("adopted prompt not indexed")
	}

	// Adoption happens once; a second pass is a no-op.
	action, err = engine.SyncOne(path)
	if err != nil {
		t.Fatal(err)
	}
	if action != Unchanged {
		t.Errorf("second pass = %v, want unchanged", action)
	}
}

func TestSyncAll(t *testing.T) {
	engine, files, idx := newTestEngine(t)
	writePrompt(t, files, testPrompt("p1", "One"))
	writePrompt(t, files, testPrompt("p2", "Two"))

	report, err := engine.SyncAll()
	if err != nil {
		t.Fatalf("SyncAll: %v", err)
	}
	if report.Scanned != 2 || report.Created != 2 || report.Updated != 0 || report.Removed != 0 {
		t.Errorf("report = %+v", report)
	}

	last, err := idx.GetLastSync()
	if err != nil {
		t.Fatal(err)
	}
	if last.IsZero() {
		t.Error("last sync not recorded")
	}
}

func TestSyncAllRemovesDeletedFiles(t *testing.T) {
	engine, files, idx := newTestEngine(t)
	path := writePrompt(t, files, testPrompt("p1", "Gone Soon", "solo"))
	if _, err := engine.SyncAll(); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	report, err := engine.SyncAll()
	if err != nil {
		t.Fatal(err)
	}
	if report.Removed != 1 {
		t.Errorf("Removed = %d, want 1", report.Removed)
	}

	row, err := idx.GetPrompt("p1")
	if err != nil {
		t.Fatal(err)
	}
	if row != nil {
		t.Error("row survived file removal")
	}
	tags, err := idx.ListTags()
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 0 {
		t.Errorf("tags after removal = %v, want none", tags)
	}
}

func TestSyncAllCapturesPerFileErrors(t *testing.T) {
	engine, files, _ := newTestEngine(t)
	writePrompt(t, files, testPrompt("p1", "Good"))
	bad := filepath.Join(files.Root(), "bad.md")
	if err := os.WriteFile(bad, []byte("---\nid: x\nno closing delimiter\n"), 0644); err != nil {
		t.Fatal(err)
	}

	report, err := engine.SyncAll()
	if err != nil {
		t.Fatalf("SyncAll should not abort on a parse failure: %v", err)
	}
	if report.Created != 1 {
		t.Errorf("Created = %d, want 1", report.Created)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("Errors = %v, want one entry", report.Errors)
	}
	if _, ok := report.Errors[bad]; !ok {
		t.Errorf("Errors keyed by %v, want %s", report.Errors, bad)
	}
}

func TestCheckIntegrityClean(t *testing.T) {
	engine, files, _ := newTestEngine(t)
	writePrompt(t, files, testPrompt("p1", "One"))
	if _, err := engine.SyncAll(); err != nil {
		t.Fatal(err)
	}

	report, err := engine.CheckIntegrity()
	if err != nil {
		t.Fatalf("CheckIntegrity: %v", err)
	}
	if !report.Valid {
		t.Errorf("report not valid: %+v", report)
	}
	if report.OrphanedRecords == nil || report.HashMismatches == nil || report.Untracked == nil {
		t.Error("report sets should be empty, not nil")
	}
}

func TestCheckIntegrityOrphanedRecord(t *testing.T) {
	engine, _, idx := newTestEngine(t)

	ts := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	missing := "/prompts/missing.md"
	row := &index.PromptRow{
		ID: "ghost", Name: "Ghost", ContentHash: "abc", FilePath: missing,
		CreatedAt: ts, UpdatedAt: ts, Version: 1,
	}
	if err := idx.InsertPrompt(row, "ghost body"); err != nil {
		t.Fatal(err)
	}

	report, err := engine.CheckIntegrity()
	if err != nil {
		t.Fatal(err)
	}
	if report.Valid {
		t.Error("report should not be valid")
	}
	if len(report.OrphanedRecords) != 1 || report.OrphanedRecords[0] != missing {
		t.Errorf("OrphanedRecords = %v, want [%s]", report.OrphanedRecords, missing)
	}

	// Audit is read-only; the row must still be there.
	got, err := idx.GetPrompt("ghost")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Error("audit removed the orphaned row")
	}
}

func TestCheckIntegrityHashMismatch(t *testing.T) {
	engine, files, _ := newTestEngine(t)
	p := testPrompt("p1", "Drifter")
	path := writePrompt(t, files, p)
	if _, err := engine.SyncAll(); err != nil {
		t.Fatal(err)
	}

	// Edit the body behind the index's back, keeping the frontmatter.
	p.Content = "externally edited body\n"
	if err := files.Write(path, p); err != nil {
		t.Fatal(err)
	}

	report, err := engine.CheckIntegrity()
	if err != nil {
		t.Fatal(err)
	}
	if report.Valid {
		t.Error("report should not be valid")
	}
	if len(report.HashMismatches) != 1 || report.HashMismatches[0] != path {
		t.Errorf("HashMismatches = %v, want [%s]", report.HashMismatches, path)
	}

	// SyncAll repairs the drift.
	if _, err := engine.SyncAll(); err != nil {
		t.Fatal(err)
	}
	report, err = engine.CheckIntegrity()
	if err != nil {
		t.Fatal(err)
	}
	if !report.Valid {
		t.Errorf("drift not repaired: %+v", report)
	}
}

func TestCheckIntegrityUntracked(t *testing.T) {
	engine, files, _ := newTestEngine(t)
	path := writePrompt(t, files, testPrompt("p1", "New Arrival"))

	report, err := engine.CheckIntegrity()
	if err != nil {
		t.Fatal(err)
	}
	if report.Valid {
		t.Error("report should not be valid")
	}
	if len(report.Untracked) != 1 || report.Untracked[0] != path {
		t.Errorf("Untracked = %v, want [%s]", report.Untracked, path)
	}
}
