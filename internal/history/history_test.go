package history_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bingwall/internal/history"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScanListsImagesNewestFirst(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "bing-en-US-2026-02-10.jpg")
	newest := touch(t, dir, "bing-en-US-2026-02-12.jpg")
	touch(t, dir, "notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "nested.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	entries := history.Scan(dir)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Path != newest {
		t.Fatalf("expected newest first, got %q", entries[0].Path)
	}
	if entries[0].Date != "2026-02-12" || entries[0].Filename != "bing-en-US-2026-02-12.jpg" {
		t.Fatalf("unexpected entry: %#v", entries[0])
	}
}

func TestScanMissingDirectory(t *testing.T) {
	if entries := history.Scan(filepath.Join(t.TempDir(), "absent")); len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}
}

func TestExtractDate(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"bing-en-US-2026-02-14.jpg", "2026-02-14"},
		{"bing-pt-BR-2025-12-31.jpeg", "2025-12-31"},
		{"holiday.png", "holiday"},
		{"short.jpg", "short"},
		{"abcdefghijk.jpg", "abcdefghijk"},
	}
	for _, tc := range cases {
		if got := history.ExtractDate(tc.filename); got != tc.want {
			t.Errorf("ExtractDate(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestCleanupKeepDaysZeroDeletesNothing(t *testing.T) {
	dir := t.TempDir()
	ancient := touch(t, dir, "bing-en-US-1999-01-01.jpg")

	if deleted := history.CleanupOld(dir, 0); deleted != 0 {
		t.Fatalf("expected no deletions, got %d", deleted)
	}
	if _, err := os.Stat(ancient); err != nil {
		t.Fatalf("ancient file should survive: %v", err)
	}
}

func TestCleanupDeletesOnlyExpiredManagedFiles(t *testing.T) {
	dir := t.TempDir()
	day := func(daysAgo int) string {
		return time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
	}
	expired := touch(t, dir, "bing-en-US-"+day(40)+".jpg")
	boundary := touch(t, dir, "bing-en-US-"+day(30)+".jpg")
	recent := touch(t, dir, "bing-en-US-"+day(1)+".jpg")
	foreign := touch(t, dir, "photo-1999-01-01.jpg")
	wrongExt := touch(t, dir, "bing-en-US-1999-01-01.png")

	if deleted := history.CleanupOld(dir, 30); deleted != 1 {
		t.Fatalf("expected 1 deletion, got %d", deleted)
	}
	if _, err := os.Stat(expired); !os.IsNotExist(err) {
		t.Fatal("expired managed file should be gone")
	}
	for _, path := range []string{boundary, recent, foreign, wrongExt} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s should survive cleanup: %v", filepath.Base(path), err)
		}
	}
}

func TestCleanupMissingDirectory(t *testing.T) {
	if deleted := history.CleanupOld(filepath.Join(t.TempDir(), "absent"), 30); deleted != 0 {
		t.Fatalf("expected 0 deletions, got %d", deleted)
	}
}
