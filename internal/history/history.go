package history

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry describes one downloaded wallpaper.
type Entry struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Date     string `json:"date"`
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Scan lists the wallpapers under dir, newest first. A missing or
// unreadable directory yields an empty history.
func Scan(dir string) []Entry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	items := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		items = append(items, Entry{
			Path:     filepath.Join(dir, name),
			Filename: name,
			Date:     ExtractDate(name),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date > items[j].Date })
	return items
}

// ExtractDate pulls the trailing YYYY-MM-DD out of a wallpaper filename.
// Filenames without a recognizable date yield their whole stem so sorting
// still has something to order by.
func ExtractDate(filename string) string {
	stem := filename
	for _, ext := range []string{".jpg", ".jpeg", ".png"} {
		if trimmed, ok := strings.CutSuffix(stem, ext); ok {
			stem = trimmed
			break
		}
	}
	if len(stem) >= 10 {
		candidate := stem[len(stem)-10:]
		if candidate[4] == '-' && candidate[7] == '-' {
			return candidate
		}
	}
	return stem
}

// CleanupOld deletes managed wallpapers whose embedded date is strictly
// older than keepDays before today. keepDays 0 disables deletion entirely.
// Only bing-*.jpg files are candidates; anything else in the directory is
// left alone. Returns the number of files removed.
func CleanupOld(dir string, keepDays int) int {
	if keepDays <= 0 {
		return 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -keepDays)
	cutoffDay := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "bing-") || !strings.HasSuffix(name, ".jpg") {
			continue
		}
		stem := strings.TrimSuffix(name, ".jpg")
		if len(stem) < 10 {
			continue
		}
		fileDay, err := time.ParseInLocation("2006-01-02", stem[len(stem)-10:], time.UTC)
		if err != nil {
			continue
		}
		if fileDay.Before(cutoffDay) {
			if os.Remove(filepath.Join(dir, name)) == nil {
				deleted++
			}
		}
	}
	return deleted
}
