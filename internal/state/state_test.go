package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"bingwall/internal/bing"
	"bingwall/internal/config"
	"bingwall/internal/state"
)

func writeConfig(t *testing.T, path string, mutate func(*config.Config)) {
	t.Helper()
	cfg := config.Default()
	cfg.WallpaperDir = filepath.Join(filepath.Dir(path), "walls")
	if mutate != nil {
		mutate(&cfg)
	}
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
}

func TestConfigReturnsCopy(t *testing.T) {
	cfg := config.Default()
	st := state.New(&cfg, "", nil)

	copied := st.Config()
	copied.Market = "zh-CN"

	if st.Config().Market != cfg.Market {
		t.Fatal("mutating the copy must not touch the live config")
	}
}

func TestSetCurrentStoresClone(t *testing.T) {
	st := state.New(nil, "", nil)
	img := &bing.Image{Title: "Original", URL: "https://example.com/a.jpg"}

	st.SetCurrent(img, "/walls/a.jpg")
	img.Title = "Mutated"

	got, path := st.Current()
	if got == nil || got.Title != "Original" {
		t.Fatalf("unexpected current image: %#v", got)
	}
	if path != "/walls/a.jpg" {
		t.Fatalf("unexpected current path: %q", path)
	}

	got.Title = "Mutated again"
	second, _ := st.Current()
	if second.Title != "Original" {
		t.Fatal("Current must hand out independent copies")
	}
}

func TestReloadPicksUpFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, nil)

	cfg, resolved, _, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	st := state.New(cfg, resolved, nil)

	writeConfig(t, path, func(c *config.Config) { c.Market = "de-DE" })

	reloaded, err := st.Reload()
	if err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	if reloaded.Market != "de-DE" || st.Config().Market != "de-DE" {
		t.Fatalf("reload did not pick up new market: %q", st.Config().Market)
	}
}

func TestReloadKeepsPreviousConfigOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, func(c *config.Config) { c.Market = "fr-FR" })

	cfg, resolved, _, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	st := state.New(cfg, resolved, nil)

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Reload(); err == nil {
		t.Fatal("expected reload error for corrupt file")
	}
	if st.Config().Market != "fr-FR" {
		t.Fatalf("live config lost on failed reload: %q", st.Config().Market)
	}
}

func TestSaveConfigPersistsAndSwaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeConfig(t, path, nil)

	cfg, resolved, _, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	st := state.New(cfg, resolved, nil)

	updated := st.Config()
	updated.KeepDays = 7
	if err := st.SaveConfig(updated); err != nil {
		t.Fatalf("SaveConfig returned error: %v", err)
	}

	if st.Config().KeepDays != 7 {
		t.Fatal("live config not swapped after save")
	}
	loaded, _, _, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.KeepDays != 7 {
		t.Fatalf("persisted keep_days = %d, want 7", loaded.KeepDays)
	}
}
