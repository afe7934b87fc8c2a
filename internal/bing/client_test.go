package bing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"bingwall/internal/bing"
)

func TestFetchImageSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("format") != "js" || q.Get("idx") != "0" || q.Get("n") != "1" {
			t.Fatalf("unexpected archive query: %q", r.URL.RawQuery)
		}
		if q.Get("mkt") != "en-US" {
			t.Fatalf("expected mkt=en-US, got %q", q.Get("mkt"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"images":[{"url":"/th?id=OHR.Test_1920x1080.jpg","copyright":"Somewhere (© Someone)","title":"A Test Image","startdate":"20260214"}]}`))
	}))
	t.Cleanup(server.Close)

	client := bing.New(bing.WithBaseURL(server.URL))
	img, err := client.FetchImage(context.Background(), "en-US")
	if err != nil {
		t.Fatalf("FetchImage returned error: %v", err)
	}
	if img.URL != server.URL+"/th?id=OHR.Test_1920x1080.jpg" {
		t.Fatalf("unexpected image url: %q", img.URL)
	}
	if img.Title != "A Test Image" || img.Date != "20260214" {
		t.Fatalf("unexpected metadata: %#v", img)
	}
}

func TestFetchImageEmptyMarket(t *testing.T) {
	client := bing.New()
	if _, err := client.FetchImage(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty market")
	}
}

func TestFetchImageHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := bing.New(bing.WithBaseURL(server.URL))
	if _, err := client.FetchImage(context.Background(), "en-US"); err == nil {
		t.Fatal("expected error when archive returns non-200")
	}
}

func TestFetchImageNoImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"images":[]}`))
	}))
	t.Cleanup(server.Close)

	client := bing.New(bing.WithBaseURL(server.URL))
	if _, err := client.FetchImage(context.Background(), "en-US"); err == nil {
		t.Fatal("expected error when archive returns no images")
	}
}

func TestDownloadWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(server.Close)

	client := bing.New(bing.WithBaseURL(server.URL))
	img := &bing.Image{URL: server.URL + "/image.jpg", Date: "20260214"}
	dir := filepath.Join(t.TempDir(), "walls")

	path, downloaded, err := client.Download(context.Background(), img, dir, "en-US")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if !downloaded {
		t.Fatal("expected a fresh download")
	}
	if got := filepath.Base(path); got != "bing-en-US-2026-02-14.jpg" {
		t.Fatalf("unexpected filename: %q", got)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("unexpected file contents: %q", data)
	}
}

func TestDownloadSkipsExistingFile(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte("fresh"))
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	existing := filepath.Join(dir, "bing-en-US-2026-02-14.jpg")
	if err := os.WriteFile(existing, []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := bing.New(bing.WithBaseURL(server.URL))
	img := &bing.Image{URL: server.URL + "/image.jpg", Date: "20260214"}

	path, downloaded, err := client.Download(context.Background(), img, dir, "en-US")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if downloaded {
		t.Fatal("expected existing file to be reused")
	}
	if path != existing {
		t.Fatalf("path = %q, want %q", path, existing)
	}
	if requests.Load() != 0 {
		t.Fatalf("expected no network requests, saw %d", requests.Load())
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "already here" {
		t.Fatalf("existing file was overwritten: %q", data)
	}
}

func TestDownloadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := bing.New(bing.WithBaseURL(server.URL))
	img := &bing.Image{URL: server.URL + "/missing.jpg", Date: "20260214"}

	if _, _, err := client.Download(context.Background(), img, t.TempDir(), "en-US"); err == nil {
		t.Fatal("expected error when image download fails")
	}
}

func TestFilenameFallsBackOnMalformedDate(t *testing.T) {
	want := "bing-de-DE-" + time.Now().Format("2006-01-02") + ".jpg"
	if got := bing.Filename("de-DE", "not-a-date"); got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}
