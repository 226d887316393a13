package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

const labelsJSON = `{"0": ["n01440764", "tench"], "1": ["n01443537", "goldfish"]}`

func TestFetchDirectLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(labelsJSON))
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "index_to_name.json")

	source, err := ParseSource(server.URL + "/index_to_name.json")
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}

	d := NewDownloader(zap.NewNop())
	err = d.Fetch(context.Background(), Artifact{
		Name:   "labels",
		Source: source,
		Dest:   dest,
		Verify: verifyLabels,
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(data) != labelsJSON {
		t.Fatalf("downloaded content mismatch: %q", data)
	}
}

func TestFetchSkipsValidExisting(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(labelsJSON))
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "index_to_name.json")
	if err := os.WriteFile(dest, []byte(labelsJSON), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	source, _ := ParseSource(server.URL)
	d := NewDownloader(zap.NewNop())
	err := d.Fetch(context.Background(), Artifact{Name: "labels", Source: source, Dest: dest, Verify: verifyLabels})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if requests != 0 {
		t.Fatalf("valid existing artifact was re-downloaded (%d requests)", requests)
	}
}

func TestFetchRemoteMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "index_to_name.json")

	source, _ := ParseSource(server.URL)
	d := NewDownloader(zap.NewNop())
	err := d.Fetch(context.Background(), Artifact{Name: "labels", Source: source, Dest: dest, Verify: verifyLabels})
	if err == nil {
		t.Fatal("expected error for missing remote artifact")
	}

	if _, statErr := os.Stat(dest); statErr == nil {
		t.Fatal("destination file created despite failed download")
	}
}

func TestFetchLocalFileSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	if err := os.WriteFile(src, []byte(labelsJSON), 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	source, err := ParseSource("file:" + src)
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}

	dest := filepath.Join(dir, "models", "index_to_name.json")
	d := NewDownloader(zap.NewNop())
	err = d.Fetch(context.Background(), Artifact{Name: "labels", Source: source, Dest: dest, Verify: verifyLabels})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("destination not created: %v", err)
	}
}

func TestFetchRejectsInvalidDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not the labels you wanted</html>`))
	}))
	defer server.Close()

	dir := t.TempDir()
	source, _ := ParseSource(server.URL)
	d := NewDownloader(zap.NewNop())

	err := d.Fetch(context.Background(), Artifact{
		Name:   "labels",
		Source: source,
		Dest:   filepath.Join(dir, "index_to_name.json"),
		Verify: verifyLabels,
	})
	if err == nil {
		t.Fatal("expected verification failure for non-JSON payload")
	}
}

func TestVerifyCheckpoint(t *testing.T) {
	dir := t.TempDir()

	small := filepath.Join(dir, "resnet18.pth")
	if err := os.WriteFile(small, []byte("tiny"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := verifyCheckpoint(small); err == nil {
		t.Fatal("expected error for undersized checkpoint")
	}

	big := filepath.Join(dir, "resnet18-full.pth")
	if err := os.WriteFile(big, make([]byte, 2*1024*1024), 0644); err != nil {
		t.Fatal(err)
	}
	if err := verifyCheckpoint(big); err != nil {
		t.Fatalf("verifyCheckpoint failed: %v", err)
	}

	wrongExt := filepath.Join(dir, "resnet18.html")
	if err := os.WriteFile(wrongExt, make([]byte, 2*1024*1024), 0644); err != nil {
		t.Fatal(err)
	}
	if err := verifyCheckpoint(wrongExt); err == nil {
		t.Fatal("expected error for wrong extension")
	}
}
