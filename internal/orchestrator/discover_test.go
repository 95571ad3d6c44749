package orchestrator

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverFindsArchivesRecursively(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "38", "edigeo-38001-0A.tar.bz2"), "a")
	mustWriteFile(t, filepath.Join(dir, "38", "edigeo-38002-0B.tar.bz2"), "b")
	mustWriteFile(t, filepath.Join(dir, "38", "readme.txt"), "ignore me")

	archives, err := Discover(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(archives) != 2 {
		t.Fatalf("got %v, want 2 archives", archives)
	}
}

func TestDiscoverSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edigeo-38001-0A.tar.bz2")
	mustWriteFile(t, path, "a")

	archives, err := Discover(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(archives) != 1 || archives[0] != path {
		t.Errorf("got %v, want [%s]", archives, path)
	}
}

func TestChecksumDiffersOnContent(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.tar.bz2")
	pathB := filepath.Join(dir, "b.tar.bz2")
	mustWriteFile(t, pathA, "hello")
	mustWriteFile(t, pathB, "world")

	sumA, err := Checksum(pathA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sumB, err := Checksum(pathB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sumA == sumB {
		t.Error("expected different checksums for different content")
	}

	sumAAgain, err := Checksum(pathA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sumA != sumAAgain {
		t.Error("expected stable checksum across calls")
	}
}

func mustWriteFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}
