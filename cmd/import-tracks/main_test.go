package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindAndLoadTrackFiles(t *testing.T) {
	dir := t.TempDir()
	fixture, err := os.ReadFile("../../internal/course/testdata/magnet_alley.track")
	if err != nil {
		t.Fatal(err)
	}
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("b.track", string(fixture))
	write("a.track", "V 1\nZ broken\n")
	write("notes.txt", "ignored")

	files, err := findTrackFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.track" {
		t.Fatalf("files = %v", files)
	}

	if _, _, err := loadTrackFile(files[0], 0); err == nil {
		t.Error("expected parse error for a.track")
	}
	raw, track, err := loadTrackFile(files[1], 0)
	if err != nil {
		t.Fatalf("b.track: %v", err)
	}
	if track.Name != "Magnet Alley" || raw != string(fixture) {
		t.Errorf("loaded %q", track.Name)
	}
	if _, _, err := loadTrackFile(files[1], 10); err == nil {
		t.Error("expected size limit error")
	}
}
