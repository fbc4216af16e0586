package course

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func loadFixture(t *testing.T) *Track {
	t.Helper()
	f, err := os.Open("testdata/magnet_alley.track")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()

	track, err := ParseTrack(f)
	if err != nil {
		t.Fatalf("ParseTrack: %v", err)
	}
	return track
}

func TestParseTrackFixture(t *testing.T) {
	track := loadFixture(t)

	if track.Version != 2 {
		t.Errorf("Version = %d, want 2", track.Version)
	}
	if track.Author != "Test Author" {
		t.Errorf("Author = %q", track.Author)
	}
	if track.Name != "Magnet Alley" {
		t.Errorf("Name = %q", track.Name)
	}
	if track.Categories != CategoryBasic|CategoryHoleInOne {
		t.Errorf("Categories = %v", track.Categories)
	}
	if len(track.Map.Ads) != 3 {
		t.Errorf("ads = %d, want 3", len(track.Map.Ads))
	}

	wantSettings := Settings{MagnetsVisible: true, TeleportColors: true, MinPlayers: 1, MaxPlayers: 4}
	if track.Settings != wantSettings {
		t.Errorf("Settings = %+v, want %+v", track.Settings, wantSettings)
	}

	// I comes after R and replaces it.
	if len(track.Ratings) != 3 || track.Ratings[0] != 10 || track.Ratings[2] != 30 {
		t.Errorf("Ratings = %v", track.Ratings)
	}

	if track.Record.Name != "jaakko" {
		t.Errorf("Record.Name = %q", track.Record.Name)
	}
	if want := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC); !track.Record.Timestamp.Equal(want) {
		t.Errorf("Record.Timestamp = %v, want %v", track.Record.Timestamp, want)
	}

	magnets := 0
	for _, tile := range track.Map.Tiles {
		if s, ok := tile.Special(); ok && s == MagnetAttract {
			magnets++
		}
	}
	if magnets != 1 {
		t.Errorf("magnet tiles = %d, want 1", magnets)
	}
}

func TestParseTrackErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"unknown section", "X 1", ErrInvalidFormat},
		{"no separator", "V2", ErrInvalidFormat},
		{"bad version", "V two", ErrInvalidFormat},
		{"bad category", "C 1,7", ErrInvalidFormat},
		{"category not a number", "C 1,x", ErrInvalidFormat},
		{"short settings", "S ftf14", ErrInvalidFormat},
		{"settings digits", "S ffffab", ErrInvalidFormat},
		{"bad rating", "R 1,,2", ErrInvalidFormat},
		{"record without timestamp", "B someone", ErrInvalidFormat},
		{"record bad timestamp", "B someone,yesterday", ErrInvalidFormat},
		{"record out of range", "B someone,999999999999999", ErrInvalidFormat},
		{"map copy out of bounds", "T D", ErrOutOfBounds},
		{"map bad char", "T BAAA!", ErrUnexpectedChar},
		{"map bad ads", "T BAAA,Ads:Q0101", ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "V 2\nA someone\n" + tt.text + "\nN never reached\n"
			_, err := ParseTrackString(text)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if err != nil && !strings.Contains(err.Error(), "line 3") {
				t.Errorf("error %q does not name the line", err)
			}
		})
	}
}

func TestParseTrackSkipsEmptyLines(t *testing.T) {
	track, err := ParseTrackString("\nV 7\r\n\nN spaced name here\n")
	if err != nil {
		t.Fatalf("ParseTrackString: %v", err)
	}
	if track.Version != 7 || track.Name != "spaced name here" {
		t.Errorf("track = %+v", track)
	}
	if track.Settings != DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", track.Settings)
	}
	if len(track.Map.Tiles) != Width*Height {
		t.Errorf("default map has %d tiles", len(track.Map.Tiles))
	}
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings("tfxt28")
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	want := Settings{MinesVisible: true, IllusionWallShadows: true, MinPlayers: 2, MaxPlayers: 8}
	if s != want {
		t.Errorf("got %+v, want %+v", s, want)
	}
	if s.String() != "tfft28" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestCategories(t *testing.T) {
	for code := 1; code <= 6; code++ {
		if _, ok := CategoryFromCode(code); !ok {
			t.Errorf("code %d not mapped", code)
		}
	}
	for _, code := range []int{0, 7, -1} {
		if _, ok := CategoryFromCode(code); ok {
			t.Errorf("code %d should not map", code)
		}
	}
	c := CategoryModern | CategoryLong
	if c.String() != "modern|long" {
		t.Errorf("String() = %q", c.String())
	}
	if flag, ok := CategoryFromName("hole-in-one"); !ok || flag != CategoryHoleInOne {
		t.Errorf("CategoryFromName = %v, %v", flag, ok)
	}
}

func TestTrackEncodeRoundTrip(t *testing.T) {
	track := loadFixture(t)

	text, err := track.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	again, err := ParseTrackString(text)
	if err != nil {
		t.Fatalf("re-parse %q: %v", text, err)
	}

	if again.Version != track.Version || again.Name != track.Name || again.Author != track.Author {
		t.Errorf("header mismatch: %+v", again)
	}
	if again.Categories != track.Categories || again.Settings != track.Settings {
		t.Errorf("flags mismatch: %v %+v", again.Categories, again.Settings)
	}
	if !again.Record.Timestamp.Equal(track.Record.Timestamp) || again.Record.Name != track.Record.Name {
		t.Errorf("record mismatch: %+v", again.Record)
	}
	for i := range track.Map.Tiles {
		if again.Map.Tiles[i] != track.Map.Tiles[i] {
			t.Fatalf("tile %d mismatch", i)
		}
	}
	if len(again.Map.Ads) != len(track.Map.Ads) {
		t.Errorf("ads = %d, want %d", len(again.Map.Ads), len(track.Map.Ads))
	}
}
