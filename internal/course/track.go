package course

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidFormat = errors.New("invalid track format")

const maxLineBytes = 1 << 20

// Category is a bitset of track categories.
type Category uint32

const (
	CategoryBasic       Category = 1 << 0
	CategoryTraditional Category = 1 << 1
	CategoryModern      Category = 1 << 2
	CategoryHoleInOne   Category = 1 << 3
	CategoryShort       Category = 1 << 4
	CategoryLong        Category = 1 << 5
)

// categoryCodes lists categories by their numeric code in track files (1-based).
var categoryCodes = []struct {
	flag Category
	name string
}{
	{CategoryBasic, "basic"},
	{CategoryTraditional, "traditional"},
	{CategoryModern, "modern"},
	{CategoryHoleInOne, "hole-in-one"},
	{CategoryShort, "short"},
	{CategoryLong, "long"},
}

// CategoryFromCode maps a file code 1..6 to its flag.
func CategoryFromCode(code int) (Category, bool) {
	if code < 1 || code > len(categoryCodes) {
		return 0, false
	}
	return categoryCodes[code-1].flag, true
}

// CategoryFromName maps a lowercase name such as "modern" to its flag.
func CategoryFromName(name string) (Category, bool) {
	for _, c := range categoryCodes {
		if c.name == name {
			return c.flag, true
		}
	}
	return 0, false
}

func (c Category) Has(flag Category) bool {
	return c&flag == flag
}

func (c Category) Names() []string {
	names := make([]string, 0, len(categoryCodes))
	for _, cc := range categoryCodes {
		if c.Has(cc.flag) {
			names = append(names, cc.name)
		}
	}
	return names
}

func (c Category) String() string {
	return strings.Join(c.Names(), "|")
}

// Settings are the per-track gameplay toggles from the S section.
type Settings struct {
	MinesVisible        bool `json:"mines_visible"`
	MagnetsVisible      bool `json:"magnets_visible"`
	TeleportColors      bool `json:"teleport_colors"`
	IllusionWallShadows bool `json:"illusion_wall_shadows"`
	MinPlayers          int  `json:"min_players"`
	MaxPlayers          int  `json:"max_players"`
}

func DefaultSettings() Settings {
	return Settings{
		MagnetsVisible: true,
		MinPlayers:     1,
		MaxPlayers:     4,
	}
}

// ParseSettings reads four 't'/'f' flags followed by single-digit min and
// max player counts, e.g. "fttf14".
func ParseSettings(s string) (Settings, error) {
	if len(s) != 6 {
		return Settings{}, fmt.Errorf("%w: settings %q must be 6 characters", ErrInvalidFormat, s)
	}

	settings := Settings{
		MinesVisible:        s[0] == 't',
		MagnetsVisible:      s[1] == 't',
		TeleportColors:      s[2] == 't',
		IllusionWallShadows: s[3] == 't',
	}

	var err error
	if settings.MinPlayers, err = parseDigits(s[4:5]); err != nil {
		return Settings{}, fmt.Errorf("%w: min players %q", ErrInvalidFormat, s[4:5])
	}
	if settings.MaxPlayers, err = parseDigits(s[5:6]); err != nil {
		return Settings{}, fmt.Errorf("%w: max players %q", ErrInvalidFormat, s[5:6])
	}

	return settings, nil
}

func (s Settings) String() string {
	flag := func(b bool) byte {
		if b {
			return 't'
		}
		return 'f'
	}
	return fmt.Sprintf("%c%c%c%c%d%d",
		flag(s.MinesVisible), flag(s.MagnetsVisible), flag(s.TeleportColors), flag(s.IllusionWallShadows),
		s.MinPlayers, s.MaxPlayers)
}

// Record is the best result stored with a track.
type Record struct {
	Name      string
	Timestamp time.Time
}

// Track is a fully parsed track file.
type Track struct {
	Version    int
	Author     string
	Name       string
	Categories Category
	Settings   Settings
	Ratings    []int
	Record     Record
	Map        *Map
}

func newTrack() *Track {
	return &Track{
		Settings: DefaultSettings(),
		Map:      NewMap(),
	}
}

// ParseTrackString parses a whole track file held in memory.
func ParseTrackString(s string) (*Track, error) {
	return ParseTrack(strings.NewReader(s))
}

// ParseTrack reads a track file line by line. Every line is
// "<section> <data>"; the first bad line aborts the parse.
func ParseTrack(r io.Reader) (*Track, error) {
	track := newTrack()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		section, data, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("line %d: %w: missing section separator", lineNo, ErrInvalidFormat)
		}

		if err := track.applySection(section, data); err != nil {
			return nil, fmt.Errorf("line %d: section %s: %w", lineNo, section, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read track: %w", err)
	}

	return track, nil
}

func (t *Track) applySection(section, data string) error {
	switch section {
	case "V":
		v, err := strconv.Atoi(data)
		if err != nil {
			return fmt.Errorf("%w: version %q", ErrInvalidFormat, data)
		}
		t.Version = v
	case "A":
		t.Author = data
	case "N":
		t.Name = data
	case "C":
		categories, err := parseCategories(data)
		if err != nil {
			return err
		}
		t.Categories = categories
	case "S":
		settings, err := ParseSettings(data)
		if err != nil {
			return err
		}
		t.Settings = settings
	case "T":
		m, err := ParseMapData(data)
		if err != nil {
			return err
		}
		t.Map = m
	case "R", "I":
		ratings, err := parseIntList(data)
		if err != nil {
			return err
		}
		t.Ratings = ratings
	case "B":
		record, err := parseRecord(data)
		if err != nil {
			return err
		}
		t.Record = record
	default:
		return fmt.Errorf("%w: unknown section", ErrInvalidFormat)
	}
	return nil
}

func parseCategories(data string) (Category, error) {
	codes, err := parseIntList(data)
	if err != nil {
		return 0, err
	}
	var categories Category
	for _, code := range codes {
		flag, ok := CategoryFromCode(code)
		if !ok {
			return 0, fmt.Errorf("%w: category %d", ErrInvalidFormat, code)
		}
		categories |= flag
	}
	return categories, nil
}

func parseIntList(data string) ([]int, error) {
	parts := strings.Split(data, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: integer %q", ErrInvalidFormat, p)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseRecord(data string) (Record, error) {
	name, ts, ok := strings.Cut(data, ",")
	if !ok {
		return Record{}, fmt.Errorf("%w: record %q", ErrInvalidFormat, data)
	}
	secs, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: timestamp %q", ErrInvalidFormat, ts)
	}
	at := time.Unix(secs, 0).UTC()
	if at.Year() < 1 || at.Year() > 9999 {
		return Record{}, fmt.Errorf("%w: timestamp %d out of range", ErrInvalidFormat, secs)
	}
	return Record{Name: name, Timestamp: at}, nil
}

// Encode writes the track back out in file form.
func (t *Track) Encode() (string, error) {
	mapData, err := t.Map.Encode()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "V %d\n", t.Version)
	fmt.Fprintf(&b, "A %s\n", t.Author)
	fmt.Fprintf(&b, "N %s\n", t.Name)
	if codes := categoryCodeList(t.Categories); codes != "" {
		fmt.Fprintf(&b, "C %s\n", codes)
	}
	fmt.Fprintf(&b, "S %s\n", t.Settings)
	fmt.Fprintf(&b, "T %s\n", mapData)
	if len(t.Ratings) > 0 {
		fmt.Fprintf(&b, "I %s\n", joinInts(t.Ratings))
	}
	if t.Record.Name != "" {
		fmt.Fprintf(&b, "B %s,%d\n", t.Record.Name, t.Record.Timestamp.Unix())
	}
	return b.String(), nil
}

func categoryCodeList(c Category) string {
	var codes []int
	for i, cc := range categoryCodes {
		if c.Has(cc.flag) {
			codes = append(codes, i+1)
		}
	}
	return joinInts(codes)
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
