package course

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	Width    = 49
	Height   = 25
	TileSize = 15

	// AdsSeparator splits the tile stream from the ad stream in a T section.
	AdsSeparator = ",Ads:"

	adChunkLen = 5

	// A cell never takes more than four characters.
	maxStreamLen = 4 * Width * Height
)

var (
	ErrOutOfBounds    = errors.New("position out of bounds")
	ErrUnexpectedChar = errors.New("unexpected character in map stream")
	ErrUnexpectedEOF  = errors.New("unexpected end of map stream")
	ErrInvalidChar    = errors.New("character has no code")
	ErrNotEncodable   = errors.New("tile cannot be written to a map stream")
)

// AdSize is the footprint class of an advertisement overlay.
type AdSize uint8

const (
	AdSmall AdSize = iota + 1
	AdMedium
	AdLarge
	AdFull
)

var adDimensions = map[AdSize][2]int{
	AdSmall:  {3, 2},
	AdMedium: {5, 3},
	AdLarge:  {8, 5},
	AdFull:   {Width, Height},
}

// Dimensions returns the footprint in tiles.
func (s AdSize) Dimensions() (w, h int) {
	d := adDimensions[s]
	return d[0], d[1]
}

func (s AdSize) String() string {
	switch s {
	case AdSmall:
		return "Small"
	case AdMedium:
		return "Medium"
	case AdLarge:
		return "Large"
	case AdFull:
		return "Full"
	}
	return fmt.Sprintf("AdSize(%d)", uint8(s))
}

// Ad is an advertisement overlay anchored at tile (X, Y).
type Ad struct {
	Size AdSize
	X    int
	Y    int
}

// Map is the Width x Height tile grid of a course, stored row-major.
type Map struct {
	Tiles []Tile
	Ads   []Ad
}

// NewMap returns a map filled with DefaultTile.
func NewMap() *Map {
	tiles := make([]Tile, Width*Height)
	for i := range tiles {
		tiles[i] = DefaultTile()
	}
	return &Map{Tiles: tiles}
}

func XYToIndex(x, y int) int {
	return y*Width + x
}

func IndexToXY(i int) (x, y int) {
	return i % Width, i / Width
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

func (m *Map) Tile(x, y int) (Tile, bool) {
	if !inBounds(x, y) {
		return Tile{}, false
	}
	return m.Tiles[XYToIndex(x, y)], true
}

func (m *Map) SetTile(x, y int, t Tile) error {
	if !inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	m.Tiles[XYToIndex(x, y)] = t
	return nil
}

func charToCode(c rune) (int, error) {
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A'), nil
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 26, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidChar, c)
}

func codeToChar(code int) (byte, error) {
	switch {
	case code >= 0 && code < 26:
		return byte('A' + code), nil
	case code >= 26 && code < 52:
		return byte('a' + code - 26), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidChar, code)
}

// copyOffsets maps back-reference letters to (rows up, columns left).
var copyOffsets = map[rune][2]int{
	'D': {0, 1},
	'E': {1, 0},
	'F': {1, 1},
	'G': {0, 2},
	'H': {2, 0},
	'I': {2, 2},
}

type streamReader struct {
	runes []rune
	pos   int
}

func (r *streamReader) next() (rune, bool) {
	if r.pos >= len(r.runes) {
		return 0, false
	}
	c := r.runes[r.pos]
	r.pos++
	return c, true
}

// codes reads n characters and converts each to its code.
func (r *streamReader) codes(n int) ([]int, error) {
	out := make([]int, n)
	for i := range out {
		c, ok := r.next()
		if !ok {
			return nil, fmt.Errorf("%w at offset %d", ErrUnexpectedEOF, r.pos)
		}
		code, err := charToCode(c)
		if err != nil {
			return nil, err
		}
		out[i] = code
	}
	return out, nil
}

// DecodeMap rebuilds a map from a decompressed tile stream. Cells are filled
// row-major so copy tokens always refer to cells that are already decoded.
// A stream that ends between cells leaves the remaining cells at their default.
func DecodeMap(stream string) (*Map, error) {
	m := NewMap()
	r := &streamReader{runes: []rune(stream)}

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			cur, ok := r.next()
			if !ok {
				return m, nil
			}

			var tile Tile
			switch cur {
			case 'A', 'B', 'C':
				n := 2
				if cur == 'B' {
					n = 3
				}
				fields, err := r.codes(n)
				if err != nil {
					return nil, err
				}
				fields = append(fields, 0)
				parse, _ := charToCode(cur)
				tile, err = NewTileFromFields(parse, fields[0], fields[1], fields[2])
				if err != nil {
					return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
				}
			case 'D', 'E', 'F', 'G', 'H', 'I':
				off := copyOffsets[cur]
				src, ok := m.Tile(x-off[1], y-off[0])
				if !ok {
					return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrOutOfBounds, cur, x, y)
				}
				tile = src
			default:
				return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrUnexpectedChar, cur, x, y)
			}

			if err := m.SetTile(x, y, tile); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// ParseAds reads concatenated 5-character ad chunks: a size character
// followed by two-digit x and y.
func ParseAds(s string) ([]Ad, error) {
	if len(s)%adChunkLen != 0 {
		return nil, fmt.Errorf("%w: ad stream length %d is not a multiple of %d", ErrInvalidFormat, len(s), adChunkLen)
	}

	ads := make([]Ad, 0, len(s)/adChunkLen)
	for i := 0; i < len(s); i += adChunkLen {
		chunk := s[i : i+adChunkLen]

		code, err := charToCode(rune(chunk[0]))
		if err != nil || code >= len(adDimensions) {
			return nil, fmt.Errorf("%w: ad size %q", ErrInvalidFormat, chunk[0])
		}
		x, err := parseDigits(chunk[1:3])
		if err != nil {
			return nil, fmt.Errorf("%w: ad x %q", ErrInvalidFormat, chunk[1:3])
		}
		y, err := parseDigits(chunk[3:5])
		if err != nil {
			return nil, fmt.Errorf("%w: ad y %q", ErrInvalidFormat, chunk[3:5])
		}

		ads = append(ads, Ad{Size: AdSize(code + 1), X: x, Y: y})
	}

	return ads, nil
}

func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// ParseMapData decodes a T section: an RLE tile stream, optionally followed
// by AdsSeparator and the ad stream.
func ParseMapData(data string) (*Map, error) {
	tiles, ads, hasAds := strings.Cut(data, AdsSeparator)

	if n := DecompressedLen(tiles); n > maxStreamLen {
		return nil, fmt.Errorf("%w: tile stream expands to %d characters", ErrInvalidFormat, n)
	}

	m, err := DecodeMap(Decompress(tiles))
	if err != nil {
		return nil, err
	}

	if hasAds {
		if m.Ads, err = ParseAds(ads); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// EncodeStream writes the map as an uncompressed tile stream, using D and E
// copy tokens where a neighbour already holds the same tile.
func (m *Map) EncodeStream() (string, error) {
	var b strings.Builder
	for i, t := range m.Tiles {
		x, y := IndexToXY(i)
		if left, ok := m.Tile(x-1, y); ok && left == t {
			b.WriteByte('D')
			continue
		}
		if up, ok := m.Tile(x, y-1); ok && up == t {
			b.WriteByte('E')
			continue
		}
		if err := writeTile(&b, t); err != nil {
			return "", fmt.Errorf("cell (%d,%d): %w", x, y, err)
		}
	}
	return b.String(), nil
}

func writeTile(b *strings.Builder, t Tile) error {
	var codes []int
	switch t.kind {
	case ParseNormal:
		b.WriteByte('B')
		codes = []int{int(t.secondary), int(t.background), int(t.foreground)}
	case ParseSpecial:
		// C carries no foreground; it always decodes as Grass.
		if t.foreground != Grass {
			return fmt.Errorf("%w: special %s with foreground %s", ErrNotEncodable, Special(t.secondary), t.foreground)
		}
		b.WriteByte('C')
		codes = []int{int(t.secondary), int(t.background)}
	default:
		return fmt.Errorf("%w: zero tile", ErrNotEncodable)
	}
	for _, code := range codes {
		c, err := codeToChar(code)
		if err != nil {
			return err
		}
		b.WriteByte(c)
	}
	return nil
}

// Encode returns the T section form of the map: compressed tiles, then ads.
func (m *Map) Encode() (string, error) {
	stream, err := m.EncodeStream()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(Compress(stream))
	if len(m.Ads) > 0 {
		b.WriteString(AdsSeparator)
		for _, ad := range m.Ads {
			c, err := codeToChar(int(ad.Size) - 1)
			if err != nil || ad.X < 0 || ad.X > 99 || ad.Y < 0 || ad.Y > 99 {
				return "", fmt.Errorf("%w: ad %+v", ErrNotEncodable, ad)
			}
			fmt.Fprintf(&b, "%c%02d%02d", c, ad.X, ad.Y)
		}
	}
	return b.String(), nil
}
