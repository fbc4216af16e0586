package course

import "testing"

func TestCompress(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"a", "a"},
		{"aaab", "3ab"},
		{"abc", "abc"},
		{"BAAAEEEE", "B3A4E"},
		{"DDDDDDDDDDDD", "12D"},
	}
	for _, tt := range tests {
		if got := Compress(tt.in); got != tt.want {
			t.Errorf("Compress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecompress(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"3ab", "aaab"},
		{"B3A4E", "BAAAEEEE"},
		{"12D", "DDDDDDDDDDDD"},
		{"0ab", "b"},
		{"ab7", "ab"},
	}
	for _, tt := range tests {
		if got := Decompress(tt.in); got != tt.want {
			t.Errorf("Decompress(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got := DecompressedLen(tt.in); got != len(tt.want) {
			t.Errorf("DecompressedLen(%q) = %d, want %d", tt.in, got, len(tt.want))
		}
	}
}

func TestCompressRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"x",
		"BAAADDDDDDDDCUAEEEEEEEEE",
		"aabbccddeeffgg,Ads:",
		"ÄÄÄöö",
	}
	for _, in := range inputs {
		if got := Decompress(Compress(in)); got != in {
			t.Errorf("Decompress(Compress(%q)) = %q", in, got)
		}
	}
}
