package services

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkText(t *testing.T) {
	tc := NewTextChunker()

	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []string
	}{
		{name: "packs lines", text: "a\nb\nc", size: 3, overlap: 0, want: []string{"a\nb", "c"}},
		{name: "overlap", text: "alpha\nbeta\ngamma", size: 12, overlap: 2, want: []string{"alpha\nbeta", "ta\ngamma"}},
		{name: "blank lines dropped", text: "\n\n  one  \n\n", size: 100, overlap: 10, want: []string{"one"}},
		{name: "empty", text: "   ", size: 100, overlap: 10, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tc.ChunkText(tt.text, tt.size, tt.overlap)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ChunkText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChunkTextRespectsSize(t *testing.T) {
	long := strings.Repeat("Led a team of five engineers. ", 40) + strings.Repeat("x", 300)

	chunks := NewTextChunker().ChunkText(long, 100, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 100 {
			t.Errorf("chunk %d has %d runes", i, n)
		}
	}
}
