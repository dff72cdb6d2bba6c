package services

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 150
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs CV lines into chunks of at most maxChunkSize runes.
// Lines longer than a chunk are split into sentences, and sentences longer
// than a chunk are cut hard. Each chunk after the first starts with the
// last overlap runes of the previous one.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var pieces []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= maxChunkSize-overlap-1 {
			pieces = append(pieces, line)
			continue
		}
		for _, sentence := range splitIntoSentences(line) {
			pieces = append(pieces, hardSplit(sentence, maxChunkSize-overlap-1)...)
		}
	}

	var chunks []string
	var current []string
	size := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunk := strings.Join(current, "\n")
		chunks = append(chunks, chunk)
		current = current[:0]
		size = 0
		if tail := lastNRunes(chunk, overlap); tail != "" {
			current = append(current, tail)
			size = utf8.RuneCountInString(tail)
		}
	}

	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if size > 0 && size+1+n > maxChunkSize {
			flush()
		}
		if size > 0 {
			size++
		}
		current = append(current, p)
		size += n
	}

	// the trailing overlap alone is not a chunk
	if len(current) > 0 && (len(chunks) == 0 || len(current) > 1 || overlap == 0) {
		chunks = append(chunks, strings.Join(current, "\n"))
	}

	return chunks
}

func splitIntoSentences(text string) []string {
	var result []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == ';' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				result = append(result, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		result = append(result, s)
	}
	return result
}

func hardSplit(text string, size int) []string {
	if size <= 0 {
		size = 1
	}
	runes := []rune(text)
	var out []string
	for len(runes) > size {
		out = append(out, string(runes[:size]))
		runes = runes[size:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

func lastNRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
