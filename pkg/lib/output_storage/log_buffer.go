package output_storage

import (
	"io"
	"log"
	"strings"
	"sync"
	"unicode/utf8"
)

// DefaultMaxLines is the number of console lines retained per process.
const DefaultMaxLines = 5000

// MaxLineBytes bounds a single retained line. Output that runs longer without
// a terminator is committed in pieces of this size.
const MaxLineBytes = 16 * 1024

var logger = log.New(io.Discard, "output_storage: ", log.LstdFlags)

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// LogBuffer is a bounded, append-only buffer of console lines.
// Lines end at "\n", "\r\n" or a lone "\r" and keep their terminator. A
// trailing fragment without a terminator is continued by the next Append, so
// chunk boundaries never split a line in two, until it reaches MaxLineBytes.
// LogBuffer is safe for concurrent use.
type LogBuffer struct {
	mu       sync.RWMutex
	lines    []string
	maxLines int
	// evicted counts lines dropped from the front since creation or Clear.
	evicted int
}

// NewLogBuffer creates a buffer retaining at most maxLines lines.
// A non-positive maxLines selects DefaultMaxLines.
func NewLogBuffer(maxLines int) *LogBuffer {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &LogBuffer{maxLines: maxLines}
}

// Append splits text into lines and appends them, evicting the oldest lines
// until at most maxLines remain.
func (b *LogBuffer) Append(text string) {
	if b == nil || text == "" {
		return
	}

	parts := splitLinesKeepEnds(text)

	b.mu.Lock()
	defer b.mu.Unlock()

	if n := len(b.lines); n > 0 {
		last := b.lines[n-1]
		switch {
		case strings.HasSuffix(last, "\r") && parts[0] == "\n":
			// "\r\n" split across two chunks.
			b.lines[n-1] = last + "\n"
			parts = parts[1:]
		case !lineComplete(last):
			b.lines = b.lines[:n-1]
			parts = append(chunkLine(last+parts[0]), parts[1:]...)
		}
	}
	b.lines = append(b.lines, parts...)

	if excess := len(b.lines) - b.maxLines; excess > 0 {
		// Drop references so evicted strings can be collected.
		clear(b.lines[:excess])
		b.lines = b.lines[excess:]
		b.evicted += excess
		logger.Printf("evicted %d lines", excess)
	}
}

// Snapshot returns all retained lines concatenated in order.
func (b *LogBuffer) Snapshot() string {
	if b == nil {
		return ""
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "")
}

// Lines returns a copy of the retained lines.
func (b *LogBuffer) Lines() []string {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len returns the number of retained lines.
func (b *LogBuffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Evicted returns how many lines were dropped to honour the capacity.
func (b *LogBuffer) Evicted() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.evicted
}

// Capacity returns the maximum number of retained lines.
func (b *LogBuffer) Capacity() int {
	if b == nil {
		return 0
	}
	return b.maxLines
}

// Clear empties the buffer.
func (b *LogBuffer) Clear() {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.lines = nil
	b.evicted = 0
	b.mu.Unlock()
}

// splitLinesKeepEnds splits text after every "\n", "\r\n" and lone "\r".
// Pieces never exceed MaxLineBytes.
func splitLinesKeepEnds(text string) []string {
	var parts []string
	for text != "" {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			parts = append(parts, chunkLine(text)...)
			break
		}
		end := i + 1
		if text[i] == '\r' && end < len(text) && text[end] == '\n' {
			end++
		}
		parts = append(parts, chunkLine(text[:end])...)
		text = text[end:]
	}
	return parts
}

func lineComplete(line string) bool {
	return len(line) >= MaxLineBytes || strings.HasSuffix(line, "\n") || strings.HasSuffix(line, "\r")
}

// chunkLine cuts line into pieces of at most MaxLineBytes, on rune boundaries.
func chunkLine(line string) []string {
	if len(line) <= MaxLineBytes {
		return []string{line}
	}
	var out []string
	for len(line) > MaxLineBytes {
		cut := MaxLineBytes
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		if cut == 0 {
			cut = MaxLineBytes
		}
		out = append(out, line[:cut])
		line = line[cut:]
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}
