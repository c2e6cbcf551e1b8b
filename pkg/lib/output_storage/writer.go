package output_storage

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Write implements io.Writer for LogBuffer. Bytes are stored as-is; use a
// DecodingWriter in front of it when the input may not be valid UTF-8.
func (b *LogBuffer) Write(p []byte) (int, error) {
	if b == nil {
		return len(p), nil
	}
	b.Append(string(p))
	return len(p), nil
}

// ChunkFunc receives one decoded output chunk.
type ChunkFunc func(chunk string)

// DecodingWriter turns raw process output into UTF-8 text chunks, one chunk
// per Write. Invalid byte sequences become U+FFFD; a rune split across two
// writes is held back and emitted with the next write, so decoding never fails.
// A DecodingWriter must not be written to concurrently.
type DecodingWriter struct {
	fn      ChunkFunc
	t       *transform.Writer
	pending []byte
}

// NewDecodingWriter returns a writer invoking fn once per decoded chunk.
func NewDecodingWriter(fn ChunkFunc) *DecodingWriter {
	d := &DecodingWriter{fn: fn}
	d.t = transform.NewWriter(decodedSink{d}, unicode.UTF8.NewDecoder())
	return d
}

type decodedSink struct {
	d *DecodingWriter
}

func (s decodedSink) Write(p []byte) (int, error) {
	s.d.pending = append(s.d.pending, p...)
	return len(p), nil
}

func (d *DecodingWriter) Write(p []byte) (int, error) {
	n, err := d.t.Write(p)
	d.flush()
	return n, err
}

// Close flushes a dangling partial rune as U+FFFD.
func (d *DecodingWriter) Close() error {
	err := d.t.Close()
	d.flush()
	return err
}

func (d *DecodingWriter) flush() {
	if len(d.pending) == 0 {
		return
	}
	chunk := string(d.pending)
	d.pending = d.pending[:0]
	d.fn(chunk)
}

var _ io.WriteCloser = (*DecodingWriter)(nil)
