// Package compress implements component H: gzip compression interleaved
// with HTTP/1.1 chunked transfer encoding for streaming a file or body
// producer to the client without ever buffering the full response.
package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// ChunkedGzipWriter wraps an underlying connection writer, gzip-compressing
// everything written to it and framing the compressed bytes as HTTP/1.1
// chunks. Close flushes the gzip trailer and emits the terminating
// zero-length chunk.
//
// The three counters spec.md §4.H names — sent (raw bytes accepted from
// the producer), zhave (total compressed bytes gzip has produced so far),
// zsent (bytes written to the wire for those chunks, chunk framing
// included) — are tracked so a caller can report accurate access-log sizes
// even though gzip's internal buffering means zhave can lag sent by a
// full block.
type ChunkedGzipWriter struct {
	w     io.Writer
	gz    *gzip.Writer
	chunk chunkFramer

	sent  int64
	zhave int64
	zsent int64
}

// chunkFramer buffers compressed output until Flush, so a single gzip
// Write (which may itself call the underlying writer several times)
// produces one chunk rather than one chunk per internal gzip flush.
type chunkFramer struct {
	w   io.Writer
	buf []byte
}

func (c *chunkFramer) Write(p []byte) (int, error) {
	c.buf = append(c.buf, p...)
	return len(p), nil
}

// flush emits everything buffered as a single chunk and returns the
// number of wire bytes written (chunk framing included).
func (c *chunkFramer) flush() (int64, error) {
	if len(c.buf) == 0 {
		return 0, nil
	}
	header := fmt.Sprintf("%x\r\n", len(c.buf))
	n := 0
	if w, err := io.WriteString(c.w, header); err != nil {
		return int64(w), err
	} else {
		n += w
	}
	bn, err := c.w.Write(c.buf)
	n += bn
	if err != nil {
		return int64(n), err
	}
	if w, err := io.WriteString(c.w, "\r\n"); err != nil {
		return int64(n + w), err
	} else {
		n += w
	}
	c.buf = c.buf[:0]
	return int64(n), nil
}

// HuffmanOnlyLevel is the special "level" klauspost/compress/gzip (like
// stdlib compress/flate) accepts in place of a numeric compression
// level to force Huffman-only encoding — the closest equivalent this
// pure-Go encoder exposes to zlib's Z_HUFFMAN_ONLY strategy, since
// neither klauspost/compress nor the standard library expose a separate
// strategy parameter at the gzip layer.
const HuffmanOnlyLevel = gzip.HuffmanOnly

// NewChunkedGzipWriter constructs a writer at the given gzip compression
// level (gzip.DefaultCompression is the usual choice; spec.md §4.H
// leaves the level to the embedder). Pass HuffmanOnlyLevel instead of a
// numeric level to select the Huffman-only strategy.
func NewChunkedGzipWriter(w io.Writer, level int) (*ChunkedGzipWriter, error) {
	c := &ChunkedGzipWriter{w: w}
	c.chunk.w = w
	gz, err := gzip.NewWriterLevel(&c.chunk, level)
	if err != nil {
		return nil, err
	}
	c.gz = gz
	return c, nil
}

// Write feeds raw (uncompressed) bytes from the body producer (typically
// a file copy loop) into gzip. It may produce zero or more chunks on the
// wire depending on gzip's internal buffering.
func (c *ChunkedGzipWriter) Write(p []byte) (int, error) {
	n, err := c.gz.Write(p)
	c.sent += int64(n)
	if err != nil {
		return n, err
	}
	if ferr := c.flushChunk(); ferr != nil {
		return n, ferr
	}
	return n, nil
}

func (c *ChunkedGzipWriter) flushChunk() error {
	c.zhave += int64(len(c.chunk.buf))
	written, err := c.chunk.flush()
	c.zsent += written
	return err
}

// Close flushes gzip's trailer, emits the final buffered chunk, the
// zero-length terminating chunk, and the trailing CRLF that ends
// chunked framing.
func (c *ChunkedGzipWriter) Close() error {
	if err := c.gz.Close(); err != nil {
		return err
	}
	if err := c.flushChunk(); err != nil {
		return err
	}
	if _, err := io.WriteString(c.w, "0\r\n\r\n"); err != nil {
		return err
	}
	return nil
}

// Counters returns the (sent, zhave, zsent) triple for access logging.
func (c *ChunkedGzipWriter) Counters() (sent, zhave, zsent int64) {
	return c.sent, c.zhave, c.zsent
}

// CopyFile streams every byte from src through a ChunkedGzipWriter,
// mirroring spec.md §4.H's "file-producer interleaving": the producer
// (an *os.File or any io.Reader) is read in fixed-size blocks so a large
// file never needs to be held in memory all at once.
func CopyFile(c *ChunkedGzipWriter, src io.Reader, blockSize int) (int64, error) {
	if blockSize <= 0 {
		blockSize = 32 * 1024
	}
	buf := make([]byte, blockSize)
	var total int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := c.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if rerr == io.EOF {
			return total, nil
		}
		if rerr != nil {
			return total, rerr
		}
	}
}
