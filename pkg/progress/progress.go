// Package progress provides Reader and Writer
//
//spellchecker:words progress
package progress

//spellchecker:words strings time github dustin humanize
import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Reader consistently writes the number of bytes read to Progress.
type Reader struct {
	io.Reader        // Reader to read from
	Bytes     int64  // total number of bytes read (so far)
	Prefix    string // prefix of the progress message, defaults to "Read"

	Rewritable
}

func (cr *Reader) Read(bytes []byte) (int, error) {
	count, err := cr.Reader.Read(bytes)
	cr.Bytes += int64(count)
	cr.Rewritable.Write(message(cr.Prefix, "Read", cr.Bytes))
	return count, err
}

// Writer consistently writes the number of bytes written to Progress.
type Writer struct {
	io.Writer        // Writer to write to
	Bytes     int64  // Total number of bytes written
	Prefix    string // prefix of the progress message, defaults to "Wrote"

	Rewritable
}

func (cw *Writer) Write(bytes []byte) (int, error) {
	cw.Bytes += int64(len(bytes))
	cw.Rewritable.Write(message(cw.Prefix, "Wrote", cw.Bytes))
	return cw.Writer.Write(bytes)
}

func message(prefix, def string, bytes int64) string {
	if prefix == "" {
		prefix = def
	}
	return fmt.Sprintf("%s %s", prefix, humanize.Bytes(uint64(bytes)))
}

// DefaultFlushInterval is a reasonable default flush interval
const DefaultFlushInterval = time.Second / 30

// Rewritable repeatedly writes a single line of content, overwriting what was previously written.
// A Rewritable with a nil Writer discards all content.
type Rewritable struct {
	Writer io.Writer

	FlushInterval  time.Duration // minimum time between flushes of the progress
	lastFlush      time.Time     // last time we flushed
	longestContent int           // longest content ever flushed
	content        string        // current content
}

func (rw *Rewritable) Write(value string) {
	rw.content = value
	rw.Flush(false)
}

func (rw *Rewritable) Flush(force bool) {
	if rw.Writer == nil {
		return
	}
	if !(force || time.Since(rw.lastFlush) > rw.FlushInterval) {
		return
	}

	// determine the longest string we ever flushed to the output
	if len(rw.content) >= rw.longestContent {
		rw.longestContent = len(rw.content)
	}

	// add a blanking space behind the content
	blank := strings.Repeat(" ", rw.longestContent-len(rw.content))
	fmt.Fprintf(rw.Writer, "\r%s%s", rw.content, blank)

	// and flush the actual data
	rw.lastFlush = time.Now()
}

func (rw *Rewritable) Close() {
	if rw.Writer == nil {
		return
	}
	rw.content = ""
	rw.Flush(true)
	rw.Writer.Write([]byte("\r"))
}
