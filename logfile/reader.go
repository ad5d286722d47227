package logfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// bom is the byte order mark as it appears after decoding to UTF-8.
const bom = "\ufeff"

// Reader yields the lines of a file decoded to UTF-8. A leading byte order
// mark is not part of the first line; see BOM.
type Reader struct {
	f        *os.File
	r        *bufio.Reader
	encoding string
	bom      bool
}

// Open opens path for reading. An empty enc detects the encoding from the
// start of the file.
func Open(path, enc string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReaderSize(f, sniffLen)
	if enc == "" {
		head, err := br.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) {
			f.Close()
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		enc = Detect(head)
	}

	e, name, err := Lookup(enc)
	if err != nil {
		f.Close()
		return nil, err
	}

	// Read errors here resurface on the first ReadLine.
	raw, _ := br.Peek(bomLen)
	_, bomName, hasBOM := charset.DetermineEncoding(raw, "text/plain")

	r := &Reader{f: f, r: br, encoding: name, bom: hasBOM && bomName == name}
	if e != nil {
		r.r = bufio.NewReader(transform.NewReader(br, e.NewDecoder()))
	}
	if r.bom {
		if b, _ := r.r.Peek(len(bom)); string(b) == bom {
			r.r.Discard(len(bom))
		}
	}
	return r, nil
}

// BOM reports whether the file started with a byte order mark.
func (r *Reader) BOM() bool { return r.bom }

// Encoding returns the canonical name of the file's encoding.
func (r *Reader) Encoding() string { return r.encoding }

// ReadLine returns the next line including its "\n" terminator, if any. At
// the end of the file it returns io.EOF, possibly together with a final
// unterminated line.
func (r *Reader) ReadLine() (string, error) {
	return r.r.ReadString('\n')
}

// Close closes the underlying file.
func (r *Reader) Close() error { return r.f.Close() }
