// Package logfile reads and writes line-oriented text files in their
// original character encoding. Writes are atomic: output only appears under
// its final name once it is complete.
package logfile

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	// sniffLen is how much of a file is inspected to detect its encoding.
	sniffLen = 64 * 1024

	// bomLen covers the longest byte order mark and is too short to hold the
	// HTML <meta charset> tags DetermineEncoding also looks for.
	bomLen = 3
)

// Detect guesses the encoding of a file from its first bytes. A byte order
// mark wins; otherwise valid UTF-8 (including plain ASCII) is "utf-8" and
// anything else falls back to "windows-1252".
func Detect(head []byte) string {
	if _, name, certain := charset.DetermineEncoding(head[:min(len(head), bomLen)], "text/plain"); certain {
		return name
	}
	if utf8.Valid(trimPartialRune(head)) {
		return "utf-8"
	}
	return "windows-1252"
}

// Lookup resolves an encoding label such as "latin1" or "UTF-16LE" to its
// canonical name. The returned Encoding is nil for UTF-8, which needs no
// transcoding.
func Lookup(label string) (encoding.Encoding, string, error) {
	if label == "" {
		return nil, "utf-8", nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, "", fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return nil, "", fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	if name == "utf-8" {
		return nil, name, nil
	}
	return enc, name, nil
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}
