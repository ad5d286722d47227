package scrub

import (
	"unicode/utf8"
)

// regexp2 matches on runes and turns every byte that is not valid UTF-8 into
// U+FFFD. Lines with such bytes are scrubbed with each stray byte b mapped
// to the private-use rune base+b-0x80 and mapped back afterwards, so bytes
// outside a match survive exactly.

const (
	blockSize = 0x80
	firstBase = 0xF0000 // start of plane 15, private use
	lastBase  = 0x10FFFF + 1 - blockSize
)

// escapeBase picks a block of private-use runes that appears in none of
// texts. It reports false only if every block is taken.
func escapeBase(texts ...string) (rune, bool) {
	used := make(map[rune]bool)
	for _, s := range texts {
		for _, r := range s {
			if r >= firstBase {
				used[(r-firstBase)/blockSize] = true
			}
		}
	}
	for base := rune(lastBase); base >= firstBase; base -= blockSize {
		if !used[(base-firstBase)/blockSize] {
			return base, true
		}
	}
	return 0, false
}

// escapeInvalid replaces each invalid byte of s with its private-use rune.
func escapeInvalid(s string, base rune) string {
	out := make([]byte, 0, len(s)+len(s)/2)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			out = utf8.AppendRune(out, base+rune(s[i])-0x80)
		} else {
			out = append(out, s[i:i+size]...)
		}
		i += size
	}
	return string(out)
}

// unescapeInvalid reverses escapeInvalid.
func unescapeInvalid(s string, base rune) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r >= base && r < base+blockSize {
			out = append(out, byte(r-base+0x80))
		} else {
			out = append(out, s[i:i+size]...)
		}
		i += size
	}
	return string(out)
}
