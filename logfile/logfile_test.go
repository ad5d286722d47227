package logfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadLine()
		if line != "" {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines
		}
		require.NoError(t, err)
	}
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, data, 0o640))
	return path
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want string
	}{
		{"empty", nil, "utf-8"},
		{"ascii", []byte("GET / 200\n"), "utf-8"},
		{"utf-8", []byte("Ошибка доступа\n"), "utf-8"},
		{"utf-8 bom", []byte("\xef\xbb\xbfhello"), "utf-8"},
		{"utf-16le bom", []byte("\xff\xfeh\x00i\x00"), "utf-16le"},
		{"utf-16be bom", []byte("\xfe\xff\x00h\x00i"), "utf-16be"},
		{"latin-1", []byte("caf\xe9 ouvert\n"), "windows-1252"},
		{"truncated rune", []byte("abc \xd0"), "utf-8"},
		{"meta tag in log line", []byte(`GET /<meta charset="shift_jis"> 200` + "\n"), "utf-8"},
		{"meta tag with latin-1", []byte(`<meta charset="utf-8"> caf` + "\xe9\n"), "windows-1252"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.head))
		})
	}
}

func TestLookup(t *testing.T) {
	e, name, err := Lookup("UTF8")
	require.NoError(t, err)
	assert.Nil(t, e)
	assert.Equal(t, "utf-8", name)

	e, name, err = Lookup("latin1")
	require.NoError(t, err)
	assert.NotNil(t, e)
	assert.Equal(t, "windows-1252", name)

	_, _, err = Lookup("klingon")
	assert.Error(t, err)
}

func TestReaderLines(t *testing.T) {
	path := writeFile(t, []byte("one\r\ntwo\n\nlast"))
	r, err := Open(path, "")
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "utf-8", r.Encoding())
	assert.Equal(t, []string{"one\r\n", "two\n", "\n", "last"}, readAll(t, r))
}

func TestReaderPassesInvalidUTF8Through(t *testing.T) {
	data := []byte("ok \xff\xfe bytes\n")
	path := writeFile(t, data)
	r, err := Open(path, "utf-8")
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{string(data)}, readAll(t, r))
}

func TestReaderMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.log"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReaderUnknownEncoding(t *testing.T) {
	path := writeFile(t, []byte("x\n"))
	_, err := Open(path, "klingon")
	assert.Error(t, err)
}

func TestLatin1RoundTrip(t *testing.T) {
	path := writeFile(t, []byte("caf\xe9 bob@example.com\n"))

	r, err := Open(path, "")
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", r.Encoding())
	lines := readAll(t, r)
	require.NoError(t, r.Close())
	assert.Equal(t, []string{"café bob@example.com\n"}, lines)

	w, err := Create(path, r.Encoding())
	require.NoError(t, err)
	_, err = io.WriteString(w, "café REDACTED ☃\n")
	require.NoError(t, err)
	require.NoError(t, w.Commit())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	// The snowman has no windows-1252 form and is replaced.
	assert.Equal(t, "caf\xe9 REDACTED \x1a\n", string(got))
}

func TestWriterCommitReplaces(t *testing.T) {
	path := writeFile(t, []byte("old\n"))

	w, err := Create(path, "")
	require.NoError(t, err)
	_, err = io.WriteString(w, "new\n")
	require.NoError(t, err)

	// Not visible before Commit.
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(got))

	require.NoError(t, w.Commit())
	require.NoError(t, w.Abort())

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(got))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriterAbortLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	w, err := Create(path, "")
	require.NoError(t, err)
	_, err = io.WriteString(w, "partial")
	require.NoError(t, err)
	require.NoError(t, w.Abort())

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriterMissingDir(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "out.log"), "")
	assert.Error(t, err)
}

func TestReaderStripsBOM(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		enc  string
	}{
		{"utf-8", []byte("\xef\xbb\xbfuser=bob\n"), "utf-8"},
		{"utf-16le", []byte("u\x00s\x00e\x00r\x00=\x00b\x00o\x00b\x00\n\x00"), "utf-16le"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			if tt.enc == "utf-16le" {
				data = append([]byte("\xff\xfe"), data...)
			}
			path := writeFile(t, data)

			r, err := Open(path, "")
			require.NoError(t, err)
			assert.Equal(t, tt.enc, r.Encoding())
			assert.True(t, r.BOM())
			assert.Equal(t, []string{"user=bob\n"}, readAll(t, r))
			require.NoError(t, r.Close())

			w, err := Create(path, r.Encoding())
			require.NoError(t, err)
			require.NoError(t, w.WriteBOM())
			_, err = io.WriteString(w, "user=bob\n")
			require.NoError(t, err)
			require.NoError(t, w.Commit())

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestReaderNoBOM(t *testing.T) {
	r, err := Open(writeFile(t, []byte("plain\n")), "")
	require.NoError(t, err)
	defer r.Close()
	assert.False(t, r.BOM())
	assert.Equal(t, []string{"plain\n"}, readAll(t, r))
}
