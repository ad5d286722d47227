package logfile

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Writer writes to a temporary file next to its destination and renames it
// into place on Commit.
type Writer struct {
	path string
	tmp  *os.File
	buf  *bufio.Writer
	enc  *transform.Writer
	w    io.Writer
	done bool
}

// Create starts an atomic write of path, encoding UTF-8 input to enc.
// Characters enc cannot represent are replaced. If path already exists its
// permissions are kept.
func Create(path, enc string) (*Writer, error) {
	e, _, err := Lookup(enc)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(path); err == nil {
		if err := tmp.Chmod(fi.Mode().Perm()); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, err
		}
	}

	w := &Writer{path: path, tmp: tmp, buf: bufio.NewWriter(tmp)}
	w.w = w.buf
	if e != nil {
		w.enc = transform.NewWriter(w.buf, encoding.ReplaceUnsupported(e.NewEncoder()))
		w.w = w.enc
	}
	return w, nil
}

// WriteBOM writes a byte order mark in the output encoding. Call it before
// any other write.
func (w *Writer) WriteBOM() error {
	_, err := io.WriteString(w.w, bom)
	return err
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Commit flushes and syncs the temporary file, then renames it over the
// destination.
func (w *Writer) Commit() error {
	if w.done {
		return nil
	}
	w.done = true
	tmpPath := w.tmp.Name()

	fail := func(err error) error {
		w.tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			return fail(err)
		}
	}
	if err := w.buf.Flush(); err != nil {
		return fail(err)
	}
	if err := w.tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := w.tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Abort discards everything written. It is a no-op after Commit, so it can
// be deferred.
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	w.tmp.Close()
	return os.Remove(w.tmp.Name())
}
