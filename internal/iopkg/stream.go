package iopkg

import (
	"errors"
	"io"
	"net/url"
	"os"
	"strings"
)

// BufferSize is the copy buffer used by a Copier.
const BufferSize = 64 * 1024

// Copier moves bytes through a fixed buffer. Not safe for concurrent use; give each worker its own.
type Copier struct {
	buf []byte
}

func NewCopier() *Copier { return &Copier{buf: make([]byte, BufferSize)} }

// CopyN copies up to n bytes from src to dst and returns how many were transferred.
// Hitting EOF before n bytes is not an error; the short count tells the caller.
func (c *Copier) CopyN(dst io.Writer, src io.Reader, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	return io.CopyBuffer(onlyWriter{dst}, io.LimitReader(src, n), c.buf)
}

// CopyAll copies src to dst until EOF.
func (c *Copier) CopyAll(dst io.Writer, src io.Reader) (int64, error) {
	return io.CopyBuffer(onlyWriter{dst}, onlyReader{src}, c.buf)
}

// onlyWriter and onlyReader hide ReaderFrom/WriterTo so every copy goes through the bounded buffer.
type onlyWriter struct{ io.Writer }

type onlyReader struct{ io.Reader }

// Path turns a file:// URI or a plain path into a local path.
func Path(uri string) (string, error) {
	if !strings.Contains(uri, "://") {
		return uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", errors.New("unsupported scheme: " + u.Scheme)
	}
	return strings.TrimPrefix(uri, "file://"), nil
}

// Open returns the file and its size for a file:// URI or plain path.
func Open(uri string) (*os.File, int64, error) {
	p, err := Path(uri)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, 0, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, st.Size(), nil
}

// Create truncates or creates the file at path. Parent directories are not created.
func Create(path string) (*os.File, error) {
	return os.Create(path)
}
