package iopkg

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// trickle returns at most 7 bytes per Read to exercise short reads.
type trickle struct{ r io.Reader }

func (t trickle) Read(p []byte) (int, error) {
	if len(p) > 7 {
		p = p[:7]
	}
	return t.r.Read(p)
}

func TestCopyNExact(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte("x"), 200_000))
	var dst bytes.Buffer
	n, err := NewCopier().CopyN(&dst, src, 150_000)
	require.NoError(t, err)
	require.Equal(t, int64(150_000), n)
	require.Equal(t, 150_000, dst.Len())
	require.Equal(t, 50_000, src.Len(), "cursor must stop after n bytes")
}

func TestCopyNShortAtEOF(t *testing.T) {
	var dst bytes.Buffer
	n, err := NewCopier().CopyN(&dst, trickle{strings.NewReader("hello world")}, 4000)
	require.NoError(t, err)
	require.Equal(t, int64(11), n)
	require.Equal(t, "hello world", dst.String())

	n, err = NewCopier().CopyN(&dst, strings.NewReader(""), 10)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestCopyAll(t *testing.T) {
	data := bytes.Repeat([]byte("abcdef"), 40_000)
	var dst bytes.Buffer
	n, err := NewCopier().CopyAll(&dst, trickle{bytes.NewReader(data)})
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), n)
	require.Equal(t, data, dst.Bytes())
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "z.txt")
	content := "hello world\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	for _, uri := range []string{"file://" + p, p} {
		f, sz, err := Open(uri)
		require.NoError(t, err)
		require.Equal(t, int64(len(content)), sz)
		b, _ := io.ReadAll(f)
		f.Close()
		require.Equal(t, content, string(b))
	}
}

func TestPathRejectsRemoteSchemes(t *testing.T) {
	_, err := Path("s3://bucket/key")
	require.Error(t, err)
	p, err := Path("file:///tmp/a")
	require.NoError(t, err)
	require.Equal(t, "/tmp/a", p)
}

func TestCreateNeedsParent(t *testing.T) {
	dir := t.TempDir()
	_, err := Create(filepath.Join(dir, "missing", "out.bin"))
	require.Error(t, err)

	f, err := Create(filepath.Join(dir, "out.bin"))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
