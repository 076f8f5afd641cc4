package assemble

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yourorg/zebra/internal/errs"
	znmetrics "github.com/yourorg/zebra/internal/metrics"
)

type appended struct {
	paths []string
	total int64
}

func (a *appended) PieceAppended(path string, n int64) {
	a.paths = append(a.paths, filepath.Base(path))
	a.total += n
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func TestFromDirSortedOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a_000.stripe": "A",
		"a_002.stripe": "C",
		"a_001.stripe": "B",
	})
	out := filepath.Join(t.TempDir(), "joined")
	obs := &appended{}
	res, err := (&Assembler{Observer: obs}).FromDir(dir, out, Filter{Extension: "stripe"})
	require.NoError(t, err)
	require.Equal(t, Result{Output: out, Pieces: 3, Bytes: 3}, res)
	require.Equal(t, []string{"a_000.stripe", "a_001.stripe", "a_002.stripe"}, obs.paths)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "ABC", string(got))
}

func TestFromDirSkipsOutputAndSubdirs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"0.stripe": "xx", "1.stripe": "yy"})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "2.stripe"), 0o755))
	out := filepath.Join(dir, "9.stripe")

	a := &Assembler{}
	for i := 0; i < 2; i++ {
		res, err := a.FromDir(dir, out, Filter{Extension: "stripe"})
		require.NoError(t, err)
		require.Equal(t, 2, res.Pieces)
		got, err := os.ReadFile(out)
		require.NoError(t, err)
		require.Equal(t, "xxyy", string(got), "run %d", i)
	}
}

func TestFromDirNoPieces(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"notes.txt": "hi"})
	before := testutil.ToFloat64(znmetrics.Failures.WithLabelValues("assemble"))

	out := filepath.Join(t.TempDir(), "out")
	_, err := (&Assembler{}).FromDir(dir, out, Filter{Extension: "stripe"})
	require.ErrorIs(t, err, errs.ErrNoPieces)
	require.Equal(t, errs.KindNoPieces, errs.KindOf(err))
	require.Equal(t, before+1, testutil.ToFloat64(znmetrics.Failures.WithLabelValues("assemble")))
	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err), "no output should be created without pieces")
}

func TestFromDirNotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err := (&Assembler{}).FromDir(file, filepath.Join(dir, "out"), Filter{})
	require.ErrorIs(t, err, errs.ErrNotADirectory)
	_, err = (&Assembler{}).FromDir(filepath.Join(dir, "missing"), filepath.Join(dir, "out"), Filter{})
	require.ErrorIs(t, err, errs.ErrNotADirectory)
}

func TestFromListKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"z": "1", "a": "2", "m": "3"})
	paths := []string{filepath.Join(dir, "z"), filepath.Join(dir, "a"), filepath.Join(dir, "m")}
	out := filepath.Join(dir, "out")
	res, err := (&Assembler{}).FromList(paths, out)
	require.NoError(t, err)
	require.Equal(t, int64(3), res.Bytes)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "123", string(got))

	_, err = (&Assembler{}).FromList(nil, out)
	require.ErrorIs(t, err, errs.ErrNoPieces)
}

func TestFromListMissingInputLeavesPartial(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a": "first"})
	missing := filepath.Join(dir, "missing")
	out := filepath.Join(dir, "out")

	_, err := (&Assembler{}).FromList([]string{filepath.Join(dir, "a"), missing, filepath.Join(dir, "a")}, out)
	require.ErrorIs(t, err, errs.ErrOpenFailed)
	require.True(t, strings.HasSuffix(err.Error(), missing+"\ndiscard output"), err.Error())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "first", string(got))
}

func TestFailureLoggedAtDebug(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zapcore.DebugLevel)
	a := &Assembler{Logger: zap.New(core)}
	_, err := a.FromList([]string{filepath.Join(dir, "missing")}, filepath.Join(dir, "out"))
	require.ErrorIs(t, err, errs.ErrOpenFailed)

	failed := logs.FilterMessage("assembly failed").All()
	require.Len(t, failed, 1)
	require.Equal(t, zapcore.DebugLevel, failed[0].Level)
}

func TestConcatUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a": "x"})
	_, err := (&Assembler{}).Concat([]string{filepath.Join(dir, "a")}, filepath.Join(dir, "no", "such", "out"))
	require.ErrorIs(t, err, errs.ErrOpenFailed)
}

func TestConcatCountsMetrics(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a": "abc", "b": "de"})
	pieces := testutil.ToFloat64(znmetrics.PiecesAssembled)
	bytesIn := testutil.ToFloat64(znmetrics.AssembledBytes)

	n, err := (&Assembler{}).Concat([]string{filepath.Join(dir, "a"), filepath.Join(dir, "b")}, filepath.Join(dir, "out"))
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, pieces+2, testutil.ToFloat64(znmetrics.PiecesAssembled))
	require.Equal(t, bytesIn+5, testutil.ToFloat64(znmetrics.AssembledBytes))
}
