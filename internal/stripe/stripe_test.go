package stripe

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yourorg/zebra/internal/errs"
	znmetrics "github.com/yourorg/zebra/internal/metrics"
)

type recorder struct {
	mu    sync.Mutex
	sizes map[string]int64
}

func (r *recorder) StripeWritten(path string, n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sizes == nil {
		r.sizes = make(map[string]int64)
	}
	r.sizes[filepath.Base(path)] = n
}

func writeSource(t *testing.T, size int) (string, []byte) {
	t.Helper()
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "source.bin")
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p, data
}

func readStripes(t *testing.T, dir string) []byte {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	var buf bytes.Buffer
	for _, n := range names {
		b, err := os.ReadFile(filepath.Join(dir, n))
		require.NoError(t, err)
		buf.Write(b)
	}
	return buf.Bytes()
}

func TestStripeBySizeWorkers(t *testing.T) {
	src, data := writeSource(t, 101_234)
	for _, workers := range []int{1, 2, 3, 7, 64} {
		out := t.TempDir()
		rec := &recorder{}
		res, err := Stripe(context.Background(), Options{
			Source:   src,
			OutDir:   out,
			Sizer:    FixedSize(4000),
			Namer:    Namer{Extension: "stripe", Padded: true},
			Workers:  workers,
			Observer: rec,
		})
		require.NoError(t, err)
		require.Equal(t, int64(len(data)), res.Bytes)
		require.Equal(t, 26, res.Plan.StripeCount)
		require.Equal(t, 2, res.Plan.NameWidth)
		require.Equal(t, min(workers, 26), res.Workers)

		require.Len(t, rec.sizes, 26)
		require.Equal(t, int64(4000), rec.sizes["00.stripe"])
		require.Equal(t, int64(1234), rec.sizes["25.stripe"])
		require.Equal(t, data, readStripes(t, out), "workers=%d", workers)
	}
}

func TestStripeByParts(t *testing.T) {
	src, data := writeSource(t, 1_000_000)
	out := t.TempDir()
	res, err := Stripe(context.Background(), Options{
		Source:  src,
		OutDir:  out,
		Sizer:   Parts(3),
		Namer:   Namer{Prefix: "piece", Padded: true},
		Workers: 2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(333334), res.Plan.StripeSize)
	require.Equal(t, 3, res.Plan.StripeCount)

	for i, want := range []int64{333334, 333334, 333332} {
		st, err := os.Stat(filepath.Join(out, Namer{Prefix: "piece", Padded: true}.Name(i, 1)))
		require.NoError(t, err)
		require.Equal(t, want, st.Size())
	}
	require.Equal(t, data, readStripes(t, out))
}

func TestStripeEmptySource(t *testing.T) {
	src, _ := writeSource(t, 0)
	out := t.TempDir()
	res, err := Stripe(context.Background(), Options{Source: src, OutDir: out, Workers: 4, Namer: Namer{Extension: "stripe"}})
	require.NoError(t, err)
	require.Equal(t, 1, res.Plan.StripeCount)
	st, err := os.Stat(filepath.Join(out, "0.stripe"))
	require.NoError(t, err)
	require.Zero(t, st.Size())
}

func TestStripePreconditions(t *testing.T) {
	src, _ := writeSource(t, 50_000)
	dir := t.TempDir()
	notDir := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(notDir, nil, 0o644))

	cases := []struct {
		name string
		opts Options
		want error
	}{
		{"zero workers", Options{Source: src, OutDir: dir, Workers: 0}, errs.ErrZeroThreads},
		{"missing source", Options{Source: filepath.Join(dir, "nope"), OutDir: dir, Workers: 1}, errs.ErrInvalidFile},
		{"directory source", Options{Source: dir, OutDir: dir, Workers: 1}, errs.ErrInvalidFile},
		{"missing output", Options{Source: src, OutDir: filepath.Join(dir, "nope"), Workers: 1}, errs.ErrBadOutputDirectory},
		{"output is a file", Options{Source: src, OutDir: notDir, Workers: 1}, errs.ErrBadOutputDirectory},
		{"stripe too small", Options{Source: src, OutDir: dir, Workers: 1, Sizer: FixedSize(3999)}, errs.ErrStripeTooSmall},
		{"parts too many", Options{Source: src, OutDir: dir, Workers: 1, Sizer: Parts(13)}, errs.ErrStripeTooSmall},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			before := testutil.ToFloat64(znmetrics.Failures.WithLabelValues("stripe"))
			_, err := Stripe(context.Background(), c.opts)
			require.ErrorIs(t, err, c.want)
			require.Equal(t, before+1, testutil.ToFloat64(znmetrics.Failures.WithLabelValues("stripe")))
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "failed preconditions must not create output files")
}

func TestRunFirstFailureWins(t *testing.T) {
	src, _ := writeSource(t, 40_000)
	out := t.TempDir()
	plan, err := NewPlan(40_000, 4000)
	require.NoError(t, err)
	namer := Namer{Extension: "stripe", Padded: true}
	// A directory squatting on a stripe name makes the create fail.
	for _, i := range []int{2, 7} {
		require.NoError(t, os.Mkdir(filepath.Join(out, namer.Name(i, plan.NameWidth)), 0o755))
	}

	job := &Job{Source: src, OutDir: out, Plan: plan, Namer: namer}
	n, err := job.Run(context.Background(), plan.Split(2))
	require.Zero(t, n)
	require.ErrorIs(t, err, errs.ErrWriteFailed)
	msg := err.Error()
	require.True(t, strings.HasSuffix(msg, "2.stripe") || strings.HasSuffix(msg, "7.stripe"),
		"error should name the failing path: %s", msg)

	// Worker 0 stops at index 2, so nothing past it in its range is written.
	_, err = os.Stat(filepath.Join(out, "4.stripe"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFailureLoggedAtDebug(t *testing.T) {
	src, _ := writeSource(t, 8000)
	out := t.TempDir()
	namer := Namer{Extension: "stripe"}
	require.NoError(t, os.Mkdir(filepath.Join(out, "1.stripe"), 0o755))

	core, logs := observer.New(zapcore.DebugLevel)
	_, err := Stripe(context.Background(), Options{
		Source:  src,
		OutDir:  out,
		Sizer:   FixedSize(4000),
		Namer:   namer,
		Workers: 1,
		Logger:  zap.New(core),
	})
	require.ErrorIs(t, err, errs.ErrWriteFailed)

	failed := logs.FilterMessage("striping failed").All()
	require.Len(t, failed, 1)
	require.Equal(t, zapcore.DebugLevel, failed[0].Level)
	require.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestRunInvalidSource(t *testing.T) {
	plan, err := NewPlan(8000, 4000)
	require.NoError(t, err)
	job := &Job{Source: filepath.Join(t.TempDir(), "gone"), OutDir: t.TempDir(), Plan: plan}
	_, err = job.Run(context.Background(), plan.Split(2))
	require.ErrorIs(t, err, errs.ErrInvalidFile)
}

func TestRunCountsMetrics(t *testing.T) {
	src, _ := writeSource(t, 12_500)
	plan, err := NewPlan(12_500, 5000)
	require.NoError(t, err)

	stripes := testutil.ToFloat64(znmetrics.StripesWritten)
	bytesOut := testutil.ToFloat64(znmetrics.StripeBytes)
	job := &Job{Source: src, OutDir: t.TempDir(), Plan: plan, Namer: Namer{Padded: true}}
	n, err := job.Run(context.Background(), plan.Split(3))
	require.NoError(t, err)
	require.Equal(t, int64(12_500), n)
	require.Equal(t, stripes+3, testutil.ToFloat64(znmetrics.StripesWritten))
	require.Equal(t, bytesOut+12_500, testutil.ToFloat64(znmetrics.StripeBytes))
}

func TestRunCancelled(t *testing.T) {
	src, _ := writeSource(t, 40_000)
	plan, err := NewPlan(40_000, 4000)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job := &Job{Source: src, OutDir: t.TempDir(), Plan: plan}
	_, err = job.Run(ctx, plan.Split(2))
	require.ErrorIs(t, err, context.Canceled)
}

func TestFailureKeepsFirst(t *testing.T) {
	var f failure
	require.False(t, f.failed())
	require.NoError(t, f.get())

	first := errors.New("first")
	require.True(t, f.set(first))
	require.False(t, f.set(errors.New("second")))
	require.True(t, f.failed())
	require.Equal(t, first, f.get())
}
