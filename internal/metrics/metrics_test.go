package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCounters(t *testing.T) {
	Init()
	StripesWritten.Add(2)
	Failures.WithLabelValues("assemble").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Contains(t, string(body), "zebra_stripes_written_total")
	require.Contains(t, string(body), `zebra_failures_total{op="assemble"}`)
	require.Panics(t, Init, "collectors register once")
}
