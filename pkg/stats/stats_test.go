package stats

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gridcrew/mapathon/pkg/config"
	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus"
)

func TestHandler(t *testing.T) {
	is := is.New(t)

	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapathon",
		Name:      "test_total",
		Help:      "A test counter.",
	})
	reg.MustRegister(c)
	c.Add(3)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	res, err := srv.Client().Get(srv.URL + "/metrics")
	is.NoErr(err)
	defer res.Body.Close() // nolint: errcheck
	is.Equal(res.StatusCode, http.StatusOK)

	body, err := io.ReadAll(res.Body)
	is.NoErr(err)
	is.True(strings.Contains(string(body), "mapathon_test_total 3"))
}

func TestNewStatsServer(t *testing.T) {
	is := is.New(t)

	_, err := NewStatsServer(context.TODO())
	is.Equal(err, config.ErrNilConfig)

	s, err := NewStatsServer(config.WithContext(context.TODO(), config.DefaultConfig()))
	is.NoErr(err)
	is.Equal(s.server.Addr, config.DefaultConfig().Stats.ListenAddr)
}
