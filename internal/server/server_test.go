package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pokedash/internal/dashboard"
	"github.com/hupe1980/pokedash/internal/dataset"
	"github.com/hupe1980/pokedash/internal/pokedex"
)

func fixture() *pokedex.Table {
	return pokedex.NewTable([]pokedex.Row{
		{ID: 1, Name: "Bulbasaur", Type: "grass/poison", Attack: 49, Defense: 49, Speed: 45, Total: 318, Country: "Japan", Generation: "I", Sprite: "s/1.png"},
		{ID: 4, Name: "Charmander", Type: "fire", Attack: 52, Defense: 43, Speed: 65, Total: 309, Country: "Japan", Generation: "I", Sprite: "s/4.png"},
		{ID: 6, Name: "Charizard", Type: "fire/flying", Attack: 84, Defense: 78, Speed: 100, Total: 534, Country: "France", Generation: "I", Sprite: "s/6.png"},
		{ID: 158, Name: "Totodile", Type: "water", Attack: 65, Defense: 64, Speed: 43, Total: 314, Country: "France", Generation: "II", Sprite: "s/158.png"},
	})
}

func newTestServer(t *testing.T, load dataset.LoadFunc) *httptest.Server {
	t.Helper()

	if load == nil {
		load = func(context.Context) (*pokedex.Table, error) { return fixture(), nil }
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(New(dataset.NewCache(load), WithLogger(logger)))
	t.Cleanup(ts.Close)

	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(ts.URL + path) //nolint:noctx // test
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func unavailable(context.Context) (*pokedex.Table, error) {
	return nil, fmt.Errorf("reading data.csv: %w", pokedex.ErrDataUnavailable)
}

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

func TestIndex(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := get(t, ts, "/?type=fire&type=water")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(RenderIDHeader))
	assert.Contains(t, body, "Showing 2 of 4")
	assert.Contains(t, body, "<form")
}

func TestRenderIDUniquePerRequest(t *testing.T) {
	ts := newTestServer(t, nil)

	r1, _ := get(t, ts, "/healthz")
	r2, _ := get(t, ts, "/healthz")
	assert.NotEqual(t, r1.Header.Get(RenderIDHeader), r2.Header.Get(RenderIDHeader))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := get(t, ts, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var h healthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &h))
	assert.Equal(t, "ok", h.Status)
	assert.False(t, h.Loaded, "health does not trigger a load")
}

// ---------------------------------------------------------------------------
// API
// ---------------------------------------------------------------------------

func TestDashboardJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := get(t, ts, "/api/dashboard?country=France")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var v dashboard.View
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.Equal(t, 2, v.Count)
	assert.Equal(t, 4, v.Size)
	assert.Equal(t, "France", v.Criteria.Country)
	assert.Len(t, v.Metrics, 3)
}

func TestDashboardFormats(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := get(t, ts, "/api/dashboard?format=yaml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "caption: Showing 4")

	resp, body = get(t, ts, "/api/dashboard?format=text")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Showing 4 of 4")

	resp, _ = get(t, ts, "/api/dashboard?format=xml")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreatures(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := get(t, ts, "/api/creatures?min_total=315")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got creaturesResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.Equal(t, 2, got.Count)
	assert.Equal(t, "Bulbasaur", got.Creatures[0].Name)
	assert.Equal(t, "Charizard", got.Creatures[1].Name)
}

func TestCreatures_InvalidFilter(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, q := range []string{"min_total=abc", "min_total=600&max_total=100"} {
		resp, body := get(t, ts, "/api/creatures?"+q)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		assert.Contains(t, body, "invalid argument", q)
	}
}

func TestOptions(t *testing.T) {
	ts := newTestServer(t, nil)

	_, body := get(t, ts, "/api/options")

	var o dashboard.Options
	require.NoError(t, json.Unmarshal([]byte(body), &o))
	assert.Equal(t, []string{"fire", "fire/flying", "grass/poison", "water"}, o.Types)
	assert.Equal(t, []string{"France", "Japan"}, o.Countries)
	assert.Equal(t, []string{"I", "II"}, o.Generations)
	assert.Equal(t, 309, o.Total.Lo)
	assert.Equal(t, 534, o.Total.Hi)
}

func TestChart(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := get(t, ts, "/charts/"+dashboard.ChartTypeMeans+".svg")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "<svg")

	resp, _ = get(t, ts, "/charts/pie.svg")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReload(t *testing.T) {
	var loads atomic.Int32

	ts := newTestServer(t, func(context.Context) (*pokedex.Table, error) {
		loads.Add(1)
		return fixture(), nil
	})

	get(t, ts, "/api/options")
	get(t, ts, "/api/options")
	assert.Equal(t, int32(1), loads.Load(), "table is memoized")

	resp, err := http.Post(ts.URL+"/api/reload", "application/json", nil) //nolint:noctx // test
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), loads.Load())

	var got reloadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 4, got.Rows)
	assert.False(t, got.LoadedAt.IsZero())
}

func TestReload_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, _ := get(t, ts, "/api/reload")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestDataUnavailable(t *testing.T) {
	ts := newTestServer(t, unavailable)

	for _, path := range []string{"/", "/api/dashboard", "/api/creatures", "/api/options", "/charts/top-total.svg"} {
		resp, body := get(t, ts, path)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
		assert.Contains(t, body, "data unavailable", path)
	}
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(dataset.NewCache(func(context.Context) (*pokedex.Table, error) { return fixture(), nil }), WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz") //nolint:noctx // test
		if err != nil {
			return false
		}

		resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("x: %w", pokedex.ErrInvalidArgument)))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(fmt.Errorf("x: %w", pokedex.ErrDataUnavailable)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}
