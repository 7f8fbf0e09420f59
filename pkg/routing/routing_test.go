package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatLegs(t *testing.T) {
	a := []LatLng{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 3, Lng: 3}}
	b := []LatLng{{Lat: 3, Lng: 3}, {Lat: 4, Lng: 4}}

	t.Run("drops the duplicated midpoint", func(t *testing.T) {
		joined := ConcatLegs(a, b)
		require.Len(t, joined, len(a)+len(b)-1)
		assert.Equal(t, a[0], joined[0])
		assert.Equal(t, LatLng{Lat: 4, Lng: 4}, joined[len(joined)-1])

		// The shared point appears exactly once.
		count := 0
		for _, p := range joined {
			if p == (LatLng{Lat: 3, Lng: 3}) {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("short second leg contributes nothing", func(t *testing.T) {
		assert.Equal(t, a, ConcatLegs(a, nil))
		assert.Equal(t, a, ConcatLegs(a, []LatLng{{Lat: 3, Lng: 3}}))
	})

	t.Run("empty first leg", func(t *testing.T) {
		assert.Equal(t, b, ConcatLegs(nil, b))
	})
}

func TestStraightLine(t *testing.T) {
	start := LatLng{Lat: 22.5847, Lng: 88.3426}
	end := LatLng{Lat: 22.5726, Lng: 88.3639}

	route := StraightLine(start, end)
	require.Len(t, route, 2)
	assert.Equal(t, start, route[0])
	assert.Equal(t, end, route[1])
}

func TestOSRMProviderFetchRoute(t *testing.T) {
	start := LatLng{Lat: 22.5847, Lng: 88.3426}
	end := LatLng{Lat: 22.5726, Lng: 88.3639}

	t.Run("parses geometry and swaps lon lat", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/route/v1/driving/")
			assert.Equal(t, "full", r.URL.Query().Get("overview"))
			assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"code":"Ok","routes":[{"geometry":{"coordinates":[[88.3426,22.5847],[88.3530,22.5790],[88.3639,22.5726]]}}]}`))
		}))
		defer server.Close()

		provider := NewOSRMProvider(server.URL, "driving", 2*time.Second, nil)
		route := provider.FetchRoute(context.Background(), start, end)

		require.Len(t, route, 3)
		assert.Equal(t, LatLng{Lat: 22.5847, Lng: 88.3426}, route[0])
		assert.Equal(t, LatLng{Lat: 22.5726, Lng: 88.3639}, route[2])
	})

	t.Run("falls back when OSRM reports an error code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
		}))
		defer server.Close()

		provider := NewOSRMProvider(server.URL, "driving", 2*time.Second, nil)
		route := provider.FetchRoute(context.Background(), start, end)
		assert.Equal(t, StraightLine(start, end), route)
	})

	t.Run("falls back on HTTP failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		provider := NewOSRMProvider(server.URL, "driving", 2*time.Second, nil)
		route := provider.FetchRoute(context.Background(), start, end)
		assert.Equal(t, StraightLine(start, end), route)
	})

	t.Run("falls back when the server is unreachable", func(t *testing.T) {
		provider := NewOSRMProvider("http://127.0.0.1:1", "driving", 500*time.Millisecond, nil)
		route := provider.FetchRoute(context.Background(), start, end)
		assert.Equal(t, StraightLine(start, end), route)
	})

	t.Run("falls back on malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		provider := NewOSRMProvider(server.URL, "driving", 2*time.Second, nil)
		route := provider.FetchRoute(context.Background(), start, end)
		assert.Equal(t, StraightLine(start, end), route)
	})
}
