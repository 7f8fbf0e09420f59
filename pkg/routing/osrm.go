package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ambudispatch/pkg/logger"
)

// OSRMProvider fetches driving routes from an OSRM-compatible HTTP service.
type OSRMProvider struct {
	baseURL    string
	profile    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewOSRMProvider(baseURL, profile string, timeout time.Duration, log *logger.Logger) *OSRMProvider {
	if profile == "" {
		profile = "driving"
	}

	return &OSRMProvider{
		baseURL:    baseURL,
		profile:    profile,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// FetchRoute requests full route geometry between start and end. OSRM speaks
// lon,lat; coordinates are swapped into the internal lat,lng order. Any
// failure degrades to the straight-line fallback.
func (o *OSRMProvider) FetchRoute(ctx context.Context, start, end LatLng) []LatLng {
	apiURL := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		o.baseURL, o.profile, start.Lng, start.Lat, end.Lng, end.Lat)

	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		o.warnFallback(err)
		return StraightLine(start, end)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		o.warnFallback(err)
		return StraightLine(start, end)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		o.warnFallback(err)
		return StraightLine(start, end)
	}

	if resp.StatusCode != http.StatusOK {
		o.warnFallback(fmt.Errorf("OSRM status %d: %s", resp.StatusCode, string(body)))
		return StraightLine(start, end)
	}

	var osrmResp osrmResponse
	if err := json.Unmarshal(body, &osrmResp); err != nil {
		o.warnFallback(err)
		return StraightLine(start, end)
	}

	if osrmResp.Code != "Ok" || len(osrmResp.Routes) == 0 {
		o.warnFallback(fmt.Errorf("OSRM routing failed: code=%s routes=%d", osrmResp.Code, len(osrmResp.Routes)))
		return StraightLine(start, end)
	}

	coords := osrmResp.Routes[0].Geometry.Coordinates
	route := make([]LatLng, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		route = append(route, LatLng{Lat: c[1], Lng: c[0]})
	}

	if len(route) == 0 {
		return StraightLine(start, end)
	}

	return route
}

func (o *OSRMProvider) warnFallback(err error) {
	if o.log != nil {
		o.log.WithError(err).Warn("OSRM request failed, using straight-line fallback")
	}
}
