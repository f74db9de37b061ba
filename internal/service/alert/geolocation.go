package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"poachwatch/internal/dto"
)

// LocationLookupError covers every way the geolocation step can fail.
type LocationLookupError struct {
	Err error
}

func (e *LocationLookupError) Error() string {
	return fmt.Sprintf("location lookup failed: %v", e.Err)
}

func (e *LocationLookupError) Unwrap() error {
	return e.Err
}

// ipAPIResponse mirrors the ip-api.com JSON document; pointers detect missing fields.
type ipAPIResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Region  *string  `json:"region"`
	City    *string  `json:"city"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// GeoLocator resolves the service's public location over HTTP.
type GeoLocator struct {
	url    string
	client *resty.Client
}

func NewGeoLocator(url string, timeout time.Duration) *GeoLocator {
	return &GeoLocator{
		url:    url,
		client: resty.New().SetTimeout(timeout),
	}
}

func (g *GeoLocator) Locate(ctx context.Context) (dto.Location, error) {
	var body ipAPIResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		ForceContentType("application/json").
		SetResult(&body).
		Get(g.url)
	if err != nil {
		return dto.Location{}, &LocationLookupError{Err: err}
	}
	if !resp.IsSuccess() {
		return dto.Location{}, &LocationLookupError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode())}
	}

	if body.Status == "fail" {
		return dto.Location{}, &LocationLookupError{Err: fmt.Errorf("service refused lookup: %s", body.Message)}
	}
	if body.Region == nil || body.City == nil || body.Lat == nil || body.Lon == nil {
		return dto.Location{}, &LocationLookupError{Err: fmt.Errorf("response is missing region, city, lat or lon")}
	}

	return dto.Location{
		Region: *body.Region,
		City:   *body.City,
		Lat:    *body.Lat,
		Lon:    *body.Lon,
	}, nil
}
