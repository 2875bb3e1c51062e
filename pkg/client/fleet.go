package client

import (
	"context"
	"net/url"

	"ambulink/pkg/model"
)

// FleetClient drives the driver and vehicle management API.
type FleetClient struct {
	http *HttpClient
}

func NewFleetClient(httpClient *HttpClient) *FleetClient {
	return &FleetClient{http: httpClient}
}

func (c *FleetClient) RegisterDriver(ctx context.Context, reg model.DriverRegistration) (*Response, error) {
	return c.http.POST(ctx, "/api/v1/drivers/register", reg)
}

func (c *FleetClient) Verify(ctx context.Context, driverID string) (*Response, error) {
	return c.http.PUT(ctx, "/api/v1/drivers/id/"+url.PathEscape(driverID)+"/verify", nil)
}

func (c *FleetClient) SetAvailability(ctx context.Context, available bool) (*Response, error) {
	return c.http.PUT(ctx, "/api/v1/drivers/me/availability", map[string]bool{"is_available": available})
}

func (c *FleetClient) SetLocation(ctx context.Context, lng, lat float64) (*Response, error) {
	return c.http.PUT(ctx, "/api/v1/drivers/me/location", map[string]float64{"longitude": lng, "latitude": lat})
}

func (c *FleetClient) GetDriver(ctx context.Context, driverID string) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/drivers/id/"+url.PathEscape(driverID))
}

func (c *FleetClient) DecodeDriver(resp *Response) (*model.Driver, error) {
	var driver model.Driver
	if err := resp.DecodeData(&driver); err != nil {
		return nil, err
	}
	return &driver, nil
}
