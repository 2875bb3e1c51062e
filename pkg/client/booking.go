package client

import (
	"context"
	"net/url"

	"ambulink/pkg/model"
)

// BookingClient drives the bookings service API.
type BookingClient struct {
	http *HttpClient
}

func NewBookingClient(httpClient *HttpClient) *BookingClient {
	return &BookingClient{http: httpClient}
}

type CreateBookingRequest struct {
	model.Booking
	Driver string `json:"driver,omitempty"`
}

func (c *BookingClient) Create(ctx context.Context, req CreateBookingRequest) (*Response, error) {
	return c.http.POST(ctx, "/api/v1/bookings", req)
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
}

func (c *BookingClient) UpdateStatus(ctx context.Context, id, status, reason string) (*Response, error) {
	return c.http.PUT(ctx, "/api/v1/bookings/id/"+url.PathEscape(id)+"/status", map[string]string{
		"status":             status,
		"cancellation_reason": reason,
	})
}

func (c *BookingClient) AssignDriver(ctx context.Context, id, driverID string) (*Response, error) {
	return c.http.PUT(ctx, "/api/v1/bookings/id/"+url.PathEscape(id)+"/assign-driver", map[string]string{
		"driver_id": driverID,
	})
}

func (c *BookingClient) Cancel(ctx context.Context, id, reason string) (*Response, error) {
	return c.http.PUT(ctx, "/api/v1/bookings/id/"+url.PathEscape(id)+"/cancel", map[string]string{
		"reason": reason,
	})
}

func (c *BookingClient) Rate(ctx context.Context, id string, rating int, comment string) (*Response, error) {
	return c.http.PUT(ctx, "/api/v1/bookings/id/"+url.PathEscape(id)+"/rate", map[string]any{
		"rating":  rating,
		"comment": comment,
	})
}

func (c *BookingClient) AvailableDrivers(ctx context.Context) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/drivers/available")
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var booking model.Booking
	if err := resp.DecodeData(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}
