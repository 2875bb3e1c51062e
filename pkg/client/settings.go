package client

import (
	"context"
	"net/url"

	"ambulink/pkg/model"
)

// SettingsClient drives the settings and fare quote API.
type SettingsClient struct {
	http *HttpClient
}

func NewSettingsClient(httpClient *HttpClient) *SettingsClient {
	return &SettingsClient{http: httpClient}
}

func (c *SettingsClient) Get(ctx context.Context, section string) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/settings/"+url.PathEscape(section))
}

func (c *SettingsClient) Update(ctx context.Context, section string, value any) (*Response, error) {
	return c.http.PUT(ctx, "/api/v1/settings/"+url.PathEscape(section), value)
}

func (c *SettingsClient) Quote(ctx context.Context, req model.FareQuoteRequest) (*Response, error) {
	return c.http.POST(ctx, "/api/v1/fares/quote", req)
}
