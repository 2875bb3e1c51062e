//go:build integration

package testutil

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"ambulink/pkg/auth"
	"ambulink/pkg/client"
)

const (
	DefaultHealthCheckTimeout = 30 * time.Second
	tokenTTL                  = time.Hour
)

// TestEnv points at a running stack: Mongo plus the bookings, fleet and
// settings services sharing one JWT secret.
type TestEnv struct {
	MongoURI     string
	DatabaseName string
	BookingsURL  string
	FleetURL     string
	SettingsURL  string
	JWTSecret    string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		BookingsURL:  getEnv("TEST_BOOKINGS_URL", "http://localhost:8080"),
		FleetURL:     getEnv("TEST_FLEET_URL", "http://localhost:8081"),
		SettingsURL:  getEnv("TEST_SETTINGS_URL", "http://localhost:8082"),
		JWTSecret:    getEnv("TEST_JWT_SECRET", "integration-secret-0123456789"),
	}
}

func (e *TestEnv) Setup(t *testing.T) *MongoHelper {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	for _, url := range []string{e.BookingsURL, e.FleetURL, e.SettingsURL} {
		if err := client.NewHttpClient(url).WaitForHealthy(DefaultHealthCheckTimeout); err != nil {
			t.Fatalf("service at %s is not healthy: %v", url, err)
		}
	}
	return mongo
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

// As returns HTTP clients for the three services authenticated as userID.
func (e *TestEnv) As(t *testing.T, userID, role string) *Actor {
	t.Helper()

	token, err := auth.Issue(e.JWTSecret, userID, role, tokenTTL)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return &Actor{
		UserID:   userID,
		Bookings: client.NewBookingClient(client.NewHttpClient(e.BookingsURL).WithToken(token)),
		Fleet:    client.NewFleetClient(client.NewHttpClient(e.FleetURL).WithToken(token)),
		Settings: client.NewSettingsClient(client.NewHttpClient(e.SettingsURL).WithToken(token)),
	}
}

type Actor struct {
	UserID   string
	Bookings *client.BookingClient
	Fleet    *client.FleetClient
	Settings *client.SettingsClient
}

// Must fails the test on transport errors and unexpected status codes.
func Must(t *testing.T, want int) func(*client.Response, error) *client.Response {
	return func(resp *client.Response, err error) *client.Response {
		t.Helper()
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != want {
			t.Fatalf("expected status %d (%s), got %d: %s", want, http.StatusText(want), resp.StatusCode, resp.Body)
		}
		return resp
	}
}

func Context(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
