package testutil

import (
	"fmt"
	"os"
	"testing"
)

// TestEnv describes the externally running services the suite talks to.
// The suite never starts servers itself; docker compose or the developer
// brings up Mongo plus the service binaries before running it.
type TestEnv struct {
	MongoURI      string
	DatabaseName  string
	ServerURL     string
	WebhookSecret string
}

// RequireIntegration skips the test unless TEST_INTEGRATION is set. The
// suite needs live Mongo and a running service, so it stays out of plain
// `go test ./...` runs.
func RequireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("set TEST_INTEGRATION=1 to run integration tests")
	}
}

func NewTestEnv() *TestEnv {
	mongoURI := getEnv("TEST_MONGO_URI", DefaultMongoURI)
	dbName := getEnv("TEST_DB_NAME", DefaultDatabaseName)
	serverPort := getEnv("TEST_SERVER_PORT", "8080")
	serverURL := getEnv("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", serverPort))

	return &TestEnv{
		MongoURI:      mongoURI,
		DatabaseName:  dbName,
		ServerURL:     serverURL,
		WebhookSecret: os.Getenv("TEST_WEBHOOK_SECRET"),
	}
}

func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *Client) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	client := NewClient(e.ServerURL, e.WebhookSecret)
	client.WaitForHealthy(t, DefaultHealthCheckTimeout)

	return mongo, client
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

const (
	DefaultHealthCheckTimeout = 30 * ConnectionTimeout
)
