//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/client"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const e2eJWTSecret = "e2e-test-secret"

// E2ETestSuite starts PostgreSQL and the application in containers and
// exercises the HTTP API end to end, migrations included.
type E2ETestSuite struct {
	suite.Suite
	ctx          context.Context
	pgContainer  *postgres.PostgresContainer
	db           *gorm.DB
	appContainer testcontainers.Container
	baseURL      string
	httpClient   *http.Client
}

// SetupSuite runs once before all tests
func (s *E2ETestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgContainer, err := postgres.Run(s.ctx,
		"postgres:12-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(s.T(), err, "failed to start PostgreSQL container")
	s.pgContainer = pgContainer

	connStr, err := pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "failed to get connection string")

	// Direct connection for assertions and seeding; the application
	// container applies the migrations on startup.
	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "failed to connect to database")
	s.db = db

	dbHost := s.containerIP(pgContainer)

	appContainer, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "promptstash-e2e:test",
			ExposedPorts: []string{"8080/tcp"},
			Env: map[string]string{
				"DB_HOST":              dbHost,
				"DB_PORT":              "5432",
				"DB_USER":              "testuser",
				"DB_PASSWORD":          "testpass",
				"DB_NAME":              "testdb",
				"DB_SSLMODE":           "disable",
				"DB_TIMEZONE":          "UTC",
				"SERVER_HOST":          "",
				"SERVER_PORT":          ":8080",
				"SERVER_READ_TIMEOUT":  "10s",
				"SERVER_WRITE_TIMEOUT": "10s",
				"SERVER_IDLE_TIMEOUT":  "120s",
				"GIN_MODE":             "release",
				"LOG_LEVEL":            "info",
				"LOG_FORMAT":           "json",
				"LOG_OUTPUT":           "stdout",
				"MIGRATIONS_PATH":      "migrations",
				"JWT_SECRET":           e2eJWTSecret,
				"JWT_TOKEN_TTL":        "1h",
				"INVITE_TTL_DAYS":      "7",
			},
			WaitingFor: wait.ForHTTP("/health").
				WithPort("8080/tcp").
				WithStartupTimeout(120 * time.Second).
				WithPollInterval(2 * time.Second),
		},
		Started: true,
	})
	require.NoError(s.T(), err, "failed to start application container")
	s.appContainer = appContainer

	host, err := appContainer.Host(s.ctx)
	require.NoError(s.T(), err, "failed to get container host")
	port, err := appContainer.MappedPort(s.ctx, "8080")
	require.NoError(s.T(), err, "failed to get container port")

	s.baseURL = fmt.Sprintf("http://%s:%s", host, port.Port())
	s.httpClient = &http.Client{Timeout: 30 * time.Second}
}

// containerIP resolves the PostgreSQL container's address on the Docker
// network so the application container can reach it directly.
func (s *E2ETestSuite) containerIP(pgContainer *postgres.PostgresContainer) string {
	containerName, err := pgContainer.Name(s.ctx)
	require.NoError(s.T(), err, "failed to get PostgreSQL container name")
	containerNameClean := strings.TrimPrefix(containerName, "/")

	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	require.NoError(s.T(), err, "failed to create Docker client")
	defer dockerClient.Close()

	containerInfo, err := dockerClient.ContainerInspect(s.ctx, containerNameClean)
	require.NoError(s.T(), err, "failed to inspect PostgreSQL container")

	for _, network := range containerInfo.NetworkSettings.Networks {
		if network.IPAddress != "" {
			return network.IPAddress
		}
	}
	return containerNameClean
}

// TearDownSuite runs once after all tests
func (s *E2ETestSuite) TearDownSuite() {
	if s.appContainer != nil {
		_ = s.appContainer.Terminate(s.ctx)
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
}

// SetupTest runs before each test
func (s *E2ETestSuite) SetupTest() {
	s.cleanDatabase()
}

// cleanDatabase truncates all tables between tests
func (s *E2ETestSuite) cleanDatabase() {
	tables := []string{
		"invites", "user_pins", "team_pins", "collection_items",
		"collections", "favorites", "prompts", "team_memberships",
		"teams", "users",
	}
	for _, table := range tables {
		s.db.Exec("TRUNCATE TABLE " + table + " CASCADE")
	}
}

// seedSuperAdmin inserts a SUPER_ADMIN user directly and returns its id.
func (s *E2ETestSuite) seedSuperAdmin(email, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(s.T(), err)

	id := "00000000-0000-0000-0000-000000000001"
	err = s.db.Exec(
		"INSERT INTO users (id, email, name, password_hash, platform_role) VALUES (?, ?, ?, ?, 'SUPER_ADMIN')",
		id, email, "Root", string(hash),
	).Error
	require.NoError(s.T(), err)
	return id
}

// doRequest performs an HTTP request, optionally authenticated.
func (s *E2ETestSuite) doRequest(method, path, token string, body io.Reader) (*http.Response, []byte) {
	req, err := http.NewRequest(method, s.baseURL+path, body)
	require.NoError(s.T(), err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err, "failed to read response body")
	resp.Body.Close()

	return resp, respBody
}

// jsonBody marshals a payload into a request body.
func jsonBody(payload any) io.Reader {
	bodyBytes, _ := json.Marshal(payload)
	return strings.NewReader(string(bodyBytes))
}

// postJSON marshals the payload and POSTs it.
func (s *E2ETestSuite) postJSON(path, token string, payload any) (*http.Response, []byte) {
	bodyBytes, err := json.Marshal(payload)
	require.NoError(s.T(), err)
	return s.doRequest("POST", path, token, strings.NewReader(string(bodyBytes)))
}

// login authenticates and returns the bearer token.
func (s *E2ETestSuite) login(email, password string) string {
	resp, body := s.postJSON("/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, "login failed: %s", string(body))

	var result struct {
		Token string `json:"token"`
	}
	require.NoError(s.T(), json.Unmarshal(body, &result))
	return result.Token
}

func TestE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}
