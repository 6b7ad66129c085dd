package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/user-service/internal/app"
	"github.com/prperemyshlev/user-service/internal/config"
	"github.com/prperemyshlev/user-service/internal/dto"
	"github.com/prperemyshlev/user-service/pkg/database"
	"github.com/prperemyshlev/user-service/pkg/messaging"
	"github.com/prperemyshlev/user-service/pkg/observability"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const rateLimitRequests = 5

type Suite struct {
	suite.Suite
	Postgres   *database.Postgres
	Redis      *database.Redis
	App        *app.App
	Server     *httptest.Server
	BaseURL    string
	containers []testcontainers.Container
}

func TestSuite(t *testing.T) {
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping acceptance tests: TEST_INTEGRATION is not set")
	}
	suite.Run(t, new(Suite))
}

func (s *Suite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("user_service_test"),
		postgres.WithUsername("user_service"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.containers = append(s.containers, pgContainer)

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "docker.io/redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.containers = append(s.containers, redisContainer)

	pgURL, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(database.Migrate(pgURL, zap.NewNop()))

	s.Postgres, err = database.NewPostgres(pgURL, database.PoolOptions{})
	s.Require().NoError(err)

	redisAddr, err := redisContainer.Endpoint(ctx, "")
	s.Require().NoError(err)
	s.Redis, err = database.NewRedis(ctx, database.RedisOptions{Addr: redisAddr})
	s.Require().NoError(err)

	gin.SetMode(gin.TestMode)

	infra, err := newTestInfrastructure(s.Postgres, s.Redis)
	s.Require().NoError(err)

	s.App, err = app.NewApp(infra, testConfig())
	s.Require().NoError(err)

	s.Server = httptest.NewServer(s.App.Router())
	s.BaseURL = s.Server.URL
}

func (s *Suite) TearDownSuite() {
	if s.Server != nil {
		s.Server.Close()
	}
	if s.Postgres != nil {
		_ = s.Postgres.Close()
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	for _, c := range s.containers {
		if err := c.Terminate(context.Background()); err != nil {
			s.T().Logf("failed to terminate container: %v", err)
		}
	}
}

func (s *Suite) SetupTest() {
	ctx := context.Background()

	_, err := s.Postgres.DB.ExecContext(ctx, "TRUNCATE TABLE users RESTART IDENTITY")
	s.Require().NoError(err)
	s.Require().NoError(s.Redis.Client.FlushDB(ctx).Err())
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-at-least-32-characters-long",
			AccessTokenExpiry:  config.Duration{Duration: 15 * time.Minute},
			RefreshTokenExpiry: config.Duration{Duration: 7 * 24 * time.Hour},
		},
		Security: config.SecurityConfig{
			Argon2MemoryKiB:   1024,
			Argon2Iterations:  1,
			Argon2Parallelism: 1,
			RateLimitRequests: rateLimitRequests,
			RateLimitWindow:   config.Duration{Duration: time.Minute},
			RateLimitEnabled:  true,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		Seed: config.SeedConfig{
			AdminPassword:   "admin",
			DefaultPassword: "123456",
		},
		Env: "test",
	}
}

type testInfrastructure struct {
	postgres       *database.Postgres
	redis          *database.Redis
	logger         *zap.Logger
	metricsHandler http.Handler
	meterProvider  *metric.MeterProvider
}

var _ app.Infrastructure = &testInfrastructure{}

func newTestInfrastructure(postgres *database.Postgres, redis *database.Redis) (*testInfrastructure, error) {
	meterProvider, metricsHandler, err := observability.InitTelemetry(observability.ServiceName)
	if err != nil {
		return nil, err
	}

	return &testInfrastructure{
		postgres:       postgres,
		redis:          redis,
		logger:         zap.NewNop(),
		metricsHandler: metricsHandler,
		meterProvider:  meterProvider,
	}, nil
}

func (i *testInfrastructure) Postgres() *database.Postgres         { return i.postgres }
func (i *testInfrastructure) Redis() *database.Redis               { return i.redis }
func (i *testInfrastructure) Publisher() *messaging.Publisher      { return nil }
func (i *testInfrastructure) Logger() *zap.Logger                  { return i.logger }
func (i *testInfrastructure) MetricsHandler() http.Handler         { return i.metricsHandler }
func (i *testInfrastructure) MeterProvider() *metric.MeterProvider { return i.meterProvider }

func (i *testInfrastructure) Shutdown(ctx context.Context) error {
	return observability.Shutdown(ctx, i.meterProvider, i.logger)
}

// do sends a JSON request and returns the response with its body read
func (s *Suite) do(method, path string, body any, token string) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.BaseURL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, data
}

func (s *Suite) decode(data []byte, v any) {
	s.Require().NoError(json.Unmarshal(data, v), string(data))
}

func (s *Suite) login(username, password string) dto.AuthResponse {
	resp, body := s.do(http.MethodPost, "/auth/login", dto.LoginRequest{Username: username, Password: password}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var auth dto.AuthResponse
	s.decode(body, &auth)
	return auth
}

func (s *Suite) seed() {
	s.Require().NoError(s.App.Seed(context.Background()))
}
