package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/projects_api/internal/db/dbtest"
	"github.com/Skotchmaster/projects_api/internal/guard"
	"github.com/Skotchmaster/projects_api/internal/hash"
	"github.com/Skotchmaster/projects_api/internal/logging"
	"github.com/Skotchmaster/projects_api/internal/metrics"
	authmw "github.com/Skotchmaster/projects_api/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/projects_api/internal/middleware/logging"
	"github.com/Skotchmaster/projects_api/internal/repo"
	"github.com/Skotchmaster/projects_api/internal/service"
	"github.com/Skotchmaster/projects_api/internal/tokens"
	"github.com/Skotchmaster/projects_api/internal/transport"
)

type testEnv struct {
	E        *echo.Echo
	DB       *gorm.DB
	Repo     *repo.GormRepo
	Tokens   *tokens.Service
	Projects *service.ProjectService
	Metrics  *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := dbtest.New(t)
	r := repo.New(conn)

	ts, err := tokens.NewService([]byte("http-test-secret"), "HS256", 15*time.Minute)
	require.NoError(t, err)

	authSvc, err := service.NewAuthService(r, hash.New(bcrypt.MinCost), ts)
	require.NoError(t, err)
	projSvc := &service.ProjectService{Repo: r}
	m := metrics.New()

	e := echo.New()
	e.Use(loggingmw.RequestLogger(logging.NewWithWriter(io.Discard, "error")))
	e.Use(m.Middleware())
	Register(e, &Deps{
		DB:             conn,
		AuthHandler:    &AuthHTTP{Svc: authSvc, Metrics: m},
		ProjectHandler: &ProjectHTTP{Svc: projSvc},
		AuthMW:         authmw.New(guard.New(ts, r), m),
		Metrics:        m,
	})

	return &testEnv{E: e, DB: conn, Repo: r, Tokens: ts, Projects: projSvc, Metrics: m}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) register(t *testing.T, username, password, role string) {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/register", transport.RegisterRequest{
		Username: username, Password: password, Role: role,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (env *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/login", transport.LoginRequest{Username: username, Password: password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp transport.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
