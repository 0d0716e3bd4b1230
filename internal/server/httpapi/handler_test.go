package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/userstore"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

// --- helpers ---

type testEnv struct {
	router *gin.Engine
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenService([]byte(strings.Repeat("s", 32)), time.Hour, "gophauth-test")
	require.NoError(t, err)

	svc, err := users.NewService(userstore.NewMemoryRepository(), auth.NewBcryptHasher(bcrypt.MinCost), tokens, logging.Nop{}, time.Second)
	require.NoError(t, err)

	h := NewHandler(svc, tokens.TTL(), logging.Nop{})
	return &testEnv{router: NewRouter(h, tokens, logging.Nop{}, []string{"*"}), tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func (e *testEnv) register(t *testing.T, email, password string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"fullName": "A", "email": email, "password": password}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)["token"].(string)
}

type stubAuthService struct {
	err error
}

func (s stubAuthService) Register(context.Context, string, string, string) (*users.User, error) {
	return nil, s.err
}

func (s stubAuthService) Login(context.Context, string, string) (string, error) {
	return "", s.err
}

// --- tests ---

func TestRootAndHealth(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API is running", decode(t, rec)["message"])

	rec = e.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)
	body := map[string]string{"fullName": "A", "email": "a@x.com", "password": "p1"}

	rec := e.do(t, http.MethodPost, "/api/auth/register", body, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User registered successfully", decode(t, rec)["message"])
	assert.NotContains(t, rec.Body.String(), "token")

	rec = e.do(t, http.MethodPost, "/api/auth/register", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", decode(t, rec)["message"])
}

func TestRegister_BadInput(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", `{"fullName":`},
		{"missing password", map[string]string{"fullName": "A", "email": "a@x.com"}},
		{"invalid email", map[string]string{"fullName": "A", "email": "nope", "password": "p"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/api/auth/register", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["message"])
		})
	}
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "a@x.com", "p1")

	rec := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@x.com", "password": "p1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, "Bearer", out["tokenType"])
	assert.Equal(t, float64(3600), out["expiresIn"])

	id, err := e.tokens.Verify(out["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", id.Email)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "a@x.com", "p1")

	wrong := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@x.com", "password": "nope"}, nil)
	unknown := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ghost@x.com", "password": "p1"}, nil)

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestLogin_BadInput(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/auth/login", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInternalErrorsAreGeneric(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(stubAuthService{err: errors.New("pq: connection refused at 10.0.0.5")}, time.Hour, logging.Nop{})
	router := NewRouter(h, nil, logging.Nop{}, nil)

	for _, path := range []string{"/api/auth/register", "/api/auth/login"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"fullName":"A","email":"a@x.com","password":"p"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "10.0.0.5", path)
		assert.Equal(t, common.ErrorInternal.Error(), decode(t, rec)["error"], path)
	}
}

func TestProfile(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "a@x.com", "p1")
	token := e.login(t, "a@x.com", "p1")

	rec := e.do(t, http.MethodGet, "/api/user/profile", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, "Welcome, a@x.com", out["message"])
	assert.Equal(t, "a@x.com", out["email"])
}

func TestProfile_Unauthorized(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/user/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing bearer token", decode(t, rec)["message"])

	rec = e.do(t, http.MethodGet, "/api/user/profile", nil, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode(t, rec)["message"])
}

func TestRequestIDHeader(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/health", nil, nil)
	assert.NotEmpty(t, rec.Header().Get(common.RequestIDHeaderName))

	rec = e.do(t, http.MethodGet, "/health", nil, map[string]string{common.RequestIDHeaderName: "req-42"})
	assert.Equal(t, "req-42", rec.Header().Get(common.RequestIDHeaderName))
}

func TestNoRoute(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
