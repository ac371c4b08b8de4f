package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/helloid/internal/domain/repository"
	"github.com/dropDatabas3/helloid/internal/grants"
	httpapi "github.com/dropDatabas3/helloid/internal/http"
	grantsctrl "github.com/dropDatabas3/helloid/internal/http/controllers/grants"
	dto "github.com/dropDatabas3/helloid/internal/http/dto/grants"
	"github.com/dropDatabas3/helloid/internal/profile"
	"github.com/dropDatabas3/helloid/internal/store/memory"
)

const jwtSecret = "test-signing-secret"

type env struct {
	store  *memory.Store
	server *httptest.Server
	user   *repository.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	u, err := st.Create(ctx, repository.CreateUserInput{
		UserName: "bob",
		Email:    "BobSmith@email.com",
		Password: "Pass123$",
	})
	require.NoError(t, err)

	require.NoError(t, st.AddAll(ctx, []repository.Client{
		{ClientID: "mvc", Name: "MVC Client"},
	}))
	require.NoError(t, st.AddIdentity(ctx, []repository.IdentityResource{
		{Name: "openid", DisplayName: "Your user identifier"},
	}))
	require.NoError(t, st.AddAPI(ctx, []repository.APIResource{
		{Name: "api1", DisplayName: "My API"},
	}))
	st.AddConsent(repository.Consent{
		SubjectID: u.ID,
		ClientID:  "mvc",
		Scopes:    []string{"openid", "api1"},
	})

	profileSvc := profile.NewService(st, profile.StandardFactory{})
	manager := grants.NewManager(st, st, st)

	handler := httpapi.NewRouter(httpapi.RouterDeps{
		Grants:    grantsctrl.NewController(manager),
		JWTSecret: jwtSecret,
		Sessions:  profileSvc,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &env{store: st, server: srv, user: u}
}

func (e *env) token(t *testing.T, stamp string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": e.user.ID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if stamp != "" {
		claims["security_stamp"] = stamp
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return raw
}

func (e *env) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthzIsPublic(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGrantsRequireBearerToken(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/grants", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/grants", "not-a-jwt", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Firmado con otro secret.
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": e.user.ID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)
	resp = e.do(t, http.MethodGet, "/grants", forged, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListGrantsEndpoint(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/grants", e.token(t, ""), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.ListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Grants, 1)
	require.Equal(t, "mvc", out.Grants[0].ClientID)
	require.Equal(t, "MVC Client", out.Grants[0].ClientName)
	require.Equal(t, []string{"Your user identifier"}, out.Grants[0].IdentityGrantNames)
	require.Equal(t, []string{"My API"}, out.Grants[0].APIGrantNames)
}

func TestRevokeGrantEndpoint(t *testing.T) {
	e := newEnv(t)
	tok := e.token(t, "")

	resp := e.do(t, http.MethodPost, "/grants/revoke", tok, `{"client_id":"mvc"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/grants", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Empty(t, out.Grants)

	// Idempotente: revocar de nuevo también es 204.
	resp = e.do(t, http.MethodPost, "/grants/revoke", tok, `{"client_id":"mvc"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRevokeRequiresClientID(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodPost, "/grants/revoke", e.token(t, ""), `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRotatedStampIsRejected(t *testing.T) {
	e := newEnv(t)
	stale := e.token(t, e.user.SecurityStamp)
	e.store.RotateSecurityStamp(e.user.ID)

	resp := e.do(t, http.MethodGet, "/grants", stale, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Un token sin stamp sigue pasando: decide el lockout.
	resp = e.do(t, http.MethodGet, "/grants", e.token(t, ""), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLockedOutUserIsRejected(t *testing.T) {
	e := newEnv(t)
	end := time.Now().Add(time.Hour)
	e.store.SetLockout(e.user.ID, true, &end)

	resp := e.do(t, http.MethodGet, "/grants", e.token(t, ""), "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
