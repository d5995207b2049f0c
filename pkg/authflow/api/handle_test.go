package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritaslabs/useraudit/pkg/auditlog"
	"github.com/veritaslabs/useraudit/pkg/authflow"
	"github.com/veritaslabs/useraudit/pkg/deactivation"
	"github.com/veritaslabs/useraudit/pkg/expiry"
	"github.com/veritaslabs/useraudit/pkg/identity"
	"github.com/veritaslabs/useraudit/pkg/loginattempt"
	"github.com/veritaslabs/useraudit/pkg/notification"
)

type apiEnv struct {
	store  *identity.InMemoryStore
	logger *auditlog.LoginLogger
	router http.Handler
}

func newAPIEnv(t *testing.T, limit int) *apiEnv {
	t.Helper()

	store := identity.NewInMemoryStore()
	logger := auditlog.NewLoginLogger(auditlog.NewInMemoryLoginEventRepository())
	services := &authflow.ServiceDependencies{
		IdentityStore:     store,
		LoginLogger:       logger,
		Attempts:          loginattempt.NewAttemptCounter(loginattempt.NewInMemoryAttemptRepository()),
		Deactivations:     deactivation.NewRecorder(deactivation.NewInMemoryRecordRepository()),
		Expiry:            expiry.NewEvaluator(expiry.StaticSettings{}),
		PasswordChangedAt: expiry.StorePasswordChangedAt(store),
		Notifier:          notification.NewManager(),
		FailureLimit:      authflow.StaticFailureLimit(limit),
	}

	return &apiEnv{
		store:  store,
		logger: logger,
		router: Routes(NewHandler(authflow.NewService(services))),
	}
}

func (e *apiEnv) postLogin(t *testing.T, body LoginRequest, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(payload))
	req.RemoteAddr = "192.168.1.100:54321"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpoint_Success(t *testing.T) {
	env := newAPIEnv(t, 0)
	_, err := env.store.AddIdentity("alice", "alice@example.com", "secret")
	require.NoError(t, err)

	rec := env.postLogin(t, LoginRequest{Username: "alice", Password: "secret"}, map[string]string{
		"X-Forwarded-For": "192.168.1.2, 10.10.10.10, 20.20.20.20",
		"User-Agent":      "test-browser/1.0",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Username)

	event, found, err := env.logger.Latest(context.Background(), auditlog.KindSuccess)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "192.168.1.2", event.IPAddress)
	assert.Equal(t, "192.168.1.100,20.20.20.20,10.10.10.10", event.Proxies)
	assert.Equal(t, "test-browser/1.0", event.UserAgent)
}

func TestLoginEndpoint_DenialsAreIndistinguishable(t *testing.T) {
	env := newAPIEnv(t, 0)
	_, err := env.store.AddIdentity("alice", "alice@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, env.store.SetActive(context.Background(), "alice", false))

	wrongPassword := env.postLogin(t, LoginRequest{Username: "alice", Password: "wrong"}, nil)
	unknownUser := env.postLogin(t, LoginRequest{Username: "nobody", Password: "x"}, nil)
	inactive := env.postLogin(t, LoginRequest{Username: "alice", Password: "secret"}, nil)

	for _, rec := range []*httptest.ResponseRecorder{wrongPassword, unknownUser, inactive} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, authflow.GenericDenyMessage, resp.Error)
	}
}

func TestLoginEndpoint_BadRequest(t *testing.T) {
	env := newAPIEnv(t, 0)

	req := httptest.NewRequest("POST", "/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.postLogin(t, LoginRequest{Username: "alice"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReactivateEndpoint(t *testing.T) {
	env := newAPIEnv(t, 2)
	_, err := env.store.AddIdentity("bob", "bob@example.com", "secret")
	require.NoError(t, err)

	// Lock the account out.
	for i := 0; i < 2; i++ {
		env.postLogin(t, LoginRequest{Username: "bob", Password: "wrong"}, nil)
	}
	id, err := env.store.FindByUsername(context.Background(), "bob")
	require.NoError(t, err)
	require.False(t, id.Active)

	req := httptest.NewRequest("POST", "/reactivate/bob", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	id, err = env.store.FindByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, id.Active)

	rec = env.postLogin(t, LoginRequest{Username: "bob", Password: "secret"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReactivateEndpoint_UnknownUser(t *testing.T) {
	env := newAPIEnv(t, 0)

	req := httptest.NewRequest("POST", "/reactivate/nobody", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttemptsEndpoint(t *testing.T) {
	env := newAPIEnv(t, 0)
	_, err := env.store.AddIdentity("bob", "bob@example.com", "secret")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/attempts/bob", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env.postLogin(t, LoginRequest{Username: "bob", Password: "wrong"}, nil)
	env.postLogin(t, LoginRequest{Username: "bob", Password: "wrong"}, nil)

	req = httptest.NewRequest("GET", "/attempts/bob", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AttemptsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bob", resp.Username)
	assert.Equal(t, int64(2), resp.Count)
}
