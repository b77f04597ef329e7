package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/blobstore"
	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/repository"
	"github.com/Fernandol1z6/site-do-estudio/internal/application/services"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/config"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/logger"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// Digest of "12345678", the provisioned default password.
const defaultPassword = "12345678"

func newAuthHandler() (*AuthHandler, *services.SessionService) {
	store := blobstore.NewMemoryStore()
	sessions := services.NewSessionService(
		repository.NewUserDirectory(store),
		repository.NewSessionRepository(store),
		config.SessionConfig{Secret: "test-secret", Duration: 24 * time.Hour, Issuer: "estudio"},
		logger.NewNop(),
	)
	return NewAuthHandler(sessions, logger.NewNop()), sessions
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	e := newTestEcho()
	h, _ := newAuthHandler()

	body := `{"username":"admin1","password":"` + defaultPassword + `"}`
	c, rec := jsonRequest(e, http.MethodPost, "/api/v1/auth/login", body)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ports.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	require.NotNil(t, resp.User)
	assert.Empty(t, resp.User.PasswordHash)
}

func TestAuthHandler_LoginFailureIsIndistinct(t *testing.T) {
	e := newTestEcho()
	h, _ := newAuthHandler()

	for _, body := range []string{
		`{"username":"admin1","password":"wrong"}`,
		`{"username":"nobody","password":"` + defaultPassword + `"}`,
	} {
		c, _ := jsonRequest(e, http.MethodPost, "/api/v1/auth/login", body)
		err := h.Login(c)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
		assert.Equal(t, "Invalid username or password", he.Message)
	}
}

func TestAuthHandler_LoginValidatesPayload(t *testing.T) {
	e := newTestEcho()
	h, _ := newAuthHandler()

	c, _ := jsonRequest(e, http.MethodPost, "/api/v1/auth/login", `{"username":"admin1"}`)
	err := h.Login(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestAuthHandler_SessionLifecycle(t *testing.T) {
	e := newTestEcho()
	h, _ := newAuthHandler()

	// No session yet.
	c, rec := jsonRequest(e, http.MethodGet, "/api/v1/auth/session", "")
	require.NoError(t, h.GetSession(c))
	var state SessionStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.False(t, state.Valid)
	assert.Nil(t, state.User)

	// Login establishes one.
	body := `{"username":"admin2","password":"` + defaultPassword + `"}`
	c, _ = jsonRequest(e, http.MethodPost, "/api/v1/auth/login", body)
	require.NoError(t, h.Login(c))

	c, rec = jsonRequest(e, http.MethodGet, "/api/v1/auth/session", "")
	require.NoError(t, h.GetSession(c))
	state = SessionStateResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.True(t, state.Valid)
	require.NotNil(t, state.User)
	assert.Equal(t, "admin2", state.User.Username)

	// Logout tears it down.
	c, rec = jsonRequest(e, http.MethodPost, "/api/v1/auth/logout", "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = jsonRequest(e, http.MethodGet, "/api/v1/auth/session", "")
	require.NoError(t, h.GetSession(c))
	state = SessionStateResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.False(t, state.Valid)
}

func TestAuthHandler_ListUsersHidesDigests(t *testing.T) {
	e := newTestEcho()
	h, _ := newAuthHandler()

	c, rec := jsonRequest(e, http.MethodGet, "/api/v1/admin/users", "")
	require.NoError(t, h.ListUsers(c))

	var views []UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 3)
	assert.Equal(t, "admin1", views[0].Username)
	assert.True(t, views[0].HasPassword)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestAuthHandler_ToggleLastActiveUserConflicts(t *testing.T) {
	e := newTestEcho()
	h, _ := newAuthHandler()

	for _, id := range []string{"2", "3"} {
		c, _ := jsonRequest(e, http.MethodPost, "/api/v1/admin/users/"+id+"/toggle", "")
		c.SetParamNames("id")
		c.SetParamValues(id)
		require.NoError(t, h.ToggleUser(c))
	}

	c, _ := jsonRequest(e, http.MethodPost, "/api/v1/admin/users/1/toggle", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	err := h.ToggleUser(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, err.(*echo.HTTPError).Code)
}

func TestAuthHandler_EditUserPasswordValidation(t *testing.T) {
	e := newTestEcho()
	h, _ := newAuthHandler()

	cases := []struct {
		body string
		code int
	}{
		{`{"password":"nova-senha","confirm":"nova-senha"}`, http.StatusOK},
		{`{"password":"nova-senha","confirm":"outra-senha"}`, http.StatusBadRequest},
		{`{"password":"abc123","confirm":"abc123"}`, http.StatusOK},
	}
	for _, tc := range cases {
		c, rec := jsonRequest(e, http.MethodPut, "/api/v1/admin/users/1/password", tc.body)
		c.SetParamNames("id")
		c.SetParamValues("1")
		err := h.EditUserPassword(c)
		if tc.code == http.StatusOK {
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
		} else {
			require.Error(t, err)
			assert.Equal(t, tc.code, err.(*echo.HTTPError).Code)
		}
	}
}
