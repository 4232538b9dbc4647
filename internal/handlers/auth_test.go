package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	token := env.registerAndLogin("alice")
	assert.NotEmpty(t, token)

	// повторная регистрация того же имени
	w := env.do(http.MethodPost, "/users/register", "", gin.H{"username": "alice", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	// короткий пароль режется валидацией
	w := env.do(http.MethodPost, "/users/register", "", gin.H{"username": "alice", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/users/register", "", gin.H{"username": "ab", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin("alice")

	w := env.do(http.MethodPost, "/users/login", "", gin.H{"username": "alice", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/users/login", "", gin.H{"username": "nobody", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/users", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin("alice")
	env.registerAndLogin("bob")

	w := env.do(http.MethodGet, "/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Users, 2)
}
