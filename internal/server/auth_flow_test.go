package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceInfoIsOpen(t *testing.T) {
	env := newTestEnv(t)

	var info map[string]any
	res := env.request(http.MethodGet, "/", "", nil, &info)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "stringdesk-test", info["name"])

	var health map[string]any
	res = env.request(http.MethodGet, "/health", "", nil, &health)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", health["status"])
}

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)

	var registered map[string]any
	res := env.request(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":      "marta@example.com",
		"username":   "marta",
		"password":   "secretPassword1",
		"first_name": "Marta",
		"last_name":  "Bianchi",
	}, &registered)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	assert.Equal(t, "marta", registered["username"])
	assert.Equal(t, "staff", registered["role"])
	assert.NotContains(t, registered, "password_hash")

	var pair tokenPair
	res = env.request(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "marta",
		"password": "secretPassword1",
	}, &pair)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "bearer", pair.TokenType)

	var me map[string]any
	res = env.request(http.MethodGet, "/api/v1/auth/me", pair.AccessToken, nil, &me)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "marta@example.com", me["email"])
}

func TestRegisterConflicts(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{
		"email":      "enzo@example.com",
		"username":   "enzo",
		"password":   "secretPassword1",
		"first_name": "Enzo",
		"last_name":  "Verdi",
	}

	res := env.request(http.MethodPost, "/api/v1/auth/register", "", payload, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = env.request(http.MethodPost, "/api/v1/auth/register", "", payload, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// same username, different email: still the username conflict
	payload["email"] = "other@example.com"
	var body map[string]any
	res = env.request(http.MethodPost, "/api/v1/auth/register", "", payload, &body)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	// same email, new username: the email conflict
	payload["email"] = "enzo@example.com"
	payload["username"] = "enzo2"
	res = env.request(http.MethodPost, "/api/v1/auth/register", "", payload, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	res := env.request(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":      "not-an-email",
		"username":   "ab",
		"password":   "short",
		"first_name": "",
		"last_name":  "",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin("paola", "staff")

	res := env.request(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "paola",
		"password": "wrongPassword",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = env.request(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "ghost",
		"password": "whatever",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRefreshFlow(t *testing.T) {
	env := newTestEnv(t)
	pair := env.registerAndLogin("luca", "staff")

	var fresh tokenPair
	res := env.request(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": pair.RefreshToken,
	}, &fresh)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, fresh.AccessToken)

	// an access token is not accepted by the refresh endpoint
	res = env.request(http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{
		"refresh_token": pair.AccessToken,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestGateRejections(t *testing.T) {
	env := newTestEnv(t)
	pair := env.registerAndLogin("sara", "staff")

	t.Run("missing header", func(t *testing.T) {
		res := env.request(http.MethodGet, "/api/v1/auth/me", "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Basic "+pair.AccessToken)
		res, err := env.srv.App().Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		res := env.request(http.MethodGet, "/api/v1/auth/me", "garbage", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("refresh token at an access gate", func(t *testing.T) {
		res := env.request(http.MethodGet, "/api/v1/auth/me", pair.RefreshToken, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("resource routes are gated too", func(t *testing.T) {
		res := env.request(http.MethodGet, "/api/v1/clients", "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t)
	staff := env.registerAndLogin("staffer", "staff")
	admin := env.registerAndLogin("boss", "admin")

	clientID := env.createClient(staff.AccessToken, "Gated")
	racketID := env.createRacket(staff.AccessToken, clientID)

	var record map[string]any
	res := env.request(http.MethodPost, "/api/v1/maintenance", staff.AccessToken, map[string]any{
		"client_racket_id": racketID,
		"service_type":     "stringing",
		"service_cost":     25.0,
	}, &record)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	id := record["id"].(string)

	// staff may not hard delete: 403, not 401
	res = env.request(http.MethodDelete, "/api/v1/maintenance/"+id, staff.AccessToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = env.request(http.MethodDelete, "/api/v1/maintenance/"+id, admin.AccessToken, nil, nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = env.request(http.MethodGet, "/api/v1/maintenance/"+id, admin.AccessToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
