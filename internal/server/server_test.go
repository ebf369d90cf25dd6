package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/stretchr/testify/require"

	"github.com/courtside/stringdesk/internal/auth"
	"github.com/courtside/stringdesk/internal/config"
	"github.com/courtside/stringdesk/internal/repository"
	"github.com/courtside/stringdesk/internal/server"
	"github.com/courtside/stringdesk/internal/store"
)

type testEnv struct {
	t      *testing.T
	srv    *server.Server
	repo   *repository.Manager
	auther *auth.Authenticator
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.App{
			Name:        "stringdesk-test",
			Version:     "0.0.0-test",
			Environment: "test",
			PhoneRegion: "IT",
		},
		HTTP: config.HTTP{
			Addr:                      ":0",
			ReadTimeoutExpression:     "10s",
			WriteTimeoutExpression:    "10s",
			IdleTimeoutExpression:     "10s",
			ShutdownTimeoutExpression: "1s",
		},
		JWT: config.JWT{
			Secret:               "integration-test-secret",
			Algorithm:            "HS256",
			Issuer:               "stringdesk-test",
			AccessTTLExpression:  "1h",
			RefreshTTLExpression: "24h",
		},
		Auth: config.Auth{
			BcryptCost: 4,
		},
		Pagination: config.Pagination{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Inventory: config.Inventory{
			LowStockThreshold: 5,
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))

	db, err := store.Open(dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.Migrate(ctx, db))
	require.NoError(t, store.SeedCategories(ctx, db))

	repo := repository.NewManager(db)
	require.NoError(t, repo.Validate())

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithName("test"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	)

	hasher := auth.NewHasher(cfg.Auth.BcryptCost)
	tokens, err := auth.NewTokenService(
		[]byte(cfg.JWT.Secret),
		cfg.JWT.Algorithm,
		cfg.JWT.Issuer,
		cfg.JWT.GetAccessTTL(),
		cfg.JWT.GetRefreshTTL(),
		nil,
	)
	require.NoError(t, err)

	auther := auth.NewAuthenticator(repo.Users(), repo, hasher, tokens, nil)
	srv := server.New(cfg, lgr.GetLogger("http"), repo, auther)

	return &testEnv{t: t, srv: srv, repo: repo, auther: auther}
}

// request drives the app without a listener and decodes the JSON
// response into out when non-nil.
func (e *testEnv) request(method, path, token string, body any, out any) *http.Response {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := e.srv.App().Test(req, -1)
	require.NoError(e.t, err)

	if out != nil {
		defer res.Body.Close()
		require.NoError(e.t, json.NewDecoder(res.Body).Decode(out))
	}

	return res
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// registerAndLogin provisions an account through the API and returns
// its token pair.
func (e *testEnv) registerAndLogin(username, role string) tokenPair {
	e.t.Helper()

	res := e.request(http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":      username + "@example.com",
		"username":   username,
		"password":   "secretPassword1",
		"first_name": "Test",
		"last_name":  "User",
		"role":       role,
	}, nil)
	require.Equal(e.t, http.StatusCreated, res.StatusCode)

	var pair tokenPair
	res = e.request(http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": username,
		"password": "secretPassword1",
	}, &pair)
	require.Equal(e.t, http.StatusOK, res.StatusCode)
	require.NotEmpty(e.t, pair.AccessToken)

	return pair
}

// createClient provisions a client and returns its id.
func (e *testEnv) createClient(token, firstName string) string {
	e.t.Helper()

	var created map[string]any
	res := e.request(http.MethodPost, "/api/v1/clients", token, map[string]any{
		"first_name":   firstName,
		"last_name":    "Rossi",
		"phone_number": "+393491234567",
	}, &created)
	require.Equal(e.t, http.StatusCreated, res.StatusCode)

	return created["id"].(string)
}

// createRacket provisions a racket for the client and returns its id.
func (e *testEnv) createRacket(token, clientID string) string {
	e.t.Helper()

	var created map[string]any
	res := e.request(http.MethodPost, "/api/v1/rackets", token, map[string]any{
		"client_id": clientID,
		"brand":     "Wilson",
		"model":     "Blade 98",
		"grip_size": "L3",
	}, &created)
	require.Equal(e.t, http.StatusCreated, res.StatusCode)

	return created["id"].(string)
}

// firstCategoryID returns one of the seeded category ids.
func (e *testEnv) firstCategoryID(token string) string {
	e.t.Helper()

	var page struct {
		Items []map[string]any `json:"items"`
	}
	res := e.request(http.MethodGet, "/api/v1/categories", token, nil, &page)
	require.Equal(e.t, http.StatusOK, res.StatusCode)
	require.NotEmpty(e.t, page.Items)

	return page.Items[0]["id"].(string)
}
