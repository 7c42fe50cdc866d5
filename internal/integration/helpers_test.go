package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/centerpass/centerpass/internal/app"
	"github.com/centerpass/centerpass/internal/auth"
	"github.com/centerpass/centerpass/internal/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

type envelopeResponse struct {
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func newTestServer(t *testing.T, pool *pgxpool.Pool) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Env:         "dev",
		HTTPAddr:    ":0",
		BaseURL:     "http://localhost",
		DBDSN:       "unused",
		JWTSecret:   "test-secret",
		LogLevel:    "error",
		SessionDays: 7,
	}

	srv := httptest.NewServer(app.NewRouter(pool, cfg))
	t.Cleanup(srv.Close)
	return srv
}

func newCSRFClient(t *testing.T, serverURL string) (*http.Client, string) {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	baseURL, err := url.Parse(serverURL)
	require.NoError(t, err)

	csrfToken, err := auth.GenerateCSRFToken()
	require.NoError(t, err)
	jar.SetCookies(baseURL, []*http.Cookie{{
		Name:  auth.CSRFCookieName,
		Value: csrfToken,
		Path:  "/",
	}})

	return client, csrfToken
}

func signupAndLogin(t *testing.T, client *http.Client, baseURL, csrfToken, email, password string) uuid.UUID {
	t.Helper()

	signupResp := doJSONExpectSuccess(t, client, http.MethodPost, baseURL+"/api/v1/auth/signup", csrfToken, http.StatusCreated, map[string]any{
		"email":    email,
		"password": password,
	})

	var signup struct {
		UserID uuid.UUID `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(signupResp.Data, &signup))
	require.NotEqual(t, uuid.Nil, signup.UserID)

	doJSONExpectSuccess(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", csrfToken, http.StatusOK, map[string]any{
		"email":    email,
		"password": password,
	})

	return signup.UserID
}

func promoteToSuperadmin(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) {
	t.Helper()

	tag, err := pool.Exec(context.Background(), `UPDATE users SET role = 'superadmin' WHERE id = $1`, userID)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
}

func seedState(t *testing.T, pool *pgxpool.Pool, id, name string) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `INSERT INTO states (id, name) VALUES ($1, $2)`, id, name)
	require.NoError(t, err)
}

func seedCenter(t *testing.T, pool *pgxpool.Pool, id, name, town, stateID string) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO centers (id, slug, name, town, state_id)
		VALUES ($1, $1, $2, $3, $4)
	`, id, name, town, stateID)
	require.NoError(t, err)
}

func createInvitation(t *testing.T, client *http.Client, baseURL, csrfToken string, centerIDs []string, expiresInDays int) string {
	t.Helper()

	payload := map[string]any{"center_ids": centerIDs}
	if expiresInDays != 0 {
		payload["expires_in_days"] = expiresInDays
	}

	resp := doJSONExpectSuccess(t, client, http.MethodPost, baseURL+"/api/v1/invitations", csrfToken, http.StatusCreated, payload)

	var parsed struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &parsed))
	require.NotEmpty(t, parsed.Token)

	return parsed.Token
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}

func doJSONExpectSuccess(t *testing.T, client *http.Client, method, urlStr, csrfToken string, wantStatus int, payload any) envelopeResponse {
	t.Helper()

	respBody := doJSONExpectStatus(t, client, method, urlStr, csrfToken, wantStatus, payload)

	var env envelopeResponse
	require.NoError(t, json.Unmarshal(respBody, &env))
	require.NotEmpty(t, env.RequestID)

	return env
}

func doJSONExpectError(t *testing.T, client *http.Client, method, urlStr, csrfToken string, wantStatus int, payload any) errorEnvelope {
	t.Helper()

	respBody := doJSONExpectStatus(t, client, method, urlStr, csrfToken, wantStatus, payload)

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(respBody, &env))
	require.NotEmpty(t, env.Error.RequestID)

	return env
}

func doJSONExpectStatus(t *testing.T, client *http.Client, method, urlStr, csrfToken string, wantStatus int, payload any) []byte {
	t.Helper()

	var bodyReader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, urlStr, bodyReader)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPut || method == http.MethodDelete {
		req.Header.Set("X-CSRF-Token", csrfToken)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "body: %s", string(body))

	return body
}
