package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journalapp/journal-server/internal/auth"
	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/service"
	"github.com/journalapp/journal-server/internal/store/sqlite"
)

// testEnvelope decodes the response envelope around T.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// testServer wraps the API server with the pieces tests poke at directly.
type testServer struct {
	*Server
	api      humatest.TestAPI
	st       *sqlite.Store
	services *Services
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithOptions(t, Options{AuthRateLimit: 1000, AuthRateBurst: 1000})
}

func setupTestServerWithOptions(t *testing.T, opts Options) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	tags := service.NewTagService(st, logger)
	journals := service.NewJournalService(st, tags, logger)
	sessions := service.NewSessionService(st, tokenService, logger)
	services := &Services{
		Auth:          service.NewAuthService(st, tokenService, sessions, journals, logger),
		Users:         service.NewUserService(st, logger),
		Journals:      journals,
		JournalTables: service.NewJournalTableService(st, logger),
		Activities:    service.NewActivityService(st, logger),
		Tags:          tags,
		SubEntries:    service.NewSubEntryService(st, logger),
	}

	if opts.AllowedOrigins == nil {
		opts.AllowedOrigins = []string{"*"}
	}
	s := NewServer(st, services, opts, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server:   s,
		api:      humatest.Wrap(t, s.API()),
		st:       st,
		services: services,
	}
}

// signup creates an account through the API and returns its access token.
func (ts *testServer) signup(t *testing.T, email, firstName string) (token string, user UserResponse) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":      email,
		"password":   "correct-horse",
		"password2":  "correct-horse",
		"first_name": firstName,
		"last_name":  "Lovelace",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "signup failed: %s", resp.Body.String())

	env := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	return env.Data.AccessToken, env.Data.User
}

// defaultJournal returns the journal created at signup.
func (ts *testServer) defaultJournal(t *testing.T, token string) *domain.JournalDetail {
	t.Helper()

	resp := ts.api.Get("/api/v1/journals", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[[]*domain.JournalDetail](t, resp.Body.Bytes())
	require.Len(t, env.Data, 1)
	return env.Data[0]
}

// createActivity creates an activity through the API.
func (ts *testServer) createActivity(t *testing.T, token string, tableID int64, name string) *domain.Activity {
	t.Helper()

	resp := ts.api.Post("/api/v1/activities", bearer(token), map[string]any{
		"name":          name,
		"journal_table": tableID,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	return decodeEnvelope[*domain.Activity](t, resp.Body.Bytes()).Data
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// === Tests ===

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["database"].Status)
}

func TestSignup_ReturnsTokensAndProvisionsJournal(t *testing.T) {
	ts := setupTestServer(t)

	token, user := ts.signup(t, "ada@example.com", "Ada")
	assert.NotEmpty(t, token)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Regexp(t, `^Ada[A-Za-z]{4}$`, user.Username)

	journal := ts.defaultJournal(t, token)
	require.NotNil(t, journal.Name)
	assert.Equal(t, domain.DefaultJournalName, *journal.Name)
	require.Len(t, journal.Tables, 3)
	require.NotNil(t, journal.CurrentTable)
	assert.Equal(t, journal.Tables[0].ID, *journal.CurrentTable)
}

func TestSignup_PasswordMismatch(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":      "ada@example.com",
		"password":   "correct-horse",
		"password2":  "wrong-horse!",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	env := decodeEnvelope[any](t, resp.Body.Bytes())
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.NotEmpty(t, env.Error)
}

func TestSignup_MissingFieldIsValidationError(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email": "ada@example.com",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope[any](t, resp.Body.Bytes()).Code)
}

func TestLoginRefreshLogout(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "ada@example.com", "Ada")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "ADA@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	login := decodeEnvelope[AuthResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, "Bearer", login.TokenType)

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	refreshed := decodeEnvelope[AuthResponse](t, resp.Body.Bytes()).Data
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old refresh token was rotated away.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{"refresh_token": login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/auth/logout", bearer(refreshed.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// The session is gone, so its access token no longer authenticates.
	resp = ts.api.Get("/api/v1/users/me", bearer(refreshed.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "ada@example.com", "Ada")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "ada@example.com",
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope[any](t, resp.Body.Bytes()).Code)
}

func TestCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	token, user := ts.signup(t, "ada@example.com", "Ada")

	resp := ts.api.Get("/api/v1/users/me", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	me := decodeEnvelope[UserResponse](t, resp.Body.Bytes()).Data
	assert.Equal(t, user.ID, me.ID)
	assert.False(t, me.IsSuperuser)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ts := setupTestServer(t)

	for _, p := range []string{"/api/v1/users/me", "/api/v1/journals", "/api/v1/tags", "/api/v1/activities", "/api/v1/action-items"} {
		t.Run(p, func(t *testing.T) {
			resp := ts.api.Get(p)
			require.Equal(t, http.StatusUnauthorized, resp.Code)

			env := decodeEnvelope[any](t, resp.Body.Bytes())
			assert.False(t, env.Success)
			assert.Equal(t, "UNAUTHORIZED", env.Code)
		})
	}

	resp := ts.api.Get("/api/v1/journals", bearer("not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthRateLimit(t *testing.T) {
	ts := setupTestServerWithOptions(t, Options{AuthRateLimit: 1, AuthRateBurst: 1})

	body := map[string]any{"email": "nobody@example.com", "password": "whatever1"}

	resp := ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 203.0.113.9", body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 203.0.113.9", body)
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decodeEnvelope[any](t, resp.Body.Bytes()).Code)

	// Other clients and non-auth routes are unaffected.
	resp = ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 198.51.100.1", body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	resp = ts.api.Get("/health", "X-Forwarded-For: 203.0.113.9")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/nothing-here")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope[any](t, resp.Body.Bytes()).Code)
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	ts := setupTestServer(t)
	require.NoError(t, ts.st.Close())

	out, err := ts.handleHealthCheck(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "unhealthy", out.Body.Status)
}
