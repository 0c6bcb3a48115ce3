package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"commerce-platform/internal/auth"
	"commerce-platform/internal/catalog"
	"commerce-platform/internal/config"
	"commerce-platform/internal/rbac"
	"commerce-platform/internal/users"

	"github.com/gin-gonic/gin"
)

type testEnv struct {
	router   *gin.Engine
	userRepo *users.MemoryRepo
}

// newTestEnv wires the API against in-memory repositories with the same
// guard chains the server uses. Rate limiting is left out; it has its own
// tests.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewManager(config.AuthConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		Issuer:          "commerce-api",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	userRepo := users.NewMemoryRepo()
	var hasher auth.Hasher
	h := Handlers{
		Auth:    auth.NewService(userRepo, tokens),
		Users:   users.NewService(userRepo, hasher),
		Catalog: catalog.NewService(catalog.NewMemoryRepo()),
	}

	requireAccess := auth.RequireAccessToken(tokens, userRepo)
	requireRefresh := auth.RequireRefreshToken(tokens, userRepo, hasher)
	adminOnly := rbac.RequireAnyRole(users.RoleAdmin)

	r := gin.New()
	authGroup := r.Group("/v1/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", requireRefresh, h.Refresh)
		authGroup.POST("/logout", requireAccess, h.Logout)
	}
	userGroup := r.Group("/v1/users", requireAccess)
	{
		userGroup.GET("/me", h.Me)
		userGroup.GET("", adminOnly, h.ListUsers)
	}
	r.POST("/v1/categories", requireAccess, adminOnly, h.CreateCategory)

	return testEnv{router: r, userRepo: userRepo}
}

func (e testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func (e testEnv) register(t *testing.T, email string) tokenResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/v1/auth/register", "", gin.H{"email": email, "password": "abc12345"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d, body %s", w.Code, w.Body)
	}
	var res tokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res
}

func TestRegisterResponseOmitsSecrets(t *testing.T) {
	env := newTestEnv(t)
	res := env.register(t, "john@example.com")

	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("expected a token pair in the response")
	}
	if res.User.Role != "USER" {
		t.Fatalf("expected default role USER, got %q", res.User.Role)
	}
}

func TestRegisterDuplicateReturnsConflict(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "john@example.com")

	w := env.do(t, http.MethodPost, "/v1/auth/register", "", gin.H{"email": "john@example.com", "password": "abc12345"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d, body %s", w.Code, w.Body)
	}
}

func TestLoginFailureBodiesMatch(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "john@example.com")

	unknown := env.do(t, http.MethodPost, "/v1/auth/login", "", gin.H{"email": "nobody@example.com", "password": "abc12345"})
	wrong := env.do(t, http.MethodPost, "/v1/auth/login", "", gin.H{"email": "john@example.com", "password": "wrong-pass1"})

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("failure responses must not reveal whether the email exists: %s vs %s", unknown.Body, wrong.Body)
	}
}

func TestRefreshRotationInvalidatesOldToken(t *testing.T) {
	env := newTestEnv(t)
	res := env.register(t, "john@example.com")

	first := env.do(t, http.MethodPost, "/v1/auth/refresh", res.RefreshToken, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d, body %s", first.Code, first.Body)
	}
	var rotated tokenResponse
	if err := json.Unmarshal(first.Body.Bytes(), &rotated); err != nil {
		t.Fatalf("decode: %v", err)
	}

	replay := env.do(t, http.MethodPost, "/v1/auth/refresh", res.RefreshToken, nil)
	if replay.Code != http.StatusUnauthorized {
		t.Fatalf("replayed refresh token: expected 401, got %d", replay.Code)
	}

	again := env.do(t, http.MethodPost, "/v1/auth/refresh", rotated.RefreshToken, nil)
	if again.Code != http.StatusOK {
		t.Fatalf("current refresh token: expected 200, got %d, body %s", again.Code, again.Body)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t)
	res := env.register(t, "john@example.com")

	w := env.do(t, http.MethodPost, "/v1/auth/logout", res.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d, body %s", w.Code, w.Body)
	}

	// The refresh token survives logout cryptographically but no longer
	// matches any stored fingerprint.
	if w := env.do(t, http.MethodPost, "/v1/auth/refresh", res.RefreshToken, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: expected 401, got %d", w.Code)
	}

	// Access tokens keep working until expiry; logout only ends the refresh
	// session.
	if w := env.do(t, http.MethodGet, "/v1/users/me", res.AccessToken, nil); w.Code != http.StatusOK {
		t.Fatalf("access after logout: expected 200, got %d", w.Code)
	}
}

func TestMeReflectsLiveRecord(t *testing.T) {
	env := newTestEnv(t)
	res := env.register(t, "john@example.com")

	w := env.do(t, http.MethodGet, "/v1/users/me", res.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d, body %s", w.Code, w.Body)
	}
	if strings.Contains(w.Body.String(), "hash") {
		t.Fatalf("profile response must not leak hashes: %s", w.Body)
	}

	if err := env.userRepo.Delete(context.Background(), res.User.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if w := env.do(t, http.MethodGet, "/v1/users/me", res.AccessToken, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user: expected 401, got %d", w.Code)
	}
}

func TestAdminRoutesEnforceRole(t *testing.T) {
	env := newTestEnv(t)
	res := env.register(t, "john@example.com")

	if w := env.do(t, http.MethodGet, "/v1/users", res.AccessToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("USER on admin route: expected 403, got %d", w.Code)
	}
	body := gin.H{"name": "Phones"}
	if w := env.do(t, http.MethodPost, "/v1/categories", res.AccessToken, body); w.Code != http.StatusForbidden {
		t.Fatalf("USER creating category: expected 403, got %d", w.Code)
	}

	// Role changes take effect on the next request thanks to the fresh lookup
	// in the access guard.
	promote(t, env.userRepo, res.User.ID)

	if w := env.do(t, http.MethodGet, "/v1/users", res.AccessToken, nil); w.Code != http.StatusOK {
		t.Fatalf("ADMIN on admin route: expected 200, got %d, body %s", w.Code, w.Body)
	}
	if w := env.do(t, http.MethodPost, "/v1/categories", res.AccessToken, body); w.Code != http.StatusCreated {
		t.Fatalf("ADMIN creating category: expected 201, got %d, body %s", w.Code, w.Body)
	}
}

func promote(t *testing.T, repo *users.MemoryRepo, id string) {
	t.Helper()
	u, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	u.Role = users.RoleAdmin
	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("recreate: %v", err)
	}
}
