package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/bigkaa/kinoteka/catalog-module/internal/domain/rbac"
)

const (
	testKeyID  = "test-key-cm"
	testIssuer = "https://keycloak.test/realms/kinoteka"
)

// generateTestKey генерирует RSA ключ для тестов.
func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return key
}

// buildJWKSetJSON строит JWKS JSON из RSA публичного ключа.
func buildJWKSetJSON(pub *rsa.PublicKey, kid string) json.RawMessage {
	nBytes := pub.N.Bytes()
	nB64 := base64.RawURLEncoding.EncodeToString(nBytes)
	eBytes := big.NewInt(int64(pub.E)).Bytes()
	eB64 := base64.RawURLEncoding.EncodeToString(eBytes)

	jwks := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"alg": "RS256",
				"n":   nB64,
				"e":   eB64,
			},
		},
	}

	data, _ := json.Marshal(jwks)
	return data
}

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestJWTAuth создаёт JWTAuth для тестов.
func newTestJWTAuth(t *testing.T, key *rsa.PrivateKey) *JWTAuth {
	t.Helper()
	jwksJSON := buildJWKSetJSON(&key.PublicKey, testKeyID)
	kf, err := keyfunc.NewJWKSetJSON(jwksJSON)
	if err != nil {
		t.Fatalf("не удалось создать keyfunc: %v", err)
	}

	return NewJWTAuthWithKeyfunc(
		kf,
		testIssuer,
		[]string{"catalog-admins"},
		[]string{"catalog-editors"},
		testLogger(),
	)
}

// generateUserToken генерирует JWT для Admin User.
func generateUserToken(t *testing.T, key *rsa.PrivateKey, sub, username, email string, roles, groups []string, expired bool) string {
	t.Helper()

	exp := time.Now().Add(time.Hour)
	if expired {
		exp = time.Now().Add(-time.Hour)
	}

	claims := jwt.MapClaims{
		"sub":                sub,
		"preferred_username": username,
		"email":              email,
		"iss":                testIssuer,
		"exp":                jwt.NewNumericDate(exp),
		"nbf":                jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		"iat":                jwt.NewNumericDate(time.Now()),
	}

	if len(roles) > 0 {
		claims["realm_access"] = map[string]any{
			"roles": roles,
		}
	}
	if len(groups) > 0 {
		claims["groups"] = groups
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	tokenStr, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return tokenStr
}

// serveWithToken прогоняет запрос с Bearer token через JWT middleware.
func serveWithToken(auth *JWTAuth, token string, next http.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/genres", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	auth.Middleware()(next).ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_ValidToken(t *testing.T) {
	key := generateTestKey(t)
	auth := newTestJWTAuth(t, key)

	var claims *AuthClaims
	tokenStr := generateUserToken(t, key, "user-123", "marie", "marie@kinoteka.test",
		nil, []string{"catalog-admins"}, false)
	rec := serveWithToken(auth, tokenStr, func(w http.ResponseWriter, r *http.Request) {
		claims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидается 200, тело: %s", rec.Code, rec.Body.String())
	}
	if claims == nil {
		t.Fatal("claims не найдены в контексте")
	}
	if claims.Subject != "user-123" {
		t.Errorf("Subject = %q, ожидается user-123", claims.Subject)
	}
	if claims.PreferredUsername != "marie" {
		t.Errorf("PreferredUsername = %q, ожидается marie", claims.PreferredUsername)
	}
	if claims.Email != "marie@kinoteka.test" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, ожидается admin", claims.Role)
	}
}

func TestJWTAuth_MissingToken(t *testing.T) {
	auth := newTestJWTAuth(t, generateTestKey(t))
	rec := serveWithToken(auth, "", func(http.ResponseWriter, *http.Request) {
		t.Error("handler не должен быть вызван")
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("статус = %d, ожидается 401", rec.Code)
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	key := generateTestKey(t)
	auth := newTestJWTAuth(t, key)
	tokenStr := generateUserToken(t, key, "user-123", "marie", "", nil, []string{"catalog-admins"}, true)

	rec := serveWithToken(auth, tokenStr, func(http.ResponseWriter, *http.Request) {
		t.Error("handler не должен быть вызван")
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("статус = %d, ожидается 401", rec.Code)
	}
}

func TestJWTAuth_ForeignKey(t *testing.T) {
	auth := newTestJWTAuth(t, generateTestKey(t))
	other := generateTestKey(t)
	tokenStr := generateUserToken(t, other, "user-123", "marie", "", nil, []string{"catalog-admins"}, false)

	rec := serveWithToken(auth, tokenStr, func(http.ResponseWriter, *http.Request) {
		t.Error("handler не должен быть вызван")
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("статус = %d, ожидается 401", rec.Code)
	}
}

func TestJWTAuth_InvalidFormat(t *testing.T) {
	auth := newTestJWTAuth(t, generateTestKey(t))
	handler := auth.Middleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler не должен быть вызван")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"no bearer prefix", "token123"},
		{"empty bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/genres", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("статус = %d, ожидается 401", rec.Code)
			}
		})
	}
}

func TestJWTAuth_RoleMapping(t *testing.T) {
	tests := []struct {
		name   string
		groups []string
		roles  []string
		want   string
	}{
		{"admin group", []string{"catalog-admins"}, nil, "admin"},
		{"editor group", []string{"catalog-editors"}, nil, "editor"},
		{"both groups", []string{"catalog-editors", "catalog-admins"}, nil, "admin"},
		{"realm role fallback", nil, []string{"offline_access", "editor"}, "editor"},
		{"group wins over realm role", []string{"catalog-editors"}, []string{"admin"}, "editor"},
		{"unknown group", []string{"other-group"}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := generateTestKey(t)
			auth := newTestJWTAuth(t, key)
			tokenStr := generateUserToken(t, key, "user-123", "user", "", tt.roles, tt.groups, false)

			var got string
			rec := serveWithToken(auth, tokenStr, func(w http.ResponseWriter, r *http.Request) {
				got = ClaimsFromContext(r.Context()).Role
				w.WriteHeader(http.StatusOK)
			})
			if rec.Code != http.StatusOK {
				t.Fatalf("статус = %d, ожидается 200", rec.Code)
			}
			if got != tt.want {
				t.Errorf("Role = %q, ожидается %q", got, tt.want)
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name   string
		claims *AuthClaims
		perm   rbac.Permission
		want   int
	}{
		{"no claims", nil, rbac.PermReadGenres, http.StatusUnauthorized},
		{"no role", &AuthClaims{Subject: "u"}, rbac.PermReadGenres, http.StatusForbidden},
		{"editor reads genres", &AuthClaims{Subject: "u", Role: rbac.RoleEditor}, rbac.PermReadGenres, http.StatusOK},
		{"editor searches", &AuthClaims{Subject: "u", Role: rbac.RoleEditor}, rbac.PermSearchMetadata, http.StatusOK},
		{"editor cannot submit", &AuthClaims{Subject: "u", Role: rbac.RoleEditor}, rbac.PermSubmitFilm, http.StatusForbidden},
		{"admin submits", &AuthClaims{Subject: "u", Role: rbac.RoleAdmin}, rbac.PermSubmitFilm, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequirePermission(tt.perm)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/films", nil)
			if tt.claims != nil {
				req = req.WithContext(context.WithValue(req.Context(), ContextKeyClaims, tt.claims))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("статус = %d, ожидается %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSubjectFromContext(t *testing.T) {
	if got := SubjectFromContext(context.Background()); got != "" {
		t.Errorf("SubjectFromContext() = %q, ожидается пустая строка", got)
	}
	ctx := context.WithValue(context.Background(), ContextKeyClaims, &AuthClaims{Subject: "admin-1"})
	if got := SubjectFromContext(ctx); got != "admin-1" {
		t.Errorf("SubjectFromContext() = %q, ожидается admin-1", got)
	}
}

func TestKeycloakReadinessChecker(t *testing.T) {
	key := generateTestKey(t)
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"ok", http.StatusOK, string(buildJWKSetJSON(&key.PublicKey, testKeyID)), "ok"},
		{"no keys", http.StatusOK, `{"keys":[]}`, "degraded"},
		{"bad json", http.StatusOK, `not-json`, "degraded"},
		{"server error", http.StatusInternalServerError, ``, "fail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			checker, err := NewKeycloakReadinessChecker(srv.URL, "", time.Second)
			if err != nil {
				t.Fatalf("NewKeycloakReadinessChecker() вернул ошибку: %v", err)
			}
			status, msg := checker.CheckReady()
			if status != tt.want {
				t.Errorf("CheckReady() = %q (%s), ожидается %q", status, msg, tt.want)
			}
		})
	}
}
