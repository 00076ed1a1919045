package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmint/marketplace-core/internal/domain"
	"github.com/skillmint/marketplace-core/internal/utils/jwt"
)

func TestAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		require.True(t, ok)
		role, ok := GetRole(r.Context())
		require.True(t, ok)

		assert.Equal(t, int64(7), userID)
		assert.Equal(t, domain.RoleAffiliate, role)
		w.WriteHeader(http.StatusOK)
	})
	protected := AuthMiddleware(manager)(next)

	t.Run("Valid token", func(t *testing.T) {
		token, err := manager.Generate(7, string(domain.RoleAffiliate))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Not a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		other := jwt.NewManager("other-secret", time.Hour)
		token, err := other.Generate(7, string(domain.RoleAffiliate))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired := jwt.NewManager("test-secret", -time.Minute)
		token, err := expired.Generate(7, string(domain.RoleAffiliate))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	adminOnly := RequireRole(domain.RoleAdmin)(next)

	t.Run("Allowed role", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/api/admin", nil), 2, domain.RoleAdmin)
		rec := httptest.NewRecorder()
		adminOnly.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Disallowed role", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/api/admin", nil), 7, domain.RoleStudent)
		rec := httptest.NewRecorder()
		adminOnly.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("No role in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
		rec := httptest.NewRecorder()
		adminOnly.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, ok := r.Context().Value(RequestIDKey).(string)
		require.True(t, ok)
		assert.NotEmpty(t, requestID)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	RequestIDMiddleware()(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
