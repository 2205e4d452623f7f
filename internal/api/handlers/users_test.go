package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/recipebox/internal/api/dto"
	"github.com/hugh/recipebox/internal/api/handlers"
	"github.com/hugh/recipebox/internal/api/middleware"
	"github.com/hugh/recipebox/internal/auth"
	"github.com/hugh/recipebox/internal/database/models"
	"github.com/hugh/recipebox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	authService := auth.NewService(tc.DB, tc.JWTService)
	handler := handlers.NewUserHandler(authService)

	r := chi.NewRouter()
	r.Post("/api/v1/users", handler.Create)
	r.Post("/api/v1/users/token", handler.Token)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Get("/api/v1/users/me", handler.Me)
		r.Patch("/api/v1/users/me", handler.UpdateMe)
	})

	return r, tc
}

func TestUserHandler_Create(t *testing.T) {
	router, tc := setupUserTestRouter(t)
	defer tc.Cleanup()

	t.Run("creates user", func(t *testing.T) {
		body := map[string]string{
			"email":    "new@example.com",
			"password": "pw12345",
			"name":     "New User",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)

		var resp dto.UserResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "new@example.com", resp.Email)
		assert.Equal(t, "New User", resp.Name)

		// Password must not leak into the response in any form
		assert.NotContains(t, rr.Body.String(), "pw12345")
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("rejects short password", func(t *testing.T) {
		body := map[string]string{
			"email":    "short@example.com",
			"password": "pw",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)

		var count int64
		tc.DB.Model(&models.User{}).Where("email = ?", "short@example.com").Count(&count)
		assert.Zero(t, count)
	})

	t.Run("rejects missing email", func(t *testing.T) {
		body := map[string]string{"password": "pw12345"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Contains(t, resp.Details, "email")
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		body := map[string]string{
			"email":    "taken@example.com",
			"password": "pw12345",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)

		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users", body)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusConflict)
	})
}

func TestUserHandler_Token(t *testing.T) {
	router, tc := setupUserTestRouter(t)
	defer tc.Cleanup()

	create := map[string]string{
		"email":    "a@x.com",
		"password": "pw12345",
	}
	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users", create)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	t.Run("issues token for valid credentials", func(t *testing.T) {
		body := map[string]string{"email": "a@x.com", "password": "pw12345"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/token", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp dto.TokenResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("same error for wrong password and unknown user", func(t *testing.T) {
		wrongPass := map[string]string{"email": "a@x.com", "password": "wrong12"}
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/token", wrongPass)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		firstBody := rr.Body.String()

		unknown := map[string]string{"email": "ghost@x.com", "password": "wrong12"}
		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/token", unknown)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		assert.Equal(t, firstBody, rr.Body.String())
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		body := map[string]string{"email": "a@x.com"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/users/token", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestUserHandler_Me(t *testing.T) {
	router, tc := setupUserTestRouter(t)
	defer tc.Cleanup()

	t.Run("requires authentication", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/users/me", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("returns own profile without password", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/users/me", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp dto.UserResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, tc.User.Email, resp.Email)
		assert.False(t, strings.Contains(rr.Body.String(), "password"))
	})

	t.Run("patches name and password", func(t *testing.T) {
		body := map[string]string{"name": "Renamed", "password": "newpass1"}

		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/users/me", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var stored models.User
		require.NoError(t, tc.DB.First(&stored, tc.User.ID).Error)
		assert.Equal(t, "Renamed", stored.Name)
		assert.True(t, auth.CheckPassword("newpass1", stored.PasswordHash))
	})

	t.Run("rejects short replacement password", func(t *testing.T) {
		body := map[string]string{"password": "pw"}

		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/users/me", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}
