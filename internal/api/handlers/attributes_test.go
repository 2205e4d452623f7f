package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/recipebox/internal/api/dto"
	"github.com/hugh/recipebox/internal/api/handlers"
	"github.com/hugh/recipebox/internal/api/middleware"
	"github.com/hugh/recipebox/internal/database/models"
	"github.com/hugh/recipebox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAttributeTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	tags := handlers.NewTagHandler(tc.DB)
	ingredients := handlers.NewIngredientHandler(tc.DB)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Get("/api/v1/tags", tags.List)
		r.Post("/api/v1/tags", tags.Create)
		r.Get("/api/v1/ingredients", ingredients.List)
		r.Post("/api/v1/ingredients", ingredients.Create)
	})

	return r, tc
}

func TestTagHandler_List(t *testing.T) {
	router, tc := setupAttributeTestRouter(t)
	defer tc.Cleanup()

	t.Run("requires authentication", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/tags", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("returns own tags ordered by name descending", func(t *testing.T) {
		testutil.CreateTestTag(t, tc.DB, tc.User.ID, "Vegan")
		testutil.CreateTestTag(t, tc.DB, tc.User.ID, "Dessert")

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/tags", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp []handlers.AttributeResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp, 2)
		assert.Equal(t, "Vegan", resp[0].Name)
		assert.Equal(t, "Dessert", resp[1].Name)
	})

	t.Run("excludes tags owned by other users", func(t *testing.T) {
		other, otherToken := tc.OtherUser(t)
		testutil.CreateTestTag(t, tc.DB, other.ID, "Fruity")

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/tags", nil, otherToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp []handlers.AttributeResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp, 1)
		assert.Equal(t, "Fruity", resp[0].Name)
	})
}

func TestTagHandler_ListAssignedOnly(t *testing.T) {
	router, tc := setupAttributeTestRouter(t)
	defer tc.Cleanup()

	assigned := testutil.CreateTestTag(t, tc.DB, tc.User.ID, "Breakfast")
	testutil.CreateTestTag(t, tc.DB, tc.User.ID, "Lunch")

	first := testutil.CreateTestRecipe(t, tc.DB, tc.User.ID, "Pancakes")
	second := testutil.CreateTestRecipe(t, tc.DB, tc.User.ID, "Porridge")
	testutil.AttachTags(t, tc.DB, first, assigned)
	testutil.AttachTags(t, tc.DB, second, assigned)

	t.Run("returns only assigned tags without duplicates", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/tags?assigned_only=1", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp []handlers.AttributeResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp, 1)
		assert.Equal(t, "Breakfast", resp[0].Name)
	})

	t.Run("false flag returns everything", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/tags?assigned_only=0", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp []handlers.AttributeResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Len(t, resp, 2)
	})

	t.Run("rejects non-boolean flag", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/tags?assigned_only=maybe", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestTagHandler_Create(t *testing.T) {
	router, tc := setupAttributeTestRouter(t)
	defer tc.Cleanup()

	t.Run("creates tag for current user", func(t *testing.T) {
		body := map[string]string{"name": "Comfort Food"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/tags", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)

		var resp handlers.AttributeResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Comfort Food", resp.Name)
		assert.NotZero(t, resp.ID)

		var stored models.Tag
		require.NoError(t, tc.DB.First(&stored, resp.ID).Error)
		assert.Equal(t, tc.User.ID, stored.UserID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		body := map[string]string{"name": ""}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/tags", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusBadRequest)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Contains(t, resp.Details, "name")
	})
}

func TestIngredientHandler_List(t *testing.T) {
	router, tc := setupAttributeTestRouter(t)
	defer tc.Cleanup()

	t.Run("returns own ingredients ordered by name descending", func(t *testing.T) {
		testutil.CreateTestIngredient(t, tc.DB, tc.User.ID, "Kale")
		testutil.CreateTestIngredient(t, tc.DB, tc.User.ID, "Salt")

		other, _ := tc.OtherUser(t)
		testutil.CreateTestIngredient(t, tc.DB, other.ID, "Vinegar")

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/ingredients", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp []handlers.AttributeResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp, 2)
		assert.Equal(t, "Salt", resp[0].Name)
		assert.Equal(t, "Kale", resp[1].Name)
	})

	t.Run("assigned_only restricts to ingredients in recipes", func(t *testing.T) {
		used := testutil.CreateTestIngredient(t, tc.DB, tc.User.ID, "Turmeric")
		recipe := testutil.CreateTestRecipe(t, tc.DB, tc.User.ID, "Curry")
		testutil.AttachIngredients(t, tc.DB, recipe, used)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/ingredients?assigned_only=true", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp []handlers.AttributeResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.Len(t, resp, 1)
		assert.Equal(t, "Turmeric", resp[0].Name)
	})
}

func TestIngredientHandler_Create(t *testing.T) {
	router, tc := setupAttributeTestRouter(t)
	defer tc.Cleanup()

	body := map[string]string{"name": "Cabbage"}

	req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/ingredients", body, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	testutil.AssertStatus(t, rr, http.StatusCreated)

	var stored models.Ingredient
	require.NoError(t, tc.DB.Where("name = ?", "Cabbage").First(&stored).Error)
	assert.Equal(t, tc.User.ID, stored.UserID)
}
