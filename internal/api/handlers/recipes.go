package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/recipebox/internal/api/dto"
	"github.com/hugh/recipebox/internal/api/middleware"
	"github.com/hugh/recipebox/internal/api/validation"
	"github.com/hugh/recipebox/internal/database/models"
	"github.com/hugh/recipebox/internal/storage"
	"gorm.io/gorm"
)

// maxImageBytes caps recipe image uploads.
const maxImageBytes = 10 << 20

type RecipeHandler struct {
	db     *gorm.DB
	images storage.ImageStore
	logger *slog.Logger
}

func NewRecipeHandler(db *gorm.DB, images storage.ImageStore, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{db: db, images: images, logger: logger}
}

// CreateRecipeRequest is also the body for PUT, which carries full-replace
// semantics: omitted tag/ingredient lists empty the associations.
type CreateRecipeRequest struct {
	Title       string   `json:"title"`
	TimeMinutes *int     `json:"time_minutes"`
	Price       *float64 `json:"price"`
	Link        string   `json:"link,omitempty"`
	Tags        []uint   `json:"tags,omitempty"`
	Ingredients []uint   `json:"ingredients,omitempty"`
}

func (r CreateRecipeRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.TimeMinutes == nil {
		errors["time_minutes"] = "Time in minutes is required"
	} else if *r.TimeMinutes < 0 {
		errors["time_minutes"] = "Time in minutes must not be negative"
	}
	if r.Price == nil {
		errors["price"] = "Price is required"
	} else if *r.Price < 0 {
		errors["price"] = "Price must not be negative"
	}

	return errors
}

// UpdateRecipeRequest carries a partial update; only non-nil fields are
// touched, and association lists are replaced only when supplied.
type UpdateRecipeRequest struct {
	Title       *string  `json:"title,omitempty"`
	TimeMinutes *int     `json:"time_minutes,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Link        *string  `json:"link,omitempty"`
	Tags        *[]uint  `json:"tags,omitempty"`
	Ingredients *[]uint  `json:"ingredients,omitempty"`
}

func (r UpdateRecipeRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title != nil && *r.Title == "" {
		errors["title"] = "Title must not be empty"
	}
	if r.TimeMinutes != nil && *r.TimeMinutes < 0 {
		errors["time_minutes"] = "Time in minutes must not be negative"
	}
	if r.Price != nil && *r.Price < 0 {
		errors["price"] = "Price must not be negative"
	}

	return errors
}

// RecipeResponse represents a recipe in list responses, with association ids.
type RecipeResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       float64 `json:"price"`
	Link        string  `json:"link,omitempty"`
	Image       string  `json:"image,omitempty"`
	Tags        []uint  `json:"tags"`
	Ingredients []uint  `json:"ingredients"`
}

// RecipeDetailResponse nests the full tag and ingredient objects.
type RecipeDetailResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       float64             `json:"price"`
	Link        string              `json:"link,omitempty"`
	Image       string              `json:"image,omitempty"`
	Tags        []AttributeResponse `json:"tags"`
	Ingredients []AttributeResponse `json:"ingredients"`
}

// RecipeImageResponse is returned by the image upload endpoint.
type RecipeImageResponse struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

func recipeToResponse(recipe *models.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Image:       recipe.ImagePath,
		Tags:        recipe.TagIDs(),
		Ingredients: recipe.IngredientIDs(),
	}
}

func recipeToDetailResponse(recipe *models.Recipe) RecipeDetailResponse {
	tags := make([]AttributeResponse, len(recipe.Tags))
	for i, t := range recipe.Tags {
		tags[i] = AttributeResponse{ID: t.ID, Name: t.Name}
	}
	ingredients := make([]AttributeResponse, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		ingredients[i] = AttributeResponse{ID: ing.ID, Name: ing.Name}
	}

	return RecipeDetailResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Image:       recipe.ImagePath,
		Tags:        tags,
		Ingredients: ingredients,
	}
}

// List handles GET /api/v1/recipes. Optional tags / ingredients parameters
// are comma-separated id lists with set-membership semantics; both compose
// with AND. Results are newest-first whether or not a filter applies.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	tagIDs, err := validation.ParseIDList(r.URL.Query().Get("tags"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"tags": "Must be a comma-separated list of ids"},
		})
		return
	}
	ingredientIDs, err := validation.ParseIDList(r.URL.Query().Get("ingredients"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"ingredients": "Must be a comma-separated list of ids"},
		})
		return
	}

	query := h.db.WithContext(r.Context()).
		Model(&models.Recipe{}).
		Where("recipes.user_id = ?", userID)

	if len(tagIDs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", tagIDs)
	}
	if len(ingredientIDs) > 0 {
		query = query.
			Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", ingredientIDs)
	}
	if len(tagIDs) > 0 || len(ingredientIDs) > 0 {
		// A recipe matching several filter ids would otherwise appear once
		// per matching join row.
		query = query.Distinct("recipes.*")
	}

	var recipes []models.Recipe
	if err := query.
		Preload("Tags").
		Preload("Ingredients").
		Order("recipes.id DESC").
		Find(&recipes).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list recipes"})
		return
	}

	response := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		response[i] = recipeToResponse(&recipes[i])
	}

	writeJSON(w, http.StatusOK, response)
}

// Create handles POST /api/v1/recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	tags, ingredients, errs := h.resolveAttributes(r, userID, req.Tags, req.Ingredients)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	recipe := models.Recipe{
		UserID:      userID,
		Title:       req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
		Link:        req.Link,
		Tags:        tags,
		Ingredients: ingredients,
	}

	if err := h.db.WithContext(r.Context()).
		Omit("Tags.*", "Ingredients.*").
		Create(&recipe).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create recipe"})
		return
	}

	writeJSON(w, http.StatusCreated, recipeToResponse(&recipe))
}

// Get handles GET /api/v1/recipes/{id}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	recipe, ok := h.loadOwnedRecipe(w, r, userID, true)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, recipeToDetailResponse(recipe))
}

// Update handles PUT /api/v1/recipes/{id} with full replace semantics:
// every scalar is overwritten and both association sets are replaced by the
// request's lists, emptied when omitted.
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	recipe, ok := h.loadOwnedRecipe(w, r, userID, false)
	if !ok {
		return
	}

	var req CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	tags, ingredients, errs := h.resolveAttributes(r, userID, req.Tags, req.Ingredients)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	recipe.Title = req.Title
	recipe.TimeMinutes = *req.TimeMinutes
	recipe.Price = *req.Price
	recipe.Link = req.Link

	if err := h.saveWithAssociations(r, recipe, &tags, &ingredients); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update recipe"})
		return
	}

	recipe.Tags = tags
	recipe.Ingredients = ingredients
	writeJSON(w, http.StatusOK, recipeToResponse(recipe))
}

// PartialUpdate handles PATCH /api/v1/recipes/{id}: only fields present in
// the body are touched; association lists are replaced only when supplied.
func (h *RecipeHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	recipe, ok := h.loadOwnedRecipe(w, r, userID, true)
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	var reqTags, reqIngredients []uint
	if req.Tags != nil {
		reqTags = *req.Tags
	}
	if req.Ingredients != nil {
		reqIngredients = *req.Ingredients
	}
	tags, ingredients, errs := h.resolveAttributes(r, userID, reqTags, reqIngredients)
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.TimeMinutes != nil {
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		recipe.Price = *req.Price
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}

	var tagsPatch *[]models.Tag
	if req.Tags != nil {
		tagsPatch = &tags
	}
	var ingredientsPatch *[]models.Ingredient
	if req.Ingredients != nil {
		ingredientsPatch = &ingredients
	}

	if err := h.saveWithAssociations(r, recipe, tagsPatch, ingredientsPatch); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update recipe"})
		return
	}

	if req.Tags != nil {
		recipe.Tags = tags
	}
	if req.Ingredients != nil {
		recipe.Ingredients = ingredients
	}
	writeJSON(w, http.StatusOK, recipeToResponse(recipe))
}

// UploadImage handles POST /api/v1/recipes/{id}/image. The payload must
// decode as a raster image; the recipe row is only touched after the store
// write succeeds.
func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	recipe, ok := h.loadOwnedRecipe(w, r, userID, false)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid multipart body"})
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"image": "Image file is required"},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read upload"})
		return
	}

	ext, contentType, err := storage.SniffImage(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"image": "Upload a valid image"},
		})
		return
	}

	path := storage.RecipeImagePath(ext)
	if err := h.images.Save(r.Context(), path, data, contentType); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to store image"})
		return
	}

	previous := recipe.ImagePath
	if err := h.db.WithContext(r.Context()).
		Model(recipe).
		Update("image_path", path).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update recipe"})
		return
	}

	// Fire-and-forget: a failed delete leaves an orphan, never an error.
	if previous != "" {
		if err := h.images.Delete(r.Context(), previous); err != nil {
			h.logger.Warn("failed to delete replaced recipe image", "path", previous, "error", err)
		}
	}

	recipe.ImagePath = path
	writeJSON(w, http.StatusOK, RecipeImageResponse{ID: recipe.ID, Image: recipe.ImagePath})
}

// loadOwnedRecipe fetches the recipe from the URL id, scoped to the owner.
// Rows owned by other users surface as 404. Writes the error response and
// returns ok=false on failure.
func (h *RecipeHandler) loadOwnedRecipe(w http.ResponseWriter, r *http.Request, userID uint, preload bool) (*models.Recipe, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid recipe ID"})
		return nil, false
	}

	query := h.db.WithContext(r.Context()).Where("user_id = ?", userID)
	if preload {
		query = query.Preload("Tags").Preload("Ingredients")
	}

	var recipe models.Recipe
	if err := query.First(&recipe, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Recipe not found"})
			return nil, false
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get recipe"})
		return nil, false
	}

	return &recipe, true
}

// resolveAttributes loads the referenced tags and ingredients, requiring
// every id to exist and belong to the requesting user. Attributes owned by
// someone else are reported the same as missing ones.
func (h *RecipeHandler) resolveAttributes(r *http.Request, userID uint, tagIDs, ingredientIDs []uint) ([]models.Tag, []models.Ingredient, map[string]string) {
	errs := make(map[string]string)

	var tags []models.Tag
	if len(tagIDs) > 0 {
		if err := h.db.WithContext(r.Context()).
			Where("id IN ? AND user_id = ?", tagIDs, userID).
			Find(&tags).Error; err != nil || len(tags) != len(dedupe(tagIDs)) {
			errs["tags"] = "One or more tags not found"
		}
	}

	var ingredients []models.Ingredient
	if len(ingredientIDs) > 0 {
		if err := h.db.WithContext(r.Context()).
			Where("id IN ? AND user_id = ?", ingredientIDs, userID).
			Find(&ingredients).Error; err != nil || len(ingredients) != len(dedupe(ingredientIDs)) {
			errs["ingredients"] = "One or more ingredients not found"
		}
	}

	return tags, ingredients, errs
}

// saveWithAssociations persists the recipe's scalar fields and replaces
// the tag/ingredient sets when a non-nil slice is given.
func (h *RecipeHandler) saveWithAssociations(r *http.Request, recipe *models.Recipe, tags *[]models.Tag, ingredients *[]models.Ingredient) error {
	db := h.db.WithContext(r.Context())

	if err := db.Omit("Tags", "Ingredients").Save(recipe).Error; err != nil {
		return err
	}
	if tags != nil {
		if err := db.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
	}
	if ingredients != nil {
		if err := db.Model(recipe).Association("Ingredients").Replace(ingredients); err != nil {
			return err
		}
	}
	return nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
