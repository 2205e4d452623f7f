package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hugh/recipebox/internal/api/dto"
	"github.com/hugh/recipebox/internal/api/middleware"
	"github.com/hugh/recipebox/internal/database/models"
	"gorm.io/gorm"
)

// AttributeResponse represents a tag or ingredient in API responses.
type AttributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CreateAttributeRequest struct {
	Name string `json:"name"`
}

func (r CreateAttributeRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	return errors
}

// AttributeHandler implements the shared list/create behavior for
// user-owned recipe attributes. Tags and ingredients differ only in their
// tables, so the handler is written once and instantiated per entity.
type AttributeHandler[T any] struct {
	db        *gorm.DB
	table     string
	joinTable string
	joinFK    string
	newAttr   func(userID uint, name string) *T
	view      func(*T) AttributeResponse
}

func NewTagHandler(db *gorm.DB) *AttributeHandler[models.Tag] {
	return &AttributeHandler[models.Tag]{
		db:        db,
		table:     "tags",
		joinTable: "recipe_tags",
		joinFK:    "tag_id",
		newAttr: func(userID uint, name string) *models.Tag {
			return &models.Tag{Name: name, UserID: userID}
		},
		view: func(t *models.Tag) AttributeResponse {
			return AttributeResponse{ID: t.ID, Name: t.Name}
		},
	}
}

func NewIngredientHandler(db *gorm.DB) *AttributeHandler[models.Ingredient] {
	return &AttributeHandler[models.Ingredient]{
		db:        db,
		table:     "ingredients",
		joinTable: "recipe_ingredients",
		joinFK:    "ingredient_id",
		newAttr: func(userID uint, name string) *models.Ingredient {
			return &models.Ingredient{Name: name, UserID: userID}
		},
		view: func(i *models.Ingredient) AttributeResponse {
			return AttributeResponse{ID: i.ID, Name: i.Name}
		},
	}
}

// List handles GET for the attribute collection. With assigned_only the
// result is restricted to attributes referenced by at least one recipe,
// deduplicated even when referenced by several.
func (h *AttributeHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	assignedOnly := false
	if raw := r.URL.Query().Get("assigned_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Details: map[string]string{"assigned_only": "Must be a boolean flag"},
			})
			return
		}
		assignedOnly = parsed
	}

	query := h.db.WithContext(r.Context()).
		Model(new(T)).
		Where(h.table+".user_id = ?", userID)

	if assignedOnly {
		query = query.
			Joins(fmt.Sprintf("JOIN %s ON %s.%s = %s.id", h.joinTable, h.joinTable, h.joinFK, h.table)).
			Distinct()
	}

	var items []T
	if err := query.Order(h.table + ".name DESC").Find(&items).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list " + h.table})
		return
	}

	response := make([]AttributeResponse, len(items))
	for i := range items {
		response[i] = h.view(&items[i])
	}

	writeJSON(w, http.StatusOK, response)
}

// Create handles POST for the attribute collection.
func (h *AttributeHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	attr := h.newAttr(userID, req.Name)
	if err := h.db.WithContext(r.Context()).Create(attr).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create " + h.table})
		return
	}

	writeJSON(w, http.StatusCreated, h.view(attr))
}
