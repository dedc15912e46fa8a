package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/BradenHooton/ideabox/internal/models"
	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
	"github.com/go-chi/chi/v5"
)

// CategoryServiceInterface defines category registry operations
type CategoryServiceInterface interface {
	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, actor models.Actor, name string) (*models.Category, error)
	RenameCategory(ctx context.Context, actor models.Actor, oldName, newName string) (int, error)
	DeleteCategory(ctx context.Context, actor models.Actor, name string) error
}

// CategoryHandler handles category listing and administration
type CategoryHandler struct {
	service CategoryServiceInterface
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// CategoriesResponse lists category names in display order
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// RenameCategoryResponse reports how many ideas moved with the rename
type RenameCategoryResponse struct {
	Name         string `json:"name"`
	IdeasUpdated int    `json:"ideas_updated"`
}

// ListCategories returns all categories
// @Summary List categories
// @Success 200 {object} CategoriesResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.ListCategories(r.Context())
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, CategoriesResponse{Categories: names})
}

// AddCategory registers a new category
// @Summary Add category
// @Security BearerAuth
// @Param request body CategoryRequest true "Category"
// @Success 201 {object} CategoryRequest
// @Failure 409 {object} pkghttp.ErrorResponse
// @Router /admin/categories [post]
func (h *CategoryHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.service.AddCategory(r.Context(), actor, req.Name)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, CategoryRequest{Name: c.Name})
}

// RenameCategory renames a category and every idea filed under it
// @Summary Rename category
// @Security BearerAuth
// @Param name path string true "Current name"
// @Param request body CategoryRequest true "New name"
// @Success 200 {object} RenameCategoryResponse
// @Router /admin/categories/{name} [put]
func (h *CategoryHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	oldName, ok := nameParam(w, r)
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	n, err := h.service.RenameCategory(r.Context(), actor, oldName, req.Name)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, RenameCategoryResponse{Name: req.Name, IdeasUpdated: n})
}

// DeleteCategory removes an unused category
// @Summary Delete category
// @Security BearerAuth
// @Param name path string true "Category name"
// @Success 204
// @Failure 409 {object} pkghttp.ErrorResponse
// @Router /admin/categories/{name} [delete]
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	name, ok := nameParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), actor, name); err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nameParam returns the unescaped {name} path parameter.
func nameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		pkghttp.WriteBadRequest(w, "invalid category name")
		return "", false
	}
	return name, true
}
