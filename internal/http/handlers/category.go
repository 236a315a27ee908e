package handlers

import (
	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/http/response"
	"github.com/yungbote/recipe-catalog/internal/services"
)

type CategoryHandler struct {
	catalog services.CatalogService
}

func NewCategoryHandler(catalog services.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// GET /api/categories?q=
func (h *CategoryHandler) List(c *gin.Context) {
	rows, err := h.catalog.SearchCategories(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": rows})
}

// GET /api/categories/groups?q=
func (h *CategoryHandler) Groups(c *gin.Context) {
	groups, err := h.catalog.CategoryGroups(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"groups": groups})
}

// GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := h.catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"category": cat})
}

type categoryRequest struct {
	Name string `json:"name"`
}

// POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.catalog.CreateCategory(c.Request.Context(), domainagg.CategoryFields{Name: req.Name})
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"category": cat})
}

// PATCH /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.catalog.UpdateCategory(c.Request.Context(), id, domainagg.CategoryFields{Name: req.Name})
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"category": cat})
}

// DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.catalog.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": res.ID, "uncategorized_recipes": res.Affected})
}
