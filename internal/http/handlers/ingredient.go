package handlers

import (
	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/http/response"
	"github.com/yungbote/recipe-catalog/internal/services"
)

type IngredientHandler struct {
	catalog services.CatalogService
}

func NewIngredientHandler(catalog services.CatalogService) *IngredientHandler {
	return &IngredientHandler{catalog: catalog}
}

// GET /api/ingredients
func (h *IngredientHandler) List(c *gin.Context) {
	rows, err := h.catalog.ListIngredients(c.Request.Context())
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ingredients": rows})
}

// GET /api/ingredients/:id
func (h *IngredientHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ing, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ingredient": ing})
}

// GET /api/ingredients/:id/recipes
func (h *IngredientHandler) Recipes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rows, err := h.catalog.RecipesUsingIngredient(c.Request.Context(), id)
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recipes": rows})
}

// POST /api/ingredients
// body: { "name": "...", "is_available": true }
func (h *IngredientHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		IsAvailable *bool  `json:"is_available"`
	}
	if !bindJSON(c, &req) {
		return
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	ing, err := h.catalog.CreateIngredient(c.Request.Context(), domainagg.IngredientFields{Name: req.Name, IsAvailable: available})
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"ingredient": ing})
}

// PATCH /api/ingredients/:id
// body: { "name": "...", "is_available": false }; omitted fields keep their value.
func (h *IngredientHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Name        *string `json:"name"`
		IsAvailable *bool   `json:"is_available"`
	}
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	cur, err := h.catalog.GetIngredient(ctx, id)
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	in := domainagg.IngredientFields{Name: cur.Name, IsAvailable: cur.IsAvailable}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.IsAvailable != nil {
		in.IsAvailable = *req.IsAvailable
	}
	ing, err := h.catalog.UpdateIngredient(ctx, id, in)
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ingredient": ing})
}

// DELETE /api/ingredients/:id
func (h *IngredientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.catalog.DeleteIngredient(c.Request.Context(), id)
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": res.ID, "unlinked_lines": res.Affected})
}
