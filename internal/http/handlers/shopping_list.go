package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipe-catalog/internal/http/response"
	"github.com/yungbote/recipe-catalog/internal/services"
)

type ShoppingListHandler struct {
	catalog services.CatalogService
}

func NewShoppingListHandler(catalog services.CatalogService) *ShoppingListHandler {
	return &ShoppingListHandler{catalog: catalog}
}

// GET /api/shopping-list
func (h *ShoppingListHandler) List(c *gin.Context) {
	rows, err := h.catalog.ShoppingList(c.Request.Context())
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ingredients": rows})
}

// POST /api/shopping-list/:id/available
func (h *ShoppingListHandler) MarkAvailable(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.catalog.MarkAvailable(c.Request.Context(), id)
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": res.Updated})
}

// POST /api/shopping-list/available
func (h *ShoppingListHandler) MarkAllAvailable(c *gin.Context) {
	res, err := h.catalog.MarkAllAvailable(c.Request.Context())
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"updated": res.Updated})
}
