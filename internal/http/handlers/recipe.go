package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/http/response"
	"github.com/yungbote/recipe-catalog/internal/services"
)

type RecipeHandler struct {
	catalog services.CatalogService
}

func NewRecipeHandler(catalog services.CatalogService) *RecipeHandler {
	return &RecipeHandler{catalog: catalog}
}

type recipeLineRequest struct {
	ID           *uuid.UUID `json:"id"`
	IngredientID *uuid.UUID `json:"ingredient_id"`
	Quantity     string     `json:"quantity"`
}

// recipeRequest is the whole recipe form. image_data is base64; null or
// omitted clears the stored image.
type recipeRequest struct {
	Name         string              `json:"name"`
	Summary      string              `json:"summary"`
	CategoryID   *uuid.UUID          `json:"category_id"`
	Servings     *int                `json:"servings"`
	TimeMinutes  *int                `json:"time_minutes"`
	Instructions string              `json:"instructions"`
	ImageData    []byte              `json:"image_data"`
	Lines        []recipeLineRequest `json:"lines"`
}

func (r recipeRequest) input(recipeID *uuid.UUID) domainagg.SaveRecipeInput {
	f := domainagg.DefaultRecipeFields()
	f.Name = r.Name
	f.Summary = r.Summary
	f.CategoryID = r.CategoryID
	f.Instructions = r.Instructions
	f.ImageData = r.ImageData
	if r.Servings != nil {
		f.Servings = *r.Servings
	}
	if r.TimeMinutes != nil {
		f.TimeMinutes = *r.TimeMinutes
	}
	in := domainagg.SaveRecipeInput{RecipeID: recipeID, Fields: f}
	for _, l := range r.Lines {
		line := domainagg.RecipeLineInput{IngredientID: l.IngredientID, Quantity: l.Quantity}
		if l.ID != nil {
			line.ID = *l.ID
		}
		in.Lines = append(in.Lines, line)
	}
	return in
}

// GET /api/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	rows, err := h.catalog.ListRecipes(c.Request.Context())
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recipes": rows})
}

// GET /api/recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	view, err := h.catalog.RecipeView(c.Request.Context(), id)
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// POST /api/recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	var req recipeRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.catalog.SaveRecipe(c.Request.Context(), req.input(nil))
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"recipe": res.Recipe, "lines": res.Lines})
}

// PUT /api/recipes/:id
// Lines with an id are kept and updated; lines without one are added; saved
// lines missing from the list are deleted.
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req recipeRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.catalog.SaveRecipe(c.Request.Context(), req.input(&id))
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recipe": res.Recipe, "lines": res.Lines, "removed_lines": res.RemovedLines})
}

// DELETE /api/recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.catalog.DeleteRecipe(c.Request.Context(), id)
	if err != nil {
		response.RespondCatalogError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": res.ID, "deleted_lines": res.Affected})
}
