package aggregates

import (
	"context"

	"github.com/google/uuid"
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
)

var CatalogAggregateContract = Contract{
	Name:             "Catalog.CatalogAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns name uniqueness, recipe line-item cascade and category/ingredient nullify rules.",
}

// CatalogAggregate owns every write to the catalog. Each method is one user
// action and one commit.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeDuplicateName, CodeInvariantViolation, CodePersistence, CodeInternal.
type CatalogAggregate interface {
	Aggregate

	CreateIngredient(ctx context.Context, in IngredientFields) (*catalog.Ingredient, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, in IngredientFields) (*catalog.Ingredient, error)
	// DeleteIngredient removes the ingredient and clears ingredient_id on every line item referencing it.
	DeleteIngredient(ctx context.Context, id uuid.UUID) (DeleteResult, error)

	CreateCategory(ctx context.Context, in CategoryFields) (*catalog.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryFields) (*catalog.Category, error)
	// DeleteCategory removes the category and clears category_id on every recipe referencing it.
	DeleteCategory(ctx context.Context, id uuid.UUID) (DeleteResult, error)

	// SaveRecipe creates (RecipeID nil) or edits a recipe together with its line items.
	SaveRecipe(ctx context.Context, in SaveRecipeInput) (SaveRecipeResult, error)
	// DeleteRecipe removes the recipe and all line items owned by it.
	DeleteRecipe(ctx context.Context, id uuid.UUID) (DeleteResult, error)

	// SetIngredientsAvailable marks the given ingredients available; All marks every unavailable one.
	SetIngredientsAvailable(ctx context.Context, in SetAvailableInput) (SetAvailableResult, error)
}

type IngredientFields struct {
	Name        string `validate:"notblank"`
	IsAvailable bool
}

type CategoryFields struct {
	Name string `validate:"notblank"`
}

type RecipeFields struct {
	Name         string     `validate:"notblank"`
	Summary      string
	CategoryID   *uuid.UUID
	Servings     int        `validate:"min=1,max=100"`
	TimeMinutes  int        `validate:"min=5,max=300,multiple_of=5"`
	Instructions string     `validate:"notblank"`
	ImageData    []byte
}

// DefaultRecipeFields mirrors a blank add form.
func DefaultRecipeFields() RecipeFields {
	return RecipeFields{
		Servings:    catalog.DefaultServings,
		TimeMinutes: catalog.DefaultTimeMinutes,
	}
}

// RecipeLineInput is one draft line. ID is uuid.Nil for a line not yet
// linked to the recipe.
type RecipeLineInput struct {
	ID           uuid.UUID
	IngredientID *uuid.UUID
	Quantity     string
}

type SaveRecipeInput struct {
	RecipeID *uuid.UUID
	Fields   RecipeFields
	Lines    []RecipeLineInput
}

type SaveRecipeResult struct {
	Recipe       *catalog.Recipe
	Lines        []*catalog.RecipeIngredient
	Created      bool
	RemovedLines []uuid.UUID
}

type DeleteResult struct {
	ID uuid.UUID
	// Affected lists the dependents that were cascaded (recipe lines) or nullified.
	Affected []uuid.UUID
}

type SetAvailableInput struct {
	IngredientIDs []uuid.UUID
	All           bool
}

type SetAvailableResult struct {
	Updated []uuid.UUID
}
