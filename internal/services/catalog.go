package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/recipe-catalog/internal/data/aggregates"
	"github.com/yungbote/recipe-catalog/internal/data/repos"
	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
	"github.com/yungbote/recipe-catalog/internal/platform/logger"
)

const DefaultChangePageSize = 100

// CatalogService is the surface the UI collaborator talks to. Reads observe
// the last commit; writes go through the catalog aggregate.
type CatalogService interface {
	ListIngredients(ctx context.Context) ([]*catalog.Ingredient, error)
	FindIngredients(ctx context.Context, pred func(*catalog.Ingredient) bool) ([]*catalog.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*catalog.Ingredient, error)
	IngredientExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateIngredient(ctx context.Context, in domainagg.IngredientFields) (*catalog.Ingredient, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, in domainagg.IngredientFields) (*catalog.Ingredient, error)
	DeleteIngredient(ctx context.Context, id uuid.UUID) (domainagg.DeleteResult, error)

	ListCategories(ctx context.Context) ([]*catalog.Category, error)
	FindCategories(ctx context.Context, pred func(*catalog.Category) bool) ([]*catalog.Category, error)
	SearchCategories(ctx context.Context, query string) ([]*catalog.Category, error)
	CategoryGroups(ctx context.Context, query string) ([]CategoryGroup, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateCategory(ctx context.Context, in domainagg.CategoryFields) (*catalog.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in domainagg.CategoryFields) (*catalog.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (domainagg.DeleteResult, error)

	ListRecipes(ctx context.Context) ([]*catalog.Recipe, error)
	FindRecipes(ctx context.Context, pred func(*catalog.Recipe) bool) ([]*catalog.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*catalog.Recipe, error)
	RecipeExists(ctx context.Context, id uuid.UUID) (bool, error)
	RecipeLines(ctx context.Context, recipeID uuid.UUID) ([]*catalog.RecipeIngredient, error)
	ListRecipeIngredients(ctx context.Context) ([]*catalog.RecipeIngredient, error)
	FindRecipeIngredients(ctx context.Context, pred func(*catalog.RecipeIngredient) bool) ([]*catalog.RecipeIngredient, error)
	RecipesUsingIngredient(ctx context.Context, ingredientID uuid.UUID) ([]*catalog.Recipe, error)
	RecipeView(ctx context.Context, id uuid.UUID) (*RecipeView, error)
	IngredientName(ctx context.Context, line *catalog.RecipeIngredient) (string, error)
	CategoryName(ctx context.Context, recipe *catalog.Recipe) (string, bool, error)
	EditRecipeDraft(ctx context.Context, id uuid.UUID) (*RecipeDraft, error)
	SaveRecipeDraft(ctx context.Context, draft *RecipeDraft) (domainagg.SaveRecipeResult, error)
	SaveRecipe(ctx context.Context, in domainagg.SaveRecipeInput) (domainagg.SaveRecipeResult, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) (domainagg.DeleteResult, error)

	ShoppingList(ctx context.Context) ([]*catalog.Ingredient, error)
	MarkAvailable(ctx context.Context, ingredientID uuid.UUID) (domainagg.SetAvailableResult, error)
	MarkAllAvailable(ctx context.Context) (domainagg.SetAvailableResult, error)

	ChangesSince(ctx context.Context, afterSeq uint64, limit int) ([]*catalog.ChangeEvent, error)
	LatestChangeSeq(ctx context.Context) (uint64, error)
}

// CategoryGroup is one section of the category view.
type CategoryGroup struct {
	Category *catalog.Category `json:"category"`
	Recipes  []*catalog.Recipe `json:"recipes"`
}

// RecipeView is a recipe with its names resolved for display.
type RecipeView struct {
	Recipe       *catalog.Recipe `json:"recipe"`
	CategoryName string          `json:"category_name,omitempty"`
	Lines        []LineView      `json:"lines"`
}

type LineView struct {
	Line           *catalog.RecipeIngredient `json:"line"`
	IngredientName string                    `json:"ingredient_name"`
}

type catalogService struct {
	db       *gorm.DB
	log      *logger.Logger
	repos    repos.Set
	agg      domainagg.CatalogAggregate
	pageSize int
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, set repos.Set, agg domainagg.CatalogAggregate, changePageSize int) CatalogService {
	if changePageSize <= 0 {
		changePageSize = DefaultChangePageSize
	}
	return &catalogService{
		db:       db,
		log:      log.With("service", "CatalogService"),
		repos:    set,
		agg:      agg,
		pageSize: changePageSize,
	}
}

func (s *catalogService) dbc(ctx context.Context) dbctx.Context {
	return dbctx.Context{Ctx: ctx, Tx: s.db}
}

func (s *catalogService) readErr(op string, err error) error {
	if err == nil {
		return nil
	}
	s.log.Warn("Catalog read failed", "op", op, "error", err)
	return aggregates.MapError(op, err)
}

// ---- ingredients ----

func (s *catalogService) ListIngredients(ctx context.Context) ([]*catalog.Ingredient, error) {
	rows, err := s.repos.Ingredients.ListAll(s.dbc(ctx))
	return rows, s.readErr("Catalog.ListIngredients", err)
}

func (s *catalogService) FindIngredients(ctx context.Context, pred func(*catalog.Ingredient) bool) ([]*catalog.Ingredient, error) {
	rows, err := s.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Find(rows, pred), nil
}

func (s *catalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*catalog.Ingredient, error) {
	const op = "Catalog.GetIngredient"
	row, err := s.repos.Ingredients.GetByID(s.dbc(ctx), id)
	if err != nil {
		return nil, s.readErr(op, err)
	}
	if row == nil {
		return nil, notFound(op, catalog.EntityIngredient, id)
	}
	return row, nil
}

func (s *catalogService) IngredientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.repos.Ingredients.Exists(s.dbc(ctx), id)
	return ok, s.readErr("Catalog.IngredientExists", err)
}

func (s *catalogService) CreateIngredient(ctx context.Context, in domainagg.IngredientFields) (*catalog.Ingredient, error) {
	return s.agg.CreateIngredient(ctx, in)
}

func (s *catalogService) UpdateIngredient(ctx context.Context, id uuid.UUID, in domainagg.IngredientFields) (*catalog.Ingredient, error) {
	return s.agg.UpdateIngredient(ctx, id, in)
}

func (s *catalogService) DeleteIngredient(ctx context.Context, id uuid.UUID) (domainagg.DeleteResult, error) {
	return s.agg.DeleteIngredient(ctx, id)
}

// ---- categories ----

func (s *catalogService) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	rows, err := s.repos.Categories.ListAll(s.dbc(ctx))
	return rows, s.readErr("Catalog.ListCategories", err)
}

func (s *catalogService) FindCategories(ctx context.Context, pred func(*catalog.Category) bool) ([]*catalog.Category, error) {
	rows, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Find(rows, pred), nil
}

// SearchCategories matches query as a case-insensitive substring of the
// name. A blank query returns every category.
func (s *catalogService) SearchCategories(ctx context.Context, query string) ([]*catalog.Category, error) {
	return s.FindCategories(ctx, func(c *catalog.Category) bool {
		return catalog.ContainsFold(c.Name, query)
	})
}

func (s *catalogService) CategoryGroups(ctx context.Context, query string) ([]CategoryGroup, error) {
	const op = "Catalog.CategoryGroups"
	cats, err := s.SearchCategories(ctx, query)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cats, func(i, j int) bool {
		ki, kj := catalog.NormalizeName(cats[i].Name), catalog.NormalizeName(cats[j].Name)
		if ki != kj {
			return ki < kj
		}
		return cats[i].Name < cats[j].Name
	})
	out := make([]CategoryGroup, 0, len(cats))
	for _, c := range cats {
		rs, err := s.repos.Recipes.ListByCategory(s.dbc(ctx), c.ID)
		if err != nil {
			return nil, s.readErr(op, err)
		}
		out = append(out, CategoryGroup{Category: c, Recipes: rs})
	}
	return out, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	const op = "Catalog.GetCategory"
	row, err := s.repos.Categories.GetByID(s.dbc(ctx), id)
	if err != nil {
		return nil, s.readErr(op, err)
	}
	if row == nil {
		return nil, notFound(op, catalog.EntityCategory, id)
	}
	return row, nil
}

func (s *catalogService) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.repos.Categories.Exists(s.dbc(ctx), id)
	return ok, s.readErr("Catalog.CategoryExists", err)
}

func (s *catalogService) CreateCategory(ctx context.Context, in domainagg.CategoryFields) (*catalog.Category, error) {
	return s.agg.CreateCategory(ctx, in)
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, in domainagg.CategoryFields) (*catalog.Category, error) {
	return s.agg.UpdateCategory(ctx, id, in)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) (domainagg.DeleteResult, error) {
	return s.agg.DeleteCategory(ctx, id)
}

// ---- recipes ----

func (s *catalogService) ListRecipes(ctx context.Context) ([]*catalog.Recipe, error) {
	rows, err := s.repos.Recipes.ListAll(s.dbc(ctx))
	return rows, s.readErr("Catalog.ListRecipes", err)
}

func (s *catalogService) FindRecipes(ctx context.Context, pred func(*catalog.Recipe) bool) ([]*catalog.Recipe, error) {
	rows, err := s.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Find(rows, pred), nil
}

func (s *catalogService) GetRecipe(ctx context.Context, id uuid.UUID) (*catalog.Recipe, error) {
	const op = "Catalog.GetRecipe"
	row, err := s.repos.Recipes.GetByID(s.dbc(ctx), id)
	if err != nil {
		return nil, s.readErr(op, err)
	}
	if row == nil {
		return nil, notFound(op, catalog.EntityRecipe, id)
	}
	return row, nil
}

func (s *catalogService) RecipeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.repos.Recipes.Exists(s.dbc(ctx), id)
	return ok, s.readErr("Catalog.RecipeExists", err)
}

// RecipeLines returns the line items of a recipe in display order.
func (s *catalogService) RecipeLines(ctx context.Context, recipeID uuid.UUID) ([]*catalog.RecipeIngredient, error) {
	rows, err := s.repos.RecipeIngredients.ListByRecipe(s.dbc(ctx), recipeID)
	return rows, s.readErr("Catalog.RecipeLines", err)
}

func (s *catalogService) ListRecipeIngredients(ctx context.Context) ([]*catalog.RecipeIngredient, error) {
	rows, err := s.repos.RecipeIngredients.ListAll(s.dbc(ctx))
	return rows, s.readErr("Catalog.ListRecipeIngredients", err)
}

func (s *catalogService) FindRecipeIngredients(ctx context.Context, pred func(*catalog.RecipeIngredient) bool) ([]*catalog.RecipeIngredient, error) {
	rows, err := s.ListRecipeIngredients(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Find(rows, pred), nil
}

// RecipesUsingIngredient lists each recipe with at least one line for the
// ingredient, in recipe order.
func (s *catalogService) RecipesUsingIngredient(ctx context.Context, ingredientID uuid.UUID) ([]*catalog.Recipe, error) {
	const op = "Catalog.RecipesUsingIngredient"
	ok, err := s.IngredientExists(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound(op, catalog.EntityIngredient, ingredientID)
	}
	lines, err := s.repos.RecipeIngredients.ListByIngredient(s.dbc(ctx), ingredientID)
	if err != nil {
		return nil, s.readErr(op, err)
	}
	uses := make(map[uuid.UUID]bool, len(lines))
	for _, l := range lines {
		if l.RecipeID != nil {
			uses[*l.RecipeID] = true
		}
	}
	if len(uses) == 0 {
		return []*catalog.Recipe{}, nil
	}
	return s.FindRecipes(ctx, func(r *catalog.Recipe) bool { return uses[r.ID] })
}

func (s *catalogService) RecipeView(ctx context.Context, id uuid.UUID) (*RecipeView, error) {
	const op = "Catalog.RecipeView"
	rec, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.RecipeLines(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if !l.IsOrphaned() {
			ids = append(ids, *l.IngredientID)
		}
	}
	names := map[uuid.UUID]string{}
	if len(ids) > 0 {
		ings, err := s.repos.Ingredients.GetByIDs(s.dbc(ctx), ids)
		if err != nil {
			return nil, s.readErr(op, err)
		}
		for _, ing := range ings {
			names[ing.ID] = ing.Name
		}
	}

	view := &RecipeView{Recipe: rec, Lines: make([]LineView, 0, len(lines))}
	if name, ok, err := s.CategoryName(ctx, rec); err != nil {
		return nil, err
	} else if ok {
		view.CategoryName = name
	}
	for _, l := range lines {
		name := catalog.UnknownIngredientName
		if !l.IsOrphaned() {
			if n, ok := names[*l.IngredientID]; ok {
				name = n
			}
		}
		view.Lines = append(view.Lines, LineView{Line: l, IngredientName: name})
	}
	return view, nil
}

// IngredientName resolves a line's ingredient, degrading to "unknown" when
// the reference is gone.
func (s *catalogService) IngredientName(ctx context.Context, line *catalog.RecipeIngredient) (string, error) {
	if line == nil || line.IsOrphaned() {
		return catalog.UnknownIngredientName, nil
	}
	ing, err := s.repos.Ingredients.GetByID(s.dbc(ctx), *line.IngredientID)
	if err != nil {
		return "", s.readErr("Catalog.IngredientName", err)
	}
	if ing == nil {
		return catalog.UnknownIngredientName, nil
	}
	return ing.Name, nil
}

func (s *catalogService) CategoryName(ctx context.Context, recipe *catalog.Recipe) (string, bool, error) {
	if recipe == nil || recipe.CategoryID == nil || *recipe.CategoryID == uuid.Nil {
		return "", false, nil
	}
	cat, err := s.repos.Categories.GetByID(s.dbc(ctx), *recipe.CategoryID)
	if err != nil {
		return "", false, s.readErr("Catalog.CategoryName", err)
	}
	if cat == nil {
		return "", false, nil
	}
	return cat.Name, true, nil
}

func (s *catalogService) EditRecipeDraft(ctx context.Context, id uuid.UUID) (*RecipeDraft, error) {
	rec, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.RecipeLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return editRecipeDraft(rec, lines), nil
}

// SaveRecipeDraft commits the draft. The draft is only updated when the
// commit succeeds, so a failed save can be retried by the user as-is.
func (s *catalogService) SaveRecipeDraft(ctx context.Context, draft *RecipeDraft) (domainagg.SaveRecipeResult, error) {
	if draft == nil {
		return domainagg.SaveRecipeResult{}, domainagg.NewError(domainagg.CodeValidation, "Catalog.SaveRecipe", "draft required", nil)
	}
	res, err := s.agg.SaveRecipe(ctx, draft.Input())
	if err != nil {
		return res, err
	}
	draft.applySaved(res)
	return res, nil
}

func (s *catalogService) SaveRecipe(ctx context.Context, in domainagg.SaveRecipeInput) (domainagg.SaveRecipeResult, error) {
	return s.agg.SaveRecipe(ctx, in)
}

func (s *catalogService) DeleteRecipe(ctx context.Context, id uuid.UUID) (domainagg.DeleteResult, error) {
	return s.agg.DeleteRecipe(ctx, id)
}

// ---- shopping list ----

// ShoppingList is every ingredient currently marked unavailable. An empty
// list is the normal state.
func (s *catalogService) ShoppingList(ctx context.Context) ([]*catalog.Ingredient, error) {
	rows, err := s.repos.Ingredients.ListUnavailable(s.dbc(ctx))
	return rows, s.readErr("Catalog.ShoppingList", err)
}

func (s *catalogService) MarkAvailable(ctx context.Context, ingredientID uuid.UUID) (domainagg.SetAvailableResult, error) {
	return s.agg.SetIngredientsAvailable(ctx, domainagg.SetAvailableInput{IngredientIDs: []uuid.UUID{ingredientID}})
}

func (s *catalogService) MarkAllAvailable(ctx context.Context) (domainagg.SetAvailableResult, error) {
	return s.agg.SetIngredientsAvailable(ctx, domainagg.SetAvailableInput{All: true})
}

// ---- change feed ----

func (s *catalogService) ChangesSince(ctx context.Context, afterSeq uint64, limit int) ([]*catalog.ChangeEvent, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	rows, err := s.repos.Changes.ListSince(s.dbc(ctx), afterSeq, limit)
	return rows, s.readErr("Catalog.ChangesSince", err)
}

// LatestChangeSeq is the sequence number of the newest change, or 0 when the
// log is empty.
func (s *catalogService) LatestChangeSeq(ctx context.Context) (uint64, error) {
	seq, err := s.repos.Changes.LatestSeq(s.dbc(ctx))
	return seq, s.readErr("Catalog.LatestChangeSeq", err)
}

func notFound(op, entity string, id uuid.UUID) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, entity+" not found: "+id.String(), nil)
}
