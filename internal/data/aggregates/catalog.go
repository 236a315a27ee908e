package aggregates

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/recipe-catalog/internal/data/repos"
	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
	"github.com/yungbote/recipe-catalog/internal/platform/dbctx"
)

type CatalogAggregateDeps struct {
	Base BaseDeps

	Ingredients repos.IngredientRepo
	Categories  repos.CategoryRepo
	Recipes     repos.RecipeRepo
	Lines       repos.RecipeIngredientRepo
	Changes     repos.ChangeEventRepo
}

type catalogAggregate struct {
	deps CatalogAggregateDeps
}

func NewCatalogAggregate(deps CatalogAggregateDeps) domainagg.CatalogAggregate {
	deps.Base = deps.Base.withDefaults()
	return &catalogAggregate{deps: deps}
}

func (a *catalogAggregate) Contract() domainagg.Contract {
	return domainagg.CatalogAggregateContract
}

// changeBatch collects the events of one write. They are appended to the
// change log inside the transaction.
type changeBatch struct {
	op     string
	events []*catalog.ChangeEvent
}

func (b *changeBatch) add(entity, kind string, ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	b.events = append(b.events, catalog.NewChangeEvent(b.op, entity, kind, ids...))
}

func (a *catalogAggregate) configured() bool {
	return a.deps.Ingredients != nil &&
		a.deps.Categories != nil &&
		a.deps.Recipes != nil &&
		a.deps.Lines != nil &&
		a.deps.Changes != nil
}

func (a *catalogAggregate) write(ctx context.Context, op string, fn func(dbc dbctx.Context, changes *changeBatch) error) error {
	if !a.configured() {
		return domainagg.NewError(domainagg.CodeInternal, op, "catalog aggregate repos not configured", nil)
	}
	batch := &changeBatch{op: op}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		batch.events = batch.events[:0]
		if err := fn(dbc, batch); err != nil {
			return err
		}
		for _, ev := range batch.events {
			if _, err := a.deps.Changes.Append(dbc, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(batch.events) > 0 {
		a.deps.Base.Notifier.Publish(ctx, batch.events)
	}
	return nil
}

// ---- ingredients ----

func (a *catalogAggregate) CreateIngredient(ctx context.Context, in domainagg.IngredientFields) (*catalog.Ingredient, error) {
	const op = "Catalog.CreateIngredient"
	in.Name = strings.TrimSpace(in.Name)
	if err := validateFields(in); err != nil {
		return nil, MapError(op, err)
	}
	var out *catalog.Ingredient
	err := a.write(ctx, op, func(dbc dbctx.Context, changes *changeBatch) error {
		existing, err := a.deps.Ingredients.ListAll(dbc)
		if err != nil {
			return err
		}
		if dup, ok := catalog.FindDuplicate(existing, in.Name, uuid.Nil); ok {
			return duplicateNameError(op, catalog.EntityIngredient, dup.Name)
		}
		rows, err := a.deps.Ingredients.Create(dbc, []*catalog.Ingredient{{
			Name:        in.Name,
			IsAvailable: in.IsAvailable,
		}})
		if err != nil {
			return err
		}
		out = rows[0]
		changes.add(catalog.EntityIngredient, catalog.ChangeCreated, out.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *catalogAggregate) UpdateIngredient(ctx context.Context, id uuid.UUID, in domainagg.IngredientFields) (*catalog.Ingredient, error) {
	const op = "Catalog.UpdateIngredient"
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing ingredient id", nil)
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateFields(in); err != nil {
		return nil, MapError(op, err)
	}
	var out *catalog.Ingredient
	err := a.write(ctx, op, func(dbc dbctx.Context, changes *changeBatch) error {
		cur, err := a.deps.Ingredients.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFoundError(op, catalog.EntityIngredient, id)
		}
		existing, err := a.deps.Ingredients.ListAll(dbc)
		if err != nil {
			return err
		}
		if dup, ok := catalog.FindDuplicate(existing, in.Name, id); ok {
			return duplicateNameError(op, catalog.EntityIngredient, dup.Name)
		}
		if err := a.deps.Ingredients.UpdateFields(dbc, id, map[string]interface{}{
			"name":         in.Name,
			"name_key":     catalog.NormalizeName(in.Name),
			"is_available": in.IsAvailable,
		}); err != nil {
			return err
		}
		out, err = a.deps.Ingredients.GetByID(dbc, id)
		if err != nil {
			return err
		}
		changes.add(catalog.EntityIngredient, catalog.ChangeUpdated, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *catalogAggregate) DeleteIngredient(ctx context.Context, id uuid.UUID) (domainagg.DeleteResult, error) {
	const op = "Catalog.DeleteIngredient"
	out := domainagg.DeleteResult{ID: id}
	if id == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing ingredient id", nil)
	}
	err := a.write(ctx, op, func(dbc dbctx.Context, changes *changeBatch) error {
		ok, err := a.deps.Ingredients.Exists(dbc, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundError(op, catalog.EntityIngredient, id)
		}
		cleared, err := a.deps.Lines.ClearIngredient(dbc, id)
		if err != nil {
			return err
		}
		if _, err := a.deps.Ingredients.Delete(dbc, id); err != nil {
			return err
		}
		out.Affected = cleared
		changes.add(catalog.EntityIngredient, catalog.ChangeDeleted, id)
		changes.add(catalog.EntityRecipeIngredient, catalog.ChangeUpdated, cleared...)
		return nil
	})
	return out, err
}

// ---- categories ----

func (a *catalogAggregate) CreateCategory(ctx context.Context, in domainagg.CategoryFields) (*catalog.Category, error) {
	const op = "Catalog.CreateCategory"
	in.Name = strings.TrimSpace(in.Name)
	if err := validateFields(in); err != nil {
		return nil, MapError(op, err)
	}
	var out *catalog.Category
	err := a.write(ctx, op, func(dbc dbctx.Context, changes *changeBatch) error {
		existing, err := a.deps.Categories.ListAll(dbc)
		if err != nil {
			return err
		}
		if dup, ok := catalog.FindDuplicate(existing, in.Name, uuid.Nil); ok {
			return duplicateNameError(op, catalog.EntityCategory, dup.Name)
		}
		rows, err := a.deps.Categories.Create(dbc, []*catalog.Category{{Name: in.Name}})
		if err != nil {
			return err
		}
		out = rows[0]
		changes.add(catalog.EntityCategory, catalog.ChangeCreated, out.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *catalogAggregate) UpdateCategory(ctx context.Context, id uuid.UUID, in domainagg.CategoryFields) (*catalog.Category, error) {
	const op = "Catalog.UpdateCategory"
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing category id", nil)
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateFields(in); err != nil {
		return nil, MapError(op, err)
	}
	var out *catalog.Category
	err := a.write(ctx, op, func(dbc dbctx.Context, changes *changeBatch) error {
		cur, err := a.deps.Categories.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFoundError(op, catalog.EntityCategory, id)
		}
		existing, err := a.deps.Categories.ListAll(dbc)
		if err != nil {
			return err
		}
		if dup, ok := catalog.FindDuplicate(existing, in.Name, id); ok {
			return duplicateNameError(op, catalog.EntityCategory, dup.Name)
		}
		if err := a.deps.Categories.UpdateFields(dbc, id, map[string]interface{}{
			"name":     in.Name,
			"name_key": catalog.NormalizeName(in.Name),
		}); err != nil {
			return err
		}
		out, err = a.deps.Categories.GetByID(dbc, id)
		if err != nil {
			return err
		}
		changes.add(catalog.EntityCategory, catalog.ChangeUpdated, id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *catalogAggregate) DeleteCategory(ctx context.Context, id uuid.UUID) (domainagg.DeleteResult, error) {
	const op = "Catalog.DeleteCategory"
	out := domainagg.DeleteResult{ID: id}
	if id == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing category id", nil)
	}
	err := a.write(ctx, op, func(dbc dbctx.Context, changes *changeBatch) error {
		ok, err := a.deps.Categories.Exists(dbc, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundError(op, catalog.EntityCategory, id)
		}
		cleared, err := a.deps.Recipes.ClearCategory(dbc, id)
		if err != nil {
			return err
		}
		if _, err := a.deps.Categories.Delete(dbc, id); err != nil {
			return err
		}
		out.Affected = cleared
		changes.add(catalog.EntityCategory, catalog.ChangeDeleted, id)
		changes.add(catalog.EntityRecipe, catalog.ChangeUpdated, cleared...)
		return nil
	})
	return out, err
}

// ---- recipes ----

func (a *catalogAggregate) SaveRecipe(ctx context.Context, in domainagg.SaveRecipeInput) (domainagg.SaveRecipeResult, error) {
	const op = "Catalog.SaveRecipe"
	var out domainagg.SaveRecipeResult

	fields := in.Fields
	fields.Name = strings.TrimSpace(fields.Name)
	if err := validateFields(fields); err != nil {
		return out, MapError(op, err)
	}
	if fields.CategoryID != nil && *fields.CategoryID == uuid.Nil {
		fields.CategoryID = nil
	}
	editing := in.RecipeID != nil && *in.RecipeID != uuid.Nil

	seen := map[uuid.UUID]bool{}
	for i, l := range in.Lines {
		if l.ID == uuid.Nil {
			if l.IngredientID == nil || *l.IngredientID == uuid.Nil {
				return out, MapError(op, ValidationError(fmt.Sprintf("line %d has no ingredient", i)))
			}
			continue
		}
		if !editing {
			return out, MapError(op, InvariantError(fmt.Sprintf("line %d is already linked but the recipe is new", i)))
		}
		if seen[l.ID] {
			return out, MapError(op, InvariantError(fmt.Sprintf("line %s listed twice", l.ID)))
		}
		seen[l.ID] = true
	}

	err := a.write(ctx, op, func(dbc dbctx.Context, changes *changeBatch) error {
		if fields.CategoryID != nil {
			ok, err := a.deps.Categories.Exists(dbc, *fields.CategoryID)
			if err != nil {
				return err
			}
			if !ok {
				return notFoundError(op, catalog.EntityCategory, *fields.CategoryID)
			}
		}

		var rec *catalog.Recipe
		exclude := uuid.Nil
		if editing {
			cur, err := a.deps.Recipes.GetByID(dbc, *in.RecipeID)
			if err != nil {
				return err
			}
			if cur == nil {
				return notFoundError(op, catalog.EntityRecipe, *in.RecipeID)
			}
			rec = cur
			exclude = cur.ID
		}
		existing, err := a.deps.Recipes.ListAll(dbc)
		if err != nil {
			return err
		}
		if dup, ok := catalog.FindDuplicate(existing, fields.Name, exclude); ok {
			return duplicateNameError(op, catalog.EntityRecipe, dup.Name)
		}

		if editing {
			if err := a.deps.Recipes.UpdateFields(dbc, rec.ID, recipeUpdates(fields)); err != nil {
				return err
			}
			changes.add(catalog.EntityRecipe, catalog.ChangeUpdated, rec.ID)
		} else {
			rows, err := a.deps.Recipes.Create(dbc, []*catalog.Recipe{{
				Name:         fields.Name,
				Summary:      fields.Summary,
				CategoryID:   fields.CategoryID,
				Servings:     fields.Servings,
				TimeMinutes:  fields.TimeMinutes,
				Instructions: fields.Instructions,
				ImageData:    fields.ImageData,
			}})
			if err != nil {
				return err
			}
			rec = rows[0]
			changes.add(catalog.EntityRecipe, catalog.ChangeCreated, rec.ID)
		}

		lines, removed, err := a.syncLines(dbc, op, rec.ID, editing, in.Lines, changes)
		if err != nil {
			return err
		}

		if editing {
			rec, err = a.deps.Recipes.GetByID(dbc, rec.ID)
			if err != nil {
				return err
			}
		}
		out = domainagg.SaveRecipeResult{
			Recipe:       rec,
			Lines:        lines,
			Created:      !editing,
			RemovedLines: removed,
		}
		return nil
	})
	if err != nil {
		return domainagg.SaveRecipeResult{}, err
	}
	return out, nil
}

func recipeUpdates(fields domainagg.RecipeFields) map[string]interface{} {
	updates := map[string]interface{}{
		"name":         fields.Name,
		"name_key":     catalog.NormalizeName(fields.Name),
		"summary":      fields.Summary,
		"servings":     fields.Servings,
		"time_minutes": fields.TimeMinutes,
		"instructions": fields.Instructions,
		"category_id":  nil,
		"image_data":   nil,
	}
	if fields.CategoryID != nil {
		updates["category_id"] = *fields.CategoryID
	}
	if len(fields.ImageData) > 0 {
		updates["image_data"] = fields.ImageData
	}
	return updates
}

// syncLines makes the persisted line items of recipeID match draft, in draft
// order. Persisted lines missing from draft are deleted.
func (a *catalogAggregate) syncLines(dbc dbctx.Context, op string, recipeID uuid.UUID, editing bool, draft []domainagg.RecipeLineInput, changes *changeBatch) ([]*catalog.RecipeIngredient, []uuid.UUID, error) {
	persisted := []*catalog.RecipeIngredient{}
	if editing {
		rows, err := a.deps.Lines.ListByRecipe(dbc, recipeID)
		if err != nil {
			return nil, nil, err
		}
		persisted = rows
	}
	byID := make(map[uuid.UUID]*catalog.RecipeIngredient, len(persisted))
	for _, p := range persisted {
		byID[p.ID] = p
	}
	keep := map[uuid.UUID]bool{}
	for _, l := range draft {
		if l.ID == uuid.Nil {
			continue
		}
		if _, ok := byID[l.ID]; !ok {
			return nil, nil, InvariantError(fmt.Sprintf("line %s does not belong to recipe %s", l.ID, recipeID))
		}
		keep[l.ID] = true
	}

	removed := []uuid.UUID{}
	for _, p := range persisted {
		if !keep[p.ID] {
			removed = append(removed, p.ID)
		}
	}
	if _, err := a.deps.Lines.DeleteByIDs(dbc, removed); err != nil {
		return nil, nil, err
	}

	ingredientOK := map[uuid.UUID]bool{}
	requireIngredient := func(id uuid.UUID) error {
		if ingredientOK[id] {
			return nil
		}
		ok, err := a.deps.Ingredients.Exists(dbc, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundError(op, catalog.EntityIngredient, id)
		}
		ingredientOK[id] = true
		return nil
	}

	out := make([]*catalog.RecipeIngredient, 0, len(draft))
	created := []uuid.UUID{}
	updated := []uuid.UUID{}
	for pos, l := range draft {
		if l.ID == uuid.Nil {
			ingID := *l.IngredientID
			if err := requireIngredient(ingID); err != nil {
				return nil, nil, err
			}
			rid := recipeID
			rows, err := a.deps.Lines.Create(dbc, []*catalog.RecipeIngredient{{
				RecipeID:     &rid,
				IngredientID: &ingID,
				Quantity:     l.Quantity,
				Position:     pos,
			}})
			if err != nil {
				return nil, nil, err
			}
			out = append(out, rows[0])
			created = append(created, rows[0].ID)
			continue
		}

		p := byID[l.ID]
		updates := map[string]interface{}{}
		if p.Quantity != l.Quantity {
			updates["quantity"] = l.Quantity
			p.Quantity = l.Quantity
		}
		if p.Position != pos {
			updates["position"] = pos
			p.Position = pos
		}
		if l.IngredientID != nil && *l.IngredientID != uuid.Nil && (p.IngredientID == nil || *p.IngredientID != *l.IngredientID) {
			if err := requireIngredient(*l.IngredientID); err != nil {
				return nil, nil, err
			}
			ingID := *l.IngredientID
			updates["ingredient_id"] = ingID
			p.IngredientID = &ingID
		}
		if len(updates) > 0 {
			if err := a.deps.Lines.UpdateFields(dbc, p.ID, updates); err != nil {
				return nil, nil, err
			}
			updated = append(updated, p.ID)
		}
		out = append(out, p)
	}

	changes.add(catalog.EntityRecipeIngredient, catalog.ChangeDeleted, removed...)
	changes.add(catalog.EntityRecipeIngredient, catalog.ChangeCreated, created...)
	changes.add(catalog.EntityRecipeIngredient, catalog.ChangeUpdated, updated...)
	return out, removed, nil
}

func (a *catalogAggregate) DeleteRecipe(ctx context.Context, id uuid.UUID) (domainagg.DeleteResult, error) {
	const op = "Catalog.DeleteRecipe"
	out := domainagg.DeleteResult{ID: id}
	if id == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing recipe id", nil)
	}
	err := a.write(ctx, op, func(dbc dbctx.Context, changes *changeBatch) error {
		ok, err := a.deps.Recipes.Exists(dbc, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundError(op, catalog.EntityRecipe, id)
		}
		lines, err := a.deps.Lines.DeleteByRecipe(dbc, id)
		if err != nil {
			return err
		}
		if _, err := a.deps.Recipes.Delete(dbc, id); err != nil {
			return err
		}
		out.Affected = lines
		changes.add(catalog.EntityRecipe, catalog.ChangeDeleted, id)
		changes.add(catalog.EntityRecipeIngredient, catalog.ChangeDeleted, lines...)
		return nil
	})
	return out, err
}

// ---- shopping list ----

func (a *catalogAggregate) SetIngredientsAvailable(ctx context.Context, in domainagg.SetAvailableInput) (domainagg.SetAvailableResult, error) {
	const op = "Catalog.SetIngredientsAvailable"
	out := domainagg.SetAvailableResult{Updated: []uuid.UUID{}}
	if !in.All && len(in.IngredientIDs) == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "no ingredients given", nil)
	}
	err := a.write(ctx, op, func(dbc dbctx.Context, changes *changeBatch) error {
		var targets []*catalog.Ingredient
		if in.All {
			rows, err := a.deps.Ingredients.ListUnavailable(dbc)
			if err != nil {
				return err
			}
			targets = rows
		} else {
			ids := dedupeIDs(in.IngredientIDs)
			rows, err := a.deps.Ingredients.GetByIDs(dbc, ids)
			if err != nil {
				return err
			}
			found := make(map[uuid.UUID]*catalog.Ingredient, len(rows))
			for _, r := range rows {
				found[r.ID] = r
			}
			for _, id := range ids {
				ing, ok := found[id]
				if !ok {
					return notFoundError(op, catalog.EntityIngredient, id)
				}
				if !ing.IsAvailable {
					targets = append(targets, ing)
				}
			}
		}
		ids := make([]uuid.UUID, 0, len(targets))
		for _, t := range targets {
			ids = append(ids, t.ID)
		}
		if _, err := a.deps.Ingredients.SetAvailable(dbc, ids); err != nil {
			return err
		}
		out.Updated = ids
		changes.add(catalog.EntityIngredient, catalog.ChangeUpdated, ids...)
		return nil
	})
	if err != nil {
		return domainagg.SetAvailableResult{Updated: []uuid.UUID{}}, err
	}
	return out, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
