package services

import (
	"fmt"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
)

// DraftLine is one line of a recipe being edited. ID is uuid.Nil until the
// line has been saved.
type DraftLine struct {
	ID           uuid.UUID
	IngredientID *uuid.UUID
	Quantity     string
}

// RecipeDraft holds the in-memory edits of one recipe form. Nothing is
// written until it is saved through CatalogService.SaveRecipeDraft.
type RecipeDraft struct {
	Fields domainagg.RecipeFields

	recipeID *uuid.UUID
	lines    []DraftLine
	removed  []uuid.UUID
}

func NewRecipeDraft() *RecipeDraft {
	return &RecipeDraft{Fields: domainagg.DefaultRecipeFields()}
}

func editRecipeDraft(rec *catalog.Recipe, lines []*catalog.RecipeIngredient) *RecipeDraft {
	id := rec.ID
	d := &RecipeDraft{
		Fields: domainagg.RecipeFields{
			Name:         rec.Name,
			Summary:      rec.Summary,
			CategoryID:   copyID(rec.CategoryID),
			Servings:     rec.Servings,
			TimeMinutes:  rec.TimeMinutes,
			Instructions: rec.Instructions,
			ImageData:    append([]byte(nil), rec.ImageData...),
		},
		recipeID: &id,
		lines:    make([]DraftLine, 0, len(lines)),
	}
	for _, l := range lines {
		d.lines = append(d.lines, DraftLine{
			ID:           l.ID,
			IngredientID: copyID(l.IngredientID),
			Quantity:     l.Quantity,
		})
	}
	return d
}

func (d *RecipeDraft) IsNew() bool { return d.recipeID == nil }

func (d *RecipeDraft) RecipeID() (uuid.UUID, bool) {
	if d.recipeID == nil {
		return uuid.Nil, false
	}
	return *d.recipeID, true
}

// AddLine appends an unsaved line picked from the ingredient list.
func (d *RecipeDraft) AddLine(ingredientID uuid.UUID, quantity string) {
	id := ingredientID
	d.lines = append(d.lines, DraftLine{IngredientID: &id, Quantity: quantity})
}

// RemoveLine drops the line at index. A saved line is queued for deletion.
func (d *RecipeDraft) RemoveLine(index int) error {
	if index < 0 || index >= len(d.lines) {
		return fmt.Errorf("line index %d out of range [0,%d)", index, len(d.lines))
	}
	if id := d.lines[index].ID; id != uuid.Nil {
		d.removed = append(d.removed, id)
	}
	d.lines = append(d.lines[:index], d.lines[index+1:]...)
	return nil
}

func (d *RecipeDraft) SetQuantity(index int, quantity string) error {
	if index < 0 || index >= len(d.lines) {
		return fmt.Errorf("line index %d out of range [0,%d)", index, len(d.lines))
	}
	d.lines[index].Quantity = quantity
	return nil
}

func (d *RecipeDraft) Lines() []DraftLine {
	out := make([]DraftLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// PendingRemovals lists saved lines removed since the last save.
func (d *RecipeDraft) PendingRemovals() []uuid.UUID {
	return append([]uuid.UUID(nil), d.removed...)
}

func (d *RecipeDraft) Input() domainagg.SaveRecipeInput {
	in := domainagg.SaveRecipeInput{
		RecipeID: copyID(d.recipeID),
		Fields:   d.Fields,
		Lines:    make([]domainagg.RecipeLineInput, 0, len(d.lines)),
	}
	for _, l := range d.lines {
		in.Lines = append(in.Lines, domainagg.RecipeLineInput{
			ID:           l.ID,
			IngredientID: copyID(l.IngredientID),
			Quantity:     l.Quantity,
		})
	}
	return in
}

func (d *RecipeDraft) applySaved(res domainagg.SaveRecipeResult) {
	if res.Recipe != nil {
		id := res.Recipe.ID
		d.recipeID = &id
		d.Fields.Name = res.Recipe.Name
	}
	// Saved lines come back in draft order.
	if len(res.Lines) == len(d.lines) {
		for i, l := range res.Lines {
			d.lines[i].ID = l.ID
		}
	}
	d.removed = nil
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
