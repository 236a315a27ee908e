package aggregates

import (
	"testing"

	"github.com/go-playground/validator/v10"

	domainagg "github.com/yungbote/recipe-catalog/internal/domain/aggregates"
)

func TestValidateRecipeFields(t *testing.T) {
	base := domainagg.DefaultRecipeFields()
	base.Name = "Pesto"
	base.Instructions = "blend"
	if err := validateFields(base); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(f *domainagg.RecipeFields)
	}{
		{"blank name", func(f *domainagg.RecipeFields) { f.Name = "   " }},
		{"blank instructions", func(f *domainagg.RecipeFields) { f.Instructions = "\t" }},
		{"servings low", func(f *domainagg.RecipeFields) { f.Servings = 0 }},
		{"servings high", func(f *domainagg.RecipeFields) { f.Servings = 101 }},
		{"time low", func(f *domainagg.RecipeFields) { f.TimeMinutes = 0 }},
		{"time high", func(f *domainagg.RecipeFields) { f.TimeMinutes = 305 }},
		{"time step", func(f *domainagg.RecipeFields) { f.TimeMinutes = 12 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := base
			tc.mutate(&f)
			err := MapError("op", validateFields(f))
			if !domainagg.IsValidation(err) {
				t.Fatalf("expected validation error, got=%v", err)
			}
		})
	}

	edge := base
	edge.Servings = 100
	edge.TimeMinutes = 300
	if err := validateFields(edge); err != nil {
		t.Fatalf("upper bounds should validate: %v", err)
	}
}

func TestValidateNamedFields(t *testing.T) {
	if err := validateFields(domainagg.IngredientFields{Name: "Basil"}); err != nil {
		t.Fatalf("ingredient: %v", err)
	}
	if err := validateFields(domainagg.CategoryFields{Name: " "}); err == nil {
		t.Fatalf("blank category name should fail")
	}
}

func TestMustRegisterPanicsOnBadTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for empty tag")
		}
	}()
	mustRegister(validator.New(), "", func(validator.FieldLevel) bool { return true })
}

func TestFieldValidatorHasCustomTags(t *testing.T) {
	type tagged struct {
		Name string `validate:"notblank"`
		Step int    `validate:"multiple_of=5"`
	}
	if err := fieldValidator().Struct(tagged{Name: "ok", Step: 10}); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}
	if err := fieldValidator().Struct(tagged{Name: " ", Step: 10}); err == nil {
		t.Fatalf("notblank not enforced")
	}
	if err := fieldValidator().Struct(tagged{Name: "ok", Step: 7}); err == nil {
		t.Fatalf("multiple_of not enforced")
	}
}
