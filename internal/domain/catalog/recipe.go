package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinServings = 1
	MaxServings = 100

	MinTimeMinutes  = 5
	MaxTimeMinutes  = 300
	TimeStepMinutes = 5

	DefaultServings    = MinServings
	DefaultTimeMinutes = MinTimeMinutes
)

// Recipe references its category by id only. The ordered line items are not
// stored on the row; they are derived from RecipeIngredient.RecipeID.
type Recipe struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"not null;column:name" json:"name"`
	NameKey      string     `gorm:"not null;column:name_key;uniqueIndex:idx_recipe_name_key" json:"-"`
	Summary      string     `gorm:"not null;column:summary" json:"summary"`
	CategoryID   *uuid.UUID `gorm:"type:uuid;column:category_id;index" json:"category_id,omitempty"`
	Servings     int        `gorm:"not null;column:servings" json:"servings"`
	TimeMinutes  int        `gorm:"not null;column:time_minutes" json:"time_minutes"`
	Instructions string     `gorm:"not null;column:instructions" json:"instructions"`
	ImageData    []byte     `gorm:"column:image_data" json:"image_data,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Recipe) TableName() string { return "recipe" }

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.NameKey = NormalizeName(r.Name)
	return nil
}

func (r *Recipe) GetID() uuid.UUID { return r.ID }
func (r *Recipe) GetName() string  { return r.Name }

// RecipeIngredient is one line item of a recipe. Both references are plain
// ids; a nil IngredientID means the ingredient was deleted.
type RecipeIngredient struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     *uuid.UUID `gorm:"type:uuid;column:recipe_id;index" json:"recipe_id,omitempty"`
	IngredientID *uuid.UUID `gorm:"type:uuid;column:ingredient_id;index" json:"ingredient_id,omitempty"`
	Quantity     string     `gorm:"not null;column:quantity" json:"quantity"`
	Position     int        `gorm:"not null;column:position" json:"position"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredient" }

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// IsOrphaned reports whether the backing ingredient has been deleted.
func (ri *RecipeIngredient) IsOrphaned() bool {
	return ri.IngredientID == nil || *ri.IngredientID == uuid.Nil
}
