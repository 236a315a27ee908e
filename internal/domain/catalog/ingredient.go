package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ingredient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	NameKey     string    `gorm:"not null;column:name_key;uniqueIndex:idx_ingredient_name_key" json:"-"`
	IsAvailable bool      `gorm:"not null;column:is_available" json:"is_available"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Ingredient) TableName() string { return "ingredient" }

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.NameKey = NormalizeName(i.Name)
	return nil
}

func (i *Ingredient) GetID() uuid.UUID { return i.ID }
func (i *Ingredient) GetName() string  { return i.Name }
