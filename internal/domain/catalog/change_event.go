package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EntityIngredient       = "ingredient"
	EntityCategory         = "category"
	EntityRecipe           = "recipe"
	EntityRecipeIngredient = "recipe_ingredient"
)

const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// ChangeEvent is appended in the same transaction as the mutation it
// describes, so Seq order is commit order.
type ChangeEvent struct {
	Seq       uint64         `gorm:"primaryKey;autoIncrement;column:seq" json:"seq"`
	Op        string         `gorm:"not null;column:op" json:"op"`
	Entity    string         `gorm:"not null;column:entity;index" json:"entity"`
	Kind      string         `gorm:"not null;column:kind" json:"kind"`
	EntityIDs datatypes.JSON `gorm:"column:entity_ids" json:"entity_ids"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (ChangeEvent) TableName() string { return "catalog_change" }

func NewChangeEvent(op, entity, kind string, ids ...uuid.UUID) *ChangeEvent {
	ev := &ChangeEvent{Op: op, Entity: entity, Kind: kind}
	ev.SetIDs(ids)
	return ev
}

func (e *ChangeEvent) SetIDs(ids []uuid.UUID) {
	strs := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != uuid.Nil {
			strs = append(strs, id.String())
		}
	}
	raw, _ := json.Marshal(strs)
	e.EntityIDs = datatypes.JSON(raw)
}

func (e *ChangeEvent) IDs() []uuid.UUID {
	if e == nil || len(e.EntityIDs) == 0 {
		return nil
	}
	var strs []string
	if err := json.Unmarshal(e.EntityIDs, &strs); err != nil {
		return nil
	}
	out := make([]uuid.UUID, 0, len(strs))
	for _, s := range strs {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}
