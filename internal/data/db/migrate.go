package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/recipe-catalog/internal/domain/catalog"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Catalog records
		// =========================
		&catalog.Ingredient{},
		&catalog.Category{},
		&catalog.Recipe{},
		&catalog.RecipeIngredient{},

		// =========================
		// Change feed
		// =========================
		&catalog.ChangeEvent{},
	)
}

// EnsureCatalogIndexes creates the composite indexes gorm tags cannot express.
// Statements are portable between sqlite and Postgres.
func EnsureCatalogIndexes(db *gorm.DB) error {
	// Ordered line items per recipe.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_recipe_ingredient_recipe_position
		ON recipe_ingredient (recipe_id, position);
	`).Error; err != nil {
		return fmt.Errorf("create idx_recipe_ingredient_recipe_position: %w", err)
	}

	// Shopping list scan.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_ingredient_available
		ON ingredient (is_available);
	`).Error; err != nil {
		return fmt.Errorf("create idx_ingredient_available: %w", err)
	}

	// Stable listing order.
	for _, table := range []string{"ingredient", "category", "recipe"} {
		stmt := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_created_id ON %s (created_at, id);`, table, table)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create idx_%s_created_id: %w", table, err)
		}
	}
	return nil
}
