package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandalio7/Serena/internal/domain"
	"github.com/sandalio7/Serena/internal/taxonomy"
)

// PostgresTaxonomyRepository taxonomy reference data over database/sql
type PostgresTaxonomyRepository struct {
	db *sql.DB
}

func NewPostgresTaxonomyRepository(db *sql.DB) *PostgresTaxonomyRepository {
	return &PostgresTaxonomyRepository{db: db}
}

var _ TaxonomyRepository = (*PostgresTaxonomyRepository)(nil)

// EnsureSeeded inserts the fixed taxonomy. Safe to run on every boot: names
// are the conflict keys and existing rows are left untouched.
func (r *PostgresTaxonomyRepository) EnsureSeeded(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin taxonomy seed: %w", err)
	}
	defer tx.Rollback()

	for order, cat := range taxonomy.Definition() {
		var categoryID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO categories (name, description, active, display_order)
			 VALUES ($1, $2, TRUE, $3)
			 ON CONFLICT (name) DO UPDATE SET display_order = EXCLUDED.display_order
			 RETURNING id`,
			cat.Name, cat.Description, order+1,
		).Scan(&categoryID)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", cat.Name, err)
		}

		for subOrder, sub := range cat.Subcategories {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO subcategories (category_id, name, description, active, display_order)
				 VALUES ($1, $2, $3, TRUE, $4)
				 ON CONFLICT (category_id, name) DO UPDATE SET display_order = EXCLUDED.display_order`,
				categoryID, sub.Name, sub.Description, subOrder+1,
			)
			if err != nil {
				return fmt.Errorf("failed to seed subcategory %s/%s: %w", cat.Name, sub.Name, err)
			}
		}
	}

	return tx.Commit()
}

func (r *PostgresTaxonomyRepository) LoadAll(ctx context.Context) ([]domain.Category, []domain.Subcategory, error) {
	catRows, err := r.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(description, ''), active, COALESCE(display_order, 0)
		 FROM categories
		 ORDER BY display_order`,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load categories: %w", err)
	}
	defer catRows.Close()

	var categories []domain.Category
	for catRows.Next() {
		var c domain.Category
		if err := catRows.Scan(&c.ID, &c.Name, &c.Description, &c.Active, &c.DisplayOrder); err != nil {
			return nil, nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := catRows.Err(); err != nil {
		return nil, nil, err
	}

	subRows, err := r.db.QueryContext(ctx,
		`SELECT id, category_id, name, COALESCE(description, ''), active, COALESCE(display_order, 0)
		 FROM subcategories
		 ORDER BY category_id, display_order`,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load subcategories: %w", err)
	}
	defer subRows.Close()

	var subcategories []domain.Subcategory
	for subRows.Next() {
		var s domain.Subcategory
		if err := subRows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Description, &s.Active, &s.DisplayOrder); err != nil {
			return nil, nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subcategories = append(subcategories, s)
	}
	return categories, subcategories, subRows.Err()
}
