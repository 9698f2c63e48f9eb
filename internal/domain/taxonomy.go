package domain

// Category top level of the fixed classification taxonomy (categories table).
// Name is the join key between the classifier's free-text labels and stored data:
// unique and stable.
type Category struct {
	ID int64 `db:"id"` // BIGSERIAL, PRIMARY KEY

	Name         string `db:"name"`          // VARCHAR(100), NOT NULL, UNIQUE
	Description  string `db:"description"`   // TEXT
	Active       bool   `db:"active"`        // BOOLEAN, NOT NULL DEFAULT TRUE
	DisplayOrder int    `db:"display_order"` // INTEGER
}

// Subcategory leaf of the taxonomy (subcategories table)
type Subcategory struct {
	ID int64 `db:"id"` // BIGSERIAL, PRIMARY KEY

	CategoryID   int64  `db:"category_id"`   // BIGINT, NOT NULL, FK categories(id)
	Name         string `db:"name"`          // VARCHAR(100), NOT NULL, UNIQUE(category_id, name)
	Description  string `db:"description"`   // TEXT
	Active       bool   `db:"active"`        // BOOLEAN, NOT NULL DEFAULT TRUE
	DisplayOrder int    `db:"display_order"` // INTEGER
}
