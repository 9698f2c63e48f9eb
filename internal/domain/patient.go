package domain

import "time"

// Patient care recipient (patients table)
type Patient struct {
	ID int64 `db:"id"` // BIGSERIAL, PRIMARY KEY

	Name       string `db:"name"`       // VARCHAR(100), NOT NULL
	Age        int    `db:"age"`        // INTEGER
	Conditions string `db:"conditions"` // VARCHAR(255), medical conditions
	Notes      string `db:"notes"`      // TEXT

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
	UpdatedAt time.Time `db:"updated_at"` // TIMESTAMPTZ, NOT NULL
}
