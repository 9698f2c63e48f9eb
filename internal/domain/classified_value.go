package domain

import "time"

// ClassifiedValue atomic classified fact extracted from one message
// (classified_values table). Deleted together with its message.
type ClassifiedValue struct {
	ID int64 `db:"id"` // BIGSERIAL, PRIMARY KEY

	MessageID     int64 `db:"message_id"`     // BIGINT, NOT NULL, FK messages(id) ON DELETE CASCADE
	SubcategoryID int64 `db:"subcategory_id"` // BIGINT, NOT NULL, FK subcategories(id)

	Value      string  `db:"value"`      // TEXT, raw extracted text, kept verbatim for audit
	Confidence float64 `db:"confidence"` // DOUBLE PRECISION, CHECK confidence BETWEEN 0 AND 1

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
}
