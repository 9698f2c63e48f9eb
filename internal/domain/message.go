package domain

import "time"

// Message immutable inbound message record (messages table).
// ExternalID is the provider-supplied message id; the UNIQUE constraint on it
// is what makes ingestion idempotent.
type Message struct {
	ID int64 `db:"id"` // BIGSERIAL, PRIMARY KEY

	Content    string `db:"content"`     // TEXT, NOT NULL
	ExternalID string `db:"external_id"` // VARCHAR(100), UNIQUE, nullable for legacy rows
	Manual     bool   `db:"manual"`      // BOOLEAN, NOT NULL DEFAULT FALSE, manual transaction entries

	CaregiverID int64 `db:"caregiver_id"` // BIGINT, nullable, FK caregivers(id); 0 for manual entries
	PatientID   int64 `db:"patient_id"`   // BIGINT, NOT NULL, FK patients(id)

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
}
