package domain

import "time"

// Caregiver person reporting about a patient over WhatsApp (caregivers table).
// Resolved from inbound messages by phone number.
type Caregiver struct {
	ID int64 `db:"id"` // BIGSERIAL, PRIMARY KEY

	Name  string `db:"name"`  // VARCHAR(100), NOT NULL
	Phone string `db:"phone"` // VARCHAR(20), UNIQUE, WhatsApp number in international format
	Email string `db:"email"` // VARCHAR(100)
	Role  string `db:"role"`  // VARCHAR(50), e.g. "Profesional", "Familiar"

	PatientID int64 `db:"patient_id"` // BIGINT, NOT NULL, FK patients(id)

	CreatedAt time.Time `db:"created_at"` // TIMESTAMPTZ, NOT NULL
}
