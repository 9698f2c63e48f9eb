package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandalio7/Serena/internal/domain"
)

// PostgresPatientsRepository patients/caregivers over database/sql
type PostgresPatientsRepository struct {
	db *sql.DB
}

func NewPostgresPatientsRepository(db *sql.DB) *PostgresPatientsRepository {
	return &PostgresPatientsRepository{db: db}
}

var _ PatientsRepository = (*PostgresPatientsRepository)(nil)

func (r *PostgresPatientsRepository) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	query := `
		SELECT
			id,
			name,
			COALESCE(age, 0),
			COALESCE(conditions, ''),
			COALESCE(notes, ''),
			created_at,
			updated_at
		FROM patients
		WHERE id = $1
	`

	var p domain.Patient
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Age,
		&p.Conditions,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &p, nil
}

func (r *PostgresPatientsRepository) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	query := `
		SELECT
			id,
			name,
			COALESCE(age, 0),
			COALESCE(conditions, ''),
			COALESCE(notes, ''),
			created_at,
			updated_at
		FROM patients
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []domain.Patient
	for rows.Next() {
		var p domain.Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Age, &p.Conditions, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *PostgresPatientsRepository) GetCaregiverByPhone(ctx context.Context, phone string) (*domain.Caregiver, error) {
	if phone == "" {
		return nil, ErrNotFound
	}

	query := `
		SELECT
			id,
			name,
			COALESCE(phone, ''),
			COALESCE(email, ''),
			COALESCE(role, ''),
			patient_id,
			created_at
		FROM caregivers
		WHERE phone = $1
	`

	var c domain.Caregiver
	err := r.db.QueryRowContext(ctx, query, phone).Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.Role,
		&c.PatientID,
		&c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get caregiver by phone: %w", err)
	}
	return &c, nil
}
