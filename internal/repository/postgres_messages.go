package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandalio7/Serena/internal/domain"

	"github.com/lib/pq"
)

// PostgresMessagesRepository message ingestion writes over database/sql
type PostgresMessagesRepository struct {
	db *sql.DB
}

func NewPostgresMessagesRepository(db *sql.DB) *PostgresMessagesRepository {
	return &PostgresMessagesRepository{db: db}
}

var _ MessagesRepository = (*PostgresMessagesRepository)(nil)

func (r *PostgresMessagesRepository) MessageExists(ctx context.Context, externalID string) (bool, error) {
	if externalID == "" {
		return false, nil
	}
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages WHERE external_id = $1)`,
		externalID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check message existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresMessagesRepository) HasMessagesSince(ctx context.Context, patientID int64, since time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages WHERE patient_id = $1 AND created_at >= $2)`,
		patientID, since,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check messages in window: %w", err)
	}
	return exists, nil
}

// SaveClassified writes the message and its classified values in one
// transaction. Either the full batch lands or nothing does.
func (r *PostgresMessagesRepository) SaveClassified(ctx context.Context, msg *domain.Message, values []domain.ClassifiedValue) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin message batch: %w", err)
	}
	defer tx.Rollback()

	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var externalID sql.NullString
	if msg.ExternalID != "" {
		externalID = sql.NullString{String: msg.ExternalID, Valid: true}
	}
	// Manual transaction entries have no caregiver.
	var caregiverID sql.NullInt64
	if msg.CaregiverID > 0 {
		caregiverID = sql.NullInt64{Int64: msg.CaregiverID, Valid: true}
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO messages (content, external_id, manual, caregiver_id, patient_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		msg.Content, externalID, msg.Manual, caregiverID, msg.PatientID, createdAt,
	).Scan(&msg.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateMessage
		}
		return fmt.Errorf("failed to insert message: %w", err)
	}
	msg.CreatedAt = createdAt

	for i := range values {
		values[i].MessageID = msg.ID
		err := tx.QueryRowContext(ctx,
			`INSERT INTO classified_values (message_id, subcategory_id, value, confidence, created_at)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			msg.ID, values[i].SubcategoryID, values[i].Value, values[i].Confidence, createdAt,
		).Scan(&values[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert classified value: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message batch: %w", err)
	}
	return nil
}
