package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresValuesRepository classified value reads and the transaction edit
// path over database/sql
type PostgresValuesRepository struct {
	db *sql.DB
}

func NewPostgresValuesRepository(db *sql.DB) *PostgresValuesRepository {
	return &PostgresValuesRepository{db: db}
}

var _ ValuesRepository = (*PostgresValuesRepository)(nil)

const valueRowSelect = `
	SELECT
		cv.id,
		s.name,
		COALESCE(cv.value, ''),
		COALESCE(cv.confidence, 0),
		m.created_at
	FROM classified_values cv
	JOIN subcategories s ON s.id = cv.subcategory_id
	JOIN categories c ON c.id = s.category_id
	JOIN messages m ON m.id = cv.message_id
`

func (r *PostgresValuesRepository) ListCategoryValues(ctx context.Context, patientID int64, categoryName string, since time.Time, limit int) ([]ValueRow, error) {
	query := valueRowSelect + `
		WHERE m.patient_id = $1
		  AND c.name = $2
		  AND m.created_at >= $3
		ORDER BY m.created_at DESC
	`
	args := []any{patientID, categoryName, since}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}
	return r.queryValueRows(ctx, query, args...)
}

func (r *PostgresValuesRepository) ListSubcategoryValues(ctx context.Context, patientID int64, categoryName, subcategoryName string, since time.Time, limit int) ([]ValueRow, error) {
	query := valueRowSelect + `
		WHERE m.patient_id = $1
		  AND c.name = $2
		  AND s.name = $3
		  AND m.created_at >= $4
		ORDER BY m.created_at DESC
	`
	args := []any{patientID, categoryName, subcategoryName, since}
	if limit > 0 {
		query += ` LIMIT $5`
		args = append(args, limit)
	}
	return r.queryValueRows(ctx, query, args...)
}

func (r *PostgresValuesRepository) queryValueRows(ctx context.Context, query string, args ...any) ([]ValueRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list classified values: %w", err)
	}
	defer rows.Close()

	var out []ValueRow
	for rows.Next() {
		var v ValueRow
		if err := rows.Scan(&v.ID, &v.SubcategoryName, &v.Value, &v.Confidence, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan classified value: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PostgresValuesRepository) ListHistory(ctx context.Context, patientID int64, since time.Time, categoryName string) ([]HistoryRow, error) {
	query := `
		SELECT
			cv.id,
			m.content,
			c.name,
			s.name,
			COALESCE(cv.value, ''),
			COALESCE(cv.confidence, 0),
			m.created_at
		FROM classified_values cv
		JOIN subcategories s ON s.id = cv.subcategory_id
		JOIN categories c ON c.id = s.category_id
		JOIN messages m ON m.id = cv.message_id
		WHERE m.patient_id = $1
		  AND m.created_at >= $2
	`
	args := []any{patientID, since}
	if categoryName != "" {
		query += ` AND c.name = $3`
		args = append(args, categoryName)
	}
	query += ` ORDER BY m.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(&h.ID, &h.MessageContent, &h.CategoryName, &h.SubcategoryName, &h.Value, &h.Confidence, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *PostgresValuesRepository) GetTransaction(ctx context.Context, id int64) (*TransactionRow, error) {
	query := `
		SELECT
			cv.id,
			m.id,
			m.patient_id,
			m.content,
			s.name,
			COALESCE(cv.value, ''),
			COALESCE(cv.confidence, 0),
			m.created_at
		FROM classified_values cv
		JOIN subcategories s ON s.id = cv.subcategory_id
		JOIN messages m ON m.id = cv.message_id
		WHERE cv.id = $1
	`

	var t TransactionRow
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.MessageID,
		&t.PatientID,
		&t.MessageContent,
		&t.SubcategoryName,
		&t.Value,
		&t.Confidence,
		&t.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

func (r *PostgresValuesRepository) UpdateTransaction(ctx context.Context, id int64, value string, messageContent string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction update: %w", err)
	}
	defer tx.Rollback()

	var messageID int64
	err = tx.QueryRowContext(ctx,
		`UPDATE classified_values SET value = $1 WHERE id = $2 RETURNING message_id`,
		value, id,
	).Scan(&messageID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update classified value: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE messages SET content = $1 WHERE id = $2`,
		messageContent, messageID,
	); err != nil {
		return fmt.Errorf("failed to update message content: %w", err)
	}

	return tx.Commit()
}

// DeleteTransaction removes the value and its owning message. Deleting the
// message cascades over any remaining values for it.
func (r *PostgresValuesRepository) DeleteTransaction(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction delete: %w", err)
	}
	defer tx.Rollback()

	var messageID int64
	err = tx.QueryRowContext(ctx,
		`DELETE FROM classified_values WHERE id = $1 RETURNING message_id`,
		id,
	).Scan(&messageID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete classified value: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE id = $1`,
		messageID,
	); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return tx.Commit()
}
