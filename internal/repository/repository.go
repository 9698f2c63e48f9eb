package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sandalio7/Serena/internal/domain"
)

var (
	// ErrNotFound the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateMessage a message with the same external id was already
	// ingested; the unique constraint rejected the second attempt
	ErrDuplicateMessage = errors.New("duplicate external message id")
)

// PatientsRepository patients and caregiver resolution
type PatientsRepository interface {
	GetPatient(ctx context.Context, id int64) (*domain.Patient, error)
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	GetCaregiverByPhone(ctx context.Context, phone string) (*domain.Caregiver, error)
}

// TaxonomyRepository persisted taxonomy reference data
type TaxonomyRepository interface {
	// EnsureSeeded inserts the fixed taxonomy idempotently.
	EnsureSeeded(ctx context.Context) error
	LoadAll(ctx context.Context) ([]domain.Category, []domain.Subcategory, error)
}

// MessagesRepository message ingestion writes. All writes for one message's
// classification commit as a single transaction.
type MessagesRepository interface {
	MessageExists(ctx context.Context, externalID string) (bool, error)
	HasMessagesSince(ctx context.Context, patientID int64, since time.Time) (bool, error)
	// SaveClassified inserts the message and its classified values atomically.
	// Returns ErrDuplicateMessage when the external id is already stored.
	SaveClassified(ctx context.Context, msg *domain.Message, values []domain.ClassifiedValue) error
}

// ValueRow one classified value joined to its message timestamp, for
// aggregation queries
type ValueRow struct {
	ID              int64
	SubcategoryName string
	Value           string
	Confidence      float64
	CreatedAt       time.Time
}

// HistoryRow one classified value joined to message/subcategory/category, for
// the audit listing
type HistoryRow struct {
	ID              int64
	MessageContent  string
	CategoryName    string
	SubcategoryName string
	Value           string
	Confidence      float64
	CreatedAt       time.Time
}

// TransactionRow one manual or classified expense entry with its message
type TransactionRow struct {
	ID              int64
	MessageID       int64
	PatientID       int64
	MessageContent  string
	SubcategoryName string
	Value           string
	Confidence      float64
	CreatedAt       time.Time
}

// ValuesRepository classified value reads and the manual transaction edit path
type ValuesRepository interface {
	// ListCategoryValues returns in-window values under a category, most
	// recent first. limit <= 0 means no limit.
	ListCategoryValues(ctx context.Context, patientID int64, categoryName string, since time.Time, limit int) ([]ValueRow, error)
	// ListSubcategoryValues narrows to a single subcategory, most recent first.
	ListSubcategoryValues(ctx context.Context, patientID int64, categoryName, subcategoryName string, since time.Time, limit int) ([]ValueRow, error)
	// ListHistory returns the audit rows; categoryName "" means all categories.
	ListHistory(ctx context.Context, patientID int64, since time.Time, categoryName string) ([]HistoryRow, error)
	GetTransaction(ctx context.Context, id int64) (*TransactionRow, error)
	// UpdateTransaction rewrites the value and the owning message content in
	// one transaction.
	UpdateTransaction(ctx context.Context, id int64, value string, messageContent string) error
	// DeleteTransaction removes the value and its message in one transaction.
	DeleteTransaction(ctx context.Context, id int64) error
}
