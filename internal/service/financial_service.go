package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sandalio7/Serena/internal/domain"
	"github.com/sandalio7/Serena/internal/extract"
	"github.com/sandalio7/Serena/internal/repository"
	"github.com/sandalio7/Serena/internal/store"
	"github.com/sandalio7/Serena/internal/taxonomy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const summaryCacheTTL = 60 * time.Second

// ExpenseCategory one expense group in the financial summary
type ExpenseCategory struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Color  string  `json:"color"`
}

// FinancialSummary dashboard totals for one patient and period
type FinancialSummary struct {
	Income     float64           `json:"income"`
	Expenses   float64           `json:"expenses"`
	Categories []ExpenseCategory `json:"categories"`
	Period     string            `json:"period"`
}

// Transaction manual financial entry as exposed over the API
type Transaction struct {
	ID       int64   `json:"id"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

// CreateTransactionRequest manual entry creation payload
type CreateTransactionRequest struct {
	PatientID int64   `json:"patient_id"`
	Type      string  `json:"type"` // "income" or "expense"
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"` // YYYY-MM-DD
}

// UpdateTransactionRequest partial manual entry update
type UpdateTransactionRequest struct {
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
}

// ErrValidation invalid request fields; maps to HTTP 400
var ErrValidation = errors.New("validation failed")

// FinancialService expense aggregation and the manual transaction path
type FinancialService struct {
	patients repository.PatientsRepository
	messages repository.MessagesRepository
	values   repository.ValuesRepository
	taxonomy *taxonomy.Store
	cache    store.KV // nil disables caching
	logger   *zap.Logger

	now func() time.Time
}

func NewFinancialService(
	patients repository.PatientsRepository,
	messages repository.MessagesRepository,
	values repository.ValuesRepository,
	taxonomyStore *taxonomy.Store,
	cache store.KV,
	logger *zap.Logger,
) *FinancialService {
	return &FinancialService{
		patients: patients,
		messages: messages,
		values:   values,
		taxonomy: taxonomyStore,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// Summary computes the financial dashboard for one patient and period.
// Unknown periods fall back to the month default.
func (s *FinancialService) Summary(ctx context.Context, patientID int64, period string) (*FinancialSummary, error) {
	if _, err := s.patients.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}
	if period == "" {
		period = PeriodMonth
	}

	cacheKey := fmt.Sprintf("summary:financial:%d:%s", patientID, period)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		var summary FinancialSummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
	}

	start, _ := PeriodStart(period, s.now())
	categories, total, err := s.expensesByCategory(ctx, patientID, start)
	if err != nil {
		return nil, err
	}

	summary := &FinancialSummary{
		Income:     0, // only expenses are tracked for now
		Expenses:   total,
		Categories: categories,
		Period:     period,
	}
	s.cachePut(ctx, cacheKey, summary)
	return summary, nil
}

// ExpensesByCategory returns the per-category breakdown without the summary
// envelope.
func (s *FinancialService) ExpensesByCategory(ctx context.Context, patientID int64, period string) ([]ExpenseCategory, error) {
	if _, err := s.patients.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}
	start, _ := PeriodStart(period, s.now())
	categories, _, err := s.expensesByCategory(ctx, patientID, start)
	return categories, err
}

// expensesByCategory pulls in-window expense values and folds them into
// per-subcategory totals. Value text without any digits contributes nothing.
func (s *FinancialService) expensesByCategory(ctx context.Context, patientID int64, start time.Time) ([]ExpenseCategory, float64, error) {
	rows, err := s.values.ListCategoryValues(ctx, patientID, taxonomy.Expenses, start, 0)
	if err != nil {
		return nil, 0, err
	}

	totals := make(map[string]float64)
	var grandTotal float64
	for _, row := range rows {
		amount, ok := extract.Amount(row.Value)
		if !ok {
			continue
		}
		totals[row.SubcategoryName] += amount
		grandTotal += amount
	}

	categories := make([]ExpenseCategory, 0, len(totals))
	for name, amount := range totals {
		categories = append(categories, ExpenseCategory{
			Name:   name,
			Amount: amount,
			Color:  taxonomy.CategoryColor(name),
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Amount != categories[j].Amount {
			return categories[i].Amount > categories[j].Amount
		}
		return categories[i].Name < categories[j].Name
	})

	return categories, grandTotal, nil
}

// CreateTransaction registers a manual financial entry: a synthesized manual
// message plus, for expenses, one classified value under Gastos.
func (s *FinancialService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*Transaction, error) {
	if req.PatientID == 0 || req.Type == "" || req.Category == "" || req.Date == "" {
		return nil, fmt.Errorf("%w: patient_id, type, category, amount and date are required", ErrValidation)
	}
	if req.Type != "expense" && req.Type != "income" {
		return nil, fmt.Errorf("%w: type must be income or expense", ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if _, err := s.patients.GetPatient(ctx, req.PatientID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		Content: fmt.Sprintf("Registro manual: %s de $%.2f en categoría %s del %s",
			req.Type, req.Amount, req.Category, req.Date),
		ExternalID: "manual-" + uuid.NewString(),
		Manual:     true,
		PatientID:  req.PatientID,
		CreatedAt:  date,
	}

	var values []domain.ClassifiedValue
	if req.Type == "expense" {
		sub, ok := s.taxonomy.Subcategory(taxonomy.Expenses, req.Category)
		if !ok {
			// unmapped category names land in the catch-all subcategory
			sub, ok = s.taxonomy.Subcategory(taxonomy.Expenses, taxonomy.SubOther)
			if !ok {
				return nil, fmt.Errorf("expenses taxonomy is missing its %q subcategory", taxonomy.SubOther)
			}
		}
		values = append(values, domain.ClassifiedValue{
			SubcategoryID: sub.ID,
			Value:         strconv.FormatFloat(req.Amount, 'f', -1, 64),
			Confidence:    1.0,
		})
	}

	if err := s.messages.SaveClassified(ctx, msg, values); err != nil {
		return nil, fmt.Errorf("failed to save manual transaction: %w", err)
	}
	s.invalidateSummaries(ctx, req.PatientID)

	tx := &Transaction{
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount,
		Date:     req.Date,
	}
	if len(values) > 0 {
		tx.ID = values[0].ID
	}
	return tx, nil
}

// UpdateTransaction applies a partial edit to a manual entry. The value is
// rewritten and the owning message gets an edited marker.
func (s *FinancialService) UpdateTransaction(ctx context.Context, id int64, req UpdateTransactionRequest) (*Transaction, error) {
	if req.Description == nil && req.Amount == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	if req.Amount != nil && *req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	existing, err := s.values.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	value := existing.Value
	if req.Amount != nil {
		value = strconv.FormatFloat(*req.Amount, 'f', -1, 64)
	}
	content := existing.MessageContent
	if req.Description != nil {
		content = *req.Description
	}
	content = markEdited(content)

	if err := s.values.UpdateTransaction(ctx, id, value, content); err != nil {
		return nil, err
	}
	s.invalidateSummaries(ctx, existing.PatientID)

	amount, _ := extract.Amount(value)
	return &Transaction{
		ID:       id,
		Type:     "expense",
		Category: existing.SubcategoryName,
		Amount:   amount,
		Date:     existing.CreatedAt.Format("2006-01-02"),
	}, nil
}

// DeleteTransaction removes a manual entry and its message.
func (s *FinancialService) DeleteTransaction(ctx context.Context, id int64) error {
	existing, err := s.values.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if err := s.values.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.invalidateSummaries(ctx, existing.PatientID)
	return nil
}

const editedMarker = "(editado)"

func markEdited(content string) string {
	if strings.HasSuffix(content, editedMarker) {
		return content
	}
	return content + " " + editedMarker
}

func (s *FinancialService) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrMiss) {
			s.logger.Warn("summary cache read failed", zap.Error(err))
		}
		return "", false
	}
	return cached, true
}

func (s *FinancialService) cachePut(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(encoded), summaryCacheTTL); err != nil {
		s.logger.Warn("summary cache write failed", zap.Error(err))
	}
}

func (s *FinancialService) invalidateSummaries(ctx context.Context, patientID int64) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, 4)
	for _, p := range []string{PeriodDay, PeriodWeek, PeriodFortnight, PeriodMonth} {
		keys = append(keys, fmt.Sprintf("summary:financial:%d:%s", patientID, p))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Warn("summary cache invalidation failed", zap.Error(err))
	}
}
