package service

import (
	"context"
	"time"

	"github.com/sandalio7/Serena/internal/classifier"
	"github.com/sandalio7/Serena/internal/domain"
	"github.com/sandalio7/Serena/internal/repository"
	"github.com/sandalio7/Serena/internal/store"
)

// In-memory doubles for the repository interfaces. The postgres
// implementations are covered by their own sqlmock tests; these exist so the
// service tests exercise orchestration only.

type fakePatients struct {
	patients   map[int64]*domain.Patient
	caregivers map[string]*domain.Caregiver
}

func newFakePatients() *fakePatients {
	return &fakePatients{
		patients:   make(map[int64]*domain.Patient),
		caregivers: make(map[string]*domain.Caregiver),
	}
}

func (f *fakePatients) GetPatient(_ context.Context, id int64) (*domain.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePatients) ListPatients(_ context.Context) ([]domain.Patient, error) {
	out := make([]domain.Patient, 0, len(f.patients))
	for _, p := range f.patients {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePatients) GetCaregiverByPhone(_ context.Context, phone string) (*domain.Caregiver, error) {
	c, ok := f.caregivers[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type savedBatch struct {
	msg    domain.Message
	values []domain.ClassifiedValue
}

type fakeMessages struct {
	existing map[string]bool
	hasSince bool
	saveErr  error

	saved  []savedBatch
	nextID int64
}

func newFakeMessages() *fakeMessages {
	return &fakeMessages{existing: make(map[string]bool), nextID: 100}
}

func (f *fakeMessages) MessageExists(_ context.Context, externalID string) (bool, error) {
	return f.existing[externalID], nil
}

func (f *fakeMessages) HasMessagesSince(_ context.Context, _ int64, _ time.Time) (bool, error) {
	return f.hasSince, nil
}

func (f *fakeMessages) SaveClassified(_ context.Context, msg *domain.Message, values []domain.ClassifiedValue) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.nextID++
	msg.ID = f.nextID
	for i := range values {
		f.nextID++
		values[i].ID = f.nextID
		values[i].MessageID = msg.ID
	}
	f.saved = append(f.saved, savedBatch{msg: *msg, values: values})
	f.existing[msg.ExternalID] = true
	return nil
}

type fakeValues struct {
	categoryRows map[string][]repository.ValueRow
	subRows      map[string][]repository.ValueRow
	history      []repository.HistoryRow
	transactions map[int64]*repository.TransactionRow

	categoryCalls int
	updatedValue  string
	updatedText   string
	deletedID     int64
	historyFilter string
	historyStart  time.Time
}

func newFakeValues() *fakeValues {
	return &fakeValues{
		categoryRows: make(map[string][]repository.ValueRow),
		subRows:      make(map[string][]repository.ValueRow),
		transactions: make(map[int64]*repository.TransactionRow),
	}
}

func (f *fakeValues) ListCategoryValues(_ context.Context, _ int64, categoryName string, _ time.Time, limit int) ([]repository.ValueRow, error) {
	f.categoryCalls++
	rows := f.categoryRows[categoryName]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeValues) ListSubcategoryValues(_ context.Context, _ int64, categoryName, subcategoryName string, _ time.Time, limit int) ([]repository.ValueRow, error) {
	rows := f.subRows[categoryName+"/"+subcategoryName]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeValues) ListHistory(_ context.Context, _ int64, start time.Time, categoryName string) ([]repository.HistoryRow, error) {
	f.historyFilter = categoryName
	f.historyStart = start
	if categoryName == "" {
		return f.history, nil
	}
	var out []repository.HistoryRow
	for _, row := range f.history {
		if row.CategoryName == categoryName {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeValues) GetTransaction(_ context.Context, id int64) (*repository.TransactionRow, error) {
	tx, ok := f.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return tx, nil
}

func (f *fakeValues) UpdateTransaction(_ context.Context, id int64, value string, messageContent string) error {
	if _, ok := f.transactions[id]; !ok {
		return repository.ErrNotFound
	}
	f.updatedValue = value
	f.updatedText = messageContent
	return nil
}

func (f *fakeValues) DeleteTransaction(_ context.Context, id int64) error {
	if _, ok := f.transactions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.transactions, id)
	f.deletedID = id
	return nil
}

type fakeClassifier struct {
	result    classifier.Result
	preferred []string
	calls     int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, preferred string) classifier.Result {
	f.calls++
	f.preferred = append(f.preferred, preferred)
	return f.result
}

type fakeNotifier struct {
	to   []string
	body []string
	err  error
}

func (f *fakeNotifier) Send(toNumber, body string) error {
	f.to = append(f.to, toNumber)
	f.body = append(f.body, body)
	return f.err
}

type memKV struct {
	data    map[string]string
	deleted []string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
		m.deleted = append(m.deleted, key)
	}
	return nil
}
