package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sandalio7/Serena/internal/domain"
	"github.com/sandalio7/Serena/internal/repository"
	"github.com/sandalio7/Serena/internal/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func healthFixture() (*HealthService, *fakeMessages, *fakeValues) {
	patients := newFakePatients()
	patients.patients[3] = &domain.Patient{ID: 3, Name: "Elena"}
	messages := newFakeMessages()
	values := newFakeValues()
	svc := NewHealthService(patients, messages, values, zap.NewNop())
	return svc, messages, values
}

func TestHealthSummaryEmptyWindowReportsUnavailable(t *testing.T) {
	svc, messages, _ := healthFixture()
	messages.hasSince = false

	summary, err := svc.Summary(context.Background(), 3, PeriodWeek)
	require.NoError(t, err)

	assert.Equal(t, NotAvailable, summary.PhysicalVars.BloodPressure.Value)
	assert.Equal(t, NotAvailable, summary.PhysicalVars.Temperature.Value)
	assert.Equal(t, NotAvailable, summary.PhysicalVars.OxygenSaturation.Value)
	assert.Equal(t, NotAvailable, summary.Sleep.Hours)
	assert.Equal(t, NotAvailable, summary.CognitiveState.Description)
	assert.Zero(t, summary.CognitiveState.Rating)
	assert.Equal(t, NotAvailable, summary.GeneralConclusion)
}

func TestHealthSummaryFullWindow(t *testing.T) {
	svc, messages, values := healthFixture()
	messages.hasSince = true

	symptomsKey := taxonomy.PhysicalHealth + "/" + taxonomy.SubSymptoms
	values.subRows[symptomsKey] = []repository.ValueRow{
		// newest first; the second temperature row must not win
		{ID: 1, Value: "temperatura de 37,5 grados", Confidence: 0.9},
		{ID: 2, Value: "presión 120/80", Confidence: 0.6},
		{ID: 3, Value: "temperatura 39", Confidence: 0.9},
		{ID: 4, Value: "oxígeno al 97%", Confidence: 0.85},
	}
	values.subRows[taxonomy.PhysicalHealth+"/"+taxonomy.SubSleep] = []repository.ValueRow{
		{ID: 5, Value: "durmió 6,5 horas", Confidence: 0.9},
	}
	values.subRows[taxonomy.PhysicalHealth+"/"+taxonomy.SubMobility] = []repository.ValueRow{
		{ID: 6, Value: "camina sin ayuda", Confidence: 0.8},
	}
	values.categoryRows[taxonomy.CognitiveHealth] = []repository.ValueRow{
		{ID: 7, Value: "recuerda a sus nietos", Confidence: 0.9},
	}
	values.categoryRows[taxonomy.EmotionalState] = []repository.ValueRow{
		{ID: 8, Value: "está animada", Confidence: 0.7},
	}

	summary, err := svc.Summary(context.Background(), 3, PeriodWeek)
	require.NoError(t, err)

	assert.Equal(t, "37.5", summary.PhysicalVars.Temperature.Value)
	assert.Equal(t, "Normal", summary.PhysicalVars.Temperature.Status)
	assert.Equal(t, "120/80", summary.PhysicalVars.BloodPressure.Value)
	assert.Equal(t, "Moderado", summary.PhysicalVars.BloodPressure.Status)
	assert.Equal(t, "97", summary.PhysicalVars.OxygenSaturation.Value)

	assert.Equal(t, "6,5", summary.Sleep.Hours)
	assert.Equal(t, "Moderado", summary.Sleep.Status)

	assert.Equal(t, 8, summary.PhysicalState.Rating)
	assert.Equal(t, "camina sin ayuda", summary.PhysicalState.Description)
	assert.Equal(t, 9, summary.CognitiveState.Rating)
	assert.Equal(t, 7, summary.EmotionalState.Rating)

	// mean of 9, 8, 7 is 8
	assert.Equal(t, "Bueno", summary.GeneralConclusion)
}

func TestHealthSummaryConclusionFromAvailableStatesOnly(t *testing.T) {
	svc, messages, values := healthFixture()
	messages.hasSince = true
	values.categoryRows[taxonomy.EmotionalState] = []repository.ValueRow{
		{ID: 1, Value: "está irritable", Confidence: 0.4},
	}

	summary, err := svc.Summary(context.Background(), 3, PeriodDay)
	require.NoError(t, err)

	// only the emotional rating (4) is available
	assert.Equal(t, "Malo", summary.GeneralConclusion)
	assert.Equal(t, NotAvailable, summary.CognitiveState.Description)
	assert.Equal(t, NotAvailable, summary.PhysicalVars.Temperature.Value)
}

func TestHealthSummaryUnknownPatient(t *testing.T) {
	svc, _, _ := healthFixture()

	_, err := svc.Summary(context.Background(), 99, PeriodWeek)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMetricsHistoryChronological(t *testing.T) {
	svc, _, values := healthFixture()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	values.subRows[taxonomy.PhysicalHealth+"/"+taxonomy.SubSymptoms] = []repository.ValueRow{
		// newest first, as the repository returns them
		{ID: 3, Value: "presión 130/85", Confidence: 0.9, CreatedAt: base.AddDate(0, 0, 10)},
		{ID: 2, Value: "temperatura 38", Confidence: 0.9, CreatedAt: base.AddDate(0, 0, 5)},
		{ID: 1, Value: "presión 120/80", Confidence: 0.6, CreatedAt: base},
	}

	points, err := svc.MetricsHistory(context.Background(), 3, "blood_pressure", PeriodMonth)
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, "2026-08-01", points[0].Date)
	assert.Equal(t, "120/80", points[0].Value)
	assert.Equal(t, "2026-08-11", points[1].Date)
	assert.Equal(t, "130/85", points[1].Value)
}

func TestMetricsHistoryUnsupportedMetric(t *testing.T) {
	svc, _, _ := healthFixture()

	_, err := svc.MetricsHistory(context.Background(), 3, "weight", PeriodMonth)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHistoryTruncatesLongMessages(t *testing.T) {
	svc, _, values := healthFixture()
	long := make([]byte, 150)
	for i := range long {
		long[i] = 'a'
	}
	created := time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC)
	values.history = []repository.HistoryRow{
		{
			ID:              1,
			MessageContent:  string(long),
			CategoryName:    taxonomy.PhysicalHealth,
			SubcategoryName: taxonomy.SubSleep,
			Value:           "durmió 8 horas",
			Confidence:      0.85,
			CreatedAt:       created,
		},
		{
			ID:              2,
			MessageContent:  "corto",
			CategoryName:    taxonomy.EmotionalState,
			SubcategoryName: "Humor",
			Value:           "contenta",
			Confidence:      0.66,
			CreatedAt:       created,
		},
	}

	items, err := svc.History(context.Background(), 3, PeriodDay, "")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Len(t, items[0].OriginalText, 103)
	assert.Equal(t, string(long[:100])+"...", items[0].OriginalText)
	assert.Equal(t, "20/08/2026", items[0].Date)
	assert.Equal(t, "14:30", items[0].Time)
	assert.Equal(t, 9, items[0].Rating)
	assert.Equal(t, "corto", items[1].OriginalText)
	assert.Equal(t, 7, items[1].Rating)
}

func TestHistoryTruncatesOnRuneBoundaries(t *testing.T) {
	svc, _, values := healthFixture()
	// 99 ASCII characters followed by accented text puts a multi-byte rune
	// right on the cut point.
	long := strings.Repeat("a", 99) + "ómitió la medicación de la mañana"
	values.history = []repository.HistoryRow{
		{
			ID:              1,
			MessageContent:  long,
			CategoryName:    taxonomy.Medication,
			SubcategoryName: "Cumplimiento",
			Value:           "omitida",
			Confidence:      0.9,
			CreatedAt:       time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC),
		},
	}

	items, err := svc.History(context.Background(), 3, PeriodDay, "")
	require.NoError(t, err)

	require.Len(t, items, 1)
	got := items[0].OriginalText
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 99)+"ó...", got)
	assert.Equal(t, 103, utf8.RuneCountInString(got))
}

func TestHistoryDefaultsToMonthWindow(t *testing.T) {
	svc, _, values := healthFixture()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// An absent period resolves to the shared month default rather than
	// being rejected.
	_, err := svc.History(context.Background(), 3, "", "")
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -30), values.historyStart)
}

func TestHistoryCategoryFilterMapped(t *testing.T) {
	svc, _, values := healthFixture()

	_, err := svc.History(context.Background(), 3, PeriodWeek, "cognitive")
	require.NoError(t, err)
	assert.Equal(t, taxonomy.CognitiveHealth, values.historyFilter)

	// unknown filters degrade to no filter
	_, err = svc.History(context.Background(), 3, PeriodWeek, "bogus")
	require.NoError(t, err)
	assert.Empty(t, values.historyFilter)
}

func TestStatusMappingThroughSummary(t *testing.T) {
	svc, messages, values := healthFixture()
	messages.hasSince = true
	values.subRows[taxonomy.PhysicalHealth+"/"+taxonomy.SubSymptoms] = []repository.ValueRow{
		{ID: 1, Value: "temperatura 36.5", Confidence: 0.2},
	}

	summary, err := svc.Summary(context.Background(), 3, PeriodDay)
	require.NoError(t, err)
	assert.Equal(t, "Bajo", summary.PhysicalVars.Temperature.Status)
}
