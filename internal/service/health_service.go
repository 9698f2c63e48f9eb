package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sandalio7/Serena/internal/extract"
	"github.com/sandalio7/Serena/internal/repository"
	"github.com/sandalio7/Serena/internal/taxonomy"

	"go.uber.org/zap"
)

// NotAvailable marks a health variable with no observation in the window.
const NotAvailable = "No disponible"

// recentScanLimit bounds how many recent symptom rows the summary inspects.
const recentScanLimit = 10

// Measurement one physical variable with its qualitative status
type Measurement struct {
	Value  string `json:"value"`
	Status string `json:"status"`
}

// SleepInfo hours slept and the status derived from the hours themselves
type SleepInfo struct {
	Hours  string `json:"hours"`
	Status string `json:"status"`
}

// StateInfo a 0-10 rating plus the classifier's descriptive text
type StateInfo struct {
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

// PhysicalVars measured vitals extracted from symptom values
type PhysicalVars struct {
	BloodPressure    Measurement `json:"bloodPressure"`
	Temperature      Measurement `json:"temperature"`
	OxygenSaturation Measurement `json:"oxygenSaturation"`
}

// HealthSummary dashboard view of a patient's recent health state
type HealthSummary struct {
	PhysicalVars      PhysicalVars `json:"physicalVars"`
	Sleep             SleepInfo    `json:"sleep"`
	CognitiveState    StateInfo    `json:"cognitiveState"`
	PhysicalState     StateInfo    `json:"physicalState"`
	EmotionalState    StateInfo    `json:"emotionalState"`
	GeneralConclusion string       `json:"generalConclusion"`
}

// MetricPoint one dated reading in a metric time series
type MetricPoint struct {
	Date   string `json:"date"`
	Value  string `json:"value"`
	Status string `json:"status"`
}

// HistoryItem one classified value in the audit listing
type HistoryItem struct {
	ID           int64   `json:"id"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	OriginalText string  `json:"original_text"`
	Category     string  `json:"category"`
	Subcategory  string  `json:"subcategory"`
	Value        string  `json:"value"`
	Rating       int     `json:"rating"`
	Confidence   float64 `json:"confidence"`
}

// HealthService derived health summaries over classified values
type HealthService struct {
	patients repository.PatientsRepository
	messages repository.MessagesRepository
	values   repository.ValuesRepository
	logger   *zap.Logger

	now func() time.Time
}

func NewHealthService(
	patients repository.PatientsRepository,
	messages repository.MessagesRepository,
	values repository.ValuesRepository,
	logger *zap.Logger,
) *HealthService {
	return &HealthService{
		patients: patients,
		messages: messages,
		values:   values,
		logger:   logger,
		now:      time.Now,
	}
}

// unavailableSummary is the shape returned when the window holds no messages.
// Variables report themselves as missing instead of fabricated normal values.
func unavailableSummary() *HealthSummary {
	na := Measurement{Value: NotAvailable, Status: NotAvailable}
	naState := StateInfo{Rating: 0, Description: NotAvailable}
	return &HealthSummary{
		PhysicalVars:      PhysicalVars{BloodPressure: na, Temperature: na, OxygenSaturation: na},
		Sleep:             SleepInfo{Hours: NotAvailable, Status: NotAvailable},
		CognitiveState:    naState,
		PhysicalState:     naState,
		EmotionalState:    naState,
		GeneralConclusion: NotAvailable,
	}
}

// Summary assembles the health dashboard for one patient and period.
func (s *HealthService) Summary(ctx context.Context, patientID int64, period string) (*HealthSummary, error) {
	if _, err := s.patients.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}
	start, _ := PeriodStart(period, s.now())

	hasMessages, err := s.messages.HasMessagesSince(ctx, patientID, start)
	if err != nil {
		return nil, err
	}
	summary := unavailableSummary()
	if !hasMessages {
		return summary, nil
	}

	if err := s.fillPhysicalVars(ctx, summary, patientID, start); err != nil {
		return nil, err
	}
	if err := s.fillSleep(ctx, summary, patientID, start); err != nil {
		return nil, err
	}

	mobility, err := s.latestValue(ctx, patientID, taxonomy.PhysicalHealth, taxonomy.SubMobility, start)
	if err != nil {
		return nil, err
	}
	if mobility != nil {
		summary.PhysicalState = StateInfo{Rating: extract.Rating(mobility.Confidence), Description: mobility.Value}
	}

	cognitive, err := s.latestCategoryValue(ctx, patientID, taxonomy.CognitiveHealth, start)
	if err != nil {
		return nil, err
	}
	if cognitive != nil {
		summary.CognitiveState = StateInfo{Rating: extract.Rating(cognitive.Confidence), Description: cognitive.Value}
	}

	emotional, err := s.latestCategoryValue(ctx, patientID, taxonomy.EmotionalState, start)
	if err != nil {
		return nil, err
	}
	if emotional != nil {
		summary.EmotionalState = StateInfo{Rating: extract.Rating(emotional.Confidence), Description: emotional.Value}
	}

	summary.GeneralConclusion = conclude(summary)
	return summary, nil
}

// fillPhysicalVars scans recent symptom values newest first. The first match
// per variable wins; later rows never overwrite a filled slot.
func (s *HealthService) fillPhysicalVars(ctx context.Context, summary *HealthSummary, patientID int64, start time.Time) error {
	rows, err := s.values.ListSubcategoryValues(ctx, patientID, taxonomy.PhysicalHealth, taxonomy.SubSymptoms, start, recentScanLimit)
	if err != nil {
		return err
	}
	for _, row := range rows {
		v := extract.Parse(row.Value)
		switch v.Kind {
		case extract.KindTemperature:
			if summary.PhysicalVars.Temperature.Value == NotAvailable {
				summary.PhysicalVars.Temperature = Measurement{
					Value:  strconv.FormatFloat(v.Celsius, 'f', -1, 64),
					Status: extract.StatusFromConfidence(row.Confidence),
				}
			}
		case extract.KindBloodPressure:
			if summary.PhysicalVars.BloodPressure.Value == NotAvailable {
				summary.PhysicalVars.BloodPressure = Measurement{
					Value:  fmt.Sprintf("%d/%d", v.Systolic, v.Diastolic),
					Status: extract.StatusFromConfidence(row.Confidence),
				}
			}
		case extract.KindOxygen:
			if summary.PhysicalVars.OxygenSaturation.Value == NotAvailable {
				summary.PhysicalVars.OxygenSaturation = Measurement{
					Value:  strconv.Itoa(v.Percent),
					Status: extract.StatusFromConfidence(row.Confidence),
				}
			}
		}
	}
	return nil
}

func (s *HealthService) fillSleep(ctx context.Context, summary *HealthSummary, patientID int64, start time.Time) error {
	row, err := s.latestValue(ctx, patientID, taxonomy.PhysicalHealth, taxonomy.SubSleep, start)
	if err != nil || row == nil {
		return err
	}
	hours, raw, ok := extract.SleepHours(row.Value)
	if !ok {
		return nil
	}
	summary.Sleep = SleepInfo{Hours: raw, Status: extract.StatusFromSleepHours(hours)}
	return nil
}

func (s *HealthService) latestValue(ctx context.Context, patientID int64, category, subcategory string, start time.Time) (*repository.ValueRow, error) {
	rows, err := s.values.ListSubcategoryValues(ctx, patientID, category, subcategory, start, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *HealthService) latestCategoryValue(ctx context.Context, patientID int64, category string, start time.Time) (*repository.ValueRow, error) {
	rows, err := s.values.ListCategoryValues(ctx, patientID, category, start, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// conclude averages the available cognitive, mobility and emotional ratings.
// Missing states do not contribute fabricated defaults.
func conclude(summary *HealthSummary) string {
	var sum, n int
	for _, st := range []StateInfo{summary.CognitiveState, summary.PhysicalState, summary.EmotionalState} {
		if st.Description == NotAvailable {
			continue
		}
		sum += st.Rating
		n++
	}
	if n == 0 {
		return NotAvailable
	}
	avg := float64(sum) / float64(n)
	switch {
	case avg >= 7:
		return "Bueno"
	case avg >= 5:
		return "Regular"
	default:
		return "Malo"
	}
}

// MetricsHistory returns a dated time series for one vital, oldest first.
// Supported metrics are blood_pressure and temperature.
func (s *HealthService) MetricsHistory(ctx context.Context, patientID int64, metricType, period string) ([]MetricPoint, error) {
	if metricType != "blood_pressure" && metricType != "temperature" {
		return nil, fmt.Errorf("%w: unsupported metric type %q", ErrValidation, metricType)
	}
	if _, err := s.patients.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}
	start, _ := PeriodStart(period, s.now())

	rows, err := s.values.ListSubcategoryValues(ctx, patientID, taxonomy.PhysicalHealth, taxonomy.SubSymptoms, start, 0)
	if err != nil {
		return nil, err
	}

	points := make([]MetricPoint, 0, len(rows))
	// rows arrive newest first; walk backwards for a chronological series
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		v := extract.Parse(row.Value)
		var value string
		switch {
		case metricType == "blood_pressure" && v.Kind == extract.KindBloodPressure:
			value = fmt.Sprintf("%d/%d", v.Systolic, v.Diastolic)
		case metricType == "temperature" && v.Kind == extract.KindTemperature:
			value = strconv.FormatFloat(v.Celsius, 'f', -1, 64)
		default:
			continue
		}
		points = append(points, MetricPoint{
			Date:   row.CreatedAt.Format("2006-01-02"),
			Value:  value,
			Status: extract.StatusFromConfidence(row.Confidence),
		})
	}
	return points, nil
}

// historyCategoryNames maps API filter keys to taxonomy category names.
var historyCategoryNames = map[string]string{
	"physical":   taxonomy.PhysicalHealth,
	"cognitive":  taxonomy.CognitiveHealth,
	"emotional":  taxonomy.EmotionalState,
	"medication": taxonomy.Medication,
}

// History returns the audit listing, most recent first. An unknown category
// filter is ignored rather than rejected.
func (s *HealthService) History(ctx context.Context, patientID int64, period, categoryFilter string) ([]HistoryItem, error) {
	if _, err := s.patients.GetPatient(ctx, patientID); err != nil {
		return nil, err
	}
	start, _ := PeriodStart(period, s.now())

	categoryName := historyCategoryNames[categoryFilter]
	rows, err := s.values.ListHistory(ctx, patientID, start, categoryName)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, HistoryItem{
			ID:           row.ID,
			Date:         row.CreatedAt.Format("02/01/2006"),
			Time:         row.CreatedAt.Format("15:04"),
			OriginalText: truncate(row.MessageContent, 100),
			Category:     row.CategoryName,
			Subcategory:  row.SubcategoryName,
			Value:        row.Value,
			Rating:       extract.Rating(row.Confidence),
			Confidence:   row.Confidence,
		})
	}
	return items, nil
}

// truncate cuts on rune boundaries so accented text near the limit stays
// valid UTF-8.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
