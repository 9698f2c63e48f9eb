package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sandalio7/Serena/internal/classifier"
	"github.com/sandalio7/Serena/internal/domain"
	"github.com/sandalio7/Serena/internal/repository"
	"github.com/sandalio7/Serena/internal/taxonomy"
	"github.com/sandalio7/Serena/internal/webhook"

	"go.uber.org/zap"
)

// ErrUnknownCaregiver the sender's phone number is not registered
var ErrUnknownCaregiver = errors.New("no caregiver registered for sender")

// Classifier is what the ingest pipeline needs from the classification client
type Classifier interface {
	Classify(ctx context.Context, messageText string, preferred string) classifier.Result
}

// Notifier delivers outbound confirmations; best-effort only
type Notifier interface {
	Send(toNumber, body string) error
}

// IngestOutcome everything that happened to one inbound message
type IngestOutcome struct {
	MessageID int64 `json:"message_id"`
	// Duplicate means this external id was already processed; nothing new
	// was stored.
	Duplicate bool `json:"duplicate"`
	// ClassificationFailed means every model candidate failed; the message
	// was stored with zero classified values.
	ClassificationFailed bool          `json:"classification_failed"`
	Model                string        `json:"model,omitempty"`
	PersistedValues      int           `json:"persisted_values"`
	Skipped              []SkippedLeaf `json:"skipped,omitempty"`
	Summary              string        `json:"summary,omitempty"`
}

// IngestService runs the full pipeline for one inbound webhook message:
// caregiver resolution, deduplication, classification, normalization and the
// transactional write. Synchronous on the ingesting request; there is no
// background queue.
type IngestService struct {
	patients   repository.PatientsRepository
	messages   repository.MessagesRepository
	taxonomy   *taxonomy.Store
	classifier Classifier
	notifier   Notifier // nil when outbound confirmations are disabled
	logger     *zap.Logger

	// Soft affinity for the model that last worked. Process-local, reset on
	// restart.
	mu             sync.Mutex
	preferredModel string
}

func NewIngestService(
	patients repository.PatientsRepository,
	messages repository.MessagesRepository,
	taxonomyStore *taxonomy.Store,
	cls Classifier,
	notifier Notifier,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		patients:   patients,
		messages:   messages,
		taxonomy:   taxonomyStore,
		classifier: cls,
		notifier:   notifier,
		logger:     logger,
	}
}

// ProcessInbound ingests one normalized inbound message.
func (s *IngestService) ProcessInbound(ctx context.Context, in webhook.InboundMessage) (*IngestOutcome, error) {
	caregiver, err := s.patients.GetCaregiverByPhone(ctx, in.Sender)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCaregiver, in.Sender)
		}
		return nil, fmt.Errorf("caregiver lookup failed: %w", err)
	}

	// Dedupe before spending a classification call on it.
	if exists, err := s.messages.MessageExists(ctx, in.ExternalID); err != nil {
		return nil, fmt.Errorf("deduplication check failed: %w", err)
	} else if exists {
		s.logger.Info("duplicate message ignored",
			zap.String("external_id", in.ExternalID),
			zap.String("provider", string(in.Provider)),
		)
		return &IngestOutcome{Duplicate: true}, nil
	}

	result := s.classifier.Classify(ctx, in.Text, s.preferred())
	outcome := &IngestOutcome{Model: result.Model, Summary: result.Summary}
	if result.Err != nil {
		// Classification failure does not abort ingestion: the message is
		// stored so a later reclassification is possible.
		s.logger.Error("classification failed for message", zap.Error(result.Err))
		outcome.ClassificationFailed = true
	} else {
		s.setPreferred(result.Model)
	}

	normalized := Normalize(result, s.taxonomy)
	outcome.Skipped = normalized.Skipped
	for _, skip := range normalized.Skipped {
		s.logger.Warn("taxonomy mismatch, leaf skipped",
			zap.String("category", skip.Category),
			zap.String("subcategory", skip.Subcategory),
			zap.String("reason", skip.Reason),
		)
	}

	msg := &domain.Message{
		Content:     in.Text,
		ExternalID:  in.ExternalID,
		CaregiverID: caregiver.ID,
		PatientID:   caregiver.PatientID,
	}
	if err := s.messages.SaveClassified(ctx, msg, normalized.Values); err != nil {
		if errors.Is(err, repository.ErrDuplicateMessage) {
			// Lost the race with a concurrent delivery of the same id.
			return &IngestOutcome{Duplicate: true}, nil
		}
		return nil, fmt.Errorf("failed to persist classification batch: %w", err)
	}
	outcome.MessageID = msg.ID
	outcome.PersistedValues = len(normalized.Values)

	s.logger.Info("message ingested",
		zap.Int64("message_id", msg.ID),
		zap.Int64("patient_id", caregiver.PatientID),
		zap.String("provider", string(in.Provider)),
		zap.String("model", result.Model),
		zap.Int("persisted_values", outcome.PersistedValues),
		zap.Int("skipped", len(normalized.Skipped)),
	)

	s.confirm(in.Sender, outcome)
	return outcome, nil
}

func (s *IngestService) confirm(sender string, outcome *IngestOutcome) {
	if s.notifier == nil || sender == "" {
		return
	}
	body := "Mensaje recibido y registrado correctamente."
	if outcome.ClassificationFailed {
		body = "Mensaje recibido. Lo clasificaremos en cuanto sea posible."
	}
	if err := s.notifier.Send(sender, body); err != nil {
		s.logger.Warn("confirmation send failed", zap.Error(err))
	}
}

func (s *IngestService) preferred() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preferredModel
}

func (s *IngestService) setPreferred(model string) {
	if model == "" {
		return
	}
	s.mu.Lock()
	s.preferredModel = model
	s.mu.Unlock()
}
