package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/registry-service/internal/domain"
	"github.com/spec-kit/registry-service/internal/events"
	"github.com/spec-kit/registry-service/internal/observability"
	"github.com/spec-kit/registry-service/internal/repository"
	"github.com/spec-kit/registry-service/internal/validation"
	apperrors "github.com/spec-kit/registry-service/pkg/util"
)

// User-facing messages for intake failures.
const (
	MsgDuplicateEmail = "This email has already been registered"
	MsgStoreFailed    = "We could not save your submission. Please try again."
)

// StatsInvalidator is told when stored aggregates change.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

// SubmissionService runs the intake pipeline: honeypot, validation,
// uniqueness policy, persistence and event publication.
type SubmissionService struct {
	submissions        repository.SubmissionRepository
	dispatcher         events.Dispatcher
	stats              StatsInvalidator
	metrics            *observability.Metrics
	logger             *zap.Logger
	enforceUniqueEmail bool
	now                func() time.Time
}

// SubmissionDependencies bundles collaborators for the submission service.
type SubmissionDependencies struct {
	SubmissionRepo     repository.SubmissionRepository
	Dispatcher         events.Dispatcher
	Stats              StatsInvalidator
	Metrics            *observability.Metrics
	Logger             *zap.Logger
	EnforceUniqueEmail bool
}

// NewSubmissionService constructs the service.
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		submissions:        deps.SubmissionRepo,
		dispatcher:         deps.Dispatcher,
		stats:              deps.Stats,
		metrics:            deps.Metrics,
		logger:             logger,
		enforceUniqueEmail: deps.EnforceUniqueEmail,
		now:                time.Now,
	}
}

// SubmitRegistration validates and stores a registry entry. A non-empty
// honeypot yields a synthetic submission that is neither stored nor published.
func (s *SubmissionService) SubmitRegistration(ctx context.Context, input validation.RegistrationInput, honeypot string) (*domain.Submission, error) {
	if isBot(honeypot) {
		return s.decoy(domain.SubmissionTypeRegistration), nil
	}
	submission, err := validation.Registration(input)
	if err != nil {
		return nil, s.invalid(domain.SubmissionTypeRegistration, err)
	}

	if s.enforceUniqueEmail {
		exists, err := s.submissions.ExistsByEmail(ctx, domain.SubmissionTypeRegistration, submission.Email)
		if err != nil {
			s.metrics.RecordSubmission(string(domain.SubmissionTypeRegistration), observability.OutcomeStoreFailed)
			return nil, apperrors.NewUpstreamUnavailable(MsgStoreFailed, err)
		}
		if exists {
			s.metrics.RecordSubmission(string(domain.SubmissionTypeRegistration), observability.OutcomeDuplicate)
			return nil, apperrors.NewConflict(MsgDuplicateEmail, map[string]any{"field": "email"})
		}
	}

	return s.store(ctx, submission)
}

// SubmitContact validates and stores a partnership inquiry. Contact inquiries
// are never checked for duplicate addresses.
func (s *SubmissionService) SubmitContact(ctx context.Context, input validation.ContactInput, honeypot string) (*domain.Submission, error) {
	if isBot(honeypot) {
		return s.decoy(domain.SubmissionTypeContact), nil
	}
	submission, err := validation.Contact(input)
	if err != nil {
		return nil, s.invalid(domain.SubmissionTypeContact, err)
	}
	return s.store(ctx, submission)
}

func (s *SubmissionService) store(ctx context.Context, submission *domain.Submission) (*domain.Submission, error) {
	submission.ID = newSubmissionID(submission.Type)
	submission.CreatedAt = s.now().UTC()

	if err := s.submissions.Create(ctx, submission); err != nil {
		s.metrics.RecordSubmission(string(submission.Type), observability.OutcomeStoreFailed)
		return nil, apperrors.NewUpstreamUnavailable(MsgStoreFailed, err)
	}
	s.metrics.RecordSubmission(string(submission.Type), observability.OutcomeStored)
	if s.stats != nil && submission.Type == domain.SubmissionTypeRegistration {
		s.stats.Invalidate(ctx)
	}

	s.publishEvent(ctx, events.NewSubmissionCreated(*submission))
	return submission, nil
}

func (s *SubmissionService) invalid(typ domain.SubmissionType, err error) error {
	s.metrics.RecordSubmission(string(typ), observability.OutcomeInvalid)
	var verr *validation.Error
	if errors.As(err, &verr) {
		return apperrors.NewValidationError(verr.Message, map[string]any{
			"field":  verr.Field,
			"reason": string(verr.Reason),
		})
	}
	return apperrors.NewValidationError(err.Error(), nil)
}

func (s *SubmissionService) decoy(typ domain.SubmissionType) *domain.Submission {
	s.metrics.RecordSubmission(string(typ), observability.OutcomeHoneypot)
	s.logger.Info("honeypot triggered", zap.String("type", string(typ)))
	return &domain.Submission{
		ID:        newSubmissionID(typ),
		Type:      typ,
		CreatedAt: s.now().UTC(),
	}
}

func (s *SubmissionService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("notification not queued",
			zap.String("event_id", event.ID),
			zap.Error(err))
		s.metrics.RecordNotification("queue", observability.OutcomeDropped)
	}
}

func newSubmissionID(typ domain.SubmissionType) string {
	return typ.IDPrefix() + uuid.NewString()
}

func isBot(honeypot string) bool {
	return strings.TrimSpace(honeypot) != ""
}
