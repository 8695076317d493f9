package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthdesk-api/internal/apperrors"
	"github.com/harentsoaR/healthdesk-api/internal/metrics"
	"github.com/harentsoaR/healthdesk-api/internal/models"
	"github.com/harentsoaR/healthdesk-api/internal/store"
	"github.com/harentsoaR/healthdesk-api/internal/validation"
)

// Notifier is told about every enquiry after it has been stored. It must not
// block the caller.
type Notifier interface {
	EnquiryReceived(enquiry *models.Enquiry)
}

type EnquiryService struct {
	store    store.Store
	notifier Notifier
	log      zerolog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewEnquiryService builds the service. notifier may be nil.
func NewEnquiryService(st store.Store, notifier Notifier, logger zerolog.Logger, m *metrics.Metrics) *EnquiryService {
	return &EnquiryService{
		store:    st,
		notifier: notifier,
		log:      logger.With().Str("service", "enquiries").Logger(),
		metrics:  m,
		now:      time.Now,
	}
}

// Create validates and stores a new enquiry. The status is always pending,
// whatever the payload carried.
func (s *EnquiryService) Create(ctx context.Context, payload validation.EnquiryCreate) (*models.EnquiryResponse, error) {
	p, err := validation.ValidateEnquiryCreate(payload)
	if err != nil {
		return nil, err
	}

	enquiry := &models.Enquiry{
		PatientName:  p.PatientName,
		PatientEmail: p.PatientEmail,
		PatientPhone: p.PatientPhone,
		Subject:      p.Subject,
		Message:      p.Message,
		Status:       models.StatusPending,
		CreatedAt:    timestamp(s.now),
	}
	id, err := s.store.InsertOne(ctx, models.EnquiriesCollection, enquiry)
	if err != nil {
		return nil, err
	}
	if enquiry.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperrors.Persistence("insert into "+models.EnquiriesCollection, err)
	}

	s.metrics.EnquiryCreated()
	s.log.Info().Str("enquiry_id", id).Msg("enquiry recorded")
	if s.notifier != nil {
		s.notifier.EnquiryReceived(enquiry)
	}
	return models.NewEnquiryResponse(enquiry), nil
}

// ListAll returns every enquiry in the store's native order. The result is
// never nil.
func (s *EnquiryService) ListAll(ctx context.Context) ([]*models.EnquiryResponse, error) {
	var enquiries []models.Enquiry
	if err := s.store.FindAll(ctx, models.EnquiriesCollection, &enquiries); err != nil {
		return nil, err
	}

	out := make([]*models.EnquiryResponse, 0, len(enquiries))
	for i := range enquiries {
		out = append(out, models.NewEnquiryResponse(&enquiries[i]))
	}
	return out, nil
}

func (s *EnquiryService) GetByID(ctx context.Context, id string) (*models.EnquiryResponse, error) {
	var enquiry models.Enquiry
	err := s.store.FindByID(ctx, models.EnquiriesCollection, id, &enquiry)
	if errors.Is(err, store.ErrNoDocuments) {
		return nil, apperrors.NotFound("enquiry")
	}
	if err != nil {
		return nil, err
	}
	return models.NewEnquiryResponse(&enquiry), nil
}
