package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthdesk-api/internal/apperrors"
	"github.com/harentsoaR/healthdesk-api/internal/metrics"
	"github.com/harentsoaR/healthdesk-api/internal/models"
	"github.com/harentsoaR/healthdesk-api/internal/store"
	"github.com/harentsoaR/healthdesk-api/internal/validation"
)

type recordingNotifier struct {
	mu       sync.Mutex
	received []*models.Enquiry
}

func (n *recordingNotifier) EnquiryReceived(e *models.Enquiry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, e)
}

func validEnquiry() validation.EnquiryCreate {
	return validation.EnquiryCreate{
		PatientName:  "Jane Doe",
		PatientEmail: "jane@x.com",
		PatientPhone: "1234567890",
		Subject:      "Follow-up",
		Message:      "Need appointment",
	}
}

func TestCreateEnquiry(t *testing.T) {
	notifier := &recordingNotifier{}
	m := metrics.New("test")
	svc := NewEnquiryService(store.NewMemoryStore(), notifier, zerolog.Nop(), m)
	before := time.Now().UTC().Add(-time.Second)

	created, err := svc.Create(context.Background(), validEnquiry())
	require.NoError(t, err)

	assert.True(t, primitive.IsValidObjectID(created.ID))
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "Jane Doe", created.PatientName)
	assert.Equal(t, "jane@x.com", created.PatientEmail)
	assert.Equal(t, "1234567890", created.PatientPhone)
	assert.Equal(t, "Follow-up", created.Subject)
	assert.Equal(t, "Need appointment", created.Message)
	assert.True(t, created.CreatedAt.After(before))
	assert.Equal(t, time.UTC, created.CreatedAt.Location())

	require.Len(t, notifier.received, 1)
	assert.Equal(t, created.ID, notifier.received[0].ID.Hex())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EnquiriesCreated))
}

func TestCreateEnquiryIgnoresSuppliedStatus(t *testing.T) {
	svc := NewEnquiryService(store.NewMemoryStore(), nil, zerolog.Nop(), nil)

	for _, status := range []string{"completed", "in-progress", "bogus"} {
		payload := validEnquiry()
		payload.Status = status

		created, err := svc.Create(context.Background(), payload)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, created.Status)

		fetched, err := svc.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, fetched.Status)
	}
}

func TestCreateEnquiryValidation(t *testing.T) {
	notifier := &recordingNotifier{}
	st := store.NewMemoryStore()
	svc := NewEnquiryService(st, notifier, zerolog.Nop(), nil)
	payload := validEnquiry()
	payload.PatientPhone = "12345"

	_, err := svc.Create(context.Background(), payload)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Empty(t, notifier.received)

	list, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListAllEnquiries(t *testing.T) {
	svc := NewEnquiryService(store.NewMemoryStore(), nil, zerolog.Nop(), nil)
	ctx := context.Background()

	list, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	ids := make(map[string]bool)
	for _, subject := range []string{"First", "Second", "Third"} {
		payload := validEnquiry()
		payload.Subject = subject
		created, err := svc.Create(ctx, payload)
		require.NoError(t, err)
		ids[created.ID] = true
	}

	list, err = svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, e := range list {
		assert.True(t, ids[e.ID])
	}
}

func TestGetEnquiryByID(t *testing.T) {
	svc := NewEnquiryService(store.NewMemoryStore(), nil, zerolog.Nop(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, validEnquiry())
	require.NoError(t, err)

	fetched, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	_, err = svc.GetByID(ctx, "not-an-object-id")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = svc.GetByID(ctx, primitive.NewObjectID().Hex())
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestCreateEnquiryExpiredContext(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewEnquiryService(store.NewMemoryStore(), notifier, zerolog.Nop(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := svc.Create(ctx, validEnquiry())
	assert.True(t, apperrors.IsTimeout(err))
	assert.Empty(t, notifier.received)
}
