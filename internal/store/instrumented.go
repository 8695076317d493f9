package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/harentsoaR/healthdesk-api/internal/apperrors"
	"github.com/harentsoaR/healthdesk-api/internal/metrics"
)

// Instrumented decorates a Store with operation counters and latency
// histograms.
type Instrumented struct {
	next    Store
	metrics *metrics.Metrics
}

func NewInstrumented(next Store, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (s *Instrumented) observe(op, collection string, start time.Time, err error) {
	s.metrics.ObserveStore(op, collection, outcome(err), time.Since(start))
}

func (s *Instrumented) InsertOne(ctx context.Context, collection string, doc any) (id string, err error) {
	defer func(start time.Time) { s.observe("insert_one", collection, start, err) }(time.Now())
	return s.next.InsertOne(ctx, collection, doc)
}

func (s *Instrumented) FindOne(ctx context.Context, collection string, filter bson.M, out any) (err error) {
	defer func(start time.Time) { s.observe("find_one", collection, start, err) }(time.Now())
	return s.next.FindOne(ctx, collection, filter, out)
}

func (s *Instrumented) FindByID(ctx context.Context, collection, id string, out any) (err error) {
	defer func(start time.Time) { s.observe("find_by_id", collection, start, err) }(time.Now())
	return s.next.FindByID(ctx, collection, id, out)
}

func (s *Instrumented) FindAll(ctx context.Context, collection string, out any) (err error) {
	defer func(start time.Time) { s.observe("find_all", collection, start, err) }(time.Now())
	return s.next.FindAll(ctx, collection, out)
}

func (s *Instrumented) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	return s.next.EnsureUniqueIndex(ctx, collection, field)
}

func (s *Instrumented) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *Instrumented) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoDocuments):
		return "not_found"
	default:
		return apperrors.KindOf(err).String()
	}
}
