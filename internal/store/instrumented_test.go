package store

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/harentsoaR/healthdesk-api/internal/metrics"
)

func TestInstrumentedRecordsOutcomes(t *testing.T) {
	m := metrics.New("test")
	s := NewInstrumented(NewMemoryStore(), m)
	ctx := context.Background()
	require.NoError(t, s.EnsureUniqueIndex(ctx, "notes", "owner"))

	_, err := s.InsertOne(ctx, "notes", note{Owner: "a"})
	require.NoError(t, err)
	_, err = s.InsertOne(ctx, "notes", note{Owner: "a"})
	require.Error(t, err)

	var got note
	_ = s.FindOne(ctx, "notes", bson.M{"owner": "nobody"}, &got)
	_ = s.FindByID(ctx, "notes", "bad", &got)

	ops := m.StoreOperations
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("insert_one", "notes", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("insert_one", "notes", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("find_one", "notes", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("find_by_id", "notes", "validation")))
}

func TestInstrumentedWithoutMetrics(t *testing.T) {
	s := NewInstrumented(NewMemoryStore(), nil)

	_, err := s.InsertOne(context.Background(), "notes", note{Owner: "a"})
	assert.NoError(t, err)
	assert.NoError(t, s.Ping(context.Background()))
}
