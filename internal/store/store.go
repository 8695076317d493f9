// Package store is the document persistence layer used by the record
// services. Implementations translate driver failures into apperrors kinds:
// duplicate keys become Conflict, malformed ids become Validation, expired
// contexts become a Persistence timeout and anything else is Persistence.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthdesk-api/internal/apperrors"
)

// ErrNoDocuments is returned by FindOne and FindByID when nothing matches.
var ErrNoDocuments = errors.New("store: no documents in result")

// Store is the minimal contract the services need from a document database.
type Store interface {
	// InsertOne stores doc and returns its assigned id as a hex string.
	InsertOne(ctx context.Context, collection string, doc any) (string, error)
	// FindOne decodes the first document matching every key of filter.
	FindOne(ctx context.Context, collection string, filter bson.M, out any) error
	// FindByID decodes the document whose _id is the ObjectID hex id.
	FindByID(ctx context.Context, collection, id string, out any) error
	// FindAll decodes every document of collection into out, a pointer to a slice.
	FindAll(ctx context.Context, collection string, out any) error
	EnsureUniqueIndex(ctx context.Context, collection, field string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ParseID converts an outward id into the store's native identifier.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("invalid id format", map[string]string{
			"id": "must be a 24-character hexadecimal identifier",
		}, err)
	}
	return oid, nil
}

func contextError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.PersistenceTimeout(op, err)
	}
	return nil
}
