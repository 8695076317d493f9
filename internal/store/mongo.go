package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/harentsoaR/healthdesk-api/internal/apperrors"
)

// MongoStore implements Store on a MongoDB database.
type MongoStore struct {
	db *mongo.Database
}

// ConnectMongo dials uri, verifies the connection with a ping and returns a
// store bound to dbName.
func ConnectMongo(ctx context.Context, uri, dbName string, timeout time.Duration) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB ping failed: %w", err)
	}
	return NewMongoStore(client.Database(dbName)), nil
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, doc any) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", translate("insert into "+collection, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (s *MongoStore) FindOne(ctx context.Context, collection string, filter bson.M, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoDocuments
	}
	if err != nil {
		return translate("find in "+collection, err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, collection, id string, out any) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	return s.FindOne(ctx, collection, bson.M{"_id": oid}, out)
}

func (s *MongoStore) FindAll(ctx context.Context, collection string, out any) error {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return translate("find in "+collection, err)
	}
	defer cursor.Close(context.WithoutCancel(ctx))

	if err := cursor.All(ctx, out); err != nil {
		return translate("decode "+collection, err)
	}
	return nil
}

func (s *MongoStore) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field + "_unique"),
	}
	if _, err := s.db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
		return translate("create index on "+collection, err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return translate("ping", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

func translate(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.Conflict("duplicate key", err)
	}
	if ctxErr := contextError(op, err); ctxErr != nil {
		return ctxErr
	}
	if mongo.IsTimeout(err) {
		return apperrors.PersistenceTimeout(op, err)
	}
	return apperrors.Persistence(op, err)
}
