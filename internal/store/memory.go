package store

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthdesk-api/internal/apperrors"
)

// MemoryStore is an in-process Store for local runs and tests. Documents are
// kept BSON-encoded so they round-trip exactly like the Mongo driver would
// encode them, and unique indexes are enforced on insert.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	order  []primitive.ObjectID
	docs   map[primitive.ObjectID]bson.Raw
	unique []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// collection must be called with mu held for writing.
func (s *MemoryStore) collection(name string) *memoryCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[primitive.ObjectID]bson.Raw)}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) InsertOne(ctx context.Context, collection string, doc any) (string, error) {
	op := "insert into " + collection
	if err := contextError(op, ctx.Err()); err != nil {
		return "", err
	}

	id, raw, err := withObjectID(doc)
	if err != nil {
		return "", apperrors.Persistence(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	if _, exists := c.docs[id]; exists {
		return "", apperrors.Conflict("duplicate key", fmt.Errorf("_id %s already exists", id.Hex()))
	}
	for _, field := range c.unique {
		value := raw.Lookup(field)
		for _, existing := range c.docs {
			if existing.Lookup(field).Equal(value) {
				return "", apperrors.Conflict("duplicate key", fmt.Errorf("%s.%s must be unique", collection, field))
			}
		}
	}

	c.docs[id] = raw
	c.order = append(c.order, id)
	return id.Hex(), nil
}

func (s *MemoryStore) FindOne(ctx context.Context, collection string, filter bson.M, out any) error {
	op := "find in " + collection
	if err := contextError(op, ctx.Err()); err != nil {
		return err
	}

	want := make(map[string]bson.RawValue, len(filter))
	for key, value := range filter {
		t, data, err := bson.MarshalValue(value)
		if err != nil {
			return apperrors.Persistence(op, err)
		}
		want[key] = bson.RawValue{Type: t, Value: data}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return ErrNoDocuments
	}
	for _, id := range c.order {
		raw := c.docs[id]
		if matches(raw, want) {
			return decode(op, raw, out)
		}
	}
	return ErrNoDocuments
}

func (s *MemoryStore) FindByID(ctx context.Context, collection, id string, out any) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	op := "find in " + collection
	if err := contextError(op, ctx.Err()); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return ErrNoDocuments
	}
	raw, ok := c.docs[oid]
	if !ok {
		return ErrNoDocuments
	}
	return decode(op, raw, out)
}

func (s *MemoryStore) FindAll(ctx context.Context, collection string, out any) error {
	op := "find in " + collection
	if err := contextError(op, ctx.Err()); err != nil {
		return err
	}

	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Pointer || target.Elem().Kind() != reflect.Slice {
		return apperrors.Persistence(op, fmt.Errorf("out must be a pointer to a slice, got %T", out))
	}
	sliceType := target.Elem().Type()

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := reflect.MakeSlice(sliceType, 0, 0)
	if c, ok := s.collections[collection]; ok {
		result = reflect.MakeSlice(sliceType, 0, len(c.order))
		for _, id := range c.order {
			elem := reflect.New(sliceType.Elem())
			if err := decode(op, c.docs[id], elem.Interface()); err != nil {
				return err
			}
			result = reflect.Append(result, elem.Elem())
		}
	}
	target.Elem().Set(result)
	return nil
}

func (s *MemoryStore) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	op := "create index on " + collection
	if err := contextError(op, ctx.Err()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	if slices.Contains(c.unique, field) {
		return nil
	}
	seen := make([]bson.RawValue, 0, len(c.docs))
	for _, id := range c.order {
		value := c.docs[id].Lookup(field)
		for _, other := range seen {
			if other.Equal(value) {
				return apperrors.Conflict("duplicate key", fmt.Errorf("existing %s.%s values are not unique", collection, field))
			}
		}
		seen = append(seen, value)
	}
	c.unique = append(c.unique, field)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return contextError("ping", ctx.Err())
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}

// withObjectID encodes doc, assigning a fresh ObjectID when _id is absent or
// zero.
func withObjectID(doc any) (primitive.ObjectID, bson.Raw, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	var fields bson.D
	if err := bson.Unmarshal(data, &fields); err != nil {
		return primitive.NilObjectID, nil, err
	}

	id := primitive.NilObjectID
	idx := slices.IndexFunc(fields, func(e bson.E) bool { return e.Key == "_id" })
	if idx >= 0 {
		oid, ok := fields[idx].Value.(primitive.ObjectID)
		if !ok {
			return primitive.NilObjectID, nil, fmt.Errorf("unsupported _id type %T", fields[idx].Value)
		}
		id = oid
	}
	if id.IsZero() {
		id = primitive.NewObjectID()
		if idx >= 0 {
			fields[idx].Value = id
		} else {
			fields = append(bson.D{{Key: "_id", Value: id}}, fields...)
		}
	}

	raw, err := bson.Marshal(fields)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	return id, raw, nil
}

func matches(raw bson.Raw, want map[string]bson.RawValue) bool {
	for key, value := range want {
		if !raw.Lookup(key).Equal(value) {
			return false
		}
	}
	return true
}

func decode(op string, raw bson.Raw, out any) error {
	if err := bson.Unmarshal(raw, out); err != nil {
		return apperrors.Persistence(op, err)
	}
	return nil
}
