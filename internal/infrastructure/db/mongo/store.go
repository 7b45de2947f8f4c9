package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

const kvCollection = "kv"

// Store implements ports.KVStore with one document per key. Transactions
// need a replica set or sharded cluster.
type Store struct {
	client    *mongo.Client
	coll      *mongo.Collection
	namespace string
}

var _ ports.KVStore = (*Store)(nil)

func NewStore(db *mongo.Database, namespace string) *Store {
	return &Store{
		client:    db.Client(),
		coll:      db.Collection(kvCollection),
		namespace: namespace,
	}
}

type kvDocument struct {
	Key       string `bson:"_id"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, found, err := s.load(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("mongo decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("mongo encode %s: %w", key, err)
	}
	return s.put(ctx, key, raw)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.key(key)}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}

// Update runs fn inside a session transaction. The driver may re-run the
// callback on transient errors, so fn must not have side effects outside tx.
func (s *Store) Update(ctx context.Context, keys []string, fn func(tx ports.KVTx) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo start session: %w", err)
	}
	defer sess.EndSession(ctx)

	allowed := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		allowed[k] = struct{}{}
	}

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		tx := &mongoTx{ctx: sc, store: s, allowed: allowed, pending: make(map[string][]byte)}
		if err := fn(tx); err != nil {
			return nil, err
		}
		for k, v := range tx.pending {
			if err := s.put(sc, k, v); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) load(ctx context.Context, key string) ([]byte, bool, error) {
	var doc kvDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": s.key(key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find %s: %w", key, err)
	}
	return []byte(doc.Value), true, nil
}

func (s *Store) put(ctx context.Context, key string, raw []byte) error {
	doc := kvDocument{
		Key:       s.key(key),
		Value:     string(raw),
		UpdatedAt: time.Now().UTC().Unix(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.Key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace %s: %w", key, err)
	}
	return nil
}

func (s *Store) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

type mongoTx struct {
	ctx     mongo.SessionContext
	store   *Store
	allowed map[string]struct{}
	pending map[string][]byte
}

func (t *mongoTx) Get(key string, dst any) (bool, error) {
	if _, ok := t.allowed[key]; !ok {
		return false, fmt.Errorf("mongo tx: key %q not declared", key)
	}
	raw, ok := t.pending[key]
	if !ok {
		var err error
		raw, ok, err = t.store.load(t.ctx, key)
		if err != nil || !ok {
			return false, err
		}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("mongo tx decode %s: %w", key, err)
	}
	return true, nil
}

func (t *mongoTx) Set(key string, value any) error {
	if _, ok := t.allowed[key]; !ok {
		return fmt.Errorf("mongo tx: key %q not declared", key)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("mongo tx encode %s: %w", key, err)
	}
	t.pending[key] = raw
	return nil
}
