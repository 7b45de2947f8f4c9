package redis

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/clockwise/attendance-tracker/internal/core/domain"
	"github.com/clockwise/attendance-tracker/internal/core/ports"
)

// maxTxAttempts bounds how often Update re-runs after losing a WATCH race.
const maxTxAttempts = 3

// Store implements ports.KVStore on plain Redis strings.
// Key format: <namespace>:<key>
type Store struct {
	client    *redis.Client
	namespace string
}

var _ ports.KVStore = (*Store)(nil)

// NewStore wraps client. An empty namespace stores keys unprefixed.
func NewStore(client *redis.Client, namespace string) *Store {
	return &Store{client: client, namespace: namespace}
}

func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("redis decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Update WATCHes keys, runs fn against the watched values and commits the
// buffered writes in one MULTI/EXEC, in the order keys were declared. fn is re-run when another client
// modifies a watched key before EXEC, so it must not have side effects
// outside tx.
func (s *Store) Update(ctx context.Context, keys []string, fn func(tx ports.KVTx) error) error {
	watched := make([]string, len(keys))
	allowed := make(map[string]struct{}, len(keys))
	for i, k := range keys {
		watched[i] = s.key(k)
		allowed[k] = struct{}{}
	}

	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
			tx := &redisTx{ctx: ctx, rtx: rtx, store: s, allowed: allowed, pending: make(map[string][]byte)}
			if err := fn(tx); err != nil {
				return err
			}
			if len(tx.pending) == 0 {
				return nil
			}
			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for _, k := range keys {
					if v, ok := tx.pending[k]; ok {
						pipe.Set(ctx, s.key(k), v, 0)
					}
				}
				return nil
			})
			return err
		}, watched...)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return domain.ErrStoreConflict
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

func (s *Store) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

type redisTx struct {
	ctx     context.Context
	rtx     *redis.Tx
	store   *Store
	allowed map[string]struct{}
	pending map[string][]byte
}

func (t *redisTx) Get(key string, dst any) (bool, error) {
	if _, ok := t.allowed[key]; !ok {
		return false, fmt.Errorf("redis tx: key %q not watched", key)
	}
	raw, ok := t.pending[key]
	if !ok {
		var err error
		raw, err = t.rtx.Get(t.ctx, t.store.key(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("redis tx get %s: %w", key, err)
		}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("redis tx decode %s: %w", key, err)
	}
	return true, nil
}

func (t *redisTx) Set(key string, value any) error {
	if _, ok := t.allowed[key]; !ok {
		return fmt.Errorf("redis tx: key %q not watched", key)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis tx encode %s: %w", key, err)
	}
	t.pending[key] = raw
	return nil
}
