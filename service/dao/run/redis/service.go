package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/viant/fluxtree/model/run"
	"github.com/viant/fluxtree/service/dao"
	"github.com/viant/fluxtree/service/dao/criteria"
)

// Service stores run records as JSON values in Redis, a sorted set indexes them by start time
type Service struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ dao.Service[string, run.Record] = (*Service)(nil)

type Option func(*Service)

// WithTTL sets the expiration of run records
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix
func WithPrefix(prefix string) Option {
	return func(s *Service) {
		s.prefix = prefix
	}
}

func (s *Service) key(id string) string {
	return s.prefix + id
}

func (s *Service) indexKey() string {
	return s.prefix + "index"
}

func (s *Service) Save(ctx context.Context, record *run.Record) error {
	if record == nil {
		return dao.ErrNilEntity
	}
	if record.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run %v: %w", record.ID, err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(record.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: float64(record.StartedAt.UnixNano()), Member: record.ID})
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run %v: %w", record.ID, err)
	}
	return nil
}

func (s *Service) Load(ctx context.Context, id string) (*run.Record, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("run %v: %w", id, dao.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load run %v: %w", id, err)
	}
	record := &run.Record{}
	if err = json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %v: %w", id, err)
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	pipe := s.client.TxPipeline()
	deleted := pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete run %v: %w", id, err)
	}
	if deleted.Val() == 0 {
		return fmt.Errorf("run %v: %w", id, dao.ErrNotFound)
	}
	return nil
}

// List returns stored runs ordered by start time, expired index entries are pruned
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*run.Record, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}
	var records []*run.Record
	var expired []interface{}
	for i, value := range values {
		text, ok := value.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		record := &run.Record{}
		if err = json.Unmarshal([]byte(text), record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run %v: %w", ids[i], err)
		}
		if !criteria.FilterByStatus(string(record.Status), parameters) {
			continue
		}
		records = append(records, record)
	}
	if len(expired) > 0 {
		if err = s.client.ZRem(ctx, s.indexKey(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired runs: %w", err)
		}
	}
	return records, nil
}

// Close closes the redis client
func (s *Service) Close() error {
	return s.client.Close()
}

// New creates a service connected to address
func New(address, password string, db int, opts ...Option) *Service {
	return NewFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewFromClient creates a service from an existing client
func NewFromClient(client *backend.Client, opts ...Option) *Service {
	ret := &Service{client: client, prefix: "fluxtree:run:"}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
