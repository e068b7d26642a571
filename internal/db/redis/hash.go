package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/docbay-cloud/docbay/internal/db"
)

// HSet sets hash fields.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	cmd := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		cmd = cmd.FieldValue(k, v)
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HGetAll returns all fields of a hash.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return m, nil
}

// HMGetMulti fetches selected fields for multiple hashes in a single
// DoMulti round-trip. Absent fields are omitted from the per-key map.
func (s *Store) HMGetMulti(ctx context.Context, keys []string, fields []string) ([]map[string]string, error) {
	if len(keys) == 0 || len(fields) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Hmget().Key(key).Field(fields...).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([]map[string]string, len(results))

	for i, res := range results {
		values, err := res.ToArray()
		if err != nil {
			return nil, fmt.Errorf("HMGetMulti key %s: %w", keys[i], err)
		}
		m := make(map[string]string, len(fields))
		for j, v := range values {
			if j >= len(fields) {
				break
			}
			if str, err := v.ToString(); err == nil {
				m[fields[j]] = str
			}
		}
		out[i] = m
	}

	return out, nil
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}
