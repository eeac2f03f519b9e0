package repository

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound key 不存在
var ErrNotFound = errors.New("key not found")

// Store 按 key 存取 JSON 数据的持久化接口
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pruner 支持按最后更新时间清理的存储
type Pruner interface {
	Prune(ctx context.Context, ttl time.Duration) (int64, error)
}

// MemoryStore 进程内存储，用于开发和测试
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memEntry
	now  func() time.Time
}

type memEntry struct {
	value   []byte
	updated time.Time
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]memEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = memEntry{value: append([]byte(nil), value...), updated: s.now()}
	return nil
}

// Delete key 不存在时不报错
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Len 当前 key 数量
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Prune 删除超过 ttl 未更新的 key
func (s *MemoryStore) Prune(_ context.Context, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	var n int64
	for key, e := range s.data {
		if e.updated.Before(cutoff) {
			delete(s.data, key)
			n++
		}
	}
	return n, nil
}
