package session

import (
	"errors"
	"sync"
)

var (
	ErrDuplicateKey = errors.New("key already exists")
	ErrMaxCapacity  = errors.New("pool is full")
	ErrKeyNotFound  = errors.New("key does not exist in the pool")
)

// Pool is a bounded, mutex-guarded map.
type Pool[K comparable, V any] struct {
	mu     sync.RWMutex
	values map[K]V
	max    int
}

// NewPool creates a pool holding at most max values. A negative max means unbounded.
func NewPool[K comparable, V any](max int) *Pool[K, V] {
	return &Pool[K, V]{
		values: make(map[K]V),
		max:    max,
	}
}

// Store adds a new value. On error the pool is unchanged.
func (p *Pool[K, V]) Store(key K, value V) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.values[key]; exists {
		return ErrDuplicateKey
	}
	if p.max >= 0 && len(p.values) >= p.max {
		return ErrMaxCapacity
	}
	p.values[key] = value
	return nil
}

// Get returns the value stored under key.
func (p *Pool[K, V]) Get(key K) (V, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.values[key]
	if !ok {
		return *new(V), ErrKeyNotFound
	}
	return val, nil
}

// Delete removes key and returns the value it held.
func (p *Pool[K, V]) Delete(key K) (V, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	val, ok := p.values[key]
	delete(p.values, key)
	return val, ok
}

// DeleteFunc removes every entry for which del returns true and returns the
// removed values.
func (p *Pool[K, V]) DeleteFunc(del func(K, V) bool) []V {
	p.mu.Lock()
	defer p.mu.Unlock()
	var removed []V
	for k, v := range p.values {
		if del(k, v) {
			removed = append(removed, v)
			delete(p.values, k)
		}
	}
	return removed
}

// Size returns the number of stored values.
func (p *Pool[K, V]) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.values)
}
