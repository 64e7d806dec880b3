package docstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store used for tests and local runs.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]Document
	failures    map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string][]Document),
		failures:    make(map[string]error),
	}
}

// Put appends a document to the collection at path.
func (m *Memory) Put(path string, doc Document) error {
	if _, _, err := SplitPath(path); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[path] = append(m.collections[path], doc)
	return nil
}

// Fail makes every ListCollection call for path return err. A nil err clears it.
func (m *Memory) Fail(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, path)
		return
	}
	m.failures[path] = err
}

func (m *Memory) ListCollection(ctx context.Context, path string) ([]Document, error) {
	if _, _, err := SplitPath(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err, ok := m.failures[path]; ok {
		return nil, err
	}

	docs := m.collections[path]
	out := make([]Document, len(docs))
	copy(out, docs)
	return out, nil
}
