package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory is a mutex-guarded implementation of Store backed by maps. It
// supports the same filter/order surface as the Mongo adapter so the core
// can be unit-tested against it without a running database.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Doc
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Doc)}
}

func (m *Memory) Get(_ context.Context, collection, id string) (Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDoc(doc), nil
}

func (m *Memory) Query(_ context.Context, collection string, q Query) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Snapshot, 0)
	for id, doc := range m.collections[collection] {
		ok, err := matches(doc, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, Snapshot{ID: id, Doc: cloneDoc(doc)})
		}
	}
	sortDocs(out, q.Sort)
	return out, nil
}

func (m *Memory) Set(_ context.Context, collection, id string, doc Doc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(collection, id, doc)
	return nil
}

func (m *Memory) Update(_ context.Context, collection, id string, fields Doc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(collection, id, fields)
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collection], id)
	return nil
}

// BatchCommit validates every write first, then applies them under one lock
// so no reader can observe a partially applied batch.
func (m *Memory) BatchCommit(_ context.Context, writes []Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range writes {
		if w.Kind == WriteUpdate {
			if _, ok := m.collections[w.Collection][w.ID]; !ok {
				return ErrNotFound
			}
		}
	}
	for _, w := range writes {
		switch w.Kind {
		case WriteSet:
			m.set(w.Collection, w.ID, w.Doc)
		case WriteUpdate:
			_ = m.update(w.Collection, w.ID, w.Doc)
		case WriteDelete:
			delete(m.collections[w.Collection], w.ID)
		}
	}
	return nil
}

func (m *Memory) set(collection, id string, doc Doc) {
	col, ok := m.collections[collection]
	if !ok {
		col = make(map[string]Doc)
		m.collections[collection] = col
	}
	col[id] = cloneDoc(doc)
}

func (m *Memory) update(collection, id string, fields Doc) error {
	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

func cloneDoc(doc Doc) Doc {
	out := make(Doc, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func matches(doc Doc, filters []Filter) (bool, error) {
	for _, f := range filters {
		cmp, comparable, err := compare(doc[f.Field], f.Value)
		if err != nil {
			return false, err
		}
		switch f.Op {
		case OpEq:
			if !comparable || cmp != 0 {
				return false, nil
			}
		case OpGte:
			if !comparable || cmp < 0 {
				return false, nil
			}
		case OpLt:
			if !comparable || cmp >= 0 {
				return false, nil
			}
		default:
			return false, fmt.Errorf("store: unsupported operator %q", f.Op)
		}
	}
	return true, nil
}

func sortDocs(docs []Snapshot, orders []Order) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, o := range orders {
			cmp, comparable, err := compare(docs[i].Doc[o.Field], docs[j].Doc[o.Field])
			if err != nil || !comparable || cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// compare orders two document values. Values of mismatched or unordered
// types are reported as not comparable rather than failing the query, which
// matches how a schemaless store treats heterogenous fields.
func compare(a, b any) (int, bool, error) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false, nil
		}
		switch {
		case av < bv:
			return -1, true, nil
		case av > bv:
			return 1, true, nil
		}
		return 0, true, nil
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false, nil
		}
		if av == bv {
			return 0, true, nil
		}
		if !av {
			return -1, true, nil
		}
		return 1, true, nil
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false, nil
		}
		switch {
		case av.Before(bv):
			return -1, true, nil
		case av.After(bv):
			return 1, true, nil
		}
		return 0, true, nil
	case nil:
		if b == nil {
			return 0, true, nil
		}
		return 0, false, nil
	}

	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return 0, false, nil
	}
	switch {
	case af < bf:
		return -1, true, nil
	case af > bf:
		return 1, true, nil
	}
	return 0, true, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
