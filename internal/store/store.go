// Package store defines the document-store port the core is written
// against, plus the two implementations: an in-memory store used by tests
// and local development, and a MongoDB adapter used in production.
//
// The port deliberately mirrors what a hosted document database offers and
// nothing more: per-document atomic writes, equality/range queries with
// ordering, and an atomic multi-document commit. There are no joins and no
// cross-document read transactions.
package store

import (
	"context"
	"errors"
)

// Doc is one schemaless record. The document id is not part of the Doc; it
// is the key the document is stored under.
type Doc map[string]any

// ErrNotFound is returned by Get, and by Update when the target document
// does not exist.
var ErrNotFound = errors.New("store: document not found")

type Op string

const (
	OpEq  Op = "=="
	OpGte Op = ">="
	OpLt  Op = "<"
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

type Order struct {
	Field string
	Desc  bool
}

type Query struct {
	Filters []Filter
	Sort    []Order
}

// Snapshot is a query result: one document together with the key it is
// stored under.
type Snapshot struct {
	ID  string
	Doc Doc
}

type WriteKind int

const (
	WriteSet WriteKind = iota
	WriteUpdate
	WriteDelete
)

// Write is one entry of a batch commit.
type Write struct {
	Kind       WriteKind
	Collection string
	ID         string
	Doc        Doc
}

// Store is the persistence port. Set is a full-document upsert; Update
// overwrites only the supplied fields and fails with ErrNotFound when the
// document is absent; Delete of an absent document is a no-op. BatchCommit
// applies every write atomically or none of them.
type Store interface {
	Get(ctx context.Context, collection, id string) (Doc, error)
	Query(ctx context.Context, collection string, q Query) ([]Snapshot, error)
	Set(ctx context.Context, collection, id string, doc Doc) error
	Update(ctx context.Context, collection, id string, fields Doc) error
	Delete(ctx context.Context, collection, id string) error
	BatchCommit(ctx context.Context, writes []Write) error
}
