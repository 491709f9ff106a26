// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package docstore is a key-path addressed document store.
//
// Documents live in collections addressed by slash-separated paths such as
// users/{userId}/watchlist. A document path is its collection path plus an id.
// Every backend offers the same operations:
//
//	Set       full overwrite
//	SetMerge  partial upsert, unnamed fields are kept
//	Update    partial update, ErrNotFound when the document is absent
//	Get       ErrNotFound when absent
//	GetAll    direct children of a collection, unordered
//	Delete    no error when absent
//
// ServerTimestamp may appear as a field value in Set, SetMerge and Update; the
// backend replaces it with its own clock at write time.
//
// Backend failures other than a missing document are reported as
// ErrUnavailable so callers can distinguish "absent" from "could not ask".
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var (
	// ErrNotFound is returned by Get and Update when the document is absent.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable wraps any backend failure.
	ErrUnavailable = errors.New("document store unavailable")

	// ErrInvalidPath is returned for empty ids or ids containing a slash.
	ErrInvalidPath = errors.New("invalid document path")
)

// Fields is the content of a document.
type Fields map[string]any

// Document is a stored document with its id.
type Document struct {
	ID     string
	Fields Fields
}

// Store is implemented by every backend.
type Store interface {
	Set(ctx context.Context, ref DocRef, fields Fields) error
	SetMerge(ctx context.Context, ref DocRef, fields Fields) error
	Update(ctx context.Context, ref DocRef, fields Fields) error
	Get(ctx context.Context, ref DocRef) (Document, error)
	GetAll(ctx context.Context, col CollectionRef) ([]Document, error)
	Delete(ctx context.Context, ref DocRef) error
	Close() error
}

// Op names a store operation. Used for metrics and test fault injection.
type Op string

const (
	OpSet      Op = "set"
	OpSetMerge Op = "set_merge"
	OpUpdate   Op = "update"
	OpGet      Op = "get"
	OpGetAll   Op = "get_all"
	OpDelete   Op = "delete"
)

type serverTimestamp struct{}

// ServerTimestamp is replaced by the backend clock when written.
var ServerTimestamp = serverTimestamp{}

// CollectionRef addresses a collection.
type CollectionRef string

// Collection joins path segments into a collection reference.
func Collection(segments ...string) CollectionRef {
	return CollectionRef(strings.Join(segments, "/"))
}

// UserCollection returns users/{userID}/{name}.
func UserCollection(userID, name string) CollectionRef {
	return Collection("users", userID, name)
}

// Doc returns the reference of document id in c.
func (c CollectionRef) Doc(id string) DocRef {
	return DocRef{Collection: c, ID: id}
}

// Name is the last path segment, e.g. "watchlist".
func (c CollectionRef) Name() string {
	s := string(c)
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func (c CollectionRef) validate() error {
	if c == "" {
		return fmt.Errorf("%w: empty collection", ErrInvalidPath)
	}
	for _, seg := range strings.Split(string(c), "/") {
		if seg == "" {
			return fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, c)
		}
	}
	return nil
}

// DocRef addresses a single document.
type DocRef struct {
	Collection CollectionRef
	ID         string
}

// Path is the full slash-separated document path.
func (d DocRef) Path() string {
	return string(d.Collection) + "/" + d.ID
}

func (d DocRef) String() string { return d.Path() }

func (d DocRef) validate() error {
	if err := d.Collection.validate(); err != nil {
		return err
	}
	if d.ID == "" || strings.Contains(d.ID, "/") {
		return fmt.Errorf("%w: bad id %q", ErrInvalidPath, d.ID)
	}
	return nil
}

// resolve returns a copy of fields with ServerTimestamp replaced by now.
func resolve(fields Fields, now time.Time) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}

// Decode converts a document into a typed record using its json tags.
func Decode[T any](doc Document) (T, error) {
	var out T
	b, err := json.Marshal(doc.Fields)
	if err != nil {
		return out, fmt.Errorf("encode %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", doc.ID, err)
	}
	return out, nil
}

// DecodeAll decodes every document, stopping at the first failure.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := Decode[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func unavailable(op Op, path string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, path, ErrUnavailable, err)
}

func notFound(path string) error {
	return fmt.Errorf("%s: %w", path, ErrNotFound)
}
