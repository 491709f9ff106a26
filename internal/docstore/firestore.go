// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore maps the Store operations one-to-one onto Cloud Firestore,
// the database the mobile clients were originally written against.
type FirestoreStore struct {
	client *firestore.Client
}

// FirestoreOptions configures OpenFirestore.
type FirestoreOptions struct {
	ProjectID string
	// CredentialsFile is a service account JSON file. When empty the client
	// uses Application Default Credentials.
	CredentialsFile string
}

// OpenFirestore connects to the given project.
func OpenFirestore(ctx context.Context, opts FirestoreOptions) (*FirestoreStore, error) {
	var copts []option.ClientOption
	if opts.CredentialsFile != "" {
		copts = append(copts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, opts.ProjectID, copts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client for %q: %w", opts.ProjectID, err)
	}
	return &FirestoreStore{client: client}, nil
}

// toFirestore swaps the package sentinel for Firestore's own so the
// timestamp is assigned by the Firestore server.
func toFirestore(f Fields) map[string]interface{} {
	out := make(map[string]interface{}, len(f))
	for k, v := range f {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Set implements Store.
func (s *FirestoreStore) Set(ctx context.Context, ref DocRef, fields Fields) error {
	if err := ref.validate(); err != nil {
		return err
	}
	if _, err := s.client.Doc(ref.Path()).Set(ctx, toFirestore(fields)); err != nil {
		return unavailable(OpSet, ref.Path(), err)
	}
	return nil
}

// SetMerge implements Store.
func (s *FirestoreStore) SetMerge(ctx context.Context, ref DocRef, fields Fields) error {
	if err := ref.validate(); err != nil {
		return err
	}
	if _, err := s.client.Doc(ref.Path()).Set(ctx, toFirestore(fields), firestore.MergeAll); err != nil {
		return unavailable(OpSetMerge, ref.Path(), err)
	}
	return nil
}

// Update implements Store.
func (s *FirestoreStore) Update(ctx context.Context, ref DocRef, fields Fields) error {
	if err := ref.validate(); err != nil {
		return err
	}
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range toFirestore(fields) {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	_, err := s.client.Doc(ref.Path()).Update(ctx, updates)
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		return notFound(ref.Path())
	default:
		return unavailable(OpUpdate, ref.Path(), err)
	}
}

// Get implements Store.
func (s *FirestoreStore) Get(ctx context.Context, ref DocRef) (Document, error) {
	if err := ref.validate(); err != nil {
		return Document{}, err
	}
	snap, err := s.client.Doc(ref.Path()).Get(ctx)
	switch {
	case err == nil:
		return Document{ID: ref.ID, Fields: Fields(snap.Data())}, nil
	case isNotFound(err):
		return Document{}, notFound(ref.Path())
	default:
		return Document{}, unavailable(OpGet, ref.Path(), err)
	}
}

// GetAll implements Store.
func (s *FirestoreStore) GetAll(ctx context.Context, col CollectionRef) ([]Document, error) {
	if err := col.validate(); err != nil {
		return nil, err
	}
	iter := s.client.Collection(string(col)).Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, unavailable(OpGetAll, string(col), err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: Fields(snap.Data())})
	}
	return docs, nil
}

// Delete implements Store. Firestore deletes of absent documents succeed.
func (s *FirestoreStore) Delete(ctx context.Context, ref DocRef) error {
	if err := ref.validate(); err != nil {
		return err
	}
	if _, err := s.client.Doc(ref.Path()).Delete(ctx); err != nil {
		return unavailable(OpDelete, ref.Path(), err)
	}
	return nil
}

// Close releases the client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
