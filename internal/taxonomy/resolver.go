package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/giggleglory/backoffice/pkg/db"
	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
)

// Reference points at one brand, category or age group.
type Reference struct {
	Kind RefKind
	ID   uuid.UUID
	Key  string
}

type refStore interface {
	FindIDByKey(ctx context.Context, kind RefKind, key string) (uuid.UUID, error)
	InsertKeyIfAbsent(ctx context.Context, kind RefKind, key string) error
}

// Resolver maps natural keys (brand name, category name, age group label) to
// references.
type Resolver struct {
	store refStore
}

func NewResolver(store refStore) (*Resolver, error) {
	if store == nil {
		return nil, fmt.Errorf("reference store required")
	}
	return &Resolver{store: store}, nil
}

// Lookup returns the existing reference for key and never writes.
func (r *Resolver) Lookup(ctx context.Context, kind RefKind, key string) (Reference, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Reference{}, missingReference(kind, key)
	}
	id, err := r.store.FindIDByKey(ctx, kind, key)
	if err != nil {
		if db.IsNotFound(err) {
			return Reference{}, missingReference(kind, key)
		}
		return Reference{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("db: find %s", kind))
	}
	return Reference{Kind: kind, ID: id, Key: key}, nil
}

// Resolve returns the reference for key, creating a row with default values
// when none exists. Creation is a single conflict-tolerant insert followed by a
// read, so concurrent resolvers of the same new key converge on one row.
func (r *Resolver) Resolve(ctx context.Context, kind RefKind, key string) (Reference, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Reference{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is required", strings.ToLower(kind.Label()))).
			WithDetails(map[string]any{"kind": kind})
	}

	ref, err := r.Lookup(ctx, kind, key)
	if err == nil {
		return ref, nil
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeMissingReference) {
		return Reference{}, err
	}

	if err := r.store.InsertKeyIfAbsent(ctx, kind, key); err != nil {
		if db.IsUniqueViolation(err) {
			return Reference{}, referenceConflict(kind, key, err)
		}
		return Reference{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("db: insert %s", kind))
	}

	id, err := r.store.FindIDByKey(ctx, kind, key)
	if err != nil {
		if db.IsNotFound(err) {
			return Reference{}, referenceConflict(kind, key, err)
		}
		return Reference{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("db: find %s", kind))
	}
	return Reference{Kind: kind, ID: id, Key: key}, nil
}

func missingReference(kind RefKind, key string) error {
	return pkgerrors.New(pkgerrors.CodeMissingReference, fmt.Sprintf("%s not found: %s", kind.Label(), key)).
		WithDetails(map[string]any{"kind": kind, "key": key})
}

func referenceConflict(kind RefKind, key string, cause error) error {
	return pkgerrors.Wrap(pkgerrors.CodeReferenceConflict, cause, fmt.Sprintf("%s %q was created concurrently", strings.ToLower(kind.Label()), key)).
		WithDetails(map[string]any{"kind": kind, "key": key})
}
