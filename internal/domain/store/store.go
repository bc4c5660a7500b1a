// Package store defines the generic data-access contract every usecase
// depends on: typed find/update/remove/save operations over named
// document collections, with uniform error translation. Implementations
// live under internal/infra/persistence; this package is the interface
// the rest of the application is written against.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Filter selects documents by field equality (and $in for id batches).
type Filter = bson.M

// Patch is a partial update; keys are bson field paths, values replace
// the current field values ($set semantics).
type Patch = bson.M

// Document is the capability every persisted entity implements.
type Document interface {
	// Collection returns the name of the logical collection the
	// document belongs to.
	Collection() string

	// DocumentID returns the document's id; zero means not yet saved.
	DocumentID() bson.ObjectID

	// SetDocumentID assigns the id generated on first save.
	SetDocumentID(bson.ObjectID)
}

// Validator is the optional pre-save validation capability. Save runs it
// before the write commits.
type Validator interface {
	Validate() error
}

// Completer is the optional pre-save derivation capability, used by
// documents that carry a derived completeness flag.
type Completer interface {
	DeriveCompleteness()
}

// Reference names a link from a field holding ids to the collection the
// ids live in. Populate resolves it into the sibling embedded field.
type Reference struct {
	// IDField is the Go field on the source struct holding the
	// reference id (bson.ObjectID) or ids ([]bson.ObjectID).
	IDField string

	// TargetField is the Go field receiving the resolved document
	// (pointer) or documents (slice).
	TargetField string

	// Collection is the referenced collection name.
	Collection string
}

// Store is the generic data-access layer. All failures carry a
// fault.Error tagged with the originating operation name and a stable
// kind, so callers branch on kind instead of parsing messages.
type Store interface {
	// FindByID decodes the document with the given id into out and
	// reports whether it exists. A missing document is not an error.
	FindByID(ctx context.Context, collection string, id bson.ObjectID, out any, opts ...FindOption) (bool, error)

	// FindByIDRequired is FindByID, but a missing document fails with
	// a NotFound fault (distinct from a Database fault).
	FindByIDRequired(ctx context.Context, collection string, id bson.ObjectID, out any, opts ...FindOption) error

	// FindOne decodes the first match into out. It runs on top of the
	// bounded multi-find (limit 1) so both share one code path.
	FindOne(ctx context.Context, collection string, filter Filter, out any, opts ...FindOption) (bool, error)

	// FindOneRequired is FindOne, but no match fails with NotFound.
	FindOneRequired(ctx context.Context, collection string, filter Filter, out any, opts ...FindOption) error

	// Find decodes all matches into out, which must be a pointer to a
	// slice. An empty result is not an error. With the Distinct option
	// out receives the deduplicated values of one field instead.
	Find(ctx context.Context, collection string, filter Filter, out any, opts ...FindOption) error

	// Count returns the number of matching documents.
	Count(ctx context.Context, collection string, filter Filter) (int64, error)

	// Update applies the patch to one match, or to all matches with
	// the All option. It does not report how many documents matched.
	Update(ctx context.Context, collection string, filter Filter, patch Patch, opts ...UpdateOption) error

	// RemoveMany deletes every match. Deleting zero matches succeeds.
	RemoveMany(ctx context.Context, collection string, filter Filter) error

	// Save persists a new or modified document, running the Validator
	// and Completer capabilities before the write commits. A zero id
	// is assigned on first save.
	Save(ctx context.Context, doc Document) error

	// InsertMany bulk-inserts documents into a collection, bypassing
	// the per-document pre-save capabilities.
	InsertMany(ctx context.Context, collection string, docs []Document) error

	// Populate resolves reference fields into embedded data for a
	// homogeneous batch (or a single document). Already-resolved
	// references are left untouched.
	Populate(ctx context.Context, collection string, docs any, refs ...Reference) error
}
