package mongodb

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"folio/internal/domain/fault"
	"folio/internal/domain/store"
	"folio/internal/infra/persistence"
)

// documentStore implements store.Store against a MongoDB database. All
// failures funnel through fail, which tags them with the originating
// operation name and the Database kind.
type documentStore struct {
	db       *mongo.Database
	registry store.Registry
}

// NewStore is the constructor for the MongoDB-backed document store.
func NewStore(db *mongo.Database) store.Store {
	return &documentStore{
		db:       db,
		registry: store.DefaultRegistry(),
	}
}

// fail translates a driver error once, at the point of origin.
func (s *documentStore) fail(fn, msg string, err error) error {
	return fault.DB(fn, msg, err)
}

func (s *documentStore) FindByID(ctx context.Context, collection string, id bson.ObjectID, out any, opts ...store.FindOption) (bool, error) {
	return s.FindOne(ctx, collection, store.Filter{"_id": id}, out, opts...)
}

func (s *documentStore) FindByIDRequired(ctx context.Context, collection string, id bson.ObjectID, out any, opts ...store.FindOption) error {
	found, err := s.FindByID(ctx, collection, id, out, opts...)
	if err != nil {
		return err
	}
	if !found {
		return fault.Missing("Store.FindByIDRequired",
			fmt.Sprintf("Could not fetch %s document for id: %s", strings.ToLower(collection), id.Hex()))
	}

	return nil
}

func (s *documentStore) FindOne(ctx context.Context, collection string, filter store.Filter, out any, opts ...store.FindOption) (bool, error) {
	return persistence.FindOneVia(ctx, s, collection, filter, out, opts...)
}

func (s *documentStore) FindOneRequired(ctx context.Context, collection string, filter store.Filter, out any, opts ...store.FindOption) error {
	found, err := s.FindOne(ctx, collection, filter, out, opts...)
	if err != nil {
		return err
	}
	if !found {
		return fault.Missing("Store.FindOneRequired",
			fmt.Sprintf("Could not fetch %s document for condition: %v", strings.ToLower(collection), filter))
	}

	return nil
}

func (s *documentStore) Find(ctx context.Context, collection string, filter store.Filter, out any, opts ...store.FindOption) error {
	const fn = "Store.Find"
	o := store.BuildFindOptions(opts)

	if o.DistinctField != "" {
		result := s.db.Collection(collection).Distinct(ctx, o.DistinctField, filter)
		if err := result.Decode(out); err != nil {
			return s.fail(fn, fmt.Sprintf("Could not fetch distinct %s values from %s documents. Query params used: %v",
				o.DistinctField, strings.ToLower(collection), filter), err)
		}

		return nil
	}

	findOpts := options.Find()
	if projection := s.projection(collection, o); len(projection) > 0 {
		findOpts = findOpts.SetProjection(projection)
	}
	if o.Sort != nil {
		findOpts = findOpts.SetSort(o.Sort)
	}
	if o.Limit > 0 {
		findOpts = findOpts.SetLimit(o.Limit)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, findOpts)
	if err != nil {
		return s.fail(fn, fmt.Sprintf("Could not fetch %s documents. Query params used: %v",
			strings.ToLower(collection), filter), err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return s.fail(fn, fmt.Sprintf("Could not decode %s documents", strings.ToLower(collection)), err)
	}

	if len(o.References) > 0 {
		if err := persistence.PopulateDocuments(ctx, s, out, o.References...); err != nil {
			return s.fail(fn, fmt.Sprintf("Could not populate %s documents", strings.ToLower(collection)), err)
		}
	}

	return nil
}

// projection merges the caller's explicit projection with the registry's
// default omission of sensitive fields not requested via Fields.
func (s *documentStore) projection(collection string, o store.FindOptions) bson.M {
	if o.Projection != nil {
		return o.Projection
	}

	spec := s.registry.Spec(collection)
	if len(spec.OmitByDefault) == 0 {
		return nil
	}

	requested := make(map[string]struct{}, len(o.Fields))
	for _, f := range o.Fields {
		requested[f] = struct{}{}
	}

	projection := bson.M{}
	for _, field := range spec.OmitByDefault {
		if _, ok := requested[field]; !ok {
			projection[field] = 0
		}
	}

	return projection
}

func (s *documentStore) Count(ctx context.Context, collection string, filter store.Filter) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, s.fail("Store.Count", "Could not count the documents.", err)
	}

	return n, nil
}

func (s *documentStore) Update(ctx context.Context, collection string, filter store.Filter, patch store.Patch, opts ...store.UpdateOption) error {
	const fn = "Store.Update"
	o := store.BuildUpdateOptions(opts)
	update := wrapPatch(patch)

	var err error
	if o.Multi {
		_, err = s.db.Collection(collection).UpdateMany(ctx, filter, update)
	} else {
		_, err = s.db.Collection(collection).UpdateOne(ctx, filter, update)
	}
	if err != nil {
		return s.fail(fn, fmt.Sprintf("Could not update %s documents. Conditions: %v update: %v",
			strings.ToLower(collection), filter, patch), err)
	}

	return nil
}

// wrapPatch turns a plain field patch into a $set update; patches that
// already carry operators pass through unchanged.
func wrapPatch(patch store.Patch) bson.M {
	for key := range patch {
		if strings.HasPrefix(key, "$") {
			return bson.M(patch)
		}
	}

	return bson.M{"$set": bson.M(patch)}
}

func (s *documentStore) RemoveMany(ctx context.Context, collection string, filter store.Filter) error {
	if _, err := s.db.Collection(collection).DeleteMany(ctx, filter); err != nil {
		return s.fail("Store.RemoveMany", fmt.Sprintf("Could not remove %s documents. Conditions: %v",
			strings.ToLower(collection), filter), err)
	}

	return nil
}

func (s *documentStore) Save(ctx context.Context, doc store.Document) error {
	const fn = "Store.Save"

	if completer, ok := doc.(store.Completer); ok {
		completer.DeriveCompleteness()
	}
	if validator, ok := doc.(store.Validator); ok {
		if err := validator.Validate(); err != nil {
			return s.fail(fn, "Could not save the document.", err)
		}
	}

	if doc.DocumentID().IsZero() {
		doc.SetDocumentID(bson.NewObjectID())
	}

	replaceOpts := options.Replace().SetUpsert(true)
	filter := bson.M{"_id": doc.DocumentID()}
	if _, err := s.db.Collection(doc.Collection()).ReplaceOne(ctx, filter, doc, replaceOpts); err != nil {
		return s.fail(fn, "Could not save the document.", err)
	}

	return nil
}

// InsertMany bulk-inserts without running the pre-save capabilities.
func (s *documentStore) InsertMany(ctx context.Context, collection string, docs []store.Document) error {
	if len(docs) == 0 {
		return nil
	}

	payload := make([]any, 0, len(docs))
	for _, doc := range docs {
		if doc.DocumentID().IsZero() {
			doc.SetDocumentID(bson.NewObjectID())
		}
		payload = append(payload, doc)
	}

	if _, err := s.db.Collection(collection).InsertMany(ctx, payload); err != nil {
		return s.fail("Store.InsertMany", "Could not insert the documents.", err)
	}

	return nil
}

func (s *documentStore) Populate(ctx context.Context, collection string, docs any, refs ...store.Reference) error {
	if err := persistence.PopulateDocuments(ctx, s, docs, refs...); err != nil {
		return s.fail("Store.Populate", fmt.Sprintf("Could not populate the %s documents.",
			strings.ToLower(collection)), err)
	}

	return nil
}
