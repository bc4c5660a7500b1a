// Package memory contains an in-memory implementation of the generic
// document store. It honors the same contract as the MongoDB-backed
// store (registry uniqueness, default omission of sensitive fields,
// pre-save capabilities, reference population) and backs the unit
// tests and local development.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"folio/internal/domain/fault"
	"folio/internal/domain/store"
	"folio/internal/errors"
	"folio/internal/infra/persistence"
)

// documentStore keeps every document as marshaled BSON so reads hand out
// copies, never live references.
type documentStore struct {
	mu       sync.RWMutex
	registry store.Registry
	data     map[string]map[bson.ObjectID][]byte
}

// NewStore is the constructor for the in-memory document store.
func NewStore() store.Store {
	return &documentStore{
		registry: store.DefaultRegistry(),
		data:     make(map[string]map[bson.ObjectID][]byte),
	}
}

func (s *documentStore) fail(fn, msg string, err error) error {
	return fault.DB(fn, msg, err)
}

func (s *documentStore) collection(name string) map[bson.ObjectID][]byte {
	coll, ok := s.data[name]
	if !ok {
		coll = make(map[bson.ObjectID][]byte)
		s.data[name] = coll
	}

	return coll
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

	matches, err := s.matchDocs(collection, filter)
	if err != nil {
		return s.fail(fn, fmt.Sprintf("Could not fetch %s documents. Query params used: %v",
			strings.ToLower(collection), filter), err)
	}

	if o.DistinctField != "" {
		if err := decodeDistinct(matches, o.DistinctField, out); err != nil {
			return s.fail(fn, fmt.Sprintf("Could not fetch distinct %s values from %s documents. Query params used: %v",
				o.DistinctField, strings.ToLower(collection), filter), err)
		}

		return nil
	}

	if o.Sort != nil {
		sortDocs(matches, o.Sort)
	}
	if o.Limit > 0 && int64(len(matches)) > o.Limit {
		matches = matches[:o.Limit]
	}
	for _, doc := range matches {
		s.applyProjection(collection, doc, o)
	}

	if err := decodeSlice(matches, out); err != nil {
		return s.fail(fn, fmt.Sprintf("Could not decode %s documents", strings.ToLower(collection)), err)
	}

	if len(o.References) > 0 {
		if err := persistence.PopulateDocuments(ctx, s, out, o.References...); err != nil {
			return s.fail(fn, fmt.Sprintf("Could not populate %s documents", strings.ToLower(collection)), err)
		}
	}

	return nil
}

// matchDocs returns decoded copies of every document matching the filter.
func (s *documentStore) matchDocs(collection string, filter store.Filter) ([]bson.M, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []bson.M
	for _, raw := range s.data[collection] {
		doc := bson.M{}
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, errors.Wrap(err, "corrupt stored document")
		}
		if matchesFilter(doc, filter) {
			matches = append(matches, doc)
		}
	}

	return matches, nil
}

func matchesFilter(doc bson.M, filter store.Filter) bool {
	for field, want := range filter {
		got, present := doc[field]
		if in, ok := inClause(want); ok {
			if !present || !containsValue(in, got) {
				return false
			}

			continue
		}
		if !present || !looseEqual(got, want) {
			return false
		}
	}

	return true
}

// inClause unwraps a {$in: [...]} filter value.
func inClause(want any) (reflect.Value, bool) {
	m, ok := want.(bson.M)
	if !ok {
		if mm, isMap := want.(map[string]any); isMap {
			m = mm
		} else {
			return reflect.Value{}, false
		}
	}
	in, ok := m["$in"]
	if !ok {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(in)
	if v.Kind() != reflect.Slice {
		return reflect.Value{}, false
	}

	return v, true
}

func containsValue(candidates reflect.Value, got any) bool {
	for i := range candidates.Len() {
		if looseEqual(got, candidates.Index(i).Interface()) {
			return true
		}
	}

	return false
}

// looseEqual compares a stored BSON value with a filter value, bridging
// the integer widening the BSON round trip introduces.
func looseEqual(got, want any) bool {
	if reflect.DeepEqual(got, want) {
		return true
	}
	gotN, gotOK := asInt64(got)
	wantN, wantOK := asInt64(want)

	return gotOK && wantOK && gotN == wantN
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func sortDocs(docs []bson.M, sortSpec bson.D) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, field := range sortSpec {
			cmp := compareValues(docs[i][field.Key], docs[j][field.Key])
			if cmp == 0 {
				continue
			}
			if order, ok := asInt64(field.Value); ok && order < 0 {
				return cmp > 0
			}

			return cmp < 0
		}

		return false
	})
}

func compareValues(a, b any) int {
	if as, ok := a.(string); ok {
		bs, _ := b.(string)

		return strings.Compare(as, bs)
	}
	an, aOK := asInt64(a)
	bn, bOK := asInt64(b)
	if aOK && bOK {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}

	return 0
}

// applyProjection drops default-omitted sensitive fields not explicitly
// requested, or applies the caller's explicit projection.
func (s *documentStore) applyProjection(collection string, doc bson.M, o store.FindOptions) {
	if o.Projection != nil {
		applyExplicitProjection(doc, o.Projection)

		return
	}

	spec := s.registry.Spec(collection)
	if len(spec.OmitByDefault) == 0 {
		return
	}

	requested := make(map[string]struct{}, len(o.Fields))
	for _, f := range o.Fields {
		requested[f] = struct{}{}
	}
	for _, field := range spec.OmitByDefault {
		if _, ok := requested[field]; !ok {
			delete(doc, field)
		}
	}
}

func applyExplicitProjection(doc bson.M, projection bson.M) {
	includes := false
	for _, v := range projection {
		if n, ok := asInt64(v); ok && n == 1 {
			includes = true

			break
		}
	}

	if includes {
		for field := range doc {
			if field == "_id" {
				continue
			}
			if n, ok := asInt64(projection[field]); !ok || n != 1 {
				delete(doc, field)
			}
		}

		return
	}
	for field, v := range projection {
		if n, ok := asInt64(v); ok && n == 0 {
			delete(doc, field)
		}
	}
}

func decodeSlice(matches []bson.M, out any) error {
	outValue := reflect.ValueOf(out)
	if outValue.Kind() != reflect.Pointer || outValue.Elem().Kind() != reflect.Slice {
		return errors.Errorf("find: out must be a pointer to a slice, got %T", out)
	}

	elemType := outValue.Elem().Type().Elem()
	result := reflect.MakeSlice(outValue.Elem().Type(), 0, len(matches))
	for _, doc := range matches {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return errors.Wrap(err, "re-encode document")
		}
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return errors.Wrap(err, "decode document")
		}
		result = reflect.Append(result, elem.Elem())
	}
	outValue.Elem().Set(result)

	return nil
}

// decodeDistinct extracts the deduplicated values of one field across
// the matches, preserving first-seen order. Documents without the field
// contribute nothing.
func decodeDistinct(matches []bson.M, field string, out any) error {
	outValue := reflect.ValueOf(out)
	if outValue.Kind() != reflect.Pointer || outValue.Elem().Kind() != reflect.Slice {
		return errors.Errorf("distinct: out must be a pointer to a slice, got %T", out)
	}

	var values []any
	for _, doc := range matches {
		value, present := doc[field]
		if !present || value == nil {
			continue
		}
		duplicate := false
		for _, seen := range values {
			if looseEqual(seen, value) {
				duplicate = true

				break
			}
		}
		if !duplicate {
			values = append(values, value)
		}
	}

	elemType := outValue.Elem().Type().Elem()
	result := reflect.MakeSlice(outValue.Elem().Type(), 0, len(values))
	for _, value := range values {
		valueType, raw, err := bson.MarshalValue(value)
		if err != nil {
			return errors.Wrap(err, "re-encode value")
		}
		elem := reflect.New(elemType)
		if err := bson.UnmarshalValue(valueType, raw, elem.Interface()); err != nil {
			return errors.Wrap(err, "decode value")
		}
		result = reflect.Append(result, elem.Elem())
	}
	outValue.Elem().Set(result)

	return nil
}

func (s *documentStore) Count(ctx context.Context, collection string, filter store.Filter) (int64, error) {
	matches, err := s.matchDocs(collection, filter)
	if err != nil {
		return 0, s.fail("Store.Count", "Could not count the documents.", err)
	}

	return int64(len(matches)), nil
}

func (s *documentStore) Update(ctx context.Context, collection string, filter store.Filter, patch store.Patch, opts ...store.UpdateOption) error {
	const fn = "Store.Update"
	o := store.BuildUpdateOptions(opts)

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collection(collection)
	updated := 0
	for id, raw := range coll {
		doc := bson.M{}
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return s.fail(fn, "Could not decode the stored document.", err)
		}
		if !matchesFilter(doc, filter) {
			continue
		}

		for field, value := range patch {
			if strings.HasPrefix(field, "$") {
				return s.fail(fn, "Unsupported update operator.", errors.Errorf("operator %s", field))
			}
			doc[field] = value
		}

		if err := s.checkUnique(collection, id, doc); err != nil {
			return s.fail(fn, fmt.Sprintf("Could not update %s documents. Conditions: %v update: %v",
				strings.ToLower(collection), filter, patch), err)
		}

		encoded, err := bson.Marshal(doc)
		if err != nil {
			return s.fail(fn, "Could not encode the updated document.", err)
		}
		coll[id] = encoded

		updated++
		if !o.Multi && updated == 1 {
			break
		}
	}

	return nil
}

func (s *documentStore) RemoveMany(ctx context.Context, collection string, filter store.Filter) error {
	const fn = "Store.RemoveMany"

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collection(collection)
	for id, raw := range coll {
		doc := bson.M{}
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return s.fail(fn, "Could not decode the stored document.", err)
		}
		if matchesFilter(doc, filter) {
			delete(coll, id)
		}
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

	return s.put(fn, doc.Collection(), doc)
}

func (s *documentStore) put(fn, collection string, doc store.Document) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return s.fail(fn, "Could not save the document.", err)
	}
	decoded := bson.M{}
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		return s.fail(fn, "Could not save the document.", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUnique(collection, doc.DocumentID(), decoded); err != nil {
		return s.fail(fn, "Could not save the document.", err)
	}
	s.collection(collection)[doc.DocumentID()] = raw

	return nil
}

// checkUnique enforces the registry's unique constraints the way the
// database's partial unique indexes do: absent fields never collide.
// Callers hold the write lock.
func (s *documentStore) checkUnique(collection string, selfID bson.ObjectID, doc bson.M) error {
	spec := s.registry.Spec(collection)
	for _, field := range spec.Unique {
		value, present := doc[field]
		if !present || value == nil || value == "" {
			continue
		}
		for otherID, raw := range s.data[collection] {
			if otherID == selfID {
				continue
			}
			other := bson.M{}
			if err := bson.Unmarshal(raw, &other); err != nil {
				return errors.Wrap(err, "corrupt stored document")
			}
			if looseEqual(other[field], value) {
				return errors.Errorf("duplicate value for unique field %s.%s", collection, field)
			}
		}
	}

	return nil
}

// InsertMany bulk-inserts without running the pre-save capabilities.
func (s *documentStore) InsertMany(ctx context.Context, collection string, docs []store.Document) error {
	const fn = "Store.InsertMany"

	for _, doc := range docs {
		if doc.DocumentID().IsZero() {
			doc.SetDocumentID(bson.NewObjectID())
		}
		if err := s.put(fn, collection, doc); err != nil {
			return err
		}
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
