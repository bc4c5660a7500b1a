// Package persistence holds logic shared by the concrete store
// implementations.
package persistence

import (
	"context"
	"reflect"

	"go.mongodb.org/mongo-driver/v2/bson"

	"folio/internal/domain/store"
	"folio/internal/errors"
)

// Finder is the slice of the store contract reference resolution needs.
type Finder interface {
	Find(ctx context.Context, collection string, filter store.Filter, out any, opts ...store.FindOption) error
}

// PopulateDocuments resolves reference id fields into their sibling
// embedded fields for a single document or a homogeneous batch. Both
// store implementations resolve references client-side with one bounded
// $in query per reference, so the logic lives here once.
//
// Items whose target field is already resolved are left untouched.
func PopulateDocuments(ctx context.Context, finder Finder, docs any, refs ...store.Reference) error {
	items, err := structValues(docs)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	for _, ref := range refs {
		if err := populateReference(ctx, finder, items, ref); err != nil {
			return err
		}
	}

	return nil
}

// structValues normalizes docs (struct pointer, slice, or pointer to
// slice; elements may be values or pointers) into addressable structs.
func structValues(docs any) ([]reflect.Value, error) {
	v := reflect.ValueOf(docs)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil
		}
		if v.Elem().Kind() == reflect.Struct {
			return []reflect.Value{v.Elem()}, nil
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Slice {
		return nil, errors.Errorf("populate: unsupported document container %T", docs)
	}

	items := make([]reflect.Value, 0, v.Len())
	for i := range v.Len() {
		item := v.Index(i)
		if item.Kind() == reflect.Pointer {
			if item.IsNil() {
				continue
			}
			item = item.Elem()
		}
		items = append(items, item)
	}

	return items, nil
}

func populateReference(ctx context.Context, finder Finder, items []reflect.Value, ref store.Reference) error {
	pending, ids, err := collectPending(items, ref)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	elemType, err := targetElemType(pending[0], ref)
	if err != nil {
		return err
	}

	fetched := reflect.New(reflect.SliceOf(elemType))
	filter := store.Filter{"_id": bson.M{"$in": ids}}
	if err := finder.Find(ctx, ref.Collection, filter, fetched.Interface()); err != nil {
		return err
	}

	byID := make(map[bson.ObjectID]reflect.Value, fetched.Elem().Len())
	for i := range fetched.Elem().Len() {
		elem := fetched.Elem().Index(i)
		doc, ok := elem.Addr().Interface().(store.Document)
		if !ok {
			return errors.Errorf("populate: %s element is not a store.Document", ref.Collection)
		}
		byID[doc.DocumentID()] = elem
	}

	for _, item := range pending {
		assignResolved(item, ref, byID)
	}

	return nil
}

// collectPending returns the items still needing resolution for ref and
// the union of their reference ids.
func collectPending(items []reflect.Value, ref store.Reference) ([]reflect.Value, []bson.ObjectID, error) {
	var pending []reflect.Value
	var ids []bson.ObjectID
	seen := make(map[bson.ObjectID]struct{})

	for _, item := range items {
		idField := item.FieldByName(ref.IDField)
		target := item.FieldByName(ref.TargetField)
		if !idField.IsValid() || !target.IsValid() {
			return nil, nil, errors.Errorf("populate: %s has no fields %s/%s",
				item.Type().Name(), ref.IDField, ref.TargetField)
		}
		if !target.IsZero() {
			// Already resolved.
			continue
		}

		itemIDs := referenceIDs(idField)
		if len(itemIDs) == 0 {
			continue
		}
		pending = append(pending, item)
		for _, id := range itemIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	return pending, ids, nil
}

func referenceIDs(idField reflect.Value) []bson.ObjectID {
	switch idField.Kind() {
	case reflect.Slice:
		ids := make([]bson.ObjectID, 0, idField.Len())
		for i := range idField.Len() {
			if id, ok := idField.Index(i).Interface().(bson.ObjectID); ok && !id.IsZero() {
				ids = append(ids, id)
			}
		}

		return ids
	default:
		if id, ok := idField.Interface().(bson.ObjectID); ok && !id.IsZero() {
			return []bson.ObjectID{id}
		}

		return nil
	}
}

func targetElemType(item reflect.Value, ref store.Reference) (reflect.Type, error) {
	t := item.FieldByName(ref.TargetField).Type()
	switch t.Kind() {
	case reflect.Slice, reflect.Pointer:
		return t.Elem(), nil
	default:
		return nil, errors.Errorf("populate: target field %s must be a slice or pointer", ref.TargetField)
	}
}

func assignResolved(item reflect.Value, ref store.Reference, byID map[bson.ObjectID]reflect.Value) {
	idField := item.FieldByName(ref.IDField)
	target := item.FieldByName(ref.TargetField)

	switch target.Kind() {
	case reflect.Slice:
		resolved := reflect.MakeSlice(target.Type(), 0, idField.Len())
		for _, id := range referenceIDs(idField) {
			if elem, ok := byID[id]; ok {
				resolved = reflect.Append(resolved, elem)
			}
		}
		target.Set(resolved)
	case reflect.Pointer:
		ids := referenceIDs(idField)
		if len(ids) == 0 {
			return
		}
		if elem, ok := byID[ids[0]]; ok {
			ptr := reflect.New(target.Type().Elem())
			ptr.Elem().Set(elem)
			target.Set(ptr)
		}
	}
}
