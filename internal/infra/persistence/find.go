package persistence

import (
	"context"
	"reflect"

	"folio/internal/domain/store"
	"folio/internal/errors"
)

// FindOneVia implements the single-document lookup on top of the bounded
// multi-find (limit 1), so both implementations keep one query path.
// out must be a pointer to the document struct; it is only written when
// a match exists.
func FindOneVia(ctx context.Context, finder Finder, collection string, filter store.Filter, out any, opts ...store.FindOption) (bool, error) {
	outType := reflect.TypeOf(out)
	if outType == nil || outType.Kind() != reflect.Pointer {
		return false, errors.Errorf("findOne: out must be a pointer, got %T", out)
	}

	slicePtr := reflect.New(reflect.SliceOf(outType.Elem()))
	opts = append(opts, store.Limit(1))
	if err := finder.Find(ctx, collection, filter, slicePtr.Interface(), opts...); err != nil {
		return false, err
	}

	matches := slicePtr.Elem()
	if matches.Len() == 0 {
		return false, nil
	}
	reflect.ValueOf(out).Elem().Set(matches.Index(0))

	return true, nil
}
