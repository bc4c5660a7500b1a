package store

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// FindOptions collects per-query knobs. Built through FindOption values;
// the zero value means defaults (sensitive fields omitted, no sort, no
// limit, no populate).
type FindOptions struct {
	// Fields lists sensitive bson fields to include despite their
	// default omission (registry OmitByDefault).
	Fields []string

	// Projection restricts the returned fields (1 include, 0 exclude).
	Projection bson.M

	// Sort orders the result.
	Sort bson.D

	// Limit bounds the number of returned documents; 0 means no bound.
	Limit int64

	// References to resolve right after the fetch.
	References []Reference

	// DistinctField switches Find to return the deduplicated values of
	// one field instead of whole documents.
	DistinctField string
}

// FindOption mutates FindOptions.
type FindOption func(*FindOptions)

// BuildFindOptions applies opts to a fresh FindOptions.
func BuildFindOptions(opts []FindOption) FindOptions {
	var o FindOptions
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Fields requests sensitive fields that default reads omit, e.g. the
// credential's password hash or session token.
func Fields(names ...string) FindOption {
	return func(o *FindOptions) { o.Fields = append(o.Fields, names...) }
}

// Project restricts the returned fields.
func Project(projection bson.M) FindOption {
	return func(o *FindOptions) { o.Projection = projection }
}

// Sort orders the result.
func Sort(sort bson.D) FindOption {
	return func(o *FindOptions) { o.Sort = sort }
}

// Limit bounds the number of returned documents.
func Limit(n int64) FindOption {
	return func(o *FindOptions) { o.Limit = n }
}

// Distinct makes Find decode the deduplicated values of the given bson
// field into out (a pointer to a slice of the field's type) instead of
// whole documents. Sort, Limit and populate do not apply.
func Distinct(field string) FindOption {
	return func(o *FindOptions) { o.DistinctField = field }
}

// WithPopulate resolves the given references right after the fetch.
func WithPopulate(refs ...Reference) FindOption {
	return func(o *FindOptions) { o.References = append(o.References, refs...) }
}

// UpdateOptions collects update knobs.
type UpdateOptions struct {
	// Multi applies the patch to every match instead of the first.
	Multi bool
}

// UpdateOption mutates UpdateOptions.
type UpdateOption func(*UpdateOptions)

// BuildUpdateOptions applies opts to a fresh UpdateOptions.
func BuildUpdateOptions(opts []UpdateOption) UpdateOptions {
	var o UpdateOptions
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// All makes Update patch every match.
func All() UpdateOption {
	return func(o *UpdateOptions) { o.Multi = true }
}
