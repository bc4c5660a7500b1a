package fault

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/errors"
)

func TestKind_HTTPCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation.HTTPCode())
	assert.Equal(t, http.StatusUnauthorized, Restriction.HTTPCode())
	assert.Equal(t, http.StatusForbidden, Security.HTTPCode())
	assert.Equal(t, http.StatusBadRequest, Database.HTTPCode())
	assert.Equal(t, http.StatusNotFound, NotFound.HTTPCode())
	assert.Equal(t, http.StatusBadRequest, Unknown.HTTPCode())
}

func TestFromError_UnwrapsWrappedFaults(t *testing.T) {
	inner := DB("Store.Find", "Could not fetch the documents.", errors.New("boom"))
	wrapped := errors.Wrap(errors.Wrap(inner, "mid"), "outer")

	f, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, Database, f.Kind())
	assert.Equal(t, "Store.Find", f.Fn())
	assert.Equal(t, "Could not fetch the documents.", f.Message())
}

func TestFromError_PlainErrorIsNotAFault(t *testing.T) {
	_, ok := FromError(errors.New("boom"))
	assert.False(t, ok)
}

func TestKindOf_DefaultsToUnknown(t *testing.T) {
	assert.Equal(t, Unknown, KindOf(errors.New("boom")))
}

func TestUnauthorized_IsSilent(t *testing.T) {
	f := Unauthorized("Gate.Authorize", "denied")
	assert.True(t, f.Silent())
	assert.Equal(t, Restriction, f.Kind())

	loud := Missing("Store.FindOneRequired", "missing")
	assert.False(t, loud.Silent())
	assert.Equal(t, NotFound, loud.Kind())
}

func TestError_UnwrapExposesCause(t *testing.T) {
	cause := errors.New("root")
	f := Wrap(Database, "Store.Save", "Could not save the document.", cause)

	assert.True(t, errors.Is(f, cause))
}
