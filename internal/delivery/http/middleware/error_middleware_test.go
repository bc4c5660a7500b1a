package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"folio/config"
	"folio/internal/delivery/http/response"
	"folio/internal/domain/entity"
	"folio/internal/domain/fault"
	"folio/internal/domain/store"
	"folio/internal/errors"
	"folio/internal/infra/errlog"
	"folio/internal/infra/persistence/memory"
)

type nopLifecycle struct{}

func (nopLifecycle) Append(fx.Hook) {}

func newErrorFixture(docStore store.Store) (*ErrorMiddleware, *errlog.Recorder) {
	recorder := errlog.NewRecorder(errlog.RecorderParams{
		Lifecycle: nopLifecycle{},
		Store:     docStore,
		Config:    &config.Config{},
		Logger:    discardLogger(),
	})

	return NewErrorMiddleware(discardLogger(), recorder), recorder
}

func handle(t *testing.T, m *ErrorMiddleware, err error) (*httptest.ResponseRecorder, response.Failure) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m.HandleHTTPError(err, c)

	var failure response.Failure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failure))

	return rec, failure
}

func TestErrorMiddleware_FaultBecomesEnvelope(t *testing.T) {
	m, _ := newErrorFixture(memory.NewStore())

	rec, failure := handle(t, m, fault.Missing("Store.FindOneRequired", "Could not fetch the document."))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", failure.Type)
	assert.Equal(t, "Could not fetch the document.", failure.Msg)
}

func TestErrorMiddleware_WrappedFaultKeepsKind(t *testing.T) {
	m, _ := newErrorFixture(memory.NewStore())

	wrapped := errors.Wrap(fault.New(fault.Validation, "AccountService.Register",
		"The password must be between 8 and 128 characters long."), "failed to register account")

	rec, failure := handle(t, m, wrapped)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION", failure.Type)
	// Only the fault's own message crosses the wire, never the wrap
	// chain.
	assert.Equal(t, "The password must be between 8 and 128 characters long.", failure.Msg)
}

func TestErrorMiddleware_UnclassifiedErrorIsUnknown(t *testing.T) {
	m, _ := newErrorFixture(memory.NewStore())

	rec, failure := handle(t, m, errors.New("database exploded: credentials inside"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "UNKNOWN", failure.Type)
	assert.Equal(t, "An unknown error occurred.", failure.Msg)
}

func TestErrorMiddleware_EchoNotFound(t *testing.T) {
	m, _ := newErrorFixture(memory.NewStore())

	rec, failure := handle(t, m, echo.NewHTTPError(http.StatusNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", failure.Type)
}

func TestErrorMiddleware_RecordsLoudFaults(t *testing.T) {
	docStore := memory.NewStore()
	m, recorder := newErrorFixture(docStore)

	handle(t, m, fault.DB("Store.Save", "Could not save the document.", errors.New("boom")))
	recorder.Flush()

	count, err := docStore.Count(context.Background(), entity.CollectionErrorLogs, store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestErrorMiddleware_GateDenialsAreNotRecorded(t *testing.T) {
	docStore := memory.NewStore()
	m, recorder := newErrorFixture(docStore)

	handle(t, m, fault.Unauthorized("Gate.Authorize", unauthorizedMessage))
	recorder.Flush()

	count, err := docStore.Count(context.Background(), entity.CollectionErrorLogs, store.Filter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}
