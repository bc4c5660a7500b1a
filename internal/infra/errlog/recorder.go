// Package errlog persists classified failures to the append-only error
// log collection as a side effect of error handling.
package errlog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/fx"

	"folio/config"
	"folio/internal/domain/entity"
	"folio/internal/domain/fault"
	"folio/internal/domain/store"
)

const writeTimeout = 5 * time.Second

// Recorder writes one ErrorLog document per recorded fault. Writes are
// asynchronous; a failed write is logged and dropped, never retried.
type Recorder struct {
	store   store.Store
	logger  *slog.Logger
	enabled bool
	wg      sync.WaitGroup
}

// RecorderParams holds dependencies for the Recorder, injected by Fx.
type RecorderParams struct {
	fx.In
	fx.Lifecycle

	Store  store.Store
	Config *config.Config
	Logger *slog.Logger
}

// NewRecorder is the constructor for Recorder. Recording is disabled in
// test mode so test runs do not flood the log collection.
func NewRecorder(params RecorderParams) *Recorder {
	recorder := &Recorder{
		store:   params.Store,
		logger:  params.Logger,
		enabled: !params.Config.TestMode(),
	}

	params.Append(fx.Hook{
		OnStop: func(context.Context) error {
			recorder.Flush()

			return nil
		},
	})

	return recorder
}

// Record persists the fault in err's tree, if any. Faults without an
// originating function name and silent faults (routine authorization
// failures) are skipped.
func (r *Recorder) Record(err error) {
	fe, ok := fault.FromError(err)
	if !ok || fe.Fn() == "" || fe.Silent() {
		return
	}

	message := fmt.Sprintf("%s %s", fe.Kind(), fe.Message())
	r.logger.Error("Recording fault",
		slog.String("function", fe.Fn()),
		slog.String("kind", string(fe.Kind())),
		slog.String("message", fe.Message()))

	if !r.enabled {
		return
	}

	entry := &entity.ErrorLog{
		FunctionName: fe.Fn(),
		Message:      message,
		TimeStamp:    time.Now().UTC(),
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		// InsertMany bypasses pre-save hooks; a recorder failure must
		// not re-enter error handling.
		if err := r.store.InsertMany(ctx, entity.CollectionErrorLogs, []store.Document{entry}); err != nil {
			r.logger.Error("Error saving ErrorLog", slog.Any("error", err))
		}
	}()
}

// Flush waits for in-flight writes; used on shutdown and in tests.
func (r *Recorder) Flush() {
	r.wg.Wait()
}
