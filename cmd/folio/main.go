package main

import (
	"context"
	"log/slog"
	"os"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/fx"

	"folio/config"
	"folio/internal/delivery"
	"folio/internal/delivery/http"
	"folio/internal/delivery/http/middleware"
	"folio/internal/delivery/http/router/handler"
	"folio/internal/domain/store"
	"folio/internal/infra/auth"
	"folio/internal/infra/errlog"
	logs "folio/internal/infra/log"
	"folio/internal/infra/persistence/mongodb"
	"folio/internal/usecase/impl"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			ensureIndexes,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		mongodb.New,
		mongodb.NewStore,
		errlog.NewRecorder,
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewUUIDTokenSource,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
			impl.NewPortfolioService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewGateMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewLoggerMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewPortfolioHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	return mongodb.EnsureIndexes(ctx, db, store.DefaultRegistry())
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
