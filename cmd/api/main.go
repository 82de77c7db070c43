package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/retail-ledger/internal/application/audit"
	"github.com/jhoicas/retail-ledger/internal/application/inventory"
	"github.com/jhoicas/retail-ledger/internal/application/purchasing"
	"github.com/jhoicas/retail-ledger/internal/application/sales"
	"github.com/jhoicas/retail-ledger/internal/application/usecase"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/retail-ledger/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/retail-ledger/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/retail-ledger/internal/interfaces/http"
	"github.com/jhoicas/retail-ledger/pkg/config"
	"github.com/jhoicas/retail-ledger/pkg/logger"
)

// backend agrupa lo que cada driver de almacenamiento aporta al cableado.
type backend struct {
	tx       usecase.TxRunner
	repos    repository.TxRepositories
	activity repository.ActivityLogRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openBackend(ctx, cfg, log.Module("store"))
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("abrir almacenamiento")
	}
	defer store.close()

	sinks := []audit.Sink{audit.RepositorySink{Repo: store.activity}}
	if cfg.Redis.Enabled {
		stream := infraredis.NewActivityStream(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.ActivityStream, cfg.Redis.StreamMaxLen)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := stream.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se omite el stream de actividad")
			_ = stream.Close()
		} else {
			defer stream.Close()
			sinks = append(sinks, stream)
		}
	}
	auditLog := audit.NewDispatcher(log.Module("audit"), cfg.Audit.Timeout, sinks...)

	ledger := inventory.NewStockLedger()
	repos := store.repos

	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:        cfg.App.Name,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		SwaggerEnabled: cfg.HTTP.SwaggerEnabled,
		SwaggerFile:    cfg.HTTP.SwaggerPath,
	}, httpRouter.RouterDeps{
		ProductUC:        usecase.NewProductUseCase(store.tx, ledger, repos.Products, auditLog),
		CustomerUC:       usecase.NewCustomerUseCase(store.tx, repos.Customers, auditLog),
		SupplierUC:       usecase.NewSupplierUseCase(store.tx, repos.Suppliers, auditLog),
		ActivityUC:       usecase.NewActivityUseCase(store.activity),
		RegisterMovement: inventory.NewRegisterMovementUseCase(store.tx, ledger, repos.Products, repos.Movements, auditLog),
		Replenishment:    inventory.NewReplenishmentUseCase(repos.Products),
		SaleUC:           sales.NewSaleUseCase(store.tx, ledger, repos.Sales, auditLog),
		PurchaseOrderUC:  purchasing.NewPurchaseOrderUseCase(store.tx, ledger, repos.PurchaseOrders, auditLog),
		JWTSecret:        cfg.JWT.Secret,
	}, log.Module("http"))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := auditLog.Drain(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("actividad pendiente sin registrar al apagar")
	}

	log.Info().Msg("aplicación detenida")
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("usando almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &backend{
			tx: s,
			repos: repository.TxRepositories{
				Products:       s.Products(),
				Movements:      s.Movements(),
				Sales:          s.Sales(),
				PurchaseOrders: s.PurchaseOrders(),
				Customers:      s.Customers(),
				Suppliers:      s.Suppliers(),
			},
			activity: s.ActivityLogs(),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		pool.Close()
		return nil, err
	}
	return &backend{
		tx:       postgres.NewTxRunner(pool),
		repos:    postgres.Repositories(pool),
		activity: postgres.NewActivityLogRepository(pool),
		close:    pool.Close,
	}, nil
}
