package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/infrastructure/cache"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/config"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/database"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/telemetry"
	"github.com/hisabkhata/ledger-backend/internal/service/invoicing"
	ledgersvc "github.com/hisabkhata/ledger-backend/internal/service/ledger"
	"github.com/hisabkhata/ledger-backend/internal/service/payments"
	"github.com/hisabkhata/ledger-backend/internal/service/projections"
	"github.com/hisabkhata/ledger-backend/internal/service/queries"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.SetDefault(telemetry.SetupLogger(cfg.Logging.Level))

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", zap.Error(err))
	}
	defer app.close()

	if err := app.run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// application holds the wired ledger core: event store, projections and the
// command/query services an embedding transport would call.
type application struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *database.ConnectionPool

	Invoicing *invoicing.Service
	Payments  *payments.Service
	Ledger    *ledgersvc.Service
	Queries   *queries.Service
}

func newApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	pool, err := database.NewConnectionPool(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	redisClient, err := cache.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		pool.Close()
		return nil, err
	}
	ledgerCache := cache.NewLedgerCache(redisClient, cfg.Redis.CacheTTL)

	store := database.NewPgEventStore(pool.Pool())
	pub := events.NewInProcessPublisher(logger)

	invoiceRepo := database.NewInvoiceEventRepository(store, pub)
	paymentRepo := database.NewPaymentEventRepository(store, pub)
	journalRepo := database.NewJournalEventRepository(store, pub)
	accountRepo := database.NewAccountEventRepository(store, pub)

	invoiceReads := database.NewInvoiceReadRepository(pool.Pool())
	paymentReads := database.NewPaymentReadRepository(pool.Pool())
	journalReads := database.NewJournalReadRepository(pool.Pool())
	accountReads := database.NewAccountReadRepository(pool.Pool())

	projections.Register(pub,
		projections.NewInvoiceProjector(invoiceRepo, invoiceReads, ledgerCache, logger),
		projections.NewPaymentProjector(paymentRepo, paymentReads, ledgerCache, logger),
		projections.NewJournalProjector(journalRepo, journalReads, ledgerCache, logger),
		projections.NewAccountProjector(accountRepo, accountReads, ledgerCache, logger),
	)

	invoicingSvc := invoicing.NewService(invoiceRepo, invoiceReads, cfg.TaxRules.VATRate(), logger)

	return &application{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		Invoicing: invoicingSvc,
		Payments:  payments.NewService(paymentRepo, invoiceRepo, invoicingSvc, logger),
		Ledger:    ledgersvc.NewService(journalRepo, accountRepo, journalReads, logger),
		Queries:   queries.NewService(invoiceReads, paymentReads, journalReads, accountReads, ledgerCache, logger),
	}, nil
}

// run serves the operational endpoints until the context is cancelled, then
// drains in-flight requests within the shutdown timeout.
func (a *application) run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := a.pool.Pool().Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:         a.cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			zap.String("address", a.cfg.Server.Address),
			zap.String("environment", a.cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *application) close() {
	a.pool.Close()
}
