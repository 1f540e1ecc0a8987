package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	_ "stockcount/docs"
	"stockcount/pkg/config"
	"stockcount/pkg/contact"
	"stockcount/pkg/count"
	"stockcount/pkg/kv"
	"stockcount/pkg/kv/backend"
	"stockcount/pkg/logger"
	"stockcount/pkg/metrics"
	"stockcount/pkg/otel"
	"stockcount/pkg/record"
)

// api holds the per-process state shared by the HTTP handlers.
type api struct {
	counts   *count.Service
	contacts *contact.Service
	log      *logger.Logger
	tracer   trace.Tracer
	metrics  *metrics.Metrics
	now      func() time.Time
}

// @title StockCount API
// @version 1.0
// @description API for inventory counting lists and customer registration
// @host localhost:8443
// @BasePath /
func main() {
	configFile := flag.String("config", "", "config file path (optional)")
	flag.Parse()

	if err := run(*configFile); err != nil {
		os.Exit(1)
	}
}

func run(configFile string) error {
	ctx := context.Background()
	bootLog := logger.New(os.Stdout, logger.LevelInfo, "stockcount", otel.GetTraceID)

	cfg, err := config.Load(configFile)
	if err != nil {
		bootLog.Error(ctx, "load config", "error", err)
		return err
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		bootLog.Error(ctx, "parse log level", "error", err)
		return err
	}
	log := logger.New(os.Stdout, level, "stockcount", otel.GetTraceID)

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "stockcount", Host: cfg.Tracing.Host, Probability: cfg.Tracing.Probability})
	if err != nil {
		log.Error(ctx, "init tracing", "error", err)
		return err
	}
	defer shutdown(context.Background())

	storage, closeStorage, err := backend.Open(ctx, cfg.Storage)
	if err != nil {
		log.Error(ctx, "open storage", "backend", cfg.Storage.Backend, "error", err)
		return err
	}
	defer closeStorage()

	a := newAPI(ctx, storage, cfg, log, tp.Tracer("stockcount"))

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "listening", "addr", cfg.HTTP.Addr, "backend", cfg.Storage.Backend, "tls", cfg.HTTP.TLSCert != "")
	if cfg.HTTP.TLSCert != "" {
		err = srv.ListenAndServeTLS(cfg.HTTP.TLSCert, cfg.HTTP.TLSKey)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(ctx, "server closed", "error", err)
		return err
	}
	return nil
}

func newAPI(ctx context.Context, storage kv.Storage, cfg config.Config, log *logger.Logger, tracer trace.Tracer) *api {
	var opts []count.Option
	if cfg.Scan.DigitsOnly {
		opts = append(opts, count.WithNormalizer(count.DigitsOnly))
	}
	a := &api{
		counts:   count.Open(ctx, storage, opts...),
		contacts: contact.Open(ctx, storage, record.UUIDGenerator),
		log:      log,
		tracer:   tracer,
		metrics:  metrics.New(),
		now:      time.Now,
	}
	metrics.Observe(a.metrics, a.counts.Store())
	metrics.Observe(a.metrics, a.contacts.Store())
	logChanges(log, a.counts.Store())
	logChanges(log, a.contacts.Store())
	return a
}

func (a *api) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(a.traceMiddleware)
	r.Use(a.metrics.Middleware)

	counts := r.PathPrefix("/counts").Subrouter()
	counts.HandleFunc("", a.listCountsHandler).Methods(http.MethodGet)
	counts.HandleFunc("", a.createCountHandler).Methods(http.MethodPost)
	counts.HandleFunc("", a.clearCountsHandler).Methods(http.MethodDelete)
	counts.HandleFunc("/{ean}", a.getCountHandler).Methods(http.MethodGet)
	counts.HandleFunc("/{ean}", a.updateCountHandler).Methods(http.MethodPut)
	counts.HandleFunc("/{ean}", a.deleteCountHandler).Methods(http.MethodDelete)

	contacts := r.PathPrefix("/contacts").Subrouter()
	contacts.HandleFunc("", a.listContactsHandler).Methods(http.MethodGet)
	contacts.HandleFunc("", a.createContactHandler).Methods(http.MethodPost)
	contacts.HandleFunc("", a.clearContactsHandler).Methods(http.MethodDelete)
	contacts.HandleFunc("/{id}", a.getContactHandler).Methods(http.MethodGet)
	contacts.HandleFunc("/{id}", a.updateContactHandler).Methods(http.MethodPut)
	contacts.HandleFunc("/{id}", a.deleteContactHandler).Methods(http.MethodDelete)

	exports := r.PathPrefix("/export").Subrouter()
	exports.HandleFunc("/counts", a.exportCountsHandler).Methods(http.MethodGet)
	exports.HandleFunc("/contacts", a.exportContactsHandler).Methods(http.MethodGet)

	r.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}

func logChanges[T any](log *logger.Logger, s *record.Store[T]) {
	name := s.StorageKey()
	s.Subscribe(func(c record.Change[T]) {
		if c.Err != nil {
			log.Error(context.Background(), "persist failed", "store", name, "op", c.Op.String(), "error", c.Err)
			return
		}
		log.Debug(context.Background(), "store changed", "store", name, "op", c.Op.String(), "key", c.Key, "records", len(c.Records))
	})
}
