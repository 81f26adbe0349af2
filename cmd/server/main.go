package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"paychain/internal/approval"
	"paychain/internal/audit"
	"paychain/internal/audit/relay"
	auditmem "paychain/internal/audit/store/memory"
	auditpg "paychain/internal/audit/store/postgres"
	"paychain/internal/crypto"
	cryptohandler "paychain/internal/crypto/handler"
	"paychain/internal/crypto/keycache"
	"paychain/internal/crypto/store/userkey"
	"paychain/internal/gateway"
	"paychain/internal/invoice"
	jwttoken "paychain/internal/jwt_token"
	mandatehandler "paychain/internal/mandate/handler"
	"paychain/internal/mandate/service"
	cartstore "paychain/internal/mandate/store/cart"
	intentstore "paychain/internal/mandate/store/intent"
	paymentstore "paychain/internal/mandate/store/payment"
	"paychain/internal/platform/config"
	"paychain/internal/platform/httpserver"
	"paychain/internal/platform/logger"
	"paychain/internal/platform/metrics"
	platformpg "paychain/internal/platform/postgres"
	platformredis "paychain/internal/platform/redis"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		intents  service.IntentStore
		carts    service.CartStore
		payments service.PaymentStore
		invoices service.InvoiceProvider
		userKeys crypto.UserKeyStore
		ledger   audit.Store
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}
		if err := platformpg.EnsureSchema(ctx, db); err != nil {
			log.Error("apply postgres schema", "error", err)
			os.Exit(1)
		}
		intents = intentstore.NewPostgres(db)
		carts = cartstore.NewPostgres(db)
		payments = paymentstore.NewPostgres(db)
		invoices = invoice.NewPostgres(db)
		userKeys = userkey.NewPostgres(db)
		ledger = auditpg.New(db)
	} else {
		log.Warn("POSTGRES_DSN not set, using in-memory stores")
		intents = intentstore.NewInMemory()
		carts = cartstore.NewInMemory()
		payments = paymentstore.NewInMemory()
		invoices = invoice.NewInMemory()
		userKeys = userkey.NewInMemory()
		ledger = auditmem.NewInMemoryStore()
	}

	rdb, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var cache crypto.KeyCache = keycache.NewMemory()
	if rdb != nil {
		cache = keycache.NewRedis(rdb.Client, log)
	}
	signer, err := crypto.New(crypto.NewKeystore(cfg.AgentKeyPath), userKeys,
		crypto.WithLogger(log),
		crypto.WithCache(cache),
	)
	if err != nil {
		log.Error("init crypto service", "error", err)
		os.Exit(1)
	}

	recorderOpts := []audit.RecorderOption{audit.WithLogger(log)}
	var sink chan audit.Event
	var auditRelay *relay.Relay
	if len(cfg.KafkaBrokers) > 0 {
		sink = make(chan audit.Event, 256)
		auditRelay, err = relay.New(ctx, cfg.KafkaBrokers, sink,
			relay.WithTopic(cfg.AuditTopic),
			relay.WithLogger(log),
		)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		recorderOpts = append(recorderOpts, audit.WithSink(sink))
	}
	recorder := audit.NewRecorder(ledger, recorderOpts...)

	m := metrics.New()
	chainOpts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
	}
	if rdb != nil {
		chainOpts = append(chainOpts, service.WithLocker(service.NewRedisLock(rdb.Client)))
	}
	chain := service.New(
		intents, carts, payments, invoices, signer,
		approval.NewClient(cfg.ApprovalURL, approval.WithTimeout(cfg.ApprovalTimeout), approval.WithLogger(log)),
		gateway.NewClient(cfg.GatewayURL, gateway.WithTimeout(cfg.GatewayTimeout), gateway.WithLogger(log)),
		recorder,
		chainOpts...,
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "paychain", "paychain-api")

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if rdb != nil {
			if err := rdb.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	mandatehandler.New(chain, ledger, log, jwtService).Register(router)
	cryptohandler.New(signer, log, jwtService).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting paychain", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if auditRelay != nil {
		g.Go(func() error {
			if err := auditRelay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if auditRelay != nil {
			return auditRelay.Close(shutdownCtx)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("paychain exited", "error", err)
		os.Exit(1)
	}
	log.Info("paychain stopped")
}
