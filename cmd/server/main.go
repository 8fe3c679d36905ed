package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"lotolink/internal/auth"
	userstore "lotolink/internal/auth/store/user"
	"lotolink/internal/banca"
	bancametrics "lotolink/internal/banca/metrics"
	bancaservice "lotolink/internal/banca/service"
	bancastore "lotolink/internal/banca/store"
	"lotolink/internal/platform/config"
	"lotolink/internal/platform/httpserver"
	"lotolink/internal/platform/logger"
	httpmetrics "lotolink/internal/platform/metrics"
	"lotolink/internal/platform/postgres"
	"lotolink/internal/platform/redis"
	ratelimitmetrics "lotolink/internal/ratelimit/metrics"
	ratelimitmw "lotolink/internal/ratelimit/middleware"
	ratelimitmodels "lotolink/internal/ratelimit/models"
	ratelimit "lotolink/internal/ratelimit/service"
	"lotolink/internal/ratelimit/service/requestlimit"
	"lotolink/internal/ratelimit/store/attempts"
	"lotolink/internal/ratelimit/store/bucket"
	"lotolink/internal/sucursal"
	sucursalservice "lotolink/internal/sucursal/service"
	sucursalstore "lotolink/internal/sucursal/store"
	httptransport "lotolink/internal/transport/http"
	audit "lotolink/pkg/platform/audit"
	"lotolink/pkg/platform/audit/kafka"
	"lotolink/pkg/platform/audit/publisher"
	auditmemory "lotolink/pkg/platform/audit/store/memory"
	auditpostgres "lotolink/pkg/platform/audit/store/postgres"
)

const (
	auditBuffer          = 1024
	auditTopicPartitions = 3
	auditTopicReplicas   = 1
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires infrastructure, domain services and the HTTP router, then serves
// until SIGINT or SIGTERM.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, logCloser, err := logger.New(cfg.Log, cfg.IsProduction())
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := httptransport.NewHealth()

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		health.Add("postgres", db.PingContext)
		log.Info("using postgres stores")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var (
		attemptStore ratelimit.Store    = attempts.NewInMemoryStore()
		bucketStore  requestlimit.Store = bucket.New()
		fallback     *requestlimit.Service
	)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	limitMetrics := ratelimitmetrics.New(reg)

	if rdb != nil {
		defer rdb.Close()
		attemptStore = attempts.NewRedis(rdb.Client, attempts.WithTTL(cfg.Admin.Window+cfg.Admin.Lockout))
		bucketStore = bucket.NewRedis(rdb.Client)
		if fallback, err = requestLimiter(bucket.New(), cfg.Limits, log, limitMetrics); err != nil {
			return err
		}
		health.Add("redis", rdb.Health)
		log.Info("using redis for admin code attempts and request limits")
	}
	requests, err := requestLimiter(bucketStore, cfg.Limits, log, limitMetrics)
	if err != nil {
		return err
	}
	limitOpts := []ratelimitmw.Option{
		ratelimitmw.WithDisabled(cfg.Limits.Disabled),
		ratelimitmw.WithMetrics(limitMetrics),
	}
	if fallback != nil {
		limitOpts = append(limitOpts, ratelimitmw.WithFallback(fallback))
	}

	sink, closeSink, err := auditSink(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer closeSink()
	auditor := publisher.NewPublisher(sink, publisher.WithAsyncBuffer(auditBuffer), publisher.WithLogger(log))
	defer auditor.Close()

	bancaSvc := banca.NewService(bancaStore(db),
		bancaservice.WithLogger(log),
		bancaservice.WithAuditPublisher(auditor),
		bancaservice.WithMetrics(bancametrics.New(reg)),
	)
	sucursalSvc := sucursal.NewService(sucursalStore(db), bancaSvc,
		sucursalservice.WithLogger(log),
		sucursalservice.WithAuditPublisher(auditor),
	)
	authModule, err := auth.New(cfg, auth.Deps{
		Users:          userStore(db),
		Attempts:       attemptStore,
		Logger:         log,
		Audit:          auditor,
		LimiterOptions: []ratelimit.Option{ratelimit.WithMetrics(limitMetrics)},
	})
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:     log,
		Tokens:     authModule.Tokens,
		Auth:       authModule.Handler,
		Bancas:     banca.NewHandler(bancaSvc, log),
		Sucursales: sucursal.NewHandler(sucursalSvc, log),
		Metrics:    httpmetrics.New(reg),
		Gatherer:   reg,
		Health:     health,
		RateLimit:  ratelimitmw.New(requests, log, limitOpts...),
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(ctx, httpserver.New(cfg.Addr, router), log)
	})
	g.Go(func() error {
		return authModule.Limiter.Run(ctx, cfg.Admin.SweepEvery)
	})
	g.Go(func() error {
		return requests.Run(ctx, cfg.Limits.SweepEvery)
	})
	if fallback != nil {
		g.Go(func() error {
			return fallback.Run(ctx, cfg.Limits.SweepEvery)
		})
	}

	log.Info("lotolink starting", "addr", cfg.Addr, "env", cfg.Environment)
	return g.Wait()
}

// auditSink prefers Kafka, then the audit_events table, then memory.
func auditSink(ctx context.Context, cfg config.Server, db *sqlx.DB, log *slog.Logger) (audit.Store, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		if db != nil {
			log.Info("KAFKA_BROKERS not set, writing audit events to postgres")
			return auditpostgres.New(db), func() {}, nil
		}
		log.Info("KAFKA_BROKERS not set, keeping audit events in memory")
		return auditmemory.NewInMemoryStore(), func() {}, nil
	}
	sink, err := kafka.New(ctx, kafka.Config{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.AuditTopic,
		ClientID: "lotolink",
	})
	if err != nil {
		return nil, nil, err
	}
	if err := sink.EnsureTopic(ctx, auditTopicPartitions, auditTopicReplicas); err != nil {
		sink.Close()
		return nil, nil, err
	}
	log.Info("publishing audit events to kafka", "topic", cfg.Kafka.AuditTopic)
	return sink, sink.Close, nil
}

func requestLimiter(store requestlimit.Store, cfg config.RateLimitConfig, log *slog.Logger, m *ratelimitmetrics.Metrics) (*requestlimit.Service, error) {
	return requestlimit.New(store,
		requestlimit.WithLimit(ratelimitmodels.ClassAuth, ratelimitmodels.Limit{Requests: cfg.AuthRequests, Window: cfg.AuthWindow}),
		requestlimit.WithLimit(ratelimitmodels.ClassLogin, ratelimitmodels.Limit{Requests: cfg.LoginRequests, Window: cfg.LoginWindow}),
		requestlimit.WithLogger(log),
		requestlimit.WithMetrics(m),
	)
}

func bancaStore(db *sqlx.DB) bancaservice.Store {
	if db == nil {
		return bancastore.NewInMemoryStore()
	}
	return bancastore.NewPostgres(db)
}

func sucursalStore(db *sqlx.DB) sucursalservice.Store {
	if db == nil {
		return sucursalstore.NewInMemoryStore()
	}
	return sucursalstore.NewPostgres(db)
}

func userStore(db *sqlx.DB) auth.UserStore {
	if db == nil {
		return userstore.New()
	}
	return userstore.NewPostgres(db)
}
