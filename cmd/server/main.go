package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	assessmenthandler "wellbuddie/internal/assessment/handler"
	assessmentmetrics "wellbuddie/internal/assessment/metrics"
	assessmentservice "wellbuddie/internal/assessment/service"
	assessmentstore "wellbuddie/internal/assessment/store"
	consenthandler "wellbuddie/internal/consent/handler"
	consentmetrics "wellbuddie/internal/consent/metrics"
	consentservice "wellbuddie/internal/consent/service"
	consentstore "wellbuddie/internal/consent/store"
	"wellbuddie/internal/platform/config"
	"wellbuddie/internal/platform/httpserver"
	"wellbuddie/internal/platform/kafka"
	"wellbuddie/internal/platform/logger"
	"wellbuddie/internal/platform/metrics"
	"wellbuddie/internal/platform/postgres"
	"wellbuddie/internal/platform/redis"
	"wellbuddie/internal/privacy"
	privacyhandler "wellbuddie/internal/privacy/handler"
	privacymetrics "wellbuddie/internal/privacy/metrics"
	privacyservice "wellbuddie/internal/privacy/service"
	"wellbuddie/internal/privacy/sink"
	privacystore "wellbuddie/internal/privacy/store"
	ratelimitmetrics "wellbuddie/internal/ratelimit/metrics"
	ratelimitmw "wellbuddie/internal/ratelimit/middleware"
	ratelimitmodels "wellbuddie/internal/ratelimit/models"
	ratelimitservice "wellbuddie/internal/ratelimit/service"
	"wellbuddie/internal/ratelimit/store/bucket"
	"wellbuddie/internal/session"
	sessionhandler "wellbuddie/internal/session/handler"
	httptransport "wellbuddie/internal/transport/http"
	"wellbuddie/pkg/platform/audit"
	"wellbuddie/pkg/platform/audit/publishers/compliance"
	auditmemory "wellbuddie/pkg/platform/audit/store/memory"
	auditpostgres "wellbuddie/pkg/platform/audit/store/postgres"
)

const shutdownTimeout = 10 * time.Second

// infra holds the optional backing services. Nil fields mean "not configured".
type infra struct {
	db    *sql.DB
	redis *redis.Client
	kafka *kgo.Client
}

func (i *infra) close() {
	if i.kafka != nil {
		i.kafka.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

// main wires dependencies, serves HTTP and runs the retention worker until
// SIGINT or SIGTERM.
func main() {
	cfg, warnings := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	for _, w := range warnings {
		log.Warn("configuration", "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("wellbuddie stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var auditStore audit.Store = auditmemory.NewInMemoryStore()
	if deps.db != nil {
		auditStore = auditpostgres.New(deps.db)
	}
	auditor := compliance.New(auditStore,
		compliance.WithLogger(log),
		compliance.WithRegisterer(reg),
	)

	var sealer *privacy.Sealer
	if cfg.EncryptionKey != nil {
		if sealer, err = privacy.NewSealer(cfg.EncryptionKey); err != nil {
			return err
		}
	}

	regions, err := privacy.LoadRegionMapper(cfg.Privacy.RegionMapPath)
	if err != nil {
		return err
	}

	// consent
	consentOpts := []consentservice.Option{
		consentservice.WithAuditor(auditor),
		consentservice.WithAuditTrail(auditor),
		consentservice.WithMetrics(consentmetrics.New(reg)),
		consentservice.WithLogger(log),
	}
	var consentStore consentservice.Store
	switch {
	case deps.db != nil:
		pg := consentstore.NewPostgresStore(deps.db)
		consentStore = pg
		consentOpts = append(consentOpts, consentservice.WithTx(consentstore.NewPostgresTx(deps.db, pg)))
	case deps.redis != nil:
		consentStore = consentstore.NewRedisStore(deps.redis.Client)
	default:
		consentStore = consentstore.NewInMemoryStore()
	}
	consentSvc := consentservice.New(consentStore, consentOpts...)

	// privacy
	pm := privacymetrics.New(reg)
	var analyticsStore privacyservice.Store = privacystore.NewInMemoryStore()
	if deps.db != nil {
		analyticsStore = privacystore.NewPostgresStore(deps.db)
	}
	privacyOpts := []privacyservice.Option{
		privacyservice.WithConsent(consentSvc),
		privacyservice.WithAnonymizer(privacy.NewAnonymizer(privacy.WithRegionMapper(regions))),
		privacyservice.WithAuditor(auditor),
		privacyservice.WithMetrics(pm),
		privacyservice.WithLogger(log),
		privacyservice.WithPolicy(cfg.Privacy, sealer != nil),
	}
	if deps.kafka != nil {
		privacyOpts = append(privacyOpts, privacyservice.WithMirror(
			sink.NewKafkaSink(deps.kafka, cfg.Kafka.AnalyticsTopic, sink.WithMetrics(pm), sink.WithLogger(log))))
	}
	privacySvc := privacyservice.New(analyticsStore, privacyOpts...)

	// assessment
	var historyStore assessmentservice.Store
	var historySealer assessmentstore.Sealer
	if sealer != nil {
		historySealer = sealer
	}
	switch {
	case deps.db != nil:
		historyStore = assessmentstore.NewPostgresStore(deps.db, historySealer)
	case deps.redis != nil:
		historyStore = assessmentstore.NewRedisStore(deps.redis.Client, historySealer)
	default:
		historyStore = assessmentstore.NewInMemoryStore()
	}
	assessmentSvc := assessmentservice.New(historyStore, consentSvc,
		assessmentservice.WithAnalytics(privacySvc),
		assessmentservice.WithAuditor(auditor),
		assessmentservice.WithMetrics(assessmentmetrics.New(reg)),
		assessmentservice.WithLogger(log),
	)

	tokens := session.NewTokenService(cfg.SessionSigningKey, cfg.SessionTTL)

	// rate limiting
	var buckets ratelimitservice.BucketStore = bucket.NewInMemoryBucketStore()
	if deps.redis != nil {
		buckets = bucket.NewRedisBucketStore(deps.redis.Client)
	}
	rlMetrics := ratelimitmetrics.New(reg)
	limiterSvc, err := ratelimitservice.New(buckets,
		ratelimitservice.WithLimits(ratelimitservice.LimitsFromConfig(cfg.RateLimit)),
		ratelimitservice.WithMetrics(rlMetrics),
		ratelimitservice.WithLogger(log),
	)
	if err != nil {
		return err
	}
	limiter := ratelimitmw.New(limiterSvc, log,
		ratelimitmw.WithDisabled(cfg.RateLimit.Disabled),
		ratelimitmw.WithTrustProxyHeaders(cfg.RateLimit.TrustProxyHeaders),
		ratelimitmw.WithMetrics(rlMetrics),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Metrics:   metrics.New(reg),
		Gatherer:  reg,
		Validator: session.NewMiddlewareValidator(tokens),
		Health:    healthChecks(deps),

		PublicLimit:  limiter.ByClientIP(ratelimitmodels.ClassPublic),
		SessionLimit: limiter.BySubject(ratelimitmodels.ClassSession),
	},
		[]httptransport.PublicModule{sessionhandler.New(tokens, auditor, log)},
		consenthandler.New(consentSvc, log),
		assessmenthandler.New(assessmentSvc, log),
		privacyhandler.New(privacySvc, log),
	)
	srv := httpserver.New(cfg.Addr, router)
	worker := privacyservice.NewRetentionWorker(privacySvc, cfg.Privacy.SweepInterval,
		privacyservice.WithWorkerLogger(log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting wellbuddie", "addr", cfg.Addr,
			"postgres", deps.db != nil,
			"redis", deps.redis != nil,
			"kafka", deps.kafka != nil,
			"sealing", sealer != nil,
		)
		err := httpserver.Run(gctx, srv, shutdownTimeout)
		log.Info("http server stopped")
		return err
	})
	g.Go(func() error { return worker.Run(gctx) })
	return g.Wait()
}

// connect opens whichever backing services are configured and applies the
// schema and topic on first use.
func connect(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	deps := &infra{}
	var err error

	if deps.db, err = postgres.Open(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}
	if deps.db != nil {
		if err := postgres.Migrate(ctx, deps.db); err != nil {
			deps.close()
			return nil, err
		}
	}

	if deps.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		deps.close()
		return nil, err
	}

	if deps.kafka, err = kafka.New(cfg.Kafka); err != nil {
		deps.close()
		return nil, err
	}
	if deps.kafka != nil {
		if err := kafka.EnsureTopic(ctx, deps.kafka, cfg.Kafka.AnalyticsTopic); err != nil {
			// The mirror is best effort; the breaker absorbs a missing topic.
			log.Warn("could not ensure analytics topic", "topic", cfg.Kafka.AnalyticsTopic, "error", err)
		}
	}
	return deps, nil
}

func healthChecks(deps *infra) map[string]httptransport.HealthCheck {
	checks := map[string]httptransport.HealthCheck{}
	if deps.db != nil {
		checks["postgres"] = deps.db.PingContext
	}
	if deps.redis != nil {
		checks["redis"] = deps.redis.Health
	}
	if deps.kafka != nil {
		checks["kafka"] = deps.kafka.Ping
	}
	return checks
}
