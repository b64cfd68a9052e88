package bootstrap

import (
	"context"
	"fmt"
	"time"

	"fitFlowAPI/config"
	"fitFlowAPI/internal/firebaseapp"
	"fitFlowAPI/internal/logging"
	"fitFlowAPI/internal/metrics"
	"fitFlowAPI/internal/notification"
	"fitFlowAPI/internal/store"
	"fitFlowAPI/internal/streak"
	"fitFlowAPI/middleware"
	"fitFlowAPI/services"

	firebase "firebase.google.com/go/v4"
	"github.com/IBM/pgxpoolprometheus"
	clerk "github.com/clerk/clerk-sdk-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// App is everything main and the admin CLI share: the store, the services
// and the identity and push integrations selected by the config.
type App struct {
	Config   *config.Config
	Store    store.Store
	Services *services.Services
	Metrics  *metrics.Manager
	Registry *prometheus.Registry

	Verifier middleware.IdentityVerifier
	// Push is nil when push notifications are disabled.
	Push *notification.FCMService

	pinger  func(ctx context.Context) error
	closers []func() error
}

func SetupLogging(cfg *config.Config) {
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogFile,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
		Environment:   cfg.Environment,
		SentryDSN:     cfg.SentryDSN,
	})
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	ok := false
	defer func() {
		if !ok {
			if err := a.Close(); err != nil {
				log.Warnf("Bootstrap: cleanup after failed start: %v", err)
			}
		}
	}()

	var fbApp *firebase.App
	if cfg.FirebaseNeeded() {
		var err error
		fbApp, err = firebaseapp.New(ctx, firebaseapp.Params{
			ProjectID:         cfg.FirebaseProjectID,
			CredentialsBase64: cfg.FirebaseCredentials,
			CredentialsFile:   cfg.FirebaseCredsFile,
		})
		if err != nil {
			return nil, err
		}
	}

	primary, collectors, err := a.openStore(ctx, fbApp)
	if err != nil {
		return nil, err
	}

	a.Registry = metrics.SetupPrometheus(collectors...)
	a.Metrics = metrics.NewManager("fitflow", "api", a.Registry)
	a.Metrics.GaugeLifeSignal.Set(1)

	a.Store = primary
	if cfg.StoreBackend != config.BackendMemory && cfg.LocalCacheMB > 0 {
		a.Store = store.NewFallback(primary, cfg.LocalCacheMB, func(op string) {
			a.Metrics.CounterStoreFallbacks.WithLabelValues(op).Inc()
		})
	}

	if a.Verifier, err = newVerifier(ctx, cfg, fbApp); err != nil {
		return nil, err
	}

	var notifier services.Notifier = notification.LogNotifier{}
	if cfg.PushEnabled {
		if a.Push, err = notification.NewFCMService(ctx, fbApp); err != nil {
			return nil, err
		}
		notifier = a.Push
		log.Infoln("FCM push provider initialized")
	}
	dispatcher := services.NewNotificationDispatcher(notifier, a.Metrics, 4, 100)
	a.closers = append(a.closers, func() error {
		dispatcher.Stop()
		return nil
	})

	a.Services = services.New(services.Deps{
		Store:    a.Store,
		Streak:   streak.NewEngine(cfg.Milestones...),
		Notifier: dispatcher,
		Metrics:  a.Metrics,
		Location: cfg.Timezone,
		Now:      time.Now,
	})

	ok = true
	return a, nil
}

func (a *App) openStore(ctx context.Context, fbApp *firebase.App) (store.Store, []prometheus.Collector, error) {
	switch a.Config.StoreBackend {
	case config.BackendFirestore:
		client, err := fbApp.Firestore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		log.Infoln("Store: using Firestore")
		return store.NewFirestore(client), nil, nil

	case config.BackendPostgres:
		pool, err := newPool(ctx, a.Config.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		a.pinger = pool.Ping

		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		collector := pgxpoolprometheus.NewCollector(pool, map[string]string{"db_name": "fitflow"})
		log.Infoln("Store: using Postgres")
		return pg, []prometheus.Collector{collector}, nil
	}

	log.Warnln("Store: using in-memory store, data is lost on restart")
	return store.NewMemory(), nil, nil
}

func newPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func newVerifier(ctx context.Context, cfg *config.Config, fbApp *firebase.App) (middleware.IdentityVerifier, error) {
	if cfg.AuthProvider == config.AuthFirebase {
		client, err := fbApp.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase auth client: %w", err)
		}
		log.Infoln("Auth: using Firebase ID tokens")
		return middleware.FirebaseVerifier{Client: client}, nil
	}

	clerk.SetKey(cfg.ClerkSecretKey)
	log.Infoln("Auth: using Clerk session tokens")
	return middleware.ClerkVerifier{CheckEmail: cfg.RequireVerifiedEmail}, nil
}

// Ping checks the database when the backend has one to check.
func (a *App) Ping(ctx context.Context) error {
	if a.pinger == nil {
		return nil
	}
	return a.pinger(ctx)
}

func (a *App) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	a.closers = nil
	return err
}
