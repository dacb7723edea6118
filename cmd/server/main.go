package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tazhibayda/family-gallery/docs"
	"github.com/tazhibayda/family-gallery/internal/config"
	api "github.com/tazhibayda/family-gallery/internal/http"
	"github.com/tazhibayda/family-gallery/internal/identity"
	"github.com/tazhibayda/family-gallery/internal/ingest"
	"github.com/tazhibayda/family-gallery/internal/log"
	"github.com/tazhibayda/family-gallery/internal/metrics"
	"github.com/tazhibayda/family-gallery/internal/photos"
	"github.com/tazhibayda/family-gallery/internal/queue"
	"github.com/tazhibayda/family-gallery/internal/repo"
	"github.com/tazhibayda/family-gallery/internal/security"
	"github.com/tazhibayda/family-gallery/internal/service"
	"github.com/tazhibayda/family-gallery/internal/session"
	"github.com/tazhibayda/family-gallery/internal/storage"
	"github.com/tazhibayda/family-gallery/internal/sweep"
	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const serviceName = "family-gallery"

// @title Family Gallery API
// @version 1.0
// @description Family blog, photo galleries and Google Photos import.
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Production())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	if cfg.DDOn {
		tracer.Start(tracer.WithService(serviceName), tracer.WithEnv(cfg.Env))
		defer tracer.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config) error {
	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := repo.NewStore(initCtx, cfg.Mongo.URI, cfg.Mongo.DB)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	if err := store.EnsureIndexes(initCtx); err != nil {
		return err
	}

	sessions, closeSessions, err := sessionStore(initCtx, cfg, store)
	if err != nil {
		return err
	}
	defer closeSessions()

	files, local, err := fileStore(initCtx, cfg)
	if err != nil {
		return err
	}

	var pub queue.Publisher = queue.NewNoop()
	if cfg.Rabbit.URL != "" {
		if pub, err = queue.NewRabbit(cfg.Rabbit.URL, cfg.Rabbit.Exchange); err != nil {
			return err
		}
	}
	defer pub.Close()

	if cfg.Auth.FirebaseProject == "" {
		log.Warnf("FIREBASE_PROJECT_ID is empty, family tokens will be rejected")
	}
	keys := security.NewFetcher(cfg.Auth.JWKSURL, time.Duration(cfg.Auth.JWKSCacheSeconds)*time.Second)

	ing := ingest.New(files, cfg.Upload.MaxBytes)
	source := &photos.GoogleSource{Base: &http.Client{Timeout: cfg.Import.ItemTimeout}}

	h := &api.Handler{
		Admins:    service.NewAdminService(store),
		Family:    service.NewFamilyService(store, pub),
		Galleries: service.NewGalleryService(store, store, store, ing, pub),
		Entries: service.NewEntryService(store, store, ing, source, pub, service.ImportOptions{
			Concurrency: cfg.Import.Concurrency,
			ItemTimeout: cfg.Import.ItemTimeout,
		}),
		Posts: service.NewPostService(store, store, ing),
		Tags:  service.NewTagService(store),
		Sessions: session.NewManager(sessions, cfg.Auth.SessionSecret, session.Options{
			TTL:          cfg.Auth.SessionTTL,
			CookieMaxAge: cfg.Auth.CookieMaxAge,
			Secure:       cfg.Production(),
		}),
		Identity:  identity.NewFirebaseVerifier(keys, cfg.Auth.FirebaseProject),
		DB:        store,
		MaxUpload: cfg.Upload.MaxBytes,
	}

	rc := api.RouterConfig{
		ServiceName:     serviceName,
		CORSOrigins:     cfg.CORS,
		LoginRatePerMin: cfg.Auth.LoginRatePerMin,
		TrustedProxies:  cfg.TrustedProxies,
	}
	if local != nil {
		rc.UploadDir, rc.UploadPrefix = local.Root(), cfg.Upload.URLPrefix
		if cfg.Sweep.Cron != "" {
			c, err := sweep.New(local, store, cfg.Sweep.Grace).Schedule(cfg.Sweep.Cron)
			if err != nil {
				return err
			}
			c.Start()
			defer c.Stop()
		}
	}

	metrics.MustRegister()
	docs.SwaggerInfo.BasePath = "/"

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(h, rc),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe() }()
	log.Infof("%s listening on :%s (storage=%s sessions=%s)", serviceName, cfg.Port, cfg.Upload.Backend, cfg.Auth.SessionBackend)

	select {
	case <-ctx.Done():
		log.Infof("shutting down")
	case err := <-srvErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShut()
	return srv.Shutdown(shutCtx)
}

func sessionStore(ctx context.Context, cfg config.Config, store *repo.Store) (session.Store, func(), error) {
	if cfg.Auth.SessionBackend != "redis" {
		return store.Sessions(), func() {}, nil
	}
	rds := repo.NewRedis(cfg.Auth.RedisAddr)
	if err := rds.Ping(ctx); err != nil {
		_ = rds.Close()
		return nil, nil, err
	}
	return rds.Sessions(), func() { _ = rds.Close() }, nil
}

// fileStore returns the configured backend; local is non-nil only for disk storage.
func fileStore(ctx context.Context, cfg config.Config) (storage.FileStore, *storage.Local, error) {
	if cfg.Upload.Backend == "s3" {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		return s3, nil, err
	}
	local, err := storage.NewLocal(cfg.Upload.Dir, cfg.Upload.URLPrefix)
	if err != nil {
		return nil, nil, err
	}
	return local, local, nil
}
