package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civicreport-be/config"
	"civicreport-be/controllers"
	"civicreport-be/middlewares"
	"civicreport-be/policy"
	"civicreport-be/repository"
	"civicreport-be/routes"
	"civicreport-be/services"
	"civicreport-be/storage"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	log := config.NewLogger(os.Stdout, cfg.Production(), cfg.LogLevel)
	slog.SetDefault(log)
	if envErr != nil {
		log.Info("No .env file found")
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			AttachStacktrace: true,
		}); err != nil {
			log.Warn("sentry init failed", "err", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	issueRepo, userRepo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	redisClient, err := config.ConnectRedis(ctx, cfg.RedisAddress, cfg.RedisPassword)
	if err != nil {
		return err
	}
	if redisClient == nil {
		log.Warn("REDIS_ADDRESS not set, issue rate limiting disabled")
	} else {
		defer redisClient.Close()
	}

	photos, localUploads, err := openPhotoStore(ctx, cfg)
	if err != nil {
		return err
	}

	auth := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry, log)
	issues := services.NewIssueService(issueRepo, policy.NewLifecycle(cfg.TransitionMode), log)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if localUploads != "" {
		r.Static("/uploads", localUploads)
	}

	routes.Setup(r, routes.Deps{
		Auth: controllers.NewAuthController(auth, controllers.CookieOptions{
			Domain:     cfg.Domain,
			Production: cfg.Production(),
			MaxAge:     cfg.JWTExpiry,
		}, log),
		Issues:   controllers.NewIssueController(issues, photos, log),
		Resolver: auth,
		RateLimit: middlewares.RateLimit{
			Client: redisClient,
			Prefix: cfg.RateLimitPrefix,
			Limit:  cfg.IssueRateLimit,
			Window: cfg.RateLimitWindow,
			Log:    log,
		},
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "mode", cfg.TransitionMode, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (repository.IssueRepository, repository.UserRepository, func(), error) {
	if cfg.StoreDriver == "memory" {
		log.Warn("using in-memory store, data is lost on restart")
		return repository.NewMemoryIssues(), repository.NewMemoryUsers(), func() {}, nil
	}

	client, db, err := config.ConnectDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("MongoDB connection established successfully", "db", cfg.MongoDB)

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("mongo disconnect", "err", err)
		}
	}
	return repository.NewMongoIssues(db), repository.NewMongoUsers(db), closeFn, nil
}

// openPhotoStore also returns the directory to serve when photos are kept
// on local disk.
func openPhotoStore(ctx context.Context, cfg *config.Config) (storage.PhotoStore, string, error) {
	if cfg.UploadDriver == "minio" {
		store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
		return store, "", err
	}
	store, err := storage.NewDiskStore(cfg.UploadDir, "/uploads")
	if err != nil {
		return nil, "", err
	}
	return store, cfg.UploadDir, nil
}
