package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "assetverse/docs" // swagger docs

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"assetverse/internal/audit"
	"assetverse/internal/auth"
	"assetverse/internal/cache"
	"assetverse/internal/config"
	"assetverse/internal/db"
	"assetverse/internal/handler"
	"assetverse/internal/logging"
	"assetverse/internal/mailer"
	"assetverse/internal/notify"
	"assetverse/internal/payment"
	"assetverse/internal/realtime"
	"assetverse/internal/repository"
	"assetverse/internal/router"
	"assetverse/internal/service"
	"assetverse/internal/storage"
)

// @title AssetVerse API
// @version 1.0
// @description Multi-tenant asset management: inventory, request approval workflow and subscription packages.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Debug)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if cfg.MigrateOnStart() || cfg.Database.Reset {
		if err := db.Migrate(gormDB, cfg.Database.Reset); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cacheClient.Ping(ctx); err != nil {
		log.WithError(err).Warn("redis unreachable, caching and token revocation degrade until it recovers")
	}
	defer cacheClient.Close()

	// Initialize repositories
	repos := repository.NewRepositories(gormDB)
	transactor := repository.NewTransactor(gormDB)

	// Event sinks
	hub := realtime.NewHub(cfg.AllowedOrigins())
	go hub.Run(ctx)
	sinks := []notify.Sink{hub}

	if cfg.Smtp.Host != "" {
		sinks = append(sinks, mailer.New(mailer.Config{
			Host:     cfg.Smtp.Host,
			Port:     cfg.Smtp.Port,
			User:     cfg.Smtp.User,
			Password: cfg.Smtp.Password,
			From:     cfg.Smtp.From,
			TLS:      cfg.SmtpTLS(),
		}))
	}

	var (
		auditReader audit.Reader
		mongoClient *mongo.Client
	)
	if cfg.Mongo.URI != "" {
		mongoClient, err = db.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			log.WithError(err).Warn("mongo unavailable, audit trail disabled")
		} else {
			store := audit.NewMongoStore(mongoClient.Database(cfg.Mongo.Database))
			if err := store.EnsureIndexes(ctx); err != nil {
				log.WithError(err).Warn("audit indexes")
			}
			sinks = append(sinks, store)
			auditReader = store
		}
	}
	defer db.DisconnectMongo(mongoClient)

	dispatcher := notify.NewDispatcher(sinks...)

	var uploader storage.Uploader
	if cfg.S3.Endpoint != "" {
		minioUploader, err := storage.NewMinioUploader(ctx, storage.Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			UseSSL:          cfg.S3.UseSSL,
			PublicURL:       cfg.S3.PublicURL,
		})
		if err != nil {
			log.WithError(err).Warn("s3 unavailable, uploads disabled")
		} else {
			uploader = minioUploader
		}
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)
	tokenStore := auth.NewTokenStore(cacheClient)

	gateway := payment.NewStripeGateway(cfg.Payment.StripeSecret, cfg.Payment.WebhookSecret)

	// Initialize services
	authService := service.NewAuthService(repos.Users, jwtService, tokenStore)
	userService := service.NewUserService(repos.Users, cacheClient, dispatcher)
	assetService := service.NewAssetService(repos.Assets, repos.Users, transactor)
	requestService := service.NewRequestService(repos, transactor, cacheClient, dispatcher)
	packageService := service.NewPackageService(repos.Packages, cacheClient)
	subscriptionService := service.NewSubscriptionService(repos, transactor, gateway, cacheClient, dispatcher, service.SubscriptionConfig{
		SiteDomain: cfg.Payment.SiteDomain,
		Currency:   cfg.Payment.Currency,
	})

	if seeded, err := packageService.EnsureCatalog(ctx); err != nil {
		log.WithError(err).Error("package catalog seeding failed")
	} else if seeded > 0 {
		log.WithField("packages", seeded).Info("default packages created")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Options{
		JWTService:     jwtService,
		TokenStore:     tokenStore,
		AllowedOrigins: cfg.AllowedOrigins(),
		Health:         func() error { return db.Ping(gormDB) },
	}, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Asset:   handler.NewAssetHandler(assetService),
		Request: handler.NewRequestHandler(requestService),
		Payment: handler.NewPaymentHandler(packageService, subscriptionService),
		Upload:  handler.NewUploadHandler(uploader),
		Event:   handler.NewEventHandler(hub, auditReader),
	})

	go func() {
		addr := ":" + cfg.Server.Port
		log.WithField("addr", addr).Info("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
	dispatcher.Close()
}
