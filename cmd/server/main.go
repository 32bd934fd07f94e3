package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	docs "github.com/tazhibayda/tasks-service/docs"
	"github.com/tazhibayda/tasks-service/internal/billing"
	"github.com/tazhibayda/tasks-service/internal/config"
	api "github.com/tazhibayda/tasks-service/internal/http"
	"github.com/tazhibayda/tasks-service/internal/identity"
	"github.com/tazhibayda/tasks-service/internal/log"
	"github.com/tazhibayda/tasks-service/internal/metrics"
	"github.com/tazhibayda/tasks-service/internal/queue"
	"github.com/tazhibayda/tasks-service/internal/repo"
)

// @title Tasks API
// @version 0.1.0
// @description Session auth, task catalog and subscription billing.
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Production())
	if err != nil {
		stdlog.Fatalf("log init: %v", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	rds := repo.NewRedis(cfg.RedisAddr)
	defer rds.Close()

	var pub queue.Publisher = queue.NewNoop()
	if cfg.RabbitURL != "" {
		pub, err = queue.NewRabbit(cfg.RabbitURL, "app.events")
		if err != nil {
			logger.Fatal("rabbit connect", zap.Error(err))
		}
	}
	defer pub.Close()

	idp := identity.NewProvider(identity.ProviderOpts{
		JWKSURL:  cfg.IdentityJWKSURL,
		MintURL:  cfg.IdentityMintURL,
		APIKey:   cfg.IdentityAPIKey,
		Issuer:   cfg.IdentityIssuer,
		Audience: cfg.IdentityAudience,
	})
	bill := billing.NewStripe(cfg.StripeSecretKey)

	metrics.MustRegister()
	docs.SwaggerInfo.BasePath = "/"

	h := api.NewHandler(store, idp, bill, pub, rds, cfg)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("tasks-service listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
