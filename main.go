package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/YvonneBrian/ECommerce-Repawtly/catalog"
	apperrors "github.com/YvonneBrian/ECommerce-Repawtly/common/errors"
	"github.com/YvonneBrian/ECommerce-Repawtly/common/logger"
	"github.com/YvonneBrian/ECommerce-Repawtly/common/middleware"
	"github.com/YvonneBrian/ECommerce-Repawtly/config"
	"github.com/YvonneBrian/ECommerce-Repawtly/database"
	"github.com/YvonneBrian/ECommerce-Repawtly/kafka"
	awspkg "github.com/YvonneBrian/ECommerce-Repawtly/pkg/aws"
	"github.com/YvonneBrian/ECommerce-Repawtly/routes"
	"github.com/YvonneBrian/ECommerce-Repawtly/services"
)

const serviceName = "storefront"

func main() {
	cfg, err := config.Load()
	log := logger.Initialize(cfg.Env)
	defer func() { _ = log.Sync() }()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	var awsCfg *sdkaws.Config
	needAWS := cfg.PersistenceBackend == config.BackendDynamoDB ||
		cfg.NotifySNSTopicARN != "" || cfg.OrderSNSTopicARN != "" || cfg.CloudWatchEnabled
	if needAWS {
		loaded, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			log.Fatal("failed to load AWS config", zap.Error(err))
		}
		awsCfg = &loaded
	}

	if cfg.CloudWatchEnabled {
		shipper, err := awspkg.NewLogsWriter(ctx, *awsCfg, cfg.LogGroup, serviceName)
		if err != nil {
			log.Warn("CloudWatch log shipping disabled", zap.Error(err))
		} else {
			log = logger.InitializeWithWriter(cfg.Env, shipper)
		}
	}

	// --- persistence ---
	var store database.Store
	switch cfg.PersistenceBackend {
	case config.BackendRedis:
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()
		store = database.NewRedisStore(client, "storefront:", cfg.CartTTL)
	case config.BackendDynamoDB:
		store = database.NewDynamoStore(awspkg.NewDynamoDBClient(*awsCfg), cfg.DynamoTable)
	default:
		store = database.NewMemoryStore()
	}
	log.Info("cart persistence ready", zap.String("backend", cfg.PersistenceBackend), zap.String("key", cfg.CartKey))

	// --- notifications ---
	inbox := services.NewInbox(100)
	notifiers := services.Notifiers{inbox, services.NewLogNotifier(log.Named("notify"))}
	var snsNotifier *services.SNSNotifier
	var snsClient *awspkg.SNSClient
	if awsCfg != nil {
		snsClient = awspkg.NewSNSClient(*awsCfg)
	}
	if cfg.NotifySNSTopicARN != "" {
		snsNotifier = services.NewSNSNotifier(snsClient, cfg.NotifySNSTopicARN, log.Named("sns"))
		notifiers = append(notifiers, snsNotifier)
	}

	// --- order events ---
	var publishers services.OrderPublishers
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Fatal("failed to create Kafka producer", zap.Error(err))
		}
		defer producer.Close()
		publishers = append(publishers, producer)
	}
	if cfg.OrderSNSTopicARN != "" {
		publishers = append(publishers, services.NewSNSOrderPublisher(snsClient, cfg.OrderSNSTopicARN))
	}

	// --- metrics ---
	var metricsClient *awspkg.MetricsClient
	if awsCfg != nil {
		metricsClient = awspkg.NewMetricsClient(*awsCfg, "Repawtly/Storefront", cfg.CloudWatchEnabled)
	}

	opts := services.Options{
		Store:           store,
		CartKey:         cfg.CartKey,
		Catalog:         catalog.Default(),
		Authenticator:   services.NewMemoryDirectory(0),
		Notifier:        notifiers,
		Scheduler:       services.RealScheduler(),
		Settler:         services.SimulatedSettler{},
		Logger:          log,
		DefaultPrice:    cfg.DefaultPrice,
		ShippingFee:     cfg.ShippingFee,
		SettlementDelay: cfg.SettlementDelay,
	}
	if len(publishers) > 0 {
		opts.Publisher = publishers
	}
	if metricsClient.IsEnabled() {
		opts.Metrics = metricsClient
	}
	storefront := services.New(ctx, opts)

	// --- HTTP ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	limiter := middleware.NewRateLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimitPerMinute)), cfg.RateLimitBurst)
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log.Named("http")),
		middleware.RateLimit(limiter),
		middleware.Metrics(metricsClient, serviceName),
		apperrors.ErrorMiddleware(),
	)
	routes.RegisterStorefrontRoutes(router, storefront, inbox)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("storefront is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	storefront.Close()
	if snsNotifier != nil {
		snsNotifier.Wait()
	}
	log.Info("server shutdown complete")
}
