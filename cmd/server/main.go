package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crabstertechnology/EZCirkit/internal/api"
	"github.com/crabstertechnology/EZCirkit/internal/config"
	"github.com/crabstertechnology/EZCirkit/internal/core"
	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/gateway"
	"github.com/crabstertechnology/EZCirkit/internal/middleware"
	"github.com/crabstertechnology/EZCirkit/pkg/cache"
	"github.com/crabstertechnology/EZCirkit/pkg/mailer"
	"github.com/crabstertechnology/EZCirkit/pkg/messagequeue"
)

func main() {
	// --- 1. Logger ---
	var zapLogger *zap.Logger
	var err error
	if strings.ToLower(os.Getenv("GIN_MODE")) == "release" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- 2. Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded")

	// --- 3. Firebase Admin SDK (Firestore and Auth) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig, zapLogger); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firestoreClient == nil || firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase clients are nil after initialization")
	}
	defer firestoreClient.Close()
	zapLogger.Info("Firebase Admin SDK initialized")

	// --- 4. Optional infrastructure: Redis cache, RabbitMQ, SMTP ---
	var productCache cache.Cache
	if appConfig.RedisAddr != "" {
		productCache, err = cache.NewRedisCache(cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Warn("Redis unavailable, catalog caching disabled", zap.Error(err))
			productCache = nil
		} else {
			defer productCache.Close()
			zapLogger.Info("Redis cache connected", zap.String("addr", appConfig.RedisAddr))
		}
	}

	var queue messagequeue.MessageQueue
	if appConfig.AMQPUrl != "" {
		queue, err = messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.AMQPUrl})
		if err != nil {
			zapLogger.Warn("RabbitMQ unavailable, order events disabled", zap.Error(err))
			queue = nil
		} else {
			defer queue.Close()
			zapLogger.Info("RabbitMQ connected")
		}
	}

	var orderMailer *mailer.Mailer
	if appConfig.SMTPHost != "" {
		orderMailer, err = mailer.NewMailer(appConfig.SMTPHost, appConfig.SMTPPort, appConfig.SMTPUser, appConfig.SMTPPass, appConfig.MailSender)
		if err != nil {
			zapLogger.Warn("SMTP misconfigured, order confirmation emails disabled", zap.Error(err))
			orderMailer = nil
		}
	}

	// --- 5. Repositories ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	cartRepo := db.NewFirestoreCartRepository(firestoreClient)
	addressRepo := db.NewFirestoreAddressRepository(firestoreClient)
	orderRepo := db.NewFirestoreOrderRepository(firestoreClient)
	productRepo := db.NewFirestoreProductRepository(firestoreClient)
	reviewRepo := db.NewFirestoreReviewRepository(firestoreClient)
	tutorialRepo := db.NewFirestoreTutorialRepository(firestoreClient)
	messageRepo := db.NewFirestoreMessageRepository(firestoreClient)
	captureRepo := db.NewFirestorePaymentCaptureRepository(firestoreClient)
	zapLogger.Info("Repositories initialized")

	// --- 6. Services ---
	paymentGateway := gateway.NewRazorpayClient(appConfig.RazorpayKeyID, appConfig.RazorpayKeySecret)

	cartService := core.NewCartService(cartRepo, productRepo, appConfig.ShippingCost)
	checkoutService := core.NewCheckoutService(core.NewCheckoutServiceConfig{
		CartService: cartService,
		CartRepo:    cartRepo,
		AddressRepo: addressRepo,
		OrderRepo:   orderRepo,
		CaptureRepo: captureRepo,
		Gateway:     paymentGateway,
		Queue:       queue,
		QueueName:   appConfig.OrderEventsQueue,
		Currency:    appConfig.Currency,
		Logger:      zapLogger,
	})
	catalogService := core.NewCatalogService(productRepo, reviewRepo, orderRepo, productCache, zapLogger)
	orderService := core.NewOrderService(orderRepo, userRepo, zapLogger)
	addressService := core.NewAddressService(addressRepo)
	tutorialService := core.NewTutorialService(tutorialRepo, orderRepo)
	accountService := core.NewAccountService(userRepo, firebaseAuthClient, zapLogger)
	contactService := core.NewContactService(messageRepo)
	reconcileService := core.NewReconcileService(captureRepo, appConfig.ReconcileGrace, zapLogger)
	zapLogger.Info("Core services initialized")

	// --- 7. Background workers ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	go core.StartReconcileLoop(workerCtx, reconcileService, appConfig.ReconcileInterval, zapLogger)

	if queue != nil && orderMailer != nil {
		notifier := core.NewNotificationService(userRepo, orderMailer, queue, zapLogger)
		if err := notifier.Start(appConfig.OrderEventsQueue); err != nil {
			zapLogger.Warn("Failed to start notification consumer", zap.Error(err))
		} else {
			zapLogger.Info("Notification consumer started", zap.String("queue", appConfig.OrderEventsQueue))
		}
	}

	// --- 8. Gin engine and global middleware ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS middleware skipped: CLIENT_URL is not configured")
	}

	// --- 9. Routes ---
	api.SetupRoutes(router, zapLogger, userRepo, api.Services{
		Account:  accountService,
		Cart:     cartService,
		Checkout: checkoutService,
		Catalog:  catalogService,
		Order:    orderService,
		Address:  addressService,
		Tutorial: tutorialService,
		Contact:  contactService,
	})

	// --- 10. HTTP server with graceful shutdown ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	cancelWorkers()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully")
}
