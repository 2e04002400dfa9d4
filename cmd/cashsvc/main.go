package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/madina-shop/cashbook-services/configs"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/broker"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/db"
	handlers "github.com/madina-shop/cashbook-services/internal/cashsvc/handlers"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/service"
	"github.com/madina-shop/cashbook-services/internal/cashsvc/store"
	nats "github.com/madina-shop/cashbook-services/internal/nats"
	"github.com/madina-shop/cashbook-services/internal/notify"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "cash"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// pg connection
	dbpool, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	shop := config.LoadShop()

	settingsStore := store.NewSettingsStore(dbpool)
	settingsService := service.NewSettingsService(settingsStore)

	// seed the settings row and fail fast on a broken schema; reads go
	// through the service afterwards so updates apply immediately
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_, err = settingsService.Get(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load shop settings: %v", err)
	}

	// Connect to NATS, events are optional for this service
	var ledgerBroker *broker.Broker
	n, err := nats.Connect()
	if err != nil {
		log.Warnf("unable to connect to NATS server, ledger events disabled: %v", err)
	} else {
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)
		ledgerBroker = broker.NewBroker(n.Conn)
	}

	notifier := notify.FromEnv()

	txStore := store.NewTransactionStore(dbpool)
	txService := service.NewTransactionService(txStore, ledgerBroker, notifier, shop, settingsService)

	billStore := store.NewBillStore(dbpool)
	billService := service.NewBillService(billStore, ledgerBroker, notifier)

	dashboardService := service.NewDashboardService(txStore, shop)
	analyticsService := service.NewAnalyticsService(txStore, shop)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(shop, txService, billService, dashboardService, analyticsService, settingsService)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("CASH_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service instance %s running at port %s", SERVICE_NAME, config.GetInstanceId(), server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
