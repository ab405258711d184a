package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/avvvet/chip-services/configs"
	"github.com/avvvet/chip-services/internal/chipsvc/broker"
	svcconfig "github.com/avvvet/chip-services/internal/chipsvc/config"
	pgdb "github.com/avvvet/chip-services/internal/chipsvc/db"
	"github.com/avvvet/chip-services/internal/chipsvc/detect"
	handlers "github.com/avvvet/chip-services/internal/chipsvc/handlers"
	"github.com/avvvet/chip-services/internal/chipsvc/notice"
	"github.com/avvvet/chip-services/internal/chipsvc/service"
	"github.com/avvvet/chip-services/internal/chipsvc/store"
	mongostore "github.com/avvvet/chip-services/internal/chipsvc/store/mongo"
	pgstore "github.com/avvvet/chip-services/internal/chipsvc/store/postgres"
	mongodb "github.com/avvvet/chip-services/internal/db"
	nats "github.com/avvvet/chip-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "chip"

func main() {
	config.LoadEnv(SERVICE_NAME)

	cfg, err := svcconfig.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	instanceId := config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME+"_service_"+instanceId[:8], cfg.LogLevel, cfg.LogDir)

	gw, err := openGateway(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer gw.Shutdown()
	log.Infof("%s store ready", cfg.StoreBackend)

	var detector service.Detector
	if cfg.Detect.UseMock {
		log.Warn("chip detection runs in mock mode")
		detector = detect.NewMock()
	} else {
		detector = detect.NewClient(cfg.DetectURL(), cfg.StoreTimeout)
	}

	sessionService := service.NewSessionService(gw, cfg.StoreTimeout)
	playerService := service.NewPlayerService(gw, cfg.StoreTimeout)
	statsService := service.NewStatsService(gw, cfg.StoreTimeout, cfg.StatsConcurrency)
	sheetService := service.NewSheetService(gw, cfg.StoreTimeout, detector)

	// NATS is optional: without NATS_URL only the HTTP api is served
	var closeBroker func()
	if cfg.NATS.URL != "" {
		n, err := nats.Connect(cfg.NATS.URL, cfg.NATS.Token, SERVICE_NAME+"-service-"+instanceId)
		if err != nil {
			log.Fatalf("Error: unable to connect to NATS server %v", err)
		}
		log.Printf("NATS connection established successfully %s", n.Url)

		b := broker.NewBroker(n.Conn, playerService, statsService, cfg.StoreTimeout)
		sub, err := b.Subscribe(cfg.NATS.Subject)
		if err != nil {
			log.Fatalf("Error: unable to subscribe to %s %v", cfg.NATS.Subject, err)
		}
		closeBroker = func() {
			_ = sub.Unsubscribe()
			_ = n.Conn.Drain()
		}
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS(cfg.CORSOrigins)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(cfg.Port, sessionService, playerService, statsService, sheetService,
		notice.NewBoards(cfg.NoticeTTL))
	h.InitAuth(cfg.JWTSecret)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.Port,
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
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if closeBroker != nil {
		closeBroker()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
		return
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}

// openGateway builds the one store handle every service shares.
func openGateway(ctx context.Context, cfg *svcconfig.Config) (*store.Gateway, error) {
	switch cfg.StoreBackend {
	case svcconfig.BackendPostgres:
		pool, err := pgdb.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		if err := pgdb.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return pgstore.NewGateway(pool), nil
	case svcconfig.BackendMongo:
		db, err := mongodb.ConnectToDB(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		s := mongostore.NewStore(db)
		if err := s.EnsureIndexes(ctx); err != nil {
			mongodb.Disconnect(db)
			return nil, err
		}
		return mongostore.NewGateway(db, func() { mongodb.Disconnect(db) }), nil
	case svcconfig.BackendMemory:
		return store.NewGateway(store.NewMemoryStore()), nil
	case svcconfig.BackendMock:
		return store.NewGateway(store.NewMockStore()), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
