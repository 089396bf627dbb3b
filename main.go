package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/Nayelilh/gps-tracking-server/handlers"
	"github.com/Nayelilh/gps-tracking-server/services"
	"github.com/Nayelilh/gps-tracking-server/storage"
)

const version = "1.0.0"

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatalf("❌ Store setup failed: %v", err)
	}

	// An unreachable store at boot is a configuration error, not a
	// transient fault; refuse to serve degraded responses.
	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	err = store.Ping(pingCtx)
	cancel()
	if err != nil {
		log.Fatalf("❌ Store unreachable: %v", err)
	}
	log.Printf("✅ Store connection verified (backend=%s table=%s)", cfg.StoreBackend, cfg.TableName)

	service := services.NewLocationService(store, cfg.MaxQueryLimit)
	locationHandler := handlers.NewLocationHandler(service)
	healthHandler := handlers.NewHealthHandler(version)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/location", locationHandler.HandleSubmit)
	mux.HandleFunc("/api/locations", locationHandler.HandleLocations)
	mux.HandleFunc("/api/devices", locationHandler.HandleDevices)
	mux.HandleFunc("/api/stats", locationHandler.HandleStats)
	mux.HandleFunc("/health", healthHandler.HandleHealth)
	mux.HandleFunc("/info", healthHandler.HandleInfo)
	mux.HandleFunc("/", healthHandler.HandleNotFound)

	limiter := NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)

	var ingest *services.MQTTIngest
	if cfg.MQTTBrokerURL != "" {
		ingest, err = services.NewMQTTIngest(cfg.MQTTBrokerURL, cfg.MQTTClientID, service, cfg.StoreTimeout)
		if err != nil {
			log.Fatalf("❌ MQTT broker unreachable: %v", err)
		}
		if err := ingest.Start(); err != nil {
			log.Fatalf("❌ MQTT subscribe failed: %v", err)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      chain(mux, cfg, limiter),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌍 GPS tracking server listening on :%d (region=%s)", cfg.Port, cfg.AWSRegion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-signalCtx.Done()

	log.Printf("⚠️  Shutdown signal received, draining in-flight requests...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Forced shutdown: %v", err)
	}

	if ingest != nil {
		ingest.Close()
	}

	log.Printf("✅ Server stopped")
}

// newStore builds the configured store backend.
func newStore(cfg Config) (storage.LocationStore, error) {
	switch cfg.StoreBackend {
	case "memory":
		log.Printf("⚠️  Using in-memory store; data will not survive restarts")
		return storage.NewMemoryStore(), nil
	case "dynamodb":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
			}
		})
		return storage.NewDynamoStore(client, cfg.TableName, cfg.StoreTimeout), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
