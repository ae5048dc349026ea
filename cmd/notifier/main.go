package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vestiaire/internal/auth"
	"vestiaire/internal/config"
	appKafka "vestiaire/internal/kafka"
	appRedis "vestiaire/internal/redis"
	"vestiaire/internal/vtypes"
	"vestiaire/internal/websocket"

	kafkaDriver "github.com/confluentinc/confluent-kafka-go/v2/kafka"
	redisDriver "github.com/redis/go-redis/v9"
)

// The notifier consumes relation events from Kafka and pushes them to the
// connected websocket client of each target user. Delivery is advisory; a
// user who is offline simply misses the hint and polls instead.
func main() {
	// 1. Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("%s notifier starting (version %s)", cfg.AppName, cfg.AppVersion)

	// 2. Redis, for the token blacklist shared with the API server
	redisClient := redisDriver.NewClient(&redisDriver.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	tokenBlacklist := appRedis.NewRedisTokenBlacklist(redisClient)

	// 3. Hub
	hub := websocket.NewHub()
	go hub.Run()

	// 4. Kafka consumer feeding the hub
	consumer, err := appKafka.NewConfluentKafkaConsumer(cfg.Kafka)
	if err != nil {
		log.Fatalf("Failed to create Kafka consumer: %v", err)
	}
	defer consumer.Close()

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()

	go func() {
		topics := []string{cfg.Kafka.RelationEventsTopic}
		err := consumer.Consume(consumerCtx, topics, cfg.Kafka.ConsumerGroup, func(ctx context.Context, msg *kafkaDriver.Message) error {
			var event vtypes.RelationEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				// Poison messages are logged and committed, never retried.
				log.Printf("Dropping malformed relation event: %v", err)
				return nil
			}
			hub.Deliver(&event)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Kafka consumer stopped with error: %v", err)
		}
	}()

	// 5. WebSocket endpoint
	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Notifier.WebSocketPath, func(w http.ResponseWriter, r *http.Request) {
		// Browsers cannot set headers on websocket dials, so the token
		// arrives as a query parameter.
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		claims, err := auth.ValidateToken(r.Context(), token, cfg.Auth.JWTSecretKey, tokenBlacklist)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		websocket.ServeWs(hub, claims.UserID, w, r, cfg.WebSocket)
	})

	addr := fmt.Sprintf("%s:%s", cfg.Notifier.Host, cfg.Notifier.Port)
	server := &http.Server{
		Addr:           addr,
		Handler:        mux,
		ReadTimeout:    cfg.Notifier.ReadTimeout,
		WriteTimeout:   cfg.Notifier.WriteTimeout,
		MaxHeaderBytes: cfg.Notifier.MaxHeaderBytes,
	}

	go func() {
		log.Printf("Notifier listening on %s%s", addr, cfg.Notifier.WebSocketPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Notifier server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down notifier...")

	cancelConsumer()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Notifier shutdown error: %v", err)
	}
	log.Println("Notifier stopped.")
}
