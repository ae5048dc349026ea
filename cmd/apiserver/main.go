package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vestiaire/internal/config"
	"vestiaire/internal/handlers/apiserver"
	appKafka "vestiaire/internal/kafka"
	"vestiaire/internal/middleware"
	appRedis "vestiaire/internal/redis"
	"vestiaire/internal/services"
	"vestiaire/internal/storage"
	"vestiaire/internal/vtypes"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	redisDriver "github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("%s API server starting (version %s)", cfg.AppName, cfg.AppVersion)

	// 2. Database
	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := storage.AutoMigrateTables(db); err != nil {
		log.Fatalf("Failed to migrate database tables: %v", err)
	}

	// 3. Redis
	redisClient := redisDriver.NewClient(&redisDriver.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	tokenBlacklist := appRedis.NewRedisTokenBlacklist(redisClient)
	friendRequestLimiter := appRedis.NewRedisRateLimiter(redisClient, "friend-requests", cfg.RateLimits.FriendRequests)
	proposalLimiter := appRedis.NewRedisRateLimiter(redisClient, "proposals", cfg.RateLimits.Proposals)

	// 4. Object storage
	var storageService vtypes.StorageService
	var mediaVerifier apiserver.SignedRequestVerifier
	switch cfg.Storage.Type {
	case "local":
		local, err := storage.NewLocalStorageService(cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		storageService = local
		mediaVerifier = local
	default:
		log.Fatalf("Unsupported storage type: %s", cfg.Storage.Type)
	}

	// 5. Kafka producer for relation events
	kfkProducer, err := appKafka.NewConfluentKafkaProducer(cfg.Kafka)
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer kfkProducer.Close()
	relationNotifier := appKafka.NewRelationEventNotifier(kfkProducer, cfg.Kafka.RelationEventsTopic)

	// 6. Repositories
	userRepo := storage.NewGormUserRepository(db)
	relationRepo := storage.NewGormRelationRepository(db)
	clubRepo := storage.NewGormClubRepository(db)
	jerseyRepo := storage.NewGormJerseyRepository(db)
	collectionRepo := storage.NewGormCollectionRepository(db)
	wishlistRepo := storage.NewGormWishlistRepository(db)
	proposalRepo := storage.NewGormProposalRepository(db)

	// 7. Services
	authService := services.NewAuthService(userRepo, tokenBlacklist, cfg.Auth)
	userService := services.NewUserService(userRepo, clubRepo, storageService, cfg.Storage)
	friendshipService := services.NewFriendshipService(userRepo, relationRepo, relationNotifier, storageService, cfg.Storage)
	jerseyService := services.NewJerseyService(jerseyRepo, clubRepo, storageService, cfg.Storage)
	collectionService := services.NewCollectionService(collectionRepo, wishlistRepo, jerseyRepo)
	proposalService := services.NewProposalService(proposalRepo, jerseyRepo, clubRepo, userRepo)

	// 8. Handlers
	maxUploadBytes := cfg.Storage.MaxFileSizeMB * 1024 * 1024
	authHandler := apiserver.NewAuthHandler(authService)
	userHandler := apiserver.NewUserHandler(userService, maxUploadBytes)
	friendshipHandler := apiserver.NewFriendshipHandler(friendshipService)
	jerseyHandler := apiserver.NewJerseyHandler(jerseyService)
	collectionHandler := apiserver.NewCollectionHandler(collectionService)
	proposalHandler := apiserver.NewProposalHandler(proposalService)
	mediaHandler := apiserver.NewMediaHandler(mediaVerifier)

	// 9. Routes
	r := mux.NewRouter()

	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.RegisterHandler).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", authHandler.LoginHandler).Methods(http.MethodPost)

	authMW := middleware.AuthMiddleware(cfg.Auth.JWTSecretKey, tokenBlacklist)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(authMW)

	// Logout lives under the protected router; it needs the jti from the token.
	apiRouter.HandleFunc("/auth/logout", authHandler.LogoutHandler).Methods(http.MethodPost)

	// Users
	apiRouter.HandleFunc("/users/me", userHandler.GetMeHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/users/me", userHandler.UpdateMeHandler).Methods(http.MethodPut)
	apiRouter.HandleFunc("/users/me/avatar", userHandler.UploadAvatarHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/users/search", userHandler.SearchUsersHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/users/{id:[0-9]+}", userHandler.GetProfileHandler).Methods(http.MethodGet)

	// Friends
	apiRouter.HandleFunc("/friends", friendshipHandler.ListFriendsHandler).Methods(http.MethodGet)
	friendsRouter := apiRouter.PathPrefix("/friends").Subrouter()
	friendsRouter.Handle("/requests",
		middleware.RateLimitMiddleware(friendRequestLimiter)(http.HandlerFunc(friendshipHandler.SendRequestHandler)),
	).Methods(http.MethodPost)
	friendsRouter.HandleFunc("/requests/pending", friendshipHandler.ListPendingRequestsHandler).Methods(http.MethodGet)
	friendsRouter.HandleFunc("/requests/{id:[0-9]+}/accept", friendshipHandler.AcceptRequestHandler).Methods(http.MethodPost)
	friendsRouter.HandleFunc("/requests/{id:[0-9]+}/reject", friendshipHandler.RejectRequestHandler).Methods(http.MethodPost)
	friendsRouter.HandleFunc("/blocks", friendshipHandler.BlockUserHandler).Methods(http.MethodPost)
	friendsRouter.HandleFunc("/relations/{id:[0-9]+}", friendshipHandler.RemoveRelationHandler).Methods(http.MethodDelete)
	friendsRouter.HandleFunc("/relations/with/{userId:[0-9]+}", friendshipHandler.RelationWithHandler).Methods(http.MethodGet)

	// Catalogue
	apiRouter.HandleFunc("/clubs", jerseyHandler.ListClubsHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/jerseys", jerseyHandler.ListJerseysHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/jerseys/{id:[0-9]+}", jerseyHandler.GetJerseyHandler).Methods(http.MethodGet)

	// Collection and wishlist
	apiRouter.HandleFunc("/collection", collectionHandler.ListCollectionHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/collection", collectionHandler.AddToCollectionHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/collection/{id:[0-9]+}", collectionHandler.UpdateCollectionItemHandler).Methods(http.MethodPut)
	apiRouter.HandleFunc("/collection/{id:[0-9]+}", collectionHandler.RemoveFromCollectionHandler).Methods(http.MethodDelete)
	apiRouter.HandleFunc("/wishlist", collectionHandler.ListWishlistHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/wishlist", collectionHandler.AddToWishlistHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/wishlist/{id:[0-9]+}", collectionHandler.RemoveFromWishlistHandler).Methods(http.MethodDelete)

	// Proposals
	apiRouter.Handle("/proposals",
		middleware.RateLimitMiddleware(proposalLimiter)(http.HandlerFunc(proposalHandler.SubmitHandler)),
	).Methods(http.MethodPost)
	apiRouter.HandleFunc("/proposals", proposalHandler.ListMineHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/proposals/review", proposalHandler.ListPendingReviewHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/proposals/{id:[0-9]+}/approve", proposalHandler.ApproveHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/proposals/{id:[0-9]+}/reject", proposalHandler.RejectHandler).Methods(http.MethodPost)

	// Signed media, public but only reachable with a valid signature
	r.HandleFunc("/media/{key}", mediaHandler.ServeHandler).Methods(http.MethodGet)

	// 10. CORS
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(cfg.APIServer.CORS.AllowedOrigins),
		handlers.AllowedMethods(cfg.APIServer.CORS.AllowedMethods),
		handlers.AllowedHeaders(cfg.APIServer.CORS.AllowedHeaders),
		handlers.ExposedHeaders(cfg.APIServer.CORS.ExposedHeaders),
		handlers.AllowCredentials(),
		handlers.MaxAge(cfg.APIServer.CORS.MaxAge),
	)(r)

	// 11. Serve with graceful shutdown
	addr := fmt.Sprintf("%s:%s", cfg.APIServer.Host, cfg.APIServer.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: corsHandler,
	}

	go func() {
		log.Printf("API server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server shutdown error: %v", err)
	}
	log.Println("API server stopped.")
}
