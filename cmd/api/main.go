package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"thriftfinder/internal/adapter/api"
	"thriftfinder/internal/adapter/api/handler"
	apimiddleware "thriftfinder/internal/adapter/api/middleware"
	"thriftfinder/internal/adapter/api/router"
	"thriftfinder/internal/adapter/repository"
	"thriftfinder/internal/infrastructure/firebase"
	"thriftfinder/internal/infrastructure/websocket"
	"thriftfinder/internal/usecase"
	"thriftfinder/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account JSON in the environment takes priority (for production);
	// fall back to a file path for local development.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	storeRepo := repository.NewFirestoreStoreRepository(firestoreClient)
	itemRepo := repository.NewFirestoreItemRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	reservationRepo := repository.NewFirestoreReservationRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	wsManager := websocket.NewManager()

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient, time.Duration(cfg.RoleCacheTTL)*time.Second)
	storeUseCase := usecase.NewStoreUseCase(storeRepo, itemRepo, userRepo)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, itemRepo, storeRepo, wsManager)
	reservationUseCase := usecase.NewReservationUseCase(reservationRepo, itemRepo, storeRepo, chatUseCase)

	// The manager pulls thread snapshots through the chat use case; wire it
	// before the manager starts serving subscriptions.
	wsManager.SetFeedProvider(chatUseCase)
	wsManager.Start(ctx)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	storeOwnerMiddleware := apimiddleware.NewStoreOwnerMiddleware(userRepo)

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authUseCase),
		Store:       handler.NewStoreHandler(storeUseCase),
		Chat:        handler.NewChatHandler(chatUseCase),
		Reservation: handler.NewReservationHandler(reservationUseCase),
		WebSocket:   handler.NewWebSocketHandler(wsManager, authClient),
		Health:      handler.NewHealthHandler(),
	}

	router.Setup(e, handlers, authMiddleware, storeOwnerMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
