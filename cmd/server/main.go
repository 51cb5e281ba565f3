package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/sailsmart/sailsmart/docs"
	"github.com/sailsmart/sailsmart/internal/assistant"
	"github.com/sailsmart/sailsmart/internal/db"
	"github.com/sailsmart/sailsmart/internal/handlers"
	"github.com/sailsmart/sailsmart/internal/logger"
	"github.com/sailsmart/sailsmart/internal/repositories"
	"github.com/sailsmart/sailsmart/internal/services"
)

// @title SailSmart Assistant API
// @version 1.0
// @description AI assistant layer for the SailSmart sailing crew marketplace.
// @BasePath /api
func main() {
	_ = godotenv.Load()

	zlog, err := logger.New()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	// Database connection
	config := db.NewConfig()
	database, err := db.Connect(config)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		zlog.Fatal("Database health check failed", zap.Error(err))
	}
	zlog.Info("Database connection established")

	// Repositories
	journeyRepo := repositories.NewJourneyRepository(database)
	registrationRepo := repositories.NewRegistrationRepository(database)
	profileRepo := repositories.NewProfileRepository(database)
	boatRepo := repositories.NewBoatRepository(database)
	pendingRepo := repositories.NewPendingActionRepository(database)
	suggestionRepo := repositories.NewSuggestionRepository(database)
	conversationRepo := repositories.NewConversationRepository(database)

	// Assistant core
	llmConfig := assistant.NewLLMConfig()
	var chatClient assistant.ChatClient
	if llmConfig.APIKey != "" {
		chatClient = assistant.NewChatClient(llmConfig)
	} else {
		zlog.Warn("No LLM API key configured, classifier degrades to pattern matching and chat is unavailable")
	}
	classifier := assistant.NewClassifier(chatClient, llmConfig.ClassifierModel, zlog)
	toolExecutor := assistant.NewExecutor(journeyRepo, registrationRepo, profileRepo, pendingRepo, zlog)
	actionExecutor := assistant.NewActionExecutor(pendingRepo, profileRepo, registrationRepo, journeyRepo, zlog)

	// Services
	contextService := services.NewContextService(profileRepo, boatRepo, registrationRepo, journeyRepo, pendingRepo, suggestionRepo)
	chatService := services.NewChatService(chatClient, llmConfig.Model, classifier, toolExecutor, contextService, conversationRepo, pendingRepo, zlog)
	pendingService := services.NewPendingActionService(pendingRepo, profileRepo, actionExecutor, contextService)
	suggestionService := services.NewSuggestionService(suggestionRepo, journeyRepo, profileRepo, zlog)

	// Handlers
	chatHandler := handlers.NewChatHandler(chatService)
	pendingHandler := handlers.NewPendingActionHandler(pendingService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)
	adminHandler := handlers.NewAdminHandler(pendingService, os.Getenv("ADMIN_TOKEN"))

	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "sailsmart-assistant",
		})
	})

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/assistant/chat", chatHandler.HandleChat).Methods(http.MethodPost)

	api.HandleFunc("/assistant/pending-actions", pendingHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/assistant/pending-actions/{id}", pendingHandler.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/assistant/pending-actions/{id}/approve", pendingHandler.HandleApprove).Methods(http.MethodPost)
	api.HandleFunc("/assistant/pending-actions/{id}/reject", pendingHandler.HandleReject).Methods(http.MethodPost)

	api.HandleFunc("/assistant/suggestions", suggestionHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/assistant/suggestions/generate", suggestionHandler.HandleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/assistant/suggestions/{id}", suggestionHandler.HandleDismiss).Methods(http.MethodDelete)

	api.HandleFunc("/admin/pending-actions/expire", adminHandler.HandleExpireSweep).Methods(http.MethodPost)

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	zlog.Info("Server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, corsHandler(router)); err != nil {
		zlog.Fatal("Server stopped", zap.Error(err))
	}
}
