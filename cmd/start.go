/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tieubaoca/docs-chat-be/config"
	"github.com/tieubaoca/docs-chat-be/database"
	"github.com/tieubaoca/docs-chat-be/handler"
	"github.com/tieubaoca/docs-chat-be/service"
	"github.com/tieubaoca/docs-chat-be/types"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chat server",
	Long:  `Starts the documentation chat server with RAG over docs and YouTube transcripts`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgFile, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		rng := rand.New(rand.NewSource(time.Now().UnixNano()))

		// Initialize retrievers
		docsRetriever := service.NewDocsRetriever(rng)
		transcriptService := service.NewTranscriptService(types.TranscriptServiceConfig{
			MaxChunkSize: cfg.ChunkSize,
			OverlapSize:  cfg.ChunkOverlap,
		})
		youtubeRetriever := service.NewYouTubeRetriever(
			service.NewYouTubeTranscriptFetcher(),
			transcriptService,
			cfg.TranscriptLanguage,
		)
		combinedRetriever := service.NewCombinedRetriever(
			rand.New(rand.NewSource(time.Now().UnixNano())),
			docsRetriever,
			youtubeRetriever,
		)

		// Initialize the generation backend
		var aiService service.AIService
		switch cfg.AIProvider {
		case "gemini":
			aiService, err = service.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model, cfg.SystemPrompt)
			if err != nil {
				log.Fatalf("Failed to create Gemini service: %v", err)
			}
		default:
			aiService = service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, cfg.SystemPrompt)
		}

		// Persistence is optional; without MongoDB the chat still works and
		// conversations get the "temp" ID.
		var store database.ConversationStore
		if cfg.MongoURI != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			mongoClient, err := database.NewMongoClient(ctx, cfg.MongoURI)
			cancel()
			if err != nil {
				log.Fatalf("Failed to connect to MongoDB: %v", err)
			}
			store = database.NewMongoConversationStore(mongoClient.Database(cfg.MongoDatabase))
		} else {
			log.Println("MONGODB_URI not set, conversation persistence disabled")
		}

		chatService := service.NewChatService(aiService, combinedRetriever, store, service.ChatServiceConfig{
			EnableFollowUpQuestions: cfg.EnableFollowUpQuestions,
			EnableSources:           cfg.EnableSources,
			Debug:                   cfg.Debug,
		})
		wsService := service.NewWebSocketService(chatService)

		// Preload configured videos, best-effort
		if len(cfg.YouTubeVideoIDs) > 0 {
			go func() {
				log.Printf("Initializing %d YouTube videos...", len(cfg.YouTubeVideoIDs))
				youtubeRetriever.AddVideos(context.Background(), cfg.YouTubeVideoIDs)
				log.Println("YouTube videos initialized")
			}()
		}

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		chatHandler := handler.NewChatHandler(chatService)
		videoHandler := handler.NewVideoHandler(youtubeRetriever)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/chat", chatHandler.HandleChat)
			apiV1.POST("/youtube/import", videoHandler.HandleImport)
			apiV1.GET("/youtube/videos", videoHandler.HandleListVideos)
			apiV1.GET("/youtube/rag-content", videoHandler.HandleContent)
			apiV1.DELETE("/youtube/videos", videoHandler.HandleClearVideos)
		}
		if store != nil {
			conversationHandler := handler.NewConversationHandler(store)
			apiV1.GET("/conversations", conversationHandler.HandleListConversations)
			apiV1.GET("/conversations/:id/messages", conversationHandler.HandleGetMessages)
		}
		router.GET("/ws/chat", gin.WrapF(wsService.HandleChat))

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
