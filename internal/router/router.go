package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "kanban-chat-api/docs"
	"kanban-chat-api/internal/auth"
	"kanban-chat-api/internal/handler"
	"kanban-chat-api/internal/hub"
	"kanban-chat-api/internal/metrics"
	"kanban-chat-api/internal/middleware"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/service"
	"kanban-chat-api/internal/storage"
)

// Services bundles everything the handlers and the hub call into
type Services struct {
	Auth          service.AuthService
	Boards        service.BoardService
	Columns       service.ColumnService
	Cards         service.CardService
	Collaborators service.CollaboratorService
	Attachments   service.AttachmentService
	Files         service.FileService
	Friends       service.FriendService
	Conversations service.ConversationService
}

// NewServices wires every service over one store and blob backend
func NewServices(
	store *repository.Store,
	blobs storage.BlobStore,
	tokens *auth.TokenManager,
	requireFriendship bool,
	m *metrics.Metrics,
	logger *zap.Logger,
) Services {
	return Services{
		Auth:          service.NewAuthService(store, tokens, logger),
		Boards:        service.NewBoardService(store, blobs, m, logger),
		Columns:       service.NewColumnService(store, blobs, m, logger),
		Cards:         service.NewCardService(store, blobs, m, logger),
		Collaborators: service.NewCollaboratorService(store, logger),
		Attachments:   service.NewAttachmentService(store, blobs, m, logger),
		Files:         service.NewFileService(store, blobs, m, logger),
		Friends:       service.NewFriendService(store, m, logger),
		Conversations: service.NewConversationService(store, requireFriendship, logger),
	}
}

// Config holds dependencies for router setup
type Config struct {
	Store    *repository.Store
	Services Services
	Hub      *hub.Hub
	Redis    *redis.Client // nil when fan-out is disabled
	Metrics  *metrics.Metrics
	Logger   *zap.Logger

	AllowedOrigins []string
	CookieTTL      time.Duration
	EnableSwagger  bool
}

// Setup builds the route table
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	s := cfg.Services
	userHandler := handler.NewUserHandler(s.Auth, cfg.CookieTTL)
	boardHandler := handler.NewBoardHandler(s.Boards)
	columnHandler := handler.NewColumnHandler(s.Columns)
	cardHandler := handler.NewCardHandler(s.Cards)
	collaboratorHandler := handler.NewCollaboratorHandler(s.Collaborators)
	attachmentHandler := handler.NewAttachmentHandler(s.Attachments)
	fileHandler := handler.NewFileHandler(s.Files)
	friendHandler := handler.NewFriendHandler(s.Friends)
	conversationHandler := handler.NewConversationHandler(s.Conversations)
	var connections handler.ConnectionCounter
	if cfg.Hub != nil {
		connections = cfg.Hub
	}
	healthHandler := handler.NewHealthHandler(cfg.Store.DB(), cfg.Redis, connections)

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.Auth(s.Auth)
	optionalAuth := middleware.OptionalAuth(s.Auth)

	api := r.Group("/api")
	{
		api.POST("/register", userHandler.Register)
		api.POST("/login", userHandler.Login)
		api.POST("/logout", userHandler.Logout)

		api.GET("/user", requireAuth, userHandler.GetCurrentUser)
		api.PUT("/user", requireAuth, userHandler.UpdateUser)
		api.GET("/user/:userId", userHandler.GetUser)

		api.POST("/file/create", requireAuth, fileHandler.CreateFile)
		api.GET("/file/:name", optionalAuth, fileHandler.GetFile)
		api.DELETE("/file/:name", requireAuth, fileHandler.DeleteFile)
		api.GET("/files", optionalAuth, fileHandler.ListFiles)
	}

	boards := r.Group("/boards", requireAuth)
	{
		boards.POST("", boardHandler.CreateBoard)
		boards.GET("", boardHandler.ListBoards)
		boards.GET("/:boardId", boardHandler.GetBoard)
		boards.PUT("/:boardId", boardHandler.UpdateBoard)
		boards.DELETE("/:boardId", boardHandler.DeleteBoard)

		boards.POST("/:boardId/columns", columnHandler.CreateColumn)
		boards.GET("/:boardId/columns", columnHandler.ListColumns)
		boards.GET("/:boardId/columns/:columnId", columnHandler.GetColumn)
		boards.PUT("/:boardId/columns/:columnId", columnHandler.UpdateColumn)
		boards.DELETE("/:boardId/columns/:columnId", columnHandler.DeleteColumn)

		boards.POST("/:boardId/columns/:columnId/cards", cardHandler.CreateCard)
		boards.GET("/:boardId/columns/:columnId/cards", cardHandler.ListCards)
		boards.GET("/:boardId/columns/:columnId/cards/:cardId", cardHandler.GetColumnCard)
		boards.PUT("/:boardId/columns/:columnId/cards/:cardId", cardHandler.UpdateCard)
		boards.DELETE("/:boardId/columns/:columnId/cards/:cardId", cardHandler.DeleteCard)
		boards.PUT("/:boardId/columns/:columnId/cards/:cardId/reorder/:toColumnId/:position", cardHandler.ReorderCard)
		boards.GET("/:boardId/cards/:cardId", cardHandler.GetCard)

		boards.POST("/:boardId/cards/:cardId/attachments", attachmentHandler.AddAttachment)
		boards.GET("/:boardId/cards/:cardId/attachments", attachmentHandler.ListAttachments)
		boards.DELETE("/:boardId/cards/:cardId/attachments/:attachmentId", attachmentHandler.RemoveAttachment)

		boards.POST("/:boardId/collaborators", collaboratorHandler.AddCollaborator)
		boards.GET("/:boardId/collaborators", collaboratorHandler.ListCollaborators)
		boards.DELETE("/:boardId/collaborators/:userId", collaboratorHandler.RemoveCollaborator)
	}

	friends := r.Group("/friends", requireAuth)
	{
		friends.POST("/code", friendHandler.GenerateCode)
		friends.GET("/code", friendHandler.GetCode)
		friends.POST("/redeem", friendHandler.Redeem)
		friends.GET("/list", friendHandler.ListFriends)
	}

	conversations := r.Group("/conversation", requireAuth)
	{
		conversations.POST("/:a/:b", conversationHandler.GetOrCreateConversation)
		conversations.GET("/:a/:b", conversationHandler.GetConversation)
	}

	chat := r.Group("/chat_source")
	{
		chat.GET("/last_messages/:conversationId", requireAuth, conversationHandler.LastMessages)
		// authentication happens in the first websocket frame
		chat.GET("/events", handler.NewWSHandler(cfg.Hub, cfg.AllowedOrigins, cfg.Logger).HandleEvents)
	}

	return r
}
