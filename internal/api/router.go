package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gigbay/marketplace-api/internal/api/handler"
	"github.com/gigbay/marketplace-api/internal/api/middleware"
	"github.com/gigbay/marketplace-api/internal/core/ports"
)

// Services bundles the core services the router exposes over HTTP.
type Services struct {
	Auth         ports.AuthService
	Order        ports.OrderService
	Fulfillment  ports.FulfillmentService
	Review       ports.ReviewService
	Conversation ports.ConversationService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	svcs Services,
	dispatcher handler.ConfirmationDispatcher,
	jwtSecret string,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svcs.Auth)
	orderHandler := handler.NewOrderHandler(svcs.Order)
	fulfillmentHandler := handler.NewFulfillmentHandler(svcs.Fulfillment)
	reviewHandler := handler.NewReviewHandler(svcs.Review)
	conversationHandler := handler.NewConversationHandler(svcs.Conversation)
	confirmationHandler := handler.NewConfirmationHandler(dispatcher)

	authed := middleware.Auth(jwtSecret)
	sellerOnly := middleware.SellerOnly()

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Order ledger ---
	orders := e.Group("/v1/orders", authed)
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)

	// --- Fulfillment ---
	orders.PATCH("/:id/progress", fulfillmentHandler.StartProgress, sellerOnly)
	orders.PATCH("/:id/cancel", fulfillmentHandler.Cancel)
	orders.PATCH("/:id/delivered", fulfillmentHandler.MarkDelivered, sellerOnly)
	orders.POST("/:id/deliveries", fulfillmentHandler.SubmitDelivery, sellerOnly)
	orders.GET("/:id/deliveries", fulfillmentHandler.ListDeliveries)
	orders.POST("/:id/updates", fulfillmentHandler.PostStatusUpdate, sellerOnly)
	orders.GET("/:id/updates", fulfillmentHandler.ListStatusUpdates)
	e.PATCH("/v1/deliveries/:id/accept", fulfillmentHandler.AcceptDelivery, authed)

	// --- Reviews ---
	e.POST("/v1/gigs/:id/reviews", reviewHandler.Create, authed)
	e.GET("/v1/gigs/:id/reviews", reviewHandler.List)
	e.DELETE("/v1/reviews/:id", reviewHandler.Delete, authed)

	// --- Conversations ---
	conversations := e.Group("/v1/conversations", authed)
	conversations.POST("", conversationHandler.Start)
	conversations.GET("", conversationHandler.List)
	conversations.GET("/:id", conversationHandler.Get)
	conversations.PATCH("/:id/read", conversationHandler.MarkRead)
	conversations.POST("/:id/messages", conversationHandler.PostMessage)
	conversations.GET("/:id/messages", conversationHandler.ListMessages)

	// --- Payment processor channel (no user auth; processor-facing) ---
	e.POST("/v1/payments/confirmations", confirmationHandler.Receive)
	e.POST("/v1/payments/confirmations/batch", confirmationHandler.ReceiveBatch)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
