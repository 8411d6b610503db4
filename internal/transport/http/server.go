package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"askgpt/internal/ai"
	appsvc "askgpt/internal/app"
	"askgpt/internal/bootstrap"
	"askgpt/internal/cache"
	"askgpt/internal/pkg/monitoring"
	"askgpt/internal/platform/rabbitmq"
	"askgpt/internal/repository"
	"askgpt/internal/transport/http/handler"
	"askgpt/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), monitoring.MetricsMiddleware())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", monitoring.PrometheusHandler())

	userRepo := repository.NewUserRepository(app.MySQL)
	projectRepo := repository.NewProjectRepository(app.MySQL)
	conversationRepo := repository.NewConversationRepository(app.MySQL)
	historyRepo := repository.NewPromptHistoryRepository(app.MySQL)

	answerCache := cache.NewAnswerCache(app.Redis, time.Duration(app.Config.Redis.AnswerTTLSeconds)*time.Second)
	usagePublisher := rabbitmq.NewUsagePublisher(app.MQConn, app.Config.RabbitMQ.UsageQueue)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		app.Config.Billing.DefaultQueryCredits,
	)
	projectService := appsvc.NewProjectService(projectRepo)
	conversationService := appsvc.NewConversationService(projectRepo, conversationRepo, historyRepo)
	billingService := appsvc.NewBillingService(app.Config.Billing.PremiumMonthlyPlanID)
	answerService := appsvc.NewAnswerService(
		historyRepo,
		ai.ChatConfig{
			BaseURL: app.Config.LLM.BaseURL,
			APIKey:  app.Config.LLM.APIKey,
			Model:   app.Config.LLM.Model,
		},
		app.Config.LLM.MaxContextMessage,
	)
	askService := appsvc.NewAskService(
		projectRepo,
		conversationRepo,
		historyRepo,
		userRepo,
		billingService,
		answerService,
		usagePublisher,
		answerCache,
	)

	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	conversationHandler := handler.NewConversationHandler(conversationService)
	askHandler := handler.NewAskHandler(askService)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	authed := v1.Group("")
	authed.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	authed.POST("/ask", askHandler.Ask)
	authed.POST("/projects", projectHandler.Create)
	authed.GET("/projects", projectHandler.List)
	authed.PATCH("/projects/:id/chat", projectHandler.SetChatActive)
	authed.GET("/conversations", conversationHandler.List)
	authed.GET("/conversations/:session_id/history", conversationHandler.History)

	return router
}
