package router

import (
	"time"

	"github.com/DAVIPRADIPTA/website-anemware/config"
	"github.com/DAVIPRADIPTA/website-anemware/internal/domain"
	"github.com/DAVIPRADIPTA/website-anemware/internal/handler"
	"github.com/DAVIPRADIPTA/website-anemware/internal/middleware"
	"github.com/DAVIPRADIPTA/website-anemware/internal/repository"
	"github.com/DAVIPRADIPTA/website-anemware/internal/service"
	"github.com/DAVIPRADIPTA/website-anemware/internal/ws"
	"github.com/DAVIPRADIPTA/website-anemware/pkg/cloudinary"
	"github.com/DAVIPRADIPTA/website-anemware/pkg/midtrans"
	"github.com/DAVIPRADIPTA/website-anemware/pkg/predictor"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, gateway midtrans.Client, cloud cloudinary.Client, pred predictor.Predictor) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, time.Minute), middleware.ByClientIP))

	// Tighter buckets for credential guessing and chat flooding.
	loginLimit := middleware.RateLimit(middleware.NewInMemoryRateLimiter(10, time.Minute), middleware.ByClientIP)
	sendLimit := middleware.RateLimit(middleware.NewInMemoryRateLimiter(30, time.Minute), middleware.ByUser)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	consultationRepo := repository.NewConsultationRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	screeningRepo := repository.NewScreeningRepository(db)

	// The hub is both the websocket room registry and the chat notifier.
	hub := ws.NewHub()

	// Services
	consultationSvc := service.NewConsultationService(db, gateway)
	chatSvc := service.NewChatService(db, hub)
	screeningSvc := service.NewScreeningService(screeningRepo, pred)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo)
	consultationHandler := handler.NewConsultationHandler(consultationSvc, chatSvc, userRepo)
	chatHandler := handler.NewChatHandler(chatSvc)
	webhookHandler := handler.NewPaymentWebhookHandler(consultationSvc, cfg)
	adminHandler := handler.NewAdminHandler(consultationRepo, consultationSvc, userRepo, withdrawalRepo)
	withdrawalHandler := handler.NewWithdrawalHandler(userRepo, withdrawalRepo)
	screeningHandler := handler.NewScreeningHandler(screeningSvc, cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", loginLimit, authHandler.Register)
			authGroup.POST("/login", loginLimit, authHandler.Login)
			authGroup.POST("/refresh", loginLimit, authHandler.Refresh)
			authGroup.GET("/profile", authMw, authHandler.Profile)
		}

		consultation := api.Group("/consultation")
		{
			// Called by the gateway, not by users; no auth.
			consultation.POST("/notification", webhookHandler.Handle)

			consultation.Use(authMw)
			consultation.POST("/book", consultationHandler.Book)
			consultation.POST("/start", consultationHandler.Start)
			consultation.GET("/mine", consultationHandler.Mine)
			consultation.GET("/doctors", consultationHandler.Doctors)
			consultation.POST("/send", sendLimit, chatHandler.Send)
			consultation.GET("/:id/messages", chatHandler.History)
		}

		screening := api.Group("/screening")
		screening.Use(authMw)
		{
			screening.POST("", screeningHandler.Submit)
			screening.GET("/history", screeningHandler.History)
		}

		me := api.Group("/me")
		me.Use(authMw, middleware.RequireRole(domain.RoleDoctor))
		{
			me.GET("/balance", withdrawalHandler.Balance)
			me.POST("/withdrawals", withdrawalHandler.Request)
			me.GET("/withdrawals", withdrawalHandler.List)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/consultations", adminHandler.ListConsultations)
			admin.POST("/payments/:id/mark-paid", adminHandler.MarkPaid)
			admin.POST("/payments/:id/refresh", adminHandler.RefreshPayment)
			admin.PATCH("/doctors/:id/verify", adminHandler.VerifyDoctor)
			admin.GET("/withdrawals", adminHandler.ListWithdrawals)
			admin.POST("/withdrawals/:id/resolve", adminHandler.ResolveWithdrawal)
		}
	}

	r.GET("/ws/chat", handler.UpgradeChatWS(&cfg.JWT, hub, chatSvc))

	return r
}
