package router

import (
	"log"
	"time"

	"peachy/config"
	"peachy/internal/domain"
	"peachy/internal/fees"
	"peachy/internal/handler"
	"peachy/internal/middleware"
	"peachy/internal/repository"
	"peachy/internal/secure"
	"peachy/internal/service"
	"peachy/pkg/cloudinary"
	"peachy/pkg/gateway"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	postRepo := repository.NewPostRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	tipRepo := repository.NewTipRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Payment gateway: real Stripe when configured, stub otherwise so local
	// development works without credentials.
	var gw gateway.Client
	if cfg.Stripe.SecretKey != "" {
		gw = gateway.NewStripeClient(cfg.Stripe.SecretKey)
	} else {
		log.Printf("[Gateway] STRIPE_SECRET_KEY not set, using stub gateway")
		gw = &gateway.StubClient{}
	}

	box, err := secure.NewBox(cfg.Secrets.AccountDetailsKey)
	if err != nil {
		log.Fatalf("account details key: %v", err)
	}
	calc := fees.NewCalculator(cfg.Fees)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo)
	settleSvc := service.NewSettlementService(walletRepo, subRepo, postRepo, msgRepo, tipRepo, txRepo)
	paymentSvc := service.NewPaymentService(userRepo, walletRepo, txRepo, tipRepo, gw, calc, settleSvc, notifSvc, cfg.Stripe.GatewayTimeout)
	withdrawalSvc := service.NewWithdrawalService(walletRepo, withdrawalRepo, txRepo, gw, calc, box, notifSvc, cfg.Stripe.GatewayTimeout)
	payoutSvc := service.NewPayoutService(walletRepo, gw, box, notifSvc, cfg.Stripe.GatewayTimeout)
	sweeper := service.NewFeeSweeper(txRepo, calc, 500)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo, auditRepo)
	walletHandler := handler.NewWalletHandler(walletRepo, txRepo)
	tipHandler := handler.NewTipHandler(paymentSvc)
	subHandler := handler.NewSubscriptionHandler(subRepo, paymentSvc)
	postHandler := handler.NewPostHandler(postRepo, subRepo, paymentSvc)
	msgHandler := handler.NewMessageHandler(msgRepo, paymentSvc)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc, withdrawalRepo)
	payoutHandler := handler.NewPayoutHandler(payoutSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	adminHandler := handler.NewAdminHandler(withdrawalSvc, paymentSvc, payoutSvc, sweeper, withdrawalRepo, auditRepo)
	webhookHandler := handler.NewStripeWebhookHandler(cfg, paymentSvc, auditRepo)
	uploadHandler := handler.NewUploadHandler(cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", authHandler.Me)
			me.GET("/wallet", walletHandler.GetBalance)
			me.GET("/wallet/earnings", walletHandler.GetEarnings)
			me.GET("/wallet/transactions", walletHandler.ListTransactions)
			me.GET("/subscriptions", subHandler.ListMine)
			me.GET("/withdrawals", withdrawalHandler.List)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}

		pay := api.Group("")
		pay.Use(authMw)
		{
			pay.POST("/tips", tipHandler.Create)
			pay.POST("/subscriptions", subHandler.Subscribe)
			pay.POST("/subscriptions/:id/renew", subHandler.Renew)
			pay.DELETE("/subscriptions/:id", subHandler.Cancel)

			pay.POST("/posts", middleware.RequireRole(domain.RoleCreator), postHandler.Create)
			pay.GET("/posts/:id", postHandler.Get)
			pay.GET("/creators/:id/posts", postHandler.ListByCreator)
			pay.POST("/posts/:id/purchase", postHandler.Purchase)

			pay.POST("/messages", msgHandler.Send)
			pay.GET("/messages/:id/conversation", msgHandler.Conversation)
			pay.PUT("/messages/:id/read", msgHandler.MarkRead)
			pay.POST("/messages/:id/purchase", msgHandler.Purchase)

			pay.POST("/withdrawals", withdrawalHandler.Create)
			pay.DELETE("/withdrawals/:id", withdrawalHandler.Cancel)

			pay.POST("/payout/stripe", payoutHandler.LinkStripe)
			pay.POST("/payout/stripe/verify", payoutHandler.VerifyStripe)
			pay.POST("/payout/paypal", payoutHandler.SetPayPal)
			pay.POST("/payout/bank", payoutHandler.SetBank)

			pay.POST("/uploads/post", uploadHandler.UploadPostMedia)
			pay.POST("/uploads/message", uploadHandler.UploadMessageMedia)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/withdrawals", adminHandler.ListWithdrawals)
			admin.POST("/withdrawals/:id/process", adminHandler.ProcessWithdrawal)
			admin.POST("/withdrawals/:id/reject", adminHandler.RejectWithdrawal)
			admin.POST("/transactions/:id/refund", adminHandler.RefundTransaction)
			admin.PUT("/users/:id/payout-verified", adminHandler.SetPayoutVerified)
			admin.POST("/fee-sweep", adminHandler.RunFeeSweep)
		}

		api.POST("/webhooks/stripe", webhookHandler.Handle)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return r
}
