package main

import (
	"github.com/gin-gonic/gin"
	"preipo-sip.backend/internal/interfaces/http/handlers"
	"preipo-sip.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	planHandler       *handlers.PlanHandler
	investmentHandler *handlers.InvestmentHandler
	portfolioHandler  *handlers.PortfolioHandler
	walletHandler     *handlers.WalletHandler
	referralHandler   *handlers.ReferralHandler
	supportHandler    *handlers.SupportHandler
	legalHandler      *handlers.LegalHandler
	webhookHandler    *handlers.WebhookHandler
	adminHandler      *handlers.AdminHandler
	wsHandler         *handlers.WSHandler
	authMiddleware    gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
			auth.POST("/change-password", d.authMiddleware, d.authHandler.ChangePassword)
		}

		// Plan catalogue (protected; eligibility is per-user)
		plans := v1.Group("/plans")
		plans.Use(d.authMiddleware)
		{
			plans.GET("", d.planHandler.List)
			plans.GET("/:id", d.planHandler.Get)
			plans.GET("/:id/eligibility", d.planHandler.Eligibility)
		}

		// Investment routes (protected)
		investments := v1.Group("/investments")
		investments.Use(d.authMiddleware)
		{
			investments.POST("", middleware.IdempotencyMiddleware(), d.investmentHandler.Create)
			investments.GET("", d.investmentHandler.List)
			investments.GET("/:id", d.investmentHandler.Get)
		}

		// Portfolio and simulation routes (protected)
		portfolio := v1.Group("/portfolio")
		portfolio.Use(d.authMiddleware)
		{
			portfolio.GET("/summary", d.portfolioHandler.Summary)
			portfolio.GET("/valuation", d.portfolioHandler.Valuation)
		}
		v1.POST("/simulations", d.authMiddleware, d.portfolioHandler.Simulate)

		// Wallet routes (protected)
		wallet := v1.Group("/wallet")
		wallet.Use(d.authMiddleware)
		{
			wallet.GET("", d.walletHandler.Get)
			wallet.GET("/transactions", d.walletHandler.Transactions)
			wallet.POST("/withdrawals", middleware.IdempotencyMiddleware(), d.walletHandler.Withdraw)
			wallet.GET("/tax/estimate", d.walletHandler.EstimateTax)
		}

		// Referral routes (protected)
		referrals := v1.Group("/referrals")
		referrals.Use(d.authMiddleware)
		{
			referrals.GET("/stats", d.referralHandler.Stats)
		}

		// Support tickets and chat (protected)
		support := v1.Group("/support")
		support.Use(d.authMiddleware)
		{
			support.POST("/tickets", d.supportHandler.CreateTicket)
			support.GET("/tickets", d.supportHandler.ListTickets)
			support.GET("/tickets/:id", d.supportHandler.GetTicket)
			support.POST("/tickets/:id/messages", d.supportHandler.PostMessage)
			support.GET("/tickets/:id/messages", d.supportHandler.ListMessages)
			support.POST("/tickets/:id/messages/:messageId/attachment-url", d.supportHandler.MintAttachmentURL)
			support.GET("/tickets/:id/ws", d.wsHandler.Subscribe)
		}

		// Attachment download is authorized by the signed URL, not a bearer
		// token, so image tags and file managers can fetch it.
		v1.GET("/support/tickets/:id/messages/:messageId/attachment", d.supportHandler.DownloadAttachment)

		// Legal agreements (protected)
		legal := v1.Group("/legal")
		legal.Use(d.authMiddleware)
		{
			legal.GET("/agreements", d.legalHandler.List)
			legal.GET("/agreements/:id", d.legalHandler.Get)
			legal.POST("/agreements/:id/accept", d.legalHandler.Accept)
			legal.GET("/agreements/:id/signature", d.legalHandler.SignatureStatus)
		}

		// Payment gateway callbacks (signature-verified, no bearer token)
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/payments", d.webhookHandler.Receive)
		}

		// Admin CRM (protected, admin only)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/stats", d.adminHandler.PlatformStats)
			admin.GET("/users", d.adminHandler.ListUsers)
			admin.PATCH("/users/:id/kyc", d.adminHandler.UpdateKYC)

			admin.POST("/plans", d.adminHandler.CreatePlan)
			admin.PATCH("/plans/:id", d.adminHandler.UpdatePlan)
			admin.DELETE("/plans/:id", d.adminHandler.DeletePlan)

			admin.PATCH("/tickets/:id/status", d.adminHandler.UpdateTicketStatus)

			admin.POST("/legal/agreements", d.adminHandler.PublishAgreement)

			admin.GET("/audit-logs", d.adminHandler.ListAuditLogs)
		}
	}
}
