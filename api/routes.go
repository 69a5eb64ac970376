package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/Mdx2025/emailbot-backend/api/handlers"
	"github.com/Mdx2025/emailbot-backend/api/middleware"
	"github.com/Mdx2025/emailbot-backend/internal/repository"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
	"github.com/Mdx2025/emailbot-backend/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, repos *repository.Repositories, apikey string) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	// Health check endpoint (no custom context needed)
	r.GET("/health", handlers.HealthCheck)

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-API-KEY",
		ValidAPIKey: apikey,
	})

	api := r.Group("/v1")
	api.Use(apiKeyMiddleware)
	api.Use(middleware.CustomContextMiddleware("leadflow"))
	api.Use(middleware.TracingMiddleware())
	{
		api.POST("/ingest", handlers.Ingest(s.IngestService))
		api.GET("/metrics", handlers.Metrics(s.DraftService))

		drafts := api.Group("/drafts")
		{
			drafts.GET("", handlers.ListDrafts(repos))
			drafts.POST("/send-approved", handlers.SendApprovedDrafts(s.DraftService))
			drafts.GET("/:id", handlers.GetDraft(repos))
			drafts.POST("/:id/approve", handlers.ApproveDraft(s.ApprovalService))
			drafts.POST("/:id/reject", handlers.RejectDraft(s.ApprovalService))
			drafts.POST("/:id/edit", handlers.EditDraft(s.ApprovalService))
			drafts.POST("/:id/regenerate", handlers.RegenerateDraft(s.GeneratorService))
			drafts.GET("/:id/followups/due", handlers.DueFollowups(s.FollowupService))
			drafts.POST("/:id/followups/:n", handlers.GenerateFollowup(s.FollowupService))
			drafts.POST("/:id/followups/:n/sent", handlers.MarkFollowupSent(s.FollowupService))
		}
	}
}
