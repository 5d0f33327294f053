package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rbpanchal/medimatch-api/ai"
	"github.com/rbpanchal/medimatch-api/payments"
)

// SetupRoutes is the single entry point wiring every route group onto
// the engine. All JSON routes live under /api; the chat assistant is
// mounted at /ai to match the storefront widget.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	stripe := payments.NewStripeClientFromEnv()
	llm := ai.NewLLMClientFromEnv()

	api := r.Group("/api")

	SetupAuthRoutes(api, db)
	SetupUserRoutes(api, db, stripe)
	SetupAdminRoutes(api, db)

	r.POST("/ai/chat", ai.ChatHandler(db, llm))
}
