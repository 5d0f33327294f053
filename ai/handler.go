package ai

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rbpanchal/medimatch-api/middleware"
)

type chatInput struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// ChatHandler serves POST /ai/chat. Auth is optional: a valid bearer
// token pins the conversation to the account, otherwise the body
// user_id or a fresh anonymous id is used.
func ChatHandler(db *gorm.DB, llm *LLMClient) gin.HandlerFunc {
	agent := NewAgent(db, llm)

	return func(c *gin.Context) {
		var input chatInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		userID := ""
		if token := middleware.BearerToken(c); token != "" {
			if sub, _, err := middleware.ParseToken(token); err == nil {
				userID = sub
			}
		}
		if userID == "" {
			userID = input.UserID
		}
		if userID == "" {
			userID = uuid.NewString()
		}

		reply := agent.Run(c.Request.Context(), userID, input.Message)
		if reply == nil {
			c.JSON(http.StatusInternalServerError, Reply{
				Response: "Sorry, I couldn't process that right now.",
				Actions:  []Action{},
			})
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}
