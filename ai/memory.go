package ai

import (
	"gorm.io/gorm"

	"github.com/rbpanchal/medimatch-api/models"
)

// saveMessage logs one chat turn. Failures are swallowed so a broken
// log table never breaks the conversation.
func saveMessage(db *gorm.DB, userID, role, content string) {
	if content == "" {
		return
	}
	_ = db.Create(&models.ChatMessage{
		UserID:  userID,
		Role:    role,
		Content: content,
	}).Error
}
