package middleware

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rbpanchal/medimatch-api/models"
	"gorm.io/gorm"
)

const (
	ContextUserID  = "user_id"
	ContextEmail   = "email"
	ContextProfile = "profile"
)

// ParseToken validates an HS256 bearer token and returns the subject
// (user id) and email claim. Tokens are also accepted via the "token"
// query parameter so that document downloads can authenticate without
// headers.
func ParseToken(tokenString string) (userID, email string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", "", errors.New("token missing subject")
	}
	mail, _ := claims["email"].(string)
	return sub, mail, nil
}

// BearerToken extracts the token from the Authorization header or the
// "token" query parameter.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		return header[7:]
	}
	return c.Query("token")
}

// RequireAuth validates the bearer token, loads the caller's profile and
// rejects blocked accounts. The user id and profile are stored on the
// gin context for downstream handlers.
func RequireAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			c.Abort()
			return
		}

		userID, email, err := ParseToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "detail": err.Error()})
			c.Abort()
			return
		}

		var profile models.Profile
		if err := db.First(&profile, "id = ?", userID).Error; err == nil {
			if profile.Blocked {
				c.JSON(http.StatusForbidden, gin.H{"error": "Account blocked"})
				c.Abort()
				return
			}
			c.Set(ContextProfile, &profile)
		}
		// A missing profile is not fatal here: ensure-profile creates it
		// on first login and most routes only need the user id.

		c.Set(ContextUserID, userID)
		c.Set(ContextEmail, email)
		c.Next()
	}
}

// Email returns the email claim of the authenticated token.
func Email(c *gin.Context) string {
	e, _ := c.Get(ContextEmail)
	s, _ := e.(string)
	return s
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c *gin.Context) string {
	id, _ := c.Get(ContextUserID)
	s, _ := id.(string)
	return s
}

// ProfileFrom returns the profile loaded by RequireAuth, if any.
func ProfileFrom(c *gin.Context) *models.Profile {
	p, _ := c.Get(ContextProfile)
	profile, _ := p.(*models.Profile)
	return profile
}
