package middleware

import (
	"carbon_market/internal/domain" // Importing domain models
	"carbon_market/internal/utils"  // JWT utility functions
	"net/http"                      // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// TokenCookie is the cookie carrying the session token
const TokenCookie = "token"

// Context keys set by CookieAuthMiddleware
const (
	userKey   = "user"
	userIDKey = "userID"
)

// CookieAuthMiddleware verifies the session cookie and resolves it to a stored user.
// Every failure ends the request with the same bare 401.
func CookieAuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(TokenCookie) // Read token from the cookie jar
		if err != nil || tokenStr == "" {
			abortUnauthorized(c)
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Verify signature and expiry
		if err != nil {
			abortUnauthorized(c)
			return
		}
		userID, err := utils.UserIDFromClaims(claims) // Subject claim must name a user
		if err != nil {
			abortUnauthorized(c)
			return
		}
		var user domain.User
		if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
			abortUnauthorized(c)
			return
		}
		c.Set(userKey, user)      // Store resolved user in context
		c.Set(userIDKey, user.ID) // Store userID in context
		c.Next()                  // Proceed to the next handler
	}
}

// CurrentUser returns the user attached by CookieAuthMiddleware
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}
