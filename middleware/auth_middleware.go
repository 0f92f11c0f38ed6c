package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jotter/utils"
)

// ContextUserKey is where AuthMiddleware stores the authenticated owner id.
const ContextUserKey = "ownerId"

// AuthMiddleware resolves the authenticated owner from a Bearer token. The
// storage core trusts this id completely and performs no further
// authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			utils.UnauthorizedResponse(c, "Authorization token required")
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(token, jwtSecret)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid or expired token")
			c.Abort()
			return
		}

		ownerID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid user ID in token")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the authenticated owner set by AuthMiddleware.
func OwnerID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return primitive.NilObjectID, false
	}
	ownerID, ok := value.(primitive.ObjectID)
	return ownerID, ok
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(bearerPrefix):])
}
