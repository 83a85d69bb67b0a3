package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/repos"
	"github.com/yungbote/circuitboard-backend/internal/requestdata"
)

// AuthMiddleware verifies bearer tokens issued by the external identity
// provider and resolves them into request data. The owner row is
// provisioned on first sight, so every identity that reaches a handler
// satisfies the circuit owner foreign key. Session issuance, refresh and
// account management all live outside this service.
type AuthMiddleware struct {
	log       *logger.Logger
	secretKey []byte
	users     repos.UserRepo
}

func NewAuthMiddleware(log *logger.Logger, secretKey string, users repos.UserRepo) *AuthMiddleware {
	return &AuthMiddleware{
		log:       log.With("middleware", "AuthMiddleware"),
		secretKey: []byte(secretKey),
		users:     users,
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return am.secretKey, nil
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// The provider issues UUID subjects; anything else is a malformed
		// token even though identity is keyed on the email claim below.
		sub, _ := claims["sub"].(string)
		if _, err := uuid.Parse(sub); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		email, _ := claims["email"].(string)
		email = strings.TrimSpace(strings.ToLower(email))
		if email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		user, err := am.users.GetOrCreateByEmail(c.Request.Context(), nil, email)
		if err != nil {
			am.log.Error("Identity resolution failed", "email", email, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not resolve identity"})
			return
		}

		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			UserID: user.ID,
			Email:  user.Email,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
