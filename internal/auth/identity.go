package auth

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kindlingapp/kindling-engine/internal/config"
	svcErr "github.com/kindlingapp/kindling-engine/internal/errors"
)

// callerKey is where the verified caller identity lives on the gin context.
const callerKey = "caller_id"

// CallerID returns the verified identity of the current request.
// Only meaningful behind the Authenticate middleware.
func CallerID(c *gin.Context) string {
	v, _ := c.Get(callerKey)
	id, _ := v.(string)
	return id
}

// Authenticate verifies the bearer token minted by the external identity
// provider and places its subject on the request context as the opaque
// caller identity. The engine never issues tokens itself.
func Authenticate(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			svcErr.Respond(c, svcErr.NotAuthenticated("authorization header required"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			svcErr.Respond(c, svcErr.NotAuthenticated("invalid authorization format"))
			c.Abort()
			return
		}

		sub, err := verifyToken(parts[1], cfg.Auth.JWTSecret)
		if err != nil {
			svcErr.Respond(c, svcErr.NotAuthenticated("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(callerKey, sub)
		c.Next()
	}
}

// verifyToken parses an HS256 token and returns its subject.
func verifyToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}
