package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/netvista/netvista-api/internal/logger"
	"github.com/netvista/netvista-api/internal/types/business"
	"go.uber.org/zap"
)

const portalContextKey = "portalContext"

// Claims is the JWT payload issued by the portal login service. The portal
// type and permission set drive every authorization decision downstream.
type Claims struct {
	PortalType  string   `json:"portal_type"`
	TenantID    string   `json:"tenant_id,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Middleware validates the Bearer token and attaches the portal context to
// the request. Requests without a valid token get 401.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header must be a Bearer token"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.Debug("Token validation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		portal := business.PortalContext{
			PortalType:  business.PortalType(claims.PortalType),
			UserID:      claims.Subject,
			TenantID:    claims.TenantID,
			Permissions: claims.Permissions,
		}

		c.Set(portalContextKey, portal)
		c.Next()
	}
}

// PortalFromContext returns the portal context attached by Middleware
func PortalFromContext(c *gin.Context) (business.PortalContext, bool) {
	value, exists := c.Get(portalContextKey)
	if !exists {
		return business.PortalContext{}, false
	}
	portal, ok := value.(business.PortalContext)
	return portal, ok
}

// SetPortalContext attaches a portal context directly. Test helper.
func SetPortalContext(c *gin.Context, portal business.PortalContext) {
	c.Set(portalContextKey, portal)
}
