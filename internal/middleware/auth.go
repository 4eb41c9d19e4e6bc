package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"taskmate/internal/authz"
)

const PrincipalKey = "principal"

// Claims carries the principal's role grants. Org and team role maps are
// keyed by the entity id rendered as a decimal string.
type Claims struct {
	Roles      []string          `json:"roles,omitempty"`
	OrgRoles   map[string]string `json:"org_roles,omitempty"`
	TeamRoles  map[string]string `json:"team_roles,omitempty"`
	TelegramID int64             `json:"telegram_id,omitempty"`
	jwt.RegisteredClaims
}

func isPublicPath(path string) bool {
	return strings.HasPrefix(path, "/healthz")
}

// AuthMiddleware parses the bearer token and stores the resolved Principal
// in the request context.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		const leeway = 2 * time.Minute
		if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now().Add(-leeway)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(PrincipalKey, buildPrincipal(claims))
		c.Next()
	}
}

func buildPrincipal(claims *Claims) authz.Principal {
	p := authz.Principal{
		Subject:    claims.Subject,
		OrgRoles:   map[int64]authz.Role{},
		TeamRoles:  map[int64]authz.Role{},
		TelegramID: claims.TelegramID,
	}
	if id, err := strconv.ParseInt(claims.Subject, 10, 64); err == nil {
		p.UserID = id
	}
	for _, role := range claims.Roles {
		p.GlobalRoles = append(p.GlobalRoles, authz.Role(role))
	}
	for key, role := range claims.OrgRoles {
		if id, err := strconv.ParseInt(key, 10, 64); err == nil {
			p.OrgRoles[id] = authz.Role(role)
		}
	}
	for key, role := range claims.TeamRoles {
		if id, err := strconv.ParseInt(key, 10, 64); err == nil {
			p.TeamRoles[id] = authz.Role(role)
		}
	}
	return p
}
