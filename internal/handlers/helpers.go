package handlers

import (
	"github.com/gin-gonic/gin"

	"taskmate/internal/authz"
	"taskmate/internal/middleware"
)

func principalFrom(c *gin.Context) (authz.Principal, bool) {
	v, ok := c.Get(middleware.PrincipalKey)
	if !ok {
		return authz.Principal{}, false
	}
	principal, ok := v.(authz.Principal)
	return principal, ok
}
