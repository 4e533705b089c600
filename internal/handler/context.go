package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/healthrec-api/internal/model"
)

// Context keys set by the auth middleware.
const (
	ContextUser   = "current_user"
	ContextClaims = "token_claims"
)

// CurrentUser returns the authenticated user resolved for this request.
// Routes behind the auth middleware always have one; the bool guards
// misuse on public routes.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// CurrentClaims returns the validated token claims for this request.
func CurrentClaims(c *gin.Context) (*model.TokenClaims, bool) {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*model.TokenClaims)
	return claims, ok
}
