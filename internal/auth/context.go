package auth

import "github.com/gin-gonic/gin"

const (
	contextKeyUserID    = "auth.user_id"
	contextKeyUserGroup = "auth.user_group"
)

// CurrentUserID returns the authenticated user's id, or "" when the request
// carried no valid token.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

// CurrentUserGroup returns the authenticated user's group, or "".
func CurrentUserGroup(c *gin.Context) string {
	return c.GetString(contextKeyUserGroup)
}
