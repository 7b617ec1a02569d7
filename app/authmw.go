package app

import (
	"net/http"
	"strings"

	"github.com/RichKitibwa/BloodLink/db"
	"github.com/RichKitibwa/BloodLink/models"
	"github.com/RichKitibwa/BloodLink/session"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired. The acting hospital always comes
// from the session, never from the request body.
const (
	CtxUserID     = "userID"
	CtxUsername   = "username"
	CtxHospitalID = "hospitalID"
	CtxRole       = "role"
)

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func AuthRequired(sess *session.TokenStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := sess.Get(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		// Confirm the user still exists and is active; a stale token for
		// a deactivated user takes every other live session down with it.
		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil || !u.IsActive {
			_ = sess.RevokeAllForUser(c.Request.Context(), as.UserID)
			_ = sess.Delete(c.Request.Context(), token)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUsername, u.Username)
		c.Set(CtxHospitalID, u.HospitalID)
		c.Set(CtxRole, u.Role)
		c.Next()
	}
}

// RequireRole gates an endpoint to the given roles. Runs after
// AuthRequired.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		role, _ := v.(models.Role)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
	}
}
