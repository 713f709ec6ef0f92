package middleware

import (
	"net/http"
	"strings"

	"github.com/billing/console/internal/domain/form"
	"github.com/billing/console/internal/domain/refdata"
	"github.com/billing/console/internal/infrastructure/logger"
	"github.com/billing/console/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// actorKey is the gin context key the resolved ActorContext is stored under
const actorKey = "actor"

// Actor resolves the acting user from the identity headers placed by
// the authenticating proxy: X-User-ID, X-User-Roles (comma separated),
// X-Organization-ID, and X-Company-ID. Requests without a user id are
// rejected.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "X-User-ID header is required", GetRequestID(c)))
			return
		}

		actor := form.ActorContext{
			UserID: refdata.Identifier(userID),
			Roles:  parseRoles(c.GetHeader("X-User-Roles")),
		}
		if org := strings.TrimSpace(c.GetHeader("X-Organization-ID")); org != "" {
			id := refdata.Identifier(org)
			actor.OrganizationID = &id
		}
		if company := strings.TrimSpace(c.GetHeader("X-Company-ID")); company != "" {
			id := refdata.Identifier(company)
			actor.CompanyID = &id
		}

		c.Set(actorKey, actor)

		log := logger.GetGinLogger(c)
		ctx, log := logger.WithUserID(c.Request.Context(), log, userID)
		if actor.OrganizationID != nil {
			ctx, log = logger.WithOrganizationID(ctx, log, actor.OrganizationID.String())
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActor returns the ActorContext resolved by the Actor middleware
func GetActor(c *gin.Context) (form.ActorContext, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return form.ActorContext{}, false
	}
	actor, ok := v.(form.ActorContext)
	return actor, ok
}

func parseRoles(header string) []form.Role {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	roles := make([]form.Role, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		roles = append(roles, form.Role(strings.ToUpper(p)))
	}
	return roles
}
