package middleware

import (
	"PropTour/internal/pkg/logger"
	"PropTour/internal/pkg/response"
	"PropTour/internal/service"
	"context"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 校验 X-Session-ID 并将用户身份与积分余额注入 Context
func AuthMiddleware(accountSvc service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("X-Session-ID")
		if sessionID == "" {
			response.Fail(c, response.Unauthorized, "缺少会话凭据")
			c.Abort()
			return
		}

		userInfo, err := accountSvc.GetUserInfo(c.Request.Context(), sessionID)
		if err != nil || userInfo.User.UID == "" {
			response.Fail(c, response.Unauthorized, "会话无效或已过期")
			c.Abort()
			return
		}

		points, err := accountSvc.GetPoints(c.Request.Context(), userInfo.User.UID)
		if err != nil {
			log.WarnContext(c.Request.Context(), "failed to fetch points balance", "uid", userInfo.User.UID, "err", err)
			response.Fail(c, response.Unauthorized, "会话无效或已过期")
			c.Abort()
			return
		}

		c.Set("user_id", userInfo.User.UID)
		c.Set("points", points)

		newCtx := context.WithValue(c.Request.Context(), logger.UserIDKey, userInfo.User.UID)
		c.Request = c.Request.WithContext(newCtx)

		c.Next()
	}
}
