package ctxutil

import (
	"context"

	"ordersvc/api/response"
	"ordersvc/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID 返回携带请求 ID 的请求上下文，供应用层日志和 GORM trace 使用。
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	if requestID == "" || persistence.RequestIDFromContext(ctx.Request.Context()) == requestID {
		return ctx.Request.Context()
	}
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}
