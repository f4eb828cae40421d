/*
Package response - API 层统一响应处理

设计原则:
1. HTTP 状态码映射放在 API 层，不污染领域层和应用层
2. 错误响应不暴露内部细节（堆栈、内部错误消息等）
3. 所有响应携带 RequestID 用于日志追踪
4. 内部错误统一返回 "internal server error"，真实错误只记录日志

堆栈提取策略:
1. 优先从领域错误（实现 shared.Stacker 接口）提取"错误发生点"堆栈
2. 如果错误不带堆栈，则在此处捕获"错误处理点"堆栈作为兜底

响应格式:

	成功: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	失败: { success: false, error: "ERROR_CODE", message: "用户可见消息", details: {...}, code: 4xx/5xx, request_id: "..." }
*/
package response

import (
	"runtime"

	"github.com/gin-gonic/gin"
)

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// GetRequestID 从 gin 上下文获取请求 ID
func GetRequestID(c *gin.Context) string {
	return getRequestID(c)
}

// captureStack 捕获调用栈（用于错误日志），只取前 5 帧
func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}
