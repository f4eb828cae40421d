/*
Package order - 订单 API 控制器

职责:
1. 接收 HTTP 请求，解析参数
2. 调用应用服务处理业务逻辑
3. 使用 response 包统一处理响应和错误

错误处理原则:
1. 请求体无法解析: 使用 response.HandleError 直接返回 400
2. 业务错误和字段校验: 使用 response.HandleAppError 自动映射状态码
*/
package order

import (
	"net/http"
	"strings"

	"ordersvc/api/ctxutil"
	"ordersvc/api/response"
	orderapp "ordersvc/application/order"
	"ordersvc/domain/shared"

	"github.com/gin-gonic/gin"
)

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.ApplicationService
}

// NewController 创建订单控制器
func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{
		orderService: orderService,
	}
}

// RegisterRoutes 注册订单路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.GET("", c.ListOrders)
		orderGroup.POST("", c.CreateOrder)
		orderGroup.GET("/:id", c.GetOrder)
		orderGroup.PUT("/:id/status", c.UpdateOrderStatus)
		orderGroup.DELETE("/:id", c.CancelOrder)
		orderGroup.GET("/customer/:email", c.GetCustomerOrders)
	}
}

// ListOrders 分页查询订单
// GET /api/v1/orders?page=0&size=10&sort=orderDate,desc
func (c *Controller) ListOrders(ctx *gin.Context) {
	page, err := ctxutil.PageRequest(ctx, "order")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	result, err := c.orderService.ListOrders(ctxutil.WithRequestID(ctx), page)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandlePaginated(ctx, result.Items, response.Pagination{
		Page:       result.Page,
		PageSize:   result.Size,
		TotalItems: result.Total,
		TotalPages: result.TotalPages,
	}, "orders retrieved successfully")
}

// CreateOrder 创建订单
// POST /api/v1/orders
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := c.orderService.CreateOrder(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, order, "order created successfully")
}

// GetOrder 获取订单
// GET /api/v1/orders/:id
//
// 错误链路:
//
//	Repository 返回 order.NewOrderNotFoundError(id)
//	     ↓
//	Service 原样返回
//	     ↓
//	HandleAppError: FromDomainError -> ORDER_NOT_FOUND -> 404
func (c *Controller) GetOrder(ctx *gin.Context) {
	order, err := c.orderService.GetOrder(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order retrieved successfully")
}

// GetCustomerOrders 按客户邮箱查询订单
// GET /api/v1/orders/customer/:email
func (c *Controller) GetCustomerOrders(ctx *gin.Context) {
	orders, err := c.orderService.GetOrdersByCustomerEmail(ctxutil.WithRequestID(ctx), ctx.Param("email"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, orders, "customer orders retrieved successfully")
}

// UpdateOrderStatus 更新订单状态
// PUT /api/v1/orders/:id/status?newStatus=CONFIRMED
// 也接受请求体 {"status": "CONFIRMED"}，查询参数优先
func (c *Controller) UpdateOrderStatus(ctx *gin.Context) {
	status := strings.TrimSpace(ctx.Query("newStatus"))
	if status == "" && ctx.Request.ContentLength != 0 {
		var req orderapp.UpdateOrderStatusRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
			return
		}
		status = strings.TrimSpace(req.Status)
	}
	if status == "" {
		response.HandleAppError(ctx, shared.NewValidationError("order", "status", "status is required"))
		return
	}

	order, err := c.orderService.UpdateOrderStatus(ctxutil.WithRequestID(ctx), ctx.Param("id"), status)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, order, "order status updated successfully")
}

// CancelOrder 取消订单，已确认或已发货的订单会回补库存
// DELETE /api/v1/orders/:id
func (c *Controller) CancelOrder(ctx *gin.Context) {
	if err := c.orderService.CancelOrder(ctxutil.WithRequestID(ctx), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleNoContent(ctx)
}
