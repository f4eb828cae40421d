// Package product 商品 API 控制器
package product

import (
	"net/http"

	"ordersvc/api/ctxutil"
	"ordersvc/api/response"
	productapp "ordersvc/application/product"

	"github.com/gin-gonic/gin"
)

// Controller 商品控制器
type Controller struct {
	productService *productapp.ApplicationService
}

// NewController 创建商品控制器
func NewController(productService *productapp.ApplicationService) *Controller {
	return &Controller{productService: productService}
}

// RegisterRoutes 注册商品路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	productGroup := router.Group("/products")
	{
		productGroup.GET("", c.ListProducts)
		productGroup.GET("/search", c.SearchProducts)
		productGroup.GET("/:id", c.GetProduct)
		productGroup.POST("", c.CreateProduct)
		productGroup.PUT("/:id", c.UpdateProduct)
		productGroup.DELETE("/:id", c.DeleteProduct)
	}
}

// ListProducts GET /api/v1/products?page=0&size=20&sort=name,asc
func (c *Controller) ListProducts(ctx *gin.Context) {
	page, err := ctxutil.PageRequest(ctx, "product")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	result, err := c.productService.ListProducts(ctxutil.WithRequestID(ctx), page)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	handlePage(ctx, result, "products retrieved successfully")
}

// SearchProducts GET /api/v1/products/search?name=lamp&category=lighting
// 两个条件都为空时只返回上架商品
func (c *Controller) SearchProducts(ctx *gin.Context) {
	page, err := ctxutil.PageRequest(ctx, "product")
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	result, err := c.productService.SearchProducts(ctxutil.WithRequestID(ctx), ctx.Query("name"), ctx.Query("category"), page)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	handlePage(ctx, result, "products retrieved successfully")
}

// GetProduct GET /api/v1/products/:id
func (c *Controller) GetProduct(ctx *gin.Context) {
	product, err := c.productService.GetProduct(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, product, "product retrieved successfully")
}

// CreateProduct POST /api/v1/products
func (c *Controller) CreateProduct(ctx *gin.Context) {
	var req productapp.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := c.productService.CreateProduct(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, product, "product created successfully")
}

// UpdateProduct PUT /api/v1/products/:id
func (c *Controller) UpdateProduct(ctx *gin.Context) {
	var req productapp.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := c.productService.UpdateProduct(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, product, "product updated successfully")
}

// DeleteProduct DELETE /api/v1/products/:id
// 被订单引用的商品返回 409
func (c *Controller) DeleteProduct(ctx *gin.Context) {
	if err := c.productService.DeleteProduct(ctxutil.WithRequestID(ctx), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}

func handlePage(ctx *gin.Context, result *productapp.ProductPage, message string) {
	response.HandlePaginated(ctx, result.Items, response.Pagination{
		Page:       result.Page,
		PageSize:   result.Size,
		TotalItems: result.Total,
		TotalPages: result.TotalPages,
	}, message)
}
