/*
Package product - 商品 API 控制器

参数绑定错误直接返回 400；业务错误交给 response.HandleAppError 映射状态码。
变更成功后通知观察者。
*/
package product

import (
	"context"
	"net/http"

	"storefront/api/ctxutil"
	"storefront/api/response"
	"storefront/application/notify"
	productapp "storefront/application/product"
	"storefront/domain/shared"
	"storefront/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type notifier interface {
	Notify(ctx context.Context, event notify.Event) error
}

// Controller 商品控制器
type Controller struct {
	productService *productapp.ApplicationService
	notifier       notifier
}

func NewController(productService *productapp.ApplicationService, n notifier) *Controller {
	return &Controller{productService: productService, notifier: n}
}

// RegisterRoutes 注册商品路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	g := router.Group("/products")
	{
		g.GET("", c.ListProducts)
		g.GET("/:id", c.GetProduct)
		g.POST("", c.CreateProduct)
		g.PUT("/:id", c.UpdateProduct)
		g.DELETE("/:id", c.DeleteProduct)
	}
}

// ListProducts GET /api/v1/products
func (c *Controller) ListProducts(ctx *gin.Context) {
	products, err := c.productService.GetAllProducts(ctxutil.Context(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, productapp.ToResponses(products), "products retrieved successfully")
}

// GetProduct GET /api/v1/products/:id
func (c *Controller) GetProduct(ctx *gin.Context) {
	p, err := c.productService.GetProductByID(ctxutil.Context(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, productapp.ToResponse(p), "product retrieved successfully")
}

// CreateProduct POST /api/v1/products
func (c *Controller) CreateProduct(ctx *gin.Context) {
	var req productapp.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	reqCtx := ctxutil.Context(ctx)
	p, err := c.productService.CreateProduct(reqCtx, req.Name, shared.NewMoney(req.Price))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.notify(reqCtx, notify.ProductCreated(p))
	response.HandleCreated(ctx, productapp.ToResponse(p), "product created successfully")
}

// UpdateProduct PUT /api/v1/products/:id
func (c *Controller) UpdateProduct(ctx *gin.Context) {
	var req productapp.UpdateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	reqCtx := ctxutil.Context(ctx)
	p, err := c.productService.UpdateProductDetails(reqCtx, ctx.Param("id"), req.Name, shared.NewMoney(req.Price))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.notify(reqCtx, notify.ProductUpdated(p))
	response.HandleSuccess(ctx, productapp.ToResponse(p), "product updated successfully")
}

// DeleteProduct DELETE /api/v1/products/:id
func (c *Controller) DeleteProduct(ctx *gin.Context) {
	reqCtx := ctxutil.Context(ctx)
	p, err := c.productService.DeleteProduct(reqCtx, ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.notify(reqCtx, notify.ProductDeleted(p))
	response.HandleSuccess(ctx, productapp.ToResponse(p), "product deleted successfully")
}

// notify 通知失败不影响已提交的结果
func (c *Controller) notify(ctx context.Context, event notify.Event) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("Notification delivery failed",
			zap.String("event", event.Name),
			zap.String("aggregate_id", event.AggregateID),
			zap.Error(err))
	}
}
